package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/syssam/atomflag/compiler/gen"
	"github.com/syssam/atomflag/compiler/load"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const flagsSource = `package flags

//atomflag:gen
type Perm uint8

func (p Perm) IsEmpty() bool { return p == 0 }

//atomflag:gen ownership="Arc"
type Status uint32

//atomflag:gen ownership="Rc"
type FileMode int16

//atomflag:gen ownership="shared-mt"
type Wide uintptr

// Unmarked is not generated.
type Unmarked uint64
`

// writeModule creates a throwaway module holding files.
func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["go.mod"] = "module example.com/flags\n\ngo 1.24\n"
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestGenerate(t *testing.T) {
	dir := writeModule(t, map[string]string{"flags.go": flagsSource})
	cfg := gen.MustNewConfig(gen.WithDir(dir), gen.WithWorkers(2))
	ctx := context.Background()

	require.NoError(t, Generate(ctx, cfg, "."))
	for _, name := range []string{"perm_atomic.go", "status_atomic.go", "file_mode_atomic.go", "wide_atomic.go"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "unmarked_atomic.go"))

	// The generated code must type-check with the declarations it wraps.
	_, err := load.Load(ctx, &load.Config{Dir: dir}, ".")
	require.NoError(t, err)

	// A second run sees its own output and rewrites nothing.
	before, err := os.ReadFile(filepath.Join(dir, "perm_atomic.go"))
	require.NoError(t, err)
	require.NoError(t, Generate(ctx, cfg, "."))
	after, err := os.ReadFile(filepath.Join(dir, "perm_atomic.go"))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestGenerateInvalidDeclaration(t *testing.T) {
	dir := writeModule(t, map[string]string{"flags.go": `package flags

//atomflag:gen
type Perm uint8

//atomflag:gen ownership="Foo"
type Broken uint8

//atomflag:gen ownership=1
type Numeric uint8
`})

	err := Generate(context.Background(), gen.MustNewConfig(gen.WithDir(dir)), ".")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gen.ErrUnsupportedOwnership))
	assert.True(t, errors.Is(err, gen.ErrMalformedConfig))
	assert.Contains(t, err.Error(), "flags.go:6:")
	assert.Contains(t, err.Error(), `"Foo"`)
	assert.Contains(t, err.Error(), "expected string literal")

	assert.FileExists(t, filepath.Join(dir, "perm_atomic.go"))
	assert.NoFileExists(t, filepath.Join(dir, "broken_atomic.go"))
	assert.NoFileExists(t, filepath.Join(dir, "numeric_atomic.go"))
}

func TestGenerateManifest(t *testing.T) {
	dir := writeModule(t, map[string]string{"flags.go": "package flags\n\ntype Perm uint8\n\ntype Other uint8\n"})
	m, err := load.ParseManifest([]byte("types:\n  - name: Perm\n    ownership: Rc\n"))
	require.NoError(t, err)

	cfg := gen.MustNewConfig(gen.WithDir(dir), gen.WithManifest(m))
	require.NoError(t, Generate(context.Background(), cfg, "."))

	src, err := os.ReadFile(filepath.Join(dir, "perm_atomic.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "func (a AtomicPerm) Clone() AtomicPerm")
	assert.NoFileExists(t, filepath.Join(dir, "other_atomic.go"))
}

func TestGenerateNothingMarked(t *testing.T) {
	dir := writeModule(t, map[string]string{"flags.go": "package flags\n\ntype Perm uint8\n"})

	require.NoError(t, Generate(context.Background(), gen.MustNewConfig(gen.WithDir(dir)), "."))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLoad(t *testing.T) {
	dir := writeModule(t, map[string]string{"flags.go": flagsSource})

	sets, err := Load(context.Background(), gen.MustNewConfig(gen.WithDir(dir)), ".")
	require.NoError(t, err)
	require.Len(t, sets, 4)
	assert.Equal(t, "FileMode", sets[0].Name)
	assert.True(t, sets[1].Methods.IsEmpty)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "Load must not write files")
}
