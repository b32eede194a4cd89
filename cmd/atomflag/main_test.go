package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syssam/atomflag/compiler/gen"
)

// setupModule creates a module with a flag set and makes it the working
// directory of the test.
func setupModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["go.mod"] = "module example.com/flags\n\ngo 1.24\n"
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenCmd(t *testing.T) {
	dir := setupModule(t, map[string]string{
		"flags.go": "package flags\n\n//atomflag:gen\ntype Perm uint8\n\n//atomflag:gen ownership=\"Arc\"\ntype Status uint32\n",
	})

	_, err := execute(t, "gen", "--workers", "2", ".")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "perm_atomic.go"))
	assert.FileExists(t, filepath.Join(dir, "status_atomic.go"))
}

func TestGenCmdFailure(t *testing.T) {
	dir := setupModule(t, map[string]string{
		"flags.go": "package flags\n\n//atomflag:gen ownership=\"Foo\"\ntype Perm uint8\n",
	})

	_, err := execute(t, "gen", ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported ownership shape "Foo"`)
	assert.NoFileExists(t, filepath.Join(dir, "perm_atomic.go"))
}

func TestGenCmdDefaultManifest(t *testing.T) {
	dir := setupModule(t, map[string]string{
		"flags.go":      "package flags\n\ntype Perm uint8\n",
		"atomflag.yaml": "types:\n  - name: Perm\n    ownership: Arc\n",
	})

	_, err := execute(t, "gen", "--suffix", ".gen.go", ".")
	require.NoError(t, err)
	src, err := os.ReadFile(filepath.Join(dir, "perm.gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "func (a AtomicPerm) Clone() AtomicPerm")
}

func TestGenCmdInvalidFlags(t *testing.T) {
	setupModule(t, map[string]string{"flags.go": "package flags\n"})

	_, err := execute(t, "gen", "--suffix", "_atomic_test.go", "--workers", "-1", ".")
	require.Error(t, err)
	assert.True(t, gen.IsConfigError(err))
	assert.Contains(t, err.Error(), "Suffix")
	assert.Contains(t, err.Error(), "Workers")

	_, err = execute(t, "gen", "--manifest", "missing.yaml", ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading manifest")
}

func TestPreviewCmd(t *testing.T) {
	dir := setupModule(t, map[string]string{
		"flags.go": "package flags\n\n//atomflag:gen ownership=\"Rc\"\ntype Mode int16\n",
	})

	out, err := execute(t, "preview", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "mode_atomic.go")
	assert.Contains(t, out, "type AtomicMode struct")
	assert.NoFileExists(t, filepath.Join(dir, "mode_atomic.go"))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "atomflag ")

	version = "v1.2.3"
	t.Cleanup(func() { version = "" })
	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "atomflag v1.2.3\n", out)
}

func TestGenFlagsConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	f := genFlags{header: gen.DefaultHeader, suffix: gen.DefaultSuffix, tags: "a,b"}
	cfg, err := f.config(zap.NewNop(), "src")
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.Dir)
	assert.Equal(t, []string{"-tags=a,b"}, cfg.BuildFlags)
	assert.Nil(t, cfg.Manifest)
}
