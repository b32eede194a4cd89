package gen

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/atomflag/compiler/load"
)

func TestNewWrapper(t *testing.T) {
	tests := []struct {
		bits    string
		cell    string
		widened bool
	}{
		{"uint8", "Uint32", true},
		{"uint16", "Uint32", true},
		{"uint32", "Uint32", false},
		{"uint64", "Uint64", false},
		{"uint", "Uint64", true},
		{"uintptr", "Uintptr", false},
		{"int8", "Int32", true},
		{"int16", "Int32", true},
		{"int32", "Int32", false},
		{"int64", "Int64", false},
		{"int", "Int64", true},
	}
	for _, tt := range tests {
		t.Run(tt.bits, func(t *testing.T) {
			w, err := NewWrapper(&load.FlagSet{Name: "Perm", Bits: tt.bits}, Unwrapped)
			require.NoError(t, err)
			assert.Equal(t, "AtomicPerm", w.Name)
			assert.Equal(t, tt.cell, w.Cell.Type)
			assert.Equal(t, tt.widened, w.Widened())
		})
	}
}

func TestWrapperShapes(t *testing.T) {
	fs := &load.FlagSet{Name: "FileMode", Bits: "uint32"}

	unwrapped, err := NewWrapper(fs, Unwrapped)
	require.NoError(t, err)
	assert.True(t, unwrapped.PointerReceiver())
	assert.False(t, unwrapped.Clone)
	assert.True(t, unwrapped.Default)

	for _, o := range []Ownership{SharedMultiThread, SharedSingleThread} {
		w, err := NewWrapper(fs, o)
		require.NoError(t, err)
		assert.False(t, w.PointerReceiver(), o.String())
		assert.True(t, w.Clone, o.String())
		assert.True(t, w.Default, o.String())
		assert.Equal(t, unwrapped.Name, w.Name, "the name does not depend on the shape")
	}

	assert.Equal(t, "NewAtomicFileMode", unwrapped.Constructor())
	assert.Equal(t, "DefaultAtomicFileMode", unwrapped.DefaultConstructor())
	assert.Equal(t, "file_mode_atomic.go", unwrapped.FileName(DefaultSuffix))
	assert.Equal(t, "file_mode.gen.go", unwrapped.FileName(".gen.go"))
}

func TestNewWrapperErrors(t *testing.T) {
	t.Run("unknown ownership", func(t *testing.T) {
		_, err := NewWrapper(&load.FlagSet{Name: "Perm", Bits: "uint8"}, Ownership(9))
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.Contains(t, err.Error(), "no storage shape")
	})

	t.Run("not an integer", func(t *testing.T) {
		_, err := NewWrapper(&load.FlagSet{Name: "Perm", Bits: "float64"}, Unwrapped)
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.Contains(t, err.Error(), "float64")
	})
}

func TestSynthesize(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fs := &load.FlagSet{Name: "Status", Bits: "uint32", Directives: []*load.Directive{{Args: `ownership="Arc"`}}}
		w, err := Synthesize(fs)
		require.NoError(t, err)
		assert.Equal(t, SharedMultiThread, w.Ownership)
		assert.Same(t, fs, w.FlagSet)
	})

	t.Run("error points at directive", func(t *testing.T) {
		fs := &load.FlagSet{
			Name: "Status",
			Bits: "uint32",
			Pos:  token.Position{Filename: "flags.go", Line: 10},
			Directives: []*load.Directive{{
				Args: `ownership="Box"`,
				Pos:  token.Position{Filename: "flags.go", Line: 9},
			}},
		}

		_, err := Synthesize(fs)
		require.Error(t, err)
		assert.True(t, IsDeclarationError(err))
		assert.True(t, IsOwnershipError(err))
		assert.Contains(t, err.Error(), "flags.go:9: Status")
	})

	t.Run("error points at declaration", func(t *testing.T) {
		fs := &load.FlagSet{Name: "Ratio", Bits: "float32", Pos: token.Position{Filename: "flags.go", Line: 20}}

		_, err := Synthesize(fs)
		require.Error(t, err)
		assert.True(t, IsDeclarationError(err))
		assert.Contains(t, err.Error(), "flags.go:20: Ratio")
	})
}
