package gen

import (
	"github.com/go-openapi/inflect"

	"github.com/syssam/atomflag/compiler/load"
)

// WrapperPrefix is prepended to the flag-set name to name its wrapper.
const WrapperPrefix = "Atomic"

// Cell describes the sync/atomic type backing a wrapper.
type Cell struct {
	// Type is the type name in sync/atomic, e.g. "Uint32".
	Type string
	// Int is the integer type the cell loads and stores, e.g. "uint32".
	Int string
}

// cells maps flag-set integer types to their atomic cell. sync/atomic has
// no 8 or 16 bit types, so narrow flag sets are widened to 32 bits.
var cells = map[string]Cell{
	"uint8":   {Type: "Uint32", Int: "uint32"},
	"uint16":  {Type: "Uint32", Int: "uint32"},
	"uint32":  {Type: "Uint32", Int: "uint32"},
	"uint64":  {Type: "Uint64", Int: "uint64"},
	"uint":    {Type: "Uint64", Int: "uint64"},
	"uintptr": {Type: "Uintptr", Int: "uintptr"},
	"int8":    {Type: "Int32", Int: "int32"},
	"int16":   {Type: "Int32", Int: "int32"},
	"int32":   {Type: "Int32", Int: "int32"},
	"int64":   {Type: "Int64", Int: "int64"},
	"int":     {Type: "Int64", Int: "int64"},
}

// CellOf returns the atomic cell for a flag-set integer type.
func CellOf(bits string) (Cell, bool) {
	c, ok := cells[bits]
	return c, ok
}

// Wrapper is the synthesized description of one generated type.
// It is computed once per flag set and never mutated.
type Wrapper struct {
	// FlagSet is the source declaration.
	FlagSet *load.FlagSet
	// Ownership is the resolved storage shape.
	Ownership Ownership
	// Name of the generated type.
	Name string
	// Cell backing the wrapper.
	Cell Cell
	// Clone reports whether a Clone method sharing the cell is generated.
	Clone bool
	// Default reports whether a constructor for the empty flag set is
	// generated. It is true for every shape.
	Default bool
}

// NewWrapper synthesizes the wrapper of fs for the given ownership.
func NewWrapper(fs *load.FlagSet, o Ownership) (*Wrapper, error) {
	if !o.Valid() {
		return nil, NewGenerationError("synthesize", "", "no storage shape for "+o.String(), nil)
	}
	cell, ok := CellOf(fs.Bits)
	if !ok {
		return nil, NewGenerationError("synthesize", "", "no atomic cell for integer type "+fs.Bits, nil)
	}
	return &Wrapper{
		FlagSet:   fs,
		Ownership: o,
		Name:      WrapperPrefix + fs.Name,
		Cell:      cell,
		Clone:     o.Shared(),
		Default:   true,
	}, nil
}

// Widened reports whether the cell is wider than the flag-set integer.
func (w *Wrapper) Widened() bool {
	return w.Cell.Int != w.FlagSet.Bits
}

// PointerReceiver reports whether methods are declared on the pointer type.
// An unwrapped cell lives inside the wrapper and must not be copied.
func (w *Wrapper) PointerReceiver() bool {
	return !w.Ownership.Shared()
}

// Constructor returns the name of the constructor function.
func (w *Wrapper) Constructor() string {
	return "New" + w.Name
}

// DefaultConstructor returns the name of the empty-set constructor function.
func (w *Wrapper) DefaultConstructor() string {
	return "Default" + w.Name
}

// FileName returns the name of the generated file, e.g. "file_mode_atomic.go" for FileMode.
func (w *Wrapper) FileName(suffix string) string {
	return inflect.Underscore(w.FlagSet.Name) + suffix
}
