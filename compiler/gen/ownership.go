package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/syssam/atomflag/compiler/load"
)

// Ownership is the storage shape of a generated wrapper.
type Ownership uint8

const (
	// Unwrapped holds the atomic cell directly. The wrapper owns the cell
	// and must not be copied after first use.
	Unwrapped Ownership = iota
	// SharedMultiThread holds the cell behind a pointer. Copies of the
	// handle share the cell and may be used from any goroutine.
	SharedMultiThread
	// SharedSingleThread holds the cell behind a pointer like
	// SharedMultiThread. Handles are meant to stay on one goroutine;
	// the generated code does not enforce it.
	SharedSingleThread
)

// OptionOwnership is the only configuration option name.
const OptionOwnership = "ownership"

// ownershipTokens maps the recognized configuration strings to shapes.
// "none" selects the same shape as no configuration. An empty string is
// not a shape.
var ownershipTokens = map[string]Ownership{
	"none":      Unwrapped,
	"Arc":       SharedMultiThread,
	"shared-mt": SharedMultiThread,
	"Rc":        SharedSingleThread,
	"shared-st": SharedSingleThread,
}

// String returns the canonical configuration token of the shape.
func (o Ownership) String() string {
	switch o {
	case Unwrapped:
		return "none"
	case SharedMultiThread:
		return "Arc"
	case SharedSingleThread:
		return "Rc"
	default:
		return "Ownership(" + strconv.Itoa(int(o)) + ")"
	}
}

// Shared reports whether handles of the wrapper share one cell.
func (o Ownership) Shared() bool {
	return o == SharedMultiThread || o == SharedSingleThread
}

// Valid reports whether o is one of the known shapes.
func (o Ownership) Valid() bool {
	return o <= SharedSingleThread
}

// ResolveOwnership returns the ownership configured on a flag-set declaration.
// A declaration without configuration resolves to Unwrapped.
func ResolveOwnership(fs *load.FlagSet) (Ownership, error) {
	switch n := len(fs.Directives); n {
	case 0:
		return Unwrapped, nil
	case 1:
		return ParseOwnership(fs.Directives[0].Args)
	default:
		return 0, NewConfigError(OptionOwnership, nil, fmt.Sprintf("configured %d times, declare it once", n))
	}
}

// ParseOwnership parses the arguments of a directive, e.g. `ownership="Arc"`.
// Empty arguments resolve to Unwrapped.
func ParseOwnership(args string) (Ownership, error) {
	if strings.TrimSpace(args) == "" {
		return Unwrapped, nil
	}
	name, value, ok := strings.Cut(args, "=")
	name = strings.TrimSpace(name)
	if !ok || !token.IsIdentifier(name) {
		return 0, NewConfigError("", args, "expected a single name=value option")
	}
	if name != OptionOwnership {
		return 0, NewConfigError(name, nil, "unknown option, expected "+OptionOwnership)
	}
	value = strings.TrimSpace(value)
	expr, err := parser.ParseExpr(value)
	if err != nil {
		return 0, NewConfigError(name, value, "expected a single value")
	}
	lit, ok := expr.(*ast.BasicLit)
	if !ok {
		return 0, NewConfigError(name, value, "expected literal expression")
	}
	if lit.Kind != token.STRING {
		return 0, NewConfigError(name, lit.Value, "expected string literal")
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return 0, NewConfigError(name, lit.Value, "invalid string literal")
	}
	o, ok := ownershipTokens[s]
	if !ok {
		return 0, &OwnershipError{Value: s}
	}
	return o, nil
}
