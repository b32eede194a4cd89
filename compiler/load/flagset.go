package load

import (
	"go/token"
	"go/types"
)

// FlagSet represents a bit-flag type that was loaded from a compiled user package.
type FlagSet struct {
	// Name is the Go type name of the flag set, e.g. "Perm".
	Name string `json:"name,omitempty"`
	// PkgName and PkgPath identify the package declaring the type.
	PkgName string `json:"pkg_name,omitempty"`
	PkgPath string `json:"pkg_path,omitempty"`
	// Dir is the directory of the declaring file. Generated files are written there.
	Dir string `json:"dir,omitempty"`
	// Bits is the underlying integer type of the flag set, e.g. "uint8".
	Bits string `json:"bits,omitempty"`
	// Methods records which optional flag-set methods the type provides.
	Methods Methods `json:"methods,omitempty"`
	// Directives holds every configuration entry attached to the declaration.
	// More than one entry is a configuration error, reported by the resolver.
	Directives []*Directive `json:"directives,omitempty"`
	// Pos is the position of the type declaration.
	Pos token.Position `json:"-"`
}

// Methods describes the optional methods of a flag set. Only value-receiver
// methods are recorded, since the generated code calls them on a decoded copy.
type Methods struct {
	IsEmpty  bool `json:"is_empty,omitempty"`
	Contains bool `json:"contains,omitempty"`
	String   bool `json:"string,omitempty"`
}

// Source tells where a directive came from.
type Source string

// Directive sources.
const (
	SourceComment  Source = "comment"
	SourceManifest Source = "manifest"
)

// Directive is the raw configuration attached to a flag-set declaration.
// Args is everything after the "atomflag:gen" marker, trimmed. An empty
// Args means the declaration was marked without configuration.
type Directive struct {
	Args   string         `json:"args,omitempty"`
	Source Source         `json:"source,omitempty"`
	Pos    token.Position `json:"-"`
}

// bitsKinds maps the integer kinds a flag set may be built on to their Go names.
var bitsKinds = map[types.BasicKind]string{
	types.Int:     "int",
	types.Int8:    "int8",
	types.Int16:   "int16",
	types.Int32:   "int32",
	types.Int64:   "int64",
	types.Uint:    "uint",
	types.Uint8:   "uint8",
	types.Uint16:  "uint16",
	types.Uint32:  "uint32",
	types.Uint64:  "uint64",
	types.Uintptr: "uintptr",
}

// NewFlagSet builds a FlagSet from a named type. It returns an error if the
// underlying type is not an integer.
func NewFlagSet(named *types.Named, pos token.Position) (*FlagSet, error) {
	obj := named.Obj()
	basic, ok := named.Underlying().(*types.Basic)
	if !ok {
		return nil, &FlagSetError{Type: obj.Name(), Pos: pos, Message: "underlying type must be an integer, got " + named.Underlying().String()}
	}
	bits, ok := bitsKinds[basic.Kind()]
	if !ok {
		return nil, &FlagSetError{Type: obj.Name(), Pos: pos, Message: "underlying type must be an integer, got " + basic.Name()}
	}
	fs := &FlagSet{
		Name: obj.Name(),
		Bits: bits,
		Pos:  pos,
	}
	if pkg := obj.Pkg(); pkg != nil {
		fs.PkgName = pkg.Name()
		fs.PkgPath = pkg.Path()
	}
	fs.Methods = methodsOf(named)
	return fs, nil
}

// methodsOf inspects the value method set of t.
func methodsOf(t *types.Named) Methods {
	var m Methods
	mset := types.NewMethodSet(t)
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok {
			continue
		}
		switch fn.Name() {
		case "IsEmpty":
			m.IsEmpty = sig.Params().Len() == 0 && returnsOnly(sig, types.Typ[types.Bool])
		case "Contains":
			m.Contains = sig.Params().Len() == 1 &&
				types.Identical(sig.Params().At(0).Type(), t) &&
				returnsOnly(sig, types.Typ[types.Bool])
		case "String":
			m.String = sig.Params().Len() == 0 && returnsOnly(sig, types.Typ[types.String])
		}
	}
	return m
}

func returnsOnly(sig *types.Signature, t types.Type) bool {
	return sig.Results().Len() == 1 && types.Identical(sig.Results().At(0).Type(), t)
}

// FlagSetError reports a declaration that cannot be used as a flag set.
type FlagSetError struct {
	Type    string
	Pos     token.Position
	Message string
}

// Error implements the error interface.
func (e *FlagSetError) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": atomflag: flag set " + e.Type + ": " + e.Message
	}
	return "atomflag: flag set " + e.Type + ": " + e.Message
}
