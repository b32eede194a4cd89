package gen

import (
	"github.com/dave/jennifer/jen"
)

const (
	atomicPkg = "sync/atomic"
	fmtPkg    = "fmt"
)

// Emit generates the file holding the wrapper type and its methods.
// The file belongs to the package declaring the flag set.
func Emit(w *Wrapper, header string) *jen.File {
	f := jen.NewFilePathName(w.FlagSet.PkgPath, w.FlagSet.PkgName)
	if header != "" {
		f.HeaderComment(header)
	}
	e := &emitter{f: f, w: w}
	e.genType()
	e.genConstructors()
	e.genAccessors()
	e.genBitwise()
	e.genCompare()
	e.genRender()
	return f
}

// emitter holds the state shared by the gen* methods of one wrapper.
type emitter struct {
	f *jen.File
	w *Wrapper
}

// genType generates the wrapper struct and its documentation.
func (e *emitter) genType() {
	w, flag := e.w, e.w.FlagSet.Name
	e.f.Commentf("%s holds a %s in an atomic integer.", w.Name, flag)
	e.f.Comment("Each method is a single atomic operation on the cell and establishes")
	e.f.Comment("no ordering with other memory.")
	switch w.Ownership {
	case SharedMultiThread:
		e.f.Commentf("Copies of an %s, made by assignment or Clone, share one cell", w.Name)
		e.f.Comment("and may be used from any goroutine. The zero value has no cell;")
		e.f.Commentf("use %s or %s. Methods called on the zero value panic.", w.Constructor(), w.DefaultConstructor())
	case SharedSingleThread:
		e.f.Commentf("Copies of an %s, made by assignment or Clone, share one cell.", w.Name)
		e.f.Comment("Handles are meant to stay on the goroutine that created them.")
		e.f.Commentf("The zero value has no cell; use %s or %s.", w.Constructor(), w.DefaultConstructor())
		e.f.Comment("Methods called on the zero value panic.")
	default:
		e.f.Commentf("The zero value is an empty flag set ready to use. An %s must", w.Name)
		e.f.Comment("not be copied after first use.")
	}
	cell := jen.Qual(atomicPkg, w.Cell.Type)
	if w.Ownership.Shared() {
		e.f.Type().Id(w.Name).Struct(jen.Id("v").Op("*").Add(cell))
		return
	}
	e.f.Type().Id(w.Name).Struct(jen.Id("v").Add(cell))
}

// genConstructors generates New, Default and, for shared shapes, Clone.
func (e *emitter) genConstructors() {
	w := e.w
	bits := jen.Id("bits").Id(w.FlagSet.Bits)
	if w.Ownership.Shared() {
		e.f.Commentf("%s returns an %s holding bits in a newly allocated cell.", w.Constructor(), w.Name)
		e.f.Func().Id(w.Constructor()).Params(bits).Id(w.Name).Block(
			jen.Id("v").Op(":=").New(jen.Qual(atomicPkg, w.Cell.Type)),
			jen.Id("v").Dot("Store").Call(e.fromBits(jen.Id("bits"))),
			jen.Return(jen.Id(w.Name).Values(jen.Dict{jen.Id("v"): jen.Id("v")})),
		)

		e.f.Commentf("%s returns an %s with all flags cleared.", w.DefaultConstructor(), w.Name)
		e.f.Func().Id(w.DefaultConstructor()).Params().Id(w.Name).Block(
			jen.Return(jen.Id(w.Name).Values(jen.Dict{jen.Id("v"): jen.New(jen.Qual(atomicPkg, w.Cell.Type))})),
		)

		if w.Clone {
			e.f.Comment("Clone returns a handle sharing the cell of a.")
			e.method("Clone", nil, jen.Id(w.Name),
				jen.Return(jen.Id(w.Name).Values(jen.Dict{jen.Id("v"): e.cell()})),
			)
		}
		return
	}

	e.f.Commentf("%s returns an %s holding bits.", w.Constructor(), w.Name)
	e.f.Func().Id(w.Constructor()).Params(bits).Op("*").Id(w.Name).Block(
		jen.Id("a").Op(":=").Op("&").Id(w.Name).Values(),
		jen.Id("a").Dot("v").Dot("Store").Call(e.fromBits(jen.Id("bits"))),
		jen.Return(jen.Id("a")),
	)

	e.f.Commentf("%s returns an %s with all flags cleared.", w.DefaultConstructor(), w.Name)
	e.f.Func().Id(w.DefaultConstructor()).Params().Op("*").Id(w.Name).Block(
		jen.Return(jen.Op("&").Id(w.Name).Values()),
	)
}

// genAccessors generates the read-only methods and Clear.
func (e *emitter) genAccessors() {
	fs := e.w.FlagSet
	flag := jen.Id(fs.Name)

	e.f.Comment("Bits returns the raw bits of the flag set.")
	e.method("Bits", nil, jen.Id(fs.Bits),
		jen.Return(e.toBits(e.cell().Dot("Load").Call())),
	)

	e.f.Comment("Get returns the flag set. Bits that name no flag are retained.")
	e.method("Get", nil, flag,
		jen.Return(jen.Id(fs.Name).Call(jen.Id("a").Dot("Bits").Call())),
	)

	e.f.Comment("IsEmpty reports whether no flag is set.")
	isEmpty := jen.Id("a").Dot("Get").Call().Op("==").Lit(0)
	if fs.Methods.IsEmpty {
		isEmpty = jen.Id("a").Dot("Get").Call().Dot("IsEmpty").Call()
	}
	e.method("IsEmpty", nil, jen.Bool(), jen.Return(isEmpty))

	e.f.Comment("Contains reports whether all flags in other are set.")
	contains := jen.Id("a").Dot("Get").Call().Op("&").Id("other").Op("==").Id("other")
	if fs.Methods.Contains {
		contains = jen.Id("a").Dot("Get").Call().Dot("Contains").Call(jen.Id("other"))
	}
	e.method("Contains", e.other(), jen.Bool(), jen.Return(contains))

	e.f.Comment("Clear unsets all flags.")
	e.method("Clear", nil, nil,
		e.cell().Dot("Store").Call(jen.Lit(0)),
	)
}

// bitwiseOp describes one read-modify-write operation and its assigning form.
type bitwiseOp struct {
	name, assign string
	// prim is the sync/atomic method, complement negates the operand.
	prim       string
	complement bool
	doc        string
}

var bitwiseOps = []bitwiseOp{
	{name: "And", assign: "Intersect", prim: "And", doc: "keeps only the flags also set in other"},
	{name: "Or", assign: "Insert", prim: "Or", doc: "sets the flags in other"},
	{name: "AndNot", assign: "Remove", prim: "And", complement: true, doc: "unsets the flags in other"},
}

// genBitwise generates the mutating operations. The returning forms return
// the flag set held before the operation, as the atomic primitive does.
func (e *emitter) genBitwise() {
	fs := e.w.FlagSet
	for _, op := range bitwiseOps {
		operand := e.fromFlag(jen.Id("other"))
		if op.complement {
			operand = jen.Op("^").Add(operand)
		}

		e.f.Commentf("%s %s and returns the previous flag set.", op.name, op.doc)
		e.method(op.name, e.other(), jen.Id(fs.Name),
			jen.Return(jen.Id(fs.Name).Call(e.cell().Dot(op.prim).Call(operand))),
		)

		e.f.Commentf("%s %s.", op.assign, op.doc)
		e.method(op.assign, e.other(), nil,
			e.cell().Dot(op.prim).Call(operand),
		)
	}
}

// genCompare generates the comparison with the plain flag set.
func (e *emitter) genCompare() {
	e.f.Comment("Equal reports whether the flag set currently held equals other.")
	e.method("Equal", e.other(), jen.Bool(),
		jen.Return(jen.Id("a").Dot("Get").Call().Op("==").Id("other")),
	)
}

// genRender generates String and GoString. Both format the decoded flag set.
func (e *emitter) genRender() {
	e.f.Comment("String formats the flag set currently held.")
	e.method("String", nil, jen.String(),
		jen.Return(jen.Qual(fmtPkg, "Sprint").Call(jen.Id("a").Dot("Get").Call())),
	)

	e.f.Comment("GoString formats the flag set currently held using Go syntax.")
	e.method("GoString", nil, jen.String(),
		jen.Return(jen.Qual(fmtPkg, "Sprintf").Call(jen.Lit("%#v"), jen.Id("a").Dot("Get").Call())),
	)
}

// method declares a method on the wrapper. result may be nil.
func (e *emitter) method(name string, params []jen.Code, result jen.Code, body ...jen.Code) {
	s := e.f.Func().Params(e.receiver()).Id(name).Params(params...)
	if result != nil {
		s.Add(result)
	}
	s.Block(body...)
}

func (e *emitter) receiver() *jen.Statement {
	if e.w.PointerReceiver() {
		return jen.Id("a").Op("*").Id(e.w.Name)
	}
	return jen.Id("a").Id(e.w.Name)
}

// other is the parameter list of methods taking a plain flag set.
func (e *emitter) other() []jen.Code {
	return []jen.Code{jen.Id("other").Id(e.w.FlagSet.Name)}
}

// cell returns the expression reaching the atomic cell.
func (e *emitter) cell() *jen.Statement {
	return jen.Id("a").Dot("v")
}

// fromFlag converts a flag-set expression to the cell integer.
func (e *emitter) fromFlag(x jen.Code) *jen.Statement {
	return jen.Id(e.w.Cell.Int).Call(x)
}

// fromBits converts a raw bits expression to the cell integer.
func (e *emitter) fromBits(x jen.Code) *jen.Statement {
	if e.w.Widened() {
		return jen.Id(e.w.Cell.Int).Call(x)
	}
	return jen.Add(x)
}

// toBits converts a cell integer expression to the raw bits type.
func (e *emitter) toBits(x jen.Code) *jen.Statement {
	if e.w.Widened() {
		return jen.Id(e.w.FlagSet.Bits).Call(x)
	}
	return jen.Add(x)
}
