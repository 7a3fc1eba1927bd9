package generate

import (
	"fmt"
	"strings"

	"helixc/ir"
	"helixc/report"
	"helixc/types"
)

// convType converts a type into the C type used to store its values.  Void
// values are stored as words so that they can be held by locals.
func (g *Generator) convType(typ types.Type) string {
	switch v := types.Widen(typ).(type) {
	case types.PrimitiveType:
		return "_Word"
	case *types.PointerType:
		return g.convType(v.ElemType) + "*"
	case *types.ArrayType:
		return g.arrayType(v)
	case *types.NominalType:
		return v.CName()
	}

	report.Invariant("no C type for `%s`", typ.Repr())
	return ""
}

// convReturnType converts the return type of a function.
func (g *Generator) convReturnType(typ types.Type) string {
	if types.IsVoid(typ) {
		return "void"
	}

	return g.convType(typ)
}

// arrayType returns the name of the struct holding arrays of at.  The struct
// is declared the first time it is used.
func (g *Generator) arrayType(at *types.ArrayType) string {
	name := mangleType(at)
	if _, ok := g.arrayNames[name]; ok {
		return name
	}

	g.arrayNames[name] = struct{}{}

	elem := g.convType(at.ElemType)
	g.forwardDecl(name)
	fmt.Fprintf(&g.arrayBuf, "struct %s {\n    %s* data;\n    _Word count;\n};\n\n", name, elem)

	return name
}

// mangleType returns a C identifier uniquely naming a type.  Types with the
// same representation in C have the same name.
func mangleType(typ types.Type) string {
	switch v := types.Widen(typ).(type) {
	case types.PrimitiveType:
		return "_Word"
	case *types.PointerType:
		return mangleType(v.ElemType) + "$Ptr"
	case *types.ArrayType:
		return mangleType(v.ElemType) + "$Array"
	case *types.NominalType:
		return v.CName()
	}

	report.Invariant("cannot mangle `%s`", typ.Repr())
	return ""
}

// -----------------------------------------------------------------------------

// funcName returns the C name of a function.  Extern functions keep their
// names so the linker can find them.
func funcName(sig *types.FunctionSignature) string {
	if sig.Extern {
		return sig.Path.Name()
	}

	return "hx_" + sig.Path.Join("$")
}

// localName returns the C name of a local.  Synthetic and shadowing locals
// have names containing characters illegal in C which are replaced by `$`.
func localName(local *ir.Local) string {
	return "l_" + sanitize(local.Name)
}

func tempName(temp *ir.Temp) string {
	return fmt.Sprintf("_t%d", temp.ID)
}

func labelName(block string) string {
	return "b_" + sanitize(block)
}

// sanitize replaces every byte of name which may not appear in a C
// identifier with `$`.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9', r == '_':
			return r
		}

		return '$'
	}, name)
}
