package llgen

import (
	hxir "helixc/ir"
	"helixc/report"
	hxtypes "helixc/types"
	"helixc/util"

	"github.com/llir/llvm/ir/types"
)

// wordType is the LLVM type of words.
var wordType = types.NewInt(8 * util.WordSize)

// declareNominals defines the LLVM struct type of every struct and union.
// The types are all named before any members are converted so members can
// refer to any aggregate.
func (g *Generator) declareNominals() {
	for _, sig := range g.decls.Nominals() {
		st := types.NewStruct()
		g.mod.NewTypeDef(sig.Type.Path.Join("."), st)
		g.nominalTypes[sig.Type.Path.String()] = st
	}

	for _, sig := range g.decls.Nominals() {
		st := g.nominalTypes[sig.Type.Path.String()]

		if sig.Type.IsUnion() {
			// a union is its tag followed by a payload large enough for any
			// of its members
			payload := hxir.PayloadWords(g.decls, sig.Type)
			st.Fields = []types.Type{wordType, types.NewArray(uint64(payload), wordType)}
		} else {
			st.Fields = util.Map(sig.Members, func(mem *hxtypes.Member) types.Type { return g.convType(mem.Type) })
		}
	}
}

// convType converts a type into the LLVM type used to store its values.
func (g *Generator) convType(typ hxtypes.Type) types.Type {
	switch v := hxtypes.Widen(typ).(type) {
	case hxtypes.PrimitiveType:
		switch v {
		case hxtypes.PrimTypeWord:
			return wordType
		case hxtypes.PrimTypeBool:
			return types.I1
		default:
			return g.voidType
		}
	case *hxtypes.PointerType:
		return types.NewPointer(g.convType(v.ElemType))
	case *hxtypes.ArrayType:
		return g.arrayType(v)
	case *hxtypes.NominalType:
		if st, ok := g.nominalTypes[v.Path.String()]; ok {
			return st
		}
	}

	report.Invariant("no LLVM type for `%s`", typ.Repr())
	return nil
}

// convReturnType converts the return type of a function.
func (g *Generator) convReturnType(typ hxtypes.Type) types.Type {
	if hxtypes.IsVoid(typ) {
		return types.Void
	}

	return g.convType(typ)
}

// arrayType returns the LLVM type of arrays of at: a pointer to the elements
// followed by their count.
func (g *Generator) arrayType(at *hxtypes.ArrayType) *types.StructType {
	return types.NewStruct(types.NewPointer(g.convType(at.ElemType)), wordType)
}

// sizeOf returns the size of values of typ in bytes.
func (g *Generator) sizeOf(typ hxtypes.Type) int64 {
	return int64(hxir.LayoutOf(g.decls, typ).Size)
}
