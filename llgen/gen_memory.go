package llgen

import (
	"fmt"

	hxir "helixc/ir"
	"helixc/report"
	hxtypes "helixc/types"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// memberIndex returns the index of a member of a struct or union.  This is
// the tag of a union holding that member.
func (g *Generator) memberIndex(typ hxtypes.Type, name string) int {
	if sig, ok := g.decls.SignatureOf(typ); ok {
		for i, mem := range sig.Members {
			if mem.Name == name {
				return i
			}
		}
	}

	report.Invariant("type `%s` has no member `%s`", typ.Repr(), name)
	return 0
}

// memberPtr returns a pointer to a member of the struct ptr points to.
func (g *Generator) memberPtr(ptr value.Value, structType hxtypes.Type, member string) value.Value {
	if nt, ok := hxtypes.Widen(structType).(*hxtypes.NominalType); ok && nt.IsUnion() {
		report.Invariant("member `%s` of union `%s` is referenced", member, nt.Repr())
	}

	index := g.memberIndex(structType, member)
	return g.block.NewGetElementPtr(
		g.convType(structType),
		ptr,
		constant.NewInt(types.I32, 0),
		constant.NewInt(types.I32, int64(index)),
	)
}

// payloadPtr returns a pointer to the payload of the union ptr points to
// reinterpreted as a pointer to member.
func (g *Generator) payloadPtr(ptr value.Value, union hxtypes.Type, member string) value.Value {
	sig, _ := g.decls.SignatureOf(union)
	mem, ok := sig.Member(member)
	if !ok {
		report.Invariant("union `%s` has no member `%s`", union.Repr(), member)
	}

	payload := g.block.NewGetElementPtr(
		g.convType(union),
		ptr,
		constant.NewInt(types.I32, 0),
		constant.NewInt(types.I32, 1),
	)

	return g.block.NewBitCast(payload, types.NewPointer(g.convType(mem.Type)))
}

// genGetMember generates a member read.  Unions are first spilled to a stack
// slot so their payload can be reinterpreted.
func (g *Generator) genGetMember(gm *hxir.GetMemberOp) value.Value {
	val := g.value(gm.Value)

	if nt, ok := hxtypes.Widen(gm.Value.Type()).(*hxtypes.NominalType); ok && nt.IsUnion() {
		slot := g.newSlot(g.convType(nt))
		g.block.NewStore(val, slot)

		ptr := g.payloadPtr(slot, nt, gm.Member)
		return g.block.NewLoad(g.convType(gm.Dest.Typ), ptr)
	}

	return g.block.NewExtractValue(val, uint64(g.memberIndex(gm.Value.Type(), gm.Member)))
}

// genNewUnion builds a union value in a stack slot: the tag is stored first
// and then the member is stored into the payload.
func (g *Generator) genNewUnion(nu *hxir.NewUnionOp) value.Value {
	unionType := g.convType(nu.Dest.Typ)
	slot := g.newSlot(unionType)

	index := g.memberIndex(nu.Dest.Typ, nu.Member)
	tagPtr := g.block.NewGetElementPtr(unionType, slot, constant.NewInt(types.I32, 0), constant.NewInt(types.I32, 0))
	g.block.NewStore(constant.NewInt(wordType, int64(index)), tagPtr)

	g.block.NewStore(g.value(nu.Value), g.payloadPtr(slot, nu.Dest.Typ, nu.Member))
	return g.block.NewLoad(unionType, slot)
}

// -----------------------------------------------------------------------------

// genAlloc allocates count zeroed values of elemType on the heap and returns
// a pointer to the first.
func (g *Generator) genAlloc(elemType hxtypes.Type, count value.Value) value.Value {
	if g.calloc == nil {
		g.calloc = g.mod.NewFunc("calloc", types.I8Ptr, ir.NewParam("count", wordType), ir.NewParam("size", wordType))
	}

	size := constant.NewInt(wordType, g.sizeOf(elemType))
	mem := g.block.NewCall(g.calloc, count, size)

	return g.block.NewBitCast(mem, types.NewPointer(g.convType(elemType)))
}

// genArrayLiteral allocates the elements of an array literal on the heap and
// stores each element.
func (g *Generator) genArrayLiteral(ao *hxir.ArrayLiteralOp) value.Value {
	at, ok := hxtypes.Widen(ao.Dest.Typ).(*hxtypes.ArrayType)
	if !ok {
		report.Invariant("array literal of type `%s`", ao.Dest.Typ.Repr())
	}

	count := constant.NewInt(wordType, int64(len(ao.Elems)))
	data := g.genAlloc(at.ElemType, count)

	elemType := g.convType(at.ElemType)
	for i, elem := range ao.Elems {
		ptr := g.block.NewGetElementPtr(elemType, data, constant.NewInt(wordType, int64(i)))
		g.block.NewStore(g.value(elem), ptr)
	}

	var array value.Value = constant.NewUndef(g.arrayType(at))
	array = g.block.NewInsertValue(array, data, 0)
	return g.block.NewInsertValue(array, count, 1)
}

// elementPtr returns a pointer to an element of an array.  The index is
// checked against the count of the array: the function aborts when it is out
// of bounds.
func (g *Generator) elementPtr(arrayImm, indexImm hxir.Immediate) value.Value {
	at, ok := hxtypes.Widen(arrayImm.Type()).(*hxtypes.ArrayType)
	if !ok {
		report.Invariant("indexing a value of type `%s`", arrayImm.Type().Repr())
	}

	array, index := g.value(arrayImm), g.value(indexImm)
	data := g.block.NewExtractValue(array, 0)
	count := g.block.NewExtractValue(array, 1)

	// an unsigned comparison also rejects negative indices
	inBounds := g.block.NewICmp(enum.IPredULT, index, count)

	g.checkCounter++
	next := g.enclosingFunc.NewBlock(fmt.Sprintf("bounds.ok.%d", g.checkCounter))
	g.block.NewCondBr(inBounds, next, g.outOfBoundsBlock())
	g.block = next

	return g.block.NewGetElementPtr(g.convType(at.ElemType), data, index)
}

// outOfBoundsBlock returns the block of the current function which aborts
// the program.
func (g *Generator) outOfBoundsBlock() *ir.Block {
	if g.outOfBounds == nil {
		if g.abort == nil {
			g.abort = g.mod.NewFunc("abort", types.Void)
			g.abort.FuncAttrs = []ir.FuncAttribute{enum.FuncAttrNoReturn}
		}

		g.outOfBounds = g.enclosingFunc.NewBlock("bounds.fail")
		g.outOfBounds.NewCall(g.abort)
		g.outOfBounds.NewUnreachable()
	}

	return g.outOfBounds
}
