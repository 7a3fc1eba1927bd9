package llgen

import (
	"helixc/common"
	hxir "helixc/ir"
	"helixc/report"
	hxtypes "helixc/types"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// genOp generates a single non-terminal op into the current block.
func (g *Generator) genOp(op hxir.Op) {
	switch v := op.(type) {
	case *hxir.BinaryOp:
		g.define(v.Dest, g.genBinaryOp(v.Op, g.value(v.LHS), g.value(v.RHS)))
	case *hxir.UnaryOp:
		g.define(v.Dest, g.genUnaryOp(v))
	case *hxir.CastOp:
		g.define(v.Dest, g.genCast(v))
	case *hxir.InvokeOp:
		call := g.block.NewCall(g.funcOf(v.Func), g.values(v.Args)...)
		if v.Dest != nil {
			g.define(v.Dest, call)
		}
	case *hxir.CreateLocalOp:
		g.block.NewStore(g.value(v.Init), g.slotOf(v.Local))
	case *hxir.AssignLocalOp:
		g.block.NewStore(g.value(v.Value), g.slotOf(v.Local))
	case *hxir.SetMemberOp:
		ptr := g.memberPtr(g.slotOf(v.Local), v.Local.Typ, v.Member)
		g.block.NewStore(g.value(v.Value), ptr)
	case *hxir.AddressOfOp:
		// the stack slot of a local is its address
		g.define(v.Dest, g.slotOf(v.Local))
	case *hxir.LoadReferenceOp:
		g.define(v.Dest, g.block.NewLoad(g.convType(v.Dest.Typ), g.value(v.Ref)))
	case *hxir.StoreReferenceOp:
		g.block.NewStore(g.value(v.Value), g.value(v.Ref))
	case *hxir.MemberReferenceOp:
		pt, ok := hxtypes.Widen(v.Ref.Type()).(*hxtypes.PointerType)
		if !ok {
			report.Invariant("member reference through `%s`", v.Ref.Type().Repr())
		}

		g.define(v.Dest, g.memberPtr(g.value(v.Ref), pt.ElemType, v.Member))
	case *hxir.GetMemberOp:
		g.define(v.Dest, g.genGetMember(v))
	case *hxir.AllocateOp:
		g.define(v.Dest, g.genAlloc(v.ElemType(), constant.NewInt(wordType, 1)))
	case *hxir.ArrayLiteralOp:
		g.define(v.Dest, g.genArrayLiteral(v))
	case *hxir.ArrayLoadOp:
		ptr := g.elementPtr(v.Array, v.Index)
		g.define(v.Dest, g.block.NewLoad(g.convType(v.Dest.Typ), ptr))
	case *hxir.ArrayStoreOp:
		ptr := g.elementPtr(v.Array, v.Index)
		g.block.NewStore(g.value(v.Value), ptr)
	case *hxir.ArrayReferenceOp:
		g.define(v.Dest, g.elementPtr(v.Array, v.Index))
	case *hxir.ArrayLengthOp:
		g.define(v.Dest, g.block.NewExtractValue(g.value(v.Array), 1))
	case *hxir.NewStructOp:
		var result value.Value = constant.NewZeroInitializer(g.convType(v.Dest.Typ))
		for i, field := range v.Fields {
			result = g.block.NewInsertValue(result, g.value(field), uint64(i))
		}

		g.define(v.Dest, result)
	case *hxir.NewUnionOp:
		g.define(v.Dest, g.genNewUnion(v))
	case *hxir.UnionTestOp:
		tag := g.block.NewExtractValue(g.value(v.Union), 0)
		index := g.memberIndex(v.Union.Type(), v.Member)
		g.define(v.Dest, g.block.NewICmp(enum.IPredEQ, tag, constant.NewInt(wordType, int64(index))))
	default:
		report.Invariant("no LLVM for op `%s`", op.Repr())
	}
}

// define records the value of a temporary.
func (g *Generator) define(dest *hxir.Temp, val value.Value) {
	g.temps[dest] = val
}

// -----------------------------------------------------------------------------

// intPredicates maps the comparison operators to their LLVM predicates.
var intPredicates = map[common.Operator]enum.IPred{
	common.OP_EQ:   enum.IPredEQ,
	common.OP_NEQ:  enum.IPredNE,
	common.OP_LT:   enum.IPredSLT,
	common.OP_GT:   enum.IPredSGT,
	common.OP_LTEQ: enum.IPredSLE,
	common.OP_GTEQ: enum.IPredSGE,
}

// genBinaryOp generates a binary operation.  LLVM integer arithmetic wraps
// so only division needs special handling.
func (g *Generator) genBinaryOp(op common.Operator, lhs, rhs value.Value) value.Value {
	switch op {
	case common.OP_ADD:
		return g.block.NewAdd(lhs, rhs)
	case common.OP_SUB:
		return g.block.NewSub(lhs, rhs)
	case common.OP_MUL:
		return g.block.NewMul(lhs, rhs)
	case common.OP_DIV, common.OP_MOD:
		return g.genDivision(op, lhs, rhs)
	case common.OP_AND:
		return g.block.NewAnd(lhs, rhs)
	case common.OP_OR:
		return g.block.NewOr(lhs, rhs)
	case common.OP_XOR:
		return g.block.NewXor(lhs, rhs)
	}

	if pred, ok := intPredicates[op]; ok {
		return g.block.NewICmp(pred, lhs, rhs)
	}

	report.Invariant("operator `%s` is not binary", op)
	return nil
}

// genDivision generates a division or a remainder.  Dividing the smallest
// word by -1 overflows which LLVM leaves undefined: dividing by -1 is
// generated as a negation and the remainder is zero.
func (g *Generator) genDivision(op common.Operator, lhs, rhs value.Value) value.Value {
	minusOne := constant.NewInt(wordType, -1)
	isMinusOne := g.block.NewICmp(enum.IPredEQ, rhs, minusOne)

	// divide by one instead when the divisor is -1 so the division itself
	// never overflows
	divisor := g.block.NewSelect(isMinusOne, constant.NewInt(wordType, 1), rhs)

	if op == common.OP_DIV {
		quotient := g.block.NewSDiv(lhs, divisor)
		negated := g.block.NewSub(constant.NewInt(wordType, 0), lhs)
		return g.block.NewSelect(isMinusOne, negated, quotient)
	}

	remainder := g.block.NewSRem(lhs, divisor)
	return g.block.NewSelect(isMinusOne, constant.NewInt(wordType, 0), remainder)
}

// genUnaryOp generates a unary operation.  `!` complements the bits of words
// and negates bools.
func (g *Generator) genUnaryOp(uo *hxir.UnaryOp) value.Value {
	operand := g.value(uo.Operand)

	switch uo.Op {
	case common.OP_NEG:
		return g.block.NewSub(constant.NewInt(wordType, 0), operand)
	case common.OP_NOT:
		if hxtypes.IsBoolLike(uo.Operand.Type()) {
			return g.block.NewXor(operand, constant.True)
		}

		return g.block.NewXor(operand, constant.NewInt(wordType, -1))
	}

	report.Invariant("operator `%s` is not unary", uo.Op)
	return nil
}

// genCast generates a conversion between words and bools.  A word is true
// when it is non-zero.
func (g *Generator) genCast(co *hxir.CastOp) value.Value {
	src := g.value(co.Value)

	if hxtypes.IsBoolLike(co.Dest.Typ) {
		return g.block.NewICmp(enum.IPredNE, src, constant.NewInt(wordType, 0))
	}

	// bools are always zero extended
	return g.block.NewZExt(src, wordType)
}

// -----------------------------------------------------------------------------

// value returns the LLVM value of an immediate.  Reading a local loads it
// from its stack slot.
func (g *Generator) value(imm hxir.Immediate) value.Value {
	switch v := imm.(type) {
	case *hxir.Temp:
		val, ok := g.temps[v]
		if !ok {
			report.Invariant("temporary %s is used before it is defined", v.Repr())
		}

		return val
	case *hxir.Local:
		return g.block.NewLoad(g.convType(v.Typ), g.slotOf(v))
	case hxir.WordConst:
		return constant.NewInt(wordType, v.Value)
	case hxir.BoolConst:
		return constant.NewBool(v.Value)
	case hxir.VoidConst:
		return constant.NewZeroInitializer(g.voidType)
	}

	report.Invariant("unknown immediate: %T", imm)
	return nil
}

// values returns the LLVM values of several immediates in order.
func (g *Generator) values(imms []hxir.Immediate) []value.Value {
	vals := make([]value.Value, len(imms))
	for i, imm := range imms {
		vals[i] = g.value(imm)
	}

	return vals
}
