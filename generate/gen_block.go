package generate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"helixc/common"
	"helixc/ir"
	"helixc/report"
	"helixc/types"
	"helixc/util"
)

// genBlock generates a basic block.  next is the name of the block written
// after it, if any: jumps to it fall through.
func (g *Generator) genBlock(block *ir.Block, next string) {
	if len(g.preds[block.Name]) > 0 {
		g.funcBuf.WriteString(labelName(block.Name))
		g.funcBuf.WriteString(":\n")
	}

	for _, op := range block.Ops {
		g.genOp(op)
	}

	g.genTerminal(block.Terminal, next)
}

// genOp generates a single non-terminal op.
func (g *Generator) genOp(op ir.Op) {
	switch v := op.(type) {
	case *ir.BinaryOp:
		g.define(v.Dest, g.binaryExpr(v))
	case *ir.UnaryOp:
		g.define(v.Dest, g.unaryExpr(v))
	case *ir.CastOp:
		g.define(v.Dest, g.castExpr(v))
	case *ir.InvokeOp:
		call := fmt.Sprintf("%s(%s)", funcName(v.Func), strings.Join(g.values(v.Args), ", "))
		if v.Dest == nil {
			g.line("%s;", call)
		} else {
			g.define(v.Dest, call)
		}
	case *ir.CreateLocalOp:
		g.line("%s = %s;", localName(v.Local), g.value(v.Init))
	case *ir.AssignLocalOp:
		g.line("%s = %s;", localName(v.Local), g.value(v.Value))
	case *ir.SetMemberOp:
		if isUnion(v.Local.Typ) {
			report.Invariant("member `%s` of a union is assigned", v.Member)
		}

		g.line("%s.%s = %s;", localName(v.Local), v.Member, g.value(v.Value))
	case *ir.AddressOfOp:
		g.define(v.Dest, "&"+localName(v.Local))
	case *ir.LoadReferenceOp:
		g.define(v.Dest, "*"+g.value(v.Ref))
	case *ir.StoreReferenceOp:
		g.line("*%s = %s;", g.value(v.Ref), g.value(v.Value))
	case *ir.MemberReferenceOp:
		if pt, ok := types.Widen(v.Ref.Type()).(*types.PointerType); ok && isUnion(pt.ElemType) {
			report.Invariant("member `%s` of a union is referenced", v.Member)
		}

		g.define(v.Dest, fmt.Sprintf("&%s->%s", g.value(v.Ref), v.Member))
	case *ir.GetMemberOp:
		if isUnion(v.Value.Type()) {
			g.define(v.Dest, fmt.Sprintf("%s.as.%s", g.value(v.Value), v.Member))
		} else {
			g.define(v.Dest, fmt.Sprintf("%s.%s", g.value(v.Value), v.Member))
		}
	case *ir.AllocateOp:
		g.define(v.Dest, fmt.Sprintf("calloc(1, sizeof(%s))", g.convType(v.ElemType())))
	case *ir.ArrayLiteralOp:
		g.genArrayLiteral(v)
	case *ir.ArrayLoadOp:
		g.define(v.Dest, g.element(v.Array, v.Index))
	case *ir.ArrayStoreOp:
		g.line("%s = %s;", g.element(v.Array, v.Index), g.value(v.Value))
	case *ir.ArrayReferenceOp:
		g.define(v.Dest, "&"+g.element(v.Array, v.Index))
	case *ir.ArrayLengthOp:
		g.define(v.Dest, g.value(v.Array)+".count")
	case *ir.NewStructOp:
		fields := g.values(v.Fields)
		if len(fields) == 0 {
			fields = []string{"0"}
		}

		g.define(v.Dest, fmt.Sprintf("(%s){ %s }", g.convType(v.Dest.Typ), strings.Join(fields, ", ")))
	case *ir.NewUnionOp:
		g.define(v.Dest, fmt.Sprintf(
			"(%s){ .tag = %d, .as = { .%s = %s } }",
			g.convType(v.Dest.Typ),
			g.memberIndex(v.Dest.Typ, v.Member),
			v.Member,
			g.value(v.Value),
		))
	case *ir.UnionTestOp:
		g.define(v.Dest, fmt.Sprintf("%s.tag == %d", g.value(v.Union), g.memberIndex(v.Union.Type(), v.Member)))
	default:
		report.Invariant("no C for op `%s`", op.Repr())
	}
}

// define writes the assignment of expr to the temporary dest.
func (g *Generator) define(dest *ir.Temp, expr string) {
	g.line("%s = %s;", tempName(dest), expr)
}

// genArrayLiteral allocates the elements of an array on the heap and stores
// each element.
func (g *Generator) genArrayLiteral(ao *ir.ArrayLiteralOp) {
	at, ok := types.Widen(ao.Dest.Typ).(*types.ArrayType)
	if !ok {
		report.Invariant("array literal of type `%s`", ao.Dest.Typ.Repr())
	}

	dest := tempName(ao.Dest)
	g.line("%s.data = calloc(%d, sizeof(%s));", dest, len(ao.Elems), g.convType(at.ElemType))
	g.line("%s.count = %d;", dest, len(ao.Elems))

	for i, elem := range ao.Elems {
		g.line("%s.data[%d] = %s;", dest, i, g.value(elem))
	}
}

// element returns the C lvalue of an element of an array.  Indices are
// checked against the array's count.
func (g *Generator) element(array, index ir.Immediate) string {
	arr := g.value(array)
	return fmt.Sprintf("%s.data[_hx_bound(%s, %s.count)]", arr, g.value(index), arr)
}

// -----------------------------------------------------------------------------

// cOperators maps operators to the C operator applying them.
var cOperators = map[common.Operator]string{
	common.OP_ADD:  "+",
	common.OP_SUB:  "-",
	common.OP_MUL:  "*",
	common.OP_AND:  "&",
	common.OP_OR:   "|",
	common.OP_XOR:  "^",
	common.OP_EQ:   "==",
	common.OP_NEQ:  "!=",
	common.OP_LT:   "<",
	common.OP_GT:   ">",
	common.OP_LTEQ: "<=",
	common.OP_GTEQ: ">=",
}

// binaryExpr returns the C expression of a binary op.  Arithmetic is done on
// unsigned words since signed overflow is undefined in C.
func (g *Generator) binaryExpr(bo *ir.BinaryOp) string {
	lhs, rhs := g.value(bo.LHS), g.value(bo.RHS)

	switch bo.Op {
	case common.OP_ADD, common.OP_SUB, common.OP_MUL:
		return fmt.Sprintf("(_Word)((uint64_t)%s %s (uint64_t)%s)", lhs, cOperators[bo.Op], rhs)
	case common.OP_DIV:
		return fmt.Sprintf("_hx_div(%s, %s)", lhs, rhs)
	case common.OP_MOD:
		return fmt.Sprintf("_hx_mod(%s, %s)", lhs, rhs)
	}

	if cop, ok := cOperators[bo.Op]; ok {
		return fmt.Sprintf("%s %s %s", lhs, cop, rhs)
	}

	report.Invariant("operator `%s` is not binary", bo.Op)
	return ""
}

// unaryExpr returns the C expression of a unary op.  `!` complements the
// bits of words and negates bools.
func (g *Generator) unaryExpr(uo *ir.UnaryOp) string {
	operand := g.value(uo.Operand)

	switch uo.Op {
	case common.OP_NEG:
		return fmt.Sprintf("(_Word)(0 - (uint64_t)%s)", operand)
	case common.OP_NOT:
		if types.IsBoolLike(uo.Operand.Type()) {
			return "!" + operand
		}

		return "~" + operand
	}

	report.Invariant("operator `%s` is not unary", uo.Op)
	return ""
}

// castExpr returns the C expression of a conversion between words and
// bools.  A word is true when it is non-zero.
func (g *Generator) castExpr(co *ir.CastOp) string {
	if types.IsBoolLike(co.Dest.Typ) {
		return fmt.Sprintf("%s != 0", g.value(co.Value))
	}

	// bools are already stored as words
	return g.value(co.Value)
}

// -----------------------------------------------------------------------------

// value returns the C expression of an immediate.
func (g *Generator) value(imm ir.Immediate) string {
	switch v := imm.(type) {
	case *ir.Temp:
		return tempName(v)
	case *ir.Local:
		return localName(v)
	case ir.WordConst:
		return wordLiteral(v.Value)
	case ir.BoolConst:
		if v.Value {
			return "1"
		}

		return "0"
	case ir.VoidConst:
		return "0"
	}

	report.Invariant("unknown immediate: %T", imm)
	return ""
}

// values returns the C expressions of several immediates.
func (g *Generator) values(imms []ir.Immediate) []string {
	return util.Map(imms, g.value)
}

// wordLiteral returns a C literal for a word.  The smallest word has no
// literal since its magnitude does not fit in a word.
func wordLiteral(value int64) string {
	switch {
	case value == math.MinInt64:
		return "(-9223372036854775807 - 1)"
	case value < 0:
		return "(" + strconv.FormatInt(value, 10) + ")"
	}

	return strconv.FormatInt(value, 10)
}
