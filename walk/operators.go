package walk

import (
	"helixc/ast"
	"helixc/common"
	"helixc/hir"
	"helixc/predicate"
	"helixc/report"
	"helixc/types"
)

// boolOf returns the type of a bool carrying p: plain bool when p carries no
// information.
func boolOf(p predicate.Predicate) types.Type {
	if p.Equals(predicate.Empty) {
		return types.Bool
	}

	return types.NewSingularBool(p)
}

// singularWord returns the value of a singular word type.
func singularWord(t types.Type) (int64, bool) {
	if swt, ok := t.(*types.SingularWordType); ok {
		return swt.Value, true
	}

	return 0, false
}

// -----------------------------------------------------------------------------

// walkBinaryOp walks a binary operator which evaluates both of its operands.
func (w *Walker) walkBinaryOp(bop *ast.BinaryOp) hir.Expr {
	lhs := w.walkExpr(bop.LHS)

	// The predicates of the operands are only combined if walking the right
	// operand did not change anything the left operand's predicate is about.
	since := len(w.mutated)
	rhs := w.walkExpr(bop.RHS)
	stable := len(w.mutated) == since

	return &hir.BinaryOp{
		ExprBase: hir.NewExprBase(bop.Span(), w.checkBinaryOp(bop, lhs, rhs, stable)),
		Op:       bop.Op,
		LHS:      lhs,
		RHS:      rhs,
	}
}

// checkBinaryOp checks the operands of a binary operator and returns the type
// of its result.
func (w *Walker) checkBinaryOp(bop *ast.BinaryOp, lhs, rhs hir.Expr, stable bool) types.Type {
	lt, rt := lhs.Type(), rhs.Type()

	switch {
	case types.IsWordLike(lt) && types.IsWordLike(rt):
		if bop.Op.IsComparison() {
			return w.compareWords(bop.Op, lhs, rhs)
		}

		w.checkDivisor(bop.Op, rhs, bop.RHS.Span())
		return foldWords(bop.Op, lt, rt)
	case types.IsBoolLike(lt) && types.IsBoolLike(rt):
		if bop.Op.IsLogical() || bop.Op == common.OP_EQ || bop.Op == common.OP_NEQ {
			p, q := predicate.Of(lt), predicate.Of(rt)
			if !stable || p.Equals(predicate.Empty) || q.Equals(predicate.Empty) {
				return types.Bool
			}

			switch bop.Op {
			case common.OP_AND:
				return boolOf(p.And(q))
			case common.OP_OR:
				return boolOf(p.Or(q))
			case common.OP_XOR, common.OP_NEQ:
				return boolOf(predicate.Xor(p, q))
			default:
				return boolOf(predicate.Xor(p, q).Negate())
			}
		}
	case bop.Op == common.OP_EQ || bop.Op == common.OP_NEQ:
		if _, ok := lt.(*types.PointerType); ok && types.Equals(lt, rt) {
			return types.Bool
		}
	}

	w.error(
		report.ErrTypeMismatch,
		bop.OpSpan,
		"operator `%s` cannot be applied to `%s` and `%s`",
		bop.Op,
		lt.Repr(),
		rt.Repr(),
	)
	return nil
}

// compareWords returns the type of a comparison of two words.  Comparing a
// narrowable location against a known word yields a predicate over it.
func (w *Walker) compareWords(op common.Operator, lhs, rhs hir.Expr) types.Type {
	lv, lok := singularWord(lhs.Type())
	rv, rok := singularWord(rhs.Type())

	if lok && rok {
		var result bool
		switch op {
		case common.OP_EQ:
			result = lv == rv
		case common.OP_NEQ:
			result = lv != rv
		case common.OP_LT:
			result = lv < rv
		case common.OP_GT:
			result = lv > rv
		case common.OP_LTEQ:
			result = lv <= rv
		case common.OP_GTEQ:
			result = lv >= rv
		}

		return boolOf(predicate.Literal(result))
	}

	if op != common.OP_EQ && op != common.OP_NEQ {
		return types.Bool
	}

	// Find the location compared against a known value.
	var (
		loc   common.ValueLocation
		value int64
	)
	if rok {
		loc, value = hir.LocationOf(lhs), rv
	} else if lok {
		loc, value = hir.LocationOf(rhs), lv
	} else {
		return types.Bool
	}

	if !w.isNarrowable(loc) {
		return types.Bool
	}

	p := predicate.WordEquals(loc, value)
	if op == common.OP_NEQ {
		p = p.Negate()
	}

	return boolOf(p)
}

// foldWords returns the type of an arithmetic or bitwise operation on words.
// Operations on two known words have a known result.  Arithmetic wraps.
func foldWords(op common.Operator, lt, rt types.Type) types.Type {
	a, aok := singularWord(lt)
	b, bok := singularWord(rt)
	if !aok || !bok {
		return types.Word
	}

	var result int64
	switch op {
	case common.OP_ADD:
		result = a + b
	case common.OP_SUB:
		result = a - b
	case common.OP_MUL:
		result = a * b
	case common.OP_DIV:
		result = a / b
	case common.OP_MOD:
		result = a % b
	case common.OP_AND:
		result = a & b
	case common.OP_OR:
		result = a | b
	case common.OP_XOR:
		result = a ^ b
	default:
		report.Invariant("operator `%s` is not a word operator", op)
	}

	return types.NewSingularWord(result)
}

// checkDivisor reports an error if the divisor of a division or modulo is
// known to be zero.
func (w *Walker) checkDivisor(op common.Operator, divisor hir.Expr, span *report.TextSpan) {
	if op != common.OP_DIV && op != common.OP_MOD {
		return
	}

	if value, ok := singularWord(divisor.Type()); ok && value == 0 {
		w.error(report.ErrUsage, span, "division by zero")
	}
}

// -----------------------------------------------------------------------------

// walkShortCircuit walks `and then` and `or else`.  The right operand is only
// evaluated when the left operand does not decide the result so it is walked
// assuming that it does not.
func (w *Walker) walkShortCircuit(bop *ast.BinaryOp) hir.Expr {
	isAnd := bop.Op == common.OP_AND

	lhs := w.walkExpr(bop.LHS)
	types.UnifyTo(lhs.Type(), types.Bool, bop.LHS.Span())

	p := predicate.Of(lhs.Type())
	base, since := w.facts, len(w.mutated)

	if isAnd {
		w.assume(p)
	} else {
		w.assume(p.Negate())
	}

	rhs := w.walkExpr(bop.RHS)
	types.UnifyTo(rhs.Type(), types.Bool, bop.RHS.Span())

	stable := len(w.mutated) == since
	w.restoreFacts(base, since)

	typ := types.Bool
	if q := predicate.Of(rhs.Type()); stable && !p.Equals(predicate.Empty) && !q.Equals(predicate.Empty) {
		if isAnd {
			typ = boolOf(p.And(q))
		} else {
			typ = boolOf(p.Or(q))
		}
	}

	return &hir.ShortCircuit{
		ExprBase: hir.NewExprBase(bop.Span(), typ),
		IsAnd:    isAnd,
		LHS:      lhs,
		RHS:      rhs,
	}
}

// walkUnaryOp walks `!` and `-`.  `!` negates bools and complements words.
func (w *Walker) walkUnaryOp(uop *ast.UnaryOp) hir.Expr {
	operand := w.walkExpr(uop.Operand)
	ot := operand.Type()

	var typ types.Type
	switch {
	case uop.Op == common.OP_NOT && types.IsBoolLike(ot):
		p := predicate.Of(ot)
		typ = boolOf(p.Negate())
	case types.IsWordLike(ot):
		typ = types.Word

		if v, ok := singularWord(ot); ok {
			if uop.Op == common.OP_NEG {
				typ = types.NewSingularWord(-v)
			} else {
				typ = types.NewSingularWord(^v)
			}
		}
	default:
		w.error(report.ErrTypeMismatch, uop.Span(), "operator `%s` cannot be applied to `%s`", uop.Op, ot.Repr())
	}

	return &hir.UnaryOp{
		ExprBase: hir.NewExprBase(uop.Span(), typ),
		Op:       uop.Op,
		Operand:  operand,
	}
}
