package lower

import (
	"helixc/hir"
	"helixc/ir"
	"helixc/types"
)

// constantOf returns the constant value of expr when its type determines its
// value and evaluating it has no effects: eg. a variable narrowed to a single
// word by a preceding test.
func constantOf(expr hir.Expr) (ir.Immediate, bool) {
	if hasEffects(expr) {
		return nil, false
	}

	switch v := expr.Type().(type) {
	case *types.SingularWordType:
		return ir.WordConst{Value: v.Value}, true
	case *types.SingularBoolType:
		if value, ok := v.Predicate.Constant(); ok {
			return ir.BoolConst{Value: value}, true
		}
	}

	return nil, false
}

// hasEffects returns whether evaluating expr may assign to a local.  Any
// call, block, or if expression may.
func hasEffects(expr hir.Expr) bool {
	switch v := expr.(type) {
	case *hir.WordLit, *hir.BoolLit, *hir.VoidLit, *hir.LocalRef, *hir.HeapAlloc:
		return false
	case *hir.ArrayLit:
		return anyHasEffects(v.Elems)
	case *hir.ArrayLen:
		return hasEffects(v.Array)
	case *hir.BinaryOp:
		return hasEffects(v.LHS) || hasEffects(v.RHS)
	case *hir.ShortCircuit:
		return hasEffects(v.LHS) || hasEffects(v.RHS)
	case *hir.UnaryOp:
		return hasEffects(v.Operand)
	case *hir.AddressOf:
		return hasEffects(v.Target)
	case *hir.Deref:
		return hasEffects(v.Ptr)
	case *hir.MemberAccess:
		return hasEffects(v.Root)
	case *hir.Index:
		return hasEffects(v.Root) || hasEffects(v.Index)
	case *hir.IsTest:
		return hasEffects(v.Root)
	case *hir.Cast:
		return hasEffects(v.Src)
	case *hir.NewStruct:
		for _, field := range v.Fields {
			if hasEffects(field.Value) {
				return true
			}
		}

		return false
	case *hir.NewUnion:
		return hasEffects(v.Field.Value)
	}

	return true
}

// anyHasEffects returns whether evaluating any of exprs may have effects.
func anyHasEffects(exprs []hir.Expr) bool {
	for _, expr := range exprs {
		if hasEffects(expr) {
			return true
		}
	}

	return false
}
