package flow

import (
	"helixc/common"
	"helixc/hir"
	"helixc/report"
	"helixc/types"
)

// analyzeExpr analyzes an expression and returns the location its value is
// stored at.  If the end of the expression is unreachable, the resulting
// location is unknown.
func (a *Analyzer) analyzeExpr(expr hir.Expr) common.ValueLocation {
	result := a.temp(expr, tempValue)

	switch v := expr.(type) {
	case *hir.WordLit, *hir.BoolLit, *hir.VoidLit:
		// Literals point at nothing.
	case *hir.LocalRef, *hir.MemberAccess, *hir.Deref, *hir.Index:
		ref := a.analyzeLValue(v)
		a.aliases.RegisterLoad(result, ref, v.Type())
	case *hir.AddressOf:
		ref := a.analyzeLValue(v.Target)
		a.aliases.RegisterAddressOf(result, ref, v.Type())
	case *hir.ArrayLit:
		elems := make([]common.ValueLocation, len(v.Elems))
		for i, elem := range v.Elems {
			elems[i] = a.analyzeExpr(elem)
		}

		a.aliases.RegisterArrayLiteral(result, a.temp(v, tempCells), v.Type().(*types.ArrayType), elems)
	case *hir.ArrayLen:
		a.analyzeExpr(v.Array)
	case *hir.BinaryOp:
		a.analyzeExpr(v.LHS)
		a.analyzeExpr(v.RHS)
	case *hir.ShortCircuit:
		a.analyzeExpr(v.LHS)

		// The right operand may not be evaluated.
		skipped := a.aliases.CreateScope()
		a.analyzeExpr(v.RHS)
		a.aliases = a.aliases.MergeWith(skipped)
	case *hir.UnaryOp:
		a.analyzeExpr(v.Operand)
	case *hir.IsTest:
		a.analyzeExpr(v.Root)
	case *hir.Cast:
		src := a.analyzeExpr(v.Src)
		a.aliases.RegisterLocal(result, src, v.Type())
	case *hir.Call:
		args := make([]common.ValueLocation, len(v.Args))
		argTypes := make([]types.Type, len(v.Args))
		for i, arg := range v.Args {
			args[i] = a.analyzeExpr(arg)
			argTypes[i] = arg.Type()
		}

		a.aliases.RegisterInvoke(result, v.Type(), args, argTypes)
	case *hir.NewStruct:
		fields := make(map[string]common.ValueLocation, len(v.Fields))
		for _, field := range v.Fields {
			fields[field.Name] = a.analyzeExpr(field.Value)
		}

		a.aliases.RegisterNewStruct(result, v.Sig, fields)
	case *hir.NewUnion:
		value := a.analyzeExpr(v.Field.Value)
		mem, _ := v.Sig.Member(v.Field.Name)

		a.aliases.RegisterNewUnion(result, value, v.Type(), mem.Type)
	case *hir.HeapAlloc:
		a.aliases.RegisterHeapAllocation(result, a.temp(v, tempHeapCell), v.Type().(*types.PointerType))
	case *hir.If:
		a.analyzeIf(v, result)
	case *hir.Block:
		return a.analyzeBlock(v)
	default:
		report.Invariant("unknown expression: %T", expr)
	}

	if a.aliases == nil {
		return common.UnknownLocation{}
	}

	return result
}

// analyzeLValue analyzes an expression naming storage and returns the
// location of the reference to that storage.  Expressions which do not name
// storage are stored to a temporary which the reference then names.
func (a *Analyzer) analyzeLValue(expr hir.Expr) common.ValueLocation {
	ref := a.temp(expr, tempReference)

	switch v := expr.(type) {
	case *hir.LocalRef:
		a.aliases.RegisterReference(ref, common.NewLocationSet(v.Symbol.Location()))
	case *hir.MemberAccess:
		parent := a.analyzeLValue(v.Root)
		a.aliases.RegisterMemberAccessReference(ref, parent, v.Member)
	case *hir.Deref:
		ptr := a.analyzeExpr(v.Ptr)
		a.checkLive(ptr, v.Ptr.Type(), v.Span())
		a.aliases.RegisterDereferenceReference(ref, ptr, v.Ptr.Type())
	case *hir.Index:
		array := a.analyzeExpr(v.Root)
		a.analyzeExpr(v.Index)
		a.aliases.RegisterArrayIndexReference(ref, array, v.Root.Type())
	default:
		value := a.analyzeExpr(expr)
		a.aliases.RegisterReference(ref, common.NewLocationSet(value))
	}

	return ref
}

// analyzeIf analyzes an if expression storing its value to result.  The
// state after the expression is the merge of the states at the end of every
// branch which completes.
func (a *Analyzer) analyzeIf(ie *hir.If, result common.ValueLocation) {
	a.analyzeExpr(ie.Cond)
	base := a.aliases

	var completed []*AliasingTracker
	for _, branch := range []hir.Expr{ie.Then, ie.Else} {
		a.aliases = base.CreateScope()

		if branch != nil {
			value := a.analyzeExpr(branch)
			if a.aliases == nil {
				continue
			}

			a.aliases.RegisterLocal(result, value, ie.Type())
		}

		completed = append(completed, a.aliases)
	}

	if len(completed) == 0 {
		a.aliases = nil
	} else {
		a.aliases = mergeAll(completed)
	}
}
