package lower

import (
	"helixc/hir"
	"helixc/ir"
	"helixc/types"
)

// lowerBlock lowers a block and returns its value.  The checker drops every
// statement following one which always jumps so the current block is only
// ever terminated by the last statement.
func (l *Lowerer) lowerBlock(block *hir.Block) ir.Immediate {
	var value ir.Immediate = ir.VoidConst{}

	for _, stmt := range block.Stmts {
		if l.b.Terminated() {
			invariant("statement at %s follows a jump", stmt.Span())
		}

		if expr, ok := stmt.(hir.Expr); ok && expr == block.Result {
			value = l.lowerExpr(expr)
		} else {
			l.lowerStmt(stmt)
		}
	}

	return value
}

// lowerStmt lowers a statement.
func (l *Lowerer) lowerStmt(stmt hir.Node) {
	switch v := stmt.(type) {
	case *hir.VarDecl:
		init := l.lowerExpr(v.Init)
		l.b.Emit(&ir.CreateLocalOp{Local: l.declare(v.Symbol), Init: init})
	case *hir.Assign:
		l.lowerAssign(v)
	case *hir.While:
		l.lowerWhileLoop(v)
	case *hir.For:
		l.lowerForLoop(v)
	case *hir.Break:
		l.b.Jump(l.innermostLoop().breakTo)
	case *hir.Continue:
		l.b.Jump(l.innermostLoop().continueTo)
	case *hir.Return:
		var value ir.Immediate = ir.VoidConst{}
		if v.Value != nil {
			value = l.lowerExpr(v.Value)
		}

		l.lowerReturn(value)
	case hir.Expr:
		l.lowerExpr(v)
	default:
		invariant("unknown statement: %T", stmt)
	}
}

// innermostLoop returns the targets of the innermost enclosing loop.
func (l *Lowerer) innermostLoop() loopTargets {
	if len(l.loops) == 0 {
		invariant("loop jump outside of a loop")
	}

	return l.loops[len(l.loops)-1]
}

// -----------------------------------------------------------------------------

// lowerAssign lowers an assignment.  The target is evaluated before the
// value and only once, even for compound assignments.  A local the target
// reads is copied when the value may assign to it, so the store goes to the
// storage the target named before the value ran.
func (l *Lowerer) lowerAssign(as *hir.Assign) {
	// Plain assignments to locals and members of locals store directly.
	if as.Op == nil {
		switch v := as.Target.(type) {
		case *hir.LocalRef:
			value := l.lowerExpr(as.Value)
			l.b.Emit(&ir.AssignLocalOp{Local: l.localOf(v.Symbol), Value: value})
			return
		case *hir.MemberAccess:
			if root, ok := v.Root.(*hir.LocalRef); ok {
				value := l.lowerExpr(as.Value)
				l.b.Emit(&ir.SetMemberOp{Local: l.localOf(root.Symbol), Member: v.Member, Value: value})
				return
			}
		case *hir.Index:
			imms := l.lowerOperands(v.Root, v.Index, as.Value)
			l.b.Emit(&ir.ArrayStoreOp{Array: imms[0], Index: imms[1], Value: imms[2]})
			return
		}
	}

	// A compound assignment to a local reads and writes it directly.
	if local, ok := as.Target.(*hir.LocalRef); ok {
		old, value := l.lowerPair(local, as.Value)
		result := l.emit(&ir.BinaryOp{
			OpBase: ir.OpBase{Dest: l.newTemp(types.Word)},
			Op:     *as.Op,
			LHS:    old,
			RHS:    value,
		})

		l.b.Emit(&ir.AssignLocalOp{Local: l.localOf(local.Symbol), Value: result})
		return
	}

	// Everything else is stored through a reference to the target.
	ref := l.holdBefore(l.lowerReference(as.Target), as.Value)

	var old ir.Immediate
	if as.Op != nil {
		old = l.emit(&ir.LoadReferenceOp{OpBase: ir.OpBase{Dest: l.newTemp(types.Word)}, Ref: ref})
	}

	value := l.lowerExpr(as.Value)
	if as.Op != nil {
		value = l.emit(&ir.BinaryOp{OpBase: ir.OpBase{Dest: l.newTemp(types.Word)}, Op: *as.Op, LHS: old, RHS: value})
	}

	l.b.Emit(&ir.StoreReferenceOp{Ref: ref, Value: value})
}
