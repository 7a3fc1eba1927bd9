package walk

import (
	"helixc/ast"
	"helixc/hir"
	"helixc/predicate"
	"helixc/report"
	"helixc/types"
)

// walkExprMode walks an expression which may transfer control: blocks and
// if expressions.  The resulting control mode of the expression is returned.
func (w *Walker) walkExprMode(expr ast.ASTExpr) (hir.Expr, int) {
	switch v := expr.(type) {
	case *ast.Block:
		return w.walkBlock(v)
	case *ast.IfExpr:
		return w.walkIfExpr(v)
	default:
		return w.walkExpr(expr), ControlNone
	}
}

// walkBlock walks a block.  Statements following a statement which always
// jumps are reported as unreachable and are not walked.
func (w *Walker) walkBlock(b *ast.Block) (*hir.Block, int) {
	w.pushScope()
	defer w.popScope()

	block := &hir.Block{}
	mode := ControlNone

	for i, stmt := range b.Stmts {
		if mode != ControlNone {
			w.warn(report.NewSpanOver(stmt.Span(), b.Stmts[len(b.Stmts)-1].Span()), "unreachable code")
			break
		}

		node, stmtMode := w.walkStmt(stmt)
		block.Stmts = append(block.Stmts, node)
		mode = stmtMode

		// The last statement yields the value of the block.
		if i == len(b.Stmts)-1 && mode == ControlNone {
			if expr, ok := node.(hir.Expr); ok {
				block.Result = expr
			}
		}
	}

	typ := types.Void
	if block.Result != nil {
		typ = block.Result.Type()
	}

	block.ExprBase = hir.NewExprBase(b.Span(), typ)
	return block, mode
}

// walkIfExpr walks an if expression.  The then branch is walked assuming the
// condition holds and the else branch assuming it does not.  When both
// branches complete, only the facts they agree on survive; when one branch
// always jumps, the facts of the other survive unchanged.
func (w *Walker) walkIfExpr(ie *ast.IfExpr) (hir.Expr, int) {
	cond := w.walkExpr(ie.Condition)
	types.UnifyTo(cond.Type(), types.Bool, ie.Condition.Span())

	p := predicate.Of(cond.Type())
	base := w.facts

	// Walk the then branch.
	w.assume(p)
	then, thenMode := w.walkExprMode(ie.Then)
	thenFacts := w.facts

	// Walk the else branch.
	w.facts = base
	w.assume(p.Negate())

	var els hir.Expr
	elseMode := ControlNone
	if ie.Else != nil {
		els, elseMode = w.walkExprMode(ie.Else)
	}
	elseFacts := w.facts

	ifExpr := &hir.If{
		Cond:          cond,
		Then:          then,
		Else:          els,
		ThenReachable: thenMode == ControlNone,
		ElseReachable: elseMode == ControlNone,
	}

	// Merge the facts and the types of the branches.
	typ := types.Void
	switch {
	case ifExpr.ThenReachable && ifExpr.ElseReachable:
		w.facts = thenFacts.join(elseFacts)

		// Branches of unrelated types yield no usable value.
		if els != nil {
			if joined, ok := types.Join(then.Type(), els.Type()); ok {
				typ = joined
			}
		}
	case ifExpr.ThenReachable:
		w.facts = thenFacts

		if els != nil {
			typ = then.Type()
		}
	case ifExpr.ElseReachable:
		w.facts = elseFacts

		if els != nil {
			typ = els.Type()
		}
	default:
		w.facts = base
	}

	ifExpr.ExprBase = hir.NewExprBase(ie.Span(), typ)

	// Determine the control mode of the whole expression.
	switch {
	case thenMode == ControlNone || elseMode == ControlNone:
		return ifExpr, ControlNone
	case thenMode == ControlReturn && elseMode == ControlReturn:
		return ifExpr, ControlReturn
	default:
		return ifExpr, ControlLoop
	}
}

// walkWhileLoop walks a while loop.
func (w *Walker) walkWhileLoop(wl *ast.WhileLoop) *hir.While {
	w.forgetAssignedIn(wl)

	cond := w.walkExpr(wl.Condition)
	types.UnifyTo(cond.Type(), types.Bool, wl.Condition.Span())

	base, since := w.facts, len(w.mutated)
	w.assume(predicate.Of(cond.Type()))

	w.loopDepth++
	body, _ := w.walkBlock(wl.Body)
	w.loopDepth--

	w.restoreFacts(base, since)

	return &hir.While{
		NodeBase: hir.NewNodeBase(wl.Span()),
		Cond:     cond,
		Body:     body,
	}
}

// walkForLoop walks a counting for loop.
func (w *Walker) walkForLoop(fl *ast.ForLoop) *hir.For {
	start := w.walkExpr(fl.Start)
	types.UnifyTo(start.Type(), types.Word, fl.Start.Span())

	end := w.walkExpr(fl.End)
	types.UnifyTo(end.Type(), types.Word, fl.End.Span())

	// The iterator is scoped to the loop.
	w.pushScope()
	defer w.popScope()

	iter := w.declareLocal(fl.IterName, types.Word, fl.IterSpan, false)

	w.forgetAssignedIn(fl.Body)
	base, since := w.facts, len(w.mutated)

	w.loopDepth++
	body, _ := w.walkBlock(fl.Body)
	w.loopDepth--

	w.restoreFacts(base, since)

	return &hir.For{
		NodeBase:  hir.NewNodeBase(fl.Span()),
		Iter:      iter,
		Start:     start,
		End:       end,
		Inclusive: fl.Inclusive,
		Body:      body,
	}
}
