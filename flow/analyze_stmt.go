package flow

import (
	"helixc/common"
	"helixc/hir"
	"helixc/report"
)

// analyzeBlock analyzes a block and returns the location of its value.
func (a *Analyzer) analyzeBlock(block *hir.Block) common.ValueLocation {
	a.pushScope()
	defer a.popScope()

	var result common.ValueLocation = common.UnknownLocation{}
	for _, stmt := range block.Stmts {
		if a.aliases == nil {
			break
		}

		result = a.analyzeStmt(stmt)
	}

	if block.Result == nil || a.aliases == nil {
		return common.UnknownLocation{}
	}

	return result
}

// analyzeStmt analyzes a statement.  The location of the value of an
// expression statement is returned.
func (a *Analyzer) analyzeStmt(stmt hir.Node) common.ValueLocation {
	switch v := stmt.(type) {
	case *hir.VarDecl:
		init := a.analyzeExpr(v.Init)

		a.declareRoot(v.Symbol)
		a.aliases.RegisterLocal(v.Symbol.Location(), init, v.Symbol.Type)
	case *hir.Assign:
		a.analyzeAssign(v)
	case *hir.While:
		a.analyzeLoop(v, v.Cond, v.Body)
	case *hir.For:
		a.analyzeExpr(v.Start)
		a.analyzeExpr(v.End)

		// The iterator is scoped to the loop.
		a.pushScope()
		a.declareRoot(v.Iter)
		a.analyzeLoop(v, nil, v.Body)
		a.popScope()
	case *hir.Break:
		a.frame.LoopAppendixAliases = append(a.frame.LoopAppendixAliases, a.aliases)
		a.aliases = nil
	case *hir.Continue:
		a.frame.ContinueAliases = append(a.frame.ContinueAliases, a.aliases)
		a.aliases = nil
	case *hir.Return:
		if v.Value != nil {
			value := a.analyzeExpr(v.Value)
			a.checkEscapes(value, a.frame.ReturnType, v.Value.Span())
		}

		a.aliases = nil
	case hir.Expr:
		return a.analyzeExpr(v)
	default:
		report.Invariant("unknown statement: %T", stmt)
	}

	return common.UnknownLocation{}
}

// analyzeAssign analyzes an assignment.  Compound assignments only operate on
// words and thus never change any aliases.
func (a *Analyzer) analyzeAssign(as *hir.Assign) {
	ref := a.analyzeLValue(as.Target)
	value := a.analyzeExpr(as.Value)

	if as.Op != nil {
		return
	}

	typ := as.Target.Type()
	if a.aliases.ReferencedRoots(ref).ContainsUnknown() {
		a.checkStoreToUnknown(value, typ, as.Span())
	}

	a.aliases.RegisterAssignment(ref, value, typ, isSummary)
}

// -----------------------------------------------------------------------------

// analyzeLoop analyzes a loop until its aliasing state reaches a fixed point.
// The body is analyzed starting from the merge of the state before the loop
// and the states at the end of every previous analysis of the body.  Once an
// analysis adds no aliases, the state after the loop is the merge of the
// states at every exit of the loop.  Inner loops reach their own fixed point
// every time an enclosing loop body is analyzed.  The condition is nil for
// counting loops.
func (a *Analyzer) analyzeLoop(loop hir.Node, cond hir.Expr, body *hir.Block) {
	outer := a.frame
	state := a.aliases

	for iterations := 1; ; iterations++ {
		// Every iteration adds at least one alias to some location.
		if iterations > state.Size()+2 {
			report.Invariant("loop at %s did not reach a fixed point after %d iterations", loop.Span(), iterations-1)
		}

		frame := outer.newLoopFrame()
		a.frame = frame
		a.aliases = state.CreateScope()

		if cond != nil {
			a.analyzeExpr(cond)
		}

		// Exit through the condition.
		frame.LoopAppendixAliases = append(frame.LoopAppendixAliases, a.aliases.CreateScope())

		a.analyzeBlock(body)
		if a.aliases != nil {
			frame.ContinueAliases = append(frame.ContinueAliases, a.aliases)
		}

		a.frame = outer

		next := state
		for _, at := range frame.ContinueAliases {
			next = next.MergeWith(at)
		}

		if !state.WasModifiedBy(next) {
			a.aliases = mergeAll(frame.LoopAppendixAliases)
			a.trace.recordLoop(loop, iterations, a.aliases)
			return
		}

		state = state.MergeWith(next)
	}
}
