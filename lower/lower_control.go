package lower

import (
	"helixc/common"
	"helixc/hir"
	"helixc/ir"
	"helixc/types"
)

// lowerIf lowers an if expression.  The current block branches to a then
// and an else block.  Each branch which completes stores its value to a
// result local and jumps to a new join block where lowering continues.  When
// neither branch completes, no join block is created and the builder is left
// without a current block.
func (l *Lowerer) lowerIf(ie *hir.If) ir.Immediate {
	cond := l.lowerExpr(ie.Cond)

	var result *ir.Local
	if !types.IsVoid(ie.Type()) {
		result = l.newLocal("if", ie.Type())
	}

	thenBlock, elseBlock := l.b.NewBlock("then"), l.b.NewBlock("else")
	l.b.Branch(cond, thenBlock, elseBlock)

	var join *ir.Block
	lowerBranch := func(block *ir.Block, branch hir.Expr, reachable bool) {
		l.b.SetBlock(block)

		var value ir.Immediate = ir.VoidConst{}
		if branch != nil {
			value = l.lowerExpr(branch)
		}

		if reachable != !l.b.Terminated() {
			invariant("reachability of branch at %s is inconsistent", ie.Span())
		}

		if !reachable {
			return
		}

		if result != nil {
			l.b.Emit(&ir.AssignLocalOp{Local: result, Value: value})
		}

		if join == nil {
			join = l.b.NewBlock("join")
		}

		l.b.Jump(join)
	}

	lowerBranch(thenBlock, ie.Then, ie.ThenReachable)
	lowerBranch(elseBlock, ie.Else, ie.ElseReachable)

	if join == nil {
		return ir.VoidConst{}
	}

	l.b.SetBlock(join)

	if result == nil {
		return ir.VoidConst{}
	}

	return result
}

// lowerShortCircuit lowers `a and then b` and `a or else b`.  The right
// operand is only evaluated in the branch where it decides the result: the
// then branch of `and then` and the else branch of `or else`.
func (l *Lowerer) lowerShortCircuit(sc *hir.ShortCircuit) ir.Immediate {
	lhs := l.lowerExpr(sc.LHS)
	result := l.newLocal("cond", types.Bool)

	thenBlock, elseBlock := l.b.NewBlock("then"), l.b.NewBlock("else")
	join := l.b.NewBlock("join")
	l.b.Branch(lhs, thenBlock, elseBlock)

	// The branch which evaluates the right operand.
	evalBlock, constBlock := thenBlock, elseBlock
	if !sc.IsAnd {
		evalBlock, constBlock = elseBlock, thenBlock
	}

	l.b.SetBlock(evalBlock)
	rhs := l.lowerExpr(sc.RHS)
	l.b.Emit(&ir.AssignLocalOp{Local: result, Value: rhs})
	l.b.Jump(join)

	// `and then` is false when the left operand is false; `or else` is true
	// when the left operand is true.
	l.b.SetBlock(constBlock)
	l.b.Emit(&ir.AssignLocalOp{Local: result, Value: ir.BoolConst{Value: !sc.IsAnd}})
	l.b.Jump(join)

	l.b.SetBlock(join)
	return result
}

// -----------------------------------------------------------------------------

// lowerWhileLoop lowers a while loop:
//
//	header: br cond, body, exit
//	body:   ...; jump header
//	exit:
func (l *Lowerer) lowerWhileLoop(wl *hir.While) {
	header, body, exit := l.b.NewBlock("loop"), l.b.NewBlock("body"), l.b.NewBlock("exit")
	l.b.Jump(header)

	l.b.SetBlock(header)
	cond := l.lowerExpr(wl.Cond)
	l.b.Branch(cond, body, exit)

	l.lowerLoopBody(wl.Body, body, loopTargets{continueTo: header, breakTo: exit}, header)
	l.b.SetBlock(exit)
}

// lowerForLoop lowers a counting loop.  The end bound is evaluated once
// before the loop.  Continuing jumps to the step block which increments the
// iterator.
//
//	header: br iter < end, body, exit
//	body:   ...; jump step
//	step:   iter = iter + 1; jump header
//	exit:
//
// A `to` loop tests iter <= end in its header and leaves from its step block
// once iter reaches end, so the increment never wraps past the largest word:
//
//	step:   br iter == end, exit, next
//	next:   iter = iter + 1; jump header
func (l *Lowerer) lowerForLoop(fl *hir.For) {
	start, end := l.lowerPair(fl.Start, fl.End)
	if local, ok := end.(*ir.Local); ok {
		// The bound must not change when the body assigns to it.
		bound := l.newLocal("bound", types.Word)
		l.b.Emit(&ir.CreateLocalOp{Local: bound, Init: local})
		end = bound
	}

	iter := l.declare(fl.Iter)
	l.b.Emit(&ir.CreateLocalOp{Local: iter, Init: start})

	header, body := l.b.NewBlock("loop"), l.b.NewBlock("body")
	step, exit := l.b.NewBlock("step"), l.b.NewBlock("exit")

	incr := step
	if fl.Inclusive {
		incr = l.b.NewBlock("next")
	}

	l.b.Jump(header)

	l.b.SetBlock(header)
	cmp := common.OP_LT
	if fl.Inclusive {
		cmp = common.OP_LTEQ
	}

	cond := l.emit(&ir.BinaryOp{OpBase: ir.OpBase{Dest: l.newTemp(types.Bool)}, Op: cmp, LHS: iter, RHS: end})
	l.b.Branch(cond, body, exit)

	l.lowerLoopBody(fl.Body, body, loopTargets{continueTo: step, breakTo: exit}, step)

	l.b.SetBlock(step)
	if fl.Inclusive {
		last := l.emit(&ir.BinaryOp{OpBase: ir.OpBase{Dest: l.newTemp(types.Bool)}, Op: common.OP_EQ, LHS: iter, RHS: end})
		l.b.Branch(last, exit, incr)
		l.b.SetBlock(incr)
	}

	next := l.emit(&ir.BinaryOp{OpBase: ir.OpBase{Dest: l.newTemp(types.Word)}, Op: common.OP_ADD, LHS: iter, RHS: ir.WordConst{Value: 1}})
	l.b.Emit(&ir.AssignLocalOp{Local: iter, Value: next})
	l.b.Jump(header)

	l.b.SetBlock(exit)
}

// lowerLoopBody lowers the body of a loop into block.  When the end of the
// body is reached, control jumps to latch.
func (l *Lowerer) lowerLoopBody(body *hir.Block, block *ir.Block, targets loopTargets, latch *ir.Block) {
	l.loops = append(l.loops, targets)
	defer func() { l.loops = l.loops[:len(l.loops)-1] }()

	l.b.SetBlock(block)
	l.lowerBlock(body)

	if !l.b.Terminated() {
		l.b.Jump(latch)
	}
}
