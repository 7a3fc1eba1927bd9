package ir

/*
Simplification of block graphs
------------------------------
Lowering produces many trivial blocks: the empty else block of an if with no
else branch, the join blocks of nested ifs which immediately jump to the join
of their parent, and so on.  Simplification repeatedly applies the following
rewrites until none apply:

1. A branch on a constant, or with two identical targets, becomes a jump.
2. Blocks which cannot be reached from the entry block are removed.
3. An empty block (other than the entry) which only jumps to another block is
   removed; every terminal naming it is renamed to name its target instead.
4. A block which jumps to a block whose only predecessor it is absorbs that
   block: the ops of the successor are appended to it and it takes the
   successor's terminal.

Each rewrite strictly reduces the number of blocks or branches so the process
always terminates.
*/

// Simplify simplifies the block graph of fn in place.
func Simplify(fn *Func) {
	for foldBranches(fn) || dropUnreachable(fn) || forwardEmptyBlock(fn) || mergeChain(fn) {
	}
}

// SimplifyProgram simplifies every function of a program.
func SimplifyProgram(p *Program) {
	for _, fn := range p.Funcs {
		Simplify(fn)
	}
}

// Predecessors returns the names of the predecessors of every block of fn.
// A block appears once for each of its terminal's edges to a successor.
func Predecessors(fn *Func) map[string][]string {
	preds := make(map[string][]string, len(fn.Blocks))
	for _, block := range fn.Blocks {
		for _, succ := range block.Successors() {
			preds[succ] = append(preds[succ], block.Name)
		}
	}

	return preds
}

// -----------------------------------------------------------------------------

// foldBranches replaces every branch whose target is statically known with a
// jump.
func foldBranches(fn *Func) bool {
	changed := false

	for _, block := range fn.Blocks {
		br, ok := block.Terminal.(*BranchOp)
		if !ok {
			continue
		}

		if br.Then == br.Else {
			block.Terminal = &JumpOp{Target: br.Then}
			changed = true
		} else if cond, ok := br.Cond.(BoolConst); ok {
			if cond.Value {
				block.Terminal = &JumpOp{Target: br.Then}
			} else {
				block.Terminal = &JumpOp{Target: br.Else}
			}

			changed = true
		}
	}

	return changed
}

// dropUnreachable removes every block not reachable from the entry block.
func dropUnreachable(fn *Func) bool {
	reached := map[string]bool{fn.Entry: true}
	worklist := []string{fn.Entry}

	for len(worklist) > 0 {
		name := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		block, ok := fn.Block(name)
		if !ok {
			continue
		}

		for _, succ := range block.Successors() {
			if !reached[succ] {
				reached[succ] = true
				worklist = append(worklist, succ)
			}
		}
	}

	if len(reached) == len(fn.Blocks) {
		return false
	}

	kept := fn.Blocks[:0]
	for _, block := range fn.Blocks {
		if reached[block.Name] {
			kept = append(kept, block)
		}
	}

	changed := len(kept) != len(fn.Blocks)
	fn.Blocks = kept
	return changed
}

// forwardEmptyBlock removes one empty block which only jumps elsewhere.
func forwardEmptyBlock(fn *Func) bool {
	for _, block := range fn.Blocks {
		jump, ok := block.Terminal.(*JumpOp)
		if !ok || len(block.Ops) > 0 || block.Name == fn.Entry || jump.Target == block.Name {
			continue
		}

		renames := map[string]string{block.Name: jump.Target}
		for _, other := range fn.Blocks {
			other.Terminal.RenameBlocks(renames)
		}

		fn.removeBlock(block.Name)
		return true
	}

	return false
}

// mergeChain merges one block into its sole predecessor.
func mergeChain(fn *Func) bool {
	preds := Predecessors(fn)

	for _, block := range fn.Blocks {
		jump, ok := block.Terminal.(*JumpOp)
		if !ok || jump.Target == block.Name || jump.Target == fn.Entry || len(preds[jump.Target]) != 1 {
			continue
		}

		succ, ok := fn.Block(jump.Target)
		if !ok {
			continue
		}

		block.Ops = append(block.Ops, succ.Ops...)
		block.Terminal = succ.Terminal

		fn.removeBlock(succ.Name)
		return true
	}

	return false
}
