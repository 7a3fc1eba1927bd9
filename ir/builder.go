package ir

import (
	"fmt"

	"helixc/report"
	"helixc/types"
)

// Builder appends ops to the blocks of a function.  It threads the current
// block: terminating the current block leaves the builder without one until
// another block is selected.
type Builder struct {
	// The function being built.
	fn *Func

	// The block ops are appended to.  This is nil once it is terminated.
	current *Block

	// The counters used to name temporaries and blocks.
	tempCounter, blockCounter int
}

// NewBuilder creates a builder for fn positioned in a new entry block.
func NewBuilder(fn *Func) *Builder {
	b := &Builder{fn: fn}

	entry := &Block{Name: "entry"}
	fn.Blocks = append(fn.Blocks, entry)
	fn.Entry = entry.Name

	b.current = entry
	return b
}

// Func returns the function being built.
func (b *Builder) Func() *Func {
	return b.fn
}

// NewBlock adds a new empty block to the function.  The name of the block is
// prefix followed by a unique number.  The current block is unchanged.
func (b *Builder) NewBlock(prefix string) *Block {
	b.blockCounter++

	block := &Block{Name: fmt.Sprintf("%s.%d", prefix, b.blockCounter)}
	b.fn.Blocks = append(b.fn.Blocks, block)
	return block
}

// SetBlock makes block the current block.  The block must not be terminated.
func (b *Builder) SetBlock(block *Block) {
	if block.Terminal != nil {
		report.Invariant("cannot build in terminated block `%s`", block.Name)
	}

	b.current = block
}

// Block returns the current block.  This is nil if the current block has
// been terminated.
func (b *Builder) Block() *Block {
	return b.current
}

// Terminated returns whether the current block has been terminated.
func (b *Builder) Terminated() bool {
	return b.current == nil
}

// NewTemp creates a new temporary of type typ.  Temporaries are always typed
// by the widened type of their value.
func (b *Builder) NewTemp(typ types.Type) *Temp {
	t := &Temp{ID: b.tempCounter, Typ: types.Widen(typ)}
	b.tempCounter++
	return t
}

// NewLocal adds a new local variable to the function.
func (b *Builder) NewLocal(name string, typ types.Type) *Local {
	local := &Local{Name: name, Typ: types.Widen(typ)}
	b.fn.Locals = append(b.fn.Locals, local)
	return local
}

// Emit appends a non-terminal op to the current block.
func (b *Builder) Emit(op Op) {
	if b.current == nil {
		report.Invariant("op `%s` emitted with no current block", op.Repr())
	}

	if _, ok := op.(TerminalOp); ok {
		report.Invariant("terminal op `%s` emitted as a non-terminal", op.Repr())
	}

	b.current.Ops = append(b.current.Ops, op)
}

// Terminate ends the current block with term.
func (b *Builder) Terminate(term TerminalOp) {
	if b.current == nil {
		report.Invariant("terminal op `%s` emitted with no current block", term.Repr())
	}

	b.current.Terminal = term
	b.current = nil
}

// Jump terminates the current block with a jump to target.
func (b *Builder) Jump(target *Block) {
	b.Terminate(&JumpOp{Target: target.Name})
}

// Branch terminates the current block with a branch on cond.
func (b *Builder) Branch(cond Immediate, then, els *Block) {
	b.Terminate(&BranchOp{Cond: cond, Then: then.Name, Else: els.Name})
}
