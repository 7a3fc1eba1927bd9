package ir

import (
	"strings"
)

// Block is a basic block: a straight-line sequence of ops ending in exactly
// one terminal op.
type Block struct {
	// The name of the block: unique within its function.
	Name string

	// The non-terminal ops of the block in execution order.
	Ops []Op

	// The terminal op of the block.  This is nil only while the block is
	// being built.
	Terminal TerminalOp
}

// Successors returns the names of the blocks control may pass to from b.
func (b *Block) Successors() []string {
	if b.Terminal == nil {
		return nil
	}

	return b.Terminal.Successors()
}

func (b *Block) Repr() string {
	sb := strings.Builder{}

	sb.WriteRune('@')
	sb.WriteString(b.Name)
	sb.WriteString(":\n")

	for _, op := range b.Ops {
		sb.WriteString("  ")
		sb.WriteString(op.Repr())
		sb.WriteRune('\n')
	}

	if b.Terminal != nil {
		sb.WriteString("  ")
		sb.WriteString(b.Terminal.Repr())
		sb.WriteRune('\n')
	}

	return sb.String()
}

// -----------------------------------------------------------------------------

// Op represents a single operation within a block.
type Op interface {
	// Repr returns a representative string for the op.
	Repr() string

	// Operands returns the immediates read by the op.
	Operands() []Immediate

	// Defines returns the temporary defined by the op or nil if the op
	// defines none.
	Defines() *Temp
}

// OpBase is the base struct for all ops which define a temporary.
type OpBase struct {
	// The temporary the op defines.
	Dest *Temp
}

func (ob *OpBase) Defines() *Temp {
	return ob.Dest
}

// EffectBase is the base struct for all ops which define nothing.
type EffectBase struct{}

func (EffectBase) Defines() *Temp {
	return nil
}

// -----------------------------------------------------------------------------

// TerminalOp is an op which ends a block by transferring control.
type TerminalOp interface {
	Op

	// Successors returns the names of the blocks the op may jump to.
	Successors() []string

	// RenameBlocks replaces every successor named by a key of renames with
	// the corresponding value.
	RenameBlocks(renames map[string]string)
}

// rename returns the new name of block.
func rename(renames map[string]string, block string) string {
	if name, ok := renames[block]; ok {
		return name
	}

	return block
}

// JumpOp unconditionally jumps to a block.
type JumpOp struct {
	EffectBase

	Target string
}

func (jo *JumpOp) Repr() string {
	return "jump @" + jo.Target
}

func (jo *JumpOp) Operands() []Immediate {
	return nil
}

func (jo *JumpOp) Successors() []string {
	return []string{jo.Target}
}

func (jo *JumpOp) RenameBlocks(renames map[string]string) {
	jo.Target = rename(renames, jo.Target)
}

// BranchOp jumps to Then if its condition holds and to Else otherwise.
type BranchOp struct {
	EffectBase

	Cond Immediate

	Then, Else string
}

func (bo *BranchOp) Repr() string {
	return "br " + bo.Cond.Repr() + ", @" + bo.Then + ", @" + bo.Else
}

func (bo *BranchOp) Operands() []Immediate {
	return []Immediate{bo.Cond}
}

func (bo *BranchOp) Successors() []string {
	return []string{bo.Then, bo.Else}
}

func (bo *BranchOp) RenameBlocks(renames map[string]string) {
	bo.Then = rename(renames, bo.Then)
	bo.Else = rename(renames, bo.Else)
}

// ReturnOp returns from the function.
type ReturnOp struct {
	EffectBase

	// The returned value.  This is nil when the function returns void.
	Value Immediate
}

func (ro *ReturnOp) Repr() string {
	if ro.Value == nil {
		return "ret"
	}

	return "ret " + ro.Value.Repr()
}

func (ro *ReturnOp) Operands() []Immediate {
	if ro.Value == nil {
		return nil
	}

	return []Immediate{ro.Value}
}

func (ro *ReturnOp) Successors() []string {
	return nil
}

func (ro *ReturnOp) RenameBlocks(map[string]string) {}
