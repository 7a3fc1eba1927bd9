package ir

import (
	"strings"

	"helixc/types"
	"helixc/util"
)

// Program is a lowered compilation unit: one block graph per defined
// function plus the declarations needed to lay out and call them.
type Program struct {
	// The global declaration table.
	Decls *types.DeclTable

	// The defined functions in declaration order.
	Funcs []*Func
}

// Externs returns the signatures of the functions declared extern.
func (p *Program) Externs() []*types.FunctionSignature {
	return util.Filter(p.Decls.Funcs(), func(sig *types.FunctionSignature) bool { return sig.Extern })
}

// -----------------------------------------------------------------------------

// Func is a function defined in IR: its signature and its block graph.
type Func struct {
	// The signature of the function.
	Signature *types.FunctionSignature

	// The parameters in declaration order.
	Params []*Local

	// Every other local of the function in creation order.
	Locals []*Local

	// The name of the entry block.
	Entry string

	// The blocks of the function.  The entry block is always first.
	Blocks []*Block
}

// Name returns the name of the function.
func (fn *Func) Name() string {
	return fn.Signature.Path.String()
}

// ReturnType returns the return type of the function.
func (fn *Func) ReturnType() types.Type {
	return fn.Signature.ReturnType
}

// Block returns the block named name.
func (fn *Func) Block(name string) (*Block, bool) {
	for _, block := range fn.Blocks {
		if block.Name == name {
			return block, true
		}
	}

	return nil, false
}

// Temps returns every temporary defined by the function in definition order.
func (fn *Func) Temps() []*Temp {
	var temps []*Temp
	for _, block := range fn.Blocks {
		for _, op := range block.Ops {
			if dest := op.Defines(); dest != nil {
				temps = append(temps, dest)
			}
		}
	}

	return temps
}

// RenameBlocks renames every block named by a key of renames to the
// corresponding value.  The entry and the successors of every terminal op are
// renamed with them.  New names must not be those of blocks left unrenamed.
func (fn *Func) RenameBlocks(renames map[string]string) {
	fn.Entry = rename(renames, fn.Entry)

	for _, block := range fn.Blocks {
		block.Name = rename(renames, block.Name)

		if block.Terminal != nil {
			block.Terminal.RenameBlocks(renames)
		}
	}
}

// removeBlock removes the block named name.
func (fn *Func) removeBlock(name string) {
	for i, block := range fn.Blocks {
		if block.Name == name {
			fn.Blocks = append(fn.Blocks[:i], fn.Blocks[i+1:]...)
			return
		}
	}
}

// -----------------------------------------------------------------------------

// signatureRepr returns the representation of a function's signature.
func signatureRepr(sig *types.FunctionSignature, params []*Local) string {
	sb := strings.Builder{}
	sb.WriteString("func @")
	sb.WriteString(sig.Path.String())
	sb.WriteRune('(')

	for i, param := range sig.Params {
		sb.WriteString(param.Type.Repr())

		if params != nil {
			sb.WriteRune(' ')
			sb.WriteString(params[i].Repr())
		}

		if i < len(sig.Params)-1 {
			sb.WriteString(", ")
		}
	}

	sb.WriteString(") ")
	sb.WriteString(sig.ReturnType.Repr())

	return sb.String()
}

func (fn *Func) Repr() string {
	sb := strings.Builder{}
	sb.WriteString(signatureRepr(fn.Signature, fn.Params))
	sb.WriteString(":\n")

	for _, local := range fn.Locals {
		sb.WriteString("  var ")
		sb.WriteString(local.Repr())
		sb.WriteRune(' ')
		sb.WriteString(local.Typ.Repr())
		sb.WriteRune('\n')
	}

	for _, block := range fn.Blocks {
		sb.WriteString(block.Repr())
	}

	return sb.String()
}

// Repr returns the full textual listing of the program.
func (p *Program) Repr() string {
	sb := strings.Builder{}

	for _, sig := range p.Externs() {
		sb.WriteString("extern ")
		sb.WriteString(signatureRepr(sig, nil))
		sb.WriteRune('\n')
	}

	for _, fn := range p.Funcs {
		if sb.Len() > 0 {
			sb.WriteRune('\n')
		}

		sb.WriteString(fn.Repr())
	}

	return sb.String()
}
