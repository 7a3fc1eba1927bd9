package llgen

import (
	hxir "helixc/ir"
	"helixc/report"
	hxtypes "helixc/types"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// genTerminal generates the terminal op of a block.
func (g *Generator) genTerminal(term hxir.TerminalOp) {
	switch v := term.(type) {
	case *hxir.JumpOp:
		g.block.NewBr(g.blockOf(v.Target))
	case *hxir.BranchOp:
		g.block.NewCondBr(g.value(v.Cond), g.blockOf(v.Then), g.blockOf(v.Else))
	case *hxir.ReturnOp:
		if v.Value == nil {
			g.block.NewRet(nil)
		} else {
			g.block.NewRet(g.value(v.Value))
		}
	default:
		report.Invariant("no LLVM for terminal op `%s`", term.Repr())
	}
}

// blockOf returns the LLVM block of a block of the current function.
func (g *Generator) blockOf(name string) *ir.Block {
	block, ok := g.blocks[name]
	if !ok {
		report.Invariant("jump to undefined block `%s`", name)
	}

	return block
}

// -----------------------------------------------------------------------------

// buildStart builds the `main` function of the module when the program
// defines a function `main` taking no parameters whose result is primitive.
// That result becomes the exit status of the process.
func (g *Generator) buildStart(prog *hxir.Program) {
	for _, fn := range prog.Funcs {
		if fn.Signature.Path.String() != "main" || len(fn.Params) > 0 {
			continue
		}

		rt := fn.ReturnType()
		if !hxtypes.IsVoid(rt) && !hxtypes.IsWordLike(rt) && !hxtypes.IsBoolLike(rt) {
			continue
		}

		mainFunc := g.mod.NewFunc("main", types.I32)
		mainFunc.Linkage = enum.LinkageExternal
		mainFunc.FuncAttrs = []ir.FuncAttribute{enum.FuncAttrNoUnwind}

		entry := mainFunc.NewBlock("entry")
		result := entry.NewCall(g.funcOf(fn.Signature))

		switch {
		case hxtypes.IsVoid(rt):
			entry.NewRet(constant.NewInt(types.I32, 0))
		case hxtypes.IsBoolLike(rt):
			entry.NewRet(entry.NewZExt(result, types.I32))
		default:
			entry.NewRet(entry.NewTrunc(result, types.I32))
		}

		return
	}
}
