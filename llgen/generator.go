// Package llgen renders lowered programs as LLVM IR.
package llgen

import (
	"helixc/common"
	hxir "helixc/ir"
	"helixc/report"
	hxtypes "helixc/types"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Generator is responsible for converting a lowered program into an LLVM
// module.  Locals live in stack slots allocated in a dedicated entry block;
// temporaries are SSA registers.
type Generator struct {
	// decls is the declaration table of the program.
	decls *hxtypes.DeclTable

	// mod is the LLVM module being generated.
	mod *ir.Module

	// nominalTypes stores the LLVM struct type of every struct and union by
	// declaration path.
	nominalTypes map[string]*types.StructType

	// voidType is the type used to store void values: the empty struct.
	voidType *types.StructType

	// funcs stores the LLVM function of every function by path.
	funcs map[common.IdentifierPath]*ir.Func

	// calloc and abort are the C library functions used by generated code.
	// They are declared on first use.
	calloc, abort *ir.Func

	// enclosingFunc is the function whose body is being generated.
	enclosingFunc *ir.Func

	// varBlock is the entry block of enclosingFunc.  All stack slots are
	// allocated here.
	varBlock *ir.Block

	// blocks maps block names of the current function to their LLVM blocks.
	blocks map[string]*ir.Block

	// slots stores the stack slot of every local of the current function.
	slots map[*hxir.Local]*ir.InstAlloca

	// temps stores the value of every temporary defined so far in the current
	// function.
	temps map[*hxir.Temp]value.Value

	// outOfBounds is the block of the current function that aborts on an
	// out of bounds index.  It is created on first use.
	outOfBounds *ir.Block

	// checkCounter is used to name the blocks following bounds checks.
	checkCounter int

	// block is the block being generated.
	block *ir.Block
}

// NewGenerator creates a new generator for a program with the given
// declarations.
func NewGenerator(decls *hxtypes.DeclTable) *Generator {
	return &Generator{
		decls:        decls,
		mod:          ir.NewModule(),
		nominalTypes: make(map[string]*types.StructType),
		voidType:     types.NewStruct(),
		funcs:        make(map[common.IdentifierPath]*ir.Func),
	}
}

// Generate converts a program into an LLVM module.  The program is assumed
// to be well-formed: generation never fails.
func Generate(prog *hxir.Program) *ir.Module {
	g := NewGenerator(prog.Decls)

	g.declareNominals()

	for _, sig := range prog.Externs() {
		g.declareFunc(sig)
	}

	for _, fn := range prog.Funcs {
		g.declareFunc(fn.Signature)
	}

	for _, fn := range prog.Funcs {
		g.genFunc(fn)
	}

	g.buildStart(prog)

	return g.mod
}

// -----------------------------------------------------------------------------

// declareFunc adds the LLVM function for a signature to the module.  Defined
// functions are prefixed to separate them from C symbols.
func (g *Generator) declareFunc(sig *hxtypes.FunctionSignature) {
	params := make([]*ir.Param, len(sig.Params))
	for i, param := range sig.Params {
		params[i] = ir.NewParam(param.Name, g.convType(param.Type))
	}

	name := sig.Path.Name()
	if !sig.Extern {
		name = "hx." + sig.Path.Join(".")
	}

	llvmFunc := g.mod.NewFunc(name, g.convReturnType(sig.ReturnType), params...)
	llvmFunc.Linkage = enum.LinkageExternal

	g.funcs[sig.Path] = llvmFunc
}

// genFunc generates the body of a function.
func (g *Generator) genFunc(fn *hxir.Func) {
	llvmFunc := g.funcOf(fn.Signature)

	// Helix does not use exceptions in any form and thus all functions are
	// marked `nounwind`
	llvmFunc.FuncAttrs = []ir.FuncAttribute{enum.FuncAttrNoUnwind}

	g.enclosingFunc = llvmFunc
	g.blocks = make(map[string]*ir.Block)
	g.slots = make(map[*hxir.Local]*ir.InstAlloca)
	g.temps = make(map[*hxir.Temp]value.Value)
	g.outOfBounds = nil
	g.checkCounter = 0

	g.varBlock = llvmFunc.NewBlock("vars")

	// parameters are stored into stack slots so they can be assigned and have
	// their address taken like any other local
	for i, param := range fn.Params {
		slot := g.varBlock.NewAlloca(g.convType(param.Typ))
		g.varBlock.NewStore(llvmFunc.Params[i], slot)
		g.slots[param] = slot
	}

	for _, local := range fn.Locals {
		g.slots[local] = g.varBlock.NewAlloca(g.convType(local.Typ))
	}

	// all blocks are created up front so branches can refer to later blocks
	for _, block := range fn.Blocks {
		g.blocks[block.Name] = llvmFunc.NewBlock(block.Name)
	}

	for _, block := range fn.Blocks {
		g.block = g.blocks[block.Name]

		for _, op := range block.Ops {
			g.genOp(op)
		}

		g.genTerminal(block.Terminal)
	}

	// the stack slots are complete: enter the function
	g.varBlock.NewBr(g.blocks[fn.Entry])
}

// funcOf returns the LLVM function of a signature.
func (g *Generator) funcOf(sig *hxtypes.FunctionSignature) *ir.Func {
	llvmFunc, ok := g.funcs[sig.Path]
	if !ok {
		report.Invariant("function `%s` was never declared", sig.Path)
	}

	return llvmFunc
}

// slotOf returns the stack slot of a local of the current function.
func (g *Generator) slotOf(local *hxir.Local) *ir.InstAlloca {
	slot, ok := g.slots[local]
	if !ok {
		report.Invariant("local `%s` has no stack slot", local.Name)
	}

	return slot
}

// newSlot allocates an anonymous stack slot in the entry block.
func (g *Generator) newSlot(typ types.Type) *ir.InstAlloca {
	return g.varBlock.NewAlloca(typ)
}
