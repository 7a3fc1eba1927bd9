// Package lower converts the checked tree into IR block graphs.  Lowering is
// a total function over checked input: any inconsistency it encounters is an
// internal error reported with report.Invariant.
package lower

import (
	"fmt"

	"helixc/hir"
	"helixc/ir"
	"helixc/types"
)

// Lowerer is the construct responsible for converting one checked function
// into IR.
type Lowerer struct {
	// The global declaration table.
	decls *types.DeclTable

	// The builder of the function being lowered.
	b *ir.Builder

	// The IR local of each symbol of the function.
	locals map[*hir.Symbol]*ir.Local

	// The stack of enclosing loops: innermost last.
	loops []loopTargets

	// The counter used to name the locals holding the values of branches.
	localCounter int
}

// loopTargets are the blocks `continue` and `break` jump to in a loop.
type loopTargets struct {
	continueTo, breakTo *ir.Block
}

// Lower lowers every function of a checked program.
func Lower(prog *hir.Program) *ir.Program {
	irProg := &ir.Program{Decls: prog.Decls}

	for _, fn := range prog.Funcs {
		irProg.Funcs = append(irProg.Funcs, LowerFunc(prog.Decls, fn))
	}

	return irProg
}

// LowerFunc lowers a single checked function.
func LowerFunc(decls *types.DeclTable, fn *hir.Func) *ir.Func {
	l := &Lowerer{
		decls:  decls,
		locals: make(map[*hir.Symbol]*ir.Local),
	}

	return l.lowerFunc(fn)
}

// -----------------------------------------------------------------------------

// declare creates the IR local of a symbol.
func (l *Lowerer) declare(sym *hir.Symbol) *ir.Local {
	local := l.b.NewLocal(sym.Path.Name(), sym.Type)
	l.locals[sym] = local
	return local
}

// localOf returns the IR local of a symbol.
func (l *Lowerer) localOf(sym *hir.Symbol) *ir.Local {
	local, ok := l.locals[sym]
	if !ok {
		invariant("symbol `%s` used before its declaration was lowered", sym.Path)
	}

	return local
}

// newLocal creates a local holding an intermediate value.  Its name can
// never collide with that of a symbol.
func (l *Lowerer) newLocal(kind string, typ types.Type) *ir.Local {
	l.localCounter++
	return l.b.NewLocal(fmt.Sprintf("%s.%d", kind, l.localCounter), typ)
}

// newTemp creates a temporary for the value of expr.
func (l *Lowerer) newTemp(typ types.Type) *ir.Temp {
	return l.b.NewTemp(typ)
}

// emit appends an op defining a temporary and returns the temporary.
func (l *Lowerer) emit(op ir.Op) ir.Immediate {
	l.b.Emit(op)
	return op.Defines()
}
