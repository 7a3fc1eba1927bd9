// Package flow implements the flow-sensitive alias and lifetime analysis of
// checked functions.  The analysis proves that no reference outlives the
// storage it refers to: references to locals cannot be returned or stored
// into memory owned by a caller, and pointers cannot be dereferenced once the
// storage they point at has gone out of scope.
package flow

import (
	"fmt"
	"strings"

	"helixc/common"
	"helixc/hir"
	"helixc/report"
	"helixc/types"
)

// Analyzer is responsible for analyzing the body of a single function.
type Analyzer struct {
	// The global declaration table.
	decls *types.DeclTable

	// The function being analyzed.
	fn *hir.Func

	// The aliasing state at the current program point.  This is nil when the
	// current program point is unreachable.
	aliases *AliasingTracker

	// The control flow frame of the innermost loop or of the function.
	frame *ControlFlowFrame

	// The temporary locations of intermediate values keyed by the node
	// producing them.  Temporaries are stable across repeated analyses of
	// the same loop body so that the loop state converges.
	temps map[tempKey]common.ValueLocation

	// The parameters and locals of the function keyed by location key.
	symbols map[string]*hir.Symbol

	// The keys of the local roots currently in scope.
	live map[string]bool

	// The keys of the locals declared in each open scope.
	scopes [][]string

	// The trace of the analysis.
	trace *Trace
}

// Enumeration of temporary kinds.
const (
	tempValue     = 't' // The value produced by an expression.
	tempReference = 'r' // The storage named by an lvalue.
	tempHeapCell  = 'h' // The cell allocated by `new T*`.
	tempCells     = 'a' // The cells of an array literal.
)

// tempKey identifies the temporary of one kind produced by a node.
type tempKey struct {
	node hir.Node
	kind byte
}

// Analyze analyzes every function of prog.  The first lifetime violation
// found is returned.
func Analyze(prog *hir.Program) ([]*Trace, error) {
	var traces []*Trace

	err := report.Capture(func() {
		for _, fn := range prog.Funcs {
			traces = append(traces, AnalyzeFunc(prog.Decls, fn))
		}
	})

	if err != nil {
		return nil, err
	}

	return traces, nil
}

// AnalyzeFunc analyzes the body of fn.  Lifetime violations are raised as
// panics and must be caught by the caller.
func AnalyzeFunc(decls *types.DeclTable, fn *hir.Func) *Trace {
	a := &Analyzer{
		decls:   decls,
		fn:      fn,
		aliases: NewAliasingTracker(decls),
		frame:   newFunctionFrame(fn.Signature.ReturnType),
		temps:   make(map[tempKey]common.ValueLocation),
		symbols: make(map[string]*hir.Symbol),
		live:    make(map[string]bool),
		trace:   newTrace(fn.Signature.Path.Name()),
	}

	a.analyzeFuncBody()
	return a.trace
}

// analyzeFuncBody analyzes the parameters and the body of the function.
func (a *Analyzer) analyzeFuncBody() {
	a.pushScope()
	defer a.popScope()

	for _, param := range a.fn.Params {
		a.declareRoot(param)
		a.aliases.RegisterFunctionParameter(param.Location(), param.Type)
	}

	result := a.analyzeExpr(a.fn.Body)

	// The value of the body is returned when its end is reachable.
	if a.aliases != nil && a.fn.EndReachable && !types.IsVoid(a.frame.ReturnType) {
		span := a.fn.Body.Span()
		if block, ok := a.fn.Body.(*hir.Block); ok && block.Result != nil {
			span = block.Result.Span()
		}

		a.checkEscapes(result, a.frame.ReturnType, span)
	}
}

// -----------------------------------------------------------------------------

// temp returns the temporary location of the given kind for node.
func (a *Analyzer) temp(node hir.Node, kind byte) common.ValueLocation {
	key := tempKey{node: node, kind: kind}

	if loc, ok := a.temps[key]; ok {
		return loc
	}

	loc := common.Named(common.NewPath(fmt.Sprintf("$%c%d", kind, len(a.temps))))
	a.temps[key] = loc
	return loc
}

// isSummary returns whether loc is part of storage standing for many cells:
// heap cells and array cells are allocated once per evaluation of the
// expression creating them.  Summary storage is never strongly updated.
func isSummary(loc common.ValueLocation) bool {
	key := common.RootOf(loc).Key()
	return strings.HasPrefix(key, "$h") || strings.HasPrefix(key, "$a")
}

// declareRoot marks sym as a local root in the current scope.
func (a *Analyzer) declareRoot(sym *hir.Symbol) {
	key := sym.Location().Key()

	a.symbols[key] = sym
	a.live[key] = true
	a.scopes[len(a.scopes)-1] = append(a.scopes[len(a.scopes)-1], key)
}

// pushScope opens a new scope of local roots.
func (a *Analyzer) pushScope() {
	a.scopes = append(a.scopes, nil)
}

// popScope closes the current scope: its local roots are no longer live.
func (a *Analyzer) popScope() {
	for _, key := range a.scopes[len(a.scopes)-1] {
		delete(a.live, key)
	}

	a.scopes = a.scopes[:len(a.scopes)-1]
}

// localRoot returns the local owning the storage at loc, if any.
func (a *Analyzer) localRoot(loc common.ValueLocation) (*hir.Symbol, bool) {
	sym, ok := a.symbols[common.RootOf(loc).Key()]
	return sym, ok
}

// describe returns the source-level name of the storage at loc.
func (a *Analyzer) describe(loc common.ValueLocation) string {
	root := common.RootOf(loc)
	if sym, ok := a.symbols[root.Key()]; ok {
		return sym.Name + strings.TrimPrefix(loc.Key(), root.Key())
	}

	return loc.String()
}

// -----------------------------------------------------------------------------

// checkEscapes reports an error if the value stored at loc, or anything it
// reaches, refers to the storage of a local of the function.
func (a *Analyzer) checkEscapes(loc common.ValueLocation, typ types.Type, span *report.TextSpan) {
	reachable := a.aliases.Reachable(a.aliases.BoxedRootsOf(loc, typ))

	for _, root := range reachable.Slice() {
		if _, ok := a.localRoot(root); ok {
			panic(report.Raise(
				report.ErrLifetime,
				span,
				"cannot return a reference to `%s`: it does not outlive function `%s`",
				a.describe(root),
				a.fn.Signature.Path.Name(),
			))
		}
	}
}

// checkStoreToUnknown reports an error if the value stored at loc, which is
// being stored into memory owned by a caller, reaches a local of the
// function.
func (a *Analyzer) checkStoreToUnknown(loc common.ValueLocation, typ types.Type, span *report.TextSpan) {
	reachable := a.aliases.Reachable(a.aliases.BoxedRootsOf(loc, typ))

	for _, root := range reachable.Slice() {
		if _, ok := a.localRoot(root); ok {
			panic(report.Raise(
				report.ErrLifetime,
				span,
				"cannot store a reference to `%s` in memory which may outlive it",
				a.describe(root),
			))
		}
	}
}

// checkLive reports an error if the pointer stored at ptr may point at a
// local which has gone out of scope.
func (a *Analyzer) checkLive(ptr common.ValueLocation, ptrType types.Type, span *report.TextSpan) {
	for _, root := range a.aliases.BoxedRootsOf(ptr, ptrType).Slice() {
		if sym, ok := a.localRoot(root); ok && !a.live[sym.Location().Key()] {
			panic(report.Raise(
				report.ErrLifetime,
				span,
				"cannot dereference a pointer to `%s` after it has gone out of scope",
				a.describe(root),
			))
		}
	}
}
