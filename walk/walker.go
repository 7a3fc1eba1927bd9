// Package walk implements name resolution and type checking.  It consumes the
// parse tree of a file and produces the checked tree of package hir.  Types
// are narrowed along control paths using the predicates of package predicate:
// inside `if x == 5 then ...`, reading `x` yields the singular type `5`.
package walk

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"helixc/ast"
	"helixc/common"
	"helixc/hir"
	"helixc/report"
	"helixc/types"
)

// Walker is responsible for walking the body of a function and producing its
// checked tree.  A new walker is used for every function.
type Walker struct {
	// The file being walked.
	file *ast.File

	// The global declaration table.
	decls *types.DeclTable

	// The signature of the function being walked.
	fn *types.FunctionSignature

	// The stack of local scopes used to lookup symbols.
	localScopes []map[string]*hir.Symbol

	// The number of locals declared so far with each name.  This is used to
	// give shadowing declarations distinct paths.
	nameCounts map[string]int

	// The locals declared by the function in declaration order.
	locals []*hir.Symbol

	// The names whose address is taken somewhere in the function.
	addressTaken *set.Set[string]

	// The keys of the locations of locals which may never be narrowed.
	unnarrowable map[string]bool

	// The narrowing facts holding at the current program point.
	facts narrowing

	// Every location mutated so far in the order the mutations occurred.
	mutated []common.ValueLocation

	// The number loops until the outermost function block.
	loopDepth int
}

// WalkFile resolves and checks every declaration of file.  The first error
// encountered is returned: no further declarations are walked after it.
func WalkFile(file *ast.File) (*hir.Program, error) {
	var prog *hir.Program

	err := report.Capture(func() {
		decls := types.NewDeclTable()
		DeclareNames(file, decls)
		ResolveSignatures(file, decls)

		prog = &hir.Program{Decls: decls}
		for _, decl := range file.Decls {
			if fd, ok := decl.(*ast.FuncDecl); ok && !fd.IsExtern() {
				prog.Funcs = append(prog.Funcs, WalkFunc(file, decls, fd))
			}
		}
	})

	if err != nil {
		return nil, err
	}

	return prog, nil
}

// WalkFunc checks the body of a function whose signature has already been
// resolved.  Errors are raised as panics and must be caught by the caller.
func WalkFunc(file *ast.File, decls *types.DeclTable, fd *ast.FuncDecl) *hir.Func {
	sig, ok := decls.Func(common.NewPath(fd.Name))
	if !ok {
		report.Invariant("function `%s` walked before it was declared", fd.Name)
	}

	w := &Walker{
		file:         file,
		decls:        decls,
		fn:           sig,
		nameCounts:   make(map[string]int),
		addressTaken: scanAddressTaken(fd.Body),
		unnarrowable: make(map[string]bool),
		facts:        newNarrowing(),
	}

	return w.walkFuncBody(fd)
}

// walkFuncBody walks the parameters and the body of a function.
func (w *Walker) walkFuncBody(fd *ast.FuncDecl) *hir.Func {
	// Push the enclosing scope of the function.
	w.pushScope()
	defer w.popScope()

	f := &hir.Func{Signature: w.fn}

	// Declare all parameter symbols.
	for _, param := range w.fn.Params {
		f.Params = append(f.Params, w.declareLocal(param.Name, param.Type, param.DefSpan, true))
	}

	body, mode := w.walkExprMode(fd.Body)
	f.Body = body
	f.Locals = w.locals
	f.EndReachable = mode == ControlNone

	// The value of the body is returned when its end is reachable.
	if f.EndReachable && !types.IsVoid(w.fn.ReturnType) {
		if types.IsVoid(body.Type()) {
			w.error(report.ErrUsage, resultSpan(body), "missing return statement: function `%s` must return a value of type `%s`", fd.Name, w.fn.ReturnType.Repr())
		}

		types.UnifyTo(body.Type(), w.fn.ReturnType, resultSpan(body))
	}

	return f
}

// resultSpan returns the span of the expression producing the value of expr.
func resultSpan(expr hir.Expr) *report.TextSpan {
	if block, ok := expr.(*hir.Block); ok && block.Result != nil {
		return block.Result.Span()
	}

	return expr.Span()
}

// scanAddressTaken returns the names of all variables whose address is taken
// (directly or through one of their members) in body.
func scanAddressTaken(body ast.ASTNode) *set.Set[string] {
	names := set.New[string](0)

	ast.Inspect(body, func(node ast.ASTNode) bool {
		if ao, ok := node.(*ast.AddressOf); ok {
			if name, ok := ast.RootName(ao.Operand); ok {
				names.Insert(name)
			}
		}

		return true
	})

	return names
}

// -----------------------------------------------------------------------------

// lookup looks up a local symbol by name in all visible scopes.  If no symbol
// by the given name can be found, then an error is reported.
func (w *Walker) lookup(name string, span *report.TextSpan) *hir.Symbol {
	if sym, ok := w.lookupLocal(name); ok {
		return sym
	}

	// Functions and types are not values.
	path := common.NewPath(name)
	if _, ok := w.decls.Func(path); ok {
		w.error(report.ErrUsage, span, "function `%s` cannot be used as a value: it must be called", name)
	} else if _, ok := w.decls.Nominal(path); ok {
		w.error(report.ErrUsage, span, "type `%s` cannot be used as a value", name)
	}

	w.error(report.ErrUndefinedName, span, "undefined name: `%s`", name)
	return nil
}

// lookupLocal looks up a local symbol without reporting an error.
func (w *Walker) lookupLocal(name string) (*hir.Symbol, bool) {
	// Traverse local scopes in reverse order to implement shadowing.
	for i := len(w.localScopes) - 1; i > -1; i-- {
		if sym, ok := w.localScopes[i][name]; ok {
			return sym, true
		}
	}

	return nil, false
}

// declareLocal creates a new local symbol and defines it in the current scope.
func (w *Walker) declareLocal(name string, typ types.Type, span *report.TextSpan, isParam bool) *hir.Symbol {
	segment := name
	if n := w.nameCounts[name]; n > 0 {
		segment = fmt.Sprintf("%s#%d", name, n)
	}
	w.nameCounts[name]++

	sym := &hir.Symbol{
		Name:    name,
		Path:    w.fn.Path.Append(segment),
		Type:    typ,
		DefSpan: span,
		IsParam: isParam,
	}

	w.defineLocal(sym)

	if w.addressTaken.Contains(name) {
		w.unnarrowable[sym.Location().Key()] = true
	}

	if !isParam {
		w.locals = append(w.locals, sym)
	}

	return sym
}

// defineLocal defines a local symbol in the current local scope.  If the symbol
// is already defined, then an error is reported.
func (w *Walker) defineLocal(sym *hir.Symbol) {
	currScope := w.localScopes[len(w.localScopes)-1]

	if _, ok := currScope[sym.Name]; ok {
		w.error(report.ErrUsage, sym.DefSpan, "multiple symbols named `%s` defined in immediate local scope", sym.Name)
	}

	currScope[sym.Name] = sym
}

// pushScope pushes a new local scope onto the scope stack.
func (w *Walker) pushScope() {
	w.localScopes = append(w.localScopes, make(map[string]*hir.Symbol))
}

// popScope removes the top local scope from the scope stack.
func (w *Walker) popScope() {
	w.localScopes = w.localScopes[:len(w.localScopes)-1]
}

// -----------------------------------------------------------------------------

// error reports an error on the given span that aborts walking of the
// current definition.
func (w *Walker) error(kind int, span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(kind, span, msg, args...))
}

// warn reports a compile warning.
func (w *Walker) warn(span *report.TextSpan, msg string, args ...interface{}) {
	report.ReportCompileWarning(
		w.file.AbsPath,
		w.file.ReprPath,
		span,
		msg,
		args...,
	)
}
