package walk

import (
	"helixc/ast"
	"helixc/hir"
	"helixc/report"
	"helixc/syntax"
	"helixc/types"
)

// Enumeration of control modes: the way control leaves a statement.
const (
	ControlNone   = iota // Control continues with the next statement.
	ControlLoop          // Control always jumps to a loop header or exit.
	ControlReturn        // Control always returns from the function.
)

// walkStmt walks a statement inside a block.  The resulting control mode of
// the statement is returned.
func (w *Walker) walkStmt(stmt ast.ASTNode) (hir.Node, int) {
	switch v := stmt.(type) {
	case *ast.VarDecl:
		return w.walkVarDecl(v), ControlNone
	case *ast.Assignment:
		return w.walkAssignment(v), ControlNone
	case *ast.KeywordStmt:
		return w.walkKeywordStmt(v)
	case *ast.ReturnStmt:
		return w.walkReturnStmt(v), ControlReturn
	case *ast.WhileLoop:
		return w.walkWhileLoop(v), ControlNone
	case *ast.ForLoop:
		return w.walkForLoop(v), ControlNone
	case ast.ASTExpr:
		return w.walkExprMode(v)
	}

	report.Invariant("unknown statement: %T", stmt)
	return nil, ControlNone
}

// walkVarDecl walks a local variable declaration.
func (w *Walker) walkVarDecl(vd *ast.VarDecl) *hir.VarDecl {
	init := w.walkExpr(vd.Initializer)

	var typ types.Type
	if vd.Type == nil { // Variable type is to be inferred.
		typ = types.Widen(init.Type())
	} else { // Specified type => unify.
		typ = resolveTypeLabel(w.decls, vd.Type)
		types.UnifyTo(init.Type(), typ, vd.Initializer.Span())
	}

	if types.IsVoid(typ) {
		w.error(report.ErrUsage, vd.NameSpan, "variable `%s` cannot have type `void`", vd.Name)
	}

	return &hir.VarDecl{
		NodeBase: hir.NewNodeBase(vd.Span()),
		Symbol:   w.declareLocal(vd.Name, typ, vd.NameSpan, false),
		Init:     init,
	}
}

// walkAssignment walks an assignment statement.
func (w *Walker) walkAssignment(as *ast.Assignment) *hir.Assign {
	target := w.walkLValue(as.LHS, "assign to")
	value := w.walkExpr(as.RHS)

	if as.CompoundOp == nil { // No compound operator.
		types.UnifyTo(value.Type(), target.Type(), as.RHS.Span())
	} else {
		opSpan := report.NewSpanOver(as.LHS.Span(), as.RHS.Span())

		if !types.IsWordLike(target.Type()) || !types.IsWordLike(value.Type()) {
			w.error(
				report.ErrTypeMismatch,
				opSpan,
				"operator `%s` cannot be applied to `%s` and `%s`",
				*as.CompoundOp,
				target.Type().Repr(),
				value.Type().Repr(),
			)
		}

		w.checkDivisor(*as.CompoundOp, value, opSpan)
	}

	w.mutate(hir.LocationOf(target))

	return &hir.Assign{
		NodeBase: hir.NewNodeBase(as.Span()),
		Target:   target,
		Value:    value,
		Op:       as.CompoundOp,
	}
}

// walkLValue walks an expression naming storage.  The resulting expression
// has the declared type of the storage: lvalues are never narrowed.  The
// action describes what is being done to the storage in error messages.
func (w *Walker) walkLValue(expr ast.ASTExpr, action string) hir.Expr {
	switch v := expr.(type) {
	case *ast.Identifier:
		sym := w.lookup(v.Name, v.Span())

		return &hir.LocalRef{
			ExprBase: hir.NewExprBase(v.Span(), sym.Type),
			Symbol:   sym,
		}
	case *ast.Deref:
		return w.walkDeref(v)
	case *ast.Index:
		return w.walkIndex(v)
	case *ast.Dot:
		root := w.walkLValue(v.Root, action)

		switch rt := root.Type().(type) {
		case *types.ArrayType:
			w.error(report.ErrUsage, v.FieldSpan, "cannot %s the count of an array", action)
		case *types.NominalType:
			sig, _ := w.decls.SignatureOf(rt)
			mem := w.lookupMember(sig, v.FieldName, v.FieldSpan)

			if rt.IsUnion() {
				w.error(report.ErrUsage, v.Span(), "cannot %s a member of union `%s`: create a new union value instead", action, rt.Repr())
			}

			return &hir.MemberAccess{
				ExprBase: hir.NewExprBase(v.Span(), mem.Type),
				Root:     root,
				Member:   mem.Name,
			}
		}

		w.error(report.ErrTypeMismatch, v.Root.Span(), "type `%s` has no members", root.Type().Repr())
	}

	w.error(report.ErrUsage, expr.Span(), "cannot %s an expression which does not name storage", action)
	return nil
}

// walkKeywordStmt walks a keyword statement (like `break`).  The resulting
// control mode of the statement is returned.
func (w *Walker) walkKeywordStmt(ks *ast.KeywordStmt) (hir.Node, int) {
	switch ks.Kind {
	case syntax.TOK_BREAK:
		if w.loopDepth == 0 {
			w.error(report.ErrUsage, ks.Span(), "cannot use break outside a loop")
		}

		return &hir.Break{NodeBase: hir.NewNodeBase(ks.Span())}, ControlLoop
	case syntax.TOK_CONTINUE:
		if w.loopDepth == 0 {
			w.error(report.ErrUsage, ks.Span(), "cannot use continue outside a loop")
		}

		return &hir.Continue{NodeBase: hir.NewNodeBase(ks.Span())}, ControlLoop
	}

	report.Invariant("unknown keyword statement: %d", ks.Kind)
	return nil, ControlNone
}

// walkReturnStmt walks a return statement.
func (w *Walker) walkReturnStmt(rs *ast.ReturnStmt) *hir.Return {
	ret := &hir.Return{NodeBase: hir.NewNodeBase(rs.Span())}

	if rs.Value == nil {
		if !types.IsVoid(w.fn.ReturnType) {
			w.error(report.ErrUsage, rs.Span(), "must return a value of type `%s`", w.fn.ReturnType.Repr())
		}

		return ret
	}

	ret.Value = w.walkExpr(rs.Value)
	types.UnifyTo(ret.Value.Type(), w.fn.ReturnType, rs.Value.Span())

	return ret
}
