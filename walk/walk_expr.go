package walk

import (
	"strconv"
	"strings"

	"helixc/ast"
	"helixc/common"
	"helixc/hir"
	"helixc/predicate"
	"helixc/report"
	"helixc/types"
)

// walkExpr walks an expression in a position where its value is used.
func (w *Walker) walkExpr(expr ast.ASTExpr) hir.Expr {
	switch v := expr.(type) {
	case *ast.Block, *ast.IfExpr:
		result, mode := w.walkExprMode(v)
		if mode != ControlNone {
			w.error(report.ErrUsage, v.Span(), "expression never produces a value: all of its paths jump")
		}

		return result
	case *ast.Literal:
		return w.walkLiteral(v)
	case *ast.Identifier:
		sym := w.lookup(v.Name, v.Span())

		return &hir.LocalRef{
			ExprBase: hir.NewExprBase(v.Span(), w.readType(sym.Location(), sym.Type)),
			Symbol:   sym,
		}
	case *ast.ArrayLiteral:
		return w.walkArrayLiteral(v)
	case *ast.BinaryOp:
		if v.ShortCircuit {
			return w.walkShortCircuit(v)
		}

		return w.walkBinaryOp(v)
	case *ast.UnaryOp:
		return w.walkUnaryOp(v)
	case *ast.AddressOf:
		target := w.walkLValue(v.Operand, "take the address of")

		return &hir.AddressOf{
			ExprBase: hir.NewExprBase(v.Span(), types.NewPointer(target.Type())),
			Target:   target,
		}
	case *ast.Deref:
		return w.walkDeref(v)
	case *ast.Call:
		return w.walkCall(v)
	case *ast.Dot:
		return w.walkDot(v)
	case *ast.Index:
		return w.walkIndex(v)
	case *ast.IsTest:
		return w.walkIsTest(v)
	case *ast.Cast:
		return w.walkCast(v)
	case *ast.NewExpr:
		return w.walkNewExpr(v)
	}

	report.Invariant("unknown expression: %T", expr)
	return nil
}

// walkLiteral walks a literal.  Every literal has a singular type.
func (w *Walker) walkLiteral(lit *ast.Literal) hir.Expr {
	switch lit.Kind {
	case ast.LitWord:
		value, ok := parseWord(lit.Value)
		if !ok {
			w.error(report.ErrUsage, lit.Span(), "word literal `%s` does not fit in a word", lit.Value)
		}

		return &hir.WordLit{
			ExprBase: hir.NewExprBase(lit.Span(), types.NewSingularWord(value)),
			Value:    value,
		}
	case ast.LitBool:
		value := lit.Value == "true"

		return &hir.BoolLit{
			ExprBase: hir.NewExprBase(lit.Span(), types.NewSingularBool(predicate.Literal(value))),
			Value:    value,
		}
	default:
		return &hir.VoidLit{ExprBase: hir.NewExprBase(lit.Span(), types.Void)}
	}
}

// parseWord parses the text of a word literal.  Hexadecimal and binary
// literals denote bit patterns and may thus use the sign bit.
func parseWord(text string) (int64, bool) {
	var (
		u   uint64
		err error
	)

	switch {
	case strings.HasPrefix(text, "0x"):
		u, err = strconv.ParseUint(text[2:], 16, 64)
	case strings.HasPrefix(text, "0b"):
		u, err = strconv.ParseUint(text[2:], 2, 64)
	default:
		var n int64
		n, err = strconv.ParseInt(text, 10, 64)
		u = uint64(n)
	}

	return int64(u), err == nil
}

// walkArrayLiteral walks an array literal.  The element type is the join of
// the types of all the elements.
func (w *Walker) walkArrayLiteral(al *ast.ArrayLiteral) hir.Expr {
	if len(al.Elems) == 0 {
		w.error(report.ErrUsage, al.Span(), "cannot infer the element type of an empty array literal")
	}

	elems := make([]hir.Expr, len(al.Elems))
	var elemType types.Type
	for i, elem := range al.Elems {
		elems[i] = w.walkExpr(elem)

		if i == 0 {
			elemType = elems[i].Type()
		} else if joined, ok := types.Join(elemType, elems[i].Type()); ok {
			elemType = joined
		} else {
			w.error(
				report.ErrTypeMismatch,
				elem.Span(),
				"array element of type `%s` does not match the other elements of type `%s`",
				elems[i].Type().Repr(),
				elemType.Repr(),
			)
		}
	}

	if types.IsVoid(elemType) {
		w.error(report.ErrUsage, al.Span(), "array elements cannot have type `void`")
	}

	return &hir.ArrayLit{
		ExprBase: hir.NewExprBase(al.Span(), types.NewArray(elemType)),
		Elems:    elems,
	}
}

// -----------------------------------------------------------------------------

// walkDeref walks a pointer dereference.
func (w *Walker) walkDeref(d *ast.Deref) hir.Expr {
	ptr := w.walkExpr(d.Ptr)

	pt, ok := ptr.Type().(*types.PointerType)
	if !ok {
		w.error(report.ErrTypeMismatch, d.Ptr.Span(), "cannot dereference a value of type `%s`", ptr.Type().Repr())
	}

	return &hir.Deref{
		ExprBase: hir.NewExprBase(d.Span(), pt.ElemType),
		Ptr:      ptr,
	}
}

// walkIndex walks an array index.
func (w *Walker) walkIndex(ix *ast.Index) hir.Expr {
	root := w.walkExpr(ix.Root)

	at, ok := root.Type().(*types.ArrayType)
	if !ok {
		w.error(report.ErrTypeMismatch, ix.Root.Span(), "cannot index a value of type `%s`", root.Type().Repr())
	}

	index := w.walkExpr(ix.Index)
	types.UnifyTo(index.Type(), types.Word, ix.Index.Span())

	return &hir.Index{
		ExprBase: hir.NewExprBase(ix.Span(), at.ElemType),
		Root:     root,
		Index:    index,
	}
}

// walkDot walks a member access.  Members of unions can only be read from a
// value known to hold that member.
func (w *Walker) walkDot(dot *ast.Dot) hir.Expr {
	root := w.walkExpr(dot.Root)

	switch rt := types.Widen(root.Type()).(type) {
	case *types.ArrayType:
		if dot.FieldName != "count" {
			w.error(report.ErrUndefinedName, dot.FieldSpan, "arrays have no member named `%s`", dot.FieldName)
		}

		return &hir.ArrayLen{
			ExprBase: hir.NewExprBase(dot.Span(), types.Word),
			Array:    root,
		}
	case *types.NominalType:
		sig, _ := w.decls.SignatureOf(rt)
		mem := w.lookupMember(sig, dot.FieldName, dot.FieldSpan)
		loc := common.MemberOf(hir.LocationOf(root), mem.Name)

		declared := mem.Type
		if rt.IsUnion() {
			sut, ok := root.Type().(*types.SingularUnionType)
			if !ok {
				w.error(
					report.ErrUsage,
					dot.Span(),
					"cannot read member `%s` of union `%s` without first testing for it with `is`",
					mem.Name,
					rt.Repr(),
				)
			} else if sut.Member != mem.Name {
				w.error(report.ErrUsage, dot.Span(), "union value holds member `%s` not `%s`", sut.Member, mem.Name)
			}

			declared = sut.Value
		}

		return &hir.MemberAccess{
			ExprBase: hir.NewExprBase(dot.Span(), w.readType(loc, declared)),
			Root:     root,
			Member:   mem.Name,
			IsUnion:  rt.IsUnion(),
		}
	}

	w.error(report.ErrTypeMismatch, dot.Root.Span(), "type `%s` has no members", root.Type().Repr())
	return nil
}

// lookupMember looks up a member of a struct or union by name.
func (w *Walker) lookupMember(sig *types.NominalSignature, name string, span *report.TextSpan) *types.Member {
	mem, ok := sig.Member(name)
	if !ok {
		w.error(report.ErrUndefinedName, span, "`%s` has no member named `%s`", sig.Type.Repr(), name)
	}

	return mem
}

// walkIsTest walks a union member test.
func (w *Walker) walkIsTest(it *ast.IsTest) hir.Expr {
	root := w.walkExpr(it.Root)

	sig, ok := w.decls.SignatureOf(root.Type())
	if !ok || !sig.Type.IsUnion() {
		w.error(report.ErrTypeMismatch, it.Root.Span(), "`is` requires a union value but got `%s`", root.Type().Repr())
	}

	mem := w.lookupMember(sig, it.MemberName, it.MemberSpan)

	p := predicate.Empty
	if sut, ok := root.Type().(*types.SingularUnionType); ok {
		p = predicate.Literal(sut.Member == mem.Name)
	} else if loc := hir.LocationOf(root); w.isNarrowable(loc) {
		p = predicate.IsMember(loc, sig, mem.Name)
	}

	return &hir.IsTest{
		ExprBase: hir.NewExprBase(it.Span(), boolOf(p)),
		Root:     root,
		Member:   mem.Name,
	}
}

// walkCast walks a type cast.  Casts either widen or convert between words
// and bools.
func (w *Walker) walkCast(c *ast.Cast) hir.Expr {
	src := w.walkExpr(c.Src)
	dest := resolveTypeLabel(w.decls, c.Dest)

	if !types.Cast(src.Type(), dest) {
		w.error(report.ErrTypeMismatch, c.Span(), "cannot cast `%s` to `%s`", src.Type().Repr(), dest.Repr())
	}

	return &hir.Cast{
		ExprBase: hir.NewExprBase(c.Span(), dest),
		Src:      src,
	}
}

// walkCall walks a function call.
func (w *Walker) walkCall(call *ast.Call) hir.Expr {
	sig, ok := w.decls.Func(common.NewPath(call.FuncName))
	if !ok {
		if _, ok := w.lookupLocal(call.FuncName); ok {
			w.error(report.ErrUsage, call.FuncSpan, "`%s` is not a function", call.FuncName)
		}

		w.error(report.ErrUndefinedName, call.FuncSpan, "undefined function: `%s`", call.FuncName)
	}

	if len(call.Args) != len(sig.Params) {
		w.error(
			report.ErrUsage,
			call.Span(),
			"function `%s` expects %d arguments but got %d",
			call.FuncName,
			len(sig.Params),
			len(call.Args),
		)
	}

	args := make([]hir.Expr, len(call.Args))
	for i, arg := range call.Args {
		args[i] = w.walkExpr(arg)
		types.UnifyTo(args[i].Type(), sig.Params[i].Type, arg.Span())
	}

	return &hir.Call{
		ExprBase: hir.NewExprBase(call.Span(), sig.ReturnType),
		Func:     sig,
		Args:     args,
	}
}

// -----------------------------------------------------------------------------

// walkNewExpr walks a new expression: a struct or union value or a heap
// allocation.
func (w *Walker) walkNewExpr(ne *ast.NewExpr) hir.Expr {
	typ := resolveTypeLabel(w.decls, ne.Type)

	if pt, ok := typ.(*types.PointerType); ok {
		if len(ne.Fields) > 0 {
			w.error(report.ErrUsage, ne.Fields[0].NameSpan, "heap allocation of `%s` cannot initialize fields", pt.ElemType.Repr())
		}

		return &hir.HeapAlloc{ExprBase: hir.NewExprBase(ne.Span(), pt)}
	}

	sig, ok := w.decls.SignatureOf(typ)
	if !ok {
		w.error(report.ErrUsage, ne.Type.Span(), "cannot create a value of type `%s` with `new`", typ.Repr())
	}

	// Walk the field initializers rejecting duplicates and unknown names.
	values := make(map[string]hir.Expr)
	for _, field := range ne.Fields {
		mem := w.lookupMember(sig, field.Name, field.NameSpan)

		if _, ok := values[mem.Name]; ok {
			w.error(report.ErrUsage, field.NameSpan, "member `%s` is initialized multiple times", mem.Name)
		}

		value := w.walkExpr(field.Value)
		types.UnifyTo(value.Type(), mem.Type, field.Value.Span())
		values[mem.Name] = value
	}

	if sig.Type.IsUnion() {
		if len(ne.Fields) != 1 {
			w.error(report.ErrUsage, ne.Span(), "a new value of union `%s` must initialize exactly one member", sig.Type.Repr())
		}

		mem, _ := sig.Member(ne.Fields[0].Name)

		return &hir.NewUnion{
			ExprBase: hir.NewExprBase(ne.Span(), &types.SingularUnionType{
				Union:  sig.Type,
				Member: mem.Name,
				Value:  mem.Type,
			}),
			Sig:   sig,
			Field: hir.FieldValue{Name: mem.Name, Value: values[mem.Name]},
		}
	}

	fields := make([]hir.FieldValue, len(sig.Members))
	for i, mem := range sig.Members {
		value, ok := values[mem.Name]
		if !ok {
			w.error(report.ErrUsage, ne.Span(), "missing value for member `%s` of `%s`", mem.Name, sig.Type.Repr())
		}

		fields[i] = hir.FieldValue{Name: mem.Name, Value: value}
	}

	return &hir.NewStruct{
		ExprBase: hir.NewExprBase(ne.Span(), sig.Type),
		Sig:      sig,
		Fields:   fields,
	}
}
