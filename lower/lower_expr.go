package lower

import (
	"helixc/hir"
	"helixc/ir"
	"helixc/types"
)

// lowerExpr lowers an expression and returns the immediate holding its
// value.  Reads of locals yield the local itself.  Void expressions yield
// the void constant.
func (l *Lowerer) lowerExpr(expr hir.Expr) ir.Immediate {
	if c, ok := constantOf(expr); ok {
		return c
	}

	switch v := expr.(type) {
	case *hir.WordLit:
		return ir.WordConst{Value: v.Value}
	case *hir.BoolLit:
		return ir.BoolConst{Value: v.Value}
	case *hir.VoidLit:
		return ir.VoidConst{}
	case *hir.LocalRef:
		return l.localOf(v.Symbol)
	case *hir.ArrayLit:
		elems := l.lowerOperands(v.Elems...)
		return l.emit(&ir.ArrayLiteralOp{OpBase: l.def(v), Elems: elems})
	case *hir.ArrayLen:
		array := l.lowerExpr(v.Array)
		return l.emit(&ir.ArrayLengthOp{OpBase: l.def(v), Array: array})
	case *hir.BinaryOp:
		lhs, rhs := l.lowerPair(v.LHS, v.RHS)
		return l.emit(&ir.BinaryOp{OpBase: l.def(v), Op: v.Op, LHS: lhs, RHS: rhs})
	case *hir.UnaryOp:
		operand := l.lowerExpr(v.Operand)
		return l.emit(&ir.UnaryOp{OpBase: l.def(v), Op: v.Op, Operand: operand})
	case *hir.ShortCircuit:
		return l.lowerShortCircuit(v)
	case *hir.AddressOf:
		return l.lowerReference(v.Target)
	case *hir.Deref:
		ptr := l.lowerExpr(v.Ptr)
		return l.emit(&ir.LoadReferenceOp{OpBase: l.def(v), Ref: ptr})
	case *hir.MemberAccess:
		root := l.lowerExpr(v.Root)
		return l.emit(&ir.GetMemberOp{OpBase: l.def(v), Value: root, Member: v.Member})
	case *hir.Index:
		array, index := l.lowerPair(v.Root, v.Index)
		return l.emit(&ir.ArrayLoadOp{OpBase: l.def(v), Array: array, Index: index})
	case *hir.IsTest:
		union := l.lowerExpr(v.Root)
		return l.emit(&ir.UnionTestOp{OpBase: l.def(v), Union: union, Member: v.Member})
	case *hir.Cast:
		return l.lowerCast(v)
	case *hir.Call:
		args := l.lowerOperands(v.Args...)

		if types.IsVoid(v.Type()) {
			l.b.Emit(&ir.InvokeOp{Func: v.Func, Args: args})
			return ir.VoidConst{}
		}

		return l.emit(&ir.InvokeOp{OpBase: l.def(v), Func: v.Func, Args: args})
	case *hir.NewStruct:
		values := make([]hir.Expr, len(v.Fields))
		for i, field := range v.Fields {
			values[i] = field.Value
		}

		fields := l.lowerOperands(values...)
		return l.emit(&ir.NewStructOp{OpBase: l.def(v), Fields: fields})
	case *hir.NewUnion:
		value := l.lowerExpr(v.Field.Value)
		return l.emit(&ir.NewUnionOp{OpBase: l.def(v), Member: v.Field.Name, Value: value})
	case *hir.HeapAlloc:
		return l.emit(&ir.AllocateOp{OpBase: l.def(v)})
	case *hir.If:
		return l.lowerIf(v)
	case *hir.Block:
		return l.lowerBlock(v)
	}

	invariant("unknown expression: %T", expr)
	return nil
}

// def creates the base of an op defining the value of expr.
func (l *Lowerer) def(expr hir.Expr) ir.OpBase {
	if types.IsVoid(expr.Type()) {
		invariant("void expression at %s defines a temporary", expr.Span())
	}

	return ir.OpBase{Dest: l.newTemp(expr.Type())}
}

// lowerOperands lowers several operands in order.  A local read by an
// earlier operand is copied when a later operand may assign to it so that
// every operand holds its value at the time it was evaluated.
func (l *Lowerer) lowerOperands(exprs ...hir.Expr) []ir.Immediate {
	imms := make([]ir.Immediate, len(exprs))

	for i, expr := range exprs {
		imms[i] = l.holdBefore(l.lowerExpr(expr), exprs[i+1:]...)
	}

	return imms
}

// lowerPair lowers two operands in order.
func (l *Lowerer) lowerPair(first, second hir.Expr) (ir.Immediate, ir.Immediate) {
	imms := l.lowerOperands(first, second)
	return imms[0], imms[1]
}

// holdBefore returns an immediate holding the current value of imm for as
// long as the expressions evaluated after it run.  Temporaries never change
// but a local is copied to a spill local if any of later may assign to it.
func (l *Lowerer) holdBefore(imm ir.Immediate, later ...hir.Expr) ir.Immediate {
	local, ok := imm.(*ir.Local)
	if !ok || !anyHasEffects(later) {
		return imm
	}

	spill := l.newLocal("spill", local.Typ)
	l.b.Emit(&ir.CreateLocalOp{Local: spill, Init: local})
	return spill
}

// lowerReference lowers an lvalue into a pointer to the storage it names.
func (l *Lowerer) lowerReference(expr hir.Expr) ir.Immediate {
	ptrType := types.NewPointer(expr.Type())

	switch v := expr.(type) {
	case *hir.LocalRef:
		return l.emit(&ir.AddressOfOp{OpBase: ir.OpBase{Dest: l.newTemp(ptrType)}, Local: l.localOf(v.Symbol)})
	case *hir.MemberAccess:
		ref := l.lowerReference(v.Root)
		return l.emit(&ir.MemberReferenceOp{OpBase: ir.OpBase{Dest: l.newTemp(ptrType)}, Ref: ref, Member: v.Member})
	case *hir.Deref:
		return l.lowerExpr(v.Ptr)
	case *hir.Index:
		array, index := l.lowerPair(v.Root, v.Index)
		return l.emit(&ir.ArrayReferenceOp{OpBase: ir.OpBase{Dest: l.newTemp(ptrType)}, Array: array, Index: index})
	}

	invariant("expression at %s does not name storage", expr.Span())
	return nil
}

// lowerCast lowers a cast.  Casts which only widen produce their operand.
func (l *Lowerer) lowerCast(c *hir.Cast) ir.Immediate {
	src := l.lowerExpr(c.Src)

	if !types.IsConversion(c.Src.Type(), c.Type()) {
		return src
	}

	return l.emit(&ir.CastOp{OpBase: l.def(c), Value: src})
}
