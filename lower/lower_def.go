package lower

import (
	"helixc/hir"
	"helixc/ir"
	"helixc/report"
	"helixc/types"
)

// lowerFunc lowers a function definition.
func (l *Lowerer) lowerFunc(fn *hir.Func) *ir.Func {
	irFn := &ir.Func{Signature: fn.Signature}
	l.b = ir.NewBuilder(irFn)

	for _, param := range fn.Params {
		local := &ir.Local{Name: param.Path.Name(), Typ: types.Widen(param.Type), IsParam: true}
		irFn.Params = append(irFn.Params, local)
		l.locals[param] = local
	}

	value := l.lowerExpr(fn.Body)

	// The value of the body is returned when its end is reachable.
	if fn.EndReachable {
		if l.b.Terminated() {
			invariant("end of function `%s` is reachable but its last block is terminated", irFn.Name())
		}

		l.lowerReturn(value)
	} else if !l.b.Terminated() {
		invariant("end of function `%s` is unreachable but its last block is open", irFn.Name())
	}

	if err := ir.Verify(irFn); err != nil {
		invariant("lowered malformed IR: %s", err)
	}

	return irFn
}

// lowerReturn terminates the current block with a return of value.
func (l *Lowerer) lowerReturn(value ir.Immediate) {
	if types.IsVoid(l.b.Func().ReturnType()) {
		l.b.Terminate(&ir.ReturnOp{})
	} else {
		l.b.Terminate(&ir.ReturnOp{Value: value})
	}
}

// invariant reports an internal inconsistency in the lowered tree.
func invariant(msg string, args ...interface{}) {
	report.Invariant("lowering: "+msg, args...)
}
