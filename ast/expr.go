package ast

import (
	"helixc/common"
	"helixc/report"
)

// Enumeration of literal kinds.
const (
	LitWord = iota
	LitBool
	LitVoid
)

// Literal represents a single literal value.
type Literal struct {
	ExprBase

	// The kind of literal.  This must be one of the enumerated literal kinds.
	Kind int

	// The text of the literal.
	Value string
}

// Identifier represents a named value.
type Identifier struct {
	ExprBase

	// The name being referenced.
	Name string
}

// ArrayLiteral represents an array literal: `[a, b, c]`.
type ArrayLiteral struct {
	ExprBase

	// The elements of the array.
	Elems []ASTExpr
}

// -----------------------------------------------------------------------------

// BinaryOp represents a binary operator application.
type BinaryOp struct {
	ExprBase

	// The operator being applied.
	Op common.Operator

	// The span of the operator.
	OpSpan *report.TextSpan

	// Whether the operator short-circuits: `and then` and `or else`.
	ShortCircuit bool

	// The operands of the operator.
	LHS, RHS ASTExpr
}

// UnaryOp represents the application of `!` or `-`.
type UnaryOp struct {
	ExprBase

	// The operator being applied.
	Op common.Operator

	// The operand of the operator.
	Operand ASTExpr
}

// AddressOf represents taking the address of an lvalue: `&x`.
type AddressOf struct {
	ExprBase

	// The lvalue whose address is taken.
	Operand ASTExpr
}

// Deref represents a pointer dereference: `p*`.
type Deref struct {
	ExprBase

	// The pointer being dereferenced.
	Ptr ASTExpr
}

// -----------------------------------------------------------------------------

// Call represents a function call.  Functions are only ever called by name.
type Call struct {
	ExprBase

	// The name of the function being called.
	FuncName string

	// The span of the function's name.
	FuncSpan *report.TextSpan

	// The arguments of the call.
	Args []ASTExpr
}

// Dot represents a member access: `x.f`.
type Dot struct {
	ExprBase

	// The value whose member is accessed.
	Root ASTExpr

	// The name of the member.
	FieldName string

	// The span of the member name.
	FieldSpan *report.TextSpan
}

// Index represents an array index: `a[i]`.
type Index struct {
	ExprBase

	// The array being indexed.
	Root ASTExpr

	// The index.
	Index ASTExpr
}

// IsTest represents a union member test: `u is circle`.
type IsTest struct {
	ExprBase

	// The union value being tested.
	Root ASTExpr

	// The name of the member tested for.
	MemberName string

	// The span of the member name.
	MemberSpan *report.TextSpan
}

// Cast represents a type cast: `x as T`.
type Cast struct {
	ExprBase

	// The value being cast.
	Src ASTExpr

	// The type being cast to.
	Dest TypeLabel
}

// -----------------------------------------------------------------------------

// NewExpr represents either the construction of a struct or union value
// `new T { f = e }` or, when the type is a pointer type, the allocation of a
// zeroed cell on the heap: `new word*`.
type NewExpr struct {
	ExprBase

	// The type being constructed.
	Type TypeLabel

	// The field initializers in source order.
	Fields []*FieldInit
}

// FieldInit is a struct or union field initializer.
type FieldInit struct {
	// The name of the field.
	Name string

	// The span of the field name.
	NameSpan *report.TextSpan

	// The value of the field.
	Value ASTExpr
}
