package hir

import (
	"helixc/common"
	"helixc/types"
)

// WordLit is a word literal.
type WordLit struct {
	ExprBase

	Value int64
}

// BoolLit is a boolean literal.
type BoolLit struct {
	ExprBase

	Value bool
}

// VoidLit is the `void` literal.
type VoidLit struct {
	ExprBase
}

// LocalRef reads (or, as an lvalue, names) a local variable.
type LocalRef struct {
	ExprBase

	Symbol *Symbol
}

// ArrayLit allocates an array on the heap holding its elements.
type ArrayLit struct {
	ExprBase

	Elems []Expr
}

// -----------------------------------------------------------------------------

// BinaryOp applies a binary operator evaluating both operands.
type BinaryOp struct {
	ExprBase

	Op common.Operator

	LHS, RHS Expr
}

// ShortCircuit is `a and then b` (IsAnd) or `a or else b`: the right operand
// is only evaluated when required.
type ShortCircuit struct {
	ExprBase

	IsAnd bool

	LHS, RHS Expr
}

// UnaryOp applies `-` or `!`.
type UnaryOp struct {
	ExprBase

	Op common.Operator

	Operand Expr
}

// AddressOf produces a pointer to the storage named by an lvalue.
type AddressOf struct {
	ExprBase

	Target Expr
}

// Deref reads (or, as an lvalue, names) the storage a pointer points at.
type Deref struct {
	ExprBase

	Ptr Expr
}

// MemberAccess reads (or, as an lvalue, names) a member of a struct or
// union value.
type MemberAccess struct {
	ExprBase

	Root Expr

	Member string

	// Whether the root is a union.
	IsUnion bool
}

// Index reads (or, as an lvalue, names) an element of an array.
type Index struct {
	ExprBase

	Root, Index Expr
}

// IsTest tests whether a union holds a given member.
type IsTest struct {
	ExprBase

	Root Expr

	Member string
}

// Cast converts a value to a different type.  Casts between word and bool
// convert the value; all other casts only widen.
type Cast struct {
	ExprBase

	Src Expr
}

// Call invokes a function by name.
type Call struct {
	ExprBase

	Func *types.FunctionSignature

	Args []Expr
}

// -----------------------------------------------------------------------------

// FieldValue is one initialized member of a new struct or union.
type FieldValue struct {
	Name  string
	Value Expr
}

// NewStruct builds a struct value.  Fields are in member order.
type NewStruct struct {
	ExprBase

	Sig *types.NominalSignature

	Fields []FieldValue
}

// NewUnion builds a union value holding exactly one member.
type NewUnion struct {
	ExprBase

	Sig *types.NominalSignature

	Field FieldValue
}

// HeapAlloc allocates a zeroed cell on the heap.  Its type is a pointer to
// the cell.
type HeapAlloc struct {
	ExprBase
}

// ElemType returns the type of the allocated cell.
func (ha *HeapAlloc) ElemType() types.Type {
	return ha.Type().(*types.PointerType).ElemType
}

// -----------------------------------------------------------------------------

// If evaluates one of two branches.  A missing else branch yields void.
type If struct {
	ExprBase

	Cond Expr

	Then Expr

	// The else branch.  This may be nil.
	Else Expr

	// Whether each branch can complete normally.  A branch which always
	// jumps contributes nothing to the value of the expression.
	ThenReachable, ElseReachable bool
}

// Block evaluates statements in order.  Its value is that of Result.
type Block struct {
	ExprBase

	Stmts []Node

	// The expression producing the value of the block.  This is nil if the
	// block yields void.  It is also the last element of Stmts.
	Result Expr
}

// ArrayLen reads the element count of an array: `a.count`.
type ArrayLen struct {
	ExprBase

	Array Expr
}
