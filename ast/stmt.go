package ast

import (
	"helixc/common"
	"helixc/report"
)

// VarDecl represents a local variable declaration.
type VarDecl struct {
	ASTBase

	// The name of the variable.
	Name string

	// The span of the variable's name.
	NameSpan *report.TextSpan

	// The (optional) type label of the variable.
	Type TypeLabel

	// The initializer of the variable.
	Initializer ASTExpr
}

// Assignment represents an assignment or compound assignment.
type Assignment struct {
	ASTBase

	// The expression being assigned to.
	LHS ASTExpr

	// The value being assigned.
	RHS ASTExpr

	// The operator of a compound assignment.  This is nil for a plain
	// assignment.
	CompoundOp *common.Operator
}

// KeywordStmt represents a statement consisting of a single keyword: `break`
// or `continue`.
type KeywordStmt struct {
	ASTBase

	// The token kind of the keyword.
	Kind int
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	ASTBase

	// The (optional) returned value.
	Value ASTExpr
}

// -----------------------------------------------------------------------------

// WhileLoop represents a while loop.
type WhileLoop struct {
	ASTBase

	// The condition of the loop.
	Condition ASTExpr

	// The body of the loop.
	Body *Block
}

// ForLoop represents a counting for loop: `for i = a to b` iterates with
// `i` taking every value from `a` to `b` inclusive; `until` excludes `b`.
type ForLoop struct {
	ASTBase

	// The name of the iterator variable.
	IterName string

	// The span of the iterator variable's name.
	IterSpan *report.TextSpan

	// The first value of the iterator.
	Start ASTExpr

	// The bound of the iterator.
	End ASTExpr

	// Whether the bound is included in the iteration.
	Inclusive bool

	// The body of the loop.
	Body *Block
}
