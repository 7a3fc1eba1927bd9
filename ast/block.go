package ast

// Block represents a list of AST statements.  A block is an expression: its
// value is that of its last statement if that statement is an expression.
type Block struct {
	ExprBase

	// The statements of the block.
	Stmts []ASTNode
}

// IfExpr represents an if/then/else expression.
type IfExpr struct {
	ExprBase

	// The condition of the expression.
	Condition ASTExpr

	// The branch evaluated when the condition holds.
	Then ASTExpr

	// The (optional) branch evaluated when the condition does not hold.
	Else ASTExpr
}
