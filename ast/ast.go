// Package ast defines the parse tree of a Helix source file.  The tree is
// purely syntactic: names are unresolved and no node carries a type.
package ast

import "helixc/report"

// The abstract interface for all AST nodes.
type ASTNode interface {
	// The text span of the AST.
	Span() *report.TextSpan
}

// A utility base struct for all AST nodes.
type ASTBase struct {
	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// The abstract interface for all AST expressions.  Expressions may appear
// anywhere a statement may.
type ASTExpr interface {
	ASTNode

	exprNode()
}

// The base struct for all AST expressions.
type ExprBase struct {
	ASTBase
}

// NewExprBase creates a new expression base spanning over two spans.
func NewExprBase(start, end *report.TextSpan) ExprBase {
	return ExprBase{ASTBase: NewASTBaseOver(start, end)}
}

func (ExprBase) exprNode() {}

// -----------------------------------------------------------------------------

// File is the parse tree of one source file.
type File struct {
	// The absolute path to the file.
	AbsPath string

	// The path to the file displayed in diagnostics.
	ReprPath string

	// The top-level declarations in source order.
	Decls []ASTNode
}
