// Package hir defines the checked tree produced by the type checker.  Every
// name is resolved, every expression carries its (possibly singular) type,
// and compound forms such as `x += 1` are desugared.  The flow analyzer and
// the IR lowerer both consume this tree.
package hir

import (
	"helixc/common"
	"helixc/report"
	"helixc/types"
)

// Node is a checked statement or expression.
type Node interface {
	// The source span of the node.
	Span() *report.TextSpan

	hirNode()
}

// Expr is a checked expression.
type Expr interface {
	Node

	// The type of the value the expression produces.
	Type() types.Type
}

// NodeBase is the base struct of all statements.
type NodeBase struct {
	span *report.TextSpan
}

// NewNodeBase creates a new node base on span.
func NewNodeBase(span *report.TextSpan) NodeBase {
	return NodeBase{span: span}
}

func (nb NodeBase) Span() *report.TextSpan { return nb.span }
func (NodeBase) hirNode()                  {}

// ExprBase is the base struct of all expressions.
type ExprBase struct {
	NodeBase

	typ types.Type
}

// NewExprBase creates a new expression base on span with type typ.
func NewExprBase(span *report.TextSpan, typ types.Type) ExprBase {
	return ExprBase{NodeBase: NodeBase{span: span}, typ: typ}
}

func (eb ExprBase) Type() types.Type { return eb.typ }

// -----------------------------------------------------------------------------

// Symbol is a local variable or function parameter.
type Symbol struct {
	// The name of the symbol as written.
	Name string

	// The unique path of the symbol within the program: shadowing
	// declarations receive distinct paths.
	Path common.IdentifierPath

	// The declared (always widened) type of the symbol.
	Type types.Type

	// Where the symbol was declared.
	DefSpan *report.TextSpan

	// Whether the symbol is a function parameter.
	IsParam bool
}

// Location returns the storage location of the symbol.
func (s *Symbol) Location() common.ValueLocation {
	return common.Named(s.Path)
}

// Func is a checked function definition.
type Func struct {
	// The signature of the function.
	Signature *types.FunctionSignature

	// The parameter symbols in declaration order.
	Params []*Symbol

	// Every local declared by the function (excluding parameters) in
	// declaration order.
	Locals []*Symbol

	// The body of the function.  Its value is returned when the end of the
	// body is reachable.
	Body Expr

	// Whether the end of the body is reachable.
	EndReachable bool
}

// LocationOf returns the storage location named by expr: locals and the
// members of locatable values.  All other expressions are unknown.
func LocationOf(expr Expr) common.ValueLocation {
	switch v := expr.(type) {
	case *LocalRef:
		return v.Symbol.Location()
	case *MemberAccess:
		return common.MemberOf(LocationOf(v.Root), v.Member)
	default:
		return common.UnknownLocation{}
	}
}

// Program is a checked compilation unit.
type Program struct {
	// The global declaration table.
	Decls *types.DeclTable

	// The function definitions in declaration order.  Extern functions have
	// no definition.
	Funcs []*Func
}
