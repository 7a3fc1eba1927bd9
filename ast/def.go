package ast

import "helixc/report"

// FuncDecl represents a function declaration.
type FuncDecl struct {
	ASTBase

	// The name of the function.
	Name string

	// The span of the function's name.
	NameSpan *report.TextSpan

	// The parameters of the function.
	Params []*Param

	// The return type label.  This is nil if the function returns void.
	ReturnType TypeLabel

	// The body of the function.  This is nil for extern functions.
	Body ASTExpr
}

// IsExtern returns whether the function is defined outside of Helix.
func (fd *FuncDecl) IsExtern() bool {
	return fd.Body == nil
}

// Param represents a function parameter or an aggregate member: both are
// written `var name as type`.
type Param struct {
	// The name of the parameter.
	Name string

	// The span of the whole parameter.
	Span *report.TextSpan

	// The type label of the parameter.
	Type TypeLabel
}

// -----------------------------------------------------------------------------

// Enumeration of aggregate kinds.
const (
	AggStruct = iota
	AggUnion
)

// AggregateDecl represents a struct or union declaration.
type AggregateDecl struct {
	ASTBase

	// The kind of aggregate.  This must be one of the enumerated aggregate
	// kinds.
	Kind int

	// The name of the aggregate.
	Name string

	// The span of the aggregate's name.
	NameSpan *report.TextSpan

	// The members in declaration order.
	Members []*Param
}

// -----------------------------------------------------------------------------

// TypeLabel is a type as written in source text.
type TypeLabel interface {
	ASTNode

	typeLabel()
}

// Enumeration of primitive type labels.
const (
	PrimWord = iota
	PrimBool
	PrimVoid
)

// PrimitiveTypeLabel is one of `word`, `bool`, or `void`.
type PrimitiveTypeLabel struct {
	ASTBase

	// The primitive named.  This must be one of the enumerated primitive
	// type labels.
	Kind int
}

// NamedTypeLabel names a struct or union.
type NamedTypeLabel struct {
	ASTBase

	Name string
}

// PointerTypeLabel is a type label suffixed by `*`.
type PointerTypeLabel struct {
	ASTBase

	ElemType TypeLabel
}

// ArrayTypeLabel is a type label suffixed by `[]`.
type ArrayTypeLabel struct {
	ASTBase

	ElemType TypeLabel
}

func (*PrimitiveTypeLabel) typeLabel() {}
func (*NamedTypeLabel) typeLabel()     {}
func (*PointerTypeLabel) typeLabel()   {}
func (*ArrayTypeLabel) typeLabel()     {}
