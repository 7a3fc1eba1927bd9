package hir

import "helixc/common"

// VarDecl declares and initializes a local variable.
type VarDecl struct {
	NodeBase

	Symbol *Symbol

	Init Expr
}

// Assign stores a value to the storage named by an lvalue.
type Assign struct {
	NodeBase

	Target Expr

	Value Expr

	// The operator of a compound assignment: the stored value is `Target Op
	// Value` with Target evaluated once.  This is nil for a plain assignment.
	Op *common.Operator
}

// While repeats its body while its condition holds.
type While struct {
	NodeBase

	Cond Expr

	Body *Block
}

// For counts its iterator from Start to End.
type For struct {
	NodeBase

	Iter *Symbol

	Start, End Expr

	// Whether End is included in the iteration.
	Inclusive bool

	Body *Block
}

// Break exits the innermost loop.
type Break struct {
	NodeBase
}

// Continue jumps to the next iteration of the innermost loop.
type Continue struct {
	NodeBase
}

// Return exits the function.
type Return struct {
	NodeBase

	// The returned value.  This is nil for a void return.
	Value Expr
}
