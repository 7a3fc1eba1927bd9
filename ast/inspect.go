package ast

// Inspect traverses the tree rooted at node in depth-first order.  It calls
// f on every node before visiting its children; if f returns false, the
// children of that node are skipped.  Type labels are not visited.
func Inspect(node ASTNode, f func(ASTNode) bool) {
	if node == nil || !f(node) {
		return
	}

	switch v := node.(type) {
	case *FuncDecl:
		if v.Body != nil {
			Inspect(v.Body, f)
		}
	case *Block:
		for _, stmt := range v.Stmts {
			Inspect(stmt, f)
		}
	case *IfExpr:
		Inspect(v.Condition, f)
		Inspect(v.Then, f)
		if v.Else != nil {
			Inspect(v.Else, f)
		}
	case *VarDecl:
		Inspect(v.Initializer, f)
	case *Assignment:
		Inspect(v.LHS, f)
		Inspect(v.RHS, f)
	case *ReturnStmt:
		if v.Value != nil {
			Inspect(v.Value, f)
		}
	case *WhileLoop:
		Inspect(v.Condition, f)
		Inspect(v.Body, f)
	case *ForLoop:
		Inspect(v.Start, f)
		Inspect(v.End, f)
		Inspect(v.Body, f)
	case *ArrayLiteral:
		for _, elem := range v.Elems {
			Inspect(elem, f)
		}
	case *BinaryOp:
		Inspect(v.LHS, f)
		Inspect(v.RHS, f)
	case *UnaryOp:
		Inspect(v.Operand, f)
	case *AddressOf:
		Inspect(v.Operand, f)
	case *Deref:
		Inspect(v.Ptr, f)
	case *Call:
		for _, arg := range v.Args {
			Inspect(arg, f)
		}
	case *Dot:
		Inspect(v.Root, f)
	case *Index:
		Inspect(v.Root, f)
		Inspect(v.Index, f)
	case *IsTest:
		Inspect(v.Root, f)
	case *Cast:
		Inspect(v.Src, f)
	case *NewExpr:
		for _, field := range v.Fields {
			Inspect(field.Value, f)
		}
	}
}

// RootName returns the name of the variable at the base of an lvalue chain
// of member accesses: `p.x.y` yields `p`.  It returns false if the chain is
// not rooted at a variable.
func RootName(expr ASTExpr) (string, bool) {
	for {
		switch v := expr.(type) {
		case *Identifier:
			return v.Name, true
		case *Dot:
			expr = v.Root
		default:
			return "", false
		}
	}
}
