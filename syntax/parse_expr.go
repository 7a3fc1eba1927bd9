package syntax

import (
	"helixc/ast"
	"helixc/common"
)

// expr := if_expr | or_expr ;
// if_expr := 'if' expr 'then' expr ['else' expr] ;
func (p *Parser) parseExpr() ast.ASTExpr {
	if !p.has(TOK_IF) {
		return p.parseBinOpExpr()
	}

	startSpan := p.want(TOK_IF).Span

	cond := p.parseExpr()

	p.want(TOK_THEN)

	then := p.parseExpr()

	var els ast.ASTExpr
	if p.has(TOK_ELSE) {
		p.next()
		els = p.parseExpr()
	}

	return &ast.IfExpr{
		ExprBase:  ast.NewExprBase(startSpan, p.lookbehind.Span),
		Condition: cond,
		Then:      then,
		Else:      els,
	}
}

// -----------------------------------------------------------------------------

// or_expr := xor_expr {('or' | 'or' 'else') xor_expr} ;
// xor_expr := and_expr {'xor' and_expr} ;
// and_expr := cmp_expr {('and' | 'and' 'then') cmp_expr} ;
// cmp_expr := add_expr {('==' | '!=' | '<' | '>' | '<=' | '>=') add_expr} ;
// add_expr := mul_expr {('+' | '-') mul_expr} ;
// mul_expr := prefix_expr {('*' | '/' | '%') prefix_expr} ;
func (p *Parser) parseBinOpExpr() ast.ASTExpr {
	return p.precedenceParse(p.parsePrefixExpr(), len(precTable))
}

// precTable is the operator precedence table for binary operators. The table is
// ordered highest to lowest precedence.
var precTable = [][]int{
	{TOK_STAR, TOK_DIV, TOK_MOD},
	{TOK_PLUS, TOK_MINUS},
	{TOK_EQ, TOK_NEQ, TOK_LT, TOK_GT, TOK_LTEQ, TOK_GTEQ},
	{TOK_AND},
	{TOK_XOR},
	{TOK_OR},
}

// binaryOps maps binary operator tokens to their operators.
var binaryOps = map[int]common.Operator{
	TOK_STAR:  common.OP_MUL,
	TOK_DIV:   common.OP_DIV,
	TOK_MOD:   common.OP_MOD,
	TOK_PLUS:  common.OP_ADD,
	TOK_MINUS: common.OP_SUB,
	TOK_EQ:    common.OP_EQ,
	TOK_NEQ:   common.OP_NEQ,
	TOK_LT:    common.OP_LT,
	TOK_GT:    common.OP_GT,
	TOK_LTEQ:  common.OP_LTEQ,
	TOK_GTEQ:  common.OP_GTEQ,
	TOK_AND:   common.OP_AND,
	TOK_XOR:   common.OP_XOR,
	TOK_OR:    common.OP_OR,
}

// precedenceParse is a helper function used to perform operator precedence
// parsing for binary operators.  All binary operators are left associative.
func (p *Parser) precedenceParse(lhs ast.ASTExpr, maxPrec int) ast.ASTExpr {
	for {
		// Check to see if the lookahead matches any of the operators at or
		// above our precedence level.
		var op *Token
		var opPrec int
		for prec, precLevel := range precTable[:maxPrec] {
			if p.hasOneOf(precLevel...) {
				op = p.tok
				opPrec = prec
				break
			}
		}

		// No matching operator.
		if op == nil {
			break
		}

		p.next()

		// `and then` and `or else` short-circuit.
		shortCircuit := op.Kind == TOK_AND && p.has(TOK_THEN) || op.Kind == TOK_OR && p.has(TOK_ELSE)
		if shortCircuit {
			p.next()
		}

		rhs := p.parsePrefixExpr()

		// Operators of higher precedence bind to the right operand first.
		for p.hasHigherOp(opPrec) {
			rhs = p.precedenceParse(rhs, opPrec)
		}

		lhs = &ast.BinaryOp{
			ExprBase:     ast.NewExprBase(lhs.Span(), rhs.Span()),
			Op:           binaryOps[op.Kind],
			OpSpan:       op.Span,
			ShortCircuit: shortCircuit,
			LHS:          lhs,
			RHS:          rhs,
		}
	}

	return lhs
}

// hasHigherOp returns whether the parser is positioned on a binary operator
// which binds tighter than the operators of the given precedence level.
func (p *Parser) hasHigherOp(prec int) bool {
	for _, precLevel := range precTable[:prec] {
		if p.hasOneOf(precLevel...) {
			return true
		}
	}

	return false
}

// -----------------------------------------------------------------------------

// prefix_expr := ('!' | '-' | '&') prefix_expr | postfix_expr ;
func (p *Parser) parsePrefixExpr() ast.ASTExpr {
	switch p.tok.Kind {
	case TOK_NOT, TOK_MINUS:
		opTok := p.tok
		p.next()

		operand := p.parsePrefixExpr()

		op := common.OP_NOT
		if opTok.Kind == TOK_MINUS {
			op = common.OP_NEG
		}

		return &ast.UnaryOp{
			ExprBase: ast.NewExprBase(opTok.Span, operand.Span()),
			Op:       op,
			Operand:  operand,
		}
	case TOK_AMP:
		startSpan := p.want(TOK_AMP).Span

		operand := p.parsePrefixExpr()
		return &ast.AddressOf{
			ExprBase: ast.NewExprBase(startSpan, operand.Span()),
			Operand:  operand,
		}
	default:
		return p.parsePostfixExpr()
	}
}

// postfix_expr := atom {trailer} ;
// trailer := '.' 'IDENT' | '[' expr ']' | '*' | 'is' 'IDENT' | 'as' type_label ;
func (p *Parser) parsePostfixExpr() ast.ASTExpr {
	expr := p.parseAtom()

	for {
		switch p.tok.Kind {
		case TOK_DOT:
			p.next()
			fieldTok := p.want(TOK_IDENT)

			expr = &ast.Dot{
				ExprBase:  ast.NewExprBase(expr.Span(), fieldTok.Span),
				Root:      expr,
				FieldName: fieldTok.Value,
				FieldSpan: fieldTok.Span,
			}
		case TOK_LBRACKET:
			p.next()
			index := p.parseExpr()
			endSpan := p.want(TOK_RBRACKET).Span

			expr = &ast.Index{
				ExprBase: ast.NewExprBase(expr.Span(), endSpan),
				Root:     expr,
				Index:    index,
			}
		case TOK_STAR:
			// A `*` followed by an operand is a multiplication.
			if startsOperand(p.peek().Kind) {
				return expr
			}

			p.next()
			expr = &ast.Deref{
				ExprBase: ast.NewExprBase(expr.Span(), p.lookbehind.Span),
				Ptr:      expr,
			}
		case TOK_IS:
			p.next()
			memberTok := p.want(TOK_IDENT)

			expr = &ast.IsTest{
				ExprBase:   ast.NewExprBase(expr.Span(), memberTok.Span),
				Root:       expr,
				MemberName: memberTok.Value,
				MemberSpan: memberTok.Span,
			}
		case TOK_AS:
			p.next()
			dest := p.parseTypeLabel()

			expr = &ast.Cast{
				ExprBase: ast.NewExprBase(expr.Span(), dest.Span()),
				Src:      expr,
				Dest:     dest,
			}
		default:
			return expr
		}
	}
}

// startsOperand returns whether a token of the given kind can begin the right
// operand of a multiplication.
func startsOperand(kind int) bool {
	switch kind {
	case TOK_IDENT, TOK_WORDLIT, TOK_BOOLLIT, TOK_VOID, TOK_LPAREN, TOK_LBRACKET, TOK_NEW, TOK_IF:
		return true
	default:
		return false
	}
}

// -----------------------------------------------------------------------------

// atom := 'WORDLIT' | 'BOOLLIT' | 'void' | 'IDENT' | call | '(' expr ')'
//	| block | array_lit | new_expr | if_expr ;
func (p *Parser) parseAtom() ast.ASTExpr {
	switch p.tok.Kind {
	case TOK_WORDLIT, TOK_BOOLLIT, TOK_VOID:
		p.next()

		kind := ast.LitWord
		switch p.lookbehind.Kind {
		case TOK_BOOLLIT:
			kind = ast.LitBool
		case TOK_VOID:
			kind = ast.LitVoid
		}

		return &ast.Literal{
			ExprBase: ast.NewExprBase(p.lookbehind.Span, nil),
			Kind:     kind,
			Value:    p.lookbehind.Value,
		}
	case TOK_IDENT:
		nameTok := p.want(TOK_IDENT)

		if p.has(TOK_LPAREN) {
			return p.parseCall(nameTok)
		}

		return &ast.Identifier{
			ExprBase: ast.NewExprBase(nameTok.Span, nil),
			Name:     nameTok.Value,
		}
	case TOK_LPAREN:
		p.next()
		expr := p.parseExpr()
		p.want(TOK_RPAREN)
		return expr
	case TOK_LBRACE:
		return p.parseBlock()
	case TOK_LBRACKET:
		return p.parseArrayLit()
	case TOK_NEW:
		return p.parseNewExpr()
	case TOK_IF:
		return p.parseExpr()
	}

	p.reject()
	return nil
}

// call := 'IDENT' '(' [expr {',' expr}] ')' ;
func (p *Parser) parseCall(nameTok *Token) *ast.Call {
	p.want(TOK_LPAREN)

	var args []ast.ASTExpr
	for !p.has(TOK_RPAREN) {
		args = append(args, p.parseExpr())

		if p.has(TOK_COMMA) {
			p.next()
		} else {
			break
		}
	}

	endSpan := p.want(TOK_RPAREN).Span

	return &ast.Call{
		ExprBase: ast.NewExprBase(nameTok.Span, endSpan),
		FuncName: nameTok.Value,
		FuncSpan: nameTok.Span,
		Args:     args,
	}
}

// array_lit := '[' [expr {',' expr}] ']' ;
func (p *Parser) parseArrayLit() *ast.ArrayLiteral {
	startSpan := p.want(TOK_LBRACKET).Span

	var elems []ast.ASTExpr
	for !p.has(TOK_RBRACKET) {
		elems = append(elems, p.parseExpr())

		if p.has(TOK_COMMA) {
			p.next()
		} else {
			break
		}
	}

	endSpan := p.want(TOK_RBRACKET).Span

	return &ast.ArrayLiteral{
		ExprBase: ast.NewExprBase(startSpan, endSpan),
		Elems:    elems,
	}
}

// new_expr := 'new' type_label ['{' [field_init {',' field_init}] '}'] ;
// field_init := 'IDENT' '=' expr ;
func (p *Parser) parseNewExpr() *ast.NewExpr {
	startSpan := p.want(TOK_NEW).Span

	typ := p.parseTypeLabel()
	endSpan := typ.Span()

	var fields []*ast.FieldInit
	if p.has(TOK_LBRACE) {
		p.next()

		for !p.has(TOK_RBRACE) {
			nameTok := p.want(TOK_IDENT)
			p.want(TOK_ASSIGN)

			fields = append(fields, &ast.FieldInit{
				Name:     nameTok.Value,
				NameSpan: nameTok.Span,
				Value:    p.parseExpr(),
			})

			if p.has(TOK_COMMA) {
				p.next()
			} else {
				break
			}
		}

		endSpan = p.want(TOK_RBRACE).Span
	}

	return &ast.NewExpr{
		ExprBase: ast.NewExprBase(startSpan, endSpan),
		Type:     typ,
		Fields:   fields,
	}
}
