package syntax

import (
	"helixc/ast"
	"helixc/common"
)

// block := '{' {stmt ';'} '}' ;
func (p *Parser) parseBlock() *ast.Block {
	startSpan := p.want(TOK_LBRACE).Span

	var stmts []ast.ASTNode
	for !p.has(TOK_RBRACE) {
		stmts = append(stmts, p.parseStmt())
		p.want(TOK_SEMI)
	}

	endSpan := p.want(TOK_RBRACE).Span

	return &ast.Block{
		ExprBase: ast.NewExprBase(startSpan, endSpan),
		Stmts:    stmts,
	}
}

// stmt := var_decl | while_loop | for_loop | simple_stmt | expr_assign_stmt ;
// simple_stmt := 'break' | 'continue' | 'return' [expr] ;
func (p *Parser) parseStmt() ast.ASTNode {
	switch p.tok.Kind {
	case TOK_VAR:
		return p.parseVarDecl()
	case TOK_WHILE:
		return p.parseWhileLoop()
	case TOK_FOR:
		return p.parseForLoop()
	case TOK_BREAK, TOK_CONTINUE:
		p.next()
		return &ast.KeywordStmt{
			ASTBase: ast.NewASTBaseOn(p.lookbehind.Span),
			Kind:    p.lookbehind.Kind,
		}
	case TOK_RETURN:
		p.next()
		startSpan := p.lookbehind.Span

		var value ast.ASTExpr
		if !p.has(TOK_SEMI) {
			value = p.parseExpr()
		}

		return &ast.ReturnStmt{
			ASTBase: ast.NewASTBaseOver(startSpan, p.lookbehind.Span),
			Value:   value,
		}
	default:
		return p.parseExprAssignStmt()
	}
}

// var_decl := 'var' 'IDENT' ['as' type_label] '=' expr ;
func (p *Parser) parseVarDecl() *ast.VarDecl {
	startSpan := p.want(TOK_VAR).Span
	nameTok := p.want(TOK_IDENT)

	var typ ast.TypeLabel
	if p.has(TOK_AS) {
		p.next()
		typ = p.parseTypeLabel()
	}

	p.want(TOK_ASSIGN)

	init := p.parseExpr()

	return &ast.VarDecl{
		ASTBase:     ast.NewASTBaseOver(startSpan, init.Span()),
		Name:        nameTok.Value,
		NameSpan:    nameTok.Span,
		Type:        typ,
		Initializer: init,
	}
}

// while_loop := 'while' expr block ;
func (p *Parser) parseWhileLoop() *ast.WhileLoop {
	startSpan := p.want(TOK_WHILE).Span

	cond := p.parseExpr()
	body := p.parseBlock()

	return &ast.WhileLoop{
		ASTBase:   ast.NewASTBaseOver(startSpan, body.Span()),
		Condition: cond,
		Body:      body,
	}
}

// for_loop := 'for' 'IDENT' '=' expr ('to' | 'until') expr block ;
func (p *Parser) parseForLoop() *ast.ForLoop {
	startSpan := p.want(TOK_FOR).Span
	iterTok := p.want(TOK_IDENT)

	p.want(TOK_ASSIGN)

	start := p.parseExpr()

	inclusive := true
	if p.has(TOK_UNTIL) {
		inclusive = false
		p.next()
	} else {
		p.want(TOK_TO)
	}

	end := p.parseExpr()
	body := p.parseBlock()

	return &ast.ForLoop{
		ASTBase:   ast.NewASTBaseOver(startSpan, body.Span()),
		IterName:  iterTok.Value,
		IterSpan:  iterTok.Span,
		Start:     start,
		End:       end,
		Inclusive: inclusive,
		Body:      body,
	}
}

// compoundAssignOps maps the compound assignment tokens to the operators
// they apply.
var compoundAssignOps = map[int]common.Operator{
	TOK_PLUS_ASSIGN:  common.OP_ADD,
	TOK_MINUS_ASSIGN: common.OP_SUB,
	TOK_STAR_ASSIGN:  common.OP_MUL,
	TOK_DIV_ASSIGN:   common.OP_DIV,
	TOK_MOD_ASSIGN:   common.OP_MOD,
}

// expr_assign_stmt := expr [('=' | '+=' | '-=' | '*=' | '/=' | '%=') expr] ;
func (p *Parser) parseExprAssignStmt() ast.ASTNode {
	lhs := p.parseExpr()

	if p.has(TOK_ASSIGN) {
		p.next()

		rhs := p.parseExpr()
		return &ast.Assignment{
			ASTBase: ast.NewASTBaseOver(lhs.Span(), rhs.Span()),
			LHS:     lhs,
			RHS:     rhs,
		}
	} else if op, ok := compoundAssignOps[p.tok.Kind]; ok {
		p.next()

		rhs := p.parseExpr()
		return &ast.Assignment{
			ASTBase:    ast.NewASTBaseOver(lhs.Span(), rhs.Span()),
			LHS:        lhs,
			RHS:        rhs,
			CompoundOp: &op,
		}
	}

	return lhs
}
