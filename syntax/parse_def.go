package syntax

import (
	"helixc/ast"
	"helixc/report"
)

// file := {decl} EOF ;
func (p *Parser) parseFile() {
	for !p.has(TOK_EOF) {
		p.file.Decls = append(p.file.Decls, p.parseDecl())
	}
}

// decl := (func_decl | extern_decl | aggregate_decl) ';' ;
func (p *Parser) parseDecl() ast.ASTNode {
	var decl ast.ASTNode

	switch p.tok.Kind {
	case TOK_FUNC:
		decl = p.parseFuncDecl()
	case TOK_EXTERN:
		decl = p.parseExternDecl()
	case TOK_STRUCT, TOK_UNION:
		decl = p.parseAggregateDecl()
	default:
		p.reject()
	}

	p.want(TOK_SEMI)
	return decl
}

// -----------------------------------------------------------------------------

// func_decl := 'func' func_signature ('=>' expr | block) ;
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	startSpan := p.want(TOK_FUNC).Span

	fd := p.parseFuncSignature()

	if p.has(TOK_YIELDS) {
		p.next()
		fd.Body = p.parseExpr()
	} else {
		fd.Body = p.parseBlock()
	}

	fd.ASTBase = ast.NewASTBaseOver(startSpan, fd.Body.Span())
	return fd
}

// extern_decl := 'extern' 'func' func_signature ;
func (p *Parser) parseExternDecl() *ast.FuncDecl {
	startSpan := p.want(TOK_EXTERN).Span
	p.want(TOK_FUNC)

	fd := p.parseFuncSignature()
	fd.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
	return fd
}

// func_signature := 'IDENT' '(' [param {',' param}] ')' ['as' type_label] ;
func (p *Parser) parseFuncSignature() *ast.FuncDecl {
	nameTok := p.want(TOK_IDENT)

	p.want(TOK_LPAREN)

	var params []*ast.Param
	for !p.has(TOK_RPAREN) {
		params = append(params, p.parseParam())

		if p.has(TOK_COMMA) {
			p.next()
		} else {
			break
		}
	}

	p.want(TOK_RPAREN)

	var retType ast.TypeLabel
	if p.has(TOK_AS) {
		p.next()
		retType = p.parseTypeLabel()
	}

	return &ast.FuncDecl{
		Name:       nameTok.Value,
		NameSpan:   nameTok.Span,
		Params:     params,
		ReturnType: retType,
	}
}

// param := 'var' 'IDENT' 'as' type_label ;
func (p *Parser) parseParam() *ast.Param {
	startSpan := p.want(TOK_VAR).Span
	nameTok := p.want(TOK_IDENT)
	p.want(TOK_AS)
	typ := p.parseTypeLabel()

	return &ast.Param{
		Name: nameTok.Value,
		Span: report.NewSpanOver(startSpan, typ.Span()),
		Type: typ,
	}
}

// -----------------------------------------------------------------------------

// aggregate_decl := ('struct' | 'union') 'IDENT' '{' {param ';'} '}' ;
func (p *Parser) parseAggregateDecl() *ast.AggregateDecl {
	kind := ast.AggStruct
	if p.has(TOK_UNION) {
		kind = ast.AggUnion
	}

	p.next()
	startSpan := p.lookbehind.Span

	nameTok := p.want(TOK_IDENT)

	p.want(TOK_LBRACE)

	var members []*ast.Param
	for !p.has(TOK_RBRACE) {
		members = append(members, p.parseParam())
		p.want(TOK_SEMI)
	}

	endSpan := p.want(TOK_RBRACE).Span

	return &ast.AggregateDecl{
		ASTBase:  ast.NewASTBaseOver(startSpan, endSpan),
		Kind:     kind,
		Name:     nameTok.Value,
		NameSpan: nameTok.Span,
		Members:  members,
	}
}

// -----------------------------------------------------------------------------

// type_label := ('word' | 'bool' | 'void' | 'IDENT') {'*' | '[' ']'} ;
func (p *Parser) parseTypeLabel() ast.TypeLabel {
	var typ ast.TypeLabel

	switch p.tok.Kind {
	case TOK_WORD:
		typ = &ast.PrimitiveTypeLabel{ASTBase: ast.NewASTBaseOn(p.tok.Span), Kind: ast.PrimWord}
	case TOK_BOOL:
		typ = &ast.PrimitiveTypeLabel{ASTBase: ast.NewASTBaseOn(p.tok.Span), Kind: ast.PrimBool}
	case TOK_VOID:
		typ = &ast.PrimitiveTypeLabel{ASTBase: ast.NewASTBaseOn(p.tok.Span), Kind: ast.PrimVoid}
	case TOK_IDENT:
		typ = &ast.NamedTypeLabel{ASTBase: ast.NewASTBaseOn(p.tok.Span), Name: p.tok.Value}
	default:
		p.reject()
	}

	p.next()

	for {
		switch p.tok.Kind {
		case TOK_STAR:
			p.next()
			typ = &ast.PointerTypeLabel{
				ASTBase:  ast.NewASTBaseOver(typ.Span(), p.lookbehind.Span),
				ElemType: typ,
			}
		case TOK_LBRACKET:
			p.next()
			endSpan := p.want(TOK_RBRACKET).Span
			typ = &ast.ArrayTypeLabel{
				ASTBase:  ast.NewASTBaseOver(typ.Span(), endSpan),
				ElemType: typ,
			}
		default:
			return typ
		}
	}
}
