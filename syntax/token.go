package syntax

import "helixc/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.
	Value string

	// The text span over which the token exists.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_FUNC = iota
	TOK_EXTERN
	TOK_STRUCT
	TOK_UNION

	TOK_VAR
	TOK_AS
	TOK_IS
	TOK_NEW

	TOK_IF
	TOK_THEN
	TOK_ELSE
	TOK_WHILE
	TOK_FOR
	TOK_TO
	TOK_UNTIL
	TOK_BREAK
	TOK_CONTINUE
	TOK_RETURN

	TOK_WORD
	TOK_BOOL
	TOK_VOID

	TOK_AND
	TOK_OR
	TOK_XOR

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_MOD

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_GT
	TOK_LTEQ
	TOK_GTEQ

	TOK_NOT
	TOK_AMP

	TOK_ASSIGN
	TOK_PLUS_ASSIGN
	TOK_MINUS_ASSIGN
	TOK_STAR_ASSIGN
	TOK_DIV_ASSIGN
	TOK_MOD_ASSIGN
	TOK_YIELDS

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACE
	TOK_RBRACE
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_COMMA
	TOK_DOT
	TOK_SEMI

	TOK_IDENT
	TOK_WORDLIT
	TOK_BOOLLIT

	TOK_EOF
)
