package syntax

import (
	"fmt"
	"io"

	"helixc/ast"
	"helixc/report"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse.

// Parser is the parser for a Helix source file.  It is a recursive descent
// parser: all parsing functions assume that they begin with the parser
// centered on the first token of their production and must consume all tokens
// (including the last) of their production, leaving the parser on the next
// token.  Syntax errors are raised as panics and abort the parse.  Parsers
// are created once per file.
type Parser struct {
	// The file being parsed.
	file *ast.File

	// The lexer for the file.
	lexer *Lexer

	// The token the parser is positioned on.
	tok *Token

	// The token the parser was last positioned on.
	lookbehind *Token

	// The token after the current token if it has already been lexed.
	lookahead *Token
}

// Parse parses the source text read from r into the given file.  The first
// lexical or syntax error is returned as a *report.LocalCompileError.
func Parse(file *ast.File, r io.Reader) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file.ReprPath, err)
	}

	return report.Capture(func() {
		p := &Parser{file: file, lexer: NewLexer(src)}

		p.next()
		p.parseFile()
	})
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() {
	p.lookbehind = p.tok

	if p.lookahead != nil {
		p.tok = p.lookahead
		p.lookahead = nil
		return
	}

	p.tok = p.lexToken()
}

// peek returns the token after the current token without moving the parser.
func (p *Parser) peek() *Token {
	if p.lookahead == nil {
		p.lookahead = p.lexToken()
	}

	return p.lookahead
}

// lexToken reads the next token from the lexer.
func (p *Parser) lexToken() *Token {
	tok, err := p.lexer.NextToken()
	if err != nil {
		panic(err)
	}

	return tok
}

// has returns whether the parser is positioned on a token of the given kind.
func (p *Parser) has(kind int) bool {
	return p.tok.Kind == kind
}

// hasOneOf returns whether the parser is positioned on a token of one of the
// given kinds.
func (p *Parser) hasOneOf(kinds ...int) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}

	return false
}

// want asserts that the parser is positioned on a token of the given kind,
// moves the parser forward, and returns the matched token.
func (p *Parser) want(kind int) *Token {
	if !p.has(kind) {
		p.reject()
	}

	tok := p.tok
	p.next()
	return tok
}

// -----------------------------------------------------------------------------

// reject raises an unexpected token error on the current token.
func (p *Parser) reject() {
	if p.has(TOK_EOF) {
		p.error(p.tok.Span, "unexpected end of file")
	}

	p.error(p.tok.Span, "unexpected token: `%s`", p.tok.Value)
}

// error raises a syntax error on the given span.
func (p *Parser) error(span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(report.ErrSyntax, span, msg, args...))
}
