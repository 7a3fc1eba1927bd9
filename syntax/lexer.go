package syntax

import (
	"unicode"
	"unicode/utf8"

	"helixc/report"
)

// Lexer splits the text of a source file into tokens.  The whole text is held
// in memory: tokens are slices of it.
type Lexer struct {
	// The source text.
	src []byte

	// The position of the next rune to read.
	pos position

	// The position at which the current token starts.
	start position
}

// position is a location in the source text.
type position struct {
	offset, line, col int
}

// NewLexer creates a new lexer over the given source text.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src}
}

// NextToken returns the next token of the text.  Once the text is exhausted,
// every call returns an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	l.skipTrivia()
	l.start = l.pos

	c := l.peek()
	switch {
	case c == -1:
		return l.token(TOK_EOF), nil
	case isDecimalDigit(c):
		return l.lexWordLit()
	case isFirstIdentChar(c):
		return l.lexIdentOrKeyword(), nil
	}

	return l.lexSymbol()
}

// skipTrivia moves the lexer past whitespace and line comments.
func (l *Lexer) skipTrivia() {
	for {
		switch c := l.peek(); {
		case c == '/' && l.peekAt(1) == '/':
			for c != '\n' && c != -1 {
				l.advance()
				c = l.peek()
			}
		case unicode.IsSpace(c):
			l.advance()
		default:
			return
		}
	}
}

// -----------------------------------------------------------------------------

// symbols maps every punctuation and operator symbol to its token kind.
var symbols = map[string]int{
	"+": TOK_PLUS, "+=": TOK_PLUS_ASSIGN,
	"-": TOK_MINUS, "-=": TOK_MINUS_ASSIGN,
	"*": TOK_STAR, "*=": TOK_STAR_ASSIGN,
	"/": TOK_DIV, "/=": TOK_DIV_ASSIGN,
	"%": TOK_MOD, "%=": TOK_MOD_ASSIGN,

	"==": TOK_EQ, "!=": TOK_NEQ,
	"<": TOK_LT, "<=": TOK_LTEQ,
	">": TOK_GT, ">=": TOK_GTEQ,
	"!": TOK_NOT, "&": TOK_AMP,
	"=": TOK_ASSIGN, "=>": TOK_YIELDS,

	"(": TOK_LPAREN, ")": TOK_RPAREN,
	"{": TOK_LBRACE, "}": TOK_RBRACE,
	"[": TOK_LBRACKET, "]": TOK_RBRACKET,
	",": TOK_COMMA, ".": TOK_DOT, ";": TOK_SEMI,
}

// maxSymbolLen is the length of the longest symbol.
const maxSymbolLen = 2

// lexSymbol lexes the longest symbol starting at the current rune.
func (l *Lexer) lexSymbol() (*Token, error) {
	for n := maxSymbolLen; n > 0; n-- {
		end := l.pos.offset + n
		if end > len(l.src) {
			continue
		}

		if kind, ok := symbols[string(l.src[l.pos.offset:end])]; ok {
			for i := 0; i < n; i++ {
				l.advance()
			}

			return l.token(kind), nil
		}
	}

	c := l.advance()
	return nil, report.Raise(report.ErrLexical, l.span(), "unknown rune: `%c`", c)
}

// -----------------------------------------------------------------------------

// keywords maps every reserved word to its token kind.
var keywords = map[string]int{
	"func": TOK_FUNC, "extern": TOK_EXTERN, "struct": TOK_STRUCT, "union": TOK_UNION,
	"var": TOK_VAR, "as": TOK_AS, "is": TOK_IS, "new": TOK_NEW,

	"if": TOK_IF, "then": TOK_THEN, "else": TOK_ELSE,
	"while": TOK_WHILE, "for": TOK_FOR, "to": TOK_TO, "until": TOK_UNTIL,
	"break": TOK_BREAK, "continue": TOK_CONTINUE, "return": TOK_RETURN,

	"word": TOK_WORD, "bool": TOK_BOOL, "void": TOK_VOID,
	"and": TOK_AND, "or": TOK_OR, "xor": TOK_XOR,
	"true": TOK_BOOLLIT, "false": TOK_BOOLLIT,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() *Token {
	for c := l.peek(); isFirstIdentChar(c) || isDecimalDigit(c); c = l.peek() {
		l.advance()
	}

	tok := l.token(TOK_IDENT)
	if kind, ok := keywords[tok.Value]; ok {
		tok.Kind = kind
	}

	return tok
}

// -----------------------------------------------------------------------------

// lexWordLit lexes a word literal: a decimal, hexadecimal (`0x`) or binary
// (`0b`) integer.  Underscores may separate digits and are dropped from the
// value of the token.
func (l *Lexer) lexWordLit() (*Token, error) {
	isDigit := isDecimalDigit
	prefixed := false

	if l.peek() == '0' {
		switch l.peekAt(1) {
		case 'x':
			isDigit, prefixed = isHexDigit, true
		case 'b':
			isDigit, prefixed = isBinaryDigit, true
		}
	}

	value := make([]rune, 0, 8)
	if prefixed {
		value = append(value, l.advance(), l.advance())
	}

	digits := 0
	for c := l.peek(); ; c = l.peek() {
		if c == '_' {
			l.advance()
		} else if isDigit(c) {
			value = append(value, l.advance())
			digits++
		} else if isFirstIdentChar(c) || isDecimalDigit(c) {
			// a literal running straight into an identifier: eg. `12ab` or
			// `0b102`
			l.advance()
			return nil, report.Raise(report.ErrLexical, l.span(), "malformed word literal")
		} else {
			break
		}
	}

	if digits == 0 {
		return nil, report.Raise(report.ErrLexical, l.span(), "incomplete word literal")
	}

	tok := l.token(TOK_WORDLIT)
	tok.Value = string(value)
	return tok, nil
}

// -----------------------------------------------------------------------------

// token produces a token of the given kind spanning from the start of the
// current token to the current position.
func (l *Lexer) token(kind int) *Token {
	return &Token{
		Kind:  kind,
		Value: string(l.src[l.start.offset:l.pos.offset]),
		Span:  l.span(),
	}
}

// span returns the text span of the current token.
func (l *Lexer) span() *report.TextSpan {
	return &report.TextSpan{
		Offset:    l.start.offset,
		Length:    l.pos.offset - l.start.offset,
		StartLine: l.start.line,
		StartCol:  l.start.col,
		EndLine:   l.pos.line,
		EndCol:    l.pos.col,
	}
}

// peek returns the rune at the current position or -1 at the end of the text.
func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n bytes past the current position or -1 past the end
// of the text.  Only the current rune may be multi-byte.
func (l *Lexer) peekAt(n int) rune {
	if l.pos.offset+n >= len(l.src) {
		return -1
	}

	c, _ := utf8.DecodeRune(l.src[l.pos.offset+n:])
	return c
}

// advance moves the lexer past the current rune and returns it.  Tabs count as
// four columns.
func (l *Lexer) advance() rune {
	c, size := utf8.DecodeRune(l.src[l.pos.offset:])
	l.pos.offset += size

	switch c {
	case '\n':
		l.pos.line++
		l.pos.col = 0
	case '\t':
		l.pos.col += 4
	default:
		l.pos.col++
	}

	return c
}

// -----------------------------------------------------------------------------

func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDecimalDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isBinaryDigit(c rune) bool {
	return c == '0' || c == '1'
}

// isFirstIdentChar returns whether c could be the first rune of an identifier.
func isFirstIdentChar(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}
