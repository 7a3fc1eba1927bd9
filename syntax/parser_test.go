package syntax

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sirkon/deepequal"

	"helixc/ast"
	"helixc/common"
	"helixc/report"
)

func parseString(t *testing.T, src string) *ast.File {
	t.Helper()

	file := &ast.File{ReprPath: "test.helix"}
	if err := Parse(file, strings.NewReader(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return file
}

// parseExprString parses src as the body of a function yielding an
// expression.
func parseExprString(t *testing.T, src string) ast.ASTExpr {
	t.Helper()

	file := parseString(t, "func f() => "+src+";")
	return file.Decls[0].(*ast.FuncDecl).Body
}

func TestLexerTokens(t *testing.T) {
	lexer := NewLexer([]byte("var x = 0x1F; // comment\nx += 1_000 => a!=b"))

	var kinds []int
	var values []string
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if tok.Kind == TOK_EOF {
			break
		}

		kinds = append(kinds, tok.Kind)
		values = append(values, tok.Value)
	}

	wantKinds := []int{
		TOK_VAR, TOK_IDENT, TOK_ASSIGN, TOK_WORDLIT, TOK_SEMI,
		TOK_IDENT, TOK_PLUS_ASSIGN, TOK_WORDLIT, TOK_YIELDS, TOK_IDENT, TOK_NEQ, TOK_IDENT,
	}
	if !reflect.DeepEqual(wantKinds, kinds) {
		deepequal.SideBySide(t, "token kinds", wantKinds, kinds)
	}

	wantValues := []string{"var", "x", "=", "0x1F", ";", "x", "+=", "1000", "=>", "a", "!=", "b"}
	if !reflect.DeepEqual(wantValues, values) {
		deepequal.SideBySide(t, "token values", wantValues, values)
	}
}

func TestLexerSpans(t *testing.T) {
	lexer := NewLexer([]byte("a\n  bc"))

	lexer.NextToken()
	tok, _ := lexer.NextToken()

	want := &report.TextSpan{Offset: 4, Length: 2, StartLine: 1, StartCol: 2, EndLine: 1, EndCol: 4}
	if !reflect.DeepEqual(want, tok.Span) {
		deepequal.SideBySide(t, "span", want, tok.Span)
	}
}

func TestLexicalErrors(t *testing.T) {
	for _, src := range []string{"12ab", "0x", "0b102", "@"} {
		err := Parse(&ast.File{}, strings.NewReader("func f() => "+src+";"))
		if !report.IsKind(err, report.ErrLexical) {
			t.Errorf("%q: got %v, want a lexical error", src, err)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	for _, src := range []string{
		"func f() { var x = ; };",
		"func f( { };",
		"struct S { var x as word };",
		"func f() => 1",
		"var x = 1;",
	} {
		err := Parse(&ast.File{}, strings.NewReader(src))
		if !report.IsKind(err, report.ErrSyntax) {
			t.Errorf("%q: got %v, want a syntax error", src, err)
		}
	}
}

func TestDeclarations(t *testing.T) {
	file := parseString(t, `
		extern func putw(var w as word);

		struct Point {
			var x as word;
			var next as Point*;
		};

		union Shape { var circle as word; var square as Point; };

		func main() as word {
			return 0;
		};
	`)

	if len(file.Decls) != 4 {
		t.Fatalf("got %d declarations, want 4", len(file.Decls))
	}

	ext := file.Decls[0].(*ast.FuncDecl)
	if !ext.IsExtern() || ext.Name != "putw" || len(ext.Params) != 1 || ext.ReturnType != nil {
		t.Errorf("bad extern declaration: %+v", ext)
	}

	point := file.Decls[1].(*ast.AggregateDecl)
	if point.Kind != ast.AggStruct || len(point.Members) != 2 {
		t.Fatalf("bad struct declaration: %+v", point)
	}

	ptr, ok := point.Members[1].Type.(*ast.PointerTypeLabel)
	if !ok || ptr.ElemType.(*ast.NamedTypeLabel).Name != "Point" {
		t.Errorf("bad member type: %#v", point.Members[1].Type)
	}

	if shape := file.Decls[2].(*ast.AggregateDecl); shape.Kind != ast.AggUnion {
		t.Error("union parsed as struct")
	}

	main := file.Decls[3].(*ast.FuncDecl)
	body := main.Body.(*ast.Block)
	if _, ok := body.Stmts[0].(*ast.ReturnStmt); !ok || main.IsExtern() {
		t.Errorf("bad function body: %#v", body.Stmts)
	}
}

func TestPrecedence(t *testing.T) {
	expr := parseExprString(t, "a + b * c == d and then e or f xor g")

	or := expr.(*ast.BinaryOp)
	if or.Op != common.OP_OR || or.ShortCircuit {
		t.Fatalf("root is %s", or.Op)
	}

	and := or.LHS.(*ast.BinaryOp)
	if and.Op != common.OP_AND || !and.ShortCircuit {
		t.Fatalf("left of or is %s", and.Op)
	}

	if xor := or.RHS.(*ast.BinaryOp); xor.Op != common.OP_XOR {
		t.Errorf("right of or is %s", xor.Op)
	}

	eq := and.LHS.(*ast.BinaryOp)
	add := eq.LHS.(*ast.BinaryOp)
	if eq.Op != common.OP_EQ || add.Op != common.OP_ADD || add.RHS.(*ast.BinaryOp).Op != common.OP_MUL {
		t.Error("arithmetic precedence is wrong")
	}

	sub := parseExprString(t, "a - b - c").(*ast.BinaryOp)
	if _, ok := sub.LHS.(*ast.BinaryOp); !ok {
		t.Error("subtraction is not left associative")
	}
}

func TestPostfixStar(t *testing.T) {
	if _, ok := parseExprString(t, "p * q").(*ast.BinaryOp); !ok {
		t.Error("`p * q` is not a multiplication")
	}

	if _, ok := parseExprString(t, "p*").(*ast.Deref); !ok {
		t.Error("`p*` is not a dereference")
	}

	add, ok := parseExprString(t, "p* + 1").(*ast.BinaryOp)
	if !ok || add.Op != common.OP_ADD {
		t.Fatal("`p* + 1` is not an addition")
	}

	if _, ok := add.LHS.(*ast.Deref); !ok {
		t.Error("`p* + 1` does not dereference p")
	}

	file := parseString(t, "func f() { p* = 3; x *= 2; };")
	stmts := file.Decls[0].(*ast.FuncDecl).Body.(*ast.Block).Stmts

	if as := stmts[0].(*ast.Assignment); as.CompoundOp != nil {
		t.Error("`p* = 3` is a compound assignment")
	} else if _, ok := as.LHS.(*ast.Deref); !ok {
		t.Error("`p* = 3` does not assign through p")
	}

	if as := stmts[1].(*ast.Assignment); as.CompoundOp == nil || *as.CompoundOp != common.OP_MUL {
		t.Error("`x *= 2` is not a compound multiplication")
	}
}

func TestStatementsAndExpressions(t *testing.T) {
	file := parseString(t, `
		func f(var s as Shape) as word {
			var x as word = if s is circle then s.circle else 0;
			for i = 0 until 10 { x = x + i; };
			while x > 0 { x -= 1; break; };
			var p = new Point { x = 1, next = &x };
			var c = new word*;
			var a = [1, 2, 3];
			a[0] as bool;
			g(x, !true, -x);
			x;
		};
	`)

	stmts := file.Decls[0].(*ast.FuncDecl).Body.(*ast.Block).Stmts
	if len(stmts) != 9 {
		t.Fatalf("got %d statements", len(stmts))
	}

	vd := stmts[0].(*ast.VarDecl)
	ifExpr := vd.Initializer.(*ast.IfExpr)
	if _, ok := ifExpr.Condition.(*ast.IsTest); !ok || ifExpr.Else == nil {
		t.Error("bad if expression")
	}

	if loop := stmts[1].(*ast.ForLoop); loop.Inclusive || loop.IterName != "i" {
		t.Error("bad for loop")
	}

	if body := stmts[2].(*ast.WhileLoop).Body; len(body.Stmts) != 2 {
		t.Error("bad while body")
	} else if ks := body.Stmts[1].(*ast.KeywordStmt); ks.Kind != TOK_BREAK {
		t.Error("bad break")
	}

	ne := stmts[3].(*ast.VarDecl).Initializer.(*ast.NewExpr)
	if len(ne.Fields) != 2 || ne.Fields[1].Name != "next" {
		t.Error("bad new expression")
	}

	if _, ok := stmts[4].(*ast.VarDecl).Initializer.(*ast.NewExpr).Type.(*ast.PointerTypeLabel); !ok {
		t.Error("bad heap allocation")
	}

	if lit := stmts[5].(*ast.VarDecl).Initializer.(*ast.ArrayLiteral); len(lit.Elems) != 3 {
		t.Error("bad array literal")
	}

	if cast := stmts[6].(*ast.Cast); cast.Src.(*ast.Index) == nil {
		t.Error("bad cast")
	}

	if call := stmts[7].(*ast.Call); call.FuncName != "g" || len(call.Args) != 3 {
		t.Error("bad call")
	}
}
