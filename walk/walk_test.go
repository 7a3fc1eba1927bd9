package walk

import (
	"strings"
	"testing"

	"helixc/ast"
	"helixc/hir"
	"helixc/report"
	"helixc/syntax"
	"helixc/types"
)

func walkString(t *testing.T, src string) *hir.Program {
	t.Helper()

	file := &ast.File{ReprPath: "test.helix"}
	if err := syntax.Parse(file, strings.NewReader(src)); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	prog, err := WalkFile(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return prog
}

func walkError(t *testing.T, src string) error {
	t.Helper()

	file := &ast.File{ReprPath: "test.helix"}
	if err := syntax.Parse(file, strings.NewReader(src)); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	_, err := WalkFile(file)
	if err == nil {
		t.Fatalf("expected an error walking:\n%s", src)
	}

	return err
}

// funcNamed returns the checked function with the given name.
func funcNamed(t *testing.T, prog *hir.Program, name string) *hir.Func {
	t.Helper()

	for _, f := range prog.Funcs {
		if f.Signature.Path.Name() == name {
			return f
		}
	}

	t.Fatalf("no function named `%s`", name)
	return nil
}

// bodyResult returns the expression producing the value of the body of f.
func bodyResult(t *testing.T, f *hir.Func) hir.Expr {
	t.Helper()

	if block, ok := f.Body.(*hir.Block); ok {
		if block.Result == nil {
			t.Fatalf("body of `%s` yields no value", f.Signature.Path.Name())
		}

		return block.Result
	}

	return f.Body
}

func expectType(t *testing.T, what string, want types.Type, got types.Type) {
	t.Helper()

	if !types.Equals(want, got) {
		t.Errorf("%s: expected type `%s` but got `%s`", what, want.Repr(), got.Repr())
	}
}

// -----------------------------------------------------------------------------

func TestEqualityNarrowsInsideBranch(t *testing.T) {
	prog := walkString(t, `func f(var x as word) as word => if x == 5 then x else 0;`)

	ifExpr := funcNamed(t, prog, "f").Body.(*hir.If)
	expectType(t, "then branch", types.NewSingularWord(5), ifExpr.Then.Type())
	expectType(t, "else branch", types.NewSingularWord(0), ifExpr.Else.Type())
	expectType(t, "if", types.Word, ifExpr.Type())
}

func TestNarrowingDiscardedAtJoin(t *testing.T) {
	prog := walkString(t, `
func f(var x as word) as word {
	var y = if x == 5 then x else 0;
	x;
};`)

	expectType(t, "x after if", types.Word, bodyResult(t, funcNamed(t, prog, "f")).Type())
}

func TestJumpingBranchKeepsOtherFacts(t *testing.T) {
	prog := walkString(t, `
func f(var x as word) as word {
	if x != 5 then {
		return 0;
	};
	x;
};`)

	expectType(t, "x after guard", types.NewSingularWord(5), bodyResult(t, funcNamed(t, prog, "f")).Type())
}

func TestBoolNarrowing(t *testing.T) {
	prog := walkString(t, `func f(var b as bool) as bool => if b then b else b;`)

	ifExpr := funcNamed(t, prog, "f").Body.(*hir.If)
	if got := ifExpr.Then.Type().Repr(); got != "true" {
		t.Errorf("then branch: expected `true` but got `%s`", got)
	}

	if got := ifExpr.Else.Type().Repr(); got != "false" {
		t.Errorf("else branch: expected `false` but got `%s`", got)
	}
}

func TestUnionNarrowing(t *testing.T) {
	prog := walkString(t, `
union shape {
	var circle as word;
	var square as bool;
};

func f(var s as shape) as word => if s is circle then s.circle else 0;
func g(var s as shape) as bool => if s is circle then false else s.square;
`)

	ifExpr := funcNamed(t, prog, "f").Body.(*hir.If)
	if _, ok := ifExpr.Then.(*hir.MemberAccess); !ok {
		t.Fatalf("expected a member access but got %T", ifExpr.Then)
	}
	expectType(t, "circle", types.Word, ifExpr.Then.Type())

	ifExpr = funcNamed(t, prog, "g").Body.(*hir.If)
	expectType(t, "square", types.Bool, types.Widen(ifExpr.Else.Type()))
}

func TestUnguardedUnionRead(t *testing.T) {
	err := walkError(t, `
union shape {
	var circle as word;
	var square as bool;
};

func f(var s as shape) as word => s.circle;
`)

	if !report.IsKind(err, report.ErrUsage) {
		t.Errorf("expected a usage error but got: %v", err)
	}
}

func TestAssignmentClearsFacts(t *testing.T) {
	prog := walkString(t, `
func f(var x as word) as word {
	if x != 5 then {
		return 0;
	};
	x = 7;
	x;
};`)

	expectType(t, "x after assignment", types.Word, bodyResult(t, funcNamed(t, prog, "f")).Type())
}

func TestLoopClearsAssignedFacts(t *testing.T) {
	prog := walkString(t, `
func f(var x as word) as word {
	if x != 5 then {
		return 0;
	};
	var y = 0;
	while y < 10 {
		y = x;
		x = y + 1;
	};
	x;
};`)

	f := funcNamed(t, prog, "f")
	body := f.Body.(*hir.Block)
	loop := body.Stmts[2].(*hir.While)
	assign := loop.Body.Stmts[0].(*hir.Assign)

	expectType(t, "x inside loop", types.Word, assign.Value.Type())
	expectType(t, "x after loop", types.Word, bodyResult(t, f).Type())
}

func TestAddressTakenNotNarrowed(t *testing.T) {
	prog := walkString(t, `
func f(var x as word) as word {
	var p = &x;
	if x != 5 then {
		return 0;
	};
	x;
};`)

	expectType(t, "x", types.Word, bodyResult(t, funcNamed(t, prog, "f")).Type())
}

func TestShadowedLocalsHaveDistinctPaths(t *testing.T) {
	prog := walkString(t, `
func f() as word {
	var x = 1;
	{
		var x = true;
		x;
	};
	x;
};`)

	f := funcNamed(t, prog, "f")
	if len(f.Locals) != 2 {
		t.Fatalf("expected 2 locals but got %d", len(f.Locals))
	}

	if got := f.Locals[0].Path.String(); got != "f/x" {
		t.Errorf("expected path `f/x` but got `%s`", got)
	}

	if got := f.Locals[1].Path.String(); got != "f/x#1" {
		t.Errorf("expected path `f/x#1` but got `%s`", got)
	}

	expectType(t, "outer x", types.Word, bodyResult(t, f).Type())
}

func TestConstantFolding(t *testing.T) {
	prog := walkString(t, `func f() as word => (2 + 3) * 4 - 0x10;`)

	expectType(t, "folded", types.NewSingularWord(4), funcNamed(t, prog, "f").Body.Type())
}

func TestDivisionByZero(t *testing.T) {
	for _, src := range []string{
		`func f(var x as word) as word => x / 0;`,
		`func f(var x as word) as word => x % (1 - 1);`,
		`func f(var x as word) { x /= 0; };`,
	} {
		err := walkError(t, src)
		if !strings.Contains(err.Error(), "division by zero") {
			t.Errorf("expected division by zero error but got: %v", err)
		}
	}
}

func TestUnreachableCodeWarning(t *testing.T) {
	before := report.WarningCount()

	prog := walkString(t, `
func f() as word {
	return 1;
	var x = 2;
	x;
};`)

	if got := report.WarningCount() - before; got != 1 {
		t.Errorf("expected 1 warning but got %d", got)
	}

	f := funcNamed(t, prog, "f")
	if f.EndReachable {
		t.Error("end of body reported reachable")
	}

	if n := len(f.Body.(*hir.Block).Stmts); n != 1 {
		t.Errorf("expected the unreachable statements to be dropped but got %d statements", n)
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind int
	}{
		{"undefined name", `func f() as word => y;`, report.ErrUndefinedName},
		{"undefined function", `func f() as word => g();`, report.ErrUndefinedName},
		{"undefined type", `func f(var p as point) {};`, report.ErrUndefinedName},
		{"mismatch", `func f() as word => true;`, report.ErrTypeMismatch},
		{"mismatched argument", `func g(var x as word) {}; func f() { g(false); };`, report.ErrTypeMismatch},
		{"arity", `func g(var x as word) {}; func f() { g(); };`, report.ErrUsage},
		{"break outside loop", `func f() { break; };`, report.ErrUsage},
		{"missing return", `func f() as word { var x = 1; };`, report.ErrUsage},
		{"duplicate declaration", `func f() {}; func f() {};`, report.ErrUsage},
		{"duplicate local", `func f() { var x = 1; var x = 2; };`, report.ErrUsage},
		{"recursive struct", `struct a { var b as b; }; struct b { var a as a; };`, report.ErrUsage},
		{"missing member", `struct p { var x as word; var y as word; }; func f() as p => new p { x = 1 };`, report.ErrUsage},
		{"unknown member", `struct p { var x as word; }; func f() as p => new p { x = 1, z = 2 };`, report.ErrUndefinedName},
		{"union with two members", `union u { var a as word; var b as word; }; func f() as u => new u { a = 1, b = 2 };`, report.ErrUsage},
		{"bad cast", `struct p { var x as word; }; func f(var v as p) as word => v as word;`, report.ErrTypeMismatch},
		{"empty array", `func f() { var a = []; };`, report.ErrUsage},
		{"function value", `func g() {}; func f() { var x = g; };`, report.ErrUsage},
		{"assign to call", `func g() as word => 1; func f() { g() = 2; };`, report.ErrUsage},
		{"assign union member", `union u { var a as word; }; func f(var v as u) { v.a = 1; };`, report.ErrUsage},
		{"jump in value position", `func f(var b as bool) as word { var x = if b then { return 1; } else { return 2; }; x; };`, report.ErrUsage},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := walkError(t, test.src)

			if !report.IsKind(err, test.kind) {
				t.Errorf("expected %s but got: %v", report.KindLabel(test.kind), err)
			}
		})
	}
}

func TestCasts(t *testing.T) {
	prog := walkString(t, `
func f(var x as word) as bool => x as bool;
func g(var b as bool) as word => b as word;
func h() as word => 5 as word;
`)

	expectType(t, "word to bool", types.Bool, funcNamed(t, prog, "f").Body.Type())
	expectType(t, "bool to word", types.Word, funcNamed(t, prog, "g").Body.Type())
	expectType(t, "widening", types.Word, funcNamed(t, prog, "h").Body.Type())
}

func TestNewExpressions(t *testing.T) {
	prog := walkString(t, `
struct point { var x as word; var y as word; };
union opt { var some as word; var none as bool; };

func f() as point => new point { y = 2, x = 1 };
func g() as opt => new opt { some = 3 };
func h() as word* => new word*;
`)

	ns := funcNamed(t, prog, "f").Body.(*hir.NewStruct)
	if ns.Fields[0].Name != "x" || ns.Fields[1].Name != "y" {
		t.Errorf("expected fields in member order but got `%s` and `%s`", ns.Fields[0].Name, ns.Fields[1].Name)
	}

	nu := funcNamed(t, prog, "g").Body.(*hir.NewUnion)
	if sut, ok := nu.Type().(*types.SingularUnionType); !ok || sut.Member != "some" {
		t.Errorf("expected a singular union of `some` but got `%s`", nu.Type().Repr())
	}

	ha := funcNamed(t, prog, "h").Body.(*hir.HeapAlloc)
	expectType(t, "heap cell", types.Word, ha.ElemType())
}
