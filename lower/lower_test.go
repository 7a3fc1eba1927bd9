package lower

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sirkon/deepequal"

	"helixc/ast"
	"helixc/ir"
	"helixc/syntax"
	"helixc/walk"
)

func lowerString(t *testing.T, src string) *ir.Program {
	t.Helper()

	file := &ast.File{ReprPath: "test.helix"}
	if err := syntax.Parse(file, strings.NewReader(src)); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	prog, err := walk.WalkFile(file)
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}

	return Lower(prog)
}

// funcNamed returns the lowered function with the given name.
func funcNamed(t *testing.T, prog *ir.Program, name string) *ir.Func {
	t.Helper()

	for _, fn := range prog.Funcs {
		if fn.Name() == name {
			return fn
		}
	}

	t.Fatalf("no function named `%s`", name)
	return nil
}

// expectListing compares the listing of a function line by line.
func expectListing(t *testing.T, fn *ir.Func, want string) {
	t.Helper()

	wantLines := strings.Split(strings.TrimSpace(want), "\n")
	gotLines := strings.Split(strings.TrimSpace(fn.Repr()), "\n")

	if !reflect.DeepEqual(wantLines, gotLines) {
		deepequal.SideBySide(t, "listing of "+fn.Name(), wantLines, gotLines)
	}
}

func blockNames(fn *ir.Func) []string {
	names := make([]string, len(fn.Blocks))
	for i, block := range fn.Blocks {
		names[i] = block.Name
	}

	return names
}

// -----------------------------------------------------------------------------

func TestLowerArithmetic(t *testing.T) {
	prog := lowerString(t, `func f(var x as word) as word => x + 1;`)

	expectListing(t, funcNamed(t, prog, "f"), `
func @f(word %x) word:
@entry:
  $0 = add word %x, 1
  ret $0`)
}

func TestNarrowedReadsBecomeConstants(t *testing.T) {
	prog := lowerString(t, `
func f(var x as word) as word {
	if x == 5 then {
		return x;
	};
	0;
};`)

	fn := funcNamed(t, prog, "f")
	expectListing(t, fn, `
func @f(word %x) word:
@entry:
  $0 = eq bool %x, 5
  br $0, @then.1, @else.2
@then.1:
  ret 5
@else.2:
  jump @join.3
@join.3:
  ret 0`)

	ir.Simplify(fn)
	if want, got := []string{"entry", "then.1", "join.3"}, blockNames(fn); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "blocks", want, got)
	}
}

func TestLowerWhileLoop(t *testing.T) {
	prog := lowerString(t, `
func f() as word {
	var i = 0;
	while i < 10 {
		i += 1;
	};
	i;
};`)

	expectListing(t, funcNamed(t, prog, "f"), `
func @f() word:
  var %i word
@entry:
  local word %i, 0
  jump @loop.1
@loop.1:
  $0 = lt bool %i, 10
  br $0, @body.2, @exit.3
@body.2:
  $1 = add word %i, 1
  assign %i, $1
  jump @loop.1
@exit.3:
  ret %i`)
}

func TestLowerForLoopJumps(t *testing.T) {
	prog := lowerString(t, `
func f(var n as word) as word {
	var s = 0;
	for i = 0 until n {
		if i == 3 then { continue; };
		if i == 7 then { break; };
		s += i;
	};
	s;
};`)

	fn := funcNamed(t, prog, "f")
	expectListing(t, fn, `
func @f(word %n) word:
  var %s word
  var %bound.1 word
  var %i word
@entry:
  local word %s, 0
  local word %bound.1, %n
  local word %i, 0
  jump @loop.1
@loop.1:
  $0 = lt bool %i, %bound.1
  br $0, @body.2, @exit.4
@body.2:
  $1 = eq bool %i, 3
  br $1, @then.5, @else.6
@step.3:
  $4 = add word %i, 1
  assign %i, $4
  jump @loop.1
@exit.4:
  ret %s
@then.5:
  jump @step.3
@else.6:
  jump @join.7
@join.7:
  $2 = eq bool %i, 7
  br $2, @then.8, @else.9
@then.8:
  jump @exit.4
@else.9:
  jump @join.10
@join.10:
  $3 = add word %s, %i
  assign %s, $3
  jump @step.3`)

	ir.Simplify(fn)
	if err := ir.Verify(fn); err != nil {
		t.Fatalf("simplified function is malformed: %v", err)
	}

	want := []string{"entry", "loop.1", "body.2", "step.3", "exit.4", "join.7", "join.10"}
	if got := blockNames(fn); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "blocks", want, got)
	}

	body, _ := fn.Block("body.2")
	if got := body.Terminal.Repr(); got != "br $1, @step.3, @join.7" {
		t.Errorf("continue was not forwarded to the step block: %s", got)
	}
}

func TestInclusiveForLoopStopsAtBound(t *testing.T) {
	prog := lowerString(t, `
func f(var n as word) as word {
	var s = 0;
	for i = 0 to n {
		s += i;
	};
	s;
};`)

	// The iterator is only incremented while it is below the bound.
	fn := funcNamed(t, prog, "f")
	expectListing(t, fn, `
func @f(word %n) word:
  var %s word
  var %bound.1 word
  var %i word
@entry:
  local word %s, 0
  local word %bound.1, %n
  local word %i, 0
  jump @loop.1
@loop.1:
  $0 = le bool %i, %bound.1
  br $0, @body.2, @exit.4
@body.2:
  $1 = add word %s, %i
  assign %s, $1
  jump @step.3
@step.3:
  $2 = eq bool %i, %bound.1
  br $2, @exit.4, @next.5
@exit.4:
  ret %s
@next.5:
  $3 = add word %i, 1
  assign %i, $3
  jump @loop.1`)

	if err := ir.Verify(fn); err != nil {
		t.Fatalf("lowered function is malformed: %v", err)
	}
}

func TestLowerShortCircuit(t *testing.T) {
	prog := lowerString(t, `
func f(var a as bool, var b as bool) as bool => a and then b;
func g(var a as bool, var b as bool) as bool => a or else b;
`)

	expectListing(t, funcNamed(t, prog, "f"), `
func @f(bool %a, bool %b) bool:
  var %cond.1 bool
@entry:
  br %a, @then.1, @else.2
@then.1:
  assign %cond.1, %b
  jump @join.3
@else.2:
  assign %cond.1, false
  jump @join.3
@join.3:
  ret %cond.1`)

	expectListing(t, funcNamed(t, prog, "g"), `
func @g(bool %a, bool %b) bool:
  var %cond.1 bool
@entry:
  br %a, @then.1, @else.2
@then.1:
  assign %cond.1, true
  jump @join.3
@else.2:
  assign %cond.1, %b
  jump @join.3
@join.3:
  ret %cond.1`)
}

func TestLowerUnionTest(t *testing.T) {
	prog := lowerString(t, `
union shape {
	var circle as word;
	var square as bool;
};

func f(var s as shape) as word => if s is circle then s.circle else 0;
`)

	expectListing(t, funcNamed(t, prog, "f"), `
func @f(shape %s) word:
  var %if.1 word
@entry:
  $0 = is bool %s, .circle
  br $0, @then.1, @else.2
@then.1:
  $1 = getmember word %s, .circle
  assign %if.1, $1
  jump @join.3
@else.2:
  assign %if.1, 0
  jump @join.3
@join.3:
  ret %if.1`)
}

func TestOperandsAreSpilledBeforeEffects(t *testing.T) {
	prog := lowerString(t, `
func inc(var p as word*) as word {
	p* += 1;
	p*;
};

func f() as word {
	var x = 1;
	x + inc(&x);
};`)

	expectListing(t, funcNamed(t, prog, "inc"), `
func @inc(word* %p) word:
@entry:
  $0 = load word %p
  $1 = add word $0, 1
  store %p, $1
  $2 = load word %p
  ret $2`)

	expectListing(t, funcNamed(t, prog, "f"), `
func @f() word:
  var %x word
  var %spill.1 word
@entry:
  local word %x, 1
  local word %spill.1, %x
  $0 = addr word* %x
  $1 = call word @inc($0)
  $2 = add word %spill.1, $1
  ret $2`)
}

func TestLowerStores(t *testing.T) {
	prog := lowerString(t, `
struct point { var x as word; var y as word; };

func f(var p as point, var a as word[], var q as point*) {
	var r = p;
	r.x = 3;
	a[0] = a.count;
	q*.y = 4;
};`)

	expectListing(t, funcNamed(t, prog, "f"), `
func @f(point %p, word[] %a, point* %q) void:
  var %r point
@entry:
  local point %r, %p
  setmember %r, .x, 3
  $0 = count word %a
  astore %a, 0, $0
  $1 = memref word* %q, .y
  store $1, 4
  ret`)
}

func TestStoreTargetsPrecedeValues(t *testing.T) {
	prog := lowerString(t, `
func f(var q as word**) {
	var x as word = 1;
	var c as word* = &x;
	var p as word** = &c;
	p* = { p = q; &x; };
};

func g(var a as word[], var i as word) {
	a[i] = { i = 2; 5; };
};

func h(var i as word) as word {
	i += { i = 4; 1; };
	i;
};`)

	// The store goes through the pointer p held before the value retargeted p.
	expectListing(t, funcNamed(t, prog, "f"), `
func @f(word** %q) void:
  var %x word
  var %c word*
  var %p word**
  var %spill.1 word**
@entry:
  local word %x, 1
  $0 = addr word* %x
  local word* %c, $0
  $1 = addr word** %c
  local word** %p, $1
  local word** %spill.1, %p
  assign %p, %q
  $2 = addr word* %x
  store %spill.1, $2
  ret`)

	expectListing(t, funcNamed(t, prog, "g"), `
func @g(word[] %a, word %i) void:
  var %spill.1 word[]
  var %spill.2 word
@entry:
  local word[] %spill.1, %a
  local word %spill.2, %i
  assign %i, 2
  astore %spill.1, %spill.2, 5
  ret`)

	expectListing(t, funcNamed(t, prog, "h"), `
func @h(word %i) word:
  var %spill.1 word
@entry:
  local word %spill.1, %i
  assign %i, 4
  $0 = add word %spill.1, 1
  assign %i, $0
  ret %i`)
}

func TestLowerAggregates(t *testing.T) {
	prog := lowerString(t, `
struct point { var x as word; var y as word; };
union opt { var some as word; var none as bool; };

func f(var b as bool) as point => new point { y = b as word, x = 1 };
func g() as opt => new opt { some = 3 };
func h() as word[] => [1, 2, 3];
func k() as word** => new word**;
`)

	expectListing(t, funcNamed(t, prog, "f"), `
func @f(bool %b) point:
@entry:
  $0 = cast word %b
  $1 = newstruct point {1, $0}
  ret $1`)

	expectListing(t, funcNamed(t, prog, "g"), `
func @g() opt:
@entry:
  $0 = newunion opt .some, 3
  ret $0`)

	expectListing(t, funcNamed(t, prog, "h"), `
func @h() word[]:
@entry:
  $0 = array word[] [1, 2, 3]
  ret $0`)

	expectListing(t, funcNamed(t, prog, "k"), `
func @k() word**:
@entry:
  $0 = alloc word**
  ret $0`)
}

func TestLoweredProgramsVerify(t *testing.T) {
	prog := lowerString(t, `
extern func putw(var w as word);

func f(var c as bool) as word {
	var x = 0;
	while true {
		if c then {
			x += 1;
			break;
		} else {
			putw(x);
		};
	};
	x;
};`)

	if err := ir.VerifyProgram(prog); err != nil {
		t.Fatalf("lowered program is malformed: %v", err)
	}

	ir.SimplifyProgram(prog)
	if err := ir.VerifyProgram(prog); err != nil {
		t.Fatalf("simplified program is malformed: %v", err)
	}

	// The loop condition is constant: the exit is only reached by breaking.
	fn := funcNamed(t, prog, "f")
	preds := ir.Predecessors(fn)
	for _, block := range fn.Blocks {
		if block.Name != fn.Entry && len(preds[block.Name]) == 0 {
			t.Errorf("unreachable block `%s` survived simplification", block.Name)
		}
	}

	if externs := prog.Externs(); len(externs) != 1 || externs[0].Path.Name() != "putw" {
		t.Errorf("expected `putw` to be the only extern")
	}
}
