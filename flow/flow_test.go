package flow

import (
	"fmt"
	"strings"
	"testing"

	"helixc/ast"
	"helixc/common"
	"helixc/hir"
	"helixc/report"
	"helixc/syntax"
	"helixc/types"
	"helixc/walk"
)

func checkString(t *testing.T, src string) *hir.Program {
	t.Helper()

	file := &ast.File{ReprPath: "test.helix"}
	if err := syntax.Parse(file, strings.NewReader(src)); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	prog, err := walk.WalkFile(file)
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}

	return prog
}

func analyzeString(t *testing.T, src string) []*Trace {
	t.Helper()

	traces, err := Analyze(checkString(t, src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return traces
}

func expectLifetimeError(t *testing.T, src string) {
	t.Helper()

	_, err := Analyze(checkString(t, src))
	if err == nil {
		t.Fatalf("expected a lifetime violation analyzing:\n%s", src)
	}

	if !report.IsKind(err, report.ErrLifetime) {
		t.Errorf("expected a lifetime violation but got: %v", err)
	}
}

// -----------------------------------------------------------------------------

func TestReturnAddressOfLocal(t *testing.T) {
	expectLifetimeError(t, `func f() as word* { var x = 1; return &x; };`)
	expectLifetimeError(t, `func f() as word* { var x = 1; &x; };`)
	expectLifetimeError(t, `func f(var x as word) as word* => &x;`)
}

func TestReturnParameterPointer(t *testing.T) {
	analyzeString(t, `func f(var p as word*) as word* => p;`)
	analyzeString(t, `func f(var p as word**) as word* => p*;`)
}

func TestReturnHeapAllocation(t *testing.T) {
	analyzeString(t, `func f() as word* { var p = new word*; p* = 5; p; };`)
}

func TestHeapCellHoldingLocal(t *testing.T) {
	expectLifetimeError(t, `
func f() as word** {
	var x = 1;
	var p = new word**;
	p* = &x;
	p;
};`)
}

func TestStoreLocalIntoCallerMemory(t *testing.T) {
	expectLifetimeError(t, `func f(var q as word**) { var x = 1; q* = &x; };`)
	expectLifetimeError(t, `func f(var a as word*[]) { var x = 1; a[0] = &x; };`)

	// Storing a pointer owned by the caller is fine.
	analyzeString(t, `func f(var q as word**, var p as word*) { q* = p; };`)
}

func TestDereferenceOutOfScope(t *testing.T) {
	expectLifetimeError(t, `
func f() as word {
	var x = 1;
	var p = &x;
	{
		var y = 2;
		p = &y;
	};
	p*;
};`)

	analyzeString(t, `
func f() as word {
	var x = 1;
	var p = &x;
	{
		var y = 2;
		p = &y;
		p* = 3;
	};
	p = &x;
	p*;
};`)
}

func TestBranchJoinIsConservative(t *testing.T) {
	expectLifetimeError(t, `
func f(var c as bool) as word* {
	var x = 1;
	var p = new word*;
	if c then {
		p = &x;
	};
	p;
};`)

	expectLifetimeError(t, `
func f(var c as bool) as word* {
	var x = 1;
	var p = if c then new word* else &x;
	p;
};`)
}

func TestLoopAppendixAliases(t *testing.T) {
	traces := analyzeString(t, `
func f() as word* {
	var p = new word*;
	var i = 0;
	while i < 10 {
		p = new word*;
		i += 1;
	};
	p;
};`)

	if len(traces) != 1 || len(traces[0].Loops) != 1 {
		t.Fatal("expected a trace of one loop")
	}

	exit := traces[0].Loops[0].Exit
	roots, ok := exit.BoxedRoots(common.Named(common.NewPath("f", "p")))
	if !ok {
		t.Fatal("no aliases for `p` after the loop")
	}

	// Both the cell allocated before the loop and the one allocated inside
	// it may be pointed at.
	if roots.Len() != 2 {
		t.Errorf("expected `p` to alias 2 cells after the loop but got %s", roots)
	}
}

func TestLoopFixedPointSecondIteration(t *testing.T) {
	expectLifetimeError(t, `
func f() as word* {
	var x = 1;
	var p = new word*;
	var q = new word*;
	var i = 0;
	while i < 2 {
		q = p;
		p = &x;
		i += 1;
	};
	q;
};`)

	traces := analyzeString(t, `
func f() as word {
	var x = 1;
	var p = new word*;
	var q = new word*;
	for i = 0 until 2 {
		q = p;
		p = &x;
	};
	q*;
};`)

	if n := traces[0].Loops[0].Iterations; n < 2 {
		t.Errorf("expected at least 2 iterations but got %d", n)
	}
}

func TestBreakContributesToLoopExit(t *testing.T) {
	expectLifetimeError(t, `
func f(var c as bool) as word* {
	var x = 1;
	var p = new word*;
	while true {
		if c then {
			p = &x;
			break;
		};
		p = new word*;
	};
	p;
};`)
}

func TestContinueFeedsNextIteration(t *testing.T) {
	// Only the path through `continue` makes p point at x, and q only picks
	// it up on the following iteration.
	expectLifetimeError(t, `
func f(var c as bool) as word* {
	var x = 1;
	var p = new word*;
	var q = new word*;
	var i = 0;
	while i < 2 {
		i += 1;
		q = p;
		if c then {
			p = &x;
			continue;
		};
		p = new word*;
	};
	q;
};`)
}

// nestedLoopSrc moves the address of x outward one variable per iteration of
// the outer loop: from p to q in the inner loop and from q to r in the outer.
const nestedLoopSrc = `
func f() as %s {
	var x = 1;
	var p = new word*;
	var q = new word*;
	var r = new word*;
	var i = 0;
	while i < 2 {
		r = q;
		var j = 0;
		while j < 1 {
			q = p;
			j += 1;
		};
		p = &x;
		i += 1;
	};
	%s;
};`

func TestNestedLoopsConverge(t *testing.T) {
	expectLifetimeError(t, fmt.Sprintf(nestedLoopSrc, "word*", "r"))

	traces := analyzeString(t, fmt.Sprintf(nestedLoopSrc, "word", "r*"))
	if len(traces) != 1 || len(traces[0].Loops) != 2 {
		t.Fatal("expected a trace of two loops")
	}

	// The inner loop completes first.
	outer := traces[0].Loops[1]
	if outer.Iterations < 3 {
		t.Errorf("expected at least 3 iterations of the outer loop but got %d", outer.Iterations)
	}

	roots, ok := outer.Exit.BoxedRoots(common.Named(common.NewPath("f", "r")))
	if !ok {
		t.Fatal("no aliases for `r` after the outer loop")
	}

	if !roots.Contains(common.Named(common.NewPath("f", "x"))) {
		t.Errorf("expected `r` to alias `x` after the outer loop but got %s", roots)
	}
}

func TestAggregatesAndCalls(t *testing.T) {
	expectLifetimeError(t, `
struct holder { var p as word*; };
func f() as holder {
	var x = 1;
	new holder { p = &x };
};`)

	analyzeString(t, `
struct holder { var p as word*; };
func f(var p as word*) as holder => new holder { p = p };`)

	expectLifetimeError(t, `
func id(var p as word*) as word* => p;
func f() as word* {
	var x = 1;
	id(&x);
};`)

	expectLifetimeError(t, `func f() as word*[] { var x = 1; [&x]; };`)
}

// -----------------------------------------------------------------------------

func TestTrackerMerge(t *testing.T) {
	decls := types.NewDeclTable()
	ptr := types.NewPointer(types.Word)

	p := common.Named(common.NewPath("f", "p"))
	q := common.Named(common.NewPath("f", "q"))
	a := common.Named(common.NewPath("f", "a"))
	b := common.Named(common.NewPath("f", "b"))

	base := NewAliasingTracker(decls)
	base.Declare(p, ptr, common.LocationSet{})

	left := base.CreateScope()
	left.Declare(p, ptr, common.NewLocationSet(a))
	left.Declare(q, ptr, common.NewLocationSet(a))

	right := base.CreateScope()
	right.Declare(p, ptr, common.NewLocationSet(b))

	if roots, _ := base.BoxedRoots(p); roots.Len() != 0 {
		t.Errorf("base tracker was modified by a scope: %s", roots)
	}

	merged := left.MergeWith(right)
	if roots, _ := merged.BoxedRoots(p); !roots.Equal(common.NewLocationSet(a, b)) {
		t.Errorf("expected `p` to alias {a, b} but got %s", roots)
	}

	if roots, ok := merged.BoxedRoots(q); !ok || !roots.Equal(common.NewLocationSet(a)) {
		t.Errorf("expected `q` to alias {a} but got %s", roots)
	}

	if !base.WasModifiedBy(merged) {
		t.Error("merged tracker not reported as modifying the base")
	}

	if merged.WasModifiedBy(left) || merged.WasModifiedBy(right) {
		t.Error("branch reported as modifying the merged tracker")
	}
}

func TestTrackerAssignment(t *testing.T) {
	decls := types.NewDeclTable()
	ptr := types.NewPointer(types.Word)

	p := common.Named(common.NewPath("f", "p"))
	v := common.Named(common.NewPath("$t0"))
	ref := common.Named(common.NewPath("$r1"))
	a := common.Named(common.NewPath("f", "a"))
	b := common.Named(common.NewPath("f", "b"))

	at := NewAliasingTracker(decls)
	at.Declare(p, ptr, common.NewLocationSet(a))
	at.Declare(v, ptr, common.NewLocationSet(b))

	// A single known target is replaced.
	at.RegisterReference(ref, common.NewLocationSet(p))
	at.RegisterAssignment(ref, v, ptr, isSummary)
	if roots, _ := at.BoxedRoots(p); !roots.Equal(common.NewLocationSet(b)) {
		t.Errorf("expected a strong update to {b} but got %s", roots)
	}

	// Heap cells are only ever added to.
	cell := common.Named(common.NewPath("$h2"))
	at.Declare(cell, ptr, common.NewLocationSet(a))
	at.RegisterReference(ref, common.NewLocationSet(cell))
	at.RegisterAssignment(ref, v, ptr, isSummary)
	if roots, _ := at.BoxedRoots(cell); !roots.Equal(common.NewLocationSet(a, b)) {
		t.Errorf("expected a weak update to {a, b} but got %s", roots)
	}
}
