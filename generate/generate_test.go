package generate

import (
	"math"
	"strings"
	"testing"

	"helixc/ast"
	"helixc/ir"
	"helixc/lower"
	"helixc/syntax"
	"helixc/walk"
)

func generateString(t *testing.T, src string) string {
	t.Helper()

	file := &ast.File{ReprPath: "test.helix"}
	if err := syntax.Parse(file, strings.NewReader(src)); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	prog, err := walk.WalkFile(file)
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}

	irProg := lower.Lower(prog)
	if err := ir.VerifyProgram(irProg); err != nil {
		t.Fatalf("lowered program is malformed: %v", err)
	}

	return Generate(irProg)
}

// expectContains checks that the generated text contains each fragment.
func expectContains(t *testing.T, out string, fragments ...string) {
	t.Helper()

	for _, fragment := range fragments {
		if !strings.Contains(out, fragment) {
			t.Errorf("generated C is missing:\n%s\n\ngenerated:\n%s", fragment, out)
		}
	}
}

// expectBefore checks that first appears in the generated text before second.
func expectBefore(t *testing.T, out, first, second string) {
	t.Helper()

	i, j := strings.Index(out, first), strings.Index(out, second)
	if i < 0 || j < 0 || i > j {
		t.Errorf("expected `%s` before `%s` in:\n%s", first, second, out)
	}
}

// -----------------------------------------------------------------------------

func TestGenerateArithmetic(t *testing.T) {
	out := generateString(t, `func f(var x as word) as word => x + 1;`)

	expectContains(t, out, "_Word hx_f(_Word l_x);\n", `
_Word hx_f(_Word l_x) {
    _Word _t0;

    _t0 = (_Word)((uint64_t)l_x + (uint64_t)1);
    return _t0;
}
`)
}

func TestGenerateLoop(t *testing.T) {
	out := generateString(t, `
func f() as word {
	var i = 0;
	while i < 10 {
		i += 1;
	};
	i;
};`)

	expectContains(t, out, `
_Word hx_f(void) {
    _Word l_i;
    _Word _t0;
    _Word _t1;

    l_i = 0;
b_loop$1:
    _t0 = l_i < 10;
    if (_t0) goto b_body$2;
    goto b_exit$3;
b_body$2:
    _t1 = (_Word)((uint64_t)l_i + (uint64_t)1);
    l_i = _t1;
    goto b_loop$1;
b_exit$3:
    return l_i;
}
`)
}

func TestAggregatesAreOrderedByValue(t *testing.T) {
	out := generateString(t, `
struct outer { var in as inner; var xs as word[]; };
struct inner { var p as outer*; var w as word; };
`)

	expectContains(t, out,
		"typedef struct outer outer;\n",
		"typedef struct inner inner;\n",
		"struct _Word$Array {\n    _Word* data;\n    _Word count;\n};\n",
		"struct inner {\n    outer* p;\n    _Word w;\n};\n",
		"struct outer {\n    inner in;\n    _Word$Array xs;\n};\n",
	)

	expectBefore(t, out, "typedef struct outer outer;", "struct inner {")
	expectBefore(t, out, "struct _Word$Array {", "struct outer {")
	expectBefore(t, out, "struct inner {", "struct outer {")
}

func TestGenerateUnions(t *testing.T) {
	out := generateString(t, `
union shape {
	var circle as word;
	var square as bool;
};

func f(var s as shape) as word => if s is circle then s.circle else 0;
func g() as shape => new shape { square = true };
`)

	expectContains(t, out,
		"struct shape {\n    _Word tag;\n    union {\n        _Word circle;\n        _Word square;\n    } as;\n};\n",
		"    _t0 = l_s.tag == 0;\n",
		"    _t1 = l_s.as.circle;\n",
		"    _t0 = (shape){ .tag = 1, .as = { .square = 1 } };\n",
	)
}

func TestGenerateArrays(t *testing.T) {
	out := generateString(t, `
func f(var a as word[]) as word {
	a[0] = 1;
	a.count;
};

func g() as word[] => [4, 5];
`)

	expectContains(t, out,
		"    l_a.data[_hx_bound(0, l_a.count)] = 1;\n",
		"    _t0 = l_a.count;\n",
		"    _t0.data = calloc(2, sizeof(_Word));\n    _t0.count = 2;\n    _t0.data[0] = 4;\n    _t0.data[1] = 5;\n",
	)
}

func TestGeneratePointers(t *testing.T) {
	out := generateString(t, `
struct point { var x as word; var y as word; };

func f(var q as point*) as word {
	var p = new word*;
	p* = 2;
	q*.y = p*;
	q*.x;
};`)

	expectContains(t, out,
		"    _t0 = calloc(1, sizeof(_Word));\n",
		"    *l_p = 2;\n",
		"_t1 = &l_q->y;\n",
		"_t2 = *l_p;\n",
		"*_t1 = _t2;\n",
	)
}

func TestExternsKeepTheirNames(t *testing.T) {
	out := generateString(t, `
extern func putw(var w as word);

func main() {
	putw(1);
};`)

	expectContains(t, out,
		"void putw(_Word w);\n",
		"void hx_main(void);\n",
		"    putw(1);\n",
		"int main(void) {\n    hx_main();\n    return 0;\n}\n",
	)
}

func TestLibrariesHaveNoEntryPoint(t *testing.T) {
	out := generateString(t, `func main(var x as word) as word => x;`)

	if strings.Contains(out, "int main(void)") {
		t.Errorf("entry point generated for `main` taking parameters:\n%s", out)
	}
}

// -----------------------------------------------------------------------------

func TestNames(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{localName(&ir.Local{Name: "spill.1"}), "l_spill$1"},
		{localName(&ir.Local{Name: "x#1"}), "l_x$1"},
		{localName(&ir.Local{Name: "count"}), "l_count"},
		{tempName(&ir.Temp{ID: 12}), "_t12"},
		{labelName("join.3"), "b_join$3"},
		{wordLiteral(7), "7"},
		{wordLiteral(-5), "(-5)"},
		{wordLiteral(math.MinInt64), "(-9223372036854775807 - 1)"},
	}

	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("expected `%s` but got `%s`", c.want, c.got)
		}
	}
}
