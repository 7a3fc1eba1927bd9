package predicate

import (
	"reflect"
	"testing"

	"github.com/sirkon/deepequal"

	"helixc/common"
	"helixc/types"
)

func loc(name string) common.ValueLocation {
	return common.Named(common.NewPath("f", name))
}

var shape = &types.NominalSignature{
	Type: &types.NominalType{Path: common.NewPath("Shape"), Kind: types.NominalUnion},
	Members: []*types.Member{
		{Name: "circle", Type: types.Word},
		{Name: "square", Type: types.Word},
		{Name: "tri", Type: types.Bool},
	},
}

// samples returns a spread of predicates of every shape.
func samples() map[string]Predicate {
	a, b, c := Bool(loc("a")), Bool(loc("b")), Bool(loc("c"))

	return map[string]Predicate{
		"true":     True,
		"false":    False,
		"atom":     a,
		"negated":  a.Negate(),
		"word":     WordEquals(loc("x"), 5),
		"member":   IsMember(loc("s"), shape, "circle"),
		"and":      a.And(b),
		"or":       a.Or(b),
		"mixed":    a.And(b).Or(c.Negate()),
		"xor":      Xor(a, b),
		"negation": a.Or(b.And(c)).Negate(),
	}
}

func TestDoubleNegation(t *testing.T) {
	for name, p := range samples() {
		if got := p.Negate().Negate(); !got.Equals(p) {
			t.Errorf("%s: !!(%s) = %s", name, p, got)
		}
	}

	if !Empty.Negate().Equals(Empty) {
		t.Error("Empty must be its own negation")
	}
}

func TestEmptyIsIdentity(t *testing.T) {
	for name, p := range samples() {
		if !p.And(Empty).Equals(p) || !Empty.And(p).Equals(p) {
			t.Errorf("%s: Empty is not the identity of and", name)
		}

		if !p.Or(Empty).Equals(p) || !Empty.Or(p).Equals(p) {
			t.Errorf("%s: Empty is not the identity of or", name)
		}
	}
}

func TestExcludedMiddle(t *testing.T) {
	for name, p := range samples() {
		if !p.Or(p.Negate()).IsTautology() {
			t.Errorf("%s: %s or its negation is not a tautology", name, p)
		}

		if !p.And(p.Negate()).IsContradiction() {
			t.Errorf("%s: %s and its negation is not a contradiction", name, p)
		}
	}
}

func TestAlgebraLaws(t *testing.T) {
	a, b, c := Bool(loc("a")), Bool(loc("b")), Bool(loc("c"))

	cases := []struct {
		name        string
		left, right Predicate
	}{
		{"and commutes", a.And(b), b.And(a)},
		{"or commutes", a.Or(b), b.Or(a)},
		{"and associates", a.And(b).And(c), a.And(b.And(c))},
		{"or associates", a.Or(b).Or(c), a.Or(b.Or(c))},
		{"and distributes", a.And(b.Or(c)), a.And(b).Or(a.And(c))},
		{"or distributes", a.Or(b.And(c)), a.Or(b).And(a.Or(c))},
		{"and is idempotent", a.And(a), a},
		{"absorption", a.Or(a.And(b)), a},
		{"de morgan", a.And(b).Negate(), a.Negate().Or(b.Negate())},
	}

	for _, c := range cases {
		if !c.left.Equals(c.right) {
			t.Errorf("%s: %s != %s", c.name, c.left, c.right)
		}
	}
}

func TestAtomFolding(t *testing.T) {
	x := loc("x")
	s := loc("s")

	cases := []struct {
		name      string
		got, want Predicate
	}{
		{"word equals two values", WordEquals(x, 5).And(WordEquals(x, 6)), False},
		{"equality implies inequality", WordEquals(x, 5).And(WordEquals(x, 6).Negate()), WordEquals(x, 5)},
		{"one of two inequalities", WordEquals(x, 5).Negate().Or(WordEquals(x, 6).Negate()), True},
		{"member union", IsMember(s, shape, "circle").Or(IsMember(s, shape, "square")), IsMember(s, shape, "circle", "square")},
		{"member intersection", IsMember(s, shape, "circle", "tri").And(IsMember(s, shape, "tri", "square")), IsMember(s, shape, "tri")},
		{"member negation", IsMember(s, shape, "circle").Negate(), IsMember(s, shape, "square", "tri")},
		{"exhaustive members", IsMember(s, shape, "circle", "square").Or(IsMember(s, shape, "tri")), True},
		{"true literal", Literal(true).And(Bool(x)), Bool(x)},
		{"false literal", Literal(false).Or(Bool(x)), Bool(x)},
	}

	for _, c := range cases {
		if !c.got.Equals(c.want) {
			t.Errorf("%s: got %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestImplications(t *testing.T) {
	x, b, c, s := loc("x"), loc("b"), loc("c"), loc("s")

	cases := []struct {
		name string
		p    Predicate
		want []Implication
	}{
		{
			name: "word equality",
			p:    WordEquals(x, 5),
			want: []Implication{{Location: x, Type: types.NewSingularWord(5)}},
		},
		{
			name: "word inequality",
			p:    WordEquals(x, 5).Negate(),
		},
		{
			name: "negated bool",
			p:    Bool(b).Negate(),
			want: []Implication{{Location: b, Type: types.NewSingularBool(False)}},
		},
		{
			name: "conjunction",
			p:    Bool(b).And(WordEquals(x, 1)),
			want: []Implication{
				{Location: b, Type: types.NewSingularBool(True)},
				{Location: x, Type: types.NewSingularWord(1)},
			},
		},
		{
			name: "shared by every product",
			p:    Bool(b).And(WordEquals(x, 5)).Or(Bool(c).And(WordEquals(x, 5))),
			want: []Implication{{Location: x, Type: types.NewSingularWord(5)}},
		},
		{
			name: "single member",
			p:    IsMember(s, shape, "tri"),
			want: []Implication{{Location: s, Type: &types.SingularUnionType{Union: shape.Type, Member: "tri", Value: types.Bool}}},
		},
		{
			name: "several members",
			p:    IsMember(s, shape, "circle", "tri"),
		},
		{
			name: "empty",
			p:    Empty,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.p.Implications()

			if len(got) != len(c.want) {
				deepequal.SideBySide(t, "implications", c.want, got)
				return
			}

			for i := range got {
				if got[i].Location.Key() != c.want[i].Location.Key() || !types.Equals(got[i].Type, c.want[i].Type) {
					t.Errorf("implication %d: got %s: %s, want %s: %s",
						i, got[i].Location, got[i].Type.Repr(), c.want[i].Location, c.want[i].Type.Repr())
				}
			}
		})
	}
}

func TestConstantsAndStrings(t *testing.T) {
	a, b := Bool(loc("a")), Bool(loc("b"))

	cases := []struct {
		p        Predicate
		str      string
		value    bool
		constant bool
	}{
		{True, "true", true, true},
		{False, "false", false, true},
		{a, "a", false, false},
		{a.Negate(), "!a", false, false},
		{a.And(b.Negate()), "a and !b", false, false},
		{a.And(b).Or(WordEquals(loc("x"), 3)), "(a and b) or x == 3", false, false},
		{IsMember(loc("s"), shape, "tri", "circle"), "s is circle | tri", false, false},
	}

	for _, c := range cases {
		if got := c.p.String(); got != c.str {
			t.Errorf("String() = %q, want %q", got, c.str)
		}

		value, constant := c.p.Constant()
		if !reflect.DeepEqual([]bool{c.value, c.constant}, []bool{value, constant}) {
			t.Errorf("%s: Constant() = %v, %v", c.str, value, constant)
		}
	}

	if types.NewSingularBool(True).Repr() != "true" {
		t.Error("a singular bool of True must print as `true`")
	}
}
