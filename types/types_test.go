package types

import (
	"reflect"
	"testing"

	"github.com/sirkon/deepequal"

	"helixc/common"
	"helixc/report"
)

// constCond is a minimal condition used to build singular bools.
type constCond bool

func (c constCond) EqualsCondition(other Condition) bool {
	oc, ok := other.(constCond)
	return ok && oc == c
}

func (c constCond) Constant() (bool, bool) { return bool(c), true }
func (c constCond) String() string         { return "const" }

func TestUnifyTo(t *testing.T) {
	point := &NominalType{Path: common.NewPath("Point"), Kind: NominalStruct}
	vec := &NominalType{Path: common.NewPath("Vec"), Kind: NominalStruct}

	cases := []struct {
		name   string
		src    Type
		target Type
		ok     bool
	}{
		{"singular word widens", NewSingularWord(5), Word, true},
		{"singular words with different values", NewSingularWord(5), NewSingularWord(6), false},
		{"no narrowing without evidence", Word, NewSingularWord(5), false},
		{"equal singular words", NewSingularWord(5), NewSingularWord(5), true},
		{"singular bool widens", NewSingularBool(constCond(true)), Bool, true},
		{"singular bools with different conditions", NewSingularBool(constCond(true)), NewSingularBool(constCond(false)), false},
		{"word is not bool", Word, Bool, false},
		{"pointers are invariant", NewPointer(Word), NewPointer(Bool), false},
		{"equal pointers", NewPointer(Word), NewPointer(Word), true},
		{"arrays of equal elements", NewArray(Bool), NewArray(Bool), true},
		{"array is not pointer", NewArray(Word), NewPointer(Word), false},
		{"nominals match by name", point, &NominalType{Path: common.NewPath("Point")}, true},
		{"nominals never match structurally", point, vec, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := TryUnifyTo(c.src, c.target)
			if ok != c.ok {
				t.Fatalf("TryUnifyTo(%s, %s) ok = %v, want %v", c.src.Repr(), c.target.Repr(), ok, c.ok)
			}

			if ok && !Equals(got, c.target) {
				t.Errorf("unified to %s, want %s", got.Repr(), c.target.Repr())
			}
		})
	}
}

func TestUnifyToRaisesTypeMismatch(t *testing.T) {
	span := &report.TextSpan{Offset: 4, Length: 1}

	err := report.Capture(func() {
		UnifyTo(Word, NewSingularWord(5), span)
	})

	if !report.IsKind(err, report.ErrTypeMismatch) {
		t.Fatalf("UnifyTo raised %v, want a type mismatch", err)
	}

	want := &report.LocalCompileError{
		Kind:    report.ErrTypeMismatch,
		Message: "expected type `5` but got `word`",
		Span:    span,
	}

	if !reflect.DeepEqual(want, err) {
		deepequal.SideBySide[error](t, "error", want, err)
	}
}

func TestWidenIsTotalAndIdempotent(t *testing.T) {
	shape := &NominalType{Path: common.NewPath("Shape"), Kind: NominalUnion}

	for _, typ := range []Type{
		Void, Word, Bool,
		NewSingularWord(-3),
		NewSingularBool(constCond(false)),
		&SingularUnionType{Union: shape, Member: "circle", Value: Word},
		NewPointer(NewSingularWord(1)),
		NewArray(Word),
		shape,
	} {
		w := Widen(typ)
		if IsSingular(w) {
			t.Errorf("Widen(%s) = %s is singular", typ.Repr(), w.Repr())
		}

		if !Equals(Widen(w), w) {
			t.Errorf("Widen is not idempotent on %s", typ.Repr())
		}

		if _, ok := TryUnifyTo(typ, w); !ok {
			t.Errorf("%s does not unify to its supertype", typ.Repr())
		}
	}

	if p := NewPointer(NewSingularWord(1)); !Equals(p.ElemType, Word) {
		t.Errorf("composite stored a singular element: %s", p.Repr())
	}
}

func TestJoin(t *testing.T) {
	shape := &NominalType{Path: common.NewPath("Shape"), Kind: NominalUnion}
	circle := &SingularUnionType{Union: shape, Member: "circle", Value: NewSingularWord(1)}
	circle2 := &SingularUnionType{Union: shape, Member: "circle", Value: NewSingularWord(2)}
	square := &SingularUnionType{Union: shape, Member: "square", Value: Word}

	cases := []struct {
		a, b Type
		want Type
	}{
		{NewSingularWord(5), NewSingularWord(5), NewSingularWord(5)},
		{NewSingularWord(5), NewSingularWord(6), Word},
		{NewSingularWord(5), Word, Word},
		{circle, circle2, &SingularUnionType{Union: shape, Member: "circle", Value: Word}},
		{circle, square, shape},
	}

	for _, c := range cases {
		got, ok := Join(c.a, c.b)
		if !ok || !Equals(got, c.want) {
			t.Errorf("Join(%s, %s) = %v, want %s", c.a.Repr(), c.b.Repr(), got, c.want.Repr())
		}
	}

	if _, ok := Join(Word, Bool); ok {
		t.Error("word and bool have no join")
	}
}

func TestMemberPathsAndAliasing(t *testing.T) {
	dt := NewDeclTable()

	inner := &NominalType{Path: common.NewPath("Inner"), Kind: NominalStruct}
	outer := &NominalType{Path: common.NewPath("Outer"), Kind: NominalStruct}

	dt.DeclareNominal(&NominalSignature{Type: inner, Members: []*Member{
		{Name: "p", Type: NewPointer(Word)},
	}})
	dt.DeclareNominal(&NominalSignature{Type: outer, Members: []*Member{
		{Name: "n", Type: Word},
		{Name: "in", Type: inner},
	}})

	var chains [][]string
	for _, mp := range dt.MemberPaths(outer) {
		chains = append(chains, mp.Chain)
	}

	want := [][]string{nil, {"n"}, {"in"}, {"in", "p"}}
	if !reflect.DeepEqual(want, chains) {
		deepequal.SideBySide(t, "member chains", want, chains)
	}

	if !dt.DoesAliasLValues(outer) || dt.DoesAliasLValues(Word) || !dt.DoesAliasLValues(NewArray(Word)) {
		t.Error("DoesAliasLValues is wrong")
	}
}
