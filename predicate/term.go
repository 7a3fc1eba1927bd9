package predicate

import (
	"helixc/types"
)

// Term is a possibly negated atom.  Terms over union atoms are never negated:
// their negation is the atom of the complementary members.
type Term struct {
	// The atomic condition.
	Atom Atom

	// Whether the term holds when the atom does not.
	Negated bool
}

func (t *Term) And(other Predicate) Predicate {
	if _, ok := other.(emptyPredicate); ok {
		return t
	}

	return normalize(multiply(productsOf(t), productsOf(other)))
}

func (t *Term) Or(other Predicate) Predicate {
	if _, ok := other.(emptyPredicate); ok {
		return t
	}

	return normalize(append(productsOf(t), productsOf(other)...))
}

func (t *Term) Negate() Predicate {
	return t.negate()
}

func (t *Term) negate() *Term {
	if ima, ok := t.Atom.(*IsMemberAtom); ok {
		return &Term{Atom: ima.complement()}
	}

	return &Term{Atom: t.Atom, Negated: !t.Negated}
}

func (t *Term) Equals(other Predicate) bool {
	return keyOf(t) == keyOf(other)
}

func (t *Term) EqualsCondition(other types.Condition) bool {
	if op, ok := other.(Predicate); ok {
		return t.Equals(op)
	}

	return false
}

func (t *Term) Constant() (bool, bool) {
	return false, false
}

func (t *Term) Implications() []Implication {
	if imp, ok := t.implication(); ok {
		return []Implication{imp}
	}

	return nil
}

func (t *Term) IsTautology() bool     { return false }
func (t *Term) IsContradiction() bool { return false }
func (t *Term) predicate()            {}

func (t *Term) String() string {
	if t.Negated {
		return "!" + t.Atom.String()
	}

	return t.Atom.String()
}

// key returns the canonical form of the term.
func (t *Term) key() string {
	if t.Negated {
		return "!" + t.Atom.Key()
	}

	return t.Atom.Key()
}

// implication returns the narrowing fact of the term if it has one.
func (t *Term) implication() (Implication, bool) {
	loc := t.Atom.Location()
	if loc.IsUnknown() {
		return Implication{}, false
	}

	switch v := t.Atom.(type) {
	case *BoolAtom:
		return Implication{Location: loc, Type: types.NewSingularBool(Literal(!t.Negated))}, true
	case *WordEqualsAtom:
		if !t.Negated {
			return Implication{Location: loc, Type: types.NewSingularWord(v.Value)}, true
		}
	case *IsMemberAtom:
		if len(v.Members) == 1 {
			mem, _ := v.Union.Member(v.Members[0])
			return Implication{
				Location: loc,
				Type: &types.SingularUnionType{
					Union:  v.Union.Type,
					Member: mem.Name,
					Value:  mem.Type,
				},
			}, true
		}
	}

	return Implication{}, false
}

// -----------------------------------------------------------------------------

// tryAndWith folds the conjunction of two terms over the same location into
// a single term or False.
func (t *Term) tryAndWith(other *Term) (Predicate, bool) {
	if t.Atom.Location().Key() != other.Atom.Location().Key() {
		return nil, false
	}

	if t.Atom.Key() == other.Atom.Key() {
		if t.Negated == other.Negated {
			return t, true
		}

		return False, true
	}

	switch v := t.Atom.(type) {
	case *IsMemberAtom:
		if ov, ok := other.Atom.(*IsMemberAtom); ok {
			return fromAtom(v.intersect(ov)), true
		}
	case *WordEqualsAtom:
		if _, ok := other.Atom.(*WordEqualsAtom); ok {
			switch {
			case !t.Negated && !other.Negated:
				// A word cannot equal two different values.
				return False, true
			case !t.Negated:
				return t, true
			case !other.Negated:
				return other, true
			}
		}
	}

	return nil, false
}

// tryOrWith folds the disjunction of two terms over the same location into a
// single term or True.
func (t *Term) tryOrWith(other *Term) (Predicate, bool) {
	if t.Atom.Location().Key() != other.Atom.Location().Key() {
		return nil, false
	}

	if t.Atom.Key() == other.Atom.Key() {
		if t.Negated == other.Negated {
			return t, true
		}

		return True, true
	}

	switch v := t.Atom.(type) {
	case *IsMemberAtom:
		if ov, ok := other.Atom.(*IsMemberAtom); ok {
			return fromAtom(v.union(ov)), true
		}
	case *WordEqualsAtom:
		if _, ok := other.Atom.(*WordEqualsAtom); ok {
			switch {
			case t.Negated && other.Negated:
				// A word always differs from one of two different values.
				return True, true
			case t.Negated:
				return t, true
			case other.Negated:
				return other, true
			}
		}
	}

	return nil, false
}
