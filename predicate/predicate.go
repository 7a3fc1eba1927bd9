// Package predicate implements the boolean conditions used to narrow the
// types of values along the branches of a program.  Predicates are kept in a
// syntactic sum-of-products normal form: they are compared structurally and
// are never minimised beyond the local simplifications of their atoms.
package predicate

import (
	"helixc/common"
	"helixc/types"
)

// Predicate is a boolean condition.  It is one of Empty, a *Term or a
// *Polynomial.  All operations return new predicates.
type Predicate interface {
	types.Condition

	// And returns the conjunction of both predicates.
	And(other Predicate) Predicate

	// Or returns the disjunction of both predicates.
	Or(other Predicate) Predicate

	// Negate returns the logical negation of the predicate.
	Negate() Predicate

	// Equals returns whether both predicates are structurally equal.
	Equals(other Predicate) bool

	// Implications returns the narrowed types of the locations the predicate
	// is about that hold while it is true, ordered by location.
	Implications() []Implication

	// IsTautology returns whether the predicate is recognised as always
	// true.  Empty is not a tautology: it carries no information at all.
	IsTautology() bool

	// IsContradiction returns whether the predicate is recognised as never
	// true.
	IsContradiction() bool

	predicate()
}

// Implication is a narrowing fact: while a predicate holds, the value at
// Location has type Type.
type Implication struct {
	Location common.ValueLocation
	Type     types.Type
}

// Xor returns the predicate that holds when exactly one of a and b holds.
func Xor(a, b Predicate) Predicate {
	return a.And(b.Negate()).Or(a.Negate().And(b))
}

// Of returns the predicate carried by a singular bool type or Empty if the
// type carries none.
func Of(t types.Type) Predicate {
	if sbt, ok := t.(*types.SingularBoolType); ok {
		if p, ok := sbt.Predicate.(Predicate); ok {
			return p
		}
	}

	return Empty
}

// -----------------------------------------------------------------------------

// Empty is the predicate that carries no information: it is the identity of
// both And and Or and is its own negation.
var Empty Predicate = emptyPredicate{}

type emptyPredicate struct{}

func (emptyPredicate) And(other Predicate) Predicate { return other }
func (emptyPredicate) Or(other Predicate) Predicate  { return other }
func (emptyPredicate) Negate() Predicate             { return Empty }
func (emptyPredicate) Implications() []Implication  { return nil }
func (emptyPredicate) IsTautology() bool             { return false }
func (emptyPredicate) IsContradiction() bool         { return false }
func (emptyPredicate) String() string                { return "<empty>" }
func (emptyPredicate) predicate()                    {}

func (emptyPredicate) Equals(other Predicate) bool {
	_, ok := other.(emptyPredicate)
	return ok
}

func (ep emptyPredicate) EqualsCondition(other types.Condition) bool {
	if op, ok := other.(Predicate); ok {
		return ep.Equals(op)
	}

	return false
}

func (emptyPredicate) Constant() (bool, bool) {
	return false, false
}

// -----------------------------------------------------------------------------

// True is the predicate that always holds: the sum of the empty product.
var True Predicate = &Polynomial{products: []product{{}}}

// False is the predicate that never holds: the empty sum.
var False Predicate = &Polynomial{}

// Literal returns the constant predicate of a boolean literal.
func Literal(value bool) Predicate {
	if value {
		return True
	}

	return False
}

// Bool returns the predicate that holds when the bool at loc is true.
func Bool(loc common.ValueLocation) Predicate {
	return &Term{Atom: &BoolAtom{Loc: loc}}
}

// WordEquals returns the predicate that holds when the word at loc equals
// value.
func WordEquals(loc common.ValueLocation, value int64) Predicate {
	return &Term{Atom: &WordEqualsAtom{Loc: loc, Value: value}}
}

// IsMember returns the predicate that holds when the union at loc holds one
// of members.
func IsMember(loc common.ValueLocation, union *types.NominalSignature, members ...string) Predicate {
	return fromAtom(NewIsMemberAtom(loc, union, members))
}

// fromAtom wraps a union atom into a predicate, turning the empty and full
// member sets into constants.
func fromAtom(ima *IsMemberAtom) Predicate {
	if ima.isEmpty() {
		return False
	} else if ima.isFull() {
		return True
	}

	return &Term{Atom: ima}
}
