package predicate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"

	"helixc/common"
	"helixc/types"
)

// Atom is an atomic condition about the value stored at one location.
type Atom interface {
	// Location returns the location the condition is about.
	Location() common.ValueLocation

	// Key returns the canonical form of the atom.  Atoms are equal if and
	// only if their keys are equal.
	Key() string

	String() string
}

// BoolAtom holds when the bool stored at a location is `true`.
type BoolAtom struct {
	Loc common.ValueLocation
}

func (ba *BoolAtom) Location() common.ValueLocation { return ba.Loc }
func (ba *BoolAtom) Key() string                    { return "b:" + ba.Loc.Key() }
func (ba *BoolAtom) String() string                 { return ba.Loc.String() }

// WordEqualsAtom holds when the word stored at a location equals a value.
type WordEqualsAtom struct {
	Loc   common.ValueLocation
	Value int64
}

func (wa *WordEqualsAtom) Location() common.ValueLocation { return wa.Loc }
func (wa *WordEqualsAtom) Key() string                    { return fmt.Sprintf("w:%s=%d", wa.Loc.Key(), wa.Value) }
func (wa *WordEqualsAtom) String() string                 { return fmt.Sprintf("%s == %d", wa.Loc, wa.Value) }

// IsMemberAtom holds when the union stored at a location holds one of a set
// of members.  Its negation is the atom of the remaining members so terms
// over union atoms are never negated.
type IsMemberAtom struct {
	Loc common.ValueLocation

	// The signature of the union being tested.
	Union *types.NominalSignature

	// The possible members, sorted by name.
	Members []string
}

// NewIsMemberAtom creates a new atom testing that the union at loc holds one
// of members.
func NewIsMemberAtom(loc common.ValueLocation, union *types.NominalSignature, members []string) *IsMemberAtom {
	sorted := set.From(members).Slice()
	slices.Sort(sorted)

	return &IsMemberAtom{Loc: loc, Union: union, Members: sorted}
}

func (ima *IsMemberAtom) Location() common.ValueLocation { return ima.Loc }

func (ima *IsMemberAtom) Key() string {
	return "u:" + ima.Loc.Key() + "{" + strings.Join(ima.Members, ",") + "}"
}

func (ima *IsMemberAtom) String() string {
	return fmt.Sprintf("%s is %s", ima.Loc, strings.Join(ima.Members, " | "))
}

// complement returns the atom of the members this atom excludes.
func (ima *IsMemberAtom) complement() *IsMemberAtom {
	rest := set.From(ima.Union.MemberNames()).Difference(set.From(ima.Members))
	return NewIsMemberAtom(ima.Loc, ima.Union, rest.Slice())
}

// intersect returns the atom of the members both atoms allow.
func (ima *IsMemberAtom) intersect(other *IsMemberAtom) *IsMemberAtom {
	both := set.From(ima.Members).Intersect(set.From(other.Members))
	return NewIsMemberAtom(ima.Loc, ima.Union, both.Slice())
}

// union returns the atom of the members either atom allows.
func (ima *IsMemberAtom) union(other *IsMemberAtom) *IsMemberAtom {
	either := set.From(ima.Members).Union(set.From(other.Members))
	return NewIsMemberAtom(ima.Loc, ima.Union, either.Slice())
}

// isEmpty returns whether the atom allows no member at all.
func (ima *IsMemberAtom) isEmpty() bool {
	return len(ima.Members) == 0
}

// isFull returns whether the atom allows every member of the union.
func (ima *IsMemberAtom) isFull() bool {
	return len(ima.Members) == len(ima.Union.Members)
}
