package common

import (
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// ValueLocation is an abstract storage address used by the alias analyzer
// and the narrowing logic of the type checker.  It is one of UnknownLocation,
// NamedLocation or MemberLocation.
type ValueLocation interface {
	// IsUnknown returns whether the location cannot be identified.  Any
	// computation depending on an unknown location must be conservative.
	IsUnknown() bool

	// Key returns the canonical string form of the location.  Two locations
	// are the same location if and only if their keys are equal.
	Key() string

	String() string

	location()
}

// UnknownLocation is storage that cannot be identified statically: memory
// owned by a caller, reached through an array index, etc.
type UnknownLocation struct{}

func (UnknownLocation) IsUnknown() bool { return true }
func (UnknownLocation) Key() string     { return "?" }
func (UnknownLocation) String() string  { return "<unknown>" }
func (UnknownLocation) location()       {}

// NamedLocation is the storage of a named declaration.
type NamedLocation struct {
	// The path of the declaration.
	Path IdentifierPath
}

func (nl NamedLocation) IsUnknown() bool { return false }
func (nl NamedLocation) Key() string     { return nl.Path.String() }
func (nl NamedLocation) String() string  { return nl.Path.Name() }
func (nl NamedLocation) location()       {}

// MemberLocation is the storage of a member of a struct or union stored in
// its parent location.
type MemberLocation struct {
	// The location storing the aggregate.
	Parent ValueLocation

	// The name of the member.
	Member string
}

func (ml MemberLocation) IsUnknown() bool { return ml.Parent.IsUnknown() }
func (ml MemberLocation) Key() string     { return ml.Parent.Key() + "." + ml.Member }
func (ml MemberLocation) String() string  { return ml.Parent.String() + "." + ml.Member }
func (ml MemberLocation) location()       {}

// Named returns the location of the declaration with the given path.
func Named(path IdentifierPath) ValueLocation {
	return NamedLocation{Path: path}
}

// MemberOf returns the location of member inside parent.  A member of an
// unknown location is itself unknown.
func MemberOf(parent ValueLocation, member string) ValueLocation {
	if parent.IsUnknown() {
		return UnknownLocation{}
	}

	return MemberLocation{Parent: parent, Member: member}
}

// MemberChainOf returns the location reached by following chain from parent.
func MemberChainOf(parent ValueLocation, chain []string) ValueLocation {
	for _, member := range chain {
		parent = MemberOf(parent, member)
	}

	return parent
}

// RootOf returns the named location at the base of loc.  Unknown locations
// are returned as is.
func RootOf(loc ValueLocation) ValueLocation {
	for {
		ml, ok := loc.(MemberLocation)
		if !ok {
			return loc
		}

		loc = ml.Parent
	}
}

// Contains returns whether inner is outer or one of its (nested) members.
func Contains(outer, inner ValueLocation) bool {
	if outer.IsUnknown() || inner.IsUnknown() {
		return false
	}

	outerKey, innerKey := outer.Key(), inner.Key()
	return innerKey == outerKey || strings.HasPrefix(innerKey, outerKey+".")
}

// -----------------------------------------------------------------------------

// compareLocations orders locations by their keys.
func compareLocations(a, b ValueLocation) int {
	return strings.Compare(a.Key(), b.Key())
}

// LocationSet is an immutable, ordered set of value locations.  All
// operations which change the set return a new set and leave the receiver
// untouched.  The zero value is the empty set.
type LocationSet struct {
	s *set.TreeSet[ValueLocation]
}

// NewLocationSet creates a new set holding locs.  Members of unknown
// locations are all collapsed into the single unknown location.
func NewLocationSet(locs ...ValueLocation) LocationSet {
	items := make([]ValueLocation, len(locs))
	for i, loc := range locs {
		if loc.IsUnknown() {
			items[i] = UnknownLocation{}
		} else {
			items[i] = loc
		}
	}

	return LocationSet{s: set.TreeSetFrom[ValueLocation](items, compareLocations)}
}

// Len returns the number of locations in the set.
func (ls LocationSet) Len() int {
	if ls.s == nil {
		return 0
	}

	return ls.s.Size()
}

// Contains returns whether loc is in the set.
func (ls LocationSet) Contains(loc ValueLocation) bool {
	if ls.s == nil {
		return false
	}

	if loc.IsUnknown() {
		loc = UnknownLocation{}
	}

	return ls.s.Contains(loc)
}

// ContainsUnknown returns whether the set includes the unknown location.
func (ls LocationSet) ContainsUnknown() bool {
	return ls.Contains(UnknownLocation{})
}

// Slice returns the locations of the set in key order.
func (ls LocationSet) Slice() []ValueLocation {
	if ls.s == nil {
		return nil
	}

	return ls.s.Slice()
}

// Add returns the set with locs added.
func (ls LocationSet) Add(locs ...ValueLocation) LocationSet {
	return NewLocationSet(append(ls.Slice(), locs...)...)
}

// Union returns the set of locations in either set.
func (ls LocationSet) Union(other LocationSet) LocationSet {
	if other.Len() == 0 {
		return ls
	} else if ls.Len() == 0 {
		return other
	}

	return ls.Add(other.Slice()...)
}

// Map returns the set of locations produced by applying f to every location.
func (ls LocationSet) Map(f func(ValueLocation) ValueLocation) LocationSet {
	items := ls.Slice()
	for i, loc := range items {
		items[i] = f(loc)
	}

	return NewLocationSet(items...)
}

// SubsetOf returns whether every location of the set is in other.
func (ls LocationSet) SubsetOf(other LocationSet) bool {
	for _, loc := range ls.Slice() {
		if !other.Contains(loc) {
			return false
		}
	}

	return true
}

// Equal returns whether both sets hold the same locations.
func (ls LocationSet) Equal(other LocationSet) bool {
	return ls.Len() == other.Len() && ls.SubsetOf(other)
}

func (ls LocationSet) String() string {
	sb := strings.Builder{}
	sb.WriteRune('{')

	for i, loc := range ls.Slice() {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(loc.String())
	}

	sb.WriteRune('}')
	return sb.String()
}
