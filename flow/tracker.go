package flow

import (
	"github.com/benbjohnson/immutable"

	"helixc/common"
	"helixc/report"
	"helixc/types"
)

/*
Aliasing Tracking
-----------------

The tracker records two relationships between value locations.

A root is a location which actually stores a value: a local, a parameter, a
member of either, a heap cell or the cells of an array.  Temporaries are not
roots: they are names the analyzer gives to the intermediate values of
expressions.

The referenced roots of a reference are the roots it names.  `x` names the
root `x`; `p*` names every root `p` may point at.  This is lvalue semantics.

The boxed roots of a value are the roots it points at.  After `p = &x`, the
value stored in `p` boxes `x`.  Only values whose type can hold references
(pointers, arrays and unions or structs containing them) box anything.
Structs are never stored as a whole: their members are stored individually
so that `s.p = &x` only changes `s.p`.

Both maps are persistent so creating a scope is a constant time snapshot and
sibling branches never observe each other's updates.
*/

// entry is the alias set of one location.
type entry struct {
	loc   common.ValueLocation
	roots common.LocationSet
}

// AliasingTracker tracks the referenced and boxed roots of all locations at
// one program point of a function.
type AliasingTracker struct {
	// The global declaration table used to expand struct members.
	decls *types.DeclTable

	// The roots named by each reference keyed by location key.
	referencedRoots *immutable.SortedMap[string, entry]

	// The roots pointed at by each stored value keyed by location key.
	boxedRoots *immutable.SortedMap[string, entry]
}

// NewAliasingTracker creates a new empty tracker.
func NewAliasingTracker(decls *types.DeclTable) *AliasingTracker {
	return &AliasingTracker{
		decls:           decls,
		referencedRoots: immutable.NewSortedMap[string, entry](nil),
		boxedRoots:      immutable.NewSortedMap[string, entry](nil),
	}
}

// CreateScope returns an independent copy of the tracker.
func (at *AliasingTracker) CreateScope() *AliasingTracker {
	return &AliasingTracker{
		decls:           at.decls,
		referencedRoots: at.referencedRoots,
		boxedRoots:      at.boxedRoots,
	}
}

// MergeWith returns the tracker holding after control from either tracker
// joins.  A location aliases the union of what it aliases in each tracker;
// locations known to only one tracker keep their aliases.
func (at *AliasingTracker) MergeWith(other *AliasingTracker) *AliasingTracker {
	return &AliasingTracker{
		decls:           at.decls,
		referencedRoots: mergeMaps(at.referencedRoots, other.referencedRoots),
		boxedRoots:      mergeMaps(at.boxedRoots, other.boxedRoots),
	}
}

func mergeMaps(a, b *immutable.SortedMap[string, entry]) *immutable.SortedMap[string, entry] {
	merged := a

	itr := b.Iterator()
	for !itr.Done() {
		key, be, _ := itr.Next()

		if ae, ok := a.Get(key); ok {
			if !be.roots.SubsetOf(ae.roots) {
				merged = merged.Set(key, entry{loc: ae.loc, roots: ae.roots.Union(be.roots)})
			}
		} else {
			merged = merged.Set(key, be)
		}
	}

	return merged
}

// WasModifiedBy returns whether other knows an alias this tracker does not.
// Since merging only grows alias sets, a loop has reached its fixed point
// once its entry state is not modified by the state after its body.
func (at *AliasingTracker) WasModifiedBy(other *AliasingTracker) bool {
	return gainedRoots(at.referencedRoots, other.referencedRoots) || gainedRoots(at.boxedRoots, other.boxedRoots)
}

func gainedRoots(before, after *immutable.SortedMap[string, entry]) bool {
	itr := after.Iterator()
	for !itr.Done() {
		key, ae, _ := itr.Next()

		be, ok := before.Get(key)
		if !ok {
			if ae.roots.Len() > 0 {
				return true
			}
		} else if !ae.roots.SubsetOf(be.roots) {
			return true
		}
	}

	return false
}

// Size returns the number of locations the tracker has alias sets for.
func (at *AliasingTracker) Size() int {
	return at.referencedRoots.Len() + at.boxedRoots.Len()
}

// -----------------------------------------------------------------------------

// Declare introduces the storage at loc holding a value of type typ whose
// (leaf) components box roots.
func (at *AliasingTracker) Declare(loc common.ValueLocation, typ types.Type, roots common.LocationSet) {
	for _, mem := range at.leaves(typ) {
		at.setBoxedRoots(mem.Location(loc), mem.Type, roots)
	}
}

// Alias records that the value stored at target may now also point at
// whatever the value stored at source points at.
func (at *AliasingTracker) Alias(target, source common.ValueLocation, typ types.Type) {
	for _, mem := range at.leaves(typ) {
		tloc := mem.Location(target)
		at.setBoxedRoots(tloc, mem.Type, at.boxedOf(tloc, mem.Type).Union(at.boxedOf(mem.Location(source), mem.Type)))
	}
}

// RegisterFunctionParameter declares a parameter.  The values reachable
// through a parameter are owned by the caller and thus unknown.
func (at *AliasingTracker) RegisterFunctionParameter(param common.ValueLocation, typ types.Type) {
	at.Declare(param, typ, common.NewLocationSet(common.UnknownLocation{}))
}

// RegisterLocal declares a local initialized with the value of init.
func (at *AliasingTracker) RegisterLocal(local, init common.ValueLocation, typ types.Type) {
	for _, mem := range at.leaves(typ) {
		at.setBoxedRoots(mem.Location(local), mem.Type, at.boxedOf(mem.Location(init), mem.Type))
	}
}

// RegisterLocalWithoutAliasing declares a local whose value points at
// nothing: eg. a zeroed heap cell.
func (at *AliasingTracker) RegisterLocalWithoutAliasing(local common.ValueLocation, typ types.Type) {
	at.Declare(local, typ, common.LocationSet{})
}

// RegisterReference binds the reference ref to the roots it names.
func (at *AliasingTracker) RegisterReference(ref common.ValueLocation, roots common.LocationSet) {
	at.setReferencedRoots(ref, roots)
}

// RegisterLoad stores the value read through the reference ref into result.
func (at *AliasingTracker) RegisterLoad(result, ref common.ValueLocation, typ types.Type) {
	targets := at.ReferencedRoots(ref)

	for _, mem := range at.leaves(typ) {
		var roots common.LocationSet
		for _, target := range targets.Slice() {
			roots = roots.Union(at.boxedOf(mem.Location(target), mem.Type))
		}

		at.setBoxedRoots(mem.Location(result), mem.Type, roots)
	}
}

// RegisterAssignment stores the value at value to the storage named by the
// reference target.  When the reference names a single known root which
// holds exactly one value, what was stored there before is replaced (strong
// update); otherwise the assigned roots are added to what every named root
// may already hold (weak update).  The named roots are returned.
func (at *AliasingTracker) RegisterAssignment(target, value common.ValueLocation, typ types.Type, isSummary func(common.ValueLocation) bool) common.LocationSet {
	targets := at.ReferencedRoots(target)
	strong := targets.Len() == 1 && !targets.ContainsUnknown() && !isSummary(targets.Slice()[0])

	for _, root := range targets.Slice() {
		if root.IsUnknown() {
			continue
		}

		if strong {
			at.RegisterLocal(root, value, typ)
		} else {
			at.Alias(root, value, typ)
		}
	}

	return targets
}

// RegisterAddressOf stores a pointer to the roots named by the reference
// target into result.
func (at *AliasingTracker) RegisterAddressOf(result, target common.ValueLocation, ptrType types.Type) {
	at.setBoxedRoots(result, ptrType, at.ReferencedRoots(target))
}

// RegisterDereferenceReference binds ref to the roots pointed at by the
// pointer stored at ptr.
func (at *AliasingTracker) RegisterDereferenceReference(ref, ptr common.ValueLocation, ptrType types.Type) {
	at.setReferencedRoots(ref, at.boxedOf(ptr, ptrType))
}

// RegisterMemberAccessReference binds ref to the member of every root named
// by the reference parent.
func (at *AliasingTracker) RegisterMemberAccessReference(ref, parent common.ValueLocation, member string) {
	at.setReferencedRoots(ref, at.ReferencedRoots(common.MemberOf(parent, member)))
}

// RegisterArrayIndexReference binds ref to the element cells of the array
// stored at array.
func (at *AliasingTracker) RegisterArrayIndexReference(ref, array common.ValueLocation, arrayType types.Type) {
	at.setReferencedRoots(ref, at.boxedOf(array, arrayType))
}

// RegisterArrayLiteral stores a new array whose elements live in the cells
// root into result.  The cells may hold any of the element values.
func (at *AliasingTracker) RegisterArrayLiteral(result, cells common.ValueLocation, arrayType *types.ArrayType, elems []common.ValueLocation) {
	at.RegisterLocalWithoutAliasing(cells, arrayType.ElemType)
	for _, elem := range elems {
		at.Alias(cells, elem, arrayType.ElemType)
	}

	at.setBoxedRoots(result, arrayType, common.NewLocationSet(cells))
}

// RegisterHeapAllocation stores a pointer to the new zeroed cell into result.
func (at *AliasingTracker) RegisterHeapAllocation(result, cell common.ValueLocation, ptrType *types.PointerType) {
	at.RegisterLocalWithoutAliasing(cell, ptrType.ElemType)
	at.setBoxedRoots(result, ptrType, common.NewLocationSet(cell))
}

// RegisterNewStruct stores a new struct value built from its field values
// into result.
func (at *AliasingTracker) RegisterNewStruct(result common.ValueLocation, sig *types.NominalSignature, fields map[string]common.ValueLocation) {
	for _, mem := range sig.Members {
		at.RegisterLocal(common.MemberOf(result, mem.Name), fields[mem.Name], mem.Type)
	}
}

// RegisterNewUnion stores a new union value holding value into result.  A
// union is stored as a single value: it points at whatever its member does.
func (at *AliasingTracker) RegisterNewUnion(result, value common.ValueLocation, unionType, memberType types.Type) {
	at.setBoxedRoots(result, unionType, at.boxedOf(value, memberType))
}

// RegisterInvoke records a call passing the values at args.  The callee may
// store anything into the storage reachable from its arguments and may
// return a value pointing at any of it.  The roots reachable from the
// arguments are returned.
func (at *AliasingTracker) RegisterInvoke(result common.ValueLocation, resultType types.Type, args []common.ValueLocation, argTypes []types.Type) common.LocationSet {
	var passed common.LocationSet
	for i, arg := range args {
		passed = passed.Union(at.BoxedRootsOf(arg, argTypes[i]))
	}

	reachable := at.Reachable(passed)
	unknown := common.NewLocationSet(common.UnknownLocation{})

	// Mark the contents of everything reachable as unknown.
	for _, root := range reachable.Slice() {
		if root.IsUnknown() {
			continue
		}

		for _, e := range at.contentsOf(root) {
			at.boxedRoots = at.boxedRoots.Set(e.loc.Key(), entry{loc: e.loc, roots: e.roots.Union(unknown)})
		}
	}

	at.Declare(result, resultType, reachable.Union(unknown))
	return reachable
}

// -----------------------------------------------------------------------------

// ReferencedRoots returns the roots named by the reference at ref.  The
// members of a reference name the members of its roots.
func (at *AliasingTracker) ReferencedRoots(ref common.ValueLocation) common.LocationSet {
	if ref.IsUnknown() {
		return common.NewLocationSet(common.UnknownLocation{})
	}

	if e, ok := at.referencedRoots.Get(ref.Key()); ok {
		return e.roots
	}

	if ml, ok := ref.(common.MemberLocation); ok {
		return at.ReferencedRoots(ml.Parent).Map(func(root common.ValueLocation) common.ValueLocation {
			return common.MemberOf(root, ml.Member)
		})
	}

	report.Invariant("reference `%s` used before it was bound", ref.Key())
	return common.LocationSet{}
}

// BoxedRootsOf returns every root the value of type typ stored at loc points
// at, including those its members point at.
func (at *AliasingTracker) BoxedRootsOf(loc common.ValueLocation, typ types.Type) common.LocationSet {
	var roots common.LocationSet
	for _, mem := range at.leaves(typ) {
		roots = roots.Union(at.boxedOf(mem.Location(loc), mem.Type))
	}

	return roots
}

// Reachable returns every root reachable from roots by following what the
// values stored in them point at.  The starting roots are included.
func (at *AliasingTracker) Reachable(roots common.LocationSet) common.LocationSet {
	reached := make(map[string]common.ValueLocation)
	queue := roots.Slice()

	for len(queue) > 0 {
		root := queue[0]
		queue = queue[1:]

		if _, ok := reached[root.Key()]; ok {
			continue
		}
		reached[root.Key()] = root

		if root.IsUnknown() {
			continue
		}

		for _, e := range at.contentsOf(root) {
			queue = append(queue, e.roots.Slice()...)
		}
	}

	locs := make([]common.ValueLocation, 0, len(reached))
	for _, loc := range reached {
		locs = append(locs, loc)
	}

	return common.NewLocationSet(locs...)
}

// contentsOf returns the boxed root entries of root and all of its members.
// The values of a root are stored either under its own location or under
// the location of an enclosing value (the members of a union).
func (at *AliasingTracker) contentsOf(root common.ValueLocation) []entry {
	var entries []entry

	itr := at.boxedRoots.Iterator()
	for !itr.Done() {
		_, e, _ := itr.Next()

		if common.Contains(root, e.loc) || common.Contains(e.loc, root) {
			entries = append(entries, e)
		}
	}

	return entries
}

// -----------------------------------------------------------------------------

// leaves returns the components of a value of type typ which are stored
// individually: every component except structs, which are stored as their
// members.  Components which cannot hold references are skipped.
func (at *AliasingTracker) leaves(typ types.Type) []types.MemberPath {
	var leaves []types.MemberPath
	for _, mem := range at.decls.MemberPaths(typ) {
		if sig, ok := at.decls.SignatureOf(mem.Type); ok && !sig.Type.IsUnion() {
			continue
		}

		if at.decls.DoesAliasLValues(mem.Type) {
			leaves = append(leaves, mem)
		}
	}

	return leaves
}

// boxedOf returns the roots pointed at by the value of type typ stored at
// loc.  The members of a union share the alias set of the union.
func (at *AliasingTracker) boxedOf(loc common.ValueLocation, typ types.Type) common.LocationSet {
	if !at.decls.DoesAliasLValues(typ) {
		return common.LocationSet{}
	}

	if loc.IsUnknown() {
		return common.NewLocationSet(common.UnknownLocation{})
	}

	if sig, ok := at.decls.SignatureOf(typ); ok && !sig.Type.IsUnion() {
		var roots common.LocationSet
		for _, mem := range sig.Members {
			roots = roots.Union(at.boxedOf(common.MemberOf(loc, mem.Name), mem.Type))
		}

		return roots
	}

	for l := loc; ; {
		if e, ok := at.boxedRoots.Get(l.Key()); ok {
			return e.roots
		}

		ml, ok := l.(common.MemberLocation)
		if !ok {
			break
		}

		l = ml.Parent
	}

	// The storage was never given a value of this type: a call result may
	// point at any storage reachable from its arguments whatever it holds.
	return common.NewLocationSet(common.UnknownLocation{})
}

// setBoxedRoots sets the roots pointed at by the value of a leaf type stored
// at loc.
func (at *AliasingTracker) setBoxedRoots(loc common.ValueLocation, typ types.Type, roots common.LocationSet) {
	if loc.IsUnknown() || !at.decls.DoesAliasLValues(typ) {
		return
	}

	at.boxedRoots = at.boxedRoots.Set(loc.Key(), entry{loc: loc, roots: roots})
}

// setReferencedRoots sets the roots named by the reference at ref.
func (at *AliasingTracker) setReferencedRoots(ref common.ValueLocation, roots common.LocationSet) {
	if ref.IsUnknown() {
		return
	}

	at.referencedRoots = at.referencedRoots.Set(ref.Key(), entry{loc: ref, roots: roots})
}

// BoxedRoots returns the roots pointed at by the value stored at loc.  This
// is used for inspection only.
func (at *AliasingTracker) BoxedRoots(loc common.ValueLocation) (common.LocationSet, bool) {
	e, ok := at.boxedRoots.Get(loc.Key())
	return e.roots, ok
}
