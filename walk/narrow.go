package walk

import (
	"github.com/benbjohnson/immutable"

	"helixc/ast"
	"helixc/common"
	"helixc/predicate"
	"helixc/types"
)

// fact is a narrowing fact: the value stored at loc currently has type typ.
type fact struct {
	loc common.ValueLocation
	typ types.Type
}

// narrowing is a persistent set of narrowing facts keyed by location.  Every
// update returns a new narrowing and leaves the receiver untouched so that
// the branches of a conditional each refine their own copy.
type narrowing struct {
	facts *immutable.SortedMap[string, fact]
}

// newNarrowing returns the empty narrowing.
func newNarrowing() narrowing {
	return narrowing{facts: immutable.NewSortedMap[string, fact](nil)}
}

// lookup returns the narrowed type of the value stored at loc.
func (n narrowing) lookup(loc common.ValueLocation) (types.Type, bool) {
	f, ok := n.facts.Get(loc.Key())
	return f.typ, ok
}

// with returns the narrowing with the fact that loc has type typ added.
func (n narrowing) with(loc common.ValueLocation, typ types.Type) narrowing {
	return narrowing{facts: n.facts.Set(loc.Key(), fact{loc: loc, typ: typ})}
}

// without returns the narrowing with all facts about loc, its members and
// the aggregates containing it removed.
func (n narrowing) without(loc common.ValueLocation) narrowing {
	facts := n.facts

	itr := n.facts.Iterator()
	for !itr.Done() {
		key, f, _ := itr.Next()

		if common.Contains(loc, f.loc) || common.Contains(f.loc, loc) {
			facts = facts.Delete(key)
		}
	}

	return narrowing{facts: facts}
}

// join returns the facts that hold after control flow from two branches
// merges: only locations narrowed by both branches stay narrowed and only to
// a type both narrowed types convert to.
func (n narrowing) join(other narrowing) narrowing {
	joined := newNarrowing()

	itr := n.facts.Iterator()
	for !itr.Done() {
		key, f, _ := itr.Next()

		of, ok := other.facts.Get(key)
		if !ok {
			continue
		}

		if typ, ok := types.Join(f.typ, of.typ); ok && types.IsSingular(typ) {
			joined = joined.with(f.loc, typ)
		}
	}

	return joined
}

// -----------------------------------------------------------------------------

// isNarrowable returns whether the value stored at loc may be narrowed.
// Storage which may be reached through a pointer is never narrowed.
func (w *Walker) isNarrowable(loc common.ValueLocation) bool {
	return !loc.IsUnknown() && !w.unnarrowable[common.RootOf(loc).Key()]
}

// readType returns the type of a read of the storage at loc holding a value
// of the declared type.  Unnarrowed bools carry the predicate testing them so
// that conditions on them can narrow.
func (w *Walker) readType(loc common.ValueLocation, declared types.Type) types.Type {
	if !w.isNarrowable(loc) {
		return declared
	}

	if typ, ok := w.facts.lookup(loc); ok {
		return typ
	}

	if types.IsBoolLike(declared) {
		return types.NewSingularBool(predicate.Bool(loc))
	}

	return declared
}

// assume narrows the current facts by everything implied by p holding.
func (w *Walker) assume(p predicate.Predicate) {
	for _, imp := range p.Implications() {
		if w.isNarrowable(imp.Location) {
			w.facts = w.facts.with(imp.Location, imp.Type)
		}
	}
}

// mutate records that the storage at loc was written to.
func (w *Walker) mutate(loc common.ValueLocation) {
	if loc.IsUnknown() {
		return
	}

	w.facts = w.facts.without(loc)
	w.mutated = append(w.mutated, loc)
}

// restoreFacts resets the current facts to base less every location mutated
// since the mutation log had length since.
func (w *Walker) restoreFacts(base narrowing, since int) {
	for _, loc := range w.mutated[since:] {
		base = base.without(loc)
	}

	w.facts = base
}

// forgetAssignedIn discards the facts about every visible local assigned
// anywhere inside node.  This is applied before walking loop bodies since a
// later iteration observes the assignments of an earlier one.
func (w *Walker) forgetAssignedIn(node ast.ASTNode) {
	ast.Inspect(node, func(n ast.ASTNode) bool {
		if as, ok := n.(*ast.Assignment); ok {
			if name, ok := ast.RootName(as.LHS); ok {
				if sym, ok := w.lookupLocal(name); ok {
					w.mutate(sym.Location())
				}
			}
		}

		return true
	})
}
