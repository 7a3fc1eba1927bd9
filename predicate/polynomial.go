package predicate

import (
	"slices"
	"strings"

	"helixc/types"
	"helixc/util"
)

// compareTerms orders terms by their atoms with positive terms first.
func compareTerms(a, b *Term) int {
	if c := strings.Compare(a.Atom.Key(), b.Atom.Key()); c != 0 {
		return c
	}

	switch {
	case a.Negated == b.Negated:
		return 0
	case b.Negated:
		return -1
	default:
		return 1
	}
}

// product is a conjunction of terms sorted by compareTerms.  No two of its
// terms share a key and no two of them can be folded into one.
type product []*Term

func (p product) key() string {
	return "(" + strings.Join(util.Map(p, (*Term).key), "&") + ")"
}

// subsetOf returns whether every term of p is also a term of other.
func (p product) subsetOf(other product) bool {
	for _, t := range p {
		if !slices.ContainsFunc(other, func(ot *Term) bool { return ot.key() == t.key() }) {
			return false
		}
	}

	return true
}

// Polynomial is a disjunction of products.  The sum of the single empty
// product is True and the empty sum is False.  Polynomials are only ever
// built through normalize so that equal sums compare equal.
type Polynomial struct {
	// The products sorted by key.
	products []product

	// The predicate this polynomial was produced by negating, if any.
	origin Predicate
}

func (p *Polynomial) And(other Predicate) Predicate {
	if _, ok := other.(emptyPredicate); ok {
		return p
	}

	return normalize(multiply(p.products, productsOf(other)))
}

func (p *Polynomial) Or(other Predicate) Predicate {
	if _, ok := other.(emptyPredicate); ok {
		return p
	}

	return normalize(append(slices.Clip(p.products), productsOf(other)...))
}

func (p *Polynomial) Negate() Predicate {
	switch {
	case p.origin != nil:
		return p.origin
	case p.IsTautology():
		return False
	case p.IsContradiction():
		return True
	}

	// De Morgan: the negation of a sum is the product of the sums of the
	// negated terms of each product.
	acc := productsOf(True)
	for _, prod := range p.products {
		var sum []product
		for _, t := range prod {
			sum = append(sum, product{t.negate()})
		}

		acc = multiply(acc, sum)
	}

	neg := normalize(acc)
	if np, ok := neg.(*Polynomial); ok && !np.IsTautology() && !np.IsContradiction() {
		return &Polynomial{products: np.products, origin: p}
	}

	return neg
}

func (p *Polynomial) Equals(other Predicate) bool {
	return keyOf(p) == keyOf(other)
}

func (p *Polynomial) EqualsCondition(other types.Condition) bool {
	if op, ok := other.(Predicate); ok {
		return p.Equals(op)
	}

	return false
}

func (p *Polynomial) Constant() (bool, bool) {
	switch {
	case p.IsTautology():
		return true, true
	case p.IsContradiction():
		return false, true
	default:
		return false, false
	}
}

func (p *Polynomial) IsTautology() bool {
	return len(p.products) == 1 && len(p.products[0]) == 0
}

func (p *Polynomial) IsContradiction() bool {
	return len(p.products) == 0
}

func (p *Polynomial) Implications() []Implication {
	if len(p.products) == 0 {
		return nil
	}

	// Only locations narrowed by every product are narrowed by the sum.
	facts := productImplications(p.products[0])
	for _, prod := range p.products[1:] {
		other := productImplications(prod)

		var joined []Implication
		for _, fact := range facts {
			idx := slices.IndexFunc(other, func(o Implication) bool {
				return o.Location.Key() == fact.Location.Key()
			})

			if idx < 0 {
				continue
			}

			if jt, ok := types.Join(fact.Type, other[idx].Type); ok && types.IsSingular(jt) {
				joined = append(joined, Implication{Location: fact.Location, Type: jt})
			}
		}

		facts = joined
	}

	return facts
}

func (p *Polynomial) predicate() {}

func (p *Polynomial) String() string {
	switch {
	case p.IsTautology():
		return "true"
	case p.IsContradiction():
		return "false"
	}

	sb := strings.Builder{}
	for i, prod := range p.products {
		if i > 0 {
			sb.WriteString(" or ")
		}

		if len(prod) > 1 && len(p.products) > 1 {
			sb.WriteRune('(')
		}

		for j, t := range prod {
			if j > 0 {
				sb.WriteString(" and ")
			}

			sb.WriteString(t.String())
		}

		if len(prod) > 1 && len(p.products) > 1 {
			sb.WriteRune(')')
		}
	}

	return sb.String()
}

// -----------------------------------------------------------------------------

// productImplications returns the facts of the terms of a product ordered by
// location.  Terms are folded per location so each location has at most one
// fact.
func productImplications(prod product) []Implication {
	var facts []Implication
	for _, t := range prod {
		if imp, ok := t.implication(); ok {
			if !slices.ContainsFunc(facts, func(f Implication) bool { return f.Location.Key() == imp.Location.Key() }) {
				facts = append(facts, imp)
			}
		}
	}

	slices.SortFunc(facts, func(a, b Implication) int {
		return strings.Compare(a.Location.Key(), b.Location.Key())
	})

	return facts
}

// productsOf returns the sum of products form of a non-empty predicate.
func productsOf(p Predicate) []product {
	switch v := p.(type) {
	case *Term:
		return []product{{v}}
	case *Polynomial:
		return slices.Clip(v.products)
	default:
		return productsOf(True)
	}
}

// keyOf returns the canonical form of a predicate.
func keyOf(p Predicate) string {
	switch v := p.(type) {
	case *Term:
		return "(" + v.key() + ")"
	case *Polynomial:
		return strings.Join(util.Map(v.products, product.key), "|")
	default:
		return "<empty>"
	}
}

// multiply distributes the conjunction of two sums.
func multiply(a, b []product) []product {
	result := make([]product, 0, len(a)*len(b))
	for _, pa := range a {
		for _, pb := range b {
			prod := make(product, 0, len(pa)+len(pb))
			prod = append(prod, pa...)
			result = append(result, append(prod, pb...))
		}
	}

	return result
}

// normalize brings a sum of products into normal form: terms over the same
// location are folded, contradictory products dropped, duplicate and
// absorbed products removed, and recognised tautologies turned into True.
// Sums of a single term are returned as that term.
func normalize(sum []product) Predicate {
	var prods []product
	for _, prod := range sum {
		if folded, ok := foldProduct(prod); ok {
			if len(folded) == 0 {
				return True
			}

			prods = append(prods, folded)
		}
	}

	prods, isTrue := foldSingletons(prods)
	if isTrue {
		return True
	}

	// Sort shorter products first so absorption only has to look backwards.
	slices.SortFunc(prods, func(a, b product) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}

		return strings.Compare(a.key(), b.key())
	})

	var kept []product
	for _, prod := range prods {
		if !slices.ContainsFunc(kept, func(k product) bool { return k.subsetOf(prod) }) {
			kept = append(kept, prod)
		}
	}

	slices.SortFunc(kept, func(a, b product) int {
		return strings.Compare(a.key(), b.key())
	})

	switch {
	case len(kept) == 0:
		return False
	case len(kept) == 1 && len(kept[0]) == 1:
		return kept[0][0]
	case isPropositionalTautology(kept):
		return True
	}

	return &Polynomial{products: kept}
}

// foldProduct folds the terms of a product over the same location.  It
// returns false if the product is contradictory.
func foldProduct(prod product) (product, bool) {
	var folded product

	var insert func(t *Term) bool
	insert = func(t *Term) bool {
		for i, ft := range folded {
			if result, ok := ft.tryAndWith(t); ok {
				folded = slices.Delete(folded, i, i+1)

				switch v := result.(type) {
				case *Term:
					return insert(v)
				case *Polynomial:
					// True is the unit of a product.
					return !v.IsContradiction()
				}
			}
		}

		folded = append(folded, t)
		return true
	}

	for _, t := range prod {
		if !insert(t) {
			return nil, false
		}
	}

	slices.SortFunc(folded, compareTerms)
	return folded, true
}

// foldSingletons folds the single-term products of a sum over the same
// location.  It returns true if the sum is found to always hold.
func foldSingletons(prods []product) ([]product, bool) {
	var singles []*Term
	var rest []product
	for _, prod := range prods {
		if len(prod) == 1 {
			singles = append(singles, prod[0])
		} else {
			rest = append(rest, prod)
		}
	}

	var folded []*Term

	var insert func(t *Term) bool
	insert = func(t *Term) bool {
		for i, ft := range folded {
			if result, ok := ft.tryOrWith(t); ok {
				folded = slices.Delete(folded, i, i+1)

				switch v := result.(type) {
				case *Term:
					return insert(v)
				case *Polynomial:
					return v.IsTautology()
				}
			}
		}

		folded = append(folded, t)
		return false
	}

	for _, t := range singles {
		if insert(t) {
			return nil, true
		}
	}

	for _, t := range folded {
		rest = append(rest, product{t})
	}

	return rest, false
}

// maxTruthTableAtoms bounds the size of the truth tables used to recognise
// tautologies.
const maxTruthTableAtoms = 10

// isPropositionalTautology returns whether a sum holds for every assignment
// of its atoms.  Atoms are treated as independent variables: a sum that
// holds for all such assignments holds for every actual value.
func isPropositionalTautology(prods []product) bool {
	var atoms []string
	for _, prod := range prods {
		for _, t := range prod {
			if !slices.Contains(atoms, t.Atom.Key()) {
				atoms = append(atoms, t.Atom.Key())
			}
		}
	}

	if len(atoms) > maxTruthTableAtoms {
		return false
	}

	for assignment := 0; assignment < 1<<len(atoms); assignment++ {
		holds := slices.ContainsFunc(prods, func(prod product) bool {
			for _, t := range prod {
				bit := assignment&(1<<slices.Index(atoms, t.Atom.Key())) != 0
				if bit == t.Negated {
					return false
				}
			}

			return true
		})

		if !holds {
			return false
		}
	}

	return true
}
