package types

import "helixc/report"

// Equals returns whether two types are identical.  Singular types are only
// equal to singular types encoding the same value.
func Equals(a, b Type) bool {
	return a.equals(b)
}

// IsSingular returns whether t denotes one statically-known value.
func IsSingular(t Type) bool {
	switch t.(type) {
	case *SingularWordType, *SingularBoolType, *SingularUnionType:
		return true
	default:
		return false
	}
}

// Widen returns the unique non-singular supertype of t.  Non-singular types
// are their own supertype so widening is idempotent.
func Widen(t Type) Type {
	switch v := t.(type) {
	case *SingularWordType:
		return Word
	case *SingularBoolType:
		return Bool
	case *SingularUnionType:
		return v.Union
	default:
		return t
	}
}

// IsWordLike returns whether t is `word` or a singular word.
func IsWordLike(t Type) bool {
	return Equals(Widen(t), Word)
}

// IsBoolLike returns whether t is `bool` or a singular bool.
func IsBoolLike(t Type) bool {
	return Equals(Widen(t), Bool)
}

// IsVoid returns whether t is `void`.
func IsVoid(t Type) bool {
	return Equals(t, Void)
}

// -----------------------------------------------------------------------------

// TryUnifyTo attempts to convert a value of type src into a value of type
// target.  The conversion succeeds when the types are equal or when src is a
// singular type whose supertype is target.  A singular union also converts
// into a singular union of the same member whose value its value converts
// into.  Composite types convert only when their element types are
// identical.  The resulting type is returned along with whether unification
// succeeded.
func TryUnifyTo(src, target Type) (Type, bool) {
	if Equals(src, target) {
		return target, true
	}

	switch v := src.(type) {
	case *SingularWordType, *SingularBoolType:
		if Equals(Widen(v), target) {
			return target, true
		}
	case *SingularUnionType:
		if Equals(v.Union, target) {
			return target, true
		}

		if tsut, ok := target.(*SingularUnionType); ok {
			if Equals(v.Union, tsut.Union) && v.Member == tsut.Member {
				if _, ok := TryUnifyTo(v.Value, tsut.Value); ok {
					return target, true
				}
			}
		}
	}

	return nil, false
}

// UnifyTo converts src into target or raises a type mismatch on span.
func UnifyTo(src, target Type, span *report.TextSpan) Type {
	if result, ok := TryUnifyTo(src, target); ok {
		return result
	}

	panic(report.Raise(
		report.ErrTypeMismatch,
		span,
		"expected type `%s` but got `%s`",
		target.Repr(),
		src.Repr(),
	))
}

// Join returns the narrowest type both a and b convert to.  It is used to
// compute the type of a value produced by one of two branches.
func Join(a, b Type) (Type, bool) {
	if t, ok := TryUnifyTo(a, b); ok {
		return t, true
	} else if t, ok := TryUnifyTo(b, a); ok {
		return t, true
	}

	// Two singular unions of the same member join at that member with the
	// join of their values.
	if asut, ok := a.(*SingularUnionType); ok {
		if bsut, ok := b.(*SingularUnionType); ok && Equals(asut.Union, bsut.Union) && asut.Member == bsut.Member {
			if value, ok := Join(asut.Value, bsut.Value); ok {
				return &SingularUnionType{Union: asut.Union, Member: asut.Member, Value: value}, true
			}
		}
	}

	if wa, wb := Widen(a), Widen(b); Equals(wa, wb) {
		return wa, true
	}

	return nil, false
}
