package types

// Cast returns whether it is possible to cast src to dest.  A cast either
// widens src into dest or converts between words and bools.
func Cast(src, dest Type) bool {
	if _, ok := TryUnifyTo(src, dest); ok {
		return true
	}

	return IsConversion(src, dest)
}

// IsConversion returns whether a cast from src to dest changes the
// representation of the value: the word and bool casts.  Every other legal
// cast only widens.
func IsConversion(src, dest Type) bool {
	if spt, ok := Widen(src).(PrimitiveType); ok {
		if dpt, ok := Widen(dest).(PrimitiveType); ok {
			return castPrimitiveType(spt, dpt)
		}
	}

	return false
}

// castPrimitiveType returns whether a primitive cast converts the value.
func castPrimitiveType(spt, dpt PrimitiveType) bool {
	switch dpt {
	case PrimTypeWord: // ... to word
		return spt == PrimTypeBool
	case PrimTypeBool: // ... to bool
		return spt == PrimTypeWord
	}

	// No other primitive casts convert.
	return false
}
