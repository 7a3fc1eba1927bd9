package ir

import (
	"helixc/report"
	"helixc/types"
	"helixc/util"
)

// Layout describes how values of a type are stored in memory.
type Layout struct {
	// The size of the type in bytes: always a multiple of its alignment.
	Size uint

	// The alignment of the type in bytes.
	Align uint

	// The offset of each member of a struct in member order.  For unions,
	// this is the offset of the payload shared by all members.
	Offsets []uint
}

// LayoutOf computes the layout of typ.  Arrays are stored as a pointer to
// their elements followed by their word count.  Unions are stored as a word
// tag (the index of the member held) followed by a payload large enough for
// any member.
func LayoutOf(decls *types.DeclTable, typ types.Type) Layout {
	switch v := types.Widen(typ).(type) {
	case types.PrimitiveType:
		switch v {
		case types.PrimTypeVoid:
			return Layout{Size: 0, Align: 1}
		case types.PrimTypeBool:
			return Layout{Size: 1, Align: 1}
		default:
			return Layout{Size: util.WordSize, Align: util.WordSize}
		}
	case *types.PointerType:
		return Layout{Size: util.PointerSize, Align: util.PointerSize}
	case *types.ArrayType:
		return Layout{Size: util.PointerSize + util.WordSize, Align: util.PointerSize, Offsets: []uint{0, util.PointerSize}}
	case *types.NominalType:
		sig, _ := decls.SignatureOf(v)

		if v.IsUnion() {
			return unionLayout(decls, sig)
		}

		return structLayout(decls, sig)
	}

	report.Invariant("no layout for type `%s`", typ.Repr())
	return Layout{}
}

// structLayout lays out the members of a struct contiguously in memory.
func structLayout(decls *types.DeclTable, sig *types.NominalSignature) Layout {
	// the alignment of a struct is simply the largest alignment of its
	// members since structs are stored contiguously in memory
	var maxAlign uint = 1

	// offset is used to keep track of member offsets as they are placed
	var offset uint

	offsets := make([]uint, len(sig.Members))
	for i, mem := range sig.Members {
		ml := LayoutOf(decls, mem.Type)

		// a member must be inserted at an offset that is a multiple of its
		// alignment
		offset = alignTo(offset, ml.Align)
		offsets[i] = offset
		offset += ml.Size

		if ml.Align > maxAlign {
			maxAlign = ml.Align
		}
	}

	// the size of a struct is padded to a multiple of its alignment
	return Layout{Size: alignTo(offset, maxAlign), Align: maxAlign, Offsets: offsets}
}

// unionLayout lays out a union as its tag followed by its payload.
func unionLayout(decls *types.DeclTable, sig *types.NominalSignature) Layout {
	var payload uint
	for _, mem := range sig.Members {
		if size := LayoutOf(decls, mem.Type).Size; size > payload {
			payload = size
		}
	}

	return Layout{
		Size:    util.WordSize + alignTo(payload, util.WordSize),
		Align:   util.WordSize,
		Offsets: []uint{util.WordSize},
	}
}

// PayloadWords returns the number of words needed to hold any member of a
// union.
func PayloadWords(decls *types.DeclTable, union *types.NominalType) uint {
	return (LayoutOf(decls, union).Size - util.WordSize) / util.WordSize
}

// alignTo rounds offset up to a multiple of align.
func alignTo(offset, align uint) uint {
	if mod := offset % align; mod != 0 {
		return offset + align - mod
	}

	return offset
}
