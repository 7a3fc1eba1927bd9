package types

import (
	"fmt"
	"strconv"

	"helixc/common"
)

// Type represents a Helix data type.  Types are immutable values: they may be
// freely shared between stages and between the branches of an analysis.
type Type interface {
	// Returns whether this type is equal to the other type.  This should only
	// be called through Equals.
	equals(other Type) bool

	// Returns the representative string for this type.
	Repr() string
}

// -----------------------------------------------------------------------------

// PrimitiveType represents a primitive type.  This must be one of the enumerated
// primitive type values below.
type PrimitiveType int

// Enumeration of the different primitive types.
const (
	PrimTypeVoid PrimitiveType = iota
	PrimTypeWord
	PrimTypeBool
)

func (pt PrimitiveType) equals(other Type) bool {
	if opt, ok := other.(PrimitiveType); ok {
		return pt == opt
	}

	return false
}

func (pt PrimitiveType) Repr() string {
	switch pt {
	case PrimTypeVoid:
		return "void"
	case PrimTypeWord:
		return "word"
	default:
		return "bool"
	}
}

// -----------------------------------------------------------------------------

// SingularWordType is the type of a word whose value is known statically.
type SingularWordType struct {
	Value int64
}

func (swt *SingularWordType) equals(other Type) bool {
	if oswt, ok := other.(*SingularWordType); ok {
		return swt.Value == oswt.Value
	}

	return false
}

func (swt *SingularWordType) Repr() string {
	return strconv.FormatInt(swt.Value, 10)
}

// Condition is the knowledge a singular bool carries about its value.  It is
// implemented by the predicates of the predicate package.
type Condition interface {
	// EqualsCondition returns whether both conditions are structurally equal.
	EqualsCondition(other Condition) bool

	// Constant returns the value of the condition if it is always true or
	// always false.
	Constant() (value bool, ok bool)

	String() string
}

// SingularBoolType is the type of a boolean whose value is decided by a
// condition: a literal `true` carries the always-true condition, a narrowed
// variable carries the condition it was tested against.
type SingularBoolType struct {
	Predicate Condition
}

func (sbt *SingularBoolType) equals(other Type) bool {
	if osbt, ok := other.(*SingularBoolType); ok {
		return sbt.Predicate.EqualsCondition(osbt.Predicate)
	}

	return false
}

func (sbt *SingularBoolType) Repr() string {
	if value, ok := sbt.Predicate.Constant(); ok {
		return strconv.FormatBool(value)
	}

	return "bool{" + sbt.Predicate.String() + "}"
}

// SingularUnionType is the type of a union value known to hold one member.
type SingularUnionType struct {
	// The union type this is a case of.
	Union *NominalType

	// The name of the member being held.
	Member string

	// The type of the held value.
	Value Type
}

func (sut *SingularUnionType) equals(other Type) bool {
	if osut, ok := other.(*SingularUnionType); ok {
		return sut.Union.equals(osut.Union) && sut.Member == osut.Member && Equals(sut.Value, osut.Value)
	}

	return false
}

func (sut *SingularUnionType) Repr() string {
	return fmt.Sprintf("%s{%s = %s}", sut.Union.Repr(), sut.Member, sut.Value.Repr())
}

// -----------------------------------------------------------------------------

// PointerType represents a pointer type.
type PointerType struct {
	// The element (content) type of the pointer.
	ElemType Type
}

func (pt *PointerType) equals(other Type) bool {
	if opt, ok := other.(*PointerType); ok {
		return Equals(pt.ElemType, opt.ElemType)
	}

	return false
}

func (pt *PointerType) Repr() string {
	return pt.ElemType.Repr() + "*"
}

// ArrayType represents an array type.  Arrays are references to storage
// allocated on the heap along with their length.
type ArrayType struct {
	// The element type of the array.
	ElemType Type
}

func (at *ArrayType) equals(other Type) bool {
	if oat, ok := other.(*ArrayType); ok {
		return Equals(at.ElemType, oat.ElemType)
	}

	return false
}

func (at *ArrayType) Repr() string {
	return at.ElemType.Repr() + "[]"
}

// -----------------------------------------------------------------------------

// Enumeration of the kinds of nominal types.
const (
	NominalStruct = iota
	NominalUnion
)

// NominalType is a reference by name to a struct or union declaration.  Two
// nominal types are equal if and only if they name the same declaration: the
// members are never compared.
type NominalType struct {
	// The path of the declaration.
	Path common.IdentifierPath

	// The kind of the declaration.  This must be one of the enumerated
	// nominal kinds.
	Kind int
}

func (nt *NominalType) equals(other Type) bool {
	if ont, ok := other.(*NominalType); ok {
		return nt.Path == ont.Path
	}

	return false
}

func (nt *NominalType) Repr() string {
	return nt.Path.Name()
}

// CName returns the name of the declaration in generated C.
func (nt *NominalType) CName() string {
	return nt.Path.Join("$")
}

// IsUnion returns whether the nominal type names a union.
func (nt *NominalType) IsUnion() bool {
	return nt.Kind == NominalUnion
}

// -----------------------------------------------------------------------------

// The primitive types are stateless so a single value of each is shared.
var (
	Void Type = PrimTypeVoid
	Word Type = PrimTypeWord
	Bool Type = PrimTypeBool
)

// NewSingularWord returns the singular type of the word value.
func NewSingularWord(value int64) Type {
	return &SingularWordType{Value: value}
}

// NewSingularBool returns the singular bool type decided by cond.
func NewSingularBool(cond Condition) Type {
	return &SingularBoolType{Predicate: cond}
}

// NewPointer returns the pointer type to elem.  Only widened types are stored
// inside composite types.
func NewPointer(elem Type) *PointerType {
	return &PointerType{ElemType: Widen(elem)}
}

// NewArray returns the array type of elem.
func NewArray(elem Type) *ArrayType {
	return &ArrayType{ElemType: Widen(elem)}
}
