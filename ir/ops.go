package ir

import (
	"strings"

	"helixc/common"
	"helixc/types"
	"helixc/util"
)

// opNames maps each operator to the name of the op applying it.
var opNames = [...]string{
	common.OP_ADD: "add",
	common.OP_SUB: "sub",
	common.OP_MUL: "mul",
	common.OP_DIV: "div",
	common.OP_MOD: "mod",

	common.OP_AND: "and",
	common.OP_OR:  "or",
	common.OP_XOR: "xor",

	common.OP_EQ:   "eq",
	common.OP_NEQ:  "ne",
	common.OP_LT:   "lt",
	common.OP_GT:   "gt",
	common.OP_LTEQ: "le",
	common.OP_GTEQ: "ge",

	common.OP_NEG: "neg",
	common.OP_NOT: "not",
}

// defRepr builds the representation of an op defining dest.
func defRepr(dest *Temp, name string, operands ...string) string {
	sb := strings.Builder{}

	sb.WriteString(dest.Repr())
	sb.WriteString(" = ")
	sb.WriteString(effectRepr(name+" "+dest.Typ.Repr(), operands...))

	return sb.String()
}

// effectRepr builds the representation of an op defining nothing.
func effectRepr(name string, operands ...string) string {
	if len(operands) == 0 {
		return name
	}

	return name + " " + strings.Join(operands, ", ")
}

// reprAll returns the representations of imms.
func reprAll(imms []Immediate) []string {
	return util.Map(imms, Immediate.Repr)
}

// -----------------------------------------------------------------------------

// BinaryOp applies a binary operator to two words, two bools, or (for
// equality only) two pointers.
type BinaryOp struct {
	OpBase

	Op common.Operator

	LHS, RHS Immediate
}

func (bo *BinaryOp) Repr() string {
	return defRepr(bo.Dest, opNames[bo.Op], bo.LHS.Repr(), bo.RHS.Repr())
}

func (bo *BinaryOp) Operands() []Immediate {
	return []Immediate{bo.LHS, bo.RHS}
}

// UnaryOp applies `-` (negation) or `!` (logical or bitwise complement).
type UnaryOp struct {
	OpBase

	Op common.Operator

	Operand Immediate
}

func (uo *UnaryOp) Repr() string {
	return defRepr(uo.Dest, opNames[uo.Op], uo.Operand.Repr())
}

func (uo *UnaryOp) Operands() []Immediate {
	return []Immediate{uo.Operand}
}

// CastOp converts a word into a bool or a bool into a word.
type CastOp struct {
	OpBase

	Value Immediate
}

func (co *CastOp) Repr() string {
	return defRepr(co.Dest, "cast", co.Value.Repr())
}

func (co *CastOp) Operands() []Immediate {
	return []Immediate{co.Value}
}

// InvokeOp calls a function.  Dest is nil when the function returns void.
type InvokeOp struct {
	OpBase

	Func *types.FunctionSignature

	Args []Immediate
}

func (io *InvokeOp) Repr() string {
	call := "@" + io.Func.Path.String() + "(" + strings.Join(reprAll(io.Args), ", ") + ")"

	if io.Dest == nil {
		return effectRepr("call", call)
	}

	return defRepr(io.Dest, "call", call)
}

func (io *InvokeOp) Operands() []Immediate {
	return io.Args
}

// -----------------------------------------------------------------------------

// CreateLocalOp begins the lifetime of a local variable with its initial
// value.
type CreateLocalOp struct {
	EffectBase

	Local *Local

	Init Immediate
}

func (co *CreateLocalOp) Repr() string {
	return effectRepr("local "+co.Local.Typ.Repr(), co.Local.Repr(), co.Init.Repr())
}

func (co *CreateLocalOp) Operands() []Immediate {
	return []Immediate{co.Init}
}

// AssignLocalOp stores a value to a local variable.
type AssignLocalOp struct {
	EffectBase

	Local *Local

	Value Immediate
}

func (ao *AssignLocalOp) Repr() string {
	return effectRepr("assign", ao.Local.Repr(), ao.Value.Repr())
}

func (ao *AssignLocalOp) Operands() []Immediate {
	return []Immediate{ao.Value}
}

// SetMemberOp stores a value to a member of a struct local.
type SetMemberOp struct {
	EffectBase

	Local *Local

	Member string

	Value Immediate
}

func (so *SetMemberOp) Repr() string {
	return effectRepr("setmember", so.Local.Repr(), "."+so.Member, so.Value.Repr())
}

func (so *SetMemberOp) Operands() []Immediate {
	return []Immediate{so.Value}
}

// -----------------------------------------------------------------------------

// AddressOfOp produces a pointer to a local variable.
type AddressOfOp struct {
	OpBase

	Local *Local
}

func (ao *AddressOfOp) Repr() string {
	return defRepr(ao.Dest, "addr", ao.Local.Repr())
}

func (ao *AddressOfOp) Operands() []Immediate {
	return nil
}

// LoadReferenceOp reads the value a pointer points at.
type LoadReferenceOp struct {
	OpBase

	Ref Immediate
}

func (lo *LoadReferenceOp) Repr() string {
	return defRepr(lo.Dest, "load", lo.Ref.Repr())
}

func (lo *LoadReferenceOp) Operands() []Immediate {
	return []Immediate{lo.Ref}
}

// StoreReferenceOp stores a value to the storage a pointer points at.
type StoreReferenceOp struct {
	EffectBase

	Ref, Value Immediate
}

func (so *StoreReferenceOp) Repr() string {
	return effectRepr("store", so.Ref.Repr(), so.Value.Repr())
}

func (so *StoreReferenceOp) Operands() []Immediate {
	return []Immediate{so.Ref, so.Value}
}

// MemberReferenceOp produces a pointer to a member of the struct a pointer
// points at.
type MemberReferenceOp struct {
	OpBase

	Ref Immediate

	Member string
}

func (mo *MemberReferenceOp) Repr() string {
	return defRepr(mo.Dest, "memref", mo.Ref.Repr(), "."+mo.Member)
}

func (mo *MemberReferenceOp) Operands() []Immediate {
	return []Immediate{mo.Ref}
}

// GetMemberOp reads a member of a struct or union value.
type GetMemberOp struct {
	OpBase

	Value Immediate

	Member string
}

func (gm *GetMemberOp) Repr() string {
	return defRepr(gm.Dest, "getmember", gm.Value.Repr(), "."+gm.Member)
}

func (gm *GetMemberOp) Operands() []Immediate {
	return []Immediate{gm.Value}
}

// -----------------------------------------------------------------------------

// AllocateOp allocates a zeroed cell on the heap.  The type of Dest is a
// pointer to the cell.
type AllocateOp struct {
	OpBase
}

// ElemType returns the type of the allocated cell.
func (ao *AllocateOp) ElemType() types.Type {
	return ao.Dest.Typ.(*types.PointerType).ElemType
}

func (ao *AllocateOp) Repr() string {
	return defRepr(ao.Dest, "alloc")
}

func (ao *AllocateOp) Operands() []Immediate {
	return nil
}

// ArrayLiteralOp allocates an array on the heap holding its elements.
type ArrayLiteralOp struct {
	OpBase

	Elems []Immediate
}

func (ao *ArrayLiteralOp) Repr() string {
	return defRepr(ao.Dest, "array", "["+strings.Join(reprAll(ao.Elems), ", ")+"]")
}

func (ao *ArrayLiteralOp) Operands() []Immediate {
	return ao.Elems
}

// ArrayLoadOp reads an element of an array.
type ArrayLoadOp struct {
	OpBase

	Array, Index Immediate
}

func (ao *ArrayLoadOp) Repr() string {
	return defRepr(ao.Dest, "aload", ao.Array.Repr(), ao.Index.Repr())
}

func (ao *ArrayLoadOp) Operands() []Immediate {
	return []Immediate{ao.Array, ao.Index}
}

// ArrayStoreOp stores a value to an element of an array.
type ArrayStoreOp struct {
	EffectBase

	Array, Index, Value Immediate
}

func (ao *ArrayStoreOp) Repr() string {
	return effectRepr("astore", ao.Array.Repr(), ao.Index.Repr(), ao.Value.Repr())
}

func (ao *ArrayStoreOp) Operands() []Immediate {
	return []Immediate{ao.Array, ao.Index, ao.Value}
}

// ArrayReferenceOp produces a pointer to an element of an array.
type ArrayReferenceOp struct {
	OpBase

	Array, Index Immediate
}

func (ao *ArrayReferenceOp) Repr() string {
	return defRepr(ao.Dest, "aref", ao.Array.Repr(), ao.Index.Repr())
}

func (ao *ArrayReferenceOp) Operands() []Immediate {
	return []Immediate{ao.Array, ao.Index}
}

// ArrayLengthOp reads the element count of an array.
type ArrayLengthOp struct {
	OpBase

	Array Immediate
}

func (ao *ArrayLengthOp) Repr() string {
	return defRepr(ao.Dest, "count", ao.Array.Repr())
}

func (ao *ArrayLengthOp) Operands() []Immediate {
	return []Immediate{ao.Array}
}

// -----------------------------------------------------------------------------

// NewStructOp builds a struct value.  Fields are in member order.
type NewStructOp struct {
	OpBase

	Fields []Immediate
}

func (no *NewStructOp) Repr() string {
	return defRepr(no.Dest, "newstruct", "{"+strings.Join(reprAll(no.Fields), ", ")+"}")
}

func (no *NewStructOp) Operands() []Immediate {
	return no.Fields
}

// NewUnionOp builds a union value holding one member.
type NewUnionOp struct {
	OpBase

	Member string

	Value Immediate
}

func (no *NewUnionOp) Repr() string {
	return defRepr(no.Dest, "newunion", "."+no.Member, no.Value.Repr())
}

func (no *NewUnionOp) Operands() []Immediate {
	return []Immediate{no.Value}
}

// UnionTestOp tests whether a union value holds a member.
type UnionTestOp struct {
	OpBase

	Union Immediate

	Member string
}

func (uo *UnionTestOp) Repr() string {
	return defRepr(uo.Dest, "is", uo.Union.Repr(), "."+uo.Member)
}

func (uo *UnionTestOp) Operands() []Immediate {
	return []Immediate{uo.Union}
}
