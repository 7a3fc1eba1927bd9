package ir

import (
	"fmt"
	"strconv"

	"helixc/types"
)

// Immediate represents an operand that can be used in an op: a temporary, a
// local variable, or a constant.
type Immediate interface {
	// Repr returns the textual representation of the immediate.
	Repr() string

	// Type returns the (always widened) type of the immediate.
	Type() types.Type
}

// -----------------------------------------------------------------------------

// Temp is a temporary value defined by exactly one op.
type Temp struct {
	// The number of the temporary: unique within its function.
	ID int

	// The type of the temporary.
	Typ types.Type
}

func (t *Temp) Repr() string {
	return fmt.Sprintf("$%d", t.ID)
}

func (t *Temp) Type() types.Type {
	return t.Typ
}

// Local is a local variable or parameter.  Locals are mutable storage: they
// are assigned by `CreateLocalOp`, `AssignLocalOp`, and `SetMemberOp` and may
// have their address taken.
type Local struct {
	// The name of the local.  Names are unique within their function.
	Name string

	// The type of the local.
	Typ types.Type

	// Whether the local is a parameter.
	IsParam bool
}

func (l *Local) Repr() string {
	return "%" + l.Name
}

func (l *Local) Type() types.Type {
	return l.Typ
}

// -----------------------------------------------------------------------------

// WordConst is a word constant.
type WordConst struct {
	Value int64
}

func (wc WordConst) Repr() string {
	return strconv.FormatInt(wc.Value, 10)
}

func (WordConst) Type() types.Type {
	return types.Word
}

// BoolConst is a boolean constant.
type BoolConst struct {
	Value bool
}

func (bc BoolConst) Repr() string {
	return strconv.FormatBool(bc.Value)
}

func (BoolConst) Type() types.Type {
	return types.Bool
}

// VoidConst is the value of every void expression.
type VoidConst struct{}

func (VoidConst) Repr() string {
	return "void"
}

func (VoidConst) Type() types.Type {
	return types.Void
}
