package common

// Operator identifies an intrinsic operator.  Operators are resolved by the
// type checker and carried unchanged into the IR.
type Operator int

// The enumeration of intrinsic operator IDs.
const (
	OP_ADD Operator = iota
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD

	OP_AND
	OP_OR
	OP_XOR

	OP_EQ
	OP_NEQ
	OP_LT
	OP_GT
	OP_LTEQ
	OP_GTEQ

	OP_NEG
	OP_NOT
)

// operatorSymbols maps each operator to its source spelling.
var operatorSymbols = [...]string{
	OP_ADD: "+",
	OP_SUB: "-",
	OP_MUL: "*",
	OP_DIV: "/",
	OP_MOD: "%",

	OP_AND: "and",
	OP_OR:  "or",
	OP_XOR: "xor",

	OP_EQ:   "==",
	OP_NEQ:  "!=",
	OP_LT:   "<",
	OP_GT:   ">",
	OP_LTEQ: "<=",
	OP_GTEQ: ">=",

	OP_NEG: "-",
	OP_NOT: "!",
}

func (op Operator) String() string {
	if 0 <= int(op) && int(op) < len(operatorSymbols) {
		return operatorSymbols[op]
	}

	return "?"
}

// IsComparison returns whether the operator compares its operands: its
// result is always a boolean.
func (op Operator) IsComparison() bool {
	return OP_EQ <= op && op <= OP_GTEQ
}

// IsLogical returns whether the operator is one that applies to both
// booleans and words.
func (op Operator) IsLogical() bool {
	return OP_AND <= op && op <= OP_XOR
}
