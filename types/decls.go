package types

import (
	"helixc/common"
	"helixc/report"
	"helixc/util"
)

// Member is a named member of a struct or union.
type Member struct {
	// The name of the member.
	Name string

	// The type of the member.  This is nil until signatures are resolved.
	Type Type

	// Where the member was declared.
	DefSpan *report.TextSpan
}

// NominalSignature is the declaration of a struct or union.
type NominalSignature struct {
	// The nominal type referring to this declaration.
	Type *NominalType

	// The members in declaration order.
	Members []*Member

	// Where the declaration was made.
	DefSpan *report.TextSpan
}

// Member looks up a member by name.
func (ns *NominalSignature) Member(name string) (*Member, bool) {
	for _, mem := range ns.Members {
		if mem.Name == name {
			return mem, true
		}
	}

	return nil, false
}

// MemberNames returns the names of all members in declaration order.
func (ns *NominalSignature) MemberNames() []string {
	return util.Map(ns.Members, func(mem *Member) string { return mem.Name })
}

// Parameter is a named function parameter.
type Parameter struct {
	// The name of the parameter.
	Name string

	// The type of the parameter.
	Type Type

	// Where the parameter was declared.
	DefSpan *report.TextSpan
}

// FunctionSignature is the resolvable signature of a function.  It is not a
// first-class type: functions are only ever called by name.
type FunctionSignature struct {
	// The path of the function.
	Path common.IdentifierPath

	// The parameters of the function.
	Params []*Parameter

	// The return type of the function.
	ReturnType Type

	// Whether the function is defined outside of Helix.
	Extern bool

	// Where the function was declared.
	DefSpan *report.TextSpan
}

// -----------------------------------------------------------------------------

// DeclTable is the global declaration table which maps the paths of all
// struct, union, and function declarations to their signatures.  It is built
// once during name resolution and treated as read-only afterwards.
type DeclTable struct {
	nominals map[common.IdentifierPath]*NominalSignature
	funcs    map[common.IdentifierPath]*FunctionSignature

	// The declaration order of the nominals and functions.  All walks over
	// the table follow this order.
	nominalOrder []common.IdentifierPath
	funcOrder    []common.IdentifierPath
}

// NewDeclTable creates a new empty declaration table.
func NewDeclTable() *DeclTable {
	return &DeclTable{
		nominals: make(map[common.IdentifierPath]*NominalSignature),
		funcs:    make(map[common.IdentifierPath]*FunctionSignature),
	}
}

// IsDeclared returns whether any declaration has the given path.
func (dt *DeclTable) IsDeclared(path common.IdentifierPath) bool {
	_, isNominal := dt.nominals[path]
	_, isFunc := dt.funcs[path]
	return isNominal || isFunc
}

// DeclareNominal adds a struct or union declaration to the table.
func (dt *DeclTable) DeclareNominal(sig *NominalSignature) {
	dt.nominals[sig.Type.Path] = sig
	dt.nominalOrder = append(dt.nominalOrder, sig.Type.Path)
}

// DeclareFunc adds a function declaration to the table.
func (dt *DeclTable) DeclareFunc(sig *FunctionSignature) {
	dt.funcs[sig.Path] = sig
	dt.funcOrder = append(dt.funcOrder, sig.Path)
}

// Nominal looks up a struct or union signature.
func (dt *DeclTable) Nominal(path common.IdentifierPath) (*NominalSignature, bool) {
	sig, ok := dt.nominals[path]
	return sig, ok
}

// Func looks up a function signature.
func (dt *DeclTable) Func(path common.IdentifierPath) (*FunctionSignature, bool) {
	sig, ok := dt.funcs[path]
	return sig, ok
}

// Nominals returns all struct and union signatures in declaration order.
func (dt *DeclTable) Nominals() []*NominalSignature {
	sigs := make([]*NominalSignature, len(dt.nominalOrder))
	for i, path := range dt.nominalOrder {
		sigs[i] = dt.nominals[path]
	}

	return sigs
}

// Funcs returns all function signatures in declaration order.
func (dt *DeclTable) Funcs() []*FunctionSignature {
	sigs := make([]*FunctionSignature, len(dt.funcOrder))
	for i, path := range dt.funcOrder {
		sigs[i] = dt.funcs[path]
	}

	return sigs
}

// SignatureOf returns the signature of the nominal type underlying t: the
// type itself or the union of a singular union.
func (dt *DeclTable) SignatureOf(t Type) (*NominalSignature, bool) {
	switch v := Widen(t).(type) {
	case *NominalType:
		sig, ok := dt.nominals[v.Path]
		if !ok {
			report.Invariant("nominal type `%s` has no declaration", v.Path)
		}

		return sig, true
	default:
		return nil, false
	}
}

// -----------------------------------------------------------------------------

// DoesAliasLValues returns whether values of type t can hold references to
// storage: pointers, arrays, and structs or unions with such members.
func (dt *DeclTable) DoesAliasLValues(t Type) bool {
	return dt.doesAlias(t, make(map[common.IdentifierPath]bool))
}

func (dt *DeclTable) doesAlias(t Type, visited map[common.IdentifierPath]bool) bool {
	switch v := Widen(t).(type) {
	case *PointerType, *ArrayType:
		return true
	case *NominalType:
		if visited[v.Path] {
			return false
		}
		visited[v.Path] = true

		sig, _ := dt.SignatureOf(v)
		for _, mem := range sig.Members {
			if dt.doesAlias(mem.Type, visited) {
				return true
			}
		}
	}

	return false
}

// MemberPath is one storage component of a value: the value itself (an empty
// chain) or one of its nested struct members.
type MemberPath struct {
	// The chain of member names leading from the value to the component.
	Chain []string

	// The type of the component.
	Type Type
}

// Location returns the location of the component inside the value stored at
// parent.
func (mp MemberPath) Location(parent common.ValueLocation) common.ValueLocation {
	return common.MemberChainOf(parent, mp.Chain)
}

// MemberPaths expands a type into its storage components: the value itself
// followed by every (recursively nested) struct member.  Union members are
// not expanded since only one of them is live at a time.
func (dt *DeclTable) MemberPaths(t Type) []MemberPath {
	return dt.appendMemberPaths(nil, nil, t)
}

func (dt *DeclTable) appendMemberPaths(paths []MemberPath, prefix []string, t Type) []MemberPath {
	paths = append(paths, MemberPath{Chain: prefix, Type: t})

	if sig, ok := dt.SignatureOf(t); ok && sig.Type.Kind == NominalStruct {
		for _, mem := range sig.Members {
			chain := make([]string, len(prefix), len(prefix)+1)
			copy(chain, prefix)

			paths = dt.appendMemberPaths(paths, append(chain, mem.Name), mem.Type)
		}
	}

	return paths
}
