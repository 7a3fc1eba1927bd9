package walk

import (
	"helixc/ast"
	"helixc/common"
	"helixc/report"
	"helixc/types"
)

// DeclareNames collects the names of all struct, union and function
// declarations of file into decls.  No types are resolved: the signatures it
// creates are completed by ResolveSignatures.
func DeclareNames(file *ast.File, decls *types.DeclTable) {
	for _, decl := range file.Decls {
		switch v := decl.(type) {
		case *ast.AggregateDecl:
			path := common.NewPath(v.Name)
			checkUnique(decls, path, v.NameSpan)

			kind := types.NominalStruct
			if v.Kind == ast.AggUnion {
				kind = types.NominalUnion

				if len(v.Members) == 0 {
					panic(report.Raise(report.ErrUsage, v.NameSpan, "union `%s` must have at least one member", v.Name))
				}
			}

			sig := &types.NominalSignature{
				Type:    &types.NominalType{Path: path, Kind: kind},
				DefSpan: v.NameSpan,
			}

			for _, mem := range v.Members {
				if _, ok := sig.Member(mem.Name); ok {
					panic(report.Raise(report.ErrUsage, mem.Span, "multiple members named `%s`", mem.Name))
				}

				sig.Members = append(sig.Members, &types.Member{Name: mem.Name, DefSpan: mem.Span})
			}

			decls.DeclareNominal(sig)
		case *ast.FuncDecl:
			path := common.NewPath(v.Name)
			checkUnique(decls, path, v.NameSpan)

			decls.DeclareFunc(&types.FunctionSignature{
				Path:    path,
				Extern:  v.IsExtern(),
				DefSpan: v.NameSpan,
			})
		}
	}
}

// checkUnique reports an error if a declaration with the given path exists.
func checkUnique(decls *types.DeclTable, path common.IdentifierPath, span *report.TextSpan) {
	if decls.IsDeclared(path) {
		panic(report.Raise(report.ErrUsage, span, "multiple declarations named `%s`", path.Name()))
	}
}

// ResolveSignatures resolves the member types of all structs and unions and
// the parameter and return types of all functions.  Structs and unions which
// contain themselves by value are rejected.
func ResolveSignatures(file *ast.File, decls *types.DeclTable) {
	for _, decl := range file.Decls {
		switch v := decl.(type) {
		case *ast.AggregateDecl:
			sig, _ := decls.Nominal(common.NewPath(v.Name))

			for i, mem := range v.Members {
				typ := resolveTypeLabel(decls, mem.Type)
				if types.IsVoid(typ) {
					panic(report.Raise(report.ErrUsage, mem.Type.Span(), "member `%s` cannot have type `void`", mem.Name))
				}

				sig.Members[i].Type = typ
			}
		case *ast.FuncDecl:
			sig, _ := decls.Func(common.NewPath(v.Name))

			for _, param := range v.Params {
				for _, prev := range sig.Params {
					if prev.Name == param.Name {
						panic(report.Raise(report.ErrUsage, param.Span, "multiple parameters named `%s`", param.Name))
					}
				}

				typ := resolveTypeLabel(decls, param.Type)
				if types.IsVoid(typ) {
					panic(report.Raise(report.ErrUsage, param.Type.Span(), "parameter `%s` cannot have type `void`", param.Name))
				}

				sig.Params = append(sig.Params, &types.Parameter{Name: param.Name, Type: typ, DefSpan: param.Span})
			}

			if v.ReturnType == nil {
				sig.ReturnType = types.Void
			} else {
				sig.ReturnType = resolveTypeLabel(decls, v.ReturnType)
			}
		}
	}

	checkForInfiniteTypes(decls)
}

// resolveTypeLabel converts a type label into the type it names.
func resolveTypeLabel(decls *types.DeclTable, label ast.TypeLabel) types.Type {
	switch v := label.(type) {
	case *ast.PrimitiveTypeLabel:
		switch v.Kind {
		case ast.PrimWord:
			return types.Word
		case ast.PrimBool:
			return types.Bool
		default:
			return types.Void
		}
	case *ast.NamedTypeLabel:
		if sig, ok := decls.Nominal(common.NewPath(v.Name)); ok {
			return sig.Type
		}

		panic(report.Raise(report.ErrUndefinedName, v.Span(), "undefined type: `%s`", v.Name))
	case *ast.PointerTypeLabel:
		return types.NewPointer(resolveElemType(decls, v.ElemType))
	case *ast.ArrayTypeLabel:
		return types.NewArray(resolveElemType(decls, v.ElemType))
	}

	report.Invariant("unknown type label: %T", label)
	return nil
}

// resolveElemType resolves the element type of a pointer or array.
func resolveElemType(decls *types.DeclTable, label ast.TypeLabel) types.Type {
	typ := resolveTypeLabel(decls, label)
	if types.IsVoid(typ) {
		panic(report.Raise(report.ErrUsage, label.Span(), "`void` cannot be the element type of a pointer or array"))
	}

	return typ
}

// -----------------------------------------------------------------------------

/*
Infinite Type Checking
----------------------

A struct or union is infinite if it contains itself by value: eg. a struct
`A` with a member of type `B` where `B` has a member of type `A`.  Members
reached through pointers and arrays are stored indirectly and thus never make
a type infinite.

The check is a three-color depth-first search of the by-value member graph.
All nominal types start out white.  When a type is visited, it is colored grey
and all of its by-value member types are visited.  Once this has completed,
the type is colored black.  Reaching a grey type means that a cycle has been
found.  Black types have already been fully searched and are skipped.
*/

// Enumeration of search colors.
const (
	colorWhite = iota
	colorGrey
	colorBlack
)

// checkForInfiniteTypes checks all declared nominal types to make sure none
// are infinite.
func checkForInfiniteTypes(decls *types.DeclTable) {
	colors := make(map[common.IdentifierPath]int)

	for _, sig := range decls.Nominals() {
		if colors[sig.Type.Path] == colorWhite {
			searchFrom(decls, sig, colors)
		}
	}
}

// searchFrom performs the infinite type search starting from sig.
func searchFrom(decls *types.DeclTable, sig *types.NominalSignature, colors map[common.IdentifierPath]int) {
	colors[sig.Type.Path] = colorGrey

	for _, mem := range sig.Members {
		nt, ok := mem.Type.(*types.NominalType)
		if !ok {
			continue
		}

		switch colors[nt.Path] {
		case colorGrey:
			panic(report.Raise(
				report.ErrUsage,
				mem.DefSpan,
				"member `%s` makes `%s` contain itself by value",
				mem.Name,
				sig.Type.Repr(),
			))
		case colorWhite:
			memSig, _ := decls.Nominal(nt.Path)
			searchFrom(decls, memSig, colors)
		}
	}

	colors[sig.Type.Path] = colorBlack
}
