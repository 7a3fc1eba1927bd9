package generate

import (
	"fmt"
	"strings"

	"helixc/ir"
	"helixc/report"
	"helixc/types"
)

// visitNominal visits a struct or union declaration and recursively visits
// the aggregates it stores by value before generating it.  This ensures that
// C sees every complete type before it is used as a member.  Pointers and
// arrays only need the forward typedefs.
func (g *Generator) visitNominal(sig *types.NominalSignature) {
	if inProgress, ok := g.visited[sig.Type.Path]; ok {
		// the checker rejects aggregates that contain themselves by value
		if inProgress {
			report.Invariant("aggregate `%s` contains itself by value", sig.Type.Repr())
		}

		return
	}

	g.visited[sig.Type.Path] = true

	for _, mem := range sig.Members {
		if nt, ok := types.Widen(mem.Type).(*types.NominalType); ok {
			dep, ok := g.decls.SignatureOf(nt)
			if !ok {
				report.Invariant("member `%s` has undeclared type `%s`", mem.Name, nt.Repr())
			}

			g.visitNominal(dep)
		}
	}

	g.genNominal(sig)
	g.visited[sig.Type.Path] = false
}

// genNominal generates the definition of a struct or union.  A union is a
// struct holding the index of the member it holds and a C union of the
// members.
func (g *Generator) genNominal(sig *types.NominalSignature) {
	fmt.Fprintf(&g.typeBuf, "struct %s {\n", sig.Type.CName())

	if sig.Type.IsUnion() {
		g.typeBuf.WriteString("    _Word tag;\n")

		if len(sig.Members) > 0 {
			g.typeBuf.WriteString("    union {\n")
			for _, mem := range sig.Members {
				fmt.Fprintf(&g.typeBuf, "        %s %s;\n", g.convType(mem.Type), mem.Name)
			}
			g.typeBuf.WriteString("    } as;\n")
		}
	} else if len(sig.Members) == 0 {
		// C does not allow empty structs
		g.typeBuf.WriteString("    char _unused;\n")
	} else {
		for _, mem := range sig.Members {
			fmt.Fprintf(&g.typeBuf, "    %s %s;\n", g.convType(mem.Type), mem.Name)
		}
	}

	g.typeBuf.WriteString("};\n\n")
}

// memberIndex returns the index of a member of a nominal type.  This is the
// tag of a union holding that member.
func (g *Generator) memberIndex(typ types.Type, name string) int {
	if sig, ok := g.decls.SignatureOf(typ); ok {
		for i, mem := range sig.Members {
			if mem.Name == name {
				return i
			}
		}
	}

	report.Invariant("type `%s` has no member `%s`", typ.Repr(), name)
	return 0
}

// isUnion returns whether values of typ are unions.
func isUnion(typ types.Type) bool {
	nt, ok := types.Widen(typ).(*types.NominalType)
	return ok && nt.IsUnion()
}

// -----------------------------------------------------------------------------

// genPrototype generates the prototype of a function.
func (g *Generator) genPrototype(sig *types.FunctionSignature) {
	g.protoBuf.WriteString(g.signatureText(sig, nil))
	g.protoBuf.WriteString(";\n")
}

// signatureText returns the C signature of a function.  Parameters are
// named after params when it is non-nil.
func (g *Generator) signatureText(sig *types.FunctionSignature, params []*ir.Local) string {
	sb := strings.Builder{}
	sb.WriteString(g.convReturnType(sig.ReturnType))
	sb.WriteRune(' ')
	sb.WriteString(funcName(sig))
	sb.WriteRune('(')

	if len(sig.Params) == 0 {
		sb.WriteString("void")
	}

	for i, param := range sig.Params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(g.convType(param.Type))
		sb.WriteRune(' ')

		if params != nil {
			sb.WriteString(localName(params[i]))
		} else {
			sb.WriteString(sanitize(param.Name))
		}
	}

	sb.WriteRune(')')
	return sb.String()
}

// genFunc generates a function definition.  All locals and temporaries are
// declared at the top of the body.  Each block becomes a label which is only
// written when some block jumps to it.
func (g *Generator) genFunc(fn *ir.Func) {
	g.fn = fn
	g.preds = ir.Predecessors(fn)

	g.funcBuf.WriteRune('\n')
	g.funcBuf.WriteString(g.signatureText(fn.Signature, fn.Params))
	g.funcBuf.WriteString(" {\n")

	for _, local := range fn.Locals {
		g.line("%s %s;", g.convType(local.Typ), localName(local))
	}

	for _, temp := range fn.Temps() {
		g.line("%s %s;", g.convType(temp.Typ), tempName(temp))
	}

	if len(fn.Locals) > 0 || len(fn.Temps()) > 0 {
		g.funcBuf.WriteRune('\n')
	}

	for i, block := range fn.Blocks {
		var next string
		if i < len(fn.Blocks)-1 {
			next = fn.Blocks[i+1].Name
		}

		g.genBlock(block, next)
	}

	g.funcBuf.WriteString("}\n")
}
