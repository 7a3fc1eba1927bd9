// Package generate renders lowered programs as C99 source text.
package generate

import (
	"fmt"
	"strings"

	"helixc/common"
	"helixc/ir"
	"helixc/types"
)

// prelude is written at the top of every generated file.  Words are 64-bit
// signed integers and bools are words holding 0 or 1.  Division helpers
// match the wrapping arithmetic of the language: `min / -1` is `min` and
// `min % -1` is zero.
const prelude = `#include <stdint.h>
#include <stdlib.h>

typedef int64_t _Word;

static inline _Word _hx_div(_Word a, _Word b) {
    return b == -1 ? (_Word)(0 - (uint64_t)a) : a / b;
}

static inline _Word _hx_mod(_Word a, _Word b) {
    return b == -1 ? 0 : a % b;
}

static inline _Word _hx_bound(_Word index, _Word count) {
    if (index < 0 || index >= count) {
        abort();
    }

    return index;
}
`

// Generator is responsible for converting a lowered program into C.  The
// output is accumulated into several sections which are concatenated at the
// end so that every name is declared before it is used.
type Generator struct {
	// The declarations of the program being generated.
	decls *types.DeclTable

	// The typedefs forward declaring every struct.
	forwardBuf strings.Builder

	// The definitions of the array structs in the order they are first used.
	// These only hold pointers and so only depend on the forward typedefs.
	arrayBuf strings.Builder

	// The definitions of the nominal structs and unions.
	typeBuf strings.Builder

	// The prototypes of all functions.
	protoBuf strings.Builder

	// The function definitions.
	funcBuf strings.Builder

	// The names of the array structs that have already been declared.
	arrayNames map[string]struct{}

	// visited stores the nominal declarations that have already been
	// generated or are in the process of being generated.  The value is true
	// while the declaration is in progress and false once it is done.
	visited map[common.IdentifierPath]bool

	// The function whose body is being generated.
	fn *ir.Func

	// The predecessors of each block of the current function.
	preds map[string][]string
}

// NewGenerator creates a new generator for a program with the given
// declarations.
func NewGenerator(decls *types.DeclTable) *Generator {
	return &Generator{
		decls:      decls,
		arrayNames: make(map[string]struct{}),
		visited:    make(map[common.IdentifierPath]bool),
	}
}

// Generate converts a program into a complete C translation unit.  The
// program is assumed to be well-formed: generation never fails.
func Generate(prog *ir.Program) string {
	g := NewGenerator(prog.Decls)

	// forward declare all the aggregates so pointers to them can be used
	// anywhere
	for _, sig := range prog.Decls.Nominals() {
		g.forwardDecl(sig.Type.CName())
	}

	for _, sig := range prog.Decls.Nominals() {
		g.visitNominal(sig)
	}

	for _, sig := range prog.Externs() {
		g.genPrototype(sig)
	}

	for _, fn := range prog.Funcs {
		g.genPrototype(fn.Signature)
	}

	for _, fn := range prog.Funcs {
		g.genFunc(fn)
	}

	return g.assemble(buildStart(prog))
}

// assemble concatenates the sections of the output.
func (g *Generator) assemble(start string) string {
	sb := strings.Builder{}
	sb.WriteString("// generated by helixc\n\n")
	sb.WriteString(prelude)

	for _, section := range []*strings.Builder{&g.forwardBuf, &g.arrayBuf, &g.typeBuf, &g.protoBuf} {
		if section.Len() > 0 {
			sb.WriteRune('\n')
			sb.WriteString(section.String())
		}
	}

	if g.funcBuf.Len() > 0 {
		sb.WriteString(g.funcBuf.String())
	}

	if start != "" {
		sb.WriteRune('\n')
		sb.WriteString(start)
	}

	return sb.String()
}

// -----------------------------------------------------------------------------

// forwardDecl writes the typedef of a struct named name.
func (g *Generator) forwardDecl(name string) {
	fmt.Fprintf(&g.forwardBuf, "typedef struct %s %s;\n", name, name)
}

// line writes a single indented line of a function body.
func (g *Generator) line(format string, args ...interface{}) {
	g.funcBuf.WriteString("    ")
	fmt.Fprintf(&g.funcBuf, format, args...)
	g.funcBuf.WriteRune('\n')
}
