package generate

import (
	"fmt"
	"strings"

	"helixc/ir"
	"helixc/types"
)

// buildStart builds the C entry point of a program.  A program has an entry
// point when it defines a function `main` taking no parameters whose result
// is primitive: that result becomes the exit status of the process.
// Programs without one are libraries and get no entry point.
func buildStart(prog *ir.Program) string {
	for _, fn := range prog.Funcs {
		if fn.Signature.Path.String() != "main" || len(fn.Params) > 0 {
			continue
		}

		rt := fn.ReturnType()
		if !types.IsVoid(rt) && !types.IsWordLike(rt) && !types.IsBoolLike(rt) {
			continue
		}

		sb := strings.Builder{}
		sb.WriteString("int main(void) {\n")

		if types.IsVoid(rt) {
			fmt.Fprintf(&sb, "    %s();\n    return 0;\n", funcName(fn.Signature))
		} else {
			fmt.Fprintf(&sb, "    return (int)%s();\n", funcName(fn.Signature))
		}

		sb.WriteString("}\n")
		return sb.String()
	}

	return ""
}
