package generate

import (
	"helixc/ir"
	"helixc/report"
)

// genTerminal generates the terminal op of a block.  next is the name of the
// block written after it: a jump to it is left implicit.
func (g *Generator) genTerminal(term ir.TerminalOp, next string) {
	switch v := term.(type) {
	case *ir.JumpOp:
		if v.Target != next {
			g.line("goto %s;", labelName(v.Target))
		}
	case *ir.BranchOp:
		g.line("if (%s) goto %s;", g.value(v.Cond), labelName(v.Then))

		if v.Else != next {
			g.line("goto %s;", labelName(v.Else))
		}
	case *ir.ReturnOp:
		if v.Value == nil {
			g.line("return;")
		} else {
			g.line("return %s;", g.value(v.Value))
		}
	default:
		report.Invariant("no C for terminal op `%s`", term.Repr())
	}
}
