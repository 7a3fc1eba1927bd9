package flow

import (
	"fmt"
	"strings"

	"helixc/hir"
	"helixc/report"
)

// Trace records how the analysis of one function proceeded.
type Trace struct {
	// The name of the function.
	Func string

	// The loops of the function in the order their analysis completed.
	Loops []*LoopTrace

	// The index of each loop in Loops.
	loopIndex map[hir.Node]int
}

// LoopTrace records the fixed point analysis of one loop.
type LoopTrace struct {
	// The span of the loop.
	Span *report.TextSpan

	// The number of times the body was analyzed during the last analysis of
	// the loop.
	Iterations int

	// The aliasing state immediately after the loop.
	Exit *AliasingTracker
}

func newTrace(fn string) *Trace {
	return &Trace{Func: fn, loopIndex: make(map[hir.Node]int)}
}

// recordLoop records the completed analysis of loop.  Loops nested in other
// loops are analyzed many times: only the last analysis is kept.
func (t *Trace) recordLoop(loop hir.Node, iterations int, exit *AliasingTracker) {
	lt := &LoopTrace{Span: loop.Span(), Iterations: iterations, Exit: exit}

	if i, ok := t.loopIndex[loop]; ok {
		t.Loops[i] = lt
	} else {
		t.loopIndex[loop] = len(t.Loops)
		t.Loops = append(t.Loops, lt)
	}
}

func (t *Trace) String() string {
	sb := strings.Builder{}
	sb.WriteString(t.Func)

	if len(t.Loops) == 0 {
		sb.WriteString(": no loops")
	}

	for _, lt := range t.Loops {
		fmt.Fprintf(&sb, "\n  loop at %s: fixed point after %d iteration(s)", lt.Span, lt.Iterations)
	}

	return sb.String()
}
