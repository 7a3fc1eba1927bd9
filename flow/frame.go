package flow

import "helixc/types"

// ControlFlowFrame is the control flow state of the function or loop being
// analyzed.  A new frame is created for every loop and discarded once the
// loop has been analyzed.
type ControlFlowFrame struct {
	// The return type of the enclosing function.
	ReturnType types.Type

	// Whether the frame belongs to a loop.
	IsInsideLoop bool

	// The trackers valid immediately after the loop exits: one for each
	// `break` and one for the natural exit through the loop condition.
	LoopAppendixAliases []*AliasingTracker

	// The trackers valid before the next iteration: one for each `continue`
	// and one for the end of the body.
	ContinueAliases []*AliasingTracker

	// The enclosing frame.  This is nil for the function frame.
	parent *ControlFlowFrame
}

// newFunctionFrame creates the frame of a function body.
func newFunctionFrame(returnType types.Type) *ControlFlowFrame {
	return &ControlFlowFrame{ReturnType: returnType}
}

// newLoopFrame creates the frame of a loop nested inside frame.
func (cff *ControlFlowFrame) newLoopFrame() *ControlFlowFrame {
	return &ControlFlowFrame{
		ReturnType:   cff.ReturnType,
		IsInsideLoop: true,
		parent:       cff,
	}
}

// mergeAll merges a non-empty list of trackers.
func mergeAll(trackers []*AliasingTracker) *AliasingTracker {
	merged := trackers[0]
	for _, at := range trackers[1:] {
		merged = merged.MergeWith(at)
	}

	return merged
}
