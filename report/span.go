package report

import "fmt"

// TextSpan represents a range or "span" of source text.  It is used to
// specify erroneous or otherwise significant source text in a Helix program.
// Line and column numbers are zero-indexed; the end column is one past the
// last character of the span.
type TextSpan struct {
	// The byte offset of the first character of the span.
	Offset int

	// The number of bytes covered by the span.
	Length int

	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns the smallest text span covering both of the given
// spans.  The result starts at whichever span starts first (and thus takes
// its line) and ends wherever the later of the two ends.  Either span may be
// nil, in which case the other is returned.
func NewSpanOver(a, b *TextSpan) *TextSpan {
	if a == nil {
		return b
	} else if b == nil {
		return a
	}

	first, last := a, b
	if b.Offset < a.Offset {
		first, last = b, a
	}

	span := &TextSpan{
		Offset:    first.Offset,
		StartLine: first.StartLine,
		StartCol:  first.StartCol,
		EndLine:   last.EndLine,
		EndCol:    last.EndCol,
	}

	end := last.Offset + last.Length
	if firstEnd := first.Offset + first.Length; firstEnd > end {
		end = firstEnd
		span.EndLine = first.EndLine
		span.EndCol = first.EndCol
	}

	span.Length = end - span.Offset
	return span
}

// Line returns the one-indexed line number the span starts on.
func (ts *TextSpan) Line() int {
	return ts.StartLine + 1
}

func (ts *TextSpan) String() string {
	return fmt.Sprintf("%d:%d", ts.StartLine+1, ts.StartCol+1)
}
