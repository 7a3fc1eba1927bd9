package report

import (
	"errors"
	"testing"
)

func TestNewSpanOver(t *testing.T) {
	a := &TextSpan{Offset: 10, Length: 3, StartLine: 1, StartCol: 2, EndLine: 1, EndCol: 5}
	b := &TextSpan{Offset: 30, Length: 4, StartLine: 3, StartCol: 0, EndLine: 3, EndCol: 4}

	for _, got := range []*TextSpan{NewSpanOver(a, b), NewSpanOver(b, a)} {
		if got.Offset != 10 || got.Length != 24 {
			t.Errorf("span covers [%d, %d), want [10, 34)", got.Offset, got.Offset+got.Length)
		}

		if got.StartLine != 1 || got.EndLine != 3 || got.EndCol != 4 {
			t.Errorf("span lines %d..%d:%d, want 1..3:4", got.StartLine, got.EndLine, got.EndCol)
		}
	}

	inner := &TextSpan{Offset: 11, Length: 1, StartLine: 1, StartCol: 3, EndLine: 1, EndCol: 4}
	if got := NewSpanOver(a, inner); got.Offset != 10 || got.Length != 3 || got.EndCol != 5 {
		t.Errorf("span over contained span = %+v, want the outer span", got)
	}

	if NewSpanOver(nil, a) != a || NewSpanOver(a, nil) != a {
		t.Error("nil spans should be ignored")
	}
}

func TestCapture(t *testing.T) {
	err := Capture(func() {
		panic(Raise(ErrLifetime, nil, "reference to `%s` escapes", "x"))
	})

	if !IsKind(err, ErrLifetime) {
		t.Fatalf("Capture returned %v, want a lifetime violation", err)
	}

	var lce *LocalCompileError
	if !errors.As(err, &lce) || lce.Message != "reference to `x` escapes" {
		t.Errorf("unexpected captured error: %v", err)
	}

	if err := Capture(func() {}); err != nil {
		t.Errorf("Capture of a clean run returned %v", err)
	}
}

func TestCaptureDoesNotCatchInternalErrors(t *testing.T) {
	defer func() {
		x := recover()
		if _, ok := x.(*InternalError); !ok {
			t.Fatalf("recovered %v, want an internal error", x)
		}
	}()

	_ = Capture(func() {
		Invariant("block %s has no terminator", "b1")
	})

	t.Fatal("internal error was swallowed")
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("warn")
	if err != nil || lvl != LogLevelWarn {
		t.Errorf("ParseLogLevel(warn) = %d, %v", lvl, err)
	}

	if _, err := ParseLogLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
