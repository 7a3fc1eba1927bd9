package report

import (
	"errors"
	"fmt"
)

// Enumeration of the kinds of user-facing compile errors.
const (
	ErrLexical = iota
	ErrSyntax
	ErrTypeMismatch
	ErrUndefinedName
	ErrLifetime
	ErrUsage
)

// kindLabels maps each error kind to the label it is displayed with.
var kindLabels = [...]string{
	ErrLexical:       "lexical error",
	ErrSyntax:        "syntax error",
	ErrTypeMismatch:  "type mismatch",
	ErrUndefinedName: "undefined name",
	ErrLifetime:      "lifetime violation",
	ErrUsage:         "error",
}

// KindLabel returns the display label of the given error kind.
func KindLabel(kind int) string {
	if 0 <= kind && kind < len(kindLabels) {
		return kindLabels[kind]
	}

	return "error"
}

// -----------------------------------------------------------------------------

// LocalCompileError is a compilation error that occurs in a context in which
// the file is known by the error handler and thus doesn't need to be passed
// along with the error.
type LocalCompileError struct {
	// The kind of the error.  This must be one of the enumerated error kinds.
	Kind int

	// The error message.
	Message string

	// The span over which the error occurs.  This may be nil.
	Span *TextSpan
}

func (lce *LocalCompileError) Error() string {
	if lce.Span == nil {
		return fmt.Sprintf("%s: %s", KindLabel(lce.Kind), lce.Message)
	}

	return fmt.Sprintf("%s: %s: %s", lce.Span, KindLabel(lce.Kind), lce.Message)
}

// Raise creates a new local compile error of the given kind.  It is meant to
// be used as the argument to `panic`.
func Raise(kind int, span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Kind: kind, Message: fmt.Sprintf(msg, args...), Span: span}
}

// IsKind returns whether err is a local compile error of the given kind.
func IsKind(err error, kind int) bool {
	var lce *LocalCompileError
	if errors.As(err, &lce) {
		return lce.Kind == kind
	}

	return false
}

// -----------------------------------------------------------------------------

// InternalError is raised when the compiler reaches a state that checked
// input can never produce: it indicates a bug in the compiler itself.  No
// error handler ever reports it as an ordinary diagnostic.
type InternalError struct {
	Message string
}

func (ie *InternalError) Error() string {
	return "internal compiler error: " + ie.Message
}

// Invariant aborts compilation with an internal error.
func Invariant(msg string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(msg, args...)})
}

// -----------------------------------------------------------------------------

// CatchErrors catches any errors thrown by a `panic` during a stage of
// compilation and reports them.  Internal errors are never caught: they keep
// unwinding so that the driver can display them as such.
// NB: This function must ALWAYS be deferred.
func CatchErrors(absPath, reprPath string) {
	if x := recover(); x != nil {
		switch v := x.(type) {
		case *InternalError:
			panic(v)
		case *LocalCompileError:
			ReportCompileError(absPath, reprPath, v)
		case error:
			ReportStdError(reprPath, v)
		default:
			panic(x)
		}
	}
}

// Capture runs f and returns the first compile error it raises, if any.  This
// is the non-reporting counterpart of CatchErrors used by library entry
// points and tests.  Internal errors propagate.
func Capture(f func()) (err error) {
	defer func() {
		if x := recover(); x != nil {
			if lce, ok := x.(*LocalCompileError); ok {
				err = lce
				return
			}

			panic(x)
		}
	}()

	f()
	return nil
}
