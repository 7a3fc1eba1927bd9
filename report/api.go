package report

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
)

// ReportICE reports an internal compiler error.  These are errors that
// specifically result for a bug or unexpected condition occurring with the
// compiler: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.stopSpinner(false)
	displayICE(fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause all
// compilation to stop immediately.  However, they are expected errors that
// generally result from invalid configuration of some form: a missing source
// directory, an unreadable profile, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		rep.stopSpinner(false)
		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportCompileError reports a compilation error: ie. erroneous input code. The
// absPath is the absolute path to the erroneous source file. The reprPath is
// the representative path to the erroneous source file.
func ReportCompileError(absPath, reprPath string, cerr *LocalCompileError) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.isErr = true

	if rep.logLevel > LogLevelSilent {
		rep.stopSpinner(false)
		displayCompileMessage(KindLabel(cerr.Kind), true, absPath, reprPath, cerr.Span, cerr.Message)
	}
}

// ReportCompileWarning reports a compilation warning.  The span may be nil in
// which case no position information will be printed.
func ReportCompileWarning(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warnCount++

	if rep.logLevel > LogLevelError {
		displayCompileMessage("warning", false, absPath, reprPath, span, fmt.Sprintf(message, args...))
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(reprPath string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.isErr = true

	if rep.logLevel > LogLevelSilent {
		rep.stopSpinner(false)
		displayStdError(reprPath, err)
	}
}

// -----------------------------------------------------------------------------

// AnyErrors returns whether or not any errors were detected.
func AnyErrors() bool {
	return rep.isErr
}

// WarningCount returns the number of warnings reported so far.
func WarningCount() int {
	return rep.warnCount
}

// -----------------------------------------------------------------------------
// Below are all the "aesthetic" reporting functions that will only run if the
// log level is set to verbose.

// ReportCompileHeader displays the pre-compilation header: the compiler
// version, the selected target and the root path.
func ReportCompileHeader(compilerID, target, rootPath string) {
	if rep.logLevel == LogLevelVerbose {
		displayCompileHeader(compilerID, target, rootPath)
	}
}

// BeginPhase starts a named compilation phase: in verbose mode, a spinner is
// shown until the phase ends.
func BeginPhase(name string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.phaseName = name
	rep.phaseStart = time.Now()

	if rep.logLevel == LogLevelVerbose {
		spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(false).Start(name)
		if err == nil {
			rep.spinner = spinner
		}
	}
}

// EndPhase concludes the current phase.  The spinner is marked as failed if
// any error was reported during the phase.
func EndPhase() {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.stopSpinner(!rep.isErr)
}

// ReportInfo displays an informational message labeled with label.  Info
// messages are only shown in verbose mode.
func ReportInfo(label, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		displayInfo(label, fmt.Sprintf(message, args...))
	}
}

// ReportCompilationFinished displays the concluding message for compilation.
func ReportCompilationFinished(outputPath string) {
	if rep.logLevel == LogLevelVerbose {
		displayCompilationFinished(!rep.isErr, outputPath, rep.warnCount, time.Since(rep.startTime))
	}
}

// stopSpinner stops the phase spinner if one is running.  The caller must
// hold the reporter's lock.
func (r *Reporter) stopSpinner(success bool) {
	if r.spinner == nil {
		return
	}

	elapsed := time.Since(r.phaseStart)
	if success {
		r.spinner.Success(fmt.Sprintf("%s (%.3fs)", r.phaseName, elapsed.Seconds()))
	} else {
		r.spinner.Fail(fmt.Sprintf("%s (%.3fs)", r.phaseName, elapsed.Seconds()))
	}

	r.spinner = nil
}
