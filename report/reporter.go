package report

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.  The reporter respects the set
// log level and is synchronized: its methods can be safely called from multiple
// goroutines.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// Indicates whether or not an error has been detected.
	isErr bool

	// The number of warnings reported so far.
	warnCount int

	// The time at which compilation started.
	startTime time.Time

	// The spinner for the phase currently running.  This is nil if no phase
	// is running or the log level is below verbose.
	spinner *pterm.SpinnerPrinter

	// The name and start time of the phase currently running.
	phaseName  string
	phaseStart time.Time
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// logLevelNames maps the command-line names of log levels to their values.
var logLevelNames = map[string]int{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"warn":    LogLevelWarn,
	"verbose": LogLevelVerbose,
}

// ParseLogLevel converts a log level name into its enumerated value.
func ParseLogLevel(name string) (int, error) {
	if lvl, ok := logLevelNames[name]; ok {
		return lvl, nil
	}

	return 0, fmt.Errorf("unknown log level: `%s`", name)
}

// rep is the global reporter instance.  It starts out silent so that the
// compiler stages can be used as a library without any output.
var rep = newReporter(LogLevelSilent)

// newReporter creates a new reporter with the given log level.
func newReporter(logLevel int) *Reporter {
	return &Reporter{
		m:         &sync.Mutex{},
		logLevel:  logLevel,
		startTime: time.Now(),
	}
}

// InitReporter initializes the global error reporter to the given log level.
// Any previous reporter state is discarded.  Terminal styling is turned off
// when standard output is not a terminal.
func InitReporter(logLevel int) {
	rep = newReporter(logLevel)

	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		pterm.DisableStyling()
	}
}

// LogLevel returns the log level of the global reporter.
func LogLevel() int {
	return rep.logLevel
}
