package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"helixc/report"
	"helixc/util"

	"github.com/ComedicChimera/olive"
)

// Execute is the main entry point for the `helixc` CLI utility.  It returns
// the exit code of the process.
func Execute() int {
	// internal errors are displayed as such no matter where they occur
	defer func() {
		if x := recover(); x != nil {
			if ie, ok := x.(*report.InternalError); ok {
				report.ReportICE("%s", ie.Message)
			}

			panic(x)
		}
	}()

	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("helixc", "helixc is the compiler for Helix source files", true)
	cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})

	buildCmd := cli.AddSubcommand("build", "compile source code", true)
	buildCmd.AddPrimaryArg("path", "the path to the source file or project directory to build", true)
	buildCmd.AddSelectorArg("target", "t", "the kind of output to produce", false, []string{"c", "llvm", "ir", "yaml", "exe"})
	buildCmd.AddStringArg("output", "o", "the path to write output to (- for standard output)", false)
	buildCmd.AddFlag("no-simplify", "ns", "output the lowered program without simplifying it")

	checkCmd := cli.AddSubcommand("check", "check source code without producing output", true)
	checkCmd.AddPrimaryArg("path", "the path to the source file or project directory to check", true)

	cli.AddSubcommand("version", "print the Helix version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.InitReporter(report.LogLevelError)
		report.ReportFatal(err.Error())
	}

	logLevel, hasLogLevel := result.Arguments["loglevel"].(string)

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		return execBuildCommand(subResult, logLevel, hasLogLevel)
	case "check":
		return execCheckCommand(subResult, logLevel, hasLogLevel)
	case "version":
		fmt.Println(util.HelixCompilerID)
	}

	return 0
}

// execBuildCommand executes the build subcommand and handles all errors.
func execBuildCommand(result *olive.ArgParseResult, logLevel string, hasLogLevel bool) int {
	initLogLevel(logLevel, hasLogLevel)

	rootPath, _ := result.PrimaryArg()
	c, err := NewCompiler(rootPath)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	// command-line settings override the profile
	profile := c.Profile()
	if err := applyArguments(profile, result.Arguments); err != nil {
		report.ReportFatal(err.Error())
	}

	if result.HasFlag("no-simplify") {
		profile.Simplify = false
	}

	if !hasLogLevel {
		initProfileLogLevel(profile)
	}

	report.ReportCompileHeader(util.HelixCompilerID, TargetName(profile.Target), c.rootDir)

	outputPath := ""
	if c.Build() {
		outputPath = c.OutputPath()
	}

	// display the concluding message of compilation
	report.ReportCompilationFinished(outputPath)
	return exitCode()
}

// execCheckCommand executes the check subcommand and handles all errors.
func execCheckCommand(result *olive.ArgParseResult, logLevel string, hasLogLevel bool) int {
	initLogLevel(logLevel, hasLogLevel)

	rootPath, _ := result.PrimaryArg()
	c, err := NewCompiler(rootPath)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	if !hasLogLevel {
		initProfileLogLevel(c.Profile())
	}

	report.ReportCompileHeader(util.HelixCompilerID, "check", c.rootDir)
	c.Analyze()
	report.ReportCompilationFinished("")
	return exitCode()
}

// applyArguments overrides the settings of a profile with the arguments given
// on the command line.
func applyArguments(profile *BuildProfile, args map[string]interface{}) error {
	if targetName, ok := args["target"].(string); ok {
		target, err := ParseTarget(targetName)
		if err != nil {
			return err
		}

		profile.Target = target
	}

	if outputPath, ok := args["output"].(string); ok {
		if outputPath != "-" {
			// relative to the working directory rather than the project
			absPath, err := filepath.Abs(outputPath)
			if err != nil {
				return fmt.Errorf("invalid output path: %w", err)
			}

			outputPath = absPath
		}

		profile.OutputPath = outputPath
	}

	return nil
}

// -----------------------------------------------------------------------------

// Build runs every phase of compilation and writes the output.  It returns
// whether compilation succeeded.
func (c *Compiler) Build() bool {
	if !c.Analyze() {
		return false
	}

	if !c.runPhase("Lowering", func() error {
		c.Lower()
		return nil
	}) {
		return false
	}

	return c.runPhase("Generating", func() error {
		output, err := c.Emit()
		if err != nil {
			return err
		}

		return c.WriteOutput(output)
	})
}

// Analyze runs the analysis phases of compilation: parsing, checking, and
// flow analysis.  It returns whether the source is free of errors.
func (c *Compiler) Analyze() bool {
	if !c.runPhase("Parsing", c.Parse) || !c.runPhase("Checking", c.Check) || !c.runPhase("Analyzing flow", c.AnalyzeFlow) {
		return false
	}

	for _, trace := range c.traces {
		report.ReportInfo("flow", "%s", trace)
	}

	return true
}

// runPhase runs a single named phase of compilation.  Compile errors either
// returned or raised by the phase are reported.  It returns whether the phase
// succeeded.
func (c *Compiler) runPhase(name string, phase func() error) bool {
	report.BeginPhase(name)

	func() {
		defer report.CatchErrors(c.srcAbsPath, c.srcReprPath)

		if err := phase(); err != nil {
			c.reportError(err)
		}
	}()

	report.EndPhase()
	return !report.AnyErrors()
}

// reportError reports an error returned by a phase.
func (c *Compiler) reportError(err error) {
	var lce *report.LocalCompileError
	if errors.As(err, &lce) {
		report.ReportCompileError(c.srcAbsPath, c.srcReprPath, lce)
	} else {
		report.ReportStdError(c.srcReprPath, err)
	}
}

// -----------------------------------------------------------------------------

// initLogLevel initializes the reporter with the log level given on the
// command line.  When none was given, messages are displayed verbosely until
// the profile is loaded.
func initLogLevel(logLevel string, hasLogLevel bool) {
	if !hasLogLevel {
		report.InitReporter(report.LogLevelVerbose)
		return
	}

	lvl, err := report.ParseLogLevel(logLevel)
	if err != nil {
		report.InitReporter(report.LogLevelError)
		report.ReportFatal(err.Error())
	}

	report.InitReporter(lvl)
}

// initProfileLogLevel reinitializes the reporter with the log level of a
// profile.  Writing output to standard output silences the compilation
// messages which are not warnings or errors.
func initProfileLogLevel(profile *BuildProfile) {
	lvl := report.LogLevelVerbose
	if profile.LogLevel != "" {
		// the profile has already validated its log level
		lvl, _ = report.ParseLogLevel(profile.LogLevel)
	}

	if profile.OutputPath == "-" && lvl > report.LogLevelWarn {
		lvl = report.LogLevelWarn
	}

	report.InitReporter(lvl)
}

// exitCode returns the exit code of the process given the errors reported.
func exitCode() int {
	if report.AnyErrors() {
		return 1
	}

	return 0
}
