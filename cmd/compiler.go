// Package cmd is the top-level "driver" package for the Helix compiler: it
// contains all the functionality for parsing command-line arguments, loading
// project profiles, and running all the various phases of the compiler.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"helixc/ast"
	"helixc/common"
	"helixc/flow"
	"helixc/generate"
	"helixc/hir"
	"helixc/ir"
	"helixc/llgen"
	"helixc/lower"
	"helixc/report"
	"helixc/syntax"
	"helixc/walk"
)

// Compiler represents the overall state and configuration of compilation.
type Compiler struct {
	// The absolute path to the project directory.
	rootDir string

	// The absolute path to the source file being compiled.
	srcAbsPath string

	// The path to the source file displayed in messages.
	srcReprPath string

	// The profile of this compilation.
	profile *BuildProfile

	// The file being compiled.
	file *ast.File

	// The checked program.  This is nil until analysis succeeds.
	prog *hir.Program

	// The loop traces of every function produced by flow analysis.
	traces []*flow.Trace

	// The lowered program.  This is nil until lowering succeeds.
	lowered *ir.Program
}

// NewCompiler creates a new compiler for the project or source file at
// rootPath.  If rootPath is a directory, the profile in it selects the source
// file to compile.
func NewCompiler(rootPath string) (*Compiler, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("error calculating absolute path: %w", err)
	}

	finfo, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("error loading root path: %w", err)
	}

	c := &Compiler{}
	if finfo.IsDir() {
		c.rootDir = absPath
		if c.profile, err = LoadProfile(absPath, "main"); err != nil {
			return nil, err
		}

		c.srcAbsPath = filepath.Join(absPath, c.profile.Source)
	} else {
		if filepath.Ext(absPath) != common.HelixFileExt {
			return nil, fmt.Errorf("`%s` is not a Helix source file", rootPath)
		}

		c.rootDir = filepath.Dir(absPath)
		c.srcAbsPath = absPath

		// a profile next to the file configures the build but never selects
		// another source
		name := strings.TrimSuffix(filepath.Base(absPath), common.HelixFileExt)
		if c.profile, err = LoadProfile(c.rootDir, name); err != nil {
			return nil, err
		}

		c.profile.Source = filepath.Base(absPath)
	}

	c.srcReprPath = c.profile.Source
	return c, nil
}

// Profile returns the build profile of the compiler.  Changes to it take
// effect for the phases which have not run yet.
func (c *Compiler) Profile() *BuildProfile {
	return c.profile
}

// OutputPath returns the path output is written to.
func (c *Compiler) OutputPath() string {
	return c.profile.outputPathFor(c.rootDir)
}

// -----------------------------------------------------------------------------

// Parse parses the source file.
func (c *Compiler) Parse() error {
	f, err := os.Open(c.srcAbsPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	c.file = &ast.File{AbsPath: c.srcAbsPath, ReprPath: c.srcReprPath}
	return syntax.Parse(c.file, f)
}

// Check resolves, type checks and narrows the declarations of the parsed file.
func (c *Compiler) Check() error {
	prog, err := walk.WalkFile(c.file)
	if err != nil {
		return err
	}

	c.prog = prog
	return nil
}

// AnalyzeFlow checks the lifetimes of references in every function of the
// checked program.
func (c *Compiler) AnalyzeFlow() error {
	traces, err := flow.Analyze(c.prog)
	if err != nil {
		return err
	}

	c.traces = traces
	return nil
}

// Lower lowers the checked program to IR and simplifies it if the profile
// asks for it.  The result is verified: malformed IR is an internal error.
func (c *Compiler) Lower() {
	c.lowered = lower.Lower(c.prog)

	if c.profile.Simplify {
		ir.SimplifyProgram(c.lowered)
	}

	if err := ir.VerifyProgram(c.lowered); err != nil {
		report.Invariant("lowering produced malformed IR: %s", err)
	}
}

// Emit renders the lowered program in the output format of the target.  The
// executable target is rendered as C.
func (c *Compiler) Emit() ([]byte, error) {
	switch c.profile.Target {
	case TargetC, TargetExe:
		return []byte(generate.Generate(c.lowered)), nil
	case TargetLLVM:
		return []byte(llgen.Generate(c.lowered).String()), nil
	case TargetIR:
		return []byte(c.lowered.Repr()), nil
	case TargetYAML:
		return ir.DumpYAML(c.lowered)
	}

	report.Invariant("unknown target %d", c.profile.Target)
	return nil, nil
}

// WriteOutput writes the generated output to the output path.  Executables
// are built from the output by the C compiler.
func (c *Compiler) WriteOutput(output []byte) error {
	outputPath := c.OutputPath()

	if c.profile.Target == TargetExe {
		return c.linkExecutable(output, outputPath)
	}

	if outputPath == "-" {
		_, err := os.Stdout.Write(output)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outputPath, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
