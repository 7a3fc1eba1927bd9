package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// linkExecutable builds an executable at outputPath from the generated C
// source.  The source is written to a temporary file which is removed once
// the C compiler finishes.
func (c *Compiler) linkExecutable(source []byte, outputPath string) error {
	if outputPath == "-" {
		return errors.New("an executable cannot be written to standard output")
	}

	if runtime.GOOS == "windows" && !strings.HasSuffix(outputPath, ".exe") {
		outputPath += ".exe"
	}

	tmp, err := os.CreateTemp("", "helixc-*.c")
	if err != nil {
		return fmt.Errorf("failed to create C source file: %w", err)
	}

	// Remove the C source afterwards: avoid making a mess in the user's
	// temporary directory.
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(source); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write C source file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write C source file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Run the C compiler.
	out, err := c.linkCommand(tmp.Name(), outputPath).CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// We were able to find the C compiler, but there were errors.  We
			// can just output those to the user.
			return fmt.Errorf("link error:\n%s", out)
		}

		// Some other error: probably couldn't find the C compiler.
		return fmt.Errorf("failed to run C compiler: %w", err)
	}

	return nil
}

// linkCommand returns the command compiling the C source at srcPath into an
// executable at outputPath.
func (c *Compiler) linkCommand(srcPath, outputPath string) *exec.Cmd {
	args := []string{"-std=c99", "-O2"}
	args = append(args, c.profile.CFlags...)
	args = append(args, "-o", outputPath, srcPath)

	return exec.Command(c.profile.CC, args...)
}
