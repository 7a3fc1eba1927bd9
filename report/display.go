package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	successColorFG = pterm.FgLightGreen
	warnColorFG    = pterm.FgYellow
	warnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorColorFG   = pterm.FgRed
	errorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	infoColorFG    = pterm.FgLightBlue
)

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	errorStyleBG.Print("internal compiler error")
	fmt.Println(" " + message)
	fmt.Print("This error was not supposed to happen: it indicates a bug in the compiler.\n\n")
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	errorStyleBG.Print("fatal error")
	fmt.Print(" ", message, "\n\n")
}

// displayCompileMessage displays a compilation error or warning.  The label is
// the string to prefix the message with: eg. if we want to display a type
// error, the label is "type mismatch".
func displayCompileMessage(label string, isError bool, absPath, reprPath string, span *TextSpan, message string) {
	if span == nil {
		fmt.Printf("%s: ", reprPath)
	} else {
		fmt.Printf("%s:%d:%d: ", reprPath, span.StartLine+1, span.StartCol+1)
	}

	if isError {
		errorStyleBG.Print(label)
	} else {
		warnStyleBG.Print(label)
	}

	fmt.Print(": ", message, "\n\n")

	if span != nil && absPath != "" {
		displaySourceText(absPath, span, isError)
	}
}

// displayStdError displays a standard Go error.
func displayStdError(reprPath string, err error) {
	fmt.Printf("%s: ", reprPath)
	errorStyleBG.Print("error")
	fmt.Print(" ", err, "\n\n")
}

// displayCompileHeader displays the compilation header.
func displayCompileHeader(compilerID, target, rootPath string) {
	infoColorFG.Print(compilerID)
	fmt.Print(" | target: ")
	successColorFG.Print(target)
	fmt.Print(" | root: ", rootPath, "\n\n")
}

// displayInfo displays a labeled informational message.
func displayInfo(label, message string) {
	infoColorFG.Print(label)
	fmt.Print(": ", message, "\n")
}

// displayCompilationFinished displays the closing banner of compilation.
func displayCompilationFinished(success bool, outputPath string, warnCount int, elapsed time.Duration) {
	width := pterm.GetTerminalWidth() / 2
	if width > 50 || width <= 0 {
		width = 50
	}

	fmt.Println(strings.Repeat("-", width))
	if success {
		successColorFG.Printf("compilation succeeded in %.3fs", elapsed.Seconds())
		if outputPath != "" {
			fmt.Print(": wrote ", outputPath)
		}
	} else {
		errorColorFG.Printf("compilation failed after %.3fs", elapsed.Seconds())
	}

	if warnCount > 0 {
		warnColorFG.Printf(" (%d warning(s))", warnCount)
	}

	fmt.Print("\n\n")
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
func displaySourceText(absPath string, span *TextSpan, isError bool) {
	// Open the file so we can read the desired source text.  Reporting must
	// never itself fail compilation, so an unreadable file just means no
	// excerpt.
	file, err := os.Open(absPath)
	if err != nil {
		return
	}
	defer file.Close()

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if sc.Err() != nil || len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt
	for _, line := range lines {
		lineIndent := len(line) - len(strings.TrimLeft(line, " "))
		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	caretColor := errorColorFG
	if !isError {
		caretColor = warnColorFG
	}

	for i, line := range lines {
		infoColorFG.Printf(lineNumFmtStr, i+span.StartLine+1)
		fmt.Println(line[minIndent:])

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		// Underlining begins at the start column on the first line and at the
		// (trimmed) beginning of every line after it.
		carretPrefixCount := 0
		if i == 0 {
			carretPrefixCount = clamp(span.StartCol-minIndent, 0, len(line)-minIndent)
		}

		// Underlining stops at the end column on the last line and runs to
		// the end of the line on every line before it.
		lineEnd := len(line) - minIndent
		if i == len(lines)-1 {
			lineEnd = clamp(span.EndCol-minIndent, carretPrefixCount, lineEnd)
		}

		carretCount := lineEnd - carretPrefixCount
		if carretCount < 1 {
			carretCount = 1
		}

		fmt.Print(strings.Repeat(" ", carretPrefixCount))
		caretColor.Println(strings.Repeat("^", carretCount))
	}

	fmt.Println()
}

// clamp limits n to the range [lo, hi].
func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	} else if n > hi {
		return hi
	}

	return n
}
