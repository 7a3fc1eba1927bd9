package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"helixc/common"
	"helixc/report"
	"helixc/util"

	"github.com/pelletier/go-toml"
)

// BuildProfile represents the current build profile.
type BuildProfile struct {
	// The name of the project.  This is also the default base name of the
	// source file and the output.
	Name string

	// The source file to compile relative to the project directory.
	Source string

	// Target should be one of the enumerated targets.
	Target int

	// The path to write output to.  "-" writes to standard output.
	OutputPath string

	// Whether lowered programs are simplified before output is generated.
	Simplify bool

	// The log level named in the profile.  This is empty if none was given.
	LogLevel string

	// The C compiler used to build executables.
	CC string

	// Additional arguments to pass to the C compiler.
	CFlags []string
}

// Enumeration of possible targets.
const (
	TargetC    = iota // C99 source text.
	TargetLLVM        // LLVM IR text.
	TargetIR          // The textual listing of the lowered program.
	TargetYAML        // The lowered program as YAML.
	TargetExe         // An executable linked by the C compiler.
)

// targetNames maps the names of targets to their values.
var targetNames = map[string]int{
	"c":    TargetC,
	"llvm": TargetLLVM,
	"ir":   TargetIR,
	"yaml": TargetYAML,
	"exe":  TargetExe,
}

// targetExts stores the default output extension of each target.
var targetExts = map[int]string{
	TargetC:    ".c",
	TargetLLVM: ".ll",
	TargetIR:   ".ir",
	TargetYAML: ".yaml",
	TargetExe:  "",
}

// ParseTarget converts a target name into its enumerated value.
func ParseTarget(name string) (int, error) {
	if target, ok := targetNames[name]; ok {
		return target, nil
	}

	return 0, fmt.Errorf("unknown target: `%s` (expected one of %s)", name, strings.Join(util.SortedKeys(targetNames), ", "))
}

// TargetName returns the name of a target.
func TargetName(target int) string {
	for name, value := range targetNames {
		if value == target {
			return name
		}
	}

	report.Invariant("unknown target %d", target)
	return ""
}

// DefaultProfile returns the profile used for a project with no profile file.
// name is the base name of the source file without its extension.
func DefaultProfile(name string) *BuildProfile {
	return &BuildProfile{
		Name:     name,
		Source:   name + common.HelixFileExt,
		Target:   TargetC,
		Simplify: true,
		CC:       "cc",
	}
}

// -----------------------------------------------------------------------------

// tomlProfileFile represents the profile file as it is encoded in TOML.
type tomlProfileFile struct {
	Name   string     `toml:"name"`
	Source string     `toml:"source,omitempty"`
	Build  *tomlBuild `toml:"build"`
}

// tomlBuild represents the build settings of a profile as encoded in TOML.
// Pointers distinguish omitted settings from zero values.
type tomlBuild struct {
	Target   string   `toml:"target"`
	Output   string   `toml:"output"`
	Simplify *bool    `toml:"simplify"`
	LogLevel string   `toml:"loglevel"`
	CC       string   `toml:"cc"`
	CFlags   []string `toml:"cflags,omitempty"`
}

// LoadProfile loads the profile of the project in the directory dir.  If dir
// contains no profile file, the default profile for name is returned.
func LoadProfile(dir, name string) (*BuildProfile, error) {
	profile := DefaultProfile(name)

	buff, err := os.ReadFile(filepath.Join(dir, common.ProfileFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return profile, nil
		}

		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	if err := decodeProfile(buff, profile); err != nil {
		return nil, fmt.Errorf("%s: %w", common.ProfileFileName, err)
	}

	return profile, nil
}

// decodeProfile decodes the contents of a profile file into profile.  Only the
// settings present in the file are overwritten.
func decodeProfile(buff []byte, profile *BuildProfile) error {
	tpf := &tomlProfileFile{}
	if err := toml.Unmarshal(buff, tpf); err != nil {
		return err
	}

	if tpf.Name != "" {
		if !isValidName(tpf.Name) {
			return fmt.Errorf("`%s` is not a valid project name", tpf.Name)
		}

		profile.Name = tpf.Name
		profile.Source = tpf.Name + common.HelixFileExt
	}

	if tpf.Source != "" {
		profile.Source = tpf.Source
	}

	if tpf.Build == nil {
		return nil
	}

	if tpf.Build.Target != "" {
		target, err := ParseTarget(tpf.Build.Target)
		if err != nil {
			return err
		}

		profile.Target = target
	}

	if tpf.Build.LogLevel != "" {
		if _, err := report.ParseLogLevel(tpf.Build.LogLevel); err != nil {
			return err
		}

		profile.LogLevel = tpf.Build.LogLevel
	}

	if tpf.Build.Simplify != nil {
		profile.Simplify = *tpf.Build.Simplify
	}

	if tpf.Build.CC != "" {
		profile.CC = tpf.Build.CC
	}

	profile.OutputPath = tpf.Build.Output
	profile.CFlags = tpf.Build.CFlags
	return nil
}

// isValidName returns whether name can name a project: it may only contain
// letters, digits, underscores and dashes.
func isValidName(name string) bool {
	return strings.IndexFunc(name, func(r rune) bool {
		return !(r == '_' || r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}) == -1
}

// outputPathFor returns the path output is written to when the profile names
// none: the source file with the extension of the target.
func (bp *BuildProfile) outputPathFor(dir string) string {
	if bp.OutputPath != "" {
		if bp.OutputPath == "-" || filepath.IsAbs(bp.OutputPath) {
			return bp.OutputPath
		}

		return filepath.Join(dir, bp.OutputPath)
	}

	base := strings.TrimSuffix(filepath.Base(bp.Source), common.HelixFileExt)
	return filepath.Join(dir, base+targetExts[bp.Target])
}
