package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"helixc/report"

	"github.com/sirkon/deepequal"
	"gopkg.in/yaml.v3"
)

// pipelineCase is a single case of testdata/pipeline.yaml.
type pipelineCase struct {
	Name     string   `yaml:"name"`
	Target   string   `yaml:"target"`
	Source   string   `yaml:"source"`
	Contains []string `yaml:"contains"`
	Error    string   `yaml:"error"`
}

// writeProject creates a project directory holding the given files.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	return dir
}

// firstError runs the analysis phases and returns the first error.
func firstError(c *Compiler) error {
	if err := c.Parse(); err != nil {
		return err
	}

	if err := c.Check(); err != nil {
		return err
	}

	return c.AnalyzeFlow()
}

// -----------------------------------------------------------------------------

func TestPipeline(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "pipeline.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	var cases []pipelineCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		t.Fatal(err)
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			report.InitReporter(report.LogLevelSilent)

			dir := writeProject(t, map[string]string{"main.helix": tc.Source})
			c, err := NewCompiler(filepath.Join(dir, "main.helix"))
			if err != nil {
				t.Fatal(err)
			}

			if tc.Error != "" {
				err := firstError(c)

				var lce *report.LocalCompileError
				if !errors.As(err, &lce) {
					t.Fatalf("expected a %s but got %v", tc.Error, err)
				}

				if label := report.KindLabel(lce.Kind); label != tc.Error {
					t.Errorf("expected a %s but got a %s: %s", tc.Error, label, lce.Message)
				}

				return
			}

			if c.Profile().Target, err = ParseTarget(tc.Target); err != nil {
				t.Fatal(err)
			}

			if !c.Build() {
				t.Fatalf("compilation failed")
			}

			output, err := os.ReadFile(c.OutputPath())
			if err != nil {
				t.Fatal(err)
			}

			for _, fragment := range tc.Contains {
				if !strings.Contains(string(output), fragment) {
					t.Errorf("output is missing `%s`:\n%s", fragment, output)
				}
			}
		})
	}
}

func TestBuildReportsErrors(t *testing.T) {
	report.InitReporter(report.LogLevelSilent)

	dir := writeProject(t, map[string]string{"main.helix": `func f() as word => true;`})
	c, err := NewCompiler(dir)
	if err != nil {
		t.Fatal(err)
	}

	if c.Build() {
		t.Fatal("compilation of an ill-typed program succeeded")
	}

	if !report.AnyErrors() || exitCode() != 1 {
		t.Error("the error was not reported")
	}

	if _, err := os.Stat(c.OutputPath()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output written for a failed compilation: %v", err)
	}
}

func TestNoSimplify(t *testing.T) {
	src := `
func f(var x as word) as word {
	if x == 5 then {
		return x;
	};
	0;
};`

	for _, simplify := range []bool{true, false} {
		report.InitReporter(report.LogLevelSilent)

		dir := writeProject(t, map[string]string{"main.helix": src})
		c, err := NewCompiler(dir)
		if err != nil {
			t.Fatal(err)
		}

		c.Profile().Target = TargetIR
		c.Profile().Simplify = simplify
		if !c.Build() {
			t.Fatal("compilation failed")
		}

		output, err := os.ReadFile(c.OutputPath())
		if err != nil {
			t.Fatal(err)
		}

		// the empty else block is only forwarded by simplification
		if hasElse := strings.Contains(string(output), "@else.2:"); hasElse == simplify {
			t.Errorf("simplify = %v but got:\n%s", simplify, output)
		}
	}
}

// -----------------------------------------------------------------------------

func TestLoadProfile(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"helix.toml": `
name = "demo"

[build]
target = "llvm"
output = "out/demo.ll"
simplify = false
loglevel = "warn"
cflags = ["-g"]
`,
	})

	got, err := LoadProfile(dir, "ignored")
	if err != nil {
		t.Fatal(err)
	}

	want := &BuildProfile{
		Name:       "demo",
		Source:     "demo.helix",
		Target:     TargetLLVM,
		OutputPath: "out/demo.ll",
		Simplify:   false,
		LogLevel:   "warn",
		CC:         "cc",
		CFlags:     []string{"-g"},
	}

	if !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "profile", want, got)
	}

	if path := got.outputPathFor(dir); path != filepath.Join(dir, "out", "demo.ll") {
		t.Errorf("unexpected output path `%s`", path)
	}
}

func TestMissingProfile(t *testing.T) {
	got, err := LoadProfile(t.TempDir(), "main")
	if err != nil {
		t.Fatal(err)
	}

	if want := DefaultProfile("main"); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "profile", want, got)
	}
}

func TestProfileErrors(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		errText string
	}{
		{"unknown target", "[build]\ntarget = \"wasm\"", "unknown target"},
		{"unknown log level", "[build]\nloglevel = \"loud\"", "unknown log level"},
		{"invalid name", "name = \"my project\"", "not a valid project name"},
		{"malformed", "[build\n", "helix.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, map[string]string{"helix.toml": tt.profile})
			if _, err := LoadProfile(dir, "main"); err == nil || !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("expected an error containing `%s` but got %v", tt.errText, err)
			}
		})
	}
}

func TestProjectDirectorySelectsSource(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"helix.toml": "name = \"demo\"\n[build]\ntarget = \"yaml\"\n",
		"demo.helix": `func f() as word => 1;`,
	})

	c, err := NewCompiler(dir)
	if err != nil {
		t.Fatal(err)
	}

	if c.srcAbsPath != filepath.Join(dir, "demo.helix") {
		t.Errorf("unexpected source file `%s`", c.srcAbsPath)
	}

	if path := c.OutputPath(); path != filepath.Join(dir, "demo.yaml") {
		t.Errorf("unexpected output path `%s`", path)
	}
}

func TestSourceFilesKeepTheirName(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"helix.toml": "name = \"demo\"\n",
		"util.helix": `func f() as word => 1;`,
	})

	c, err := NewCompiler(filepath.Join(dir, "util.helix"))
	if err != nil {
		t.Fatal(err)
	}

	if path := c.OutputPath(); path != filepath.Join(dir, "util.c") {
		t.Errorf("unexpected output path `%s`", path)
	}

	if _, err := NewCompiler(filepath.Join(dir, "helix.toml")); err == nil {
		t.Error("a profile was accepted as a source file")
	}
}

func TestApplyArguments(t *testing.T) {
	profile := DefaultProfile("main")
	if err := applyArguments(profile, map[string]interface{}{"target": "llvm", "output": "-"}); err != nil {
		t.Fatal(err)
	}

	if profile.Target != TargetLLVM || profile.OutputPath != "-" {
		t.Errorf("arguments were not applied: target %d, output `%s`", profile.Target, profile.OutputPath)
	}

	if err := applyArguments(profile, map[string]interface{}{"output": "out.c"}); err != nil {
		t.Fatal(err)
	}

	if !filepath.IsAbs(profile.OutputPath) {
		t.Errorf("output path `%s` is not absolute", profile.OutputPath)
	}

	err := applyArguments(profile, map[string]interface{}{"target": "wasm"})
	if err == nil || !strings.Contains(err.Error(), "unknown target") {
		t.Errorf("expected an unknown target error but got %v", err)
	}

	if profile.Target != TargetLLVM {
		t.Error("an unknown target replaced the target of the profile")
	}
}

func TestLinkCommand(t *testing.T) {
	c := &Compiler{profile: DefaultProfile("main")}
	c.profile.CC = "clang"
	c.profile.CFlags = []string{"-g"}

	got := c.linkCommand("main.c", "main").Args
	want := []string{"clang", "-std=c99", "-O2", "-g", "-o", "main", "main.c"}
	if !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "command", want, got)
	}
}

func TestTargetNames(t *testing.T) {
	for name := range targetNames {
		target, err := ParseTarget(name)
		if err != nil {
			t.Fatal(err)
		}

		if got := TargetName(target); got != name {
			t.Errorf("target `%s` is named `%s`", name, got)
		}
	}
}
