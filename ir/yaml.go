package ir

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// The machine-readable listing of a program.
type yamlProgram struct {
	Externs   []string   `yaml:"externs,omitempty"`
	Functions []yamlFunc `yaml:"functions"`
}

type yamlFunc struct {
	Name    string      `yaml:"name"`
	Params  []string    `yaml:"params,omitempty"`
	Returns string      `yaml:"returns"`
	Locals  []string    `yaml:"locals,omitempty"`
	Entry   string      `yaml:"entry"`
	Blocks  []yamlBlock `yaml:"blocks"`
}

type yamlBlock struct {
	Name       string   `yaml:"name"`
	Ops        []string `yaml:"ops,omitempty"`
	Terminal   string   `yaml:"terminal"`
	Successors []string `yaml:"successors,omitempty"`
}

// DumpYAML renders a machine-readable listing of the program.  Ops are
// rendered in the same textual form Repr uses.
func DumpYAML(p *Program) ([]byte, error) {
	yp := yamlProgram{}

	for _, sig := range p.Externs() {
		yp.Externs = append(yp.Externs, signatureRepr(sig, nil))
	}

	for _, fn := range p.Funcs {
		yp.Functions = append(yp.Functions, dumpFunc(fn))
	}

	data, err := yaml.Marshal(&yp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode IR listing: %w", err)
	}

	return data, nil
}

// LoadYAML decodes a listing produced by DumpYAML.  The result is a listing
// for comparison rather than a program: ops are kept in their textual form.
func LoadYAML(data []byte) (map[string][]string, error) {
	yp := yamlProgram{}
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return nil, fmt.Errorf("failed to decode IR listing: %w", err)
	}

	listing := make(map[string][]string, len(yp.Functions))
	for _, yf := range yp.Functions {
		var lines []string
		for _, yb := range yf.Blocks {
			lines = append(lines, "@"+yb.Name+":")
			lines = append(lines, yb.Ops...)
			lines = append(lines, yb.Terminal)
		}

		listing[yf.Name] = lines
	}

	return listing, nil
}

func dumpFunc(fn *Func) yamlFunc {
	yf := yamlFunc{
		Name:    fn.Name(),
		Returns: fn.ReturnType().Repr(),
		Entry:   fn.Entry,
	}

	for _, param := range fn.Params {
		yf.Params = append(yf.Params, param.Repr()+" "+param.Typ.Repr())
	}

	for _, local := range fn.Locals {
		yf.Locals = append(yf.Locals, local.Repr()+" "+local.Typ.Repr())
	}

	for _, block := range fn.Blocks {
		yb := yamlBlock{Name: block.Name, Successors: block.Successors()}

		for _, op := range block.Ops {
			yb.Ops = append(yb.Ops, op.Repr())
		}

		if block.Terminal != nil {
			yb.Terminal = block.Terminal.Repr()
		}

		yf.Blocks = append(yf.Blocks, yb)
	}

	return yf
}
