package ir

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sirkon/deepequal"

	"helixc/common"
	"helixc/types"
)

// newTestFunc creates `func f(c as bool) as word` with a builder.
func newTestFunc() (*Func, *Builder) {
	sig := &types.FunctionSignature{
		Path:       common.NewPath("f"),
		Params:     []*types.Parameter{{Name: "c", Type: types.Bool}},
		ReturnType: types.Word,
	}

	fn := &Func{Signature: sig, Params: []*Local{{Name: "c", Typ: types.Bool, IsParam: true}}}
	return fn, NewBuilder(fn)
}

// buildDiamond builds an if with an empty else branch:
//
//	entry: br %c, then, else
//	then:  $0 = add 1, 2; assign %r, $0; jump join
//	else:  jump join
//	join:  ret %r
func buildDiamond(cond Immediate) *Func {
	fn, b := newTestFunc()
	r := b.NewLocal("r", types.Word)
	b.Emit(&CreateLocalOp{Local: r, Init: WordConst{Value: 0}})

	then, els, join := b.NewBlock("then"), b.NewBlock("else"), b.NewBlock("join")
	if cond == nil {
		cond = fn.Params[0]
	}
	b.Branch(cond, then, els)

	b.SetBlock(then)
	sum := &BinaryOp{OpBase: OpBase{Dest: b.NewTemp(types.Word)}, Op: common.OP_ADD, LHS: WordConst{Value: 1}, RHS: WordConst{Value: 2}}
	b.Emit(sum)
	b.Emit(&AssignLocalOp{Local: r, Value: sum.Dest})
	b.Jump(join)

	b.SetBlock(els)
	b.Jump(join)

	b.SetBlock(join)
	b.Terminate(&ReturnOp{Value: r})

	return fn
}

func blockNames(fn *Func) []string {
	names := make([]string, len(fn.Blocks))
	for i, block := range fn.Blocks {
		names[i] = block.Name
	}

	return names
}

// -----------------------------------------------------------------------------

func TestBuilderNamesBlocks(t *testing.T) {
	fn := buildDiamond(nil)

	want := []string{"entry", "then.1", "else.2", "join.3"}
	if got := blockNames(fn); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "blocks", want, got)
	}

	if err := Verify(fn); err != nil {
		t.Fatalf("unexpected verification error: %v", err)
	}
}

func TestVerifyRejectsMalformedGraphs(t *testing.T) {
	fn := buildDiamond(nil)
	fn.Blocks[1].Terminal = &JumpOp{Target: "nowhere"}
	if err := Verify(fn); err == nil || !strings.Contains(err.Error(), "undefined block `nowhere`") {
		t.Errorf("expected a dangling successor error but got %v", err)
	}

	fn = buildDiamond(nil)
	fn.Blocks[2].Terminal = nil
	if err := Verify(fn); err == nil || !strings.Contains(err.Error(), "has no terminal op") {
		t.Errorf("expected a missing terminal error but got %v", err)
	}

	fn = buildDiamond(nil)
	fn.Blocks[3].Ops = append(fn.Blocks[3].Ops, &AssignLocalOp{Local: &Local{Name: "stray", Typ: types.Word}, Value: WordConst{}})
	if err := Verify(fn); err == nil || !strings.Contains(err.Error(), "undefined local %stray") {
		t.Errorf("expected an undefined local error but got %v", err)
	}

	fn = buildDiamond(nil)
	fn.Blocks[3].Terminal = &ReturnOp{}
	if err := Verify(fn); err == nil {
		t.Error("expected a void return from a word function to be rejected")
	}
}

func TestRenameBlocks(t *testing.T) {
	br := &BranchOp{Cond: BoolConst{Value: true}, Then: "a", Else: "b"}
	br.RenameBlocks(map[string]string{"a": "c", "b": "c"})

	if want, got := []string{"c", "c"}, br.Successors(); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "successors", want, got)
	}

	jump := &JumpOp{Target: "x"}
	jump.RenameBlocks(map[string]string{"y": "z"})
	if jump.Target != "x" {
		t.Errorf("unrelated rename changed jump target to %s", jump.Target)
	}
}

func TestRenameFuncBlocks(t *testing.T) {
	fn := buildDiamond(nil)
	fn.RenameBlocks(map[string]string{"entry": "start", "then.1": "taken", "join.3": "done"})

	if err := Verify(fn); err != nil {
		t.Fatalf("renamed function is malformed: %v", err)
	}

	if want, got := []string{"start", "taken", "else.2", "done"}, blockNames(fn); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "blocks", want, got)
	}

	if fn.Entry != "start" {
		t.Errorf("entry was not renamed: %s", fn.Entry)
	}

	if got := fn.Blocks[0].Terminal.Repr(); got != "br %c, @taken, @else.2" {
		t.Errorf("branch was not renamed: %s", got)
	}

	for _, name := range []string{"taken", "else.2"} {
		block, _ := fn.Block(name)
		if got := block.Terminal.Repr(); got != "jump @done" {
			t.Errorf("jump from `%s` was not renamed: %s", name, got)
		}
	}
}

func TestSimplifyForwardsEmptyBlocks(t *testing.T) {
	fn := buildDiamond(nil)
	Simplify(fn)

	if want, got := []string{"entry", "then.1", "join.3"}, blockNames(fn); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "blocks", want, got)
	}

	if got := fn.Blocks[0].Terminal.Repr(); got != "br %c, @then.1, @join.3" {
		t.Errorf("unexpected entry terminal: %s", got)
	}

	if err := Verify(fn); err != nil {
		t.Fatalf("simplified function is malformed: %v", err)
	}

	preds := Predecessors(fn)
	if want, got := []string{"entry", "then.1"}, preds["join.3"]; !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "predecessors", want, got)
	}
}

func TestSimplifyConstantBranch(t *testing.T) {
	fn := buildDiamond(BoolConst{Value: true})
	Simplify(fn)

	if len(fn.Blocks) != 1 {
		t.Fatalf("expected the whole function to merge into one block but got %v", blockNames(fn))
	}

	want := []string{"local word %r, 0", "$0 = add word 1, 2", "assign %r, $0"}
	got := make([]string, len(fn.Blocks[0].Ops))
	for i, op := range fn.Blocks[0].Ops {
		got[i] = op.Repr()
	}

	if !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "ops", want, got)
	}

	if err := Verify(fn); err != nil {
		t.Fatalf("simplified function is malformed: %v", err)
	}
}

func TestSimplifyKeepsLoops(t *testing.T) {
	fn, b := newTestFunc()
	header, body, exit := b.NewBlock("header"), b.NewBlock("body"), b.NewBlock("exit")
	b.Jump(header)

	b.SetBlock(header)
	b.Branch(fn.Params[0], body, exit)

	b.SetBlock(body)
	b.Jump(header)

	b.SetBlock(exit)
	b.Terminate(&ReturnOp{Value: WordConst{Value: 1}})

	Simplify(fn)

	// The empty body is forwarded to the header which then branches to
	// itself.
	if want, got := []string{"entry", "header.1", "exit.3"}, blockNames(fn); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "blocks", want, got)
	}

	if got := fn.Blocks[1].Terminal.Repr(); got != "br %c, @header.1, @exit.3" {
		t.Errorf("unexpected header terminal: %s", got)
	}
}

func TestProgramRepr(t *testing.T) {
	fn := buildDiamond(nil)

	decls := types.NewDeclTable()
	decls.DeclareFunc(&types.FunctionSignature{
		Path:       common.NewPath("putw"),
		Params:     []*types.Parameter{{Name: "w", Type: types.Word}},
		ReturnType: types.Void,
		Extern:     true,
	})
	decls.DeclareFunc(fn.Signature)

	prog := &Program{Decls: decls, Funcs: []*Func{fn}}

	want := `extern func @putw(word) void

func @f(bool %c) word:
  var %r word
@entry:
  local word %r, 0
  br %c, @then.1, @else.2
@then.1:
  $0 = add word 1, 2
  assign %r, $0
  jump @join.3
@else.2:
  jump @join.3
@join.3:
  ret %r
`
	if got := prog.Repr(); got != want {
		deepequal.SideBySide(t, "listing", strings.Split(want, "\n"), strings.Split(got, "\n"))
	}
}

func TestDumpYAML(t *testing.T) {
	fn := buildDiamond(nil)
	Simplify(fn)

	decls := types.NewDeclTable()
	decls.DeclareFunc(fn.Signature)

	data, err := DumpYAML(&Program{Decls: decls, Funcs: []*Func{fn}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listing, err := LoadYAML(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string][]string{
		"f": {
			"@entry:",
			"local word %r, 0",
			"br %c, @then.1, @join.3",
			"@then.1:",
			"$0 = add word 1, 2",
			"assign %r, $0",
			"jump @join.3",
			"@join.3:",
			"ret %r",
		},
	}
	if !reflect.DeepEqual(want, listing) {
		deepequal.SideBySide(t, "listing", want, listing)
	}
}

func TestLayout(t *testing.T) {
	decls := types.NewDeclTable()

	pair := &types.NominalType{Path: common.NewPath("pair"), Kind: types.NominalStruct}
	decls.DeclareNominal(&types.NominalSignature{
		Type: pair,
		Members: []*types.Member{
			{Name: "flag", Type: types.Bool},
			{Name: "value", Type: types.Word},
			{Name: "done", Type: types.Bool},
		},
	})

	shape := &types.NominalType{Path: common.NewPath("shape"), Kind: types.NominalUnion}
	decls.DeclareNominal(&types.NominalSignature{
		Type: shape,
		Members: []*types.Member{
			{Name: "dot", Type: types.Bool},
			{Name: "pair", Type: pair},
		},
	})

	want := Layout{Size: 24, Align: 8, Offsets: []uint{0, 8, 16}}
	if got := LayoutOf(decls, pair); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "struct layout", want, got)
	}

	want = Layout{Size: 32, Align: 8, Offsets: []uint{8}}
	if got := LayoutOf(decls, shape); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "union layout", want, got)
	}

	if n := PayloadWords(decls, shape); n != 3 {
		t.Errorf("expected 3 payload words but got %d", n)
	}
}
