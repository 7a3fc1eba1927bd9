package ir

import (
	"fmt"

	"helixc/types"
)

// Verify checks that a function's block graph is well-formed: every block
// ends in exactly one terminal op, every successor names a block of the
// function, every temporary is defined exactly once, and every immediate
// names a temporary or local of the function.
func Verify(fn *Func) error {
	if len(fn.Blocks) == 0 || fn.Blocks[0].Name != fn.Entry {
		return fmt.Errorf("function `%s`: entry block `%s` is not the first block", fn.Name(), fn.Entry)
	}

	blocks := make(map[string]bool, len(fn.Blocks))
	for _, block := range fn.Blocks {
		if blocks[block.Name] {
			return fmt.Errorf("function `%s`: multiple blocks named `%s`", fn.Name(), block.Name)
		}

		blocks[block.Name] = true
	}

	locals := make(map[*Local]bool)
	for _, local := range fn.Params {
		locals[local] = true
	}
	for _, local := range fn.Locals {
		locals[local] = true
	}

	temps := make(map[*Temp]bool)
	for _, temp := range fn.Temps() {
		if temps[temp] {
			return fmt.Errorf("function `%s`: temporary %s is defined multiple times", fn.Name(), temp.Repr())
		}

		temps[temp] = true
	}

	for _, block := range fn.Blocks {
		if block.Terminal == nil {
			return fmt.Errorf("function `%s`: block `%s` has no terminal op", fn.Name(), block.Name)
		}

		for _, succ := range block.Successors() {
			if !blocks[succ] {
				return fmt.Errorf("function `%s`: block `%s` jumps to undefined block `%s`", fn.Name(), block.Name, succ)
			}
		}

		ops := append(block.Ops[:len(block.Ops):len(block.Ops)], block.Terminal)
		for _, op := range ops {
			if err := verifyOperands(op, temps, locals); err != nil {
				return fmt.Errorf("function `%s`: block `%s`: %w", fn.Name(), block.Name, err)
			}
		}

		if ret, ok := block.Terminal.(*ReturnOp); ok && (ret.Value == nil) != types.IsVoid(fn.ReturnType()) {
			return fmt.Errorf("function `%s`: block `%s` returns a value inconsistent with `%s`", fn.Name(), block.Name, fn.ReturnType().Repr())
		}
	}

	return nil
}

// verifyOperands checks that every immediate an op refers to exists.
func verifyOperands(op Op, temps map[*Temp]bool, locals map[*Local]bool) error {
	imms := op.Operands()

	switch v := op.(type) {
	case *CreateLocalOp:
		imms = append(imms, v.Local)
	case *AssignLocalOp:
		imms = append(imms, v.Local)
	case *SetMemberOp:
		imms = append(imms, v.Local)
	case *AddressOfOp:
		imms = append(imms, v.Local)
	}

	for _, imm := range imms {
		switch v := imm.(type) {
		case *Temp:
			if !temps[v] {
				return fmt.Errorf("op `%s` uses undefined temporary %s", op.Repr(), v.Repr())
			}
		case *Local:
			if !locals[v] {
				return fmt.Errorf("op `%s` uses undefined local %s", op.Repr(), v.Repr())
			}
		case nil:
			return fmt.Errorf("op %T has a missing operand", op)
		}
	}

	return nil
}

// VerifyProgram verifies every function of a program.
func VerifyProgram(p *Program) error {
	for _, fn := range p.Funcs {
		if err := Verify(fn); err != nil {
			return err
		}
	}

	return nil
}
