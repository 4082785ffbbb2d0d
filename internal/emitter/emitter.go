// Package emitter renders a codegen.Program as AT&T-syntax x86-64
// assembly text, the final stage before handing bytes to the system
// assembler.
package emitter

import (
	"fmt"
	"strings"

	"github.com/smallc-lang/smallc/internal/codegen"
)

// Emit renders prog as a complete assembly file, including the
// trailing GNU-stack note that suppresses the executable-stack marker.
func Emit(prog codegen.Program) string {
	var b strings.Builder
	for _, fn := range prog.Functions {
		emitFunction(&b, fn)
	}
	b.WriteString(".section .note.GNU-stack,\"\",@progbits\n")
	return b.String()
}

func emitFunction(b *strings.Builder, fn codegen.Function) {
	fmt.Fprintf(b, "\t.globl %s\n%s:\n", fn.Name, fn.Name)

	allocated := 0
	if len(fn.Body) > 0 {
		if alloc, ok := fn.Body[0].(*codegen.AllocateStack); ok {
			allocated = alloc.N
		}
	}

	b.WriteString("\tpushq %rbp\n")
	b.WriteString("\tmovq %rsp, %rbp\n")
	if allocated != 0 {
		fmt.Fprintf(b, "\tsubq $%d, %%rsp\n", allocated)
	}

	for _, inst := range fn.Body[1:] {
		emitInst(b, inst)
	}
}

func emitInst(b *strings.Builder, inst codegen.Instruction) {
	switch v := inst.(type) {
	case *codegen.MovInst:
		fmt.Fprintf(b, "\tmovl %s, %s\n", operand32(v.Src), operand32(v.Dst))

	case *codegen.UnaryInst:
		fmt.Fprintf(b, "\t%s %s\n", unaryMnemonic(v.Op), operand32(v.Dst))

	case *codegen.BinaryInst:
		fmt.Fprintf(b, "\t%s %s, %s\n", binaryMnemonic(v.Op), operand32(v.Src), operand32(v.Dst))

	case *codegen.IdivInst:
		fmt.Fprintf(b, "\tidivl %s\n", operand32(v.Operand))

	case *codegen.CdqInst:
		b.WriteString("\tcltd\n")

	case *codegen.CmpInst:
		fmt.Fprintf(b, "\tcmpl %s, %s\n", operand32(v.Src), operand32(v.Dst))

	case *codegen.SetCCInst:
		fmt.Fprintf(b, "\tset%s %s\n", condSuffix(v.Cond), operand8(v.Dst))

	case *codegen.JmpInst:
		fmt.Fprintf(b, "\tjmp %s\n", labelRef(v.Target))

	case *codegen.JmpCCInst:
		fmt.Fprintf(b, "\tj%s %s\n", condSuffix(v.Cond), labelRef(v.Target))

	case *codegen.LabelInst:
		fmt.Fprintf(b, "%s:\n", labelRef(v.L))

	case *codegen.AllocateStack:
		if v.N != 0 {
			fmt.Fprintf(b, "\tsubq $%d, %%rsp\n", v.N)
		}

	case *codegen.DeallocateStack:
		if v.N != 0 {
			fmt.Fprintf(b, "\taddq $%d, %%rsp\n", v.N)
		}

	case *codegen.PushInst:
		fmt.Fprintf(b, "\tpushq %s\n", operand64(v.Operand))

	case *codegen.CallInst:
		fmt.Fprintf(b, "\tcall %s\n", v.Name)

	case *codegen.RetInst:
		b.WriteString("\tmovq %rbp, %rsp\n")
		b.WriteString("\tpopq %rbp\n")
		b.WriteString("\tret\n")

	default:
		panic("emitter: unhandled instruction")
	}
}

func labelRef(l codegen.Label) string { return fmt.Sprintf(".L%d", l) }

func condSuffix(c codegen.CondCode) string {
	switch c {
	case codegen.E:
		return "e"
	case codegen.NE:
		return "ne"
	case codegen.G:
		return "g"
	case codegen.GE:
		return "ge"
	case codegen.L:
		return "l"
	case codegen.LE:
		return "le"
	}
	panic("emitter: unhandled condition code")
}

func unaryMnemonic(op codegen.UnaryOp) string {
	switch op {
	case codegen.Neg:
		return "negl"
	case codegen.Not:
		return "notl"
	case codegen.Inc:
		return "incl"
	case codegen.Dec:
		return "decl"
	}
	panic("emitter: unhandled unary op")
}

func binaryMnemonic(op codegen.BinaryOp) string {
	switch op {
	case codegen.OpAdd:
		return "addl"
	case codegen.OpSub:
		return "subl"
	case codegen.OpMul:
		return "imull"
	case codegen.OpShl:
		return "shll"
	case codegen.OpShr:
		return "sarl"
	case codegen.OpAnd:
		return "andl"
	case codegen.OpOr:
		return "orl"
	case codegen.OpXor:
		return "xorl"
	}
	panic("emitter: unhandled binary op")
}
