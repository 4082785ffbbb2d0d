package emitter

import (
	"fmt"

	"github.com/smallc-lang/smallc/internal/codegen"
)

var reg32 = map[codegen.Register]string{
	codegen.AX:  "%eax",
	codegen.DX:  "%edx",
	codegen.R10: "%r10d",
	codegen.R11: "%r11d",
	codegen.DI:  "%edi",
	codegen.SI:  "%esi",
	codegen.CX:  "%ecx",
	codegen.R8:  "%r8d",
	codegen.R9:  "%r9d",
}

var reg8 = map[codegen.Register]string{
	codegen.AX:  "%al",
	codegen.DX:  "%dl",
	codegen.R10: "%r10b",
	codegen.R11: "%r11b",
	codegen.DI:  "%dil",
	codegen.SI:  "%sil",
	codegen.CX:  "%cl",
	codegen.R8:  "%r8b",
	codegen.R9:  "%r9b",
}

var reg64 = map[codegen.Register]string{
	codegen.AX:  "%rax",
	codegen.DX:  "%rdx",
	codegen.R10: "%r10",
	codegen.R11: "%r11",
	codegen.DI:  "%rdi",
	codegen.SI:  "%rsi",
	codegen.CX:  "%rcx",
	codegen.R8:  "%r8",
	codegen.R9:  "%r9",
}

func stackOperand(s codegen.Stack) string {
	return fmt.Sprintf("%d(%%rbp)", s.Offset)
}

// operand32 renders op in its 32-bit form, used everywhere except the
// single-byte destination of a SetCC and the 64-bit source of a Push.
func operand32(op codegen.Operand) string {
	switch v := op.(type) {
	case codegen.Imm:
		return fmt.Sprintf("$%d", v.N)
	case codegen.Stack:
		return stackOperand(v)
	case codegen.Reg:
		return reg32[v.R]
	case codegen.Pseudo:
		panic("emitter: pseudo operand reached the emitter")
	}
	panic("emitter: unhandled operand kind")
}

// operand8 renders op in its 8-bit form; only ever used as a SetCC
// destination, which is always a Reg or Stack (never an Imm).
func operand8(op codegen.Operand) string {
	switch v := op.(type) {
	case codegen.Stack:
		return stackOperand(v)
	case codegen.Reg:
		return reg8[v.R]
	}
	panic("emitter: unhandled SetCC destination kind")
}

// operand64 renders op in its 64-bit form, used only for Push, since
// the stack pointer always moves in full machine words regardless of
// the language's 32-bit int width.
func operand64(op codegen.Operand) string {
	switch v := op.(type) {
	case codegen.Imm:
		return fmt.Sprintf("$%d", v.N)
	case codegen.Stack:
		return stackOperand(v)
	case codegen.Reg:
		return reg64[v.R]
	}
	panic("emitter: unhandled Push operand kind")
}
