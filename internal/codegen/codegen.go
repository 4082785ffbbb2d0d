// Package codegen turns a TACTILE program into an abstract x86-64
// instruction stream through three sequential passes: instruction
// selection, pseudo-register-to-stack assignment, and legalization of
// operand combinations the target cannot encode directly.
package codegen

import "github.com/smallc-lang/smallc/internal/tactile"

// Register names the fixed physical registers the selector and
// legalizer ever reference directly. Only AX, DX, R10, and R11 appear
// as general-purpose scratch/result registers (§4.5); DI, SI, DX, CX,
// R8, and R9 additionally serve as the first six SysV integer argument
// slots when lowering a Call.
type Register int

const (
	AX Register = iota
	DX
	R10
	R11
	DI
	SI
	CX
	R8
	R9
)

// Operand is the sum type of abstract x86-64 operands.
type Operand interface{ operand() }

type Imm struct{ N int64 }

// Pseudo is a not-yet-assigned virtual register, one per TACTILE Var.
// None survive past Pass B.
type Pseudo struct{ ID int }

// Stack is a concrete frame-relative operand: a byte Offset from %rbp.
// Pseudo slots use negative multiples of 4; incoming parameters passed
// on the stack use positive offsets from 16 upward.
type Stack struct{ Offset int }

type Reg struct{ R Register }

func (Imm) operand()    {}
func (Pseudo) operand() {}
func (Stack) operand()  {}
func (Reg) operand()    {}

// UnaryOp is the abstract x86-64 unary operation set. IncPre/IncPost
// and DecPre/DecPost collapse into single Inc/Dec ops here: once the
// TACTILE lowerer has already arranged for the correct value to be
// read out (via the Copy-before-Unary dance for postfix forms), the
// machine-level operation on the destination storage is identical for
// prefix and postfix.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
	Inc
	Dec
)

// BinaryOp is the abstract x86-64 binary operation set, used for the
// eight operators with a direct RMW arithmetic/logic instruction.
// Comparisons, Div, and Mod are modeled as their own instruction kinds
// because their selection patterns don't fit the uniform
// `Mov a,d; Binary(op,b,d)` shape.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpShl
	OpShr
	OpAnd
	OpOr
	OpXor
)

// CondCode is the six-way condition code set used by both Cmp-driven
// SetCC (comparisons) and JmpCC (branches on a TACTILE
// JumpIfZero/JumpIfNotZero, always using E/NE).
type CondCode int

const (
	E CondCode = iota
	NE
	G
	GE
	L
	LE
)

// Label re-exports tactile.Label; a single dense label namespace is
// threaded unchanged from TACTILE through codegen to the emitter.
type Label = tactile.Label

// Instruction is the sum type of abstract x86-64 instructions.
type Instruction interface{ instruction() }

type MovInst struct{ Src, Dst Operand }

type UnaryInst struct {
	Op  UnaryOp
	Dst Operand
}

type BinaryInst struct {
	Op       BinaryOp
	Src, Dst Operand
}

type IdivInst struct{ Operand Operand }

type CdqInst struct{}

// CmpInst models AT&T `cmp Src, Dst`, which computes Dst - Src and
// sets flags accordingly.
type CmpInst struct{ Src, Dst Operand }

type SetCCInst struct {
	Cond CondCode
	Dst  Operand
}

type JmpInst struct{ Target Label }

type JmpCCInst struct {
	Cond   CondCode
	Target Label
}

type LabelInst struct{ L Label }

// AllocateStack reserves N bytes of stack. Every function starts with
// one, initially a placeholder with N == 0 until Pass B overwrites it
// with the frame's true size; selectCall also emits one before a call
// that needs alignment padding.
type AllocateStack struct{ N int }

// DeallocateStack releases stack space reserved for pushed call
// arguments once the call returns, keeping the stack pointer where the
// rest of the function expects it.
type DeallocateStack struct{ N int }

type PushInst struct{ Operand Operand }

type CallInst struct{ Name string }

type RetInst struct{}

func (*MovInst) instruction()          {}
func (*UnaryInst) instruction()        {}
func (*BinaryInst) instruction()       {}
func (*IdivInst) instruction()         {}
func (*CdqInst) instruction()          {}
func (*CmpInst) instruction()          {}
func (*SetCCInst) instruction()        {}
func (*JmpInst) instruction()          {}
func (*JmpCCInst) instruction()        {}
func (*LabelInst) instruction()        {}
func (*AllocateStack) instruction()    {}
func (*DeallocateStack) instruction()  {}
func (*PushInst) instruction()         {}
func (*CallInst) instruction()         {}
func (*RetInst) instruction()          {}

// Function is one function's fully-legalized abstract x86-64 body,
// ready for the emitter.
type Function struct {
	Name string
	Body []Instruction
}

// Program is the codegen output: an ordered list of function bodies.
type Program struct {
	Functions []Function
}

// argRegisters lists the SysV integer argument registers in order;
// only the first 6 arguments of a call use a register, the rest are
// pushed on the stack right-to-left.
var argRegisters = []Register{DI, SI, DX, CX, R8, R9}
