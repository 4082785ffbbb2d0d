// Package tactile lowers a type-checked AST into TACTILE, the
// three-address intermediate form consumed by instruction selection.
// Control flow is fully desugared to labels and conditional jumps; the
// only structure left is a flat per-function instruction list.
package tactile

import "fmt"

// Value is the sum type of TACTILE operands: a literal constant or a
// reference to a dense variable/temporary id.
type Value interface{ value() }

type Constant struct{ N int64 }

type Var struct{ ID int }

func (Constant) value() {}
func (Var) value()      {}

// UnaryOp mirrors ast.UnaryOp one-to-one. IncPre, IncPost, DecPre, and
// DecPost stay distinct here even though the lowerer has already
// picked the right Copy/Unary sequence for prefix vs. postfix; the
// instruction selector maps each pair onto a single increment or
// decrement.
type UnaryOp int

const (
	Negate UnaryOp = iota
	Complement
	Not
	IncPre
	DecPre
	IncPost
	DecPost
)

// BinaryOp mirrors ast.BinOp, minus the short-circuit operators (&&,
// ||), which lowering expands to explicit branches rather than ever
// emitting as a single instruction.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	Less
	LessEqual
	Greater
	GreaterEqual
	Equal
	NotEqual
	BitAnd
	BitXor
	BitOr
)

// Label identifies a jump target. Labels are dense across the whole
// program: the lowerer's label counter is not reset between functions.
type Label int

// Instruction is the sum type of TACTILE instructions.
type Instruction interface{ instruction() }

type ReturnInst struct{ Val Value }

type UnaryInst struct {
	Op       UnaryOp
	Src, Dst Value
}

type BinaryInst struct {
	Op          BinaryOp
	Src1, Src2  Value
	Dst         Value
}

type CopyInst struct{ Src, Dst Value }

type JumpInst struct{ Target Label }

type JumpIfZeroInst struct {
	Cond   Value
	Target Label
}

type JumpIfNotZeroInst struct {
	Cond   Value
	Target Label
}

type LabelInst struct{ L Label }

// CallInst models a direct call to a named function. Args have
// already been evaluated into fresh temporaries by the time this is
// emitted; the instruction selector is responsible for placing them
// into the SysV x86-64 argument registers (and the stack, for a
// seventh argument and beyond).
type CallInst struct {
	Name string
	Args []Value
	Dst  Value
}

func (*ReturnInst) instruction()        {}
func (*UnaryInst) instruction()         {}
func (*BinaryInst) instruction()        {}
func (*CopyInst) instruction()          {}
func (*JumpInst) instruction()          {}
func (*JumpIfZeroInst) instruction()    {}
func (*JumpIfNotZeroInst) instruction() {}
func (*LabelInst) instruction()         {}
func (*CallInst) instruction()          {}

// Function is one lowered function definition. A forward declaration
// with no body never reaches TACTILE; Lower skips those.
type Function struct {
	Name   string
	Params []int // dense ids, in declaration order
	Body   []Instruction
}

// Program is the lowered translation unit: an ordered list of
// function bodies.
type Program struct {
	Functions []Function
}

func (v Var) String() string      { return fmt.Sprintf("var.%d", v.ID) }
func (c Constant) String() string { return fmt.Sprintf("%d", c.N) }
