package codegen

import "github.com/smallc-lang/smallc/internal/tactile"

var condForCompare = map[tactile.BinaryOp]CondCode{
	tactile.Less:         L,
	tactile.LessEqual:    LE,
	tactile.Greater:      G,
	tactile.GreaterEqual: GE,
	tactile.Equal:        E,
	tactile.NotEqual:     NE,
}

var binOpForArith = map[tactile.BinaryOp]BinaryOp{
	tactile.Add:    OpAdd,
	tactile.Sub:    OpSub,
	tactile.Mul:    OpMul,
	tactile.Shl:    OpShl,
	tactile.Shr:    OpShr,
	tactile.BitAnd: OpAnd,
	tactile.BitXor: OpXor,
	tactile.BitOr:  OpOr,
}

var unaryOpForInPlace = map[tactile.UnaryOp]UnaryOp{
	tactile.Negate:     Neg,
	tactile.Complement: Not,
	tactile.IncPre:     Inc,
	tactile.IncPost:    Inc,
	tactile.DecPre:     Dec,
	tactile.DecPost:    Dec,
}

// Select runs Pass A over prog, translating every TACTILE instruction
// into its abstract x86-64 pattern. Pseudo-registers and the
// unresolved AllocateStack(0) placeholder are left for Pass B.
func Select(prog tactile.Program) Program {
	out := Program{}
	for _, fn := range prog.Functions {
		out.Functions = append(out.Functions, selectFunction(fn))
	}
	return out
}

type selector struct{ body []Instruction }

func (s *selector) emit(inst Instruction) { s.body = append(s.body, inst) }

func selectFunction(fn tactile.Function) Function {
	s := &selector{}
	s.emit(&AllocateStack{N: 0})
	s.selectParamReceipt(fn.Params)
	for _, inst := range fn.Body {
		s.selectInst(inst)
	}
	return Function{Name: fn.Name, Body: s.body}
}

func (s *selector) selectParamReceipt(params []int) {
	for i, id := range params {
		if i < 6 {
			s.emit(&MovInst{Src: Reg{R: argRegisters[i]}, Dst: Pseudo{ID: id}})
			continue
		}
		offset := 16 + 8*(i-6)
		s.emit(&MovInst{Src: Stack{Offset: offset}, Dst: Pseudo{ID: id}})
	}
}

func toOperand(v tactile.Value) Operand {
	switch val := v.(type) {
	case tactile.Constant:
		return Imm{N: val.N}
	case tactile.Var:
		return Pseudo{ID: val.ID}
	}
	panic("codegen: unhandled tactile value")
}

func (s *selector) selectInst(inst tactile.Instruction) {
	switch v := inst.(type) {
	case *tactile.ReturnInst:
		s.emit(&MovInst{Src: toOperand(v.Val), Dst: Reg{R: AX}})
		s.emit(&RetInst{})

	case *tactile.UnaryInst:
		s.selectUnary(v)

	case *tactile.BinaryInst:
		s.selectBinary(v)

	case *tactile.CopyInst:
		s.emit(&MovInst{Src: toOperand(v.Src), Dst: toOperand(v.Dst)})

	case *tactile.JumpInst:
		s.emit(&JmpInst{Target: v.Target})

	case *tactile.JumpIfZeroInst:
		s.emit(&CmpInst{Src: Imm{N: 0}, Dst: toOperand(v.Cond)})
		s.emit(&JmpCCInst{Cond: E, Target: v.Target})

	case *tactile.JumpIfNotZeroInst:
		s.emit(&CmpInst{Src: Imm{N: 0}, Dst: toOperand(v.Cond)})
		s.emit(&JmpCCInst{Cond: NE, Target: v.Target})

	case *tactile.LabelInst:
		s.emit(&LabelInst{L: v.L})

	case *tactile.CallInst:
		s.selectCall(v)

	default:
		panic("codegen: unhandled tactile instruction")
	}
}

func (s *selector) selectUnary(v *tactile.UnaryInst) {
	if v.Op == tactile.Not {
		s.emit(&CmpInst{Src: Imm{N: 0}, Dst: toOperand(v.Src)})
		s.emit(&MovInst{Src: Imm{N: 0}, Dst: toOperand(v.Dst)})
		s.emit(&SetCCInst{Cond: E, Dst: toOperand(v.Dst)})
		return
	}
	s.emit(&MovInst{Src: toOperand(v.Src), Dst: toOperand(v.Dst)})
	s.emit(&UnaryInst{Op: unaryOpForInPlace[v.Op], Dst: toOperand(v.Dst)})
}

func (s *selector) selectBinary(v *tactile.BinaryInst) {
	switch v.Op {
	case tactile.Div:
		s.emit(&MovInst{Src: toOperand(v.Src1), Dst: Reg{R: AX}})
		s.emit(&CdqInst{})
		s.emit(&IdivInst{Operand: toOperand(v.Src2)})
		s.emit(&MovInst{Src: Reg{R: AX}, Dst: toOperand(v.Dst)})

	case tactile.Mod:
		s.emit(&MovInst{Src: toOperand(v.Src1), Dst: Reg{R: AX}})
		s.emit(&CdqInst{})
		s.emit(&IdivInst{Operand: toOperand(v.Src2)})
		s.emit(&MovInst{Src: Reg{R: DX}, Dst: toOperand(v.Dst)})

	default:
		if cc, ok := condForCompare[v.Op]; ok {
			s.emit(&CmpInst{Src: toOperand(v.Src2), Dst: toOperand(v.Src1)})
			s.emit(&MovInst{Src: Imm{N: 0}, Dst: toOperand(v.Dst)})
			s.emit(&SetCCInst{Cond: cc, Dst: toOperand(v.Dst)})
			return
		}
		s.emit(&MovInst{Src: toOperand(v.Src1), Dst: toOperand(v.Dst)})
		s.emit(&BinaryInst{Op: binOpForArith[v.Op], Src: toOperand(v.Src2), Dst: toOperand(v.Dst)})
	}
}

// selectCall implements the SysV x86-64 integer calling convention:
// the first six arguments go in registers, the rest are pushed
// right-to-left with padding added when needed to keep the stack
// 16-byte aligned at the `call` instruction.
func (s *selector) selectCall(v *tactile.CallInst) {
	var regArgs, stackArgs []tactile.Value
	if len(v.Args) > 6 {
		regArgs, stackArgs = v.Args[:6], v.Args[6:]
	} else {
		regArgs = v.Args
	}

	padding := 0
	if len(stackArgs)%2 != 0 {
		padding = 8
	}
	if padding != 0 {
		s.emit(&AllocateStack{N: padding})
	}

	for i, arg := range regArgs {
		s.emit(&MovInst{Src: toOperand(arg), Dst: Reg{R: argRegisters[i]}})
	}

	for i := len(stackArgs) - 1; i >= 0; i-- {
		operand := toOperand(stackArgs[i])
		switch operand.(type) {
		case Reg, Imm:
			s.emit(&PushInst{Operand: operand})
		default:
			s.emit(&MovInst{Src: operand, Dst: Reg{R: AX}})
			s.emit(&PushInst{Operand: Reg{R: AX}})
		}
	}

	s.emit(&CallInst{Name: v.Name})

	cleanup := 8*len(stackArgs) + padding
	if cleanup != 0 {
		s.emit(&DeallocateStack{N: cleanup})
	}

	s.emit(&MovInst{Src: Reg{R: AX}, Dst: toOperand(v.Dst)})
}
