package codegen

// Legalize runs Pass C over prog: instructions whose operand
// combination the target cannot encode directly are rewritten to route
// through a scratch register, per §4.5's fix-up rules.
func Legalize(prog Program) Program {
	for i := range prog.Functions {
		prog.Functions[i].Body = legalizeFunction(prog.Functions[i].Body)
	}
	return prog
}

func isStack(op Operand) bool {
	_, ok := op.(Stack)
	return ok
}

func isImm(op Operand) bool {
	_, ok := op.(Imm)
	return ok
}

func legalizeFunction(body []Instruction) []Instruction {
	out := make([]Instruction, 0, len(body))
	emit := func(inst Instruction) { out = append(out, inst) }

	for _, inst := range body {
		switch v := inst.(type) {
		case *MovInst:
			if isStack(v.Src) && isStack(v.Dst) {
				emit(&MovInst{Src: v.Src, Dst: Reg{R: R10}})
				emit(&MovInst{Src: Reg{R: R10}, Dst: v.Dst})
				continue
			}
			emit(v)

		case *IdivInst:
			if isImm(v.Operand) {
				emit(&MovInst{Src: v.Operand, Dst: Reg{R: R10}})
				emit(&IdivInst{Operand: Reg{R: R10}})
				continue
			}
			emit(v)

		case *BinaryInst:
			legalizeBinary(v, emit)

		case *CmpInst:
			legalizeCmp(v, emit)

		default:
			emit(inst)
		}
	}
	return out
}

func legalizeBinary(v *BinaryInst, emit func(Instruction)) {
	if v.Op == OpMul && isStack(v.Dst) {
		emit(&MovInst{Src: v.Dst, Dst: Reg{R: R11}})
		emit(&BinaryInst{Op: OpMul, Src: v.Src, Dst: Reg{R: R11}})
		emit(&MovInst{Src: Reg{R: R11}, Dst: v.Dst})
		return
	}
	if isStack(v.Src) && isStack(v.Dst) {
		emit(&MovInst{Src: v.Src, Dst: Reg{R: R10}})
		emit(&BinaryInst{Op: v.Op, Src: Reg{R: R10}, Dst: v.Dst})
		return
	}
	emit(v)
}

func legalizeCmp(v *CmpInst, emit func(Instruction)) {
	if isStack(v.Src) && isStack(v.Dst) {
		emit(&MovInst{Src: v.Src, Dst: Reg{R: R10}})
		emit(&CmpInst{Src: Reg{R: R10}, Dst: v.Dst})
		return
	}
	if isImm(v.Dst) {
		emit(&MovInst{Src: v.Dst, Dst: Reg{R: R11}})
		emit(&CmpInst{Src: v.Src, Dst: Reg{R: R11}})
		return
	}
	emit(v)
}
