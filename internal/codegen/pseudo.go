package codegen

// AssignStack runs Pass B over prog: every Pseudo(i) operand becomes
// the Stack operand at byte offset -(i*4) from %rbp, and each
// function's leading AllocateStack placeholder is overwritten with the
// largest such offset's magnitude, rounded up to a multiple of 16 so
// %rsp stays 16-byte aligned for calls made from the function.
func AssignStack(prog Program) Program {
	for i := range prog.Functions {
		assignStackInFunction(&prog.Functions[i])
	}
	return prog
}

func assignStackInFunction(fn *Function) {
	maxID := 0
	resolve := func(op Operand) Operand {
		p, ok := op.(Pseudo)
		if !ok {
			return op
		}
		if p.ID > maxID {
			maxID = p.ID
		}
		return Stack{Offset: -4 * p.ID}
	}

	for _, inst := range fn.Body {
		switch v := inst.(type) {
		case *MovInst:
			v.Src, v.Dst = resolve(v.Src), resolve(v.Dst)
		case *UnaryInst:
			v.Dst = resolve(v.Dst)
		case *BinaryInst:
			v.Src, v.Dst = resolve(v.Src), resolve(v.Dst)
		case *IdivInst:
			v.Operand = resolve(v.Operand)
		case *CmpInst:
			v.Src, v.Dst = resolve(v.Src), resolve(v.Dst)
		case *SetCCInst:
			v.Dst = resolve(v.Dst)
		case *PushInst:
			v.Operand = resolve(v.Operand)
		}
	}

	for i, inst := range fn.Body {
		if alloc, ok := inst.(*AllocateStack); ok && alloc.N == 0 {
			fn.Body[i] = &AllocateStack{N: (4*maxID + 15) &^ 15}
			break
		}
	}
}
