package tactile

import "github.com/smallc-lang/smallc/internal/ast"

var binOpTable = map[ast.BinOp]BinaryOp{
	ast.OpAdd:          Add,
	ast.OpSub:          Sub,
	ast.OpMul:          Mul,
	ast.OpDiv:          Div,
	ast.OpMod:          Mod,
	ast.OpShl:          Shl,
	ast.OpShr:          Shr,
	ast.OpLess:         Less,
	ast.OpLessEqual:    LessEqual,
	ast.OpGreater:      Greater,
	ast.OpGreaterEqual: GreaterEqual,
	ast.OpEqual:        Equal,
	ast.OpNotEqual:     NotEqual,
	ast.OpBitAnd:       BitAnd,
	ast.OpBitXor:       BitXor,
	ast.OpBitOr:        BitOr,
}

var unaryOpTable = map[ast.UnaryOp]UnaryOp{
	ast.UnaryNegate:     Negate,
	ast.UnaryComplement: Complement,
	ast.UnaryNot:        Not,
	ast.UnaryIncPre:     IncPre,
	ast.UnaryDecPre:     DecPre,
	ast.UnaryIncPost:    IncPost,
	ast.UnaryDecPost:    DecPost,
}

// emitExpr lowers e, appending instructions to l.instrs, and returns
// the Value representing its result.
func (l *Lowerer) emitExpr(e ast.Expression) Value {
	switch v := e.(type) {
	case *ast.ConstantExpr:
		return Constant{N: v.Value}

	case *ast.IdentifierExpr:
		return Var{ID: v.ResolvedID}

	case *ast.ParenExpr:
		return l.emitExpr(v.Inner)

	case *ast.UnaryExpr:
		return l.emitUnary(v)

	case *ast.BinaryExpr:
		return l.emitBinary(v)

	case *ast.AssignExpr:
		rhs := l.emitExpr(v.Right)
		dst := l.emitExpr(v.Left)
		l.emit(&CopyInst{Src: rhs, Dst: dst})
		return dst

	case *ast.OpAssignExpr:
		dst := l.emitExpr(v.Left)
		rhs := l.emitExpr(v.Right)
		l.emit(&BinaryInst{Op: binOpTable[v.Op], Src1: dst, Src2: rhs, Dst: dst})
		return dst

	case *ast.ConditionalExpr:
		return l.emitConditional(v)

	case *ast.CallExpr:
		return l.emitCall(v)
	}
	panic("tactile: unhandled expression node")
}

func (l *Lowerer) emitUnary(v *ast.UnaryExpr) Value {
	switch v.Op {
	case ast.UnaryIncPre, ast.UnaryDecPre:
		src := l.emitExpr(v.Operand)
		l.emit(&UnaryInst{Op: unaryOpTable[v.Op], Src: src, Dst: src})
		return src

	case ast.UnaryIncPost, ast.UnaryDecPost:
		src := l.emitExpr(v.Operand)
		tmp := l.freshTemp()
		l.emit(&CopyInst{Src: src, Dst: tmp})
		l.emit(&UnaryInst{Op: unaryOpTable[v.Op], Src: src, Dst: src})
		return tmp

	default:
		src := l.emitExpr(v.Operand)
		dst := l.freshTemp()
		l.emit(&UnaryInst{Op: unaryOpTable[v.Op], Src: src, Dst: dst})
		return dst
	}
}

func (l *Lowerer) emitBinary(v *ast.BinaryExpr) Value {
	switch v.Op {
	case ast.OpLogAnd:
		return l.emitLogAnd(v)
	case ast.OpLogOr:
		return l.emitLogOr(v)
	}
	v1 := l.emitExpr(v.Left)
	v2 := l.emitExpr(v.Right)
	dst := l.freshTemp()
	l.emit(&BinaryInst{Op: binOpTable[v.Op], Src1: v1, Src2: v2, Dst: dst})
	return dst
}

func (l *Lowerer) emitLogAnd(v *ast.BinaryExpr) Value {
	dst := l.freshTemp()
	falseL := l.freshLabel()
	end := l.freshLabel()

	v1 := l.emitExpr(v.Left)
	l.emit(&JumpIfZeroInst{Cond: v1, Target: falseL})
	v2 := l.emitExpr(v.Right)
	l.emit(&JumpIfZeroInst{Cond: v2, Target: falseL})
	l.emit(&CopyInst{Src: Constant{N: 1}, Dst: dst})
	l.emit(&JumpInst{Target: end})
	l.emit(&LabelInst{L: falseL})
	l.emit(&CopyInst{Src: Constant{N: 0}, Dst: dst})
	l.emit(&LabelInst{L: end})
	return dst
}

func (l *Lowerer) emitLogOr(v *ast.BinaryExpr) Value {
	dst := l.freshTemp()
	trueL := l.freshLabel()
	end := l.freshLabel()

	v1 := l.emitExpr(v.Left)
	l.emit(&JumpIfNotZeroInst{Cond: v1, Target: trueL})
	v2 := l.emitExpr(v.Right)
	l.emit(&JumpIfNotZeroInst{Cond: v2, Target: trueL})
	l.emit(&CopyInst{Src: Constant{N: 0}, Dst: dst})
	l.emit(&JumpInst{Target: end})
	l.emit(&LabelInst{L: trueL})
	l.emit(&CopyInst{Src: Constant{N: 1}, Dst: dst})
	l.emit(&LabelInst{L: end})
	return dst
}

func (l *Lowerer) emitConditional(v *ast.ConditionalExpr) Value {
	dst := l.freshTemp()
	elseL := l.freshLabel()
	end := l.freshLabel()

	cond := l.emitExpr(v.Cond)
	l.emit(&JumpIfZeroInst{Cond: cond, Target: elseL})
	then := l.emitExpr(v.Then)
	l.emit(&CopyInst{Src: then, Dst: dst})
	l.emit(&JumpInst{Target: end})
	l.emit(&LabelInst{L: elseL})
	els := l.emitExpr(v.Else)
	l.emit(&CopyInst{Src: els, Dst: dst})
	l.emit(&LabelInst{L: end})
	return dst
}

// emitCall evaluates each argument left-to-right into its own fresh
// temporary before emitting the call, per §9's resolution of the
// reference implementation's unfinished call lowering: this keeps
// argument evaluation order observable and gives the instruction
// selector a uniform Value to place into each SysV argument slot.
func (l *Lowerer) emitCall(v *ast.CallExpr) Value {
	args := make([]Value, len(v.Args))
	for i, a := range v.Args {
		val := l.emitExpr(a)
		tmp := l.freshTemp()
		l.emit(&CopyInst{Src: val, Dst: tmp})
		args[i] = tmp
	}
	dst := l.freshTemp()
	l.emit(&CallInst{Name: v.Name.Text(l.src), Args: args, Dst: dst})
	return dst
}
