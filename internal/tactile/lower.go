package tactile

import (
	"github.com/smallc-lang/smallc/internal/ast"
)

// loopTargets records the two jump targets a break or continue inside
// a given construct must resolve to. Switches only ever populate
// BreakL; continue inside a switch is already resolved by semantic
// analysis to an enclosing loop's construct id, so it is never looked
// up through a switch's entry.
type loopTargets struct {
	ContinueL Label
	BreakL    Label
}

// Lowerer carries the mutable state of the lowering pass: the shared temporary-id and label counters (shared across the whole
// program, not reset per function, so ids stay globally dense) and the
// stack of active loop/switch jump targets keyed by the construct id
// semantic analysis assigned.
type Lowerer struct {
	src       []byte
	nextTemp  int
	nextLabel int
	targets   map[ast.LoopLabel]loopTargets
	instrs    []Instruction
}

// NewLowerer constructs a Lowerer. firstTempID and firstLabel seed the
// two counters; callers should derive them from sema.Result so that
// lowering-generated temporaries and jump labels never collide with
// the dense ids and loop/switch labels semantic analysis already
// handed out over the same AST.
func NewLowerer(src []byte, firstTempID, firstLabel int) *Lowerer {
	return &Lowerer{
		src:       src,
		nextTemp:  firstTempID,
		nextLabel: firstLabel,
		targets:   map[ast.LoopLabel]loopTargets{},
	}
}

func (l *Lowerer) freshTemp() Var {
	id := l.nextTemp
	l.nextTemp++
	return Var{ID: id}
}

func (l *Lowerer) freshLabel() Label {
	id := l.nextLabel
	l.nextLabel++
	return Label(id)
}

func (l *Lowerer) emit(inst Instruction) { l.instrs = append(l.instrs, inst) }

// Lower runs the full translation of a type-checked, resolved, and
// labeled program into TACTILE. Forward declarations (nil Body) are
// skipped since they contribute nothing to codegen.
func Lower(prog *ast.Program, src []byte, firstTempID, firstLabel int) Program {
	l := NewLowerer(src, firstTempID, firstLabel)
	out := Program{}
	for _, fn := range prog.Functions {
		if fn.Body == nil {
			continue
		}
		out.Functions = append(out.Functions, l.lowerFunction(fn))
	}
	return out
}

func (l *Lowerer) lowerFunction(fn *ast.FunctionDeclaration) Function {
	l.instrs = nil
	l.lowerBlockItems(fn.Body.Items)
	l.emit(&ReturnInst{Val: Constant{N: 0}})
	return Function{
		Name:   fn.Name.Text(l.src),
		Params: fn.ParamIDs,
		Body:   l.instrs,
	}
}

func (l *Lowerer) lowerBlockItems(items []ast.BlockItem) {
	for _, item := range items {
		switch v := item.(type) {
		case *ast.VariableDeclaration:
			l.lowerVariableDeclaration(v)
		case *ast.FunctionDeclaration:
			// A nested forward declaration carries no code.
		case ast.Statement:
			l.lowerStatement(v)
		}
	}
}

func (l *Lowerer) lowerVariableDeclaration(v *ast.VariableDeclaration) {
	if v.Initializer == nil {
		return
	}
	rhs := l.emitExpr(v.Initializer)
	l.emit(&CopyInst{Src: rhs, Dst: Var{ID: v.ResolvedID}})
}

func (l *Lowerer) lowerStatement(s ast.Statement) {
	switch v := s.(type) {
	case *ast.ReturnStatement:
		l.emit(&ReturnInst{Val: l.emitExpr(v.Expr)})

	case *ast.ExprStatement:
		l.emitExpr(v.Expr)

	case *ast.NullStatement:
		// no-op

	case *ast.IfStatement:
		l.lowerIf(v)

	case *ast.CompoundStatement:
		l.lowerBlockItems(v.Block.Items)

	case *ast.WhileStatement:
		l.lowerWhile(v)

	case *ast.DoWhileStatement:
		l.lowerDoWhile(v)

	case *ast.ForStatement:
		l.lowerFor(v)

	case *ast.SwitchStatement:
		l.lowerSwitch(v)

	case *ast.BreakStatement:
		l.emit(&JumpInst{Target: l.targets[v.Label].BreakL})

	case *ast.ContinueStatement:
		l.emit(&JumpInst{Target: l.targets[v.Label].ContinueL})
	}
}

func (l *Lowerer) lowerIf(v *ast.IfStatement) {
	cond := l.emitExpr(v.Cond)
	if v.Else == nil {
		end := l.freshLabel()
		l.emit(&JumpIfZeroInst{Cond: cond, Target: end})
		l.lowerStatement(v.Then)
		l.emit(&LabelInst{L: end})
		return
	}
	elseL := l.freshLabel()
	end := l.freshLabel()
	l.emit(&JumpIfZeroInst{Cond: cond, Target: elseL})
	l.lowerStatement(v.Then)
	l.emit(&JumpInst{Target: end})
	l.emit(&LabelInst{L: elseL})
	l.lowerStatement(v.Else)
	l.emit(&LabelInst{L: end})
}

func (l *Lowerer) lowerWhile(v *ast.WhileStatement) {
	continueL := l.freshLabel()
	breakL := l.freshLabel()
	l.targets[v.Label] = loopTargets{ContinueL: continueL, BreakL: breakL}
	defer delete(l.targets, v.Label)

	l.emit(&LabelInst{L: continueL})
	cond := l.emitExpr(v.Cond)
	l.emit(&JumpIfZeroInst{Cond: cond, Target: breakL})
	l.lowerStatement(v.Body)
	l.emit(&JumpInst{Target: continueL})
	l.emit(&LabelInst{L: breakL})
}

func (l *Lowerer) lowerDoWhile(v *ast.DoWhileStatement) {
	begin := l.freshLabel()
	continueL := l.freshLabel()
	breakL := l.freshLabel()
	l.targets[v.Label] = loopTargets{ContinueL: continueL, BreakL: breakL}
	defer delete(l.targets, v.Label)

	l.emit(&LabelInst{L: begin})
	l.lowerStatement(v.Body)
	l.emit(&LabelInst{L: continueL})
	cond := l.emitExpr(v.Cond)
	l.emit(&JumpIfNotZeroInst{Cond: cond, Target: begin})
	l.emit(&LabelInst{L: breakL})
}

func (l *Lowerer) lowerFor(v *ast.ForStatement) {
	switch init := v.Init.(type) {
	case *ast.VariableDeclaration:
		l.lowerVariableDeclaration(init)
	case *ast.ExprForInit:
		l.emitExpr(init.Expr)
	}

	begin := l.freshLabel()
	continueL := l.freshLabel()
	breakL := l.freshLabel()
	l.targets[v.Label] = loopTargets{ContinueL: continueL, BreakL: breakL}
	defer delete(l.targets, v.Label)

	l.emit(&LabelInst{L: begin})
	if v.Cond != nil {
		cond := l.emitExpr(v.Cond)
		l.emit(&JumpIfZeroInst{Cond: cond, Target: breakL})
	}
	l.lowerStatement(v.Body)
	l.emit(&LabelInst{L: continueL})
	if v.Post != nil {
		l.emitExpr(v.Post)
	}
	l.emit(&JumpInst{Target: begin})
	l.emit(&LabelInst{L: breakL})
}

func (l *Lowerer) lowerSwitch(v *ast.SwitchStatement) {
	value := l.emitExpr(v.Value)
	breakL := l.freshLabel()
	l.targets[v.Label] = loopTargets{BreakL: breakL}
	defer delete(l.targets, v.Label)

	caseLabels := make([]Label, len(v.Cases))
	for i, c := range v.Cases {
		caseLabels[i] = l.freshLabel()
		cond := l.freshTemp()
		l.emit(&BinaryInst{Op: Equal, Src1: value, Src2: Constant{N: c.Value}, Dst: cond})
		l.emit(&JumpIfNotZeroInst{Cond: cond, Target: caseLabels[i]})
	}
	defaultL := l.freshLabel()
	l.emit(&JumpInst{Target: defaultL})
	for i, c := range v.Cases {
		l.emit(&LabelInst{L: caseLabels[i]})
		for _, stmt := range c.Body {
			l.lowerStatement(stmt)
		}
	}
	l.emit(&LabelInst{L: defaultL})
	for _, stmt := range v.Default {
		l.lowerStatement(stmt)
	}
	l.emit(&LabelInst{L: breakL})
}
