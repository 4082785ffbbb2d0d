package sema

import "github.com/smallc-lang/smallc/internal/ast"

// labelTarget is one loop or switch construct currently being walked.
// Per §4.3.2's post-order rule, the construct's own label isn't known
// until its body has been fully labeled, so break/continue statements
// found inside record themselves here and are back-patched once the
// construct's label is finally assigned.
type labelTarget struct {
	isSwitch   bool
	breakSites []*ast.BreakStatement
	contSites  []*ast.ContinueStatement
}

// labeler assigns each loop and switch a dense ast.LoopLabel and
// back-patches every break/continue statement with the label and kind
// of the construct it actually targets, per §4.3.2.
type labeler struct {
	nextLabel int
	stack     []*labelTarget
}

// Label runs the loop & switch labeling sub-pass over prog, mutating
// loop/switch/break/continue nodes in place. start is the first label
// value to hand out; callers typically pass 1.
func Label(prog *ast.Program, start int) error {
	l := &labeler{nextLabel: start}
	for _, fn := range prog.Functions {
		if fn.Body == nil {
			continue
		}
		if err := l.labelBlockItems(fn.Body.Items); err != nil {
			return err
		}
	}
	return nil
}

func (l *labeler) fresh() ast.LoopLabel {
	id := l.nextLabel
	l.nextLabel++
	return ast.LoopLabel(id)
}

func (l *labeler) push(isSwitch bool) *labelTarget {
	t := &labelTarget{isSwitch: isSwitch}
	l.stack = append(l.stack, t)
	return t
}

func (l *labeler) pop() { l.stack = l.stack[:len(l.stack)-1] }

// finish hands target its own fresh label now that its body has been
// fully walked — the post-order step — and back-patches every
// break/continue recorded against it while its body was being walked.
func (l *labeler) finish(target *labelTarget) ast.LoopLabel {
	label := l.fresh()
	kind := ast.BreakLoop
	if target.isSwitch {
		kind = ast.BreakSwitch
	}
	for _, b := range target.breakSites {
		b.Label = label
		b.Kind = kind
	}
	for _, c := range target.contSites {
		c.Label = label
	}
	return label
}

func (l *labeler) innermostLoop() (*labelTarget, bool) {
	for i := len(l.stack) - 1; i >= 0; i-- {
		if !l.stack[i].isSwitch {
			return l.stack[i], true
		}
	}
	return nil, false
}

func (l *labeler) labelBlockItems(items []ast.BlockItem) error {
	for _, item := range items {
		stmt, ok := item.(ast.Statement)
		if !ok {
			continue // VariableDeclaration / nested FunctionDeclaration carry no labels
		}
		if err := l.labelStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// labelLoopBody walks a loop's body, then performs the post-order step
// of assigning the loop's own label and patching its break/continue
// sites, common to while/do-while/for.
func (l *labeler) labelLoopBody(body ast.Statement) (ast.LoopLabel, error) {
	target := l.push(false)
	err := l.labelStatement(body)
	l.pop()
	if err != nil {
		return 0, err
	}
	return l.finish(target), nil
}

func (l *labeler) labelStatement(s ast.Statement) error {
	switch v := s.(type) {
	case *ast.IfStatement:
		if err := l.labelStatement(v.Then); err != nil {
			return err
		}
		if v.Else != nil {
			return l.labelStatement(v.Else)
		}
		return nil

	case *ast.CompoundStatement:
		return l.labelBlockItems(v.Block.Items)

	case *ast.WhileStatement:
		label, err := l.labelLoopBody(v.Body)
		if err != nil {
			return err
		}
		v.Label = label
		return nil

	case *ast.DoWhileStatement:
		label, err := l.labelLoopBody(v.Body)
		if err != nil {
			return err
		}
		v.Label = label
		return nil

	case *ast.ForStatement:
		label, err := l.labelLoopBody(v.Body)
		if err != nil {
			return err
		}
		v.Label = label
		return nil

	case *ast.SwitchStatement:
		target := l.push(true)
		for _, c := range v.Cases {
			for _, stmt := range c.Body {
				if err := l.labelStatement(stmt); err != nil {
					l.pop()
					return err
				}
			}
		}
		for _, stmt := range v.Default {
			if err := l.labelStatement(stmt); err != nil {
				l.pop()
				return err
			}
		}
		l.pop()
		v.Label = l.finish(target)
		return nil

	case *ast.BreakStatement:
		if len(l.stack) == 0 {
			return &BreakOutsideLoopError{}
		}
		target := l.stack[len(l.stack)-1]
		target.breakSites = append(target.breakSites, v)
		return nil

	case *ast.ContinueStatement:
		target, ok := l.innermostLoop()
		if !ok {
			return &BreakOutsideLoopError{}
		}
		target.contSites = append(target.contSites, v)
		return nil
	}
	return nil
}
