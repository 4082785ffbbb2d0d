package sema

import "github.com/smallc-lang/smallc/internal/ast"

// Result is the output of semantic analysis: the mutated AST has
// ResolvedID/LoopLabel fields filled in throughout, MaxVariableID is
// the highest dense id Resolve handed out (0 if the program declares
// no identifiers at all), and MaxLabel is one past the highest loop
// or switch label assigned.
type Result struct {
	MaxVariableID int
	MaxLabel      int
}

// Analyze runs the three sequential sub-passes described by §4.3 over
// prog: identifier resolution, then loop & switch labeling, then
// function-signature type checking. Each stage mutates prog's nodes in
// place and may fail independently.
func Analyze(prog *ast.Program, src []byte) (Result, error) {
	maxVar, err := Resolve(prog, src)
	if err != nil {
		return Result{}, err
	}

	const firstLabel = 1
	if err := Label(prog, firstLabel); err != nil {
		return Result{}, err
	}
	maxLabel := firstLabel
	countLabels(prog, &maxLabel)

	if err := TypeCheck(prog, src); err != nil {
		return Result{}, err
	}

	return Result{MaxVariableID: maxVar, MaxLabel: maxLabel}, nil
}

// countLabels walks the already-labeled AST to find the label one past
// the highest assigned value, so the TACTILE lowerer's own label
// counter (used for if/ternary/short-circuit jump targets) can be
// seeded without colliding with loop and switch labels.
func countLabels(prog *ast.Program, max *int) {
	bump := func(l ast.LoopLabel) {
		if int(l)+1 > *max {
			*max = int(l) + 1
		}
	}
	var walkItems func([]ast.BlockItem)
	var walkStmt func(ast.Statement)

	walkStmt = func(s ast.Statement) {
		switch v := s.(type) {
		case *ast.IfStatement:
			walkStmt(v.Then)
			if v.Else != nil {
				walkStmt(v.Else)
			}
		case *ast.CompoundStatement:
			walkItems(v.Block.Items)
		case *ast.WhileStatement:
			bump(v.Label)
			walkStmt(v.Body)
		case *ast.DoWhileStatement:
			bump(v.Label)
			walkStmt(v.Body)
		case *ast.ForStatement:
			bump(v.Label)
			walkStmt(v.Body)
		case *ast.SwitchStatement:
			bump(v.Label)
			for _, c := range v.Cases {
				for _, stmt := range c.Body {
					walkStmt(stmt)
				}
			}
			for _, stmt := range v.Default {
				walkStmt(stmt)
			}
		}
	}
	walkItems = func(items []ast.BlockItem) {
		for _, item := range items {
			if stmt, ok := item.(ast.Statement); ok {
				walkStmt(stmt)
			}
		}
	}

	for _, fn := range prog.Functions {
		if fn.Body != nil {
			walkItems(fn.Body.Items)
		}
	}
}
