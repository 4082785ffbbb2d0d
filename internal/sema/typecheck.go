package sema

import "github.com/smallc-lang/smallc/internal/ast"

// funcSymbol is the Func{arity, defined} half of the (name, scope) ->
// Type symbol map described by §4.3.3. Variables never need an entry:
// any ResolvedID absent from this map is implicitly Int.
type funcSymbol struct {
	name    string
	arity   int
	defined bool
}

type typeChecker struct {
	src   []byte
	funcs map[int]*funcSymbol
}

// TypeCheck runs the function-signature type-checking sub-pass over
// prog. It must run after Resolve, since it relies on ResolvedID
// already being filled in on every identifier, call, and function
// declaration.
func TypeCheck(prog *ast.Program, src []byte) error {
	tc := &typeChecker{src: src, funcs: map[int]*funcSymbol{}}

	for _, fn := range prog.Functions {
		if err := tc.declareFunction(fn); err != nil {
			return err
		}
	}
	for _, fn := range prog.Functions {
		if fn.Body == nil {
			continue
		}
		if err := tc.checkBlockItems(fn.Body.Items); err != nil {
			return err
		}
	}
	return nil
}

func (tc *typeChecker) declareFunction(fn *ast.FunctionDeclaration) error {
	name := fn.Name.Text(tc.src)
	arity := len(fn.Params)
	defined := fn.Body != nil

	existing, ok := tc.funcs[fn.ResolvedID]
	if !ok {
		tc.funcs[fn.ResolvedID] = &funcSymbol{name: name, arity: arity, defined: defined}
		return nil
	}
	if existing.arity != arity {
		return &IncompatibleFunctionDeclarationsError{Name: name}
	}
	if defined {
		if existing.defined {
			return &FunctionDefinedMoreThanOnceError{Name: name}
		}
		existing.defined = true
	}
	return nil
}

func (tc *typeChecker) checkBlockItems(items []ast.BlockItem) error {
	for _, item := range items {
		switch v := item.(type) {
		case *ast.VariableDeclaration:
			if v.Initializer != nil {
				if err := tc.checkExpr(v.Initializer); err != nil {
					return err
				}
			}
		case *ast.FunctionDeclaration:
			if err := tc.declareFunction(v); err != nil {
				return err
			}
		case ast.Statement:
			if err := tc.checkStatement(v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (tc *typeChecker) checkStatement(s ast.Statement) error {
	switch v := s.(type) {
	case *ast.ReturnStatement:
		return tc.checkExpr(v.Expr)
	case *ast.ExprStatement:
		return tc.checkExpr(v.Expr)
	case *ast.NullStatement, *ast.BreakStatement, *ast.ContinueStatement:
		return nil
	case *ast.IfStatement:
		if err := tc.checkExpr(v.Cond); err != nil {
			return err
		}
		if err := tc.checkStatement(v.Then); err != nil {
			return err
		}
		if v.Else != nil {
			return tc.checkStatement(v.Else)
		}
		return nil
	case *ast.CompoundStatement:
		return tc.checkBlockItems(v.Block.Items)
	case *ast.WhileStatement:
		if err := tc.checkExpr(v.Cond); err != nil {
			return err
		}
		return tc.checkStatement(v.Body)
	case *ast.DoWhileStatement:
		if err := tc.checkStatement(v.Body); err != nil {
			return err
		}
		return tc.checkExpr(v.Cond)
	case *ast.ForStatement:
		if v.Init != nil {
			switch init := v.Init.(type) {
			case *ast.VariableDeclaration:
				if init.Initializer != nil {
					if err := tc.checkExpr(init.Initializer); err != nil {
						return err
					}
				}
			case *ast.ExprForInit:
				if err := tc.checkExpr(init.Expr); err != nil {
					return err
				}
			}
		}
		if v.Cond != nil {
			if err := tc.checkExpr(v.Cond); err != nil {
				return err
			}
		}
		if v.Post != nil {
			if err := tc.checkExpr(v.Post); err != nil {
				return err
			}
		}
		return tc.checkStatement(v.Body)
	case *ast.SwitchStatement:
		if err := tc.checkExpr(v.Value); err != nil {
			return err
		}
		for _, c := range v.Cases {
			for _, stmt := range c.Body {
				if err := tc.checkStatement(stmt); err != nil {
					return err
				}
			}
		}
		for _, stmt := range v.Default {
			if err := tc.checkStatement(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (tc *typeChecker) checkExpr(e ast.Expression) error {
	switch v := e.(type) {
	case *ast.ConstantExpr:
		return nil

	case *ast.IdentifierExpr:
		if _, isFunc := tc.funcs[v.ResolvedID]; isFunc {
			return &WrongTypeError{Detail: "function " + v.Name.Text(tc.src) + " used as a value"}
		}
		return nil

	case *ast.ParenExpr:
		return tc.checkExpr(v.Inner)

	case *ast.UnaryExpr:
		return tc.checkExpr(v.Operand)

	case *ast.BinaryExpr:
		if err := tc.checkExpr(v.Left); err != nil {
			return err
		}
		return tc.checkExpr(v.Right)

	case *ast.AssignExpr:
		if err := tc.checkExpr(v.Left); err != nil {
			return err
		}
		return tc.checkExpr(v.Right)

	case *ast.OpAssignExpr:
		if err := tc.checkExpr(v.Left); err != nil {
			return err
		}
		return tc.checkExpr(v.Right)

	case *ast.ConditionalExpr:
		if err := tc.checkExpr(v.Cond); err != nil {
			return err
		}
		if err := tc.checkExpr(v.Then); err != nil {
			return err
		}
		return tc.checkExpr(v.Else)

	case *ast.CallExpr:
		sym, ok := tc.funcs[v.ResolvedID]
		if !ok || sym.arity != len(v.Args) {
			return &WrongTypeError{Detail: "call to " + v.Name.Text(tc.src) + " with wrong number of arguments"}
		}
		for _, arg := range v.Args {
			if err := tc.checkExpr(arg); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}
