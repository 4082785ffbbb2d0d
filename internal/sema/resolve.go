package sema

import (
	"github.com/smallc-lang/smallc/internal/ast"
)

// binding is what a scope-stack entry resolves a name to.
type binding struct {
	id       int
	isFunc   bool
	external bool
}

// resolver carries the mutable state of the identifier-resolution
// sub-pass: a scope stack of name->binding maps, and the monotonic
// counter that hands out dense ids. Scope 0 (index 0 of scopes) is the
// file-level scope and is never popped.
type resolver struct {
	src    []byte
	scopes []map[string]binding
	nextID int
}

// Resolve runs §4.3.1 over prog, annotating ResolvedID/ParamIDs fields
// in place. It returns the highest variable id handed out (0 if none),
// which the driver uses to seed the TACTILE lowerer's temporary
// counter so lowering-generated temporaries never collide with a real
// variable's id.
func Resolve(prog *ast.Program, src []byte) (int, error) {
	r := &resolver{src: src, scopes: []map[string]binding{{}}, nextID: 1}

	for _, fn := range prog.Functions {
		if err := r.resolveTopLevelFunction(fn); err != nil {
			return 0, err
		}
	}
	return r.nextID - 1, nil
}

func (r *resolver) push()     { r.scopes = append(r.scopes, map[string]binding{}) }
func (r *resolver) pop()      { r.scopes = r.scopes[:len(r.scopes)-1] }
func (r *resolver) top() map[string]binding { return r.scopes[len(r.scopes)-1] }

func (r *resolver) fresh() int {
	id := r.nextID
	r.nextID++
	return id
}

func (r *resolver) lookup(name string) (binding, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i][name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

func (r *resolver) resolveTopLevelFunction(fn *ast.FunctionDeclaration) error {
	name := fn.Name.Text(r.src)
	global := r.scopes[0]

	b, exists := global[name]
	if exists && !b.isFunc {
		return &DeclaredTwiceError{Name: name}
	}
	if !exists {
		b = binding{id: r.fresh(), isFunc: true, external: true}
		global[name] = b
	}
	fn.ResolvedID = b.id

	if fn.Body == nil {
		return nil
	}

	r.push()
	defer r.pop()

	fn.ParamIDs = make([]int, len(fn.Params))
	for i, p := range fn.Params {
		pname := p.Text(r.src)
		if _, collide := r.top()[pname]; collide {
			return &DeclaredTwiceError{Name: pname}
		}
		id := r.fresh()
		r.top()[pname] = binding{id: id}
		fn.ParamIDs[i] = id
	}

	return r.resolveBlockItems(fn.Body.Items, 1)
}

// resolveBlockItems walks items in the current (already-pushed) scope.
// depth is the scope's nesting depth, used only to reject a
// FunctionDeclaration item at non-zero depth.
func (r *resolver) resolveBlockItems(items []ast.BlockItem, depth int) error {
	for _, item := range items {
		if err := r.resolveBlockItem(item, depth); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) resolveBlockItem(item ast.BlockItem, depth int) error {
	switch v := item.(type) {
	case *ast.VariableDeclaration:
		return r.resolveVariableDeclaration(v)
	case *ast.FunctionDeclaration:
		if depth != 0 {
			return &NestedFunctionDeclarationError{Name: v.Name.Text(r.src)}
		}
		return r.resolveTopLevelFunction(v)
	case ast.Statement:
		return r.resolveStatement(v, depth)
	}
	return nil
}

func (r *resolver) resolveVariableDeclaration(v *ast.VariableDeclaration) error {
	name := v.Name.Text(r.src)
	if _, collide := r.top()[name]; collide {
		return &DeclaredTwiceError{Name: name}
	}
	id := r.fresh()
	r.top()[name] = binding{id: id}
	v.ResolvedID = id

	if v.Initializer != nil {
		return r.resolveExpr(v.Initializer)
	}
	return nil
}

func (r *resolver) resolveStatement(s ast.Statement, depth int) error {
	switch v := s.(type) {
	case *ast.ReturnStatement:
		return r.resolveExpr(v.Expr)

	case *ast.ExprStatement:
		return r.resolveExpr(v.Expr)

	case *ast.NullStatement, *ast.BreakStatement, *ast.ContinueStatement:
		return nil

	case *ast.IfStatement:
		if err := r.resolveExpr(v.Cond); err != nil {
			return err
		}
		r.push()
		err := r.resolveStatement(v.Then, depth+1)
		r.pop()
		if err != nil {
			return err
		}
		if v.Else != nil {
			r.push()
			err := r.resolveStatement(v.Else, depth+1)
			r.pop()
			if err != nil {
				return err
			}
		}
		return nil

	case *ast.CompoundStatement:
		r.push()
		err := r.resolveBlockItems(v.Block.Items, depth+1)
		r.pop()
		return err

	case *ast.WhileStatement:
		if err := r.resolveExpr(v.Cond); err != nil {
			return err
		}
		r.push()
		err := r.resolveStatement(v.Body, depth+1)
		r.pop()
		return err

	case *ast.DoWhileStatement:
		r.push()
		err := r.resolveStatement(v.Body, depth+1)
		r.pop()
		if err != nil {
			return err
		}
		return r.resolveExpr(v.Cond)

	case *ast.ForStatement:
		r.push()
		defer r.pop()
		if v.Init != nil {
			switch init := v.Init.(type) {
			case *ast.VariableDeclaration:
				if err := r.resolveVariableDeclaration(init); err != nil {
					return err
				}
			case *ast.ExprForInit:
				if err := r.resolveExpr(init.Expr); err != nil {
					return err
				}
			}
		}
		if v.Cond != nil {
			if err := r.resolveExpr(v.Cond); err != nil {
				return err
			}
		}
		if v.Post != nil {
			if err := r.resolveExpr(v.Post); err != nil {
				return err
			}
		}
		return r.resolveStatement(v.Body, depth+1)

	case *ast.SwitchStatement:
		if err := r.resolveExpr(v.Value); err != nil {
			return err
		}
		for _, c := range v.Cases {
			for _, stmt := range c.Body {
				if err := r.resolveStatement(stmt, depth); err != nil {
					return err
				}
			}
		}
		for _, stmt := range v.Default {
			if err := r.resolveStatement(stmt, depth); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (r *resolver) resolveExpr(e ast.Expression) error {
	switch v := e.(type) {
	case *ast.ConstantExpr:
		return nil

	case *ast.IdentifierExpr:
		b, ok := r.lookup(v.Name.Text(r.src))
		if !ok {
			return &UndeclaredIdentifierError{Name: v.Name.Text(r.src)}
		}
		v.ResolvedID = b.id
		return nil

	case *ast.ParenExpr:
		return r.resolveExpr(v.Inner)

	case *ast.UnaryExpr:
		switch v.Op {
		case ast.UnaryIncPre, ast.UnaryDecPre, ast.UnaryIncPost, ast.UnaryDecPost:
			if !ast.IsLvalue(v.Operand) {
				return &InvalidLValueError{}
			}
		}
		return r.resolveExpr(v.Operand)

	case *ast.BinaryExpr:
		if err := r.resolveExpr(v.Left); err != nil {
			return err
		}
		return r.resolveExpr(v.Right)

	case *ast.AssignExpr:
		if !ast.IsLvalue(v.Left) {
			return &InvalidLValueError{}
		}
		if err := r.resolveExpr(v.Left); err != nil {
			return err
		}
		return r.resolveExpr(v.Right)

	case *ast.OpAssignExpr:
		if !ast.IsLvalue(v.Left) {
			return &InvalidLValueError{}
		}
		if err := r.resolveExpr(v.Left); err != nil {
			return err
		}
		return r.resolveExpr(v.Right)

	case *ast.ConditionalExpr:
		if err := r.resolveExpr(v.Cond); err != nil {
			return err
		}
		if err := r.resolveExpr(v.Then); err != nil {
			return err
		}
		return r.resolveExpr(v.Else)

	case *ast.CallExpr:
		b, ok := r.lookup(v.Name.Text(r.src))
		if !ok {
			return &UndeclaredIdentifierError{Name: v.Name.Text(r.src)}
		}
		v.ResolvedID = b.id
		for _, arg := range v.Args {
			if err := r.resolveExpr(arg); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}
