package driver

import (
	"fmt"
	"strings"

	"github.com/smallc-lang/smallc/internal/ast"
)

// dotDump renders prog as a Graphviz dot graph, recovering the
// reference implementation's AST visualizer as an opt-in debugging
// aid rather than a pipeline stage: it never affects StopAfter
// handling, it only runs when explicitly requested.
func dotDump(prog *ast.Program, src []byte) string {
	var b strings.Builder
	b.WriteString("digraph AST {\n")
	id := 0
	next := func() int { id++; return id }

	var walkExpr func(e ast.Expression) int
	var walkStmt func(s ast.Statement) int

	node := func(label string) int {
		n := next()
		fmt.Fprintf(&b, "  n%d [label=%q];\n", n, label)
		return n
	}
	edge := func(from, to int) {
		fmt.Fprintf(&b, "  n%d -> n%d;\n", from, to)
	}

	walkExpr = func(e ast.Expression) int {
		switch v := e.(type) {
		case *ast.ConstantExpr:
			return node(fmt.Sprintf("Constant(%d)", v.Value))
		case *ast.IdentifierExpr:
			return node("Identifier(" + v.Name.Text(src) + ")")
		case *ast.ParenExpr:
			n := node("Paren")
			edge(n, walkExpr(v.Inner))
			return n
		case *ast.UnaryExpr:
			n := node("Unary")
			edge(n, walkExpr(v.Operand))
			return n
		case *ast.BinaryExpr:
			n := node("Binary")
			edge(n, walkExpr(v.Left))
			edge(n, walkExpr(v.Right))
			return n
		case *ast.AssignExpr:
			n := node("Assign")
			edge(n, walkExpr(v.Left))
			edge(n, walkExpr(v.Right))
			return n
		case *ast.OpAssignExpr:
			n := node("OpAssign")
			edge(n, walkExpr(v.Left))
			edge(n, walkExpr(v.Right))
			return n
		case *ast.ConditionalExpr:
			n := node("Conditional")
			edge(n, walkExpr(v.Cond))
			edge(n, walkExpr(v.Then))
			edge(n, walkExpr(v.Else))
			return n
		case *ast.CallExpr:
			n := node("Call(" + v.Name.Text(src) + ")")
			for _, a := range v.Args {
				edge(n, walkExpr(a))
			}
			return n
		}
		return node("?")
	}

	walkStmt = func(s ast.Statement) int {
		switch v := s.(type) {
		case *ast.ReturnStatement:
			n := node("Return")
			edge(n, walkExpr(v.Expr))
			return n
		case *ast.ExprStatement:
			n := node("ExprStatement")
			edge(n, walkExpr(v.Expr))
			return n
		case *ast.IfStatement:
			n := node("If")
			edge(n, walkExpr(v.Cond))
			edge(n, walkStmt(v.Then))
			if v.Else != nil {
				edge(n, walkStmt(v.Else))
			}
			return n
		case *ast.CompoundStatement:
			n := node("Compound")
			for _, item := range v.Block.Items {
				edge(n, walkBlockItem(item))
			}
			return n
		case *ast.WhileStatement:
			n := node("While")
			edge(n, walkExpr(v.Cond))
			edge(n, walkStmt(v.Body))
			return n
		case *ast.DoWhileStatement:
			n := node("DoWhile")
			edge(n, walkStmt(v.Body))
			edge(n, walkExpr(v.Cond))
			return n
		case *ast.ForStatement:
			n := node("For")
			edge(n, walkStmt(v.Body))
			return n
		case *ast.SwitchStatement:
			n := node("Switch")
			edge(n, walkExpr(v.Value))
			return n
		case *ast.BreakStatement:
			return node("Break")
		case *ast.ContinueStatement:
			return node("Continue")
		case *ast.NullStatement:
			return node("Null")
		}
		return node("?")
	}

	var walkBlockItem func(item ast.BlockItem) int
	walkBlockItem = func(item ast.BlockItem) int {
		switch v := item.(type) {
		case *ast.VariableDeclaration:
			n := node("VarDecl(" + v.Name.Text(src) + ")")
			if v.Initializer != nil {
				edge(n, walkExpr(v.Initializer))
			}
			return n
		case *ast.FunctionDeclaration:
			return walkFunction(v)
		case ast.Statement:
			return walkStmt(v)
		}
		return node("?")
	}

	var walkFunction func(fn *ast.FunctionDeclaration) int
	walkFunction = func(fn *ast.FunctionDeclaration) int {
		n := node("Function(" + fn.Name.Text(src) + ")")
		if fn.Body != nil {
			for _, item := range fn.Body.Items {
				edge(n, walkBlockItem(item))
			}
		}
		return n
	}

	root := node("Program")
	for _, fn := range prog.Functions {
		edge(root, walkFunction(fn))
	}

	b.WriteString("}\n")
	return b.String()
}
