// Package sema implements the three semantic-analysis sub-passes:
// identifier resolution, loop & switch labeling, and type checking.
// Each is a distinct file mirroring the distinct modules the reference
// implementation kept them as.
package sema

import "fmt"

type DeclaredTwiceError struct {
	Name string
}

func (e *DeclaredTwiceError) Error() string {
	return fmt.Sprintf("%q declared twice in the same scope", e.Name)
}

type UndeclaredIdentifierError struct {
	Name string
}

func (e *UndeclaredIdentifierError) Error() string {
	return fmt.Sprintf("undeclared identifier %q", e.Name)
}

type InvalidLValueError struct{}

func (e *InvalidLValueError) Error() string { return "invalid lvalue in assignment" }

// BreakOutsideLoopError covers both a stray break and a stray
// continue: spec.md §7's error taxonomy has no separate continue kind,
// and original_source/src/semantic_analysis/loop_labeling.rs resolves
// both cases to its single Error::BreakOutsideLoop variant.
type BreakOutsideLoopError struct{}

func (e *BreakOutsideLoopError) Error() string { return "break statement outside of loop or switch" }

type IncompatibleFunctionDeclarationsError struct {
	Name string
}

func (e *IncompatibleFunctionDeclarationsError) Error() string {
	return fmt.Sprintf("incompatible redeclaration of function %q", e.Name)
}

type FunctionDefinedMoreThanOnceError struct {
	Name string
}

func (e *FunctionDefinedMoreThanOnceError) Error() string {
	return fmt.Sprintf("function %q defined more than once", e.Name)
}

type WrongTypeError struct {
	Detail string
}

func (e *WrongTypeError) Error() string { return fmt.Sprintf("wrong type: %s", e.Detail) }

type NestedFunctionDeclarationError struct {
	Name string
}

func (e *NestedFunctionDeclarationError) Error() string {
	return fmt.Sprintf("nested declaration of function %q at non-zero scope", e.Name)
}
