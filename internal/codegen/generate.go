package codegen

import "github.com/smallc-lang/smallc/internal/tactile"

// Generate runs all three codegen passes over a lowered TACTILE
// program in order: selection, pseudo-to-stack assignment, then
// legalization.
func Generate(prog tactile.Program) Program {
	out := Select(prog)
	out = AssignStack(out)
	out = Legalize(out)
	return out
}
