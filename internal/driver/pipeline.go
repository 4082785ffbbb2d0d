package driver

import (
	"github.com/smallc-lang/smallc/internal/ast"
	"github.com/smallc-lang/smallc/internal/codegen"
	"github.com/smallc-lang/smallc/internal/emitter"
	"github.com/smallc-lang/smallc/internal/lexer"
	"github.com/smallc-lang/smallc/internal/parser"
	"github.com/smallc-lang/smallc/internal/sema"
	"github.com/smallc-lang/smallc/internal/tactile"
	"github.com/smallc-lang/smallc/internal/token"
)

// Pipeline threads one translation unit through C1-C6, one stage at a
// time. It recovers the reference implementation's Program<State>
// phantom-typed stages as a runtime-checked Stage field: Go has no
// cheap way to encode "this method only exists once the struct has
// reached state X" in the type system without a different type per
// stage, so each stage-advancing method instead asserts its
// precondition and panics on violation. That's deliberate: calling a
// stage out of order is a driver bug, not a user-reachable error, and
// panics are exactly what internal invariant violations are for.
type Pipeline struct {
	stage Stage
	src   []byte

	tokens []token.Token
	prog   *ast.Program
	sema   sema.Result
	ir     tactile.Program
	asm    codegen.Program
	text   string
}

// NewPipeline starts a Pipeline at StageInit from the given
// already-preprocessed source buffer.
func NewPipeline(src []byte) *Pipeline {
	return &Pipeline{stage: StageInit, src: src}
}

func (p *Pipeline) requireStage(want Stage) {
	if p.stage != want {
		panic("driver: pipeline stage precondition violated: at " + p.stage.String() + ", need " + want.String())
	}
}

// Lex runs C1.
func (p *Pipeline) Lex() error {
	p.requireStage(StageInit)
	toks, err := lexer.Lex(p.src)
	if err != nil {
		return wrapStage("lex", err)
	}
	p.tokens = toks
	p.stage = StageLexed
	return nil
}

// Parse runs C2.
func (p *Pipeline) Parse() error {
	p.requireStage(StageLexed)
	prog, err := parser.Parse(p.tokens, p.src)
	if err != nil {
		return wrapStage("parse", err)
	}
	p.prog = prog
	p.stage = StageParsed
	return nil
}

// Validate runs C3.
func (p *Pipeline) Validate() error {
	p.requireStage(StageParsed)
	result, err := sema.Analyze(p.prog, p.src)
	if err != nil {
		return wrapStage("validate", err)
	}
	p.sema = result
	p.stage = StageValidated
	return nil
}

// LowerToTactile runs C4.
func (p *Pipeline) LowerToTactile() error {
	p.requireStage(StageValidated)
	p.ir = tactile.Lower(p.prog, p.src, p.sema.MaxVariableID+1, p.sema.MaxLabel)
	p.stage = StageLowered
	return nil
}

// GenerateCode runs C5.
func (p *Pipeline) GenerateCode() error {
	p.requireStage(StageLowered)
	p.asm = codegen.Generate(p.ir)
	p.stage = StageCodeGenerated
	return nil
}

// EmitAssembly runs C6.
func (p *Pipeline) EmitAssembly() error {
	p.requireStage(StageCodeGenerated)
	p.text = emitter.Emit(p.asm)
	p.stage = StageEmitted
	return nil
}

// AssemblyText returns the emitted assembly; valid only once Stage is
// StageEmitted.
func (p *Pipeline) AssemblyText() string {
	p.requireStage(StageEmitted)
	return p.text
}

// AST exposes the parsed program for the optional dot-dump flag; valid
// from StageParsed onward.
func (p *Pipeline) AST() *ast.Program {
	if p.stage < StageParsed {
		panic("driver: AST requested before parsing completed")
	}
	return p.prog
}

// Src exposes the (already preprocessed) source buffer backing every
// span in the AST, needed to recover identifier text for diagnostics
// and the dot-dump.
func (p *Pipeline) Src() []byte { return p.src }
