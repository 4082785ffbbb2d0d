package driver

import (
	"fmt"

	"github.com/pkg/errors"
)

// StageError wraps an underlying stage error (a lexer.Error, one of
// the parser.*Error types, or one of the sema.*Error types, or an
// InitError under stage "init") with the stage it came from, so diagnostics can report both consistently
// without every stage needing to know about formatting.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// wrapStage attaches stage context to err via pkg/errors, preserving
// the original error for errors.Cause while adding a stack trace at
// the point of failure.
func wrapStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(&StageError{Stage: stage, Err: err}, stage+" failed")
}

// InitError covers driver-level problems outside the compiler stages:
// a missing input file, or a failure writing the AST dump, the
// assembly, or the temporary assembly file. Subprocess failures are
// reported as SubprocessError instead.
type InitError struct {
	Detail string
}

func (e *InitError) Error() string { return "initialization: " + e.Detail }

// SubprocessError reports a nonzero exit (or signal termination) from
// the external preprocessor or assembler/linker.
type SubprocessError struct {
	Command string
	Detail  string
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Detail)
}
