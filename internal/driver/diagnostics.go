package driver

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	stageLabel = color.New(color.FgYellow).SprintFunc()
)

// reportError writes a single-line, colorized diagnostic to w. Color
// is only ever decorative: fatih/color already detects non-terminal
// writers and degrades to plain text, so callers never need to check
// isatty themselves.
func reportError(w io.Writer, err error) {
	if se, ok := errors.Cause(err).(*StageError); ok {
		fmt.Fprintf(w, "%s [%s] %s\n", errorLabel("error:"), stageLabel(se.Stage), se.Err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", errorLabel("error:"), err)
}
