package driver

// Options is the fully-parsed, validated configuration for a single
// compiler invocation, built by cmd/cc from cobra/pflag flags.
type Options struct {
	InputPath string
	StopAfter StopAfter

	// OutputPath, when empty, defaults per StopAfter: stdout for -S,
	// "<input-stem>.o" for -c, "a.out" for a link.
	OutputPath string

	// DumpASTDot, when non-empty, writes a Graphviz rendering of the
	// parsed AST to the named path (or stdout, for "-") and continues
	// the pipeline normally; it never changes StopAfter.
	DumpASTDot string
}
