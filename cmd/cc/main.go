// Command cc is the entry point for the compiler: a thin cobra-based
// CLI that parses flags into driver.Options and hands off to
// internal/driver for everything else.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smallc-lang/smallc/internal/driver"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		lexOnly      bool
		parseOnly    bool
		validateOnly bool
		tactileOnly  bool
		codegenOnly  bool
		emitAsm      bool
		assembleOnly bool
		linkExplicit bool
		outputPath   string
		dumpASTDot   string
	)

	root := &cobra.Command{
		Use:           "cc [flags] <file.c>",
		Short:         "Compile a single C translation unit to an x86-64 Linux binary.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := driver.Options{
				InputPath:  args[0],
				OutputPath: outputPath,
				DumpASTDot: dumpASTDot,
				StopAfter:  resolveStopAfter(lexOnly, parseOnly, validateOnly, tactileOnly, codegenOnly, emitAsm, assembleOnly, linkExplicit),
			}
			code := driver.Run(opts, cmd.ErrOrStderr(), cmd.OutOrStdout())
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}

	flags := root.Flags()
	flags.BoolVar(&lexOnly, "lex", false, "stop after lexing")
	flags.BoolVar(&parseOnly, "parse", false, "stop after parsing")
	flags.BoolVar(&validateOnly, "validate", false, "stop after semantic analysis")
	flags.BoolVar(&tactileOnly, "tactile", false, "stop after lowering to the TACTILE intermediate form")
	flags.BoolVar(&tactileOnly, "tacky", false, "alias of --tactile")
	flags.BoolVar(&codegenOnly, "codegen", false, "stop after instruction selection")
	flags.BoolVarP(&emitAsm, "S", "S", false, "emit assembly only, no assemble/link")
	flags.BoolVarP(&assembleOnly, "c", "c", false, "assemble but do not link, emit an object file")
	flags.BoolVarP(&linkExplicit, "C", "C", false, "assemble and link (default when no flag is given)")
	flags.StringVarP(&outputPath, "output", "o", "", "output path (defaults depend on the stop point)")
	flags.StringVar(&dumpASTDot, "dump-ast", "", "write a Graphviz rendering of the AST to the given path (\"-\" for stdout)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func resolveStopAfter(lexOnly, parseOnly, validateOnly, tactileOnly, codegenOnly, emitAsm, assembleOnly, linkExplicit bool) driver.StopAfter {
	switch {
	case lexOnly:
		return driver.StopAfterLex
	case parseOnly:
		return driver.StopAfterParse
	case validateOnly:
		return driver.StopAfterValidate
	case tactileOnly:
		return driver.StopAfterTactile
	case codegenOnly:
		return driver.StopAfterCodegen
	case emitAsm:
		return driver.StopAfterEmitAssembly
	case assembleOnly:
		return driver.StopAfterAssemble
	case linkExplicit:
		return driver.StopAfterLink
	default:
		return driver.StopAfterLink
	}
}
