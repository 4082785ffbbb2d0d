package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Run executes a complete compiler invocation: preprocess, run the
// pipeline up to opts.StopAfter, and (for the three assembly-producing
// stop points) hand the result to the system assembler/linker. It
// returns the process exit status: 0 on success, 1 on any reported
// error. Diagnostics are written to stderr; per §6, the final assembly
// for -S goes to stdout.
func Run(opts Options, stderr, stdout io.Writer) int {
	if err := run(opts, stdout); err != nil {
		reportError(stderr, err)
		return 1
	}
	return 0
}

func run(opts Options, stdout io.Writer) error {
	if opts.InputPath == "" {
		return wrapStage("init", &InitError{Detail: "no input file given"})
	}

	src, err := preprocess(opts.InputPath)
	if err != nil {
		return errors.Wrap(err, "preprocessing "+opts.InputPath)
	}

	p := NewPipeline(src)
	if err := p.Lex(); err != nil {
		return err
	}
	if opts.StopAfter == StopAfterLex {
		return nil
	}

	if err := p.Parse(); err != nil {
		return err
	}
	if opts.DumpASTDot != "" {
		if err := writeDotDump(p, opts.DumpASTDot); err != nil {
			return err
		}
	}
	if opts.StopAfter == StopAfterParse {
		return nil
	}

	if err := p.Validate(); err != nil {
		return err
	}
	if opts.StopAfter == StopAfterValidate {
		return nil
	}

	if err := p.LowerToTactile(); err != nil {
		return err
	}
	if opts.StopAfter == StopAfterTactile {
		return nil
	}

	if err := p.GenerateCode(); err != nil {
		return err
	}
	if opts.StopAfter == StopAfterCodegen {
		return nil
	}

	if err := p.EmitAssembly(); err != nil {
		return err
	}
	asm := p.AssemblyText()

	switch opts.StopAfter {
	case StopAfterEmitAssembly:
		return writeAssembly(asm, opts.OutputPath, stdout)
	case StopAfterAssemble:
		return assembleTo(asm, outputPathFor(opts, ".o"), true)
	default: // StopAfterLink
		return assembleTo(asm, outputPathOrDefault(opts.OutputPath, "a.out"), false)
	}
}

func writeDotDump(p *Pipeline, path string) error {
	dot := dotDump(p.AST(), p.Src())
	if path == "-" {
		fmt.Print(dot)
		return nil
	}
	if err := os.WriteFile(path, []byte(dot), 0o644); err != nil {
		return wrapStage("init", &InitError{Detail: "writing AST dot dump: " + err.Error()})
	}
	return nil
}

func writeAssembly(asm, outputPath string, stdout io.Writer) error {
	if outputPath == "" || outputPath == "-" {
		_, err := io.WriteString(stdout, asm)
		return err
	}
	if err := os.WriteFile(outputPath, []byte(asm), 0o644); err != nil {
		return wrapStage("init", &InitError{Detail: "writing assembly: " + err.Error()})
	}
	return nil
}

func assembleTo(asm, outputPath string, assembleOnly bool) error {
	tmp, err := os.CreateTemp("", "smallc-*.s")
	if err != nil {
		return wrapStage("init", &InitError{Detail: "creating temporary assembly file: " + err.Error()})
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(asm); err != nil {
		tmp.Close()
		return wrapStage("init", &InitError{Detail: "writing temporary assembly file: " + err.Error()})
	}
	if err := tmp.Close(); err != nil {
		return wrapStage("init", &InitError{Detail: "closing temporary assembly file: " + err.Error()})
	}

	if err := assembleAndMaybeLink(tmp.Name(), outputPath, assembleOnly); err != nil {
		return errors.Wrap(err, "assembling/linking")
	}
	return nil
}

func outputPathFor(opts Options, ext string) string {
	if opts.OutputPath != "" {
		return opts.OutputPath
	}
	stem := strings.TrimSuffix(filepath.Base(opts.InputPath), filepath.Ext(opts.InputPath))
	return stem + ext
}

func outputPathOrDefault(path, def string) string {
	if path == "" {
		return def
	}
	return path
}
