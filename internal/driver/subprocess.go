package driver

import (
	"bytes"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// cc is the system C compiler used both as the preprocessor and as the
// assembler/linker backend, matching how gcc/clang is invoked in both
// roles by other toolchains built this way.
const cc = "cc"

// preprocess invokes the system C compiler in preprocess-only mode and
// returns its stdout as the source buffer. Any nonzero exit terminates
// compilation.
func preprocess(path string) ([]byte, error) {
	cmd := exec.Command(cc, "-E", "-P", path, "-o", "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, describeSubprocessFailure(cmd, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// assembleAndMaybeLink hands the assembly file at asmPath to the system
// C compiler, either to assemble only or to assemble and link; the
// result is written to outPath.
func assembleAndMaybeLink(asmPath, outPath string, assembleOnly bool) error {
	args := []string{asmPath, "-o", outPath}
	if assembleOnly {
		args = append(args, "-c")
	}
	cmd := exec.Command(cc, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return describeSubprocessFailure(cmd, err, stderr.String())
	}
	return nil
}

// describeSubprocessFailure unpacks an *exec.ExitError via
// golang.org/x/sys/unix's WaitStatus so the diagnostic distinguishes a
// plain nonzero exit from termination by signal (e.g. the assembler
// being killed), rather than just reporting the opaque *exec.ExitError
// string.
func describeSubprocessFailure(cmd *exec.Cmd, runErr error, stderrText string) error {
	detail := stderrText
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			status := unix.WaitStatus(ws)
			switch {
			case status.Signaled():
				detail += "\n" + cmd.Path + " terminated by signal: " + status.Signal().String()
			case status.Exited():
				detail += "\n" + cmd.Path + " exited with status " + strconv.Itoa(status.ExitStatus())
			}
		}
	}
	return errors.Wrap(&SubprocessError{Command: cmd.String(), Detail: detail}, "subprocess failed")
}
