// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"bytes"
	"errors"
	"io/fs"
	"os/exec"
)

// capturedOutput holds the stdout and stderr buffers of one invocation.
// Every invocation owns its own buffers.
type capturedOutput struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// attach points cmd's output streams at the capture buffers.
func (c *capturedOutput) attach(cmd *exec.Cmd) {
	cmd.Stdout = &c.stdout
	cmd.Stderr = &c.stderr
}

// compileErrorFrom builds a CompileError from a finished process.
func compileErrorFrom(source string, exitErr *exec.ExitError, captured *capturedOutput) *CompileError {
	ce := &CompileError{
		Source: source,
		Stdout: captured.stdout.String(),
		Stderr: captured.stderr.String(),
	}
	if exitErr.ProcessState != nil && exitErr.ProcessState.Exited() {
		ce.Exited = true
		ce.ExitCode = ExitCode(exitErr.ExitCode())
	}
	return ce
}

// isNotFound reports whether a start failure means the executable does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
