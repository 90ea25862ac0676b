// Package executor runs a synthesized deployment plan as one shell script and
// streams its output. Local runs `sh -c` on this machine; SSH runs the script
// on a remote build host.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Result describes a finished run.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Executor runs a shell script, streaming its stdout and stderr.
type Executor interface {
	Run(ctx context.Context, script string, stdout, stderr io.Writer) (Result, error)
}

// ExecutionError reports a run that did not exit 0. Interrupted runs are
// failures too; nothing is retried.
type ExecutionError struct {
	// ExitCode is -1 when the script never started or was interrupted.
	ExitCode    int
	Interrupted bool
	Err         error
}

func (e *ExecutionError) Error() string {
	switch {
	case e.Interrupted:
		return fmt.Sprintf("deployment interrupted: %v", e.Err)
	case e.ExitCode >= 0:
		return fmt.Sprintf("deployment command exited with status %d", e.ExitCode)
	default:
		return fmt.Sprintf("deployment command failed: %v", e.Err)
	}
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// newExecutionError classifies a failed run. ctxErr wins over the exit code
// because a killed process also reports a status.
func newExecutionError(ctxErr error, exitCode int, err error) *ExecutionError {
	if ctxErr != nil {
		return &ExecutionError{ExitCode: -1, Interrupted: true, Err: ctxErr}
	}
	return &ExecutionError{ExitCode: exitCode, Err: err}
}

// ExitCodeOf extracts the exit code carried by err, 0 for nil and -1 when
// unknown.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.ExitCode
	}
	return -1
}
