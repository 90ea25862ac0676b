package executor

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"time"
)

// DefaultShell interprets plans.
const DefaultShell = "sh"

// Local runs scripts with `<Shell> -c` on this machine.
type Local struct {
	// Dir is the working directory, normally the build workspace.
	Dir   string
	Shell string
	// Env is appended to the inherited environment.
	Env []string
}

func (l *Local) Run(ctx context.Context, script string, stdout, stderr io.Writer) (Result, error) {
	shell := l.Shell
	if shell == "" {
		shell = DefaultShell
	}
	cmd := exec.CommandContext(ctx, shell, "-c", script)
	cmd.Dir = l.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if len(l.Env) > 0 {
		cmd.Env = append(cmd.Environ(), l.Env...)
	}
	// An interrupt must stop sfctl too, not only the shell.
	setProcessGroup(cmd)
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	err := cmd.Run()
	res := Result{Duration: time.Since(start)}
	if err == nil {
		return res, nil
	}

	res.ExitCode = -1
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		res.ExitCode = ee.ExitCode()
	}
	xerr := newExecutionError(ctx.Err(), res.ExitCode, err)
	res.ExitCode = xerr.ExitCode
	return res, xerr
}
