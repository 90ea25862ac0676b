package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/deploy"
)

// dialSSHFunc is swapped out in tests.
var dialSSHFunc = func(cfg SSHConfig) (sessionClient, error) {
	c, err := dialSSH(cfg)
	if err != nil {
		return nil, err
	}
	return sshClientWrapper{c}, nil
}

// SSH runs scripts on a remote build host, one connection per run.
type SSH struct {
	Config SSHConfig
	// Dir is the remote directory to run in; empty keeps the login directory.
	Dir string
}

func (s *SSH) Run(ctx context.Context, script string, stdout, stderr io.Writer) (Result, error) {
	start := time.Now()
	client, err := dialSSHFunc(s.Config)
	if err != nil {
		return Result{ExitCode: -1}, &ExecutionError{ExitCode: -1, Err: fmt.Errorf("ssh connection failed: %w", err)}
	}
	defer func() { _ = client.Close() }()

	code, err := runRemoteCommand(ctx, client, s.remoteScript(script), stdout, stderr)
	res := Result{ExitCode: code, Duration: time.Since(start)}
	if err == nil {
		return res, nil
	}
	xerr := newExecutionError(ctx.Err(), code, err)
	res.ExitCode = xerr.ExitCode
	return res, xerr
}

func (s *SSH) remoteScript(script string) string {
	if s.Dir == "" {
		return script
	}
	return deploy.Command{"cd", s.Dir}.String() + " && { " + script + " ; }"
}

// runRemoteCommand starts cmd in a new session and waits for it, streaming
// output. Cancelling ctx signals the remote process and closes the session.
func runRemoteCommand(ctx context.Context, client sessionClient, cmd string, stdout, stderr io.Writer) (int, error) {
	sess, err := client.NewSession()
	if err != nil {
		return -1, err
	}
	defer func() { _ = sess.Close() }()

	sess.SetOutput(stdout, stderr)
	if err := sess.Start(cmd); err != nil {
		return -1, err
	}

	done := make(chan error, 1)
	go func() { done <- sess.Wait() }()

	select {
	case err := <-done:
		return exitStatus(err)
	case <-ctx.Done():
		_ = sess.Signal(ssh.SIGTERM)
		_ = sess.Close()
		<-done
		return -1, ctx.Err()
	}
}

func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var ee *ssh.ExitError
	if errors.As(err, &ee) {
		return ee.ExitStatus(), err
	}
	return -1, err
}
