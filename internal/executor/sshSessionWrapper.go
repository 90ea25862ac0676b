package executor

import (
	"io"

	"golang.org/x/crypto/ssh"
)

// sshSessionWrapper adapts *ssh.Session to session
type sshSessionWrapper struct {
	s *ssh.Session
}

func (w sshSessionWrapper) SetOutput(stdout, stderr io.Writer) {
	w.s.Stdout = stdout
	w.s.Stderr = stderr
}

func (w sshSessionWrapper) Start(cmd string) error      { return w.s.Start(cmd) }
func (w sshSessionWrapper) Wait() error                 { return w.s.Wait() }
func (w sshSessionWrapper) Signal(sig ssh.Signal) error { return w.s.Signal(sig) }
func (w sshSessionWrapper) Close() error                { return w.s.Close() }
