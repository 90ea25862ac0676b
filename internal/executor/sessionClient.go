package executor

import (
	"io"

	"golang.org/x/crypto/ssh"
)

// sessionClient opens remote command sessions.
type sessionClient interface {
	NewSession() (session, error)
	Close() error
}

// session runs one remote command with streamed output.
type session interface {
	SetOutput(stdout, stderr io.Writer)
	Start(cmd string) error
	Wait() error
	Signal(sig ssh.Signal) error
	Close() error
}
