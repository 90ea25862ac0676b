// Package sshserv is a throwaway SSH build host for trying `sfdeploy deploy
// --target` without a real machine. Every exec request runs with `sh -c` in
// the server's working directory, streams stdout and stderr back and reports
// the exit status. Authentication is disabled and the host key is generated
// on start, so clients must pass --strict-host-key=false.
package sshserv

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"net"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/logger"
)

// Start launches the server on listenAddr (e.g. 127.0.0.1:20222). The
// returned stop function closes the listener and every open connection,
// kills running commands and waits for all goroutines to finish.
func Start(listenAddr string) (addr string, stop func(), err error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", nil, err
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		return "", nil, err
	}
	cfg := &ssh.ServerConfig{NoClientAuth: true}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return "", nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &server{cfg: cfg, ctx: ctx}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				if !errors.Is(err, net.ErrClosed) {
					logger.Warn("accept failed", zap.Error(err))
				}
				return
			}
			s.track(conn)
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.handleConn(conn)
			}()
		}
	}()

	stop = func() {
		cancel()
		_ = ln.Close()
		s.closeAll()
		s.wg.Wait()
	}
	return ln.Addr().String(), stop, nil
}

type server struct {
	cfg *ssh.ServerConfig
	ctx context.Context
	wg  sync.WaitGroup

	mu    sync.Mutex
	conns []net.Conn
}

func (s *server) track(c net.Conn) {
	s.mu.Lock()
	s.conns = append(s.conns, c)
	s.mu.Unlock()
}

func (s *server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.Close()
	}
}

func (s *server) handleConn(raw net.Conn) {
	sc, chans, reqs, err := ssh.NewServerConn(raw, s.cfg)
	if err != nil {
		_ = raw.Close()
		return
	}
	logger.Debug("client connected", zap.String("user", sc.User()), zap.Stringer("remote", sc.RemoteAddr()))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ssh.DiscardRequests(reqs)
	}()
	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "")
			continue
		}
		ch, in, err := nc.Accept()
		if err != nil {
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleSession(ch, in)
		}()
	}
}

func (s *server) handleSession(ch ssh.Channel, in <-chan *ssh.Request) {
	defer ch.Close()
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	for req := range in {
		switch req.Type {
		case "exec":
			var payload struct{ Command string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			done := make(chan uint32, 1)
			go func() { done <- s.run(ctx, ch, payload.Command) }()
			// A signal or a closed channel from the client ends the command.
			for {
				select {
				case code := <-done:
					_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{code}))
					return
				case r, ok := <-in:
					if !ok {
						cancel()
						<-done
						return
					}
					if r.Type == "signal" {
						cancel()
					}
					if r.WantReply {
						_ = r.Reply(false, nil)
					}
				}
			}
		default:
			_ = req.Reply(false, nil)
		}
	}
}

// run executes command and returns its exit status, 255 when it could not
// be started.
func (s *server) run(ctx context.Context, ch ssh.Channel, command string) uint32 {
	logger.Info("exec", zap.String("command", command))
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = ch
	cmd.Stderr = ch.Stderr()
	cmd.WaitDelay = 2 * time.Second
	err := cmd.Run()
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() >= 0 {
		return uint32(ee.ExitCode())
	}
	return 255
}
