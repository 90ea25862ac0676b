package executor

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// execServer is an in-process SSH server. Every exec request records the
// command, writes "ran\n" to stdout and "warn\n" to stderr and exits with
// exitCode, unless hang is set, in which case it waits for the client to
// close the channel.
type execServer struct {
	ln       net.Listener
	exitCode uint32
	hang     bool

	wg    sync.WaitGroup
	mu    sync.Mutex
	conns []net.Conn
	cmds  []string
}

func startExecServer(t *testing.T, exitCode uint32, hang bool) *execServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)
	cfg := &ssh.ServerConfig{NoClientAuth: true}
	cfg.AddHostKey(signer)

	s := &execServer{ln: ln, exitCode: exitCode, hang: hang}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.conns = append(s.conns, conn)
			s.mu.Unlock()
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.serveConn(conn, cfg)
			}()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		s.mu.Lock()
		for _, c := range s.conns {
			_ = c.Close()
		}
		s.mu.Unlock()
		s.wg.Wait()
	})
	return s
}

func (s *execServer) serveConn(conn net.Conn, cfg *ssh.ServerConfig) {
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
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
			s.serveSession(ch, in)
		}()
	}
}

func (s *execServer) serveSession(ch ssh.Channel, in <-chan *ssh.Request) {
	defer ch.Close()
	for req := range in {
		if req.Type != "exec" {
			_ = req.Reply(false, nil)
			continue
		}
		var payload struct{ Command string }
		_ = ssh.Unmarshal(req.Payload, &payload)
		s.mu.Lock()
		s.cmds = append(s.cmds, payload.Command)
		s.mu.Unlock()
		_ = req.Reply(true, nil)
		if s.hang {
			continue
		}
		_, _ = io.WriteString(ch, "ran\n")
		_, _ = io.WriteString(ch.Stderr(), "warn\n")
		_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{s.exitCode}))
		return
	}
}

func (s *execServer) commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cmds...)
}

func insecureConfig(addr string) SSHConfig {
	return SSHConfig{Target: addr, User: "builder", StrictHostKey: false, DialTimeout: 3 * time.Second}
}

func TestSSH_RunSuccess(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")
	srv := startExecServer(t, 0, false)

	var out, errOut bytes.Buffer
	x := &SSH{Config: insecureConfig(srv.ln.Addr().String()), Dir: "/var/lib/jenkins/workspace/my job"}
	res, err := x.Run(context.Background(), "sfctl cluster select --endpoint http://10.0.0.5:19080 && cd .", &out, &errOut)
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "ran\n", out.String())
	require.Equal(t, "warn\n", errOut.String())
	require.Equal(t,
		[]string{"cd '/var/lib/jenkins/workspace/my job' && { sfctl cluster select --endpoint http://10.0.0.5:19080 && cd . ; }"},
		srv.commands())
}

func TestSSH_RunExitStatus(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")
	srv := startExecServer(t, 3, false)

	x := &SSH{Config: insecureConfig(srv.ln.Addr().String())}
	res, err := x.Run(context.Background(), "false", io.Discard, io.Discard)
	require.Error(t, err)
	require.Equal(t, 3, res.ExitCode)
	var xe *ExecutionError
	require.True(t, errors.As(err, &xe))
	require.Equal(t, 3, xe.ExitCode)
	require.False(t, xe.Interrupted)
	require.Equal(t, []string{"false"}, srv.commands())
}

func TestSSH_RunInterrupted(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")
	srv := startExecServer(t, 0, true)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	x := &SSH{Config: insecureConfig(srv.ln.Addr().String())}
	res, err := x.Run(ctx, "sleep 600", io.Discard, io.Discard)
	require.Equal(t, -1, res.ExitCode)
	var xe *ExecutionError
	require.True(t, errors.As(err, &xe))
	require.True(t, xe.Interrupted)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestSSH_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	x := &SSH{Config: insecureConfig(addr)}
	_, err = x.Run(context.Background(), "true", nil, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ssh connection failed")
	require.Equal(t, -1, ExitCodeOf(err))
}

func TestSSH_StrictHostKeyNeedsKnownHosts(t *testing.T) {
	cfg := insecureConfig("127.0.0.1:1")
	cfg.StrictHostKey = true
	cfg.KnownHosts = filepath.Join(t.TempDir(), "known_hosts")
	_, err := dialSSH(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "known_hosts file not found")
}

func TestSSHConfig_Address(t *testing.T) {
	require.Equal(t, "build01:22", SSHConfig{Target: "build01"}.address())
	require.Equal(t, "build01:2222", SSHConfig{Target: "build01:2222"}.address())
}

// fakeClient / fakeSession drive runRemoteCommand without a network.
type fakeSession struct {
	startErr error
	waitErr  error
	closed   bool
}

func (s *fakeSession) SetOutput(stdout, stderr io.Writer) {}
func (s *fakeSession) Start(cmd string) error             { return s.startErr }
func (s *fakeSession) Wait() error                        { return s.waitErr }
func (s *fakeSession) Signal(sig ssh.Signal) error        { return nil }

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeClient struct {
	sess   *fakeSession
	newErr error
}

func (c *fakeClient) NewSession() (session, error) {
	if c.newErr != nil {
		return nil, c.newErr
	}
	return c.sess, nil
}
func (c *fakeClient) Close() error { return nil }

func TestRunRemoteCommand_Errors(t *testing.T) {
	code, err := runRemoteCommand(context.Background(), &fakeClient{newErr: errors.New("no session")}, "x", nil, nil)
	require.Error(t, err)
	require.Equal(t, -1, code)

	s := &fakeSession{startErr: errors.New("start failed")}
	code, err = runRemoteCommand(context.Background(), &fakeClient{sess: s}, "x", nil, nil)
	require.EqualError(t, err, "start failed")
	require.Equal(t, -1, code)
	require.True(t, s.closed)

	s = &fakeSession{waitErr: errors.New("connection lost")}
	code, err = runRemoteCommand(context.Background(), &fakeClient{sess: s}, "x", nil, nil)
	require.Error(t, err)
	require.Equal(t, -1, code)
}

func TestRunWithStubbedDial(t *testing.T) {
	orig := dialSSHFunc
	t.Cleanup(func() { dialSSHFunc = orig })
	var gotCfg SSHConfig
	dialSSHFunc = func(cfg SSHConfig) (sessionClient, error) {
		gotCfg = cfg
		return &fakeClient{sess: &fakeSession{}}, nil
	}
	x := &SSH{Config: SSHConfig{Target: "build01", User: "jenkins"}}
	res, err := x.Run(context.Background(), "true", nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "jenkins", gotCfg.User)
}

func TestLoadSigner(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)}
	p := filepath.Join(t.TempDir(), "id_rsa")
	require.NoError(t, os.WriteFile(p, pem.EncodeToMemory(block), 0o600))

	s, err := loadSigner(p, "")
	require.NoError(t, err)
	require.Equal(t, "ssh-rsa", s.PublicKey().Type())

	_, err = loadSigner(filepath.Join(t.TempDir(), "missing"), "")
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad")
	require.NoError(t, os.WriteFile(bad, []byte("not a key"), 0o600))
	_, err = loadSigner(bad, "")
	require.Error(t, err)
}
