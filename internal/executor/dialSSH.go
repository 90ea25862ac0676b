package executor

import (
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHConfig describes how to reach the remote build host.
type SSHConfig struct {
	// Target is host:port; a bare host gets port 22.
	Target        string
	User          string
	Password      string
	KeyPath       string
	Passphrase    string
	KnownHosts    string
	StrictHostKey bool
	DialTimeout   time.Duration
}

func (c SSHConfig) address() string {
	if _, _, err := net.SplitHostPort(c.Target); err == nil {
		return c.Target
	}
	return net.JoinHostPort(c.Target, "22")
}

// dialSSH establishes an SSH client connection. Auth methods are tried in
// order: private key, password, then a running ssh-agent.
func dialSSH(cfg SSHConfig) (*ssh.Client, error) {
	var auths []ssh.AuthMethod

	if cfg.KeyPath != "" {
		signer, err := loadSigner(cfg.KeyPath, cfg.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("load key: %w", err)
		}
		auths = append(auths, ssh.PublicKeys(signer))
	}

	if cfg.Password != "" {
		auths = append(auths, ssh.Password(cfg.Password))
	}

	if a := os.Getenv("SSH_AUTH_SOCK"); a != "" {
		if conn, err := net.Dial("unix", a); err == nil {
			ag := agent.NewClient(conn)
			auths = append(auths, ssh.PublicKeysCallback(ag.Signers))
		}
	}

	var hostKeyCB ssh.HostKeyCallback
	if cfg.StrictHostKey {
		if _, err := os.Stat(cfg.KnownHosts); err != nil {
			return nil, fmt.Errorf("known_hosts file not found at %s and strict-host-key is enabled", cfg.KnownHosts)
		}
		cb, err := knownhosts.New(cfg.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("known_hosts: %w", err)
		}
		hostKeyCB = cb
	} else {
		hostKeyCB = ssh.InsecureIgnoreHostKey()
	}

	addr := cfg.address()
	clientCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auths,
		HostKeyCallback: hostKeyCB,
		Timeout:         cfg.DialTimeout,
	}

	d := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, clientCfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}
