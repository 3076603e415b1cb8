// Package sshlib provides a transport implementation using the built-in SSH
// client from golang.org/x/crypto/ssh.
//
// Unlike the openssh backend, this one keeps a single connection open for the
// whole invocation, which makes the many small commands of a tree load
// noticeably faster on the tablet's slow CPU. It does not read ~/.ssh/config;
// the host string must be a real hostname or IP.
package sshlib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"

	"github.com/stacybrock/reMarkable-remtool/internal/remote"
)

func init() {
	remote.Register(remote.TypeSSHLib, New)
}

// SSHLib implements remote.Runner over a persistent ssh connection.
type SSHLib struct {
	opts remote.Options

	mu     sync.Mutex
	client *ssh.Client
	closed bool
}

// New dials the device and returns a connected transport. Dial failures are
// reported as ErrUnreachable so the factory can fall back to openssh.
func New(opts remote.Options) (remote.Runner, error) {
	auth, err := authMethods(opts)
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback(),
		Timeout:         opts.Timeout,
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		if strings.Contains(err.Error(), "unable to authenticate") {
			return nil, fmt.Errorf("%w: %s: %v", remote.ErrAuthFailed, addr, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", remote.ErrUnreachable, addr, err)
	}

	return &SSHLib{opts: opts, client: client}, nil
}

// Name returns the transport type (ssh).
func (s *SSHLib) Name() remote.Type {
	return remote.TypeSSHLib
}

// Run executes command through the remote shell.
func (s *SSHLib) Run(ctx context.Context, command string) ([]byte, error) {
	return s.output(ctx, command, nil)
}

// RunScript feeds script to a remote non-interactive shell over stdin.
func (s *SSHLib) RunScript(ctx context.Context, script string) ([]byte, error) {
	return s.output(ctx, "sh -s", strings.NewReader(script))
}

// Copy uploads localPath by streaming it into `cat` on the device. The scp
// protocol would need a second binary on the tablet side; cat is always there.
func (s *SSHLib) Copy(ctx context.Context, localPath, remotePath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", remote.ErrCopyFailed, localPath, err)
	}
	defer f.Close()

	if _, err := s.output(ctx, "cat > "+shellQuote(remotePath), f); err != nil {
		return fmt.Errorf("%w: %s -> %s: %v", remote.ErrCopyFailed, localPath, remotePath, err)
	}
	return nil
}

// Close shuts down the connection.
func (s *SSHLib) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// output runs command in a fresh session with optional stdin, honoring both
// the context and the configured per-command timeout.
func (s *SSHLib) output(ctx context.Context, command string, stdin io.Reader) ([]byte, error) {
	s.mu.Lock()
	client, closed := s.client, s.closed
	s.mu.Unlock()
	if closed || client == nil {
		return nil, remote.ErrClosed
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	sess, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("%w: opening session: %v", remote.ErrUnreachable, err)
	}
	defer sess.Close()

	if stdin != nil {
		sess.Stdin = stdin
	}
	var stdout, stderr strings.Builder
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- sess.Run(command) }()

	select {
	case <-ctx.Done():
		sess.Close()
		return nil, fmt.Errorf("%w: %s: %v", remote.ErrCommandFailed, command, ctx.Err())
	case err = <-done:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s (exit %d): %s",
				remote.ErrCommandFailed, command, exitErr.ExitStatus(),
				remote.StderrTail([]byte(stderr.String())))
		}
		return nil, fmt.Errorf("%w: %s: %v", remote.ErrUnreachable, command, err)
	}

	return []byte(stdout.String()), nil
}

// shellQuote wraps s in single quotes for the remote shell, escaping embedded
// single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
