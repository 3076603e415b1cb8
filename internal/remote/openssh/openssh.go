// Package openssh provides a transport implementation that shells out to the
// system ssh and scp binaries.
//
// This backend inherits the user's ~/.ssh/config, so host aliases, per-host
// keys, and agent forwarding all work without any remtool configuration.
// BatchMode is forced: a device that demands an interactive password fails
// fast instead of hanging a scripted run.
package openssh

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/stacybrock/reMarkable-remtool/internal/remote"
)

func init() {
	remote.Register(remote.TypeOpenSSH, New)
}

// OpenSSH implements remote.Runner using the ssh/scp binaries.
type OpenSSH struct {
	opts remote.Options

	// sshPath and scpPath are the resolved binary locations
	sshPath string
	scpPath string
}

// New creates an openssh-backed transport. Fails with ErrTransportUnavailable
// when the ssh or scp binary is not in PATH.
func New(opts remote.Options) (remote.Runner, error) {
	sshPath, err := exec.LookPath("ssh")
	if err != nil {
		return nil, fmt.Errorf("%w: ssh binary not found in PATH", remote.ErrTransportUnavailable)
	}
	scpPath, err := exec.LookPath("scp")
	if err != nil {
		return nil, fmt.Errorf("%w: scp binary not found in PATH", remote.ErrTransportUnavailable)
	}

	return &OpenSSH{opts: opts, sshPath: sshPath, scpPath: scpPath}, nil
}

// Name returns the transport type (openssh).
func (o *OpenSSH) Name() remote.Type {
	return remote.TypeOpenSSH
}

// dest returns the user@host argument for ssh/scp.
func (o *OpenSSH) dest() string {
	return o.opts.User + "@" + o.opts.Host
}

// sshArgs assembles the common ssh argument prefix.
func (o *OpenSSH) sshArgs(extra ...string) []string {
	args := []string{"-o", "BatchMode=yes", "-p", strconv.Itoa(o.opts.Port)}
	if o.opts.IdentityFile != "" {
		args = append(args, "-i", o.opts.IdentityFile)
	}
	args = append(args, extra...)
	return args
}

// Run executes command through the remote shell.
func (o *OpenSSH) Run(ctx context.Context, command string) ([]byte, error) {
	args := append(o.sshArgs(), o.dest(), command)
	out, err := remote.ExecContext(ctx, o.opts.Timeout, nil, o.sshPath, args...)
	if err != nil {
		return nil, o.classify(err, command)
	}
	return out, nil
}

// RunScript pipes script into a non-interactive remote shell, the same way
// a heredoc would. -T disables pseudo-terminal allocation.
func (o *OpenSSH) RunScript(ctx context.Context, script string) ([]byte, error) {
	args := append(o.sshArgs("-T"), o.dest())
	out, err := remote.ExecContext(ctx, o.opts.Timeout, strings.NewReader(script), o.sshPath, args...)
	if err != nil {
		return nil, o.classify(err, "script")
	}
	return out, nil
}

// Copy uploads localPath to remotePath with scp.
func (o *OpenSSH) Copy(ctx context.Context, localPath, remotePath string) error {
	// scp spells the port flag -P, unlike ssh
	args := []string{"-q", "-o", "BatchMode=yes", "-P", strconv.Itoa(o.opts.Port)}
	if o.opts.IdentityFile != "" {
		args = append(args, "-i", o.opts.IdentityFile)
	}
	args = append(args, localPath, o.dest()+":"+remotePath)

	if _, err := remote.ExecContext(ctx, o.opts.Timeout, nil, o.scpPath, args...); err != nil {
		if remote.ExitStatus(err) == sshUnreachableStatus {
			return fmt.Errorf("%w: %s: %v", remote.ErrUnreachable, o.opts.Host, err)
		}
		return fmt.Errorf("%w: %s -> %s: %v", remote.ErrCopyFailed, localPath, remotePath, err)
	}
	return nil
}

// Close is a no-op; each command opens its own connection.
func (o *OpenSSH) Close() error {
	return nil
}

// sshUnreachableStatus is the exit status the OpenSSH client reserves for its
// own errors (connection refused, auth rejected, host key mismatch). Remote
// commands cannot produce it short of calling exit 255 themselves.
const sshUnreachableStatus = 255

func (o *OpenSSH) classify(err error, what string) error {
	if remote.ExitStatus(err) == sshUnreachableStatus {
		return fmt.Errorf("%w: %s: %v", remote.ErrUnreachable, o.opts.Host, err)
	}
	return fmt.Errorf("%w: %s (exit %d): %v", remote.ErrCommandFailed, what, remote.ExitStatus(err), err)
}
