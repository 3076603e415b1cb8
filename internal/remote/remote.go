// Package remote provides a unified interface for running commands on and
// copying files to the reMarkable tablet.
//
// This package abstracts the differences between the two supported
// transports, enabling remtool to work with either backend. The design
// follows a strategy pattern with registry-based construction.
//
// # Architecture
//
// The Runner interface defines the two capabilities remtool needs from a
// transport:
//   - Run a command on the device and capture its output
//   - Copy a local file to a path on the device
//
// Authentication and connection management are entirely the transport's
// concern; callers treat the host string as opaque.
//
// # Usage
//
//	r, err := remote.New(remote.Options{Host: "10.11.99.1"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	out, err := r.Run(ctx, "ls .local/share/remarkable/xochitl")
//
// # Implementations
//
//   - internal/remote/openssh: shells out to the ssh and scp binaries
//   - internal/remote/sshlib:  built-in client using golang.org/x/crypto/ssh
package remote

import (
	"context"
	"time"
)

// Type identifies a transport backend.
type Type string

const (
	// TypeOpenSSH shells out to the system ssh/scp binaries, so existing
	// ~/.ssh/config aliases and agent setup apply unchanged.
	TypeOpenSSH Type = "openssh"

	// TypeSSHLib dials the device with the built-in SSH client.
	TypeSSHLib Type = "ssh"
)

// String returns the string representation of the transport type.
func (t Type) String() string {
	return string(t)
}

// Runner executes commands on the remote device and copies files to it.
//
// All methods are synchronous; the context and the Options timeout bound each
// call. Implementations surface transport failures through the sentinel
// errors in this package so callers can classify them with errors.Is.
type Runner interface {
	// Name returns the transport type.
	Name() Type

	// Run executes command through the remote shell and returns its stdout.
	// A non-zero remote exit status yields an error wrapping ErrCommandFailed
	// with the captured stderr; an unreachable host yields ErrUnreachable.
	Run(ctx context.Context, command string) ([]byte, error)

	// RunScript executes a multi-line shell script on the device and returns
	// its stdout. Transports deliver the script in whatever way avoids
	// argument-quoting limits (openssh pipes it over stdin).
	RunScript(ctx context.Context, script string) ([]byte, error)

	// Copy uploads the local file to remotePath on the device. The remote
	// parent directory must already exist.
	Copy(ctx context.Context, localPath, remotePath string) error

	// Close releases any persistent connection. Safe to call more than once.
	Close() error
}

// Options configures transport construction.
type Options struct {
	// Host is the device address: IP, hostname, or (openssh only) an
	// ssh_config alias.
	Host string

	// User is the remote login. Empty means root.
	User string

	// Port is the SSH port. Zero means 22.
	Port int

	// IdentityFile is a private key path for the built-in client. Empty
	// means the default ~/.ssh keys and the agent.
	IdentityFile string

	// Timeout bounds each remote command. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout bounds remote commands when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

func (o Options) withDefaults() Options {
	if o.User == "" {
		o.User = "root"
	}
	if o.Port == 0 {
		o.Port = 22
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}
