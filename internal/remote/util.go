package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// ===================
// Command Execution Utilities
// ===================

// ExecContext executes a local command with timeout and context support.
// This is the common utility for transports that shell out (openssh).
//
// Example:
//
//	output, err := ExecContext(ctx, 30*time.Second, nil, "ssh", "root@10.11.99.1", "uname -a")
func ExecContext(ctx context.Context, timeout time.Duration, stdin io.Reader, name string, args ...string) ([]byte, error) {
	// Create context with timeout if specified
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Include stderr in the error message for debugging
		if stderr.Len() > 0 {
			return stdout.Bytes(), fmt.Errorf("%w: %s", err, StderrTail(stderr.Bytes()))
		}
		return stdout.Bytes(), err
	}

	return stdout.Bytes(), nil
}

// ExitStatus extracts the process exit status from an ExecContext error.
// Returns -1 when the error does not carry one (e.g. binary not found).
func ExitStatus(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// StderrTail trims stderr output to its last few lines so error messages stay
// readable when a remote script dumps a long trace.
func StderrTail(b []byte) string {
	const maxLines = 4
	s := strings.TrimSpace(string(b))
	lines := strings.Split(s, "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, "\n")
}

// ParseLines splits command output into non-empty trimmed lines.
func ParseLines(output []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
