package remote

import "errors"

// Common errors returned by transport operations.
//
// These can be checked with errors.Is():
//
//	if errors.Is(err, remote.ErrUnreachable) {
//	    // device is off or on a different network
//	}
var (
	// ErrUnreachable is returned when the device cannot be contacted at all:
	// dial failure, DNS failure, or the openssh client's exit status 255.
	ErrUnreachable = errors.New("device unreachable")

	// ErrCommandFailed is returned when the remote shell ran the command and
	// it exited non-zero. The wrapping error carries the stderr tail.
	ErrCommandFailed = errors.New("remote command failed")

	// ErrCopyFailed is returned when a file upload did not complete. The
	// remote file may exist in a truncated state.
	ErrCopyFailed = errors.New("file copy failed")

	// ErrAuthFailed is returned by the built-in client when no offered
	// credential was accepted.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrTransportUnavailable is returned when the requested backend cannot
	// be constructed, e.g. the ssh binary is not in PATH.
	ErrTransportUnavailable = errors.New("transport unavailable")

	// ErrClosed is returned when a Runner is used after Close.
	ErrClosed = errors.New("transport closed")
)

// IsFatal returns true if the error indicates the transport itself is
// unusable, as opposed to a single command failing.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrUnreachable) ||
		errors.Is(err, ErrAuthFailed) ||
		errors.Is(err, ErrTransportUnavailable) ||
		errors.Is(err, ErrClosed)
}
