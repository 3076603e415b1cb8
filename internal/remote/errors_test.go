package remote

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsFatal(t *testing.T) {
	require.False(t, IsFatal(nil))
	require.False(t, IsFatal(errors.New("plain")))
	require.False(t, IsFatal(fmt.Errorf("ls: %w", ErrCommandFailed)))
	require.False(t, IsFatal(ErrCopyFailed))

	require.True(t, IsFatal(ErrUnreachable))
	require.True(t, IsFatal(fmt.Errorf("dial: %w", ErrAuthFailed)))
	require.True(t, IsFatal(ErrTransportUnavailable))
	require.True(t, IsFatal(ErrClosed))
}
