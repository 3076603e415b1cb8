package remote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func failingConstructor(err error) Constructor {
	return func(opts Options) (Runner, error) {
		return nil, err
	}
}

func TestFactoryCreatePreferred(t *testing.T) {
	t.Cleanup(UnregisterAll)
	UnregisterAll()
	Register(TypeSSHLib, mockConstructor(TypeSSHLib))
	Register(TypeOpenSSH, mockConstructor(TypeOpenSSH))

	r, err := NewFactory().Create(Options{Host: "remarkable"})
	require.NoError(t, err)
	require.Equal(t, TypeSSHLib, r.Name())
}

func TestFactoryFallsBackWhenPreferredFails(t *testing.T) {
	t.Cleanup(UnregisterAll)
	UnregisterAll()
	dialErr := errors.New("dial tcp: connection refused")
	Register(TypeSSHLib, failingConstructor(dialErr))
	Register(TypeOpenSSH, mockConstructor(TypeOpenSSH))

	r, err := NewFactory().Create(Options{Host: "remarkable"})
	require.NoError(t, err)
	require.Equal(t, TypeOpenSSH, r.Name())
}

func TestFactorySurfacesPreferredError(t *testing.T) {
	t.Cleanup(UnregisterAll)
	UnregisterAll()
	dialErr := errors.New("dial tcp: connection refused")
	Register(TypeSSHLib, failingConstructor(dialErr))
	Register(TypeOpenSSH, failingConstructor(errors.New("ssh binary not found")))

	_, err := NewFactory().Create(Options{Host: "remarkable"})
	require.ErrorIs(t, err, dialErr)
}

func TestFactoryUnregisteredPreferred(t *testing.T) {
	t.Cleanup(UnregisterAll)
	UnregisterAll()
	Register(TypeOpenSSH, mockConstructor(TypeOpenSSH))

	// preferred not registered, fallback carries the day
	r, err := NewFactory().Create(Options{Host: "remarkable"})
	require.NoError(t, err)
	require.Equal(t, TypeOpenSSH, r.Name())
}

func TestFactoryOptions(t *testing.T) {
	t.Cleanup(UnregisterAll)
	UnregisterAll()
	Register(TypeOpenSSH, mockConstructor(TypeOpenSSH))
	Register(TypeSSHLib, failingConstructor(errors.New("unused")))

	f := NewFactory(WithPreferredType(TypeOpenSSH), WithFallbackType(""))
	r, err := f.Create(Options{Host: "remarkable"})
	require.NoError(t, err)
	require.Equal(t, TypeOpenSSH, r.Name())
}

func TestFactoryNoFallbackConfigured(t *testing.T) {
	t.Cleanup(UnregisterAll)
	UnregisterAll()
	Register(TypeOpenSSH, mockConstructor(TypeOpenSSH))

	f := NewFactory(WithFallbackType(""))
	_, err := f.Create(Options{Host: "remarkable"})
	require.ErrorIs(t, err, ErrTransportUnavailable)
}

func TestNewConstructsExactType(t *testing.T) {
	t.Cleanup(UnregisterAll)
	UnregisterAll()
	Register(TypeOpenSSH, mockConstructor(TypeOpenSSH))

	r, err := New(TypeOpenSSH, Options{Host: "remarkable"})
	require.NoError(t, err)
	require.Equal(t, TypeOpenSSH, r.Name())

	_, err = New(TypeSSHLib, Options{Host: "remarkable"})
	require.ErrorIs(t, err, ErrTransportUnavailable)
}

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	require.Equal(t, "root", o.User)
	require.Equal(t, 22, o.Port)
	require.Equal(t, DefaultTimeout, o.Timeout)

	o = Options{Host: "10.11.99.1", Port: 2222}.withDefaults()
	require.Equal(t, "10.11.99.1", o.Host)
	require.Equal(t, 2222, o.Port)
}
