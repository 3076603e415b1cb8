package remote

import "fmt"

// Factory creates Runner instances for a preferred transport with an optional
// fallback when the preferred backend cannot be constructed.
type Factory struct {
	// preferredType is tried first.
	preferredType Type

	// fallbackType is tried when the preferred constructor fails.
	// Empty disables fallback.
	fallbackType Type
}

// NewFactory creates a transport factory.
//
// Default behavior:
//   - Prefer the built-in ssh client
//   - Fall back to the openssh binaries if the dial fails
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		preferredType: TypeSSHLib,
		fallbackType:  TypeOpenSSH,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FactoryOption configures the factory.
type FactoryOption func(*Factory)

// WithPreferredType sets the transport tried first.
func WithPreferredType(t Type) FactoryOption {
	return func(f *Factory) {
		f.preferredType = t
	}
}

// WithFallbackType sets the transport tried when the preferred one cannot be
// constructed. Pass the empty Type to disable fallback.
func WithFallbackType(t Type) FactoryOption {
	return func(f *Factory) {
		f.fallbackType = t
	}
}

// Create builds a Runner from the registered constructors.
//
// The factory will:
//  1. Look up the preferred type's constructor and try it
//  2. On failure, try the fallback type (if configured and different)
//  3. Surface the preferred type's error when both fail
func (f *Factory) Create(opts Options) (Runner, error) {
	opts = opts.withDefaults()

	r, prefErr := construct(f.preferredType, opts)
	if prefErr == nil {
		return r, nil
	}

	if f.fallbackType != "" && f.fallbackType != f.preferredType {
		if r, err := construct(f.fallbackType, opts); err == nil {
			return r, nil
		}
	}

	return nil, prefErr
}

// New is a convenience for the common case: construct exactly the transport
// named by t, no fallback.
func New(t Type, opts Options) (Runner, error) {
	return construct(t, opts.withDefaults())
}

func construct(t Type, opts Options) (Runner, error) {
	ctor := getConstructor(t)
	if ctor == nil {
		return nil, fmt.Errorf("%w: no %q transport registered", ErrTransportUnavailable, t)
	}
	return ctor(opts)
}
