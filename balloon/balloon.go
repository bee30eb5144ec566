// Package balloon implements a memory-hard, variable-output XOF:
// Balloon-style init/seed/mix over a password-and-salt-derived buffer,
// squeezed through a one-directional keystream interface.
//
// The package selects among registered internal/api.Implementation
// backends the way a pluggable stream cipher normally does; today
// exactly one (internal/ref, pure Go) is registered.
package balloon

import (
	"fmt"

	"github.com/lostinentropy/zeppelin/internal/api"
	"github.com/lostinentropy/zeppelin/internal/ref"
)

// supportedImpls is tried in order; the first constructor that does
// not error wins. Only one entry exists today.
var supportedImpls = []api.Implementation{
	ref.New(),
}

// XOF is the handle to one Balloon keystream instance. It owns an
// exclusive internal buffer and must be closed when done.
type XOF struct {
	inner api.XOF
	impl  string
}

// New initializes a Balloon XOF from (password, salt, settings). Salt
// must be exactly api.SaltSize bytes. The returned XOF must be
// Close()d by the caller to zeroize its internal buffer.
func New(password, salt []byte, settings api.Settings) (*XOF, error) {
	if len(salt) != api.SaltSize {
		return nil, fmt.Errorf("balloon: salt must be %d bytes, got %d", api.SaltSize, len(salt))
	}

	var lastErr error
	for _, impl := range supportedImpls {
		inner, err := impl.New(password, salt, settings)
		if err != nil {
			lastErr = err
			continue
		}
		return &XOF{inner: inner, impl: impl.Name()}, nil
	}
	return nil, fmt.Errorf("balloon: no implementation accepted settings: %w", lastErr)
}

// Squeeze draws the next len(p) keystream bytes into p. Consumption is
// strictly sequential; there is no way to rewind an XOF.
func (x *XOF) Squeeze(p []byte) error {
	return x.inner.Squeeze(p)
}

// Implementation reports which backend produced this XOF, for logging.
func (x *XOF) Implementation() string { return x.impl }

// Close zeroizes the XOF's internal state. Idempotent, safe on a nil
// receiver.
func (x *XOF) Close() {
	if x == nil {
		return
	}
	x.inner.Close()
}
