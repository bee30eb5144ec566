// Package mac implements a keyed authentication tag over the whole
// plaintext. The MAC key is a fingerprint of the password rather than
// keystream bytes, so MAC accounting never touches the Balloon XOF's
// cursor:
//
//	mac_key = H("mac" ‖ salt ‖ H(password))
//	tag     = H(mac_key ‖ plaintext)
package mac

import (
	"crypto/subtle"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/lostinentropy/zeppelin/internal/api"
)

var macDomain = []byte("mac")

// DeriveKey computes mac_key = H("mac" ‖ salt ‖ H(password)). salt must
// be api.SaltSize bytes.
func DeriveKey(password, salt []byte) ([]byte, error) {
	if len(salt) != api.SaltSize {
		return nil, fmt.Errorf("mac: salt must be %d bytes, got %d", api.SaltSize, len(salt))
	}

	passwordDigest := sha3.Sum512(password)

	h := sha3.New512()
	h.Write(macDomain)
	h.Write(salt)
	h.Write(passwordDigest[:])
	return h.Sum(nil), nil
}

// Tagger incrementally computes tag = H(mac_key ‖ plaintext) as
// plaintext bytes become available, so callers never need to buffer
// the whole plaintext just to authenticate it.
type Tagger struct {
	h hash.Hash
}

// NewTagger starts a tag computation keyed by key (see DeriveKey).
func NewTagger(key []byte) *Tagger {
	h := sha3.New512()
	h.Write(key)
	return &Tagger{h: h}
}

// Write feeds more plaintext bytes into the running tag. Never
// returns a short write or a non-nil error; it satisfies io.Writer so
// it can be used as the destination of io.Copy.
func (t *Tagger) Write(p []byte) (int, error) {
	return t.h.Write(p)
}

// Sum finalizes and returns the 64-byte tag. Calling Write afterwards
// is a programming error.
func (t *Tagger) Sum() [api.TagSize]byte {
	var out [api.TagSize]byte
	copy(out[:], t.h.Sum(nil))
	return out
}

// ComputeTag authenticates the entirety of r under key, reading r to
// EOF. It gives the same tag as feeding r through a Tagger.
func ComputeTag(key []byte, r io.Reader) ([api.TagSize]byte, error) {
	t := NewTagger(key)
	if _, err := io.Copy(t, r); err != nil {
		return [api.TagSize]byte{}, fmt.Errorf("mac: reading plaintext: %w", err)
	}
	return t.Sum(), nil
}

// Verify reports whether got authenticates as want, in constant time.
// Both must be exactly api.TagSize bytes; any length mismatch is
// treated as a verification failure, not a panic.
func Verify(want, got []byte) bool {
	if len(want) != api.TagSize || len(got) != api.TagSize {
		return false
	}
	return subtle.ConstantTimeCompare(want, got) == 1
}
