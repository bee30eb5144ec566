// Package entropy draws secret material from the OS CSPRNG.
package entropy

import (
	"crypto/rand"
	"fmt"
)

// Random returns n cryptographically secure random bytes. It fails
// closed: a read short of n bytes, or a read that somehow produced an
// all-zero buffer, is treated as a fatal entropy failure rather than
// silently accepted.
func Random(n int) ([]byte, error) {
	b := make([]byte, n)
	if n == 0 {
		return b, nil
	}
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("entropy: crypto/rand read: %w", err)
	}

	allZero := true
	for _, v := range b {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return nil, fmt.Errorf("entropy: crypto/rand produced an all-zero buffer")
	}

	return b, nil
}
