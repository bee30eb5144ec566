// Package keystream adapts a Balloon XOF into a stream cipher: a
// byte-wise XOR of plaintext against the XOF's output, drawn in fixed
// chunks. It has no state of its own and does not know about tags,
// salts or framing — that is package aead's job.
package keystream

import (
	"fmt"
	"io"

	"github.com/lostinentropy/zeppelin/internal/api"
)

// Squeezer is the subset of balloon.XOF that keystream depends on.
type Squeezer interface {
	Squeeze(p []byte) error
}

// EncryptStream reads exactly n bytes from r, XORs each byte against
// keystream drawn from xof, and writes the result to w. n is known up
// front on the encrypt path because AEAD's MAC pass already read the
// plaintext once and measured its length. It never reads more from r
// than it can immediately write to w, and aborts without retry on the
// first I/O error, reporting which side failed.
func EncryptStream(xof Squeezer, r io.Reader, w io.Writer, n int64) error {
	if n < 0 {
		return fmt.Errorf("keystream: negative length %d", n)
	}

	buf := make([]byte, api.StreamChunk)
	ks := make([]byte, api.StreamChunk)

	var done int64
	for done < n {
		chunk := int64(len(buf))
		if remaining := n - done; remaining < chunk {
			chunk = remaining
		}

		if _, err := io.ReadFull(r, buf[:chunk]); err != nil {
			return fmt.Errorf("keystream: reading source at offset %d: %w", done, err)
		}
		if err := xorChunk(xof, buf[:chunk], ks[:chunk]); err != nil {
			return err
		}
		if _, err := w.Write(buf[:chunk]); err != nil {
			return fmt.Errorf("keystream: writing sink at offset %d: %w", done, err)
		}

		done += chunk
	}

	return nil
}

// DecryptStream reads r to EOF, XORing each byte against keystream
// drawn from xof, and writes the result to w. Unlike EncryptStream it
// does not require the length up front: the ciphertext body's own
// length on disk is L, so reading to EOF is exact. Returns the number
// of bytes processed.
func DecryptStream(xof Squeezer, r io.Reader, w io.Writer) (int64, error) {
	buf := make([]byte, api.StreamChunk)
	ks := make([]byte, api.StreamChunk)

	var done int64
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if err := xorChunk(xof, buf[:n], ks[:n]); err != nil {
				return done, err
			}
			if _, err := w.Write(buf[:n]); err != nil {
				return done, fmt.Errorf("keystream: writing sink at offset %d: %w", done, err)
			}
			done += int64(n)
		}
		if readErr == io.EOF {
			return done, nil
		}
		if readErr != nil {
			return done, fmt.Errorf("keystream: reading source at offset %d: %w", done, readErr)
		}
	}
}

func xorChunk(xof Squeezer, data, ks []byte) error {
	if err := xof.Squeeze(ks); err != nil {
		return fmt.Errorf("keystream: squeezing keystream: %w", err)
	}
	for i := range data {
		data[i] ^= ks[i]
	}
	return nil
}
