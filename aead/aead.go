// Package aead orchestrates a MAC-then-encrypt construction: draw a
// salt, derive a Balloon XOF, authenticate the plaintext, then encrypt
// tag‖plaintext under the XOF's keystream.
//
// The salt is never wrapped with a keystream tail — wrapping it would
// require deriving the keystream before the salt needed to derive it
// is known. It is returned to the caller, and persisted by the
// container, in the clear. All-or-nothing integrity comes entirely
// from the keyed MAC covering every plaintext byte: truncate or flip
// any ciphertext bit and the tag fails to verify.
package aead

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/lostinentropy/zeppelin/balloon"
	"github.com/lostinentropy/zeppelin/internal/api"
	"github.com/lostinentropy/zeppelin/internal/entropy"
	"github.com/lostinentropy/zeppelin/internal/zeroize"
	"github.com/lostinentropy/zeppelin/internal/zlog"
	"github.com/lostinentropy/zeppelin/keystream"
	"github.com/lostinentropy/zeppelin/mac"
	"github.com/lostinentropy/zeppelin/params"
	"github.com/lostinentropy/zeppelin/streamio"
)

type options struct {
	log           zlog.Logger
	observer      streamio.ProgressObserver
	resourceLimit uint64
}

// Option configures an Encrypt or Decrypt call.
type Option func(*options)

// WithLogger attaches a structured logger. The default discards everything.
func WithLogger(l zlog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithProgress attaches a progress observer. The default is a no-op.
func WithProgress(obs streamio.ProgressObserver) Option {
	return func(o *options) { o.observer = obs }
}

// WithResourceLimit overrides the memory ceiling used to validate
// settings.SCost. Zero means "use params.DefaultResourceLimit()".
func WithResourceLimit(n uint64) Option {
	return func(o *options) { o.resourceLimit = n }
}

func newOptions(opts []Option) *options {
	o := &options{log: zlog.Discard(), observer: streamio.NoopObserver{}}
	for _, f := range opts {
		f(o)
	}
	return o
}

// sizer is implemented by sources that know their length up front
// (e.g. streamio.FileSource), used only to make progress reporting
// more useful; its absence never affects correctness.
type sizer interface {
	Size() (int64, error)
}

// Encrypt authenticates and encrypts everything read from src,
// writing the ciphertext body to dst. On success it returns the salt
// and the serialized params document; the caller persists both
// alongside the ciphertext. dst is committed on success and aborted on
// any error, including cancellation via ctx.
func Encrypt(ctx context.Context, password []byte, src streamio.Source, dst streamio.Sink, settings params.Settings, opts ...Option) (salt []byte, paramsDoc []byte, err error) {
	o := newOptions(opts)
	opID := uuid.NewString()
	log := o.log.WithField("op_id", opID).WithField("component", "aead")

	defer zeroize.Bytes(password)

	if err := settings.Validate(o.resourceLimit); err != nil {
		_ = dst.Abort()
		return nil, nil, err
	}

	salt, err = entropy.Random(api.SaltSize)
	if err != nil {
		_ = dst.Abort()
		return nil, nil, fmt.Errorf("aead: drawing salt: %w", err)
	}

	fail := func(e error) ([]byte, []byte, error) {
		zeroize.Bytes(salt)
		_ = dst.Abort()
		return nil, nil, e
	}

	macKey, err := mac.DeriveKey(password, salt)
	if err != nil {
		return fail(fmt.Errorf("aead: deriving mac key: %w", err))
	}
	defer zeroize.Bytes(macKey)

	log.Debug("computing mac over plaintext (pass 1 of 2)")
	tagger := mac.NewTagger(macKey)
	plaintextLen, err := io.Copy(tagger, streamio.WithCancellation(ctx, src))
	if err != nil {
		return fail(fmt.Errorf("aead: mac pass: %w", err))
	}
	tag := tagger.Sum()

	if err := src.Rewind(); err != nil {
		return fail(fmt.Errorf("aead: rewinding source: %w", err))
	}

	xof, err := balloon.New(password, salt, settings.Internal())
	if err != nil {
		return fail(fmt.Errorf("aead: initializing balloon xof: %w", err))
	}
	defer xof.Close()

	total := int64(-1)
	if sz, ok := src.(sizer); ok {
		if n, szErr := sz.Size(); szErr == nil {
			total = n
		}
	}

	log.WithField("plaintext_bytes", plaintextLen).Debug("encrypting (pass 2 of 2)")

	body := io.MultiReader(bytes.NewReader(tag[:]), streamio.WithCancellation(ctx, src))
	wrappedDst := streamio.WithProgress(dst, o.observer, total)

	bodyLen := int64(api.TagSize) + plaintextLen
	if err := keystream.EncryptStream(xof, body, wrappedDst, bodyLen); err != nil {
		return fail(fmt.Errorf("aead: encrypt pass: %w", err))
	}

	doc, err := settings.Marshal()
	if err != nil {
		return fail(fmt.Errorf("aead: marshaling params: %w", err))
	}

	if err := dst.Commit(); err != nil {
		zeroize.Bytes(salt)
		_ = dst.Abort()
		return nil, nil, fmt.Errorf("aead: committing sink: %w", err)
	}

	log.WithField("ciphertext_bytes", bodyLen).Info("encrypt complete")
	return salt, doc, nil
}

// Decrypt recovers plaintext from src into dst, verifying the MAC in
// the same pass. dst is committed only if the tag verifies; any
// failure — malformed input, a bad tag, or cancellation — aborts dst,
// guaranteeing no partially-decrypted bytes are ever visible at dst's
// final destination.
func Decrypt(ctx context.Context, password, salt, paramsDoc []byte, src io.Reader, dst streamio.Sink, opts ...Option) (err error) {
	o := newOptions(opts)
	opID := uuid.NewString()
	log := o.log.WithField("op_id", opID).WithField("component", "aead")

	defer zeroize.Bytes(password)

	if len(salt) != api.SaltSize {
		_ = dst.Abort()
		return fmt.Errorf("%w: salt must be %d bytes, got %d", api.ErrMalformed, api.SaltSize, len(salt))
	}

	settings, err := params.Unmarshal(paramsDoc)
	if err != nil {
		_ = dst.Abort()
		return err
	}
	if err := settings.Validate(o.resourceLimit); err != nil {
		_ = dst.Abort()
		return err
	}

	macKey, err := mac.DeriveKey(password, salt)
	if err != nil {
		_ = dst.Abort()
		return fmt.Errorf("aead: deriving mac key: %w", err)
	}
	defer zeroize.Bytes(macKey)

	xof, err := balloon.New(password, salt, settings.Internal())
	if err != nil {
		_ = dst.Abort()
		return fmt.Errorf("aead: initializing balloon xof: %w", err)
	}
	defer xof.Close()

	tagger := mac.NewTagger(macKey)
	pw := &peelingWriter{need: api.TagSize, sink: streamio.WithProgress(dst, o.observer, -1), tagger: tagger}

	log.Debug("decrypting and verifying (single pass)")
	processed, err := keystream.DecryptStream(xof, streamio.WithCancellation(ctx, src), pw)
	if err != nil {
		_ = dst.Abort()
		return fmt.Errorf("aead: decrypt pass: %w", err)
	}
	if pw.need > 0 {
		_ = dst.Abort()
		return fmt.Errorf("%w: ciphertext body shorter than tag", api.ErrMalformed)
	}

	expected := tagger.Sum()
	if !mac.Verify(pw.tag, expected[:]) {
		_ = dst.Abort()
		log.WithField("ciphertext_bytes", processed).Warn("authentication failed")
		return api.ErrAuthenticationFailed
	}

	if err := dst.Commit(); err != nil {
		return fmt.Errorf("aead: committing sink: %w", err)
	}

	log.WithField("ciphertext_bytes", processed).Info("decrypt complete")
	return nil
}

// peelingWriter splits a decrypted byte stream into its first
// api.TagSize bytes (the tag) and everything after (plaintext),
// forwarding plaintext both to sink and into tagger so the expected
// tag is ready the instant the stream ends.
type peelingWriter struct {
	need   int
	tag    []byte
	sink   io.Writer
	tagger *mac.Tagger
}

func (p *peelingWriter) Write(b []byte) (int, error) {
	total := len(b)

	if p.need > 0 {
		take := p.need
		if take > len(b) {
			take = len(b)
		}
		p.tag = append(p.tag, b[:take]...)
		p.need -= take
		b = b[take:]
	}

	if len(b) > 0 {
		if _, err := p.sink.Write(b); err != nil {
			return 0, fmt.Errorf("%w: writing plaintext: %v", api.ErrIO, err)
		}
		if _, err := p.tagger.Write(b); err != nil {
			return 0, fmt.Errorf("aead: updating tag: %w", err)
		}
	}

	return total, nil
}
