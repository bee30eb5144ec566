// Package streamio drives encryption/decryption against seekable byte
// sources and sinks: a single-rewind source contract, a sink that can
// be aborted (deleted/truncated) on failure and committed (renamed
// into place) on success, cancellation checked at chunk boundaries,
// and an optional progress observer.
package streamio

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/lostinentropy/zeppelin/internal/api"
)

// Source is a byte source that supports exactly one rewind to its
// start. AEAD's encrypt path needs this for its two passes (MAC, then
// encrypt); decrypt needs none.
type Source interface {
	io.Reader
	// Rewind seeks back to the start of the source. Implementations
	// need only support being called once per Source lifetime.
	Rewind() error
}

// Sink is a byte sink that can be abandoned (Abort) or finalized
// (Commit). A failed decryption must never leave recovered plaintext
// at the caller-visible destination path.
type Sink interface {
	io.Writer
	// Abort discards everything written so far; the destination path
	// must not exist, or must be unchanged from before the operation,
	// once Abort returns.
	Abort() error
	// Commit finalizes the sink (e.g. fsync + rename-into-place).
	Commit() error
}

// ProgressObserver is notified as bytes are processed. total is -1
// when the size is not known in advance.
type ProgressObserver interface {
	OnProgress(done, total int64)
}

// NoopObserver discards progress notifications. The library default.
type NoopObserver struct{}

func (NoopObserver) OnProgress(done, total int64) {}

// FileSource wraps an *os.File as a Source.
type FileSource struct {
	f *os.File
}

// OpenFileSource opens path for reading and returns a Source that can
// be rewound once. The caller must eventually call Close.
func OpenFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open source: %v", api.ErrIO, err)
	}
	return &FileSource{f: f}, nil
}

func (s *FileSource) Read(p []byte) (int, error) { return s.f.Read(p) }

func (s *FileSource) Rewind() error {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: rewind source: %v", api.ErrIO, err)
	}
	return nil
}

// Size returns the source's total byte length, for progress reporting.
func (s *FileSource) Size() (int64, error) {
	fi, err := s.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat source: %v", api.ErrIO, err)
	}
	return fi.Size(), nil
}

func (s *FileSource) Close() error { return s.f.Close() }

// FileSink writes to a temporary path beside dest and renames over
// dest only on Commit, never leaving a partial file at the
// caller-visible destination: a failed or cancelled operation deletes
// the temporary file instead of exposing half-written output.
type FileSink struct {
	dest string
	tmp  string
	f    *os.File
}

// CreateFileSink opens a fresh temporary file named
// "<dest>.<uuid>.part" beside dest for writing, deferring the final
// rename to Commit.
func CreateFileSink(dest string) (*FileSink, error) {
	tmp := fmt.Sprintf("%s.%s.part", dest, uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: create sink: %v", api.ErrIO, err)
	}
	return &FileSink{dest: dest, tmp: tmp, f: f}, nil
}

func (s *FileSink) Write(p []byte) (int, error) { return s.f.Write(p) }

func (s *FileSink) Abort() error {
	_ = s.f.Close()
	if err := os.Remove(s.tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: abort sink: %v", api.ErrIO, err)
	}
	return nil
}

func (s *FileSink) Commit() error {
	if err := s.f.Sync(); err != nil {
		_ = s.f.Close()
		return fmt.Errorf("%w: sync sink: %v", api.ErrIO, err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("%w: close sink: %v", api.ErrIO, err)
	}
	if err := os.Rename(s.tmp, s.dest); err != nil {
		return fmt.Errorf("%w: commit sink: %v", api.ErrIO, err)
	}
	return nil
}

// ctxReader wraps r so that each Read first checks ctx, turning
// cancellation into an api.ErrCancelled-wrapped error observed at the
// next chunk boundary rather than mid-chunk.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

// WithCancellation wraps r so reads stop promptly once ctx is done.
func WithCancellation(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", api.ErrCancelled, err)
	}
	return c.r.Read(p)
}

// progressWriter wraps w, reporting cumulative bytes written to obs
// after every Write call.
type progressWriter struct {
	w     io.Writer
	obs   ProgressObserver
	total int64
	done  int64
}

// WithProgress wraps w so every Write reports cumulative progress to
// obs. total may be -1 if unknown.
func WithProgress(w io.Writer, obs ProgressObserver, total int64) io.Writer {
	if obs == nil {
		obs = NoopObserver{}
	}
	return &progressWriter{w: w, obs: obs, total: total}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.done += int64(n)
	p.obs.OnProgress(p.done, p.total)
	return n, err
}
