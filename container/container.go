// Package container implements the on-disk ".zep" archive format: a
// ZIP file holding exactly three members, salt.bin, meta.json and
// data.bin. ZIP gives us a self-describing container with per-member
// integrity (CRC32) for free, at the cost of needing a small amount of
// bookkeeping to stream data.bin before salt and params are known (see
// Writer.Finalize).
package container

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/lostinentropy/zeppelin/internal/api"
)

const (
	saltMember = "salt.bin"
	metaMember = "meta.json"
	dataMember = "data.bin"
)

func init() {
	// data.bin is encrypted, hence incompressible; it is always stored
	// with zip.Store (see Create below). salt.bin and meta.json are
	// small enough that compression method barely matters, but we
	// still swap in klauspost/compress's faster, allocation-lighter
	// flate for the default Deflate method rather than leaning on
	// compress/flate.
	zip.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})
	zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
}

// Writer streams a ciphertext body into a ".zep" container's data.bin
// member as it is produced, deferring salt.bin and meta.json — which
// aead.Encrypt only knows once the body is fully written — to
// Finalize. It satisfies streamio.Sink's Write and Abort; Commit is
// intentionally a no-op, since aead.Encrypt calls Commit once the body
// is written but the archive is not yet valid at that point.
type Writer struct {
	sink  fileSink
	zw    *zip.Writer
	dataW io.Writer
}

// fileSink is the subset of streamio.Sink that Writer delegates to for
// the underlying temp-file-then-rename mechanics.
type fileSink interface {
	io.Writer
	Abort() error
	Commit() error
}

// Create opens sink (typically a *streamio.FileSink) and begins a new
// data.bin member inside it, stored uncompressed.
func Create(sink fileSink) (*Writer, error) {
	zw := zip.NewWriter(sink)
	dataW, err := zw.CreateHeader(&zip.FileHeader{Name: dataMember, Method: zip.Store})
	if err != nil {
		_ = sink.Abort()
		return nil, fmt.Errorf("%w: opening data.bin member: %v", api.ErrIO, err)
	}
	return &Writer{sink: sink, zw: zw, dataW: dataW}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.dataW.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: writing data.bin: %v", api.ErrIO, err)
	}
	return n, nil
}

// Abort discards the entire container, including whatever of data.bin
// was already written.
func (w *Writer) Abort() error {
	return w.sink.Abort()
}

// Commit is a no-op; see Finalize.
func (w *Writer) Commit() error { return nil }

// Finalize writes salt.bin and meta.json, closes the archive's central
// directory, and commits the underlying sink. Callers must call this
// exactly once, after a successful encrypt, with the salt and params
// document the encrypt call returned.
func (w *Writer) Finalize(salt, paramsDoc []byte) error {
	saltW, err := w.zw.CreateHeader(&zip.FileHeader{Name: saltMember, Method: zip.Store})
	if err != nil {
		_ = w.sink.Abort()
		return fmt.Errorf("%w: opening salt.bin member: %v", api.ErrIO, err)
	}
	if _, err := saltW.Write(salt); err != nil {
		_ = w.sink.Abort()
		return fmt.Errorf("%w: writing salt.bin: %v", api.ErrIO, err)
	}

	metaW, err := w.zw.CreateHeader(&zip.FileHeader{Name: metaMember, Method: zip.Deflate})
	if err != nil {
		_ = w.sink.Abort()
		return fmt.Errorf("%w: opening meta.json member: %v", api.ErrIO, err)
	}
	if _, err := metaW.Write(paramsDoc); err != nil {
		_ = w.sink.Abort()
		return fmt.Errorf("%w: writing meta.json: %v", api.ErrIO, err)
	}

	if err := w.zw.Close(); err != nil {
		_ = w.sink.Abort()
		return fmt.Errorf("%w: closing archive: %v", api.ErrIO, err)
	}
	if err := w.sink.Commit(); err != nil {
		return err
	}
	return nil
}

// Reader opens a ".zep" container, reading its small salt.bin and
// meta.json members eagerly and exposing data.bin as a streaming
// io.ReadCloser so decrypt never has to buffer the whole ciphertext.
type Reader struct {
	zr        *zip.ReadCloser
	data      io.ReadCloser
	Salt      []byte
	ParamsDoc []byte
}

// Open reads path's salt and params members and prepares data.bin for
// streaming. The caller must Close the returned Reader.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening container: %v", api.ErrMalformed, err)
	}

	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}

	salt, err := readMember(byName, saltMember)
	if err != nil {
		_ = zr.Close()
		return nil, err
	}
	doc, err := readMember(byName, metaMember)
	if err != nil {
		_ = zr.Close()
		return nil, err
	}

	dataFile, ok := byName[dataMember]
	if !ok {
		_ = zr.Close()
		return nil, fmt.Errorf("%w: container is missing %s", api.ErrMalformed, dataMember)
	}
	data, err := dataFile.Open()
	if err != nil {
		_ = zr.Close()
		return nil, fmt.Errorf("%w: opening data.bin: %v", api.ErrMalformed, err)
	}

	return &Reader{zr: zr, data: data, Salt: salt, ParamsDoc: doc}, nil
}

func (r *Reader) Read(p []byte) (int, error) { return r.data.Read(p) }

// Close releases both the data.bin stream and the underlying archive.
func (r *Reader) Close() error {
	dataErr := r.data.Close()
	if err := r.zr.Close(); err != nil {
		return fmt.Errorf("%w: closing container: %v", api.ErrIO, err)
	}
	if dataErr != nil {
		return fmt.Errorf("%w: closing data.bin: %v", api.ErrIO, dataErr)
	}
	return nil
}

func readMember(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("%w: container is missing %s", api.ErrMalformed, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", api.ErrMalformed, name, err)
	}
	defer rc.Close()

	buf := bytes.NewBuffer(make([]byte, 0, f.UncompressedSize64))
	if _, err := io.Copy(buf, rc); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", api.ErrMalformed, name, err)
	}
	return buf.Bytes(), nil
}
