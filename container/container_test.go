package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lostinentropy/zeppelin/aead"
	"github.com/lostinentropy/zeppelin/params"
	"github.com/lostinentropy/zeppelin/streamio"
)

func TestWriterFinalizeThenReaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	plainPath := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plainPath, []byte("container round trip payload"), 0o600))

	containerPath := filepath.Join(dir, "out.zep")

	src, err := streamio.OpenFileSource(plainPath)
	require.NoError(t, err)
	defer src.Close()

	fileSink, err := streamio.CreateFileSink(containerPath)
	require.NoError(t, err)

	w, err := Create(fileSink)
	require.NoError(t, err)

	settings, err := params.New(8, 1, 2, params.CurrentVersion, 1<<30)
	require.NoError(t, err)

	salt, paramsDoc, err := aead.Encrypt(context.Background(), []byte("password"), src, w, settings)
	require.NoError(t, err)
	require.NoError(t, w.Finalize(salt, paramsDoc))

	r, err := Open(containerPath)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, salt, r.Salt)
	require.Equal(t, paramsDoc, r.ParamsDoc)

	outPath := filepath.Join(dir, "recovered.txt")
	outSink, err := streamio.CreateFileSink(outPath)
	require.NoError(t, err)

	require.NoError(t, aead.Decrypt(context.Background(), []byte("password"), r.Salt, r.ParamsDoc, r, outSink))

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, "container round trip payload", string(got))
}

func TestWriterAbortRemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	containerPath := filepath.Join(dir, "out.zep")

	fileSink, err := streamio.CreateFileSink(containerPath)
	require.NoError(t, err)

	w, err := Create(fileSink)
	require.NoError(t, err)
	_, err = w.Write([]byte("partial ciphertext"))
	require.NoError(t, err)

	require.NoError(t, w.Abort())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestOpenRejectsMissingMembers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.zep")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Open(path)
	require.Error(t, err)
}
