package keystream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// repeatingSqueezer emits a fixed repeating byte pattern, long enough
// to exercise keystream chunking without depending on package balloon.
type repeatingSqueezer struct {
	pattern []byte
	pos     int
}

func (s *repeatingSqueezer) Squeeze(p []byte) error {
	for i := range p {
		p[i] = s.pattern[s.pos%len(s.pattern)]
		s.pos++
	}
	return nil
}

func TestEncryptThenDecryptRoundTrips(t *testing.T) {
	plaintext := bytes.Repeat([]byte("hello world, this is a test message. "), 5000)

	var ciphertext bytes.Buffer
	encKS := &repeatingSqueezer{pattern: []byte{0xAA, 0x55, 0x0F}}
	require.NoError(t, EncryptStream(encKS, bytes.NewReader(plaintext), &ciphertext, int64(len(plaintext))))

	var recovered bytes.Buffer
	decKS := &repeatingSqueezer{pattern: []byte{0xAA, 0x55, 0x0F}}
	n, err := DecryptStream(decKS, bytes.NewReader(ciphertext.Bytes()), &recovered)
	require.NoError(t, err)
	require.EqualValues(t, len(plaintext), n)
	require.Equal(t, plaintext, recovered.Bytes())
}

func TestEncryptStreamRejectsNegativeLength(t *testing.T) {
	err := EncryptStream(&repeatingSqueezer{pattern: []byte{1}}, bytes.NewReader(nil), &bytes.Buffer{}, -1)
	require.Error(t, err)
}

func TestEncryptStreamErrorsOnShortSource(t *testing.T) {
	ks := &repeatingSqueezer{pattern: []byte{1}}
	err := EncryptStream(ks, bytes.NewReader([]byte("short")), &bytes.Buffer{}, 100)
	require.Error(t, err)
}

func TestDecryptStreamHandlesEmptyInput(t *testing.T) {
	ks := &repeatingSqueezer{pattern: []byte{1}}
	var out bytes.Buffer
	n, err := DecryptStream(ks, bytes.NewReader(nil), &out)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Zero(t, out.Len())
}
