package mac

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lostinentropy/zeppelin/internal/api"
)

func TestDeriveKeyRejectsBadSalt(t *testing.T) {
	_, err := DeriveKey([]byte("p"), make([]byte, 1))
	require.Error(t, err)
}

func TestDeriveKeyIsDeterministic(t *testing.T) {
	salt := make([]byte, api.SaltSize)
	k1, err := DeriveKey([]byte("hunter2"), salt)
	require.NoError(t, err)
	k2, err := DeriveKey([]byte("hunter2"), salt)
	require.NoError(t, err)
	require.Equal(t, k1, k2)
}

func TestDeriveKeyDependsOnPasswordAndSalt(t *testing.T) {
	salt := make([]byte, api.SaltSize)
	salt2 := make([]byte, api.SaltSize)
	salt2[0] = 1

	k1, err := DeriveKey([]byte("a"), salt)
	require.NoError(t, err)
	k2, err := DeriveKey([]byte("b"), salt)
	require.NoError(t, err)
	k3, err := DeriveKey([]byte("a"), salt2)
	require.NoError(t, err)

	require.NotEqual(t, k1, k2)
	require.NotEqual(t, k1, k3)
}

func TestComputeTagMatchesTaggerWrite(t *testing.T) {
	key := []byte("some mac key material")
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	viaTagger := NewTagger(key)
	_, err := viaTagger.Write(plaintext)
	require.NoError(t, err)
	tagA := viaTagger.Sum()

	tagB, err := ComputeTag(key, bytes.NewReader(plaintext))
	require.NoError(t, err)

	require.Equal(t, tagA, tagB)
}

func TestVerify(t *testing.T) {
	tag := bytes.Repeat([]byte{0x42}, api.TagSize)
	other := bytes.Repeat([]byte{0x43}, api.TagSize)

	require.True(t, Verify(tag, append([]byte{}, tag...)))
	require.False(t, Verify(tag, other))
	require.False(t, Verify(tag, tag[:api.TagSize-1]))
}
