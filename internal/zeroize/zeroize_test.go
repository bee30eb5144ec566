package zeroize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesOverwritesInPlace(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Bytes(b)
	require.Equal(t, []byte{0, 0, 0, 0}, b)
}

func TestBytesOnNilIsSafe(t *testing.T) {
	Bytes(nil)
}

func TestMultipleZeroizesEverySlice(t *testing.T) {
	a := []byte{1, 1}
	b := []byte{2, 2, 2}
	Multiple(a, b)
	require.Equal(t, []byte{0, 0}, a)
	require.Equal(t, []byte{0, 0, 0}, b)
}
