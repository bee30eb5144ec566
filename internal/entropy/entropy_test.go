package entropy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomReturnsRequestedLength(t *testing.T) {
	b, err := Random(64)
	require.NoError(t, err)
	require.Len(t, b, 64)
}

func TestRandomDiffersAcrossCalls(t *testing.T) {
	a, err := Random(32)
	require.NoError(t, err)
	b, err := Random(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestRandomZeroLength(t *testing.T) {
	b, err := Random(0)
	require.NoError(t, err)
	require.Empty(t, b)
}
