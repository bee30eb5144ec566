package ref

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lostinentropy/zeppelin/internal/api"
)

func TestNewRejectsZeroSettings(t *testing.T) {
	salt := make([]byte, api.SaltSize)

	_, err := newXOF([]byte("p"), salt, api.Settings{SCost: 0, TCost: 1, StepDelta: 1})
	require.Error(t, err)
	_, err = newXOF([]byte("p"), salt, api.Settings{SCost: 1, TCost: 0, StepDelta: 1})
	require.Error(t, err)
	_, err = newXOF([]byte("p"), salt, api.Settings{SCost: 1, TCost: 1, StepDelta: 0})
	require.Error(t, err)
}

func TestCounterNeverRepeatsWithinOneLifetime(t *testing.T) {
	x, err := newXOF([]byte("p"), make([]byte, api.SaltSize), api.Settings{SCost: 4, TCost: 1, StepDelta: 2, Version: 1})
	require.NoError(t, err)
	defer x.Close()

	ctrAfterInit := x.ctr
	require.Greater(t, ctrAfterInit, uint64(0))

	require.NoError(t, x.Squeeze(make([]byte, 64)))
	require.Greater(t, x.ctr, ctrAfterInit)
}

func TestOutputBlockAdvancesPosCyclically(t *testing.T) {
	x, err := newXOF([]byte("p"), make([]byte, api.SaltSize), api.Settings{SCost: 3, TCost: 1, StepDelta: 1, Version: 1})
	require.NoError(t, err)
	defer x.Close()

	require.EqualValues(t, 0, x.pos)
	x.outputBlock()
	require.EqualValues(t, 1, x.pos)
	x.outputBlock()
	require.EqualValues(t, 2, x.pos)
	x.outputBlock()
	require.EqualValues(t, 0, x.pos)
}

func TestCloseZeroizesBuffer(t *testing.T) {
	x, err := newXOF([]byte("p"), make([]byte, api.SaltSize), api.Settings{SCost: 2, TCost: 1, StepDelta: 1, Version: 1})
	require.NoError(t, err)

	nonZero := false
	for _, b := range x.buf {
		if b != 0 {
			nonZero = true
			break
		}
	}
	require.True(t, nonZero, "balloon buffer should not be all zero before close")

	x.Close()
	for _, b := range x.buf {
		require.Zero(t, b)
	}
}
