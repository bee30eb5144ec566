package balloon

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lostinentropy/zeppelin/internal/api"
)

func smallSettings() api.Settings {
	return api.Settings{SCost: 8, TCost: 2, StepDelta: 2, Version: 1}
}

func TestNewRejectsBadSalt(t *testing.T) {
	_, err := New([]byte("password"), make([]byte, 16), smallSettings())
	require.Error(t, err)
}

func TestSqueezeIsDeterministic(t *testing.T) {
	password := []byte("correct horse battery staple")
	salt := make([]byte, api.SaltSize)
	for i := range salt {
		salt[i] = byte(i)
	}

	x1, err := New(password, salt, smallSettings())
	require.NoError(t, err)
	defer x1.Close()

	x2, err := New(password, salt, smallSettings())
	require.NoError(t, err)
	defer x2.Close()

	out1 := make([]byte, 200)
	out2 := make([]byte, 200)
	require.NoError(t, x1.Squeeze(out1))
	require.NoError(t, x2.Squeeze(out2))
	require.Equal(t, out1, out2)
}

func TestSqueezeDifferentSaltsDiverge(t *testing.T) {
	password := []byte("correct horse battery staple")
	saltA := make([]byte, api.SaltSize)
	saltB := make([]byte, api.SaltSize)
	saltB[0] = 1

	xa, err := New(password, saltA, smallSettings())
	require.NoError(t, err)
	defer xa.Close()

	xb, err := New(password, saltB, smallSettings())
	require.NoError(t, err)
	defer xb.Close()

	outA := make([]byte, 64)
	outB := make([]byte, 64)
	require.NoError(t, xa.Squeeze(outA))
	require.NoError(t, xb.Squeeze(outB))
	require.NotEqual(t, outA, outB)
}

func TestSqueezeAcrossChunkBoundaries(t *testing.T) {
	password := []byte("p")
	salt := make([]byte, api.SaltSize)

	whole, err := New(password, salt, smallSettings())
	require.NoError(t, err)
	defer whole.Close()

	wholeOut := make([]byte, 300)
	require.NoError(t, whole.Squeeze(wholeOut))

	piecewise, err := New(password, salt, smallSettings())
	require.NoError(t, err)
	defer piecewise.Close()

	piecewiseOut := make([]byte, 0, 300)
	for _, n := range []int{1, 7, 64, 63, 65, 100} {
		buf := make([]byte, n)
		require.NoError(t, piecewise.Squeeze(buf))
		piecewiseOut = append(piecewiseOut, buf...)
	}

	require.Equal(t, wholeOut, piecewiseOut)
}

func TestCloseIsIdempotentAndDisablesSqueeze(t *testing.T) {
	x, err := New([]byte("p"), make([]byte, api.SaltSize), smallSettings())
	require.NoError(t, err)

	x.Close()
	x.Close() // must not panic

	err = x.Squeeze(make([]byte, 1))
	require.Error(t, err)
}

func TestCloseOnNilIsSafe(t *testing.T) {
	var x *XOF
	x.Close() // must not panic
}

func TestImplementationName(t *testing.T) {
	x, err := New([]byte("p"), make([]byte, api.SaltSize), smallSettings())
	require.NoError(t, err)
	defer x.Close()
	require.Equal(t, "generic", x.Implementation())
}
