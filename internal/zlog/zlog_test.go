package zlog

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	l := New("debug")
	require.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	l := New("not-a-level")
	require.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestDiscardSwallowsOutput(t *testing.T) {
	l := Discard()
	l.Info("this must not reach stderr")
}
