// Package zlog is the structured logger shared by aead and cmd/zep. It never logs password, key, tag, salt or plaintext bytes —
// only operation ids, component names, error kinds and byte counts.
package zlog

import "github.com/sirupsen/logrus"

// Logger is a narrow alias so call sites don't need to import logrus
// directly.
type Logger = logrus.FieldLogger

// New returns a text-formatted logger writing structured fields,
// configured at the given level name ("debug", "info", "warn",
// "error"). An unrecognized level falls back to "info".
func New(level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return l
}

// Discard returns a logger that drops everything, for library callers
// that don't want operational logs (e.g. tests).
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
