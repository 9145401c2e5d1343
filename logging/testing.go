package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

// testWriter forwards encoded log lines to the underlying `testing.TB` so that each line is
// associated with the test that produced it, including tests running with `t.Parallel()`.
type testWriter struct {
	tb testing.TB
}

func (tw testWriter) Write(p []byte) (int, error) {
	tw.tb.Helper()
	tw.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

func (tw testWriter) Sync() error {
	return nil
}

func newTestCore(tb testing.TB) zapcore.Core {
	cfg := NewZapEncoderConfig()
	// tb.Log already prefixes the caller.
	cfg.CallerKey = zapcore.OmitKey
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), testWriter{tb}, zapcore.DebugLevel)
}
