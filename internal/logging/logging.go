// Package logging builds the file-backed logr.Logger used across rollouts-tui.
// The terminal belongs to the TUI, so nothing is ever written to stdout/stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger appending to path at the given level ("debug",
// "info", "warn", "error"). An empty path discards everything. The returned
// func flushes and closes the file.
func New(path, level string) (logr.Logger, func() error, error) {
	noop := func() error { return nil }
	if path == "" {
		return logr.Discard(), noop, nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return logr.Discard(), noop, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return logr.Discard(), noop, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return logr.Discard(), noop, fmt.Errorf("opening log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), lvl)
	zl := zap.New(core, zap.AddCaller())

	closeFn := func() error {
		_ = zl.Sync()
		return f.Close()
	}
	return zapr.NewLogger(zl).WithName("rollouts-tui"), closeFn, nil
}
