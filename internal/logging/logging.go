// Package logging builds the application's slog logger on top of zap.
//
// The TUI owns stdout, so records go to a file. Components take a
// *slog.Logger and treat nil as "discard" via OrDiscard.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"

	"github.com/einar/transportapp/internal/config"
)

// New opens cfg.Path for appending and returns a logger writing to it plus a
// cleanup func that flushes and closes the file.
func New(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	if cfg.Path == "" {
		return nil, nil, fmt.Errorf("logging: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, sync := NewWriter(f, cfg.Level, cfg.Format)
	return logger, func() error {
		_ = sync()
		return f.Close()
	}, nil
}

// NewWriter builds a logger on an arbitrary writer.
func NewWriter(w io.Writer, level, format string) (*slog.Logger, func() error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(format, "console") {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), parseLevel(level))
	zl := zap.New(core)
	return slog.New(zapslog.NewHandler(core)), zl.Sync
}

// OrDiscard returns l, or a logger that drops everything when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
