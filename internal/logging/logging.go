// Package logging builds the zap logger used across contacts.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smileynet/contacts/internal/config"
)

// New builds a JSON logger for cfg. Output goes to cfg.File (appended) or,
// when empty, to stderr. The returned close func flushes and releases the file.
func New(cfg config.Log) (*zap.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	var (
		out     io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: opening %s: %w", cfg.File, err)
		}
		out = f
		closeFn = f.Close
	}

	logger := NewWithWriter(out, level)
	return logger, func() error {
		_ = logger.Sync()
		return closeFn()
	}, nil
}

// NewWithWriter builds a JSON logger writing entries at or above level to w.
func NewWithWriter(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core).Named("contacts")
}
