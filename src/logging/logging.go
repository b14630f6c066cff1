// Package logging builds the zap logger used for internal diagnostics.
// Operator-facing output goes through package output instead.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration.
type Config struct {
	Verbose bool
	Output  io.Writer
}

// New creates a console logger. Verbose enables debug level; otherwise
// only warnings and errors are written.
func New(cfg Config) *zap.Logger {
	level := zapcore.WarnLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(cfg.Output),
		level,
	)
	return zap.New(core).Named("hlbuild")
}
