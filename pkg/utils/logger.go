package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a zap logger writing to stderr. When debug is true, uses development config
// (human-readable, debug level); otherwise uses production config (JSON, info level).
func NewLogger(debug bool) (*zap.Logger, error) {
	return newLogger(debug, "stderr")
}

// NewFileLogger is NewLogger writing to path instead of stderr. Used when
// stderr is not visible, e.g. under an MCP client.
func NewFileLogger(debug bool, path string) (*zap.Logger, error) {
	if path == "" {
		path = "stderr"
	}
	return newLogger(debug, path)
}

func newLogger(debug bool, output string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
