// Package logging builds the process logger from configuration.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/example/wds/internal/config"
)

// Level maps a configured level name onto a logrus level.
// Unknown names fall back to info.
func Level(name string) logrus.Level {
	switch name {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// New returns a logger writing to out with the configured level and format.
func New(cfg *config.Config, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(Level(cfg.LogLevel))
	if cfg.LogFormat == config.LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// FromConfig returns a logger for cfg. When LogPath is set the log file is
// opened for append and returned so the caller can close it; otherwise the
// logger writes to stderr and the returned file is nil.
func FromConfig(cfg *config.Config) (*logrus.Logger, *os.File, error) {
	if cfg.LogPath == "" {
		return New(cfg, os.Stderr), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return New(cfg, f), f, nil
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
