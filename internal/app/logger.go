package app

import (
	"fmt"
	"io"
	"log/slog"
)

type logFormat int

const (
	logFormatText logFormat = iota
	logFormatJSON
)

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", s)
}

func parseLogFormat(s string) (logFormat, error) {
	switch s {
	case "text":
		return logFormatText, nil
	case "json":
		return logFormatJSON, nil
	}
	return 0, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", s)
}

// newLogger builds the run's logger from a validated configuration. It
// writes to w only and never replaces the global logger.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if format, _ := parseLogFormat(cfg.LogFormat); format == logFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
