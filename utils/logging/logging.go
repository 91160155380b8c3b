// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	filePermission = 0o644

	formatJSON = "json"
	formatText = "text"
)

var (
	once  sync.Once
	level = new(slog.LevelVar)
)

// getLogOutput opens the configured log file, falling back to stderr so that
// stdout stays reserved for the import summary.
func getLogOutput(logFilePath string) io.Writer {
	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermission)
		if err == nil {
			return file
		}

		slog.Error("Failed to open log file, defaulting to stderr", "error", err)
	}

	return os.Stderr
}

// NewHandler builds a slog handler for the given format writing to out.
// Unknown formats fall back to text.
func NewHandler(out io.Writer, format string, leveler slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: leveler}

	switch strings.ToLower(format) {
	case formatJSON:
		return slog.NewJSONHandler(out, opts)
	case formatText:
		return slog.NewTextHandler(out, opts)
	default:
		slog.Warn("Invalid log format, defaulting to text", "format", format)

		return slog.NewTextHandler(out, opts)
	}
}

// ParseLevel converts a level name into a slog.Level, defaulting to INFO.
func ParseLevel(name string) slog.Level {
	var lvl slog.Level

	if err := lvl.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return slog.LevelInfo
	}

	return lvl
}

// InitLogger installs the global logger. Only the first call has an effect.
func InitLogger(cfg *Config) {
	once.Do(func() {
		level.Set(cfg.LogLevel)
		slog.SetDefault(slog.New(NewHandler(getLogOutput(cfg.LogFile), cfg.LogFormat, level)))
	})
}

// SetLevel changes the level of the global logger after initialization.
func SetLevel(lvl slog.Level) {
	level.Set(lvl)
}

// Logger returns the default logger tagged with a component name.
func Logger(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func init() {
	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("Failed to load logger config", "error", err)
		os.Exit(1)
	}

	InitLogger(cfg)
}
