// Package logging builds slog handlers for the command line.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

const (
	JSONFormat = "json"
	TextFormat = "text"
)

// ErrUnknownLogFormat is returned for a format other than text or json.
var ErrUnknownLogFormat = errors.New("unknown log format")

// NewHandler creates a handler writing to w at the given level. Text output
// goes through charmbracelet/log; json uses slog's JSON handler.
func NewHandler(w io.Writer, logLevel, logFormat string) (slog.Handler, error) {
	level := GetLevel(logLevel)

	switch strings.ToLower(strings.TrimSpace(logFormat)) {
	case TextFormat, "":
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:  charmLevel(level),
			Prefix: "respexample",
		}), nil
	case JSONFormat:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownLogFormat, logFormat)
	}
}

// New is NewHandler wrapped in a logger.
func New(w io.Writer, logLevel, logFormat string) (*slog.Logger, error) {
	h, err := NewHandler(w, logLevel, logFormat)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

// GetLevel parses a level name. Unknown names map to info.
func GetLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error", "fatal", "panic":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug", "trace":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level <= slog.LevelInfo:
		return charmlog.InfoLevel
	case level <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}
