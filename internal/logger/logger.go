// Package logger configures the process-wide structured logger. Level and
// format come from the environment (LOG_LEVEL, LOG_FORMAT) so deployments
// tune verbosity without a rebuild.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Type alias for slog.Level for easier usage
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	// Logger is the process-wide logger. Init replaces it; the default
	// is a text handler at INFO.
	Logger *slog.Logger

	programLevel = new(slog.LevelVar)
)

func init() {
	programLevel.Set(slog.LevelInfo)
	Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel}))
}

// Init configures the global logger from the environment:
// LOG_LEVEL one of DEBUG, INFO, WARN, ERROR (default INFO);
// LOG_FORMAT "json" for JSON output (default text).
func Init() {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		levelStr = "INFO"
	}
	level, err := ParseLevel(levelStr)
	if err != nil {
		level = slog.LevelInfo
	}
	programLevel.Set(level)

	opts := &slog.HandlerOptions{Level: programLevel}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		Logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	} else {
		Logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	}

	slog.SetDefault(Logger)
}

// SetLevel changes the level of the running logger.
func SetLevel(level Level) {
	programLevel.Set(level)
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}
