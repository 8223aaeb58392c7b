package logger

import (
	"log/slog"
	"os"
	"strings"
)

// L is the global structured logger instance
var L *slog.Logger

// Init initializes the global JSON logger. Call once at startup, after
// loading config.
func Init(logLevelStr string) {
	var level slog.Level
	switch strings.ToLower(logLevelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	L = slog.New(handler)

	slog.SetDefault(L)
	L.Info("logger initialized", "level", level.String())
}
