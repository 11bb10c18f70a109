package obs

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger creates a slog logger. Development environments get colored text output,
// everything else JSON. format overrides the environment default when set.
func NewLogger(env, level, format string) *slog.Logger {
	return newLogger(os.Stdout, env, level, format)
}

func newLogger(w io.Writer, env, level, format string) *slog.Logger {
	lvl := ParseLevel(level)

	if format == "" {
		format = "json"
		if env == "development" || env == "dev" || env == "local" {
			format = "text"
		}
	}

	if strings.EqualFold(format, "text") {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.RFC3339,
			AddSource:  true,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: true,
	}))
}

// ParseLevel maps debug, info, warn and error onto slog levels. Unknown values are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
