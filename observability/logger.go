// Package observability sets up logging and metrics
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel = "PIXSTEG_LOG_LEVEL"

	FormatConsole = "console"
	FormatJSON    = "json"
)

// InitLogger builds the process logger and installs it as the global one.
// Logs go to stderr so stdout stays free for command output.
func InitLogger(app string, level zerolog.Level, format string) zerolog.Logger {
	return InitLoggerTo(os.Stderr, app, level, format)
}

func InitLoggerTo(out io.Writer, app string, level zerolog.Level, format string) zerolog.Logger {
	w := out
	if format != FormatJSON {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	logger := zerolog.New(w).Level(level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// ParseLevel maps a level name to a zerolog level. The second result is
// false for empty or unknown names, in which case info is returned.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

// LevelFromEnv returns the level named by PIXSTEG_LOG_LEVEL, or fallback.
func LevelFromEnv(fallback zerolog.Level) zerolog.Level {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		return lvl
	}
	return fallback
}
