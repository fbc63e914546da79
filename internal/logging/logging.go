// Package logging configures the process-wide zerolog logger.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel   = "ENVGUARD_LOG_LEVEL"
	EnvLogNoColor = "ENVGUARD_LOG_NOCOLOR"
)

// Init sets up a console logger tagged with the app name and installs it as
// the global logger. Diagnostics go to stderr so command output stays clean.
func Init(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    os.Getenv(EnvLogNoColor) != "",
	}
	logger := zerolog.New(output).Level(levelFromEnv()).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

func levelFromEnv() zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
