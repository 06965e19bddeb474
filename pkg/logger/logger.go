// Package logger provides the application-wide zerolog constructor.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // Human-readable console output instead of JSON
}

// New creates a configured zerolog.Logger.
// Invalid levels fall back to info rather than failing startup.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.Pretty {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		log = zerolog.New(output)
	} else {
		log = zerolog.New(os.Stderr)
	}

	return log.Level(level).With().Timestamp().Logger()
}
