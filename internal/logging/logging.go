// Package logging builds zerolog loggers from a small configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects the level, format and destination of a logger.
type Config struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error; defaults to info
	Format string `yaml:"format"` // json (default) or console
	Output string `yaml:"output"` // stderr (default), stdout or a file path
}

// New creates a logger writing to cfg.Output. The returned closer releases
// the output file, if any.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	var (
		writer io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log output: %w", err)
		}
		writer, closer = f, f
	}

	logger, err := NewWithWriter(cfg, writer)
	if err != nil {
		_ = closer.Close()
		return zerolog.Nop(), nil, err
	}
	return logger, closer, nil
}

// NewWithWriter creates a logger writing to w, ignoring cfg.Output.
func NewWithWriter(cfg Config, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	switch cfg.Format {
	case "", "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// SetGlobal replaces the package-level zerolog logger.
func SetGlobal(logger zerolog.Logger) {
	log.Logger = logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
