package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds logging settings read from the environment
type Config struct {
	// Level is one of debug, info, warn, error
	Level string `env:"TASKLIST_LOG_LEVEL" envDefault:"info"`

	// Format is text or json
	Format string `env:"TASKLIST_LOG_FORMAT" envDefault:"text"`

	// File is the log destination. Empty means a dated file in the temp
	// directory when verbose, and no logging otherwise.
	File string `env:"TASKLIST_LOG_FILE"`
}

// ConfigFromEnv loads logging settings from environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DefaultLogFile returns the dated log path used in verbose mode.
func DefaultLogFile(now time.Time) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("tasklist_%s.log", now.Format("2006-01-02")))
}

// Init installs the default slog logger. The returned closer releases the
// log file, if one was opened.
func Init(cfg Config, verbose bool) (io.Closer, error) {
	level := ParseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}

	path := cfg.File
	if path == "" && verbose {
		path = DefaultLogFile(time.Now())
	}

	var (
		out    io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return closer, fmt.Errorf("error creating log file: %w", err)
		}
		out, closer = f, f
	}

	slog.SetDefault(slog.New(NewHandler(out, cfg.Format, level)))
	slog.Debug("verbose logging enabled", "file", path)
	return closer, nil
}

// NewHandler builds a text or json handler writing to out.
func NewHandler(out io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// Module returns a logger tagged with the module name.
func Module(name string) *slog.Logger {
	return slog.Default().With(slog.String("module", name))
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
