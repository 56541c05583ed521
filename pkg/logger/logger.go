// Package logger wires the process-wide structured logger
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mutex  sync.RWMutex
	logger = zerolog.Nop()
	ready  bool
)

type Config struct {
	Level      string `env:"LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error fatal"`
	Format     string `env:"FORMAT" envDefault:"console" validate:"oneof=console json"`
	Output     string `env:"OUTPUT" envDefault:"stderr" validate:"oneof=stdout stderr file"`
	FilePath   string `env:"FILE" validate:"required_if=Output file"`
	TimeFormat string `env:"TIME_FORMAT" envDefault:"15:04:05"`
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stderr",
		TimeFormat: time.TimeOnly,
	}
}

// New builds a logger from the configuration without touching the global one
func New(config Config) (zerolog.Logger, error) {
	var output io.Writer
	switch config.Output {
	case "stdout":
		output = os.Stdout
	case "file":
		if config.FilePath == "" {
			return zerolog.Nop(), fmt.Errorf("a log file must be specified when the output is \"file\"")
		}
		file, err := os.OpenFile(config.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("cannot open log file: %w", err)
		}
		output = file
	default:
		output = os.Stderr
	}

	if config.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: config.TimeFormat,
		}
	}

	return zerolog.New(output).Level(parseLevel(config.Level)).With().Timestamp().Logger(), nil
}

// Init replaces the global logger
func Init(config Config) error {
	built, err := New(config)
	if err != nil {
		return err
	}

	mutex.Lock()
	defer mutex.Unlock()
	logger = built
	ready = true
	return nil
}

// Get returns the global logger, initializing it with the default configuration on first use
func Get() zerolog.Logger {
	mutex.RLock()
	if ready {
		defer mutex.RUnlock()
		return logger
	}
	mutex.RUnlock()

	if err := Init(DefaultConfig()); err != nil {
		return zerolog.Nop()
	}
	return Get()
}

// Nop returns a logger that discards everything
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// Component returns a sub-logger tagged with the component name
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
