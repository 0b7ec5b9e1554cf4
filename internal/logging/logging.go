package logging

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mkazlouski/adwatch/internal/config"
)

// Logger defines the logging interface used by the application.
// This abstracts the underlying logging library (hclog).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// Named creates a sublogger with a name component.
	Named(name string) Logger
	// With adds key-value pairs to the logger's context.
	With(args ...interface{}) Logger
}

var _ Logger = (*hclogWrapper)(nil)

// hclogWrapper adapts hclog.Logger to the Logger interface.
type hclogWrapper struct {
	logger hclog.Logger
}

func (w *hclogWrapper) Debug(msg string, args ...interface{}) {
	w.logger.Debug(msg, args...)
}

func (w *hclogWrapper) Info(msg string, args ...interface{}) {
	w.logger.Info(msg, args...)
}

func (w *hclogWrapper) Warn(msg string, args ...interface{}) {
	w.logger.Warn(msg, args...)
}

func (w *hclogWrapper) Error(msg string, args ...interface{}) {
	w.logger.Error(msg, args...)
}

func (w *hclogWrapper) Named(name string) Logger {
	return &hclogWrapper{logger: w.logger.Named(name)}
}

func (w *hclogWrapper) With(args ...interface{}) Logger {
	return &hclogWrapper{logger: w.logger.With(args...)}
}

// appLogger is the process-wide logger, set once by InitializeLogger.
var appLogger Logger

// InitializeLogger creates the application's logger instance based on configuration.
// It should be called early in the application startup.
func InitializeLogger(cfg *config.Config) {
	level := hclog.LevelFromString(cfg.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	appLogger = &hclogWrapper{logger: hclog.New(&hclog.LoggerOptions{
		Name:       "adwatch",
		Level:      level,
		Output:     os.Stderr,
		JSONFormat: strings.ToLower(cfg.LogFormat) == "json",
	})}

	appLogger.Info("Logger initialized", "level", level.String(), "format", cfg.LogFormat)
}

// Get returns the initialized application logger. If InitializeLogger has not
// been called yet, a warn-level fallback logger is returned instead.
func Get() Logger {
	if appLogger == nil {
		fallback := &hclogWrapper{logger: hclog.New(&hclog.LoggerOptions{
			Name:  "adwatch-fallback",
			Level: hclog.Warn,
		})}
		fallback.Error("Get() called before InitializeLogger!")
		return fallback
	}
	return appLogger
}
