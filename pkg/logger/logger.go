package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

var defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Level:           log.InfoLevel,
})

var logFile *os.File

// Init configures the default logger. When file is non-empty, output goes
// there instead of stderr so log lines never interleave with the chat UI.
func Init(level, file string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}

	out := io.Writer(os.Stderr)
	if file != "" {
		if dir := filepath.Dir(file); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		out = f
	}

	defaultLogger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           parsed,
	})
	return nil
}

// WithComponent returns a logger tagged with the given component name.
func WithComponent(name string) *log.Logger {
	return defaultLogger.With("component", name)
}

// Close releases the log file if one was opened.
func Close() error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}
