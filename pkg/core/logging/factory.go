// ============================================================================
// ff - plain-English media command translator
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating the CLI logger
// Author:      msto63
// Created:     2025-12-06
// Modified:    2026-10-19
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"sync"

	mdwlog "github.com/msto63/ff/foundation/core/log"
)

var (
	// Global FileWriter instance, created on first use
	globalFileWriter *FileWriter
	fileWriterMu     sync.Mutex
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Logger name, shown as "logger" in structured output
	Name string

	// Log level (trace, debug, info, warn, error, fatal)
	Level string

	// Output format (json, text, console, logfmt; default: console)
	Format string

	// Optional log file, written in addition to Output
	File string

	// Primary output (default: os.Stderr)
	Output io.Writer

	// Additional outputs
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "error",
		Format: "console",
	}
}

// NewLogger creates a Foundation logger. A log file that cannot be opened
// is reported on the returned logger and otherwise skipped.
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	writers := []io.Writer{output}
	var fileErr error
	if cfg.File != "" {
		fw, err := getOrCreateFileWriter(cfg.File)
		if err != nil {
			fileErr = err
		} else {
			writers = append(writers, fw)
		}
	}
	writers = append(writers, cfg.AdditionalOutputs...)
	if len(writers) > 1 {
		output = io.MultiWriter(writers...)
	}

	logger := mdwlog.NewWithConfig(mdwlog.Config{
		Level:  parseLevel(cfg.Level),
		Format: parseFormat(cfg.Format),
		Output: output,
		Name:   cfg.Name,
	})

	if fileErr != nil {
		logger.WarnWithErr("log file disabled", fileErr, mdwlog.Fields{"file": cfg.File})
	}

	return logger
}

// NewSimpleLogger creates a console logger at the default level
func NewSimpleLogger(name string) *mdwlog.Logger {
	return NewLogger(DefaultLoggerConfig(name))
}

// getOrCreateFileWriter returns the global FileWriter, creating it if
// necessary. A different path replaces the previous writer.
func getOrCreateFileWriter(path string) (*FileWriter, error) {
	fileWriterMu.Lock()
	defer fileWriterMu.Unlock()

	if globalFileWriter != nil {
		if globalFileWriter.Path() == path {
			return globalFileWriter, nil
		}
		globalFileWriter.Close()
		globalFileWriter = nil
	}

	writer, err := NewFileWriter(DefaultFileWriterConfig(path))
	if err != nil {
		return nil, err
	}
	globalFileWriter = writer
	return writer, nil
}

// CloseGlobalFileWriter flushes and closes the global FileWriter
func CloseGlobalFileWriter() error {
	fileWriterMu.Lock()
	defer fileWriterMu.Unlock()

	if globalFileWriter != nil {
		err := globalFileWriter.Close()
		globalFileWriter = nil
		return err
	}
	return nil
}

// parseLevel converts a string level, falling back to error
func parseLevel(level string) mdwlog.Level {
	l, err := mdwlog.ParseLevel(level)
	if err != nil {
		return mdwlog.LevelError
	}
	return l
}

// parseFormat converts a string format, falling back to console
func parseFormat(format string) mdwlog.Format {
	f, err := mdwlog.ParseFormat(format)
	if err != nil {
		return mdwlog.FormatConsole
	}
	return f
}
