// Package log provides structured logging for ff.
//
// Package: log
// Title: Structured Logging
// Description: Leveled, field-based logging with JSON, text, console and
//              logfmt output. Components derive loggers with WithField
//              ("component", ...) and log structured errors with LogError.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Trimmed for the ff command line tool
//
// Usage:
//
//	logger := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Format: mdwlog.FormatLogfmt})
//	logger = logger.WithField("component", "runner")
//	timer := logger.StartTimer("ffmpeg run")
//	defer timer.Stop()
package log
