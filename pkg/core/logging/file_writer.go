// ============================================================================
// ff - plain-English media command translator
// ============================================================================
//
// Package:     logging
// Description: Batched log file writer
// Author:      msto63
// Created:     2025-12-06
// Modified:    2026-10-19
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	"github.com/msto63/ff/foundation/utils/filex"
)

// FileWriter implements io.Writer and appends log lines to a file in batches
type FileWriter struct {
	// Configuration
	path        string
	batchSize   int
	flushPeriod time.Duration

	// Output
	file io.WriteCloser

	// Batching
	buffer   [][]byte
	bufferMu sync.Mutex
	flushCh  chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	closed   bool
}

// FileWriterConfig holds configuration for FileWriter
type FileWriterConfig struct {
	Path        string        // Log file path, parent directories are created
	BatchSize   int           // Number of lines to batch (default: 100)
	FlushPeriod time.Duration // How often to flush (default: 2s)
}

// DefaultFileWriterConfig returns default configuration
func DefaultFileWriterConfig(path string) FileWriterConfig {
	return FileWriterConfig{
		Path:        path,
		BatchSize:   100,
		FlushPeriod: 2 * time.Second,
	}
}

// NewFileWriter opens the log file for appending and starts the flush worker
func NewFileWriter(cfg FileWriterConfig) (*FileWriter, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushPeriod <= 0 {
		cfg.FlushPeriod = 2 * time.Second
	}

	if err := filex.EnsureDir(filepath.Dir(cfg.Path)); err != nil {
		return nil, mdwerror.Wrap(err, "creating log directory").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("logging.NewFileWriter").
			WithDetail("path", cfg.Path)
	}
	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, mdwerror.Wrap(err, "opening log file").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("logging.NewFileWriter").
			WithDetail("path", cfg.Path)
	}

	w := &FileWriter{
		path:        cfg.Path,
		batchSize:   cfg.BatchSize,
		flushPeriod: cfg.FlushPeriod,
		file:        file,
		buffer:      make([][]byte, 0, cfg.BatchSize),
		flushCh:     make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}

	go w.flushWorker()

	return w, nil
}

// Write implements io.Writer. The line is copied; p may be reused by the caller.
func (w *FileWriter) Write(p []byte) (n int, err error) {
	line := make([]byte, len(p))
	copy(line, p)

	w.bufferMu.Lock()
	if w.closed {
		w.bufferMu.Unlock()
		return 0, os.ErrClosed
	}
	w.buffer = append(w.buffer, line)
	shouldFlush := len(w.buffer) >= w.batchSize
	w.bufferMu.Unlock()

	if shouldFlush {
		select {
		case w.flushCh <- struct{}{}:
		default:
		}
	}

	return len(p), nil
}

// Path returns the log file path
func (w *FileWriter) Path() string {
	return w.path
}

// flushWorker periodically flushes the buffer
func (w *FileWriter) flushWorker() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.flushPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			w.flush()
			return
		case <-w.flushCh:
			w.flush()
		case <-ticker.C:
			w.flush()
		}
	}
}

// flush writes buffered lines to the file
func (w *FileWriter) flush() {
	w.bufferMu.Lock()
	if len(w.buffer) == 0 {
		w.bufferMu.Unlock()
		return
	}
	lines := w.buffer
	w.buffer = make([][]byte, 0, w.batchSize)
	w.bufferMu.Unlock()

	for _, line := range lines {
		// a failing log file must not break the command being logged
		if _, err := w.file.Write(line); err != nil {
			return
		}
	}
}

// Close flushes pending lines and closes the file
func (w *FileWriter) Close() error {
	w.bufferMu.Lock()
	if w.closed {
		w.bufferMu.Unlock()
		return nil
	}
	w.closed = true
	w.bufferMu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	return w.file.Close()
}
