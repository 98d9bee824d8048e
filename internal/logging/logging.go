// Package logging builds the slog logger shared by the server and the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dechenique1/fgr/internal/config"
)

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

// New returns a text logger at cfg.Level. With cfg.Path set, output goes to
// that file, trimmed to its most recent bytes as it grows; otherwise to
// fallback. The returned close func is never nil.
func New(cfg config.LogConfig, fallback io.Writer) (*slog.Logger, func() error, error) {
	w := fallback
	closeFn := func() error { return nil }
	if cfg.Path != "" {
		file, err := OpenFile(cfg.Path)
		if err != nil {
			return nil, closeFn, fmt.Errorf("opening log file: %w", err)
		}
		w = file
		closeFn = file.Close
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}))
	return logger, closeFn, nil
}

// ParseLevel maps a config level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// File is an append-only log file that keeps only its tail once it grows
// past a size limit.
type File struct {
	mu      sync.Mutex
	file    *os.File
	maxSize int64
	keep    int64
}

// OpenFile opens or creates the log file at path, creating parent directories.
func OpenFile(path string) (*File, error) {
	return openFile(path, maxLogSizeBytes, keepLogSizeBytes)
}

func openFile(path string, maxSize, keep int64) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	f := &File{file: file, maxSize: maxSize, keep: keep}
	if err := f.trim(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return f, nil
}

func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, err := f.file.Write(p)
	if err != nil {
		return n, err
	}
	return n, f.trim()
}

// Close closes the underlying file.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}

// trim rewrites the file with its last keep bytes once it exceeds maxSize.
func (f *File) trim() error {
	info, err := f.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= f.maxSize {
		return nil
	}

	buf := make([]byte, f.keep)
	n, err := f.file.ReadAt(buf, size-f.keep)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := f.file.Truncate(0); err != nil {
		return err
	}
	if _, err := f.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err = f.file.Write(buf)
	return err
}
