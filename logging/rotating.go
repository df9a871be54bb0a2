package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Options controls log level, file retention and rotation.
type Options struct {
	Level          string
	RetentionWeeks int
	MaxFileSize    int64
}

// RotatingWriter writes log output to one file per ISO week, rotating on
// week change or when the file grows past MaxFileSize, and prunes files
// older than the retention window.
type RotatingWriter struct {
	logDir      string
	retention   time.Duration
	maxFileSize int64

	mu          sync.Mutex
	currentFile *os.File
	currentWeek string
	currentSize int64
	lastCleanup time.Time
}

// NewRotatingWriter creates a rotating writer under logDir.
func NewRotatingWriter(logDir string, retentionWeeks int, maxFileSize int64) *RotatingWriter {
	return &RotatingWriter{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
	}
}

// weekKey returns the week key in YYYY-Www format (ISO week)
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	week := weekKey(time.Now())
	needsRotate := rw.currentFile == nil ||
		week != rw.currentWeek ||
		(rw.maxFileSize > 0 && rw.currentSize+int64(len(p)) > rw.maxFileSize)

	if needsRotate {
		if err := rw.rotate(week); err != nil {
			return 0, err
		}
	}

	n, err := rw.currentFile.Write(p)
	rw.currentSize += int64(n)
	return n, err
}

// rotate opens the log file for targetWeek; caller must hold the lock.
func (rw *RotatingWriter) rotate(targetWeek string) error {
	if rw.currentFile != nil {
		if err := rw.currentFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file during rotation: %v\n", err)
		}
		rw.currentFile = nil
	}

	if err := os.MkdirAll(rw.logDir, 0750); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", rw.logDir, err)
	}

	name := fmt.Sprintf("app-%s.log", targetWeek)
	if rw.maxFileSize > 0 && targetWeek == rw.currentWeek {
		// Size rotation within the same week gets a timestamp suffix.
		name = fmt.Sprintf("app-%s-%d.log", targetWeek, time.Now().Unix())
	}

	logPath := filepath.Join(rw.logDir, name)
	file, err := os.OpenFile(filepath.Clean(logPath), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to stat log file %s: %w", logPath, err)
	}

	rw.currentFile = file
	rw.currentWeek = targetWeek
	rw.currentSize = info.Size()

	if time.Since(rw.lastCleanup) > 24*time.Hour {
		rw.cleanup()
		rw.lastCleanup = time.Now()
	}

	return nil
}

// cleanup removes log files older than the retention window; caller must
// hold the lock.
func (rw *RotatingWriter) cleanup() {
	if rw.retention <= 0 {
		return
	}

	entries, err := os.ReadDir(rw.logDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read log directory: %v\n", err)
		return
	}

	cutoff := time.Now().Add(-rw.retention)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "app-") || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(rw.logDir, entry.Name())); err != nil {
				fmt.Fprintf(os.Stderr, "failed to remove old log file %s: %v\n", entry.Name(), err)
			}
		}
	}
}

// Close closes the current log file.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.currentFile == nil {
		return nil
	}
	err := rw.currentFile.Close()
	rw.currentFile = nil
	return err
}

// SetupLogger builds a slog.Logger writing JSON to the rotating file and
// text to stdout.
func SetupLogger(logDir string, opts Options) *slog.Logger {
	level := parseLevel(opts.Level)

	rotating := NewRotatingWriter(logDir, opts.RetentionWeeks, opts.MaxFileSize)
	fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: level})
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	return slog.New(&teeHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
}

func parseLevel(level string) slog.Level {
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

// teeHandler fans records out to multiple handlers.
type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: next}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: next}
}

var _ io.Writer = (*RotatingWriter)(nil)
