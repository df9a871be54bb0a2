package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRotatingWriter(t *testing.T) {
	tempDir := t.TempDir()

	rw := NewRotatingWriter(tempDir, 1, 0)

	testMessage := "Test log message"
	if _, err := rw.Write([]byte(testMessage)); err != nil {
		t.Fatalf("Failed to write to log: %v", err)
	}

	currentWeek := weekKey(time.Now())
	expectedFileName := filepath.Join(tempDir, "app-"+currentWeek+".log")
	content, err := os.ReadFile(expectedFileName)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), testMessage) {
		t.Errorf("Log file does not contain test message: %s", string(content))
	}

	if err := rw.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
}

func TestWeekKey(t *testing.T) {
	testTime := time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC)
	// 2025-10-07 falls in ISO week 41 of 2025
	if got := weekKey(testTime); got != "2025-W41" {
		t.Errorf("Expected week key 2025-W41, got %s", got)
	}
}

func TestRotatingWriterSizeRotation(t *testing.T) {
	tempDir := t.TempDir()

	// Tiny max size so the second write forces a rotation
	rw := NewRotatingWriter(tempDir, 1, 32)

	if _, err := rw.Write([]byte(strings.Repeat("a", 30))); err != nil {
		t.Fatalf("Failed first write: %v", err)
	}
	if _, err := rw.Write([]byte(strings.Repeat("b", 30))); err != nil {
		t.Fatalf("Failed second write: %v", err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to read log directory: %v", err)
	}
	if len(entries) < 2 {
		t.Errorf("Expected a rotated file in addition to the current one, got %d files", len(entries))
	}

	if err := rw.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
}

func TestSetupLoggerWritesToFile(t *testing.T) {
	tempDir := t.TempDir()

	logger := SetupLogger(tempDir, Options{Level: "debug"})
	logger.Info("startup complete", "component", "test")

	expectedFileName := filepath.Join(tempDir, "app-"+weekKey(time.Now())+".log")
	content, err := os.ReadFile(expectedFileName)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "startup complete") {
		t.Errorf("Log file does not contain the logged message: %s", string(content))
	}
}
