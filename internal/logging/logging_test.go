package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pfield.log")

	logger, err := New(true, path)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	logger.Debug("debug line")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "debug line") {
		t.Errorf("expected debug entry in log, got %q", data)
	}
}

func TestNewQuietSkipsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pfield.log")

	logger, err := New(false, path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("unexpected log contents %q", data)
	}
}
