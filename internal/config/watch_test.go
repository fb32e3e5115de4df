package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestWatcherReloads(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "field.yaml")
	if err := os.WriteFile(path, []byte("field:\n  count: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, GetPreset("dense"), nil)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	w.Debounce = 10 * time.Millisecond
	w.Overrides = func(c *Config) { c.Field.Seed = 3 }

	got := make(chan *Config, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func(c *Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()
	defer func() {
		cancel()
		<-done
		w.Close()
	}()

	// An invalid file is skipped, the valid one after it is delivered.
	if err := os.WriteFile(path, []byte("field:\n  render_every: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("field:\n  count: 42\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// A save can surface as several events; wait for the final content.
	timeout := time.After(5 * time.Second)
	for {
		var c *Config
		select {
		case c = <-got:
		case <-timeout:
			t.Fatal("no reload with the new count delivered")
		}
		if c.Field.Count != 42 {
			continue
		}
		if c.Palette.Band != "aurora" {
			t.Errorf("expected base preset band, got %s", c.Palette.Band)
		}
		if c.Field.Seed != 3 {
			t.Errorf("expected override seed 3, got %d", c.Field.Seed)
		}
		break
	}

	if GetPreset("dense").Field.Count != 220 {
		t.Error("reload must not mutate the base preset")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "field.yaml"), nil, nil); err == nil {
		t.Error("expected error watching a missing directory")
	}
}
