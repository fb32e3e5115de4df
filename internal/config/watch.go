package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a config file whenever it changes on disk. The file is
// merged over a copy of Base each time, then Overrides runs, so values set
// on the command line survive a reload.
type Watcher struct {
	Base      *Config
	Overrides func(*Config)
	Debounce  time.Duration

	path    string
	watcher *fsnotify.Watcher
	log     *zap.Logger
}

// NewWatcher watches the directory holding path, since editors often save by
// renaming a temporary file over the original.
func NewWatcher(path string, base *Config, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if base == nil {
		base = DefaultConfig()
	}
	return &Watcher{
		Base:     base,
		Debounce: 150 * time.Millisecond,
		path:     abs,
		watcher:  fw,
		log:      log,
	}, nil
}

// Run calls fn with every configuration that loads and validates. Invalid
// files are logged and skipped. Run returns when ctx is done or Close is called.
func (w *Watcher) Run(ctx context.Context, fn func(*Config)) {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			pending = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watch error", zap.Error(err))
		case <-pending:
			pending = nil
			cfg, err := w.reload()
			if err != nil {
				w.log.Warn("config reload skipped", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.log.Info("config reloaded", zap.String("path", w.path))
			fn(cfg)
		}
	}
}

func (w *Watcher) reload() (*Config, error) {
	cfg, err := Merge(w.path, w.Base.Clone())
	if err != nil {
		return nil, err
	}
	if w.Overrides != nil {
		w.Overrides(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (w *Watcher) Close() error { return w.watcher.Close() }
