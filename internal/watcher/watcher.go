// Package watcher reports debounced changes to a graph file.
package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 200 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	Path     string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher signals when the watched file is written, created or replaced.
// Bursts of events within the debounce window produce one signal.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	logger    *slog.Logger
	onChange  chan struct{}
	done      chan struct{}
}

// New creates a watcher for cfg.Path. It does not start watching.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("resolving %s: %w", cfg.Path, err)
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      abs,
		debounce:  cfg.Debounce,
		logger:    cfg.Logger,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start watches the file's directory, so that editors replacing the file
// are noticed. The returned channel receives one value per settled change.
func (w *Watcher) Start() (<-chan struct{}, error) {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}
	go w.loop()
	return w.onChange, nil
}

// Stop ends the watch and releases its resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error.", "path", w.path, "error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == w.path
}
