package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor save produces
const reloadDelay = 50 * time.Millisecond

// Watcher watches a file for changes and reloads it with load. A failed
// reload is logged and the last good value is kept.
type Watcher[T any] struct {
	path     string
	load     func(path string) (T, error)
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	mu       sync.RWMutex
	value    T
	handlers []func(T)
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher loads path once and prepares to watch it. The file's directory
// is watched so atomic saves (write to temp, rename over) are seen.
func NewWatcher[T any](path string, load func(string) (T, error)) (*Watcher[T], error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Load initial value
	value, err := load(abs)
	if err != nil {
		w.Close()
		return nil, err
	}

	cw := &Watcher[T]{
		path:    abs,
		load:    load,
		watcher: w,
		logger:  slog.Default().With("component", "watcher", "path", abs),
		value:   value,
		done:    make(chan struct{}),
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	return cw, nil
}

// Start starts watching for file changes
func (w *Watcher[T]) Start() {
	go w.watch()
}

// Stop stops the watcher
func (w *Watcher[T]) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

// OnReload registers a handler to be called after a successful reload
func (w *Watcher[T]) OnReload(handler func(T)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Get returns the current value
func (w *Watcher[T]) Get() T {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.value
}

func (w *Watcher[T]) watch() {
	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Reload on write or create (some editors do atomic saves via
			// rename); removal reloads too and usually restores defaults
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				timer.Reset(reloadDelay)
			}
		case <-timer.C:
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher[T]) reload() {
	value, err := w.load(w.path)
	if err != nil {
		w.logger.Error("reload failed, keeping previous value", "error", err)
		return
	}

	w.mu.Lock()
	w.value = value
	handlers := make([]func(T), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	w.logger.Info("reloaded")

	for _, handler := range handlers {
		handler(value)
	}
}
