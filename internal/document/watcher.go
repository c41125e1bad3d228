// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// =============================================================================
// STAGED FILE WATCHER
// =============================================================================

// Vanished reports that a tracked file was removed or renamed.
type Vanished struct {
	Path string
}

// Watcher tracks one staged file and reports when it disappears.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	events  chan Vanished

	mu      sync.Mutex
	tracked string
	dir     string

	done chan struct{}
	once sync.Once
}

// NewWatcher creates a watcher and starts its event loop.
func NewWatcher(logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		watcher: fw,
		logger:  logger.Named("document"),
		events:  make(chan Vanished, 4),
		done:    make(chan struct{}),
	}
	go w.processEvents()
	return w, nil
}

// Events delivers a Vanished for each removal or rename of the tracked file.
func (w *Watcher) Events() <-chan Vanished {
	return w.events
}

// Track starts watching path, replacing any previously tracked file.
func (w *Watcher) Track(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir != "" && w.dir != dir {
		_ = w.watcher.Remove(w.dir)
		w.dir = ""
	}
	if w.dir == "" {
		// Watching the directory catches renames that a file watch misses.
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.dir = dir
	}
	w.tracked = abs
	return nil
}

// Untrack stops watching the tracked file.
func (w *Watcher) Untrack() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dir != "" {
		_ = w.watcher.Remove(w.dir)
	}
	w.dir = ""
	w.tracked = ""
}

// Tracked returns the tracked path, or "".
func (w *Watcher) Tracked() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tracked
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.mu.Lock()
			hit := w.tracked != "" && filepath.Clean(event.Name) == w.tracked
			w.mu.Unlock()
			if !hit {
				continue
			}

			w.logger.Info("staged document vanished", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			select {
			case w.events <- Vanished{Path: filepath.Clean(event.Name)}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}
