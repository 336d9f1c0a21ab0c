// Package watcher keeps watched folders in sync with the document
// index, reacting to filesystem events with debounced reindexing.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driving"
	"github.com/aurelia-labs/nexus-cli/internal/logger"
)

// defaultDebounce coalesces rapid event bursts (editors often write a
// file several times in quick succession) into one reindex.
const defaultDebounce = 500 * time.Millisecond

// Watcher mirrors filesystem changes under the configured folders into
// the document index.
type Watcher struct {
	indexer  driving.IndexService
	docs     driven.DocumentStore
	registry driven.ExtractorRegistry
	folders  []string
	debounce time.Duration

	fsw *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce overrides the event debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over the given folders.
func New(indexer driving.IndexService, docs driven.DocumentStore, registry driven.ExtractorRegistry, folders []string, opts ...Option) *Watcher {
	w := &Watcher{
		indexer:  indexer,
		docs:     docs,
		registry: registry,
		folders:  folders,
		debounce: defaultDebounce,
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until the context is cancelled. Folders that cannot be
// watched are logged and skipped rather than failing the whole run.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.folders) == 0 {
		return fmt.Errorf("no folders to watch: %w", domain.ErrInvalidInput)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()
	w.fsw = fsw

	watched := 0
	for _, folder := range w.folders {
		if err := w.addRecursive(folder); err != nil {
			logger.Warn("Cannot watch %s: %v", folder, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("none of the configured folders could be watched: %w", domain.ErrInvalidInput)
	}
	logger.Info("Watching %d folder(s)", watched)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// addRecursive watches a directory and every non-hidden subdirectory.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if isHidden(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// handleEvent routes one filesystem event. Directory creation extends
// the watch; file creation and writes schedule a reindex; removal and
// rename schedule removal from the index. Chmod is noise.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := event.Name
	if isHidden(path) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if err := w.addRecursive(path); err != nil {
				logger.Warn("Cannot watch new directory %s: %v", path, err)
			}
			return
		}
		w.scheduleIndex(ctx, path)

	case event.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return
		}
		w.scheduleIndex(ctx, path)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.schedule(path, func() { w.removePath(ctx, path) })
	}
}

// scheduleIndex debounces an index of one supported file.
func (w *Watcher) scheduleIndex(ctx context.Context, path string) {
	if _, err := w.registry.ForPath(path); err != nil {
		return
	}
	w.schedule(path, func() { w.indexPath(ctx, path) })
}

// schedule runs fn after the debounce interval, resetting the timer on
// every new event for the same path.
func (w *Watcher) schedule(path string, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		fn()
	})
}

// indexPath ingests one file, logging failures instead of stopping the
// watch loop.
func (w *Watcher) indexPath(ctx context.Context, path string) {
	doc, err := w.indexer.Index(ctx, path, nil)
	if err != nil {
		logger.Warn("Auto-index of %s failed: %v", path, err)
		return
	}
	logger.Debug("Auto-indexed %s as %s", path, doc.ID)
}

// removePath drops a vanished file from the index, if it was indexed.
func (w *Watcher) removePath(ctx context.Context, path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	doc, err := w.docs.GetByPath(ctx, abs)
	if err != nil {
		return
	}
	if err := w.indexer.Delete(ctx, doc.ID); err != nil {
		logger.Warn("Auto-removal of %s failed: %v", path, err)
		return
	}
	logger.Debug("Removed %s from index", path)
}

// isHidden reports whether any path component is dot-prefixed. The
// relative markers "." and ".." do not count.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
