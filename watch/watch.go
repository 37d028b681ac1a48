// ABOUTME: Watches the routes index and content directories for edits made outside the server.
// ABOUTME: Purely observational: events are logged and counted, and nothing is cached or reloaded.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389-research/blocksite/logging"
	"github.com/2389-research/blocksite/metrics"
	"github.com/2389-research/blocksite/store"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Event is one observed change to a JSON file under a watched directory.
type Event struct {
	Path string
	Op   string // create, write, remove, rename
}

// Option configures optional Watcher behavior.
type Option func(*Watcher)

// WithLogger sets the logger for observed events.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		w.logger = logging.OrNop(l)
	}
}

// WithMetrics counts observed events.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Watcher) {
		w.metrics = m
	}
}

// WithNotify calls fn for every observed event, from the watch goroutine.
func WithNotify(fn func(Event)) Option {
	return func(w *Watcher) {
		w.notify = fn
	}
}

// Watcher reports changes to the files a store reads.
type Watcher struct {
	store   *store.Store
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	metrics *metrics.Metrics
	notify  func(Event)
	dirs    []string
}

// New creates a watcher over the directories holding st's routes index and
// content files. Directories that do not exist yet are skipped with a warning.
func New(st *store.Store, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		store:   st,
		watcher: fw,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, dir := range w.directories() {
		if _, err := os.Stat(dir); err != nil {
			w.logger.Warn("not watching missing directory", zap.String("dir", dir))
			continue
		}
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs = append(w.dirs, dir)
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}
	return w, nil
}

// Dirs returns the directories actually being watched.
func (w *Watcher) Dirs() []string {
	out := make([]string, len(w.dirs))
	copy(out, w.dirs)
	return out
}

func (w *Watcher) directories() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range append([]string{w.store.RoutesPath()}, w.store.ContentPaths()...) {
		dir := filepath.Clean(filepath.Dir(p))
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Skips the atomic-write temp files along with anything else that is not a document.
	if !strings.HasSuffix(event.Name, ".json") {
		return
	}

	var op string
	switch {
	case event.Op&fsnotify.Create != 0:
		op = "create"
	case event.Op&fsnotify.Write != 0:
		op = "write"
	case event.Op&fsnotify.Remove != 0:
		op = "remove"
	case event.Op&fsnotify.Rename != 0:
		op = "rename"
	default:
		return
	}

	w.logger.Info("content changed on disk", zap.String("path", event.Name), zap.String("op", op))
	w.metrics.RecordChange(op)
	if w.notify != nil {
		w.notify(Event{Path: event.Name, Op: op})
	}
}
