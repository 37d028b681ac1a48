// ABOUTME: Tests for the content watcher using real fsnotify events in a temporary root.
// ABOUTME: Covers directory selection, JSON filtering, and event counting.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/2389-research/blocksite/content"
	"github.com/2389-research/blocksite/metrics"
	"github.com/2389-research/blocksite/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewSkipsMissingDirs(t *testing.T) {
	st := store.New(store.Config{Root: t.TempDir()})
	w, err := New(st)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.watcher.Close()

	if len(w.Dirs()) != 0 {
		t.Errorf("expected no watched dirs, got %v", w.Dirs())
	}
}

func TestDirectoriesDeduplicated(t *testing.T) {
	st := store.New(store.Config{Root: t.TempDir()})
	w := &Watcher{store: st}

	// Default routes: data/routes.json and data/content/homepage.json.
	dirs := w.directories()
	if len(dirs) != 2 {
		t.Fatalf("expected 2 directories, got %v", dirs)
	}
	if dirs[0] != filepath.Join(st.Root(), "data") {
		t.Errorf("unexpected first dir %q", dirs[0])
	}
}

func TestRunReportsSaves(t *testing.T) {
	root := t.TempDir()
	st := store.New(store.Config{Root: root})
	if err := os.MkdirAll(filepath.Join(root, "data", "content"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	events := make(chan Event, 16)
	m := metrics.New()
	w, err := New(st, WithMetrics(m), WithNotify(func(e Event) {
		select {
		case events <- e:
		default:
		}
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(w.Dirs()) != 2 {
		t.Fatalf("expected 2 watched dirs, got %v", w.Dirs())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := st.SaveBlocks(store.HomepageRoute, content.DefaultBlocks()); err != nil {
		t.Fatalf("SaveBlocks: %v", err)
	}

	want := filepath.Join(root, "data", "content", "homepage.json")
	timeout := time.After(5 * time.Second)
	for found := false; !found; {
		select {
		case e := <-events:
			if e.Path != want {
				t.Errorf("unexpected event path %q", e.Path)
				continue
			}
			found = true
		case <-timeout:
			t.Fatal("timed out waiting for change event")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run: %v", err)
	}

	total := testutil.CollectAndCount(m.ContentChanges)
	if total == 0 {
		t.Error("expected change counter to be recorded")
	}
}
