package portfolio

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestContentWatcherReloadsOnChange(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "blog")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	var reloads atomic.Int32
	w, err := NewContentWatcher(root, func(context.Context) error {
		reloads.Add(1)
		return nil
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewContentWatcher failed: %v", err)
	}
	w.debounce = 20 * time.Millisecond
	w.Start(context.Background())
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(nested, "post.mdx"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return reloads.Load() >= 1 })
}

func TestContentWatcherDebounces(t *testing.T) {
	root := t.TempDir()
	var reloads atomic.Int32
	w, err := NewContentWatcher(root, func(context.Context) error {
		reloads.Add(1)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("NewContentWatcher failed: %v", err)
	}
	w.debounce = 200 * time.Millisecond
	w.Start(context.Background())
	defer w.Stop()

	for i := 0; i < 5; i++ {
		w.triggerReload()
		time.Sleep(10 * time.Millisecond)
	}
	waitFor(t, func() bool { return reloads.Load() >= 1 })
	time.Sleep(300 * time.Millisecond)
	if got := reloads.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1", got)
	}
}

func TestContentWatcherStopIsIdempotent(t *testing.T) {
	w, err := NewContentWatcher(t.TempDir(), func(context.Context) error { return nil }, nil)
	if err != nil {
		t.Fatalf("NewContentWatcher failed: %v", err)
	}
	w.Start(context.Background())
	if err := w.Stop(); err != nil {
		t.Errorf("first Stop: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestNewContentWatcherMissingRoot(t *testing.T) {
	_, err := NewContentWatcher(filepath.Join(t.TempDir(), "missing"), func(context.Context) error { return nil }, nil)
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}
