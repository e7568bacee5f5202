package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCollapsesBursts(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { fired.Add(1) })
	}

	time.Sleep(200 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("callback fired %d times, want 1", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(150 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("callback fired %d times after Stop, want 0", got)
	}
}

func TestWatcherTriggersReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("ruleset: test\n"), 0o644); err != nil {
		t.Fatalf("writing ruleset: %v", err)
	}

	w, err := NewWatcher(path, 0, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Watch(ctx, func() error {
			reloads.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("ruleset: test\nversion: '2'\n"), 0o644); err != nil {
		t.Fatalf("rewriting ruleset: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for reloads.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if reloads.Load() == 0 {
		t.Fatal("reload never triggered after file write")
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	<-done
}

func TestWatcherAtomicRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("ruleset: test\n"), 0o644); err != nil {
		t.Fatalf("writing ruleset: %v", err)
	}

	w, err := NewWatcher(path, 0, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Watch(ctx, func() error {
			reloads.Add(1)
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)

	// Editor-style save: write a temp file and rename it over the target.
	tmp := filepath.Join(dir, "rules.yaml.tmp")
	if err := os.WriteFile(tmp, []byte("ruleset: test\nversion: '3'\n"), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("renaming temp file: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for reloads.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if reloads.Load() == 0 {
		t.Fatal("reload never triggered after atomic rename")
	}

	w.Stop()
	<-done
}

func TestWatcherStopWhenNotRunning(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "rules.yaml"), 0, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() on idle watcher error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestWatcherStopBeforeWatchClosesHandle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("ruleset: test\n"), 0o644); err != nil {
		t.Fatalf("writing ruleset: %v", err)
	}

	w, err := NewWatcher(path, 0, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() before Watch error = %v", err)
	}

	// The fsnotify handle is closed, so a late Watch cannot register.
	if err := w.Watch(context.Background(), func() error { return nil }); err == nil {
		t.Error("Watch() after Stop succeeded, want error")
	}
}

func TestWatcherCustomDebounce(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "rules.yaml"), 250*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if w.debounce.interval != 250*time.Millisecond {
		t.Errorf("debounce interval = %v, want 250ms", w.debounce.interval)
	}
}
