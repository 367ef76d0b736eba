package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	changed []string
	removed []string
}

func (r *recorder) onChange(path string) {
	r.mu.Lock()
	r.changed = append(r.changed, path)
	r.mu.Unlock()
}

func (r *recorder) onRemove(path string) {
	r.mu.Lock()
	r.removed = append(r.removed, path)
	r.mu.Unlock()
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changed), len(r.removed)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatcher_AddRemove(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "chat.html")
	if err := writeFile(f, "<p>a</p>"); err != nil {
		t.Fatal(err)
	}

	w := New(nil, nil)
	if err := w.Add(f); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(f); err != nil {
		t.Fatal(err)
	}
	if got := w.Files(); len(got) != 1 || filepath.Base(got[0]) != "chat.html" {
		t.Errorf("Files() = %v", got)
	}
	if err := w.Remove(f); err != nil {
		t.Fatal(err)
	}
	if len(w.Files()) != 0 {
		t.Errorf("after remove: %v", w.Files())
	}
}

func TestWatcher_AddRejectsMissingAndDirectories(t *testing.T) {
	dir := t.TempDir()
	w := New(nil, nil)
	if err := w.Add(filepath.Join(dir, "missing.html")); err == nil {
		t.Error("expected error for missing file")
	}
	if err := w.Add(dir); err == nil {
		t.Error("expected error for directory")
	}
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "chat.html")
	other := filepath.Join(dir, "other.html")
	if err := writeFile(f, "v0"); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := New(rec.onChange, rec.onRemove, WithDebounce(150*time.Millisecond))
	if err := w.Add(f); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := writeFile(f, "v"+string(rune('1'+i))); err != nil {
			t.Fatal(err)
		}
	}
	if err := writeFile(other, "unwatched"); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { c, _ := rec.counts(); return c >= 1 })
	time.Sleep(300 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.changed) != 1 {
		t.Errorf("changed = %v, want exactly one callback", rec.changed)
	}
	if filepath.Base(rec.changed[0]) != "chat.html" {
		t.Errorf("changed path = %q", rec.changed[0])
	}
}

func TestWatcher_Remove_Callback(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "chat.html")
	if err := writeFile(f, "v0"); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := New(rec.onChange, rec.onRemove, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if err := w.Add(f); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(f); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { _, r := rec.counts(); return r == 1 })
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := New(nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
