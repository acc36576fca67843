package forest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.jsonl")
	if err := os.WriteFile(path, []byte(`{"id":"a","start":1,"end":2}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads := w.Start(ctx)

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.jsonl"), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// Several quick writes collapse into one reload.
	for i := 0; i < 3; i++ {
		data := `{"id":"a","start":1,"end":2}` + "\n" + `{"id":"b","start":5,"end":10}` + "\n"
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case r := <-reloads:
		if r.Err != nil {
			t.Fatalf("reload error: %v", r.Err)
		}
		if r.Result.Forest.Len() != 2 {
			t.Errorf("reloaded %d nodes, want 2", r.Result.Forest.Len())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for reload")
	}

	select {
	case r, ok := <-reloads:
		if ok {
			t.Errorf("unexpected second reload: %+v", r)
		}
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopClosesChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	reloads := w.Start(context.Background())

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}

	select {
	case _, ok := <-reloads:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after Stop")
	}
}
