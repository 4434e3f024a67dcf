package watch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatcher_ReportsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{dir}, func(name string) bool { return strings.HasSuffix(name, ".json") }, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "10-powers.json")
	if err := os.WriteFile(want, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Changes:
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no change reported")
	}
}

func TestNew_MissingDir(t *testing.T) {
	if _, err := New([]string{filepath.Join(t.TempDir(), "nope")}, nil, 0); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}
