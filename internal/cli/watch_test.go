package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestFileWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	bank := filepath.Join(dir, "paper.txt")
	if err := os.WriteFile(bank, []byte(testBank), 0o644); err != nil {
		t.Fatal(err)
	}

	fw, err := newFileWatcher(50*time.Millisecond, newLogger(&bytes.Buffer{}, log.DebugLevel))
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Close()

	files, err := fw.Add(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("Add found %v, want the one bank", files)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	batches := make(chan []string, 4)
	go fw.Run(ctx, func(paths []string) { batches <- paths })

	// Several writes in quick succession arrive as one batch.
	for range 3 {
		if err := os.WriteFile(bank, []byte(testBank+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	// Files that are not banks are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-batches:
		if len(got) != 1 || filepath.Base(got[0]) != "paper.txt" {
			t.Errorf("batch = %v", got)
		}
	case <-ctx.Done():
		t.Fatal("no change delivered")
	}

	select {
	case extra := <-batches:
		t.Errorf("unexpected second batch %v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcherAccepts(t *testing.T) {
	fw := &fileWatcher{
		files: map[string]bool{"/x/one.yaml": true},
		dirs:  map[string]bool{"/banks": true},
	}
	tests := []struct {
		path string
		want bool
	}{
		{"/x/one.yaml", true},
		{"/x/two.yaml", false},
		{"/banks/p1.txt", true},
		{"/banks/p1.png", false},
		{"/other/p1.txt", false},
	}
	for _, tt := range tests {
		if got := fw.accepts(tt.path); got != tt.want {
			t.Errorf("accepts(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
