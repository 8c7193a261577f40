package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"outliner-cli/internal/outline"
)

func TestWatchFile_EmitsInitialAndOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outline.txt")
	if err := os.WriteFile(path, []byte("- A\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []outline.Node, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, func(tree []outline.Node) error {
			got <- tree
			return nil
		})
	}()

	next := func() []outline.Node {
		t.Helper()
		select {
		case tree := <-got:
			return tree
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for a parse")
			return nil
		}
	}

	if first := next(); len(first) != 1 || first[0].Content != "A" {
		t.Fatalf("initial parse: %+v", first)
	}

	if err := os.WriteFile(path, []byte("- A\n- B\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if second := next(); len(second) != 2 || second[1].Content != "B" {
		t.Fatalf("parse after write: %+v", second)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watch did not stop on cancel")
	}
}

func TestWatchFile_MissingFile(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), time.Millisecond, func([]outline.Node) error { return nil })
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error; got %v", err)
	}
}
