package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/techcafe/reservation-engine/config"
)

func writeNames(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "display_name.txt")
	writeNames(t, path, "Ana Garcia\n\n# a comment\nBob Chen\n  Carla Diaz  \n")

	n, err := config.LoadNames(path)
	if err != nil {
		t.Fatalf("LoadNames: %v", err)
	}

	got := n.All()
	want := []string{"Ana Garcia", "Bob Chen", "Carla Diaz"}
	if len(got) != len(want) {
		t.Fatalf("got %d names, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name %d = %q, want %q", i, got[i], want[i])
		}
	}
	if n.Count() != 3 {
		t.Errorf("Count = %d, want 3", n.Count())
	}
}

func TestLoadNames_MissingFileIsEmptyList(t *testing.T) {
	n, err := config.LoadNames(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("LoadNames: %v", err)
	}
	if got := n.All(); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestReload_SwapsAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "display_name.txt")
	writeNames(t, path, "Ana Garcia\n")

	n, err := config.LoadNames(path)
	if err != nil {
		t.Fatalf("LoadNames: %v", err)
	}
	before := n.All()

	writeNames(t, path, "Bob Chen\nCarla Diaz\n")
	if err := n.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	// The old slice is untouched; the new list is complete.
	if len(before) != 1 || before[0] != "Ana Garcia" {
		t.Errorf("previously returned list mutated: %v", before)
	}
	after := n.All()
	if len(after) != 2 || after[0] != "Bob Chen" {
		t.Errorf("reload not visible: %v", after)
	}
}

func TestReload_FileRemovedBecomesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "display_name.txt")
	writeNames(t, path, "Ana Garcia\n")

	n, err := config.LoadNames(path)
	if err != nil {
		t.Fatalf("LoadNames: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := n.Reload(); err != nil {
		t.Fatalf("Reload after remove: %v", err)
	}
	if got := n.All(); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}
