package artifact_manager

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWalk(t *testing.T) {
	root := t.TempDir()
	m, err := NewManager(root)
	if err != nil {
		t.Fatal(err)
	}

	for _, a := range []struct {
		value int
		name  string
		h     int
	}{
		{12, "12_a_p1.png", 9},
		{12, "12_b_p2.png", 9},
		{3, "3_a_p1_h30.png", 9},
	} {
		if err := m.Save(filepath.Join(GetValueDir(root, a.value), a.name), pngBytes(t, 4, a.h)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Walk(context.Background(), root, 2)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Walk() found %d artifacts, want 3: %+v", len(got), got)
	}

	// Sorted by path: "12/..." sorts before "3/...".
	if got[0].Value != 12 || got[2].Value != 3 {
		t.Errorf("order = %+v", got)
	}
	if got[2].Height != 30 || got[0].Height != 9 {
		t.Errorf("heights = %d, %d, want 9 and 30", got[0].Height, got[2].Height)
	}
}

func TestWalk_UnreadableArtifact(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "5")
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "5_a_p1.png"), []byte("junk"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Walk(context.Background(), root, 0); err == nil {
		t.Error("Walk() with a corrupt png returned nil error")
	}
}
