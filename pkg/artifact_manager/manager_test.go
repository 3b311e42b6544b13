package artifact_manager

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestGetArtifactPath(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		document string
		raster   string
		want     string
	}{
		{name: "jp2", value: 12, document: "book1", raster: "p1.jp2", want: filepath.Join("out", "12", "12_book1_p1.png")},
		{name: "zero", value: 0, document: "book1", raster: "book1_0003.jp2", want: filepath.Join("out", "0", "0_book1_book1_0003.png")},
		{name: "no extension", value: 7, document: "b", raster: "scan", want: filepath.Join("out", "7", "7_b_scan.png")},
		{name: "dotted stem", value: 7, document: "b", raster: "scan.v2.tif", want: filepath.Join("out", "7", "7_b_scan.v2.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetArtifactPath("out", tt.value, tt.document, tt.raster); got != tt.want {
				t.Errorf("GetArtifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManager_SaveAndExists(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "numbers"))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	path := m.ArtifactPath(12, "book1", "p1.jp2")
	ok, err := m.Exists(path)
	if err != nil || ok {
		t.Fatalf("Exists() before save = %v, %v, want false, nil", ok, err)
	}

	if err := m.Save(path, pngBytes(t, 4, 3)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	ok, err = m.Exists(path)
	if err != nil || !ok {
		t.Fatalf("Exists() after save = %v, %v, want true, nil", ok, err)
	}

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("value directory has %d entries, want 1", len(entries))
	}
}

func TestListValues(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"12", "3", "007", "abc", "100"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0750); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "5"), nil, 0600); err != nil {
		t.Fatal(err)
	}

	got, err := ListValues(root)
	if err != nil {
		t.Fatalf("ListValues() error = %v", err)
	}
	if want := []int{3, 12, 100}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListValues() = %v, want %v", got, want)
	}
}

func TestLookup(t *testing.T) {
	root := t.TempDir()
	m, err := NewManager(root)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Save(filepath.Join(root, "12", "12_b_p2_h40.png"), pngBytes(t, 5, 9)); err != nil {
		t.Fatal(err)
	}
	if err := m.Save(filepath.Join(root, "12", "12_a_p1.png"), pngBytes(t, 5, 9)); err != nil {
		t.Fatal(err)
	}
	if err := m.Save(filepath.Join(root, "7", "7_a_p1_h40.png"), pngBytes(t, 5, 9)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		value      int
		wantBase   string
		wantHeight int
		wantErr    error
	}{
		{name: "first sorted file, height from header", value: 12, wantBase: "12_a_p1.png", wantHeight: 9},
		{name: "height from suffix", value: 7, wantBase: "7_a_p1_h40.png", wantHeight: 40},
		{name: "missing value", value: 99, wantErr: ErrNoArtifact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, h, err := Lookup(root, tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Lookup() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if filepath.Base(path) != tt.wantBase {
				t.Errorf("path = %q, want base %q", path, tt.wantBase)
			}
			if h != tt.wantHeight {
				t.Errorf("height = %d, want %d", h, tt.wantHeight)
			}
		})
	}
}

func TestList_IgnoresTempFiles(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "4")
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{".tmp-123.png", "4_a_p1.png", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0600); err != nil {
			t.Fatal(err)
		}
	}

	got, err := List(root, 4)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if want := []string{filepath.Join(dir, "4_a_p1.png")}; !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}
