package artifact_manager

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultBaseDir = "data/numbers"
	ArtifactExt    = ".png"
)

// ErrNoArtifact is returned by Lookup when a value has no stored crop.
var ErrNoArtifact = errors.New("no artifact for value")

// Files named <anything>_h<height>.png carry their pixel height.
var heightSuffix = regexp.MustCompile(`_h(\d+)\.png$`)

// GetValueDir returns the directory holding every crop of a value.
// Example: data/numbers/42/
func GetValueDir(baseDir string, value int) string {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	return filepath.Join(baseDir, strconv.Itoa(value))
}

// GetArtifactPath returns the path of the crop of value taken from raster in
// document. Example: data/numbers/42/42_book1_book1_0007.png
func GetArtifactPath(baseDir string, value int, document, raster string) string {
	stem := strings.TrimSuffix(raster, filepath.Ext(raster))
	name := fmt.Sprintf("%d_%s_%s%s", value, document, stem, ArtifactExt)
	return filepath.Join(GetValueDir(baseDir, value), name)
}

// Manager handles storage and retrieval of number crops.
type Manager struct {
	baseDir string
}

// NewManager creates a new Artifact Manager instance rooted at baseDir,
// creating the directory if needed.
func NewManager(baseDir string) (*Manager, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// BaseDir returns the store root.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// ArtifactPath is GetArtifactPath under this manager's root.
func (m *Manager) ArtifactPath(value int, document, raster string) string {
	return GetArtifactPath(m.baseDir, value, document, raster)
}

// Exists reports whether a file is already stored at path.
func (m *Manager) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("error statting artifact: %w", err)
}

// Save writes data to path through a temporary file in the same directory,
// so a reader never sees a partial crop. The value directory is created on
// demand.
func (m *Manager) Save(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create value directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*"+ArtifactExt)
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit artifact: %w", err)
	}
	return nil
}

// ListValues returns the values that have a directory in the store, ascending.
func ListValues(baseDir string) ([]int, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact store: %w", err)
	}

	var values []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := strconv.Atoi(e.Name())
		if err != nil || v < 0 || strconv.Itoa(v) != e.Name() {
			continue
		}
		values = append(values, v)
	}
	sort.Ints(values)
	return values, nil
}

// List returns the stored crops of value in filename order. Temp files from
// an interrupted Save are ignored.
func List(baseDir string, value int) ([]string, error) {
	dir := GetValueDir(baseDir, value)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read value directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ArtifactExt {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// Lookup returns the first stored crop of value, in filename order, with its
// pixel height.
func Lookup(baseDir string, value int) (string, int, error) {
	paths, err := List(baseDir, value)
	if err != nil {
		return "", 0, err
	}
	if len(paths) == 0 {
		return "", 0, fmt.Errorf("%w %d", ErrNoArtifact, value)
	}

	h, err := Height(paths[0])
	if err != nil {
		return "", 0, err
	}
	return paths[0], h, nil
}

// Height reads a crop's pixel height from its _h<N> filename suffix, or
// from the PNG header when the name carries none.
func Height(path string) (int, error) {
	if m := heightSuffix.FindStringSubmatch(filepath.Base(path)); m != nil {
		if h, err := strconv.Atoi(m[1]); err == nil {
			return h, nil
		}
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("failed to read png header %s: %w", filepath.Base(path), err)
	}
	return cfg.Height, nil
}
