// Package storage finds source documents on disk.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dtnitsch/hocr-numbers/models"
)

var (
	// ErrNoLayout marks a document directory without an hOCR file.
	ErrNoLayout = errors.New("no layout file")
	// ErrNoRasterDir marks a document directory without a raster directory.
	ErrNoRasterDir = errors.New("no raster directory")
)

type Storage struct{}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// SaveFile writes content to filePath, creating its directory.
func (s *Storage) SaveFile(filePath string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// DiscoverDocuments lists every sub-directory of rawDir as a source
// document, sorted by name. The layout file is the first regular file whose
// name ends in layoutSuffix and the raster directory the first directory
// ending in rasterSuffix. Symlinks are followed. A document missing either,
// or whose directory cannot be read, is still returned with DiscoveryErr set.
// Only an unreadable rawDir is an error.
func DiscoverDocuments(rawDir, layoutSuffix, rasterSuffix string) ([]models.SourceDocument, error) {
	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw directory: %w", err)
	}

	var docs []models.SourceDocument
	for _, e := range entries {
		dir := filepath.Join(rawDir, e.Name())
		if strings.HasPrefix(e.Name(), ".") || !isDir(dir) {
			continue
		}
		docs = append(docs, discoverDocument(dir, layoutSuffix, rasterSuffix))
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func discoverDocument(dir, layoutSuffix, rasterSuffix string) models.SourceDocument {
	doc := models.SourceDocument{Name: filepath.Base(dir), Dir: dir}

	entries, err := os.ReadDir(dir)
	if err != nil {
		doc.DiscoveryErr = fmt.Errorf("failed to read document directory %s: %w", doc.Name, err)
		return doc
	}

	// os.ReadDir returns entries sorted by filename.
	for _, e := range entries {
		name := e.Name()
		path := filepath.Join(dir, name)
		switch {
		case doc.LayoutPath == "" && strings.HasSuffix(name, layoutSuffix) && isRegular(path):
			doc.LayoutPath = path
		case doc.RasterDir == "" && strings.HasSuffix(name, rasterSuffix) && isDir(path):
			doc.RasterDir = path
		}
	}

	switch {
	case doc.LayoutPath == "":
		doc.DiscoveryErr = fmt.Errorf("%w matching *%s", ErrNoLayout, layoutSuffix)
	case doc.RasterDir == "":
		doc.DiscoveryErr = fmt.Errorf("%w matching *%s", ErrNoRasterDir, rasterSuffix)
	}
	return doc
}

// isDir and isRegular stat through symlinks; broken links are neither.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
