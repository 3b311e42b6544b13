// Package caching keeps scan results of hOCR files between runs.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/hocr-numbers/models"
)

// Cache provides a simple file-based cache with a TTL. A zero TTL never
// expires entries.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
	}, nil
}

// key generates a SHA256 hash of the lookup key to use as a filename.
func (c *Cache) key(k string) string {
	hash := sha256.Sum256([]byte(k))
	return fmt.Sprintf("%x.yaml", hash)
}

// Get retrieves an item from the cache.
// It returns the data and true if the item is found and not expired.
// Otherwise, it returns nil and false.
func (c *Cache) Get(k string) ([]byte, bool) {
	filePath := filepath.Join(c.path, c.key(k))

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false // Cache miss
	}

	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false // Cache miss (expired)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false // Cache miss (read error)
	}

	return data, true // Cache hit
}

// Set adds an item to the cache. Workers share the directory, so the entry
// is written to a temp file and renamed into place.
func (c *Cache) Set(k string, data []byte) error {
	filePath := filepath.Join(c.path, c.key(k))

	tmp, err := os.CreateTemp(c.path, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// ScanEntry is a cached scan of one hOCR file.
type ScanEntry struct {
	Candidates *models.DocumentCandidates `yaml:"candidates"`
	Stats      models.ScanStats           `yaml:"stats"`
}

// ScanKey identifies a scan by the layout content hash and the parameters
// that change its outcome.
func ScanKey(contentHash string, minConfidence float64, maxValue int) string {
	return fmt.Sprintf("scan:%s:conf=%g:max=%d", contentHash, minConfidence, maxValue)
}

// GetScan returns a cached scan. Undecodable entries are treated as misses.
func (c *Cache) GetScan(k string) (*ScanEntry, bool) {
	data, ok := c.Get(k)
	if !ok {
		return nil, false
	}
	var entry ScanEntry
	if err := yaml.Unmarshal(data, &entry); err != nil || entry.Candidates == nil {
		return nil, false
	}
	return &entry, true
}

// SetScan stores a scan result.
func (c *Cache) SetScan(k string, entry *ScanEntry) error {
	data, err := yaml.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode scan entry: %w", err)
	}
	return c.Set(k, data)
}
