package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache stores raw API responses on disk, one file per request URL, and
// treats entries older than ttl as missing.
type Cache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
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
		now:  time.Now,
	}, nil
}

// key generates a SHA256 hash of the request URL to use as a filename.
func (c *Cache) key(requestURL string) string {
	hash := sha256.Sum256([]byte(requestURL))
	return fmt.Sprintf("%x.xml", hash)
}

// Get returns the cached response for requestURL when present and fresh.
// A ttl of zero never expires entries.
func (c *Cache) Get(requestURL string) ([]byte, bool) {
	filePath := filepath.Join(c.path, c.key(requestURL))

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a response body for requestURL.
func (c *Cache) Set(requestURL string, data []byte) error {
	filePath := filepath.Join(c.path, c.key(requestURL))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
