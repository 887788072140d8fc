// Package cache is the persistent classification store: one JSON file per
// content-addressed key. Corrupt or unreadable entries are misses, never
// failures; a racing duplicate write is wasted work and the last writer
// wins.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kirillkom/docsight/internal/core/ports"
)

type FileCache struct {
	dir string
}

// New creates the cache directory if needed. The store is unbounded; a
// size bound would slot in here without touching callers.
func New(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) Get(key string) (ports.CachedResult, bool) {
	raw, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		return ports.CachedResult{}, false
	}
	var result ports.CachedResult
	if err := json.Unmarshal(raw, &result); err != nil {
		slog.Warn("cache_entry_corrupt", "key", key, "error", err)
		return ports.CachedResult{}, false
	}
	return result, true
}

// Put writes through a temp file and rename so concurrent readers never
// observe a half-written entry. Failures are logged and dropped; caching
// is an optimization, not a correctness requirement.
func (c *FileCache) Put(key string, result ports.CachedResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		slog.Warn("cache_entry_encode_failed", "key", key, "error", err)
		return
	}

	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		slog.Warn("cache_write_failed", "key", key, "error", err)
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		slog.Warn("cache_write_failed", "key", key, "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		slog.Warn("cache_write_failed", "key", key, "error", err)
		return
	}
	if err := os.Rename(tmpName, c.entryPath(key)); err != nil {
		_ = os.Remove(tmpName)
		slog.Warn("cache_write_failed", "key", key, "error", err)
	}
}

func (c *FileCache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}
