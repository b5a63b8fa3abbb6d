// file: internal/database/metadata_cache.go
// version: 1.1.0
// guid: 3e7a1c95-0b24-4d68-8f1e-b6c2d9a40e73

package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/cockroachdb/pebble/v2"
	"github.com/jdfalk/audiobook-librarian/internal/cache"
	"github.com/jdfalk/audiobook-librarian/internal/logger"
	"github.com/jdfalk/audiobook-librarian/internal/metadata"
	"github.com/jdfalk/audiobook-librarian/internal/metrics"
)

// MetadataCache persists per-file tag records in PebbleDB so repeated runs
// over the same tree skip tag parsing.
//
// Key Schema:
// - meta:file:<path> -> cachedRecord JSON
//
// An entry is reused only while the file's size and modification time match.
type MetadataCache struct {
	db     *pebble.DB
	mem    *cache.Cache[cachedRecord]
	next   metadata.RecordReader
	log    *logger.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

type cachedRecord struct {
	Size    int64                    `json:"size"`
	ModTime int64                    `json:"mtime"`
	Record  metadata.AudioFileRecord `json:"record"`
}

const (
	metaFilePrefix = "meta:file:"
	metaFileEnd    = "meta:file;"

	// memEntries bounds the in-memory front; pebble keeps the rest.
	memEntries = 4096
)

// CacheStats describes the cache contents and this session's lookups.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// OpenMetadataCache opens (or creates) the cache at dir. Misses are served by next.
func OpenMetadataCache(dir string, next metadata.RecordReader, log *logger.Logger) (*MetadataCache, error) {
	db, err := pebble.Open(dir, &pebble.Options{FormatMajorVersion: pebble.FormatNewest})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}
	if next == nil {
		next = metadata.TagReader{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &MetadataCache{
		db:   db,
		mem:  cache.NewBounded[cachedRecord](0, memEntries),
		next: next,
		log:  log,
	}, nil
}

// Close closes the database
func (c *MetadataCache) Close() error {
	return c.db.Close()
}

// ReadRecord returns the cached record for path when it is still fresh and
// otherwise reads it through the wrapped reader and stores the result.
func (c *MetadataCache) ReadRecord(path string) (metadata.AudioFileRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return metadata.AudioFileRecord{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	size, mtime := info.Size(), info.ModTime().UnixNano()

	if rec, ok := c.lookup(path); ok && rec.Size == size && rec.ModTime == mtime {
		c.hits.Add(1)
		metrics.IncCacheLookup("hit")
		return rec.Record, nil
	}

	c.misses.Add(1)
	metrics.IncCacheLookup("miss")
	record, err := c.next.ReadRecord(path)
	if err != nil {
		return record, err
	}

	entry := cachedRecord{Size: size, ModTime: mtime, Record: record}
	if err := c.store(path, entry); err != nil {
		c.log.Warn("failed to cache metadata", "path", path, "error", err)
	}
	return record, nil
}

func (c *MetadataCache) lookup(path string) (cachedRecord, bool) {
	if rec, ok := c.mem.Get(path); ok {
		return rec, true
	}
	value, closer, err := c.db.Get([]byte(metaFilePrefix + path))
	if err != nil {
		if !errors.Is(err, pebble.ErrNotFound) {
			c.log.Warn("failed to read metadata cache", "path", path, "error", err)
		}
		return cachedRecord{}, false
	}
	defer closer.Close()

	var rec cachedRecord
	if err := json.Unmarshal(value, &rec); err != nil {
		c.log.Debug("Ignoring corrupt cache entry", "path", path, "error", err)
		return cachedRecord{}, false
	}
	c.mem.Set(path, rec)
	return rec, true
}

func (c *MetadataCache) store(path string, rec cachedRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := c.db.Set([]byte(metaFilePrefix+path), data, pebble.NoSync); err != nil {
		return err
	}
	c.mem.Set(path, rec)
	return nil
}

// Flush syncs pending writes to disk.
func (c *MetadataCache) Flush() error {
	return c.db.Flush()
}

// Stats counts stored entries and reports this session's hit/miss counters.
func (c *MetadataCache) Stats() (CacheStats, error) {
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(metaFilePrefix),
		UpperBound: []byte(metaFileEnd),
	})
	if err != nil {
		return CacheStats{}, err
	}
	defer iter.Close()

	stats := CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	for iter.First(); iter.Valid(); iter.Next() {
		stats.Entries++
	}
	return stats, iter.Error()
}

// Clear removes every cached record.
func (c *MetadataCache) Clear() error {
	if err := c.db.DeleteRange([]byte(metaFilePrefix), []byte(metaFileEnd), pebble.Sync); err != nil {
		return fmt.Errorf("failed to clear metadata cache: %w", err)
	}
	c.mem.InvalidateAll()
	return nil
}
