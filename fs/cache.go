// Package fs provides file-based storage for the fetch cache.
package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/legalfeed"
)

// Ensure CacheStore implements legalfeed.CacheStore at compile time.
var _ legalfeed.CacheStore = (*CacheStore)(nil)

const entryExt = ".json"

// CacheStore implements legalfeed.CacheStore with one JSON file per key under
// a directory per source: <dir>/<source>/<hash>.json.
// Writes go through a temp file and a rename so readers never observe a
// partially written entry.
type CacheStore struct {
	dir   string
	clock legalfeed.Clock
}

// Option configures a CacheStore.
type Option func(*CacheStore)

// WithClock sets the clock used for entry timestamps and expiry checks.
func WithClock(c legalfeed.Clock) Option {
	return func(s *CacheStore) {
		s.clock = c
	}
}

// NewCacheStore creates a CacheStore rooted at dir. The directory is created
// lazily on first write.
func NewCacheStore(dir string, opts ...Option) *CacheStore {
	s := &CacheStore{
		dir:   dir,
		clock: legalfeed.SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the cache root directory.
func (s *CacheStore) Dir() string {
	return s.dir
}

// HashKey returns the file name stem used for key.
func HashKey(key string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(key))
}

// Get returns the payload for key if a valid, unexpired entry exists in any
// source namespace. Corrupted and expired files are removed.
func (s *CacheStore) Get(key string) (json.RawMessage, bool) {
	dirs, err := s.sourceDirs()
	if err != nil {
		return nil, false
	}

	now := s.clock.Now()
	name := HashKey(key) + entryExt
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		entry, err := readEntry(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			_ = os.Remove(path)
			continue
		}
		if entry.Key != key {
			continue
		}
		if entry.Expired(now) {
			_ = os.Remove(path)
			continue
		}
		return entry.Payload, true
	}
	return nil, false
}

func readEntry(path string) (*legalfeed.CacheEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry legalfeed.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	if entry.Key == "" || !entry.ExpiresAt.After(entry.CreatedAt) {
		return nil, errors.New("malformed cache entry")
	}
	return &entry, nil
}

// Set stores payload under key in the source namespace. An entry for the
// same key under another source is removed so a key lives in one place.
func (s *CacheStore) Set(key string, payload json.RawMessage, source legalfeed.Source, ttl time.Duration) error {
	if err := source.Validate(); err != nil {
		return err
	}
	if ttl <= 0 {
		return legalfeed.Errorf(legalfeed.EINVALID, "cache ttl must be positive, got %s", ttl)
	}
	if !json.Valid(payload) {
		return legalfeed.Errorf(legalfeed.EINVALID, "cache payload for %q is not valid JSON", key)
	}

	now := s.clock.Now()
	entry := legalfeed.CacheEntry{
		Key:       key,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Source:    source,
		SizeBytes: int64(len(payload)),
	}
	data, err := json.Marshal(&entry)
	if err != nil {
		return err
	}

	dir := filepath.Join(s.dir, string(source))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	name := HashKey(key) + entryExt
	if err := writeAtomic(filepath.Join(dir, name), data); err != nil {
		return err
	}

	others, _ := s.sourceDirs()
	for _, other := range others {
		if other != dir {
			_ = os.Remove(filepath.Join(other, name))
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Clear removes every entry of source, or every entry when source is empty.
func (s *CacheStore) Clear(source legalfeed.Source) (int, error) {
	paths, err := s.entryPaths(source)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Stats counts entries and their on-disk size for source, or for the whole
// cache when source is empty.
func (s *CacheStore) Stats(source legalfeed.Source) (legalfeed.CacheStats, error) {
	stats := legalfeed.CacheStats{Dir: s.dir}

	paths, err := s.entryPaths(source)
	if err != nil {
		return stats, err
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		stats.Count++
		stats.TotalSizeBytes += info.Size()
	}
	return stats, nil
}

// sourceDirs lists the namespace directories under the cache root.
func (s *CacheStore) sourceDirs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(s.dir, e.Name()))
		}
	}
	return dirs, nil
}

func (s *CacheStore) entryPaths(source legalfeed.Source) ([]string, error) {
	var dirs []string
	if source != "" {
		if err := source.Validate(); err != nil {
			return nil, err
		}
		dirs = []string{filepath.Join(s.dir, string(source))}
	} else {
		var err error
		if dirs, err = s.sourceDirs(); err != nil {
			return nil, err
		}
	}

	var paths []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), entryExt) {
				paths = append(paths, filepath.Join(dir, e.Name()))
			}
		}
	}
	return paths, nil
}
