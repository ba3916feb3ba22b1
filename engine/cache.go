package engine

import (
	"crypto/md5"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const cacheFileName = "tt_cache.gob"

type fileMetadata struct {
	Hash string
	// Settings fingerprints the passes and symbol ceiling the reports were
	// produced with.
	Settings string
}

type CacheEntry struct {
	Metadata     fileMetadata
	Reports      []Report
	RunID        string
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache keeps the reports of fully evaluated files on disk, keyed by path and
// validated by content hash.
type Cache struct {
	CacheDir string
	entries  map[string]CacheEntry
	mutex    sync.Mutex
	maxAge   time.Duration
}

func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir: cacheDir,
		entries:  make(map[string]CacheEntry),
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.CacheDir, cacheFileName)
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}

	return nil
}

func (c *Cache) save() error {
	file, err := os.Create(c.path())
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}

	return nil
}

// Set stores reports computed from content. Reports carrying an error are
// rejected since errors do not survive encoding.
func (c *Cache) Set(filename, settings, runID string, content []byte, reports []Report) error {
	if !allOK(reports) {
		return errors.New("cannot cache failed reports")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[filename] = CacheEntry{
		Metadata:     fileMetadata{Hash: contentHash(content), Settings: settings},
		Reports:      reports,
		RunID:        runID,
		CreatedAt:    now,
		LastAccessed: now,
	}

	return c.save()
}

// Get returns the cached reports for filename if they were produced from the
// same content with the same settings.
func (c *Cache) Get(filename, settings string, content []byte) ([]Report, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return nil, false
	}

	if c.isEntryInvalid(entry, fileMetadata{Hash: contentHash(content), Settings: settings}) {
		delete(c.entries, filename)
		return nil, false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry

	return entry.Reports, true
}

// Entry returns the raw entry for filename without validating it.
func (c *Cache) Entry(filename string) (CacheEntry, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, ok := c.entries[filename]
	return entry, ok
}

func (c *Cache) isEntryInvalid(entry CacheEntry, current fileMetadata) bool {
	if c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}
	return current != entry.Metadata
}

// SetMaxAge expires entries older than duration. Zero disables expiry.
func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

func (c *Cache) InvalidateAll() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
	return c.save()
}

func contentHash(content []byte) string {
	return fmt.Sprintf("%x", md5.Sum(content))
}
