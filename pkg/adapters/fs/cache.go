package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// indexEntry records the last artifact written for a block.
type indexEntry struct {
	DocumentID string    `json:"document"`
	Index      int       `json:"index"`
	Format     string    `json:"format"`
	Digest     string    `json:"digest"`
	RenderedAt time.Time `json:"renderedAt"`
}

// index is the persistent cache state.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // keyed by block ID, e.g. "songs/intro#0"
	dirty   bool
	mu      sync.RWMutex
}

// cache keeps the artifact index in {vault}/{systemDir}/index.json.
type cache struct {
	Path  string
	index *index
}

func newCache(vaultPath, systemDir string) *cache {
	return &cache{
		Path: filepath.Join(vaultPath, systemDir, "index.json"),
		index: &index{
			Version: 1,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the cache from disk. A missing or corrupted file yields an
// empty index: the worst case is one unnecessary re-render per block.
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if err := json.Unmarshal(data, c.index); err != nil || c.index.Entries == nil {
		c.index.Entries = make(map[string]*indexEntry)
	}
	c.index.dirty = false
	return nil
}

// Save persists the cache if it changed since the last Load/Save.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

func (c *cache) Get(blockID string) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	e, ok := c.index.Entries[blockID]
	return e, ok
}

func (c *cache) Set(blockID string, e *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	c.index.Entries[blockID] = e
	c.index.dirty = true
}

// DeleteFunc removes every entry for which match returns true.
func (c *cache) DeleteFunc(match func(blockID string, e *indexEntry) bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	for id, e := range c.index.Entries {
		if match(id, e) {
			delete(c.index.Entries, id)
			c.index.dirty = true
		}
	}
}

func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
