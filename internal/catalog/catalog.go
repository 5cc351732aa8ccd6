// Package catalog holds the selectable characters and game modes served to the frontend.
package catalog

import (
	"slices"
	"strings"
	"sync"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
)

// Catalog keeps a thread-safe, sorted snapshot of character names in memory.
type Catalog struct {
	mu    sync.RWMutex
	names []string
	index map[string]struct{}
}

// New constructs a Catalog holding the given names.
func New(names []string) *Catalog {
	c := &Catalog{}
	c.SetCharacters(names)
	return c
}

// NewDefault constructs a Catalog preloaded with the built-in roster.
func NewDefault() *Catalog {
	return New(DefaultCharacters)
}

// Characters returns a copy of all names in sorted order.
func (c *Catalog) Characters() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.names)
}

// Search returns the names containing q, ignoring case. An empty query returns everything.
func (c *Catalog) Search(q string) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return c.Characters()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]string, 0)
	for _, name := range c.names {
		if strings.Contains(strings.ToLower(name), q) {
			result = append(result, name)
		}
	}
	return result
}

// Contains reports whether name is in the catalog.
func (c *Catalog) Contains(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.index[name]
	return ok
}

// SetCharacters replaces the snapshot. Blank and duplicate names are dropped.
func (c *Catalog) SetCharacters(names []string) {
	index := make(map[string]struct{}, len(names))
	sorted := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = struct{}{}
		sorted = append(sorted, name)
	}
	slices.Sort(sorted)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.names = sorted
	c.index = index
}

// GameModes returns the selectable game modes in display order.
func (c *Catalog) GameModes() []counters.GameMode {
	return slices.Clone(counters.GameModes)
}
