package dynstore

import (
	"slices"
	"sync"

	"github.com/ajiwo/dynstore/backends"
)

// Cache stores backends built by the resolver, keyed by the exact requested
// name. Implementations must be safe for concurrent use.
type Cache interface {
	Load(name string) (backends.Backend, bool)
	Store(name string, backend backends.Backend)
}

// MapCache is an unbounded Cache. Entries are never evicted.
type MapCache struct {
	mu    sync.RWMutex
	items map[string]backends.Backend
}

func NewMapCache() *MapCache {
	return &MapCache{items: make(map[string]backends.Backend)}
}

func (c *MapCache) Load(name string) (backends.Backend, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.items[name]
	return b, ok
}

func (c *MapCache) Store(name string, backend backends.Backend) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[name] = backend
}

func (c *MapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Names returns the cached names in sorted order.
func (c *MapCache) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.items))
	for name := range c.items {
		names = append(names, name)
	}
	c.mu.RUnlock()
	slices.Sort(names)
	return names
}
