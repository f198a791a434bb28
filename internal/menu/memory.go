package menu

import (
	"context"
	"sync"
)

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu    sync.RWMutex
	roles map[Role]string
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{roles: make(map[Role]string)}
}

func (c *MemoryCache) Get(_ context.Context, role Role) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loc, ok := c.roles[role]
	return loc, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, role Role, location string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles[role] = location
	return nil
}

func (c *MemoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.roles)
	return nil
}

// MemoryProvider is an in-process Provider.
type MemoryProvider struct {
	mu        sync.RWMutex
	locations []Location
	items     map[string][]Item
}

// NewMemoryProvider creates an empty navigation structure.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{items: make(map[string][]Item)}
}

// Register adds a location. Registering an existing id updates its description.
func (p *MemoryProvider) Register(id, description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, l := range p.locations {
		if l.ID == id {
			p.locations[i].Description = description
			return
		}
	}
	p.locations = append(p.locations, Location{ID: id, Description: description})
}

// Assign sets the menu items shown at location. The location does not need
// to be registered.
func (p *MemoryProvider) Assign(location string, items ...Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[location] = items
}

func (p *MemoryProvider) Locations(context.Context) ([]Location, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Location(nil), p.locations...), nil
}

func (p *MemoryProvider) Items(_ context.Context, location string) ([]Item, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Item(nil), p.items[location]...), nil
}
