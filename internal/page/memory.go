package page

import (
	"context"
	"slices"
	"sync"

	"schemagraph/internal/schemaerr"
)

// MemoryProvider is an in-process Provider used by tests and storage-less runs.
type MemoryProvider struct {
	mu    sync.RWMutex
	pages map[uint]Context
	slugs map[string]uint
	terms map[string]Term // taxonomy + "/" + slug
	front uint
}

// NewMemoryProvider creates an empty provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		pages: make(map[uint]Context),
		slugs: make(map[string]uint),
		terms: make(map[string]Term),
	}
}

// Put stores a page under slug. The first page stored with IsFrontPage set
// becomes the front page.
func (p *MemoryProvider) Put(slug string, c Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages[c.ID] = c
	if slug != "" {
		p.slugs[slug] = c.ID
	}
	if c.IsFrontPage && p.front == 0 {
		p.front = c.ID
	}
}

// PutTerm registers a term archive.
func (p *MemoryProvider) PutTerm(slug string, t Term) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terms[t.Taxonomy+"/"+slug] = t
}

func (p *MemoryProvider) Ref(_ context.Context, id uint) (Ref, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.pages[id]
	if !ok {
		return Ref{}, schemaerr.New(schemaerr.ErrCodeNotFound, "page %d not found", id)
	}
	return c.Ref(), nil
}

func (p *MemoryProvider) Context(_ context.Context, id uint) (Context, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.pages[id]
	if !ok {
		return Context{}, schemaerr.New(schemaerr.ErrCodeNotFound, "page %d not found", id)
	}
	return c, nil
}

func (p *MemoryProvider) ContextBySlug(ctx context.Context, slug string) (Context, error) {
	p.mu.RLock()
	id, ok := p.slugs[slug]
	p.mu.RUnlock()
	if !ok {
		return Context{}, schemaerr.New(schemaerr.ErrCodeNotFound, "page %q not found", slug)
	}
	return p.Context(ctx, id)
}

func (p *MemoryProvider) FrontPage(ctx context.Context) (Context, error) {
	p.mu.RLock()
	id := p.front
	p.mu.RUnlock()
	if id == 0 {
		return Context{Kind: KindFront, IsFrontPage: true}, nil
	}
	return p.Context(ctx, id)
}

func (p *MemoryProvider) TermArchive(_ context.Context, taxonomy, slug string) (Context, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.terms[taxonomy+"/"+slug]
	if !ok {
		return Context{}, schemaerr.New(schemaerr.ErrCodeNotFound, "term %s/%s not found", taxonomy, slug)
	}
	return Context{Kind: KindTermArchive, Title: t.Name, Permalink: t.URL, QueriedTerm: &t}, nil
}

func (p *MemoryProvider) SaveMeta(_ context.Context, id uint, meta Meta) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.pages[id]
	if !ok {
		return schemaerr.New(schemaerr.ErrCodeNotFound, "page %d not found", id)
	}
	c.SchemaType = meta.SchemaType
	c.Description = meta.Description
	p.pages[id] = c
	return nil
}

func (p *MemoryProvider) PageIDs(context.Context) ([]uint, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]uint, 0, len(p.pages))
	for id := range p.pages {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
