package menu

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// Source tells where a resolution came from.
type Source string

const (
	SourceOverride Source = "override"
	SourceCache    Source = "cache"
	SourceDetected Source = "detected"
	SourceNone     Source = "none"
)

// Resolution is the outcome of resolving a role.
type Resolution struct {
	Role     Role   `json:"role"`
	Location string `json:"location"`
	Items    []Item `json:"items"`
	Source   Source `json:"source"`
}

// Found reports whether a location with items was found.
func (r Resolution) Found() bool {
	return len(r.Items) > 0
}

// Resolver resolves navigation roles to menu locations.
type Resolver struct {
	nav       Provider
	overrides Overrides
	cache     Cache
	logger    *log.Logger
}

// NewResolver creates a Resolver. overrides and cache may be nil.
func NewResolver(nav Provider, overrides Overrides, cache Cache, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Resolver{nav: nav, overrides: overrides, cache: cache, logger: logger}
}

// Resolve finds the location serving role and its top-level items.
// Finding nothing is not an error; the resolution is simply empty.
func (r *Resolver) Resolve(ctx context.Context, role Role) (Resolution, error) {
	if r.overrides != nil {
		loc, err := r.overrides.MenuOverride(ctx, role)
		if err != nil {
			r.logger.Warn("menu override unavailable", "role", role, "error", err)
		} else if loc != "" {
			items, err := r.ItemsFor(ctx, loc)
			if err != nil {
				return Resolution{}, err
			}
			if len(items) > 0 {
				return Resolution{Role: role, Location: loc, Items: items, Source: SourceOverride}, nil
			}
			r.logger.Debug("menu override has no items", "role", role, "location", loc)
		}
	}

	if loc, ok, err := r.cache.Get(ctx, role); err != nil {
		r.logger.Warn("menu cache read failed", "role", role, "error", err)
	} else if ok {
		items, err := r.ItemsFor(ctx, loc)
		if err != nil {
			return Resolution{}, err
		}
		if len(items) > 0 {
			return Resolution{Role: role, Location: loc, Items: items, Source: SourceCache}, nil
		}
	}

	candidates, err := r.Candidates(ctx, role)
	if err != nil {
		return Resolution{}, err
	}
	for _, loc := range candidates {
		items, err := r.ItemsFor(ctx, loc)
		if err != nil {
			return Resolution{}, err
		}
		if len(items) == 0 {
			continue
		}
		if err := r.cache.Set(ctx, role, loc); err != nil {
			r.logger.Warn("menu cache write failed", "role", role, "location", loc, "error", err)
		}
		r.logger.Debug("menu location detected", "role", role, "location", loc)
		return Resolution{Role: role, Location: loc, Items: items, Source: SourceDetected}, nil
	}
	return Resolution{Role: role, Source: SourceNone}, nil
}

// Candidates returns the ordered best-guess location ids for role: exact
// pattern matches, then substring matches, then (header only) every
// registered location, then the manual fallbacks.
func (r *Resolver) Candidates(ctx context.Context, role Role) ([]string, error) {
	locations, err := r.nav.Locations(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(locations))
	for _, l := range locations {
		ids = append(ids, l.ID)
	}

	var out []string
	add := func(id string) {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}

	pats := patterns[role]
	for _, p := range pats {
		for _, id := range ids {
			if strings.EqualFold(id, p) {
				add(id)
			}
		}
	}
	for _, p := range pats {
		for _, id := range ids {
			if strings.Contains(strings.ToLower(id), p) {
				add(id)
			}
		}
	}
	if role == RoleHeader && len(out) == 0 {
		for _, id := range ids {
			add(id)
		}
	}
	for _, f := range fallbacks[role] {
		add(f)
	}
	return out, nil
}

// ItemsFor returns the top-level items of the menu at location.
func (r *Resolver) ItemsFor(ctx context.Context, location string) ([]Item, error) {
	items, err := r.nav.Items(ctx, location)
	if err != nil {
		return nil, err
	}
	top := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ParentID == 0 {
			top = append(top, it)
		}
	}
	return top, nil
}

// Invalidate forgets cached detections. Call it whenever menus, locations or
// the overrides change.
func (r *Resolver) Invalidate(ctx context.Context) error {
	return r.cache.Invalidate(ctx)
}
