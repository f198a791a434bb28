// Package menu discovers which registered navigation location holds the
// site's header and footer menus.
//
// Resolution is tiered: a user override wins when it yields items, then a
// cached earlier detection, then pattern detection over the registered
// locations. The first detected location that yields items is promoted into
// the Cache so later requests skip detection until Invalidate is called.
package menu

import (
	"context"
	"fmt"
)

// Role is a navigation role a menu can play on the page.
type Role string

const (
	RoleHeader Role = "header"
	RoleFooter Role = "footer"
)

// Roles lists every role in emission order.
var Roles = []Role{RoleHeader, RoleFooter}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleHeader, RoleFooter:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown navigation role %q", s)
}

// ElementType returns the schema.org page element tag for the role.
func (r Role) ElementType() string {
	if r == RoleFooter {
		return "WPFooter"
	}
	return "WPHeader"
}

// Location is a named navigation slot the site exposes.
type Location struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Item is one entry of the menu assigned to a location.
type Item struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	ParentID uint   `json:"parent_id"`
}

// Provider exposes the site's navigation structure.
type Provider interface {
	// Locations returns the registered locations in registration order.
	Locations(ctx context.Context) ([]Location, error)
	// Items returns the menu items assigned to location in menu order,
	// or nothing when no menu is assigned.
	Items(ctx context.Context, location string) ([]Item, error)
}

// Overrides supplies the location an administrator pinned for a role.
type Overrides interface {
	MenuOverride(ctx context.Context, role Role) (string, error)
}

// OverridesFunc adapts a function to Overrides.
type OverridesFunc func(ctx context.Context, role Role) (string, error)

// MenuOverride calls f.
func (f OverridesFunc) MenuOverride(ctx context.Context, role Role) (string, error) {
	return f(ctx, role)
}

// Cache remembers the location detection settled on per role.
type Cache interface {
	Get(ctx context.Context, role Role) (string, bool, error)
	Set(ctx context.Context, role Role, location string) error
	Invalidate(ctx context.Context) error
}
