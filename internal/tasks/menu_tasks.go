package tasks

import (
	"context"
	"fmt"

	"schemagraph/internal/menu"
)

// RefreshMenuLocationsTask re-detects the header and footer menu locations.
const RefreshMenuLocationsTask = "refresh_menu_locations"

func refreshMenuLocations(deps Deps) TaskHandler {
	return func(ctx context.Context, _ map[string]any) (map[string]any, error) {
		if err := deps.Menus.Invalidate(ctx); err != nil {
			return nil, fmt.Errorf("invalidate menu cache: %w", err)
		}
		result := make(map[string]any, len(menu.Roles))
		for _, role := range menu.Roles {
			res, err := deps.Menus.Resolve(ctx, role)
			if err != nil {
				return nil, fmt.Errorf("resolve %s menu: %w", role, err)
			}
			result[string(role)] = res.Location
			deps.Logger.Debug("menu location refreshed", "role", role, "location", res.Location, "source", res.Source)
		}
		return result, nil
	}
}
