package tasks

import (
	"github.com/charmbracelet/log"

	"schemagraph/internal/graph"
	"schemagraph/internal/menu"
	"schemagraph/internal/page"
)

// Deps are the components the maintenance tasks operate on.
type Deps struct {
	Menus  *menu.Resolver
	Pages  page.Provider
	Graph  *graph.Assembler
	Logger *log.Logger
}

// DefineTasks registers all available tasks
func DefineTasks(r *Registry, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Menus != nil {
		r.Register(RefreshMenuLocationsTask, refreshMenuLocations(deps))
	}
	if deps.Pages != nil && deps.Graph != nil {
		r.Register(ValidatePageSchemasTask, validatePageSchemas(deps))
	}
}
