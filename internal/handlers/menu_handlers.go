package handlers

import (
	"github.com/labstack/echo/v4"

	"schemagraph/internal/menu"
	"schemagraph/internal/schemaerr"
)

// MenuHandler exposes menu location resolution to the editor.
type MenuHandler struct {
	resolver *menu.Resolver
}

func NewMenuHandler(resolver *menu.Resolver) *MenuHandler {
	return &MenuHandler{resolver: resolver}
}

// Resolve shows which location serves a navigation role and why
func (h *MenuHandler) Resolve(c echo.Context) error {
	role, err := menu.ParseRole(c.Param("role"))
	if err != nil {
		return schemaerr.Wrap(schemaerr.ErrCodeInvalidInput, err, "invalid role")
	}
	ctx := c.Request().Context()
	res, err := h.resolver.Resolve(ctx, role)
	if err != nil {
		return err
	}
	candidates, err := h.resolver.Candidates(ctx, role)
	if err != nil {
		return err
	}
	return ok(c, "", map[string]any{"resolution": res, "candidates": candidates})
}

// Invalidate forgets the detected locations so the next render re-detects
func (h *MenuHandler) Invalidate(c echo.Context) error {
	if err := h.resolver.Invalidate(c.Request().Context()); err != nil {
		return schemaerr.Wrap(schemaerr.ErrCodeInternal, err, "invalidate menu cache")
	}
	return ok(c, "Menu detection reset", nil)
}
