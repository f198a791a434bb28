package handlers

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every route handler of the server.
type Handlers struct {
	Public   *PublicHandler
	Schemas  *SchemaHandler
	Settings *SettingsHandler
	Menus    *MenuHandler
	Auth     *AuthHandler
}

// Register mounts the public pages and, behind editor, the admin API.
func (h Handlers) Register(e *echo.Echo, editor echo.MiddlewareFunc) {
	// Public routes
	e.GET("/", h.Public.FrontPage)
	e.GET("/p/:slug", h.Public.ShowPage)
	e.GET("/p/:slug/", h.Public.ShowPage)
	e.GET("/p/:slug/schema.jsonld", h.Public.ExportPage)
	e.GET("/t/:taxonomy/:slug", h.Public.ShowTerm)
	e.GET("/t/:taxonomy/:slug/", h.Public.ShowTerm)

	if h.Auth != nil {
		e.POST("/auth/login", h.Auth.HandleLogin)
		e.POST("/auth/logout", h.Auth.HandleLogout)
	}

	// Protected routes
	api := e.Group("/api", editor)
	api.GET("/schema-types", h.Schemas.ListTypes)
	api.POST("/schema-templates/:type", h.Schemas.PreviewTemplate)

	pages := api.Group("/pages/:id")
	pages.PUT("/meta", h.Schemas.SaveMeta)
	pages.GET("/schemas", h.Schemas.ListSchemas)
	pages.POST("/schemas", h.Schemas.AddSchema)
	pages.POST("/schemas/bulk", h.Schemas.BulkAction)
	pages.GET("/schemas/export", h.Schemas.ExportSchemas)
	pages.POST("/schemas/import", h.Schemas.ImportSchemas)
	pages.PUT("/schemas/:index", h.Schemas.UpdateSchema)
	pages.DELETE("/schemas/:index", h.Schemas.DeleteSchema)
	pages.POST("/schemas/:index/toggle", h.Schemas.ToggleSchema)
	pages.POST("/schemas/:index/duplicate", h.Schemas.DuplicateSchema)

	api.GET("/settings", h.Settings.ListGroups)
	api.POST("/settings/general/toggle", h.Settings.ToggleGlobal)
	api.GET("/settings/:group", h.Settings.GetGroup)
	api.PUT("/settings/:group", h.Settings.ReplaceGroup)
	api.PATCH("/settings/:group", h.Settings.UpdateGroup)

	api.GET("/menus/:role", h.Menus.Resolve)
	api.POST("/menus/invalidate", h.Menus.Invalidate)
}
