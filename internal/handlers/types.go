package handlers

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"schemagraph/internal/middleware"
	"schemagraph/internal/page"
	"schemagraph/internal/schemaerr"
)

// PageData represents the common data structure passed to templates
type PageData struct {
	Title       string
	SiteName    string
	SiteURL     string
	SchemaHead  template.HTML // JSON-LD script elements for <head>
	Breadcrumbs template.HTML
	Page        page.Context
}

func ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, middleware.Response{Success: true, Message: message, Data: data})
}

func pageIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, schemaerr.New(schemaerr.ErrCodeInvalidInput, "invalid page id %q", c.Param("id"))
	}
	return uint(id), nil
}

func indexParam(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, schemaerr.New(schemaerr.ErrCodeInvalidInput, "invalid schema index %q", c.Param("index"))
	}
	return index, nil
}

func getStringFromContext(c echo.Context, key string) string {
	if val, ok := c.Get(key).(string); ok {
		return val
	}
	return ""
}
