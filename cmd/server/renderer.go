package main

import (
	"html/template"
	"io"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// TemplateRenderer is a custom html/template renderer for Echo
// Uses per-page template cloning to allow each page to define its own blocks
type TemplateRenderer struct {
	templates map[string]*template.Template
}

// NewTemplateRenderer parses the layouts and partials under dir once and
// clones them for every page template.
func NewTemplateRenderer(dir string) (*TemplateRenderer, error) {
	templates := make(map[string]*template.Template)

	// Parse base layout and partials as the foundation
	baseTemplate, err := template.ParseGlob(filepath.Join(dir, "layouts", "*.html"))
	if err != nil {
		return nil, err
	}
	if _, err := baseTemplate.ParseGlob(filepath.Join(dir, "partials", "*.html")); err != nil {
		return nil, err
	}

	pages, err := filepath.Glob(filepath.Join(dir, "pages", "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		pageTemplate, err := baseTemplate.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := pageTemplate.ParseFiles(page); err != nil {
			return nil, err
		}
		templates[filepath.Base(page)] = pageTemplate
	}

	// Standalone templates (like the error page) don't use the base layout
	standalone, _ := filepath.Glob(filepath.Join(dir, "*.html"))
	for _, page := range standalone {
		name := filepath.Base(page)
		if _, exists := templates[name]; exists {
			continue
		}
		tmpl, err := template.ParseFiles(page)
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}

	return &TemplateRenderer{templates: templates}, nil
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	tmpl, ok := t.templates[name]
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "Template not found: "+name)
	}
	if tmpl.Lookup("base") != nil {
		return tmpl.ExecuteTemplate(w, "base", data)
	}
	return tmpl.Execute(w, data)
}
