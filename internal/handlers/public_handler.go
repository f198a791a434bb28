package handlers

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"schemagraph/internal/graph"
	"schemagraph/internal/jsonld"
	"schemagraph/internal/page"
	"schemagraph/internal/schema"
)

// PublicHandler renders site pages with their structured data.
type PublicHandler struct {
	pages    page.Provider
	graph    *graph.Assembler
	siteName string
	siteURL  string
	pretty   bool
	logger   *log.Logger
}

func NewPublicHandler(pages page.Provider, assembler *graph.Assembler, siteName, siteURL string, pretty bool, logger *log.Logger) *PublicHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &PublicHandler{pages: pages, graph: assembler, siteName: siteName, siteURL: siteURL, pretty: pretty, logger: logger}
}

// FrontPage renders the site root
func (h *PublicHandler) FrontPage(c echo.Context) error {
	pc, err := h.pages.FrontPage(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, pc)
}

// ShowPage renders a page by slug
func (h *PublicHandler) ShowPage(c echo.Context) error {
	pc, err := h.pages.ContextBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return h.render(c, pc)
}

// ShowTerm renders a category or tag archive
func (h *PublicHandler) ShowTerm(c echo.Context) error {
	pc, err := h.pages.TermArchive(c.Request().Context(), c.Param("taxonomy"), c.Param("slug"))
	if err != nil {
		return err
	}
	return h.render(c, pc)
}

// ExportPage returns the documents a page emits as one JSON-LD array
func (h *PublicHandler) ExportPage(c echo.Context) error {
	ctx := c.Request().Context()
	pc, err := h.pages.ContextBySlug(ctx, c.Param("slug"))
	if err != nil {
		return err
	}
	raw, err := jsonld.MarshalAll(h.assemble(ctx, pc))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, jsonld.MIMEType, raw)
}

func (h *PublicHandler) render(c echo.Context, pc page.Context) error {
	ctx := c.Request().Context()
	title := pc.Title
	if title == "" {
		title = h.siteName
	}
	return c.Render(http.StatusOK, "page.html", PageData{
		Title:       title,
		SiteName:    h.siteName,
		SiteURL:     h.siteURL,
		SchemaHead:  jsonld.Render(h.assemble(ctx, pc), h.pretty, h.logger),
		Breadcrumbs: h.graph.BreadcrumbHTML(ctx, pc),
		Page:        pc,
	})
}

// assemble never fails the page: without a graph the page renders bare.
func (h *PublicHandler) assemble(ctx context.Context, pc page.Context) []schema.Document {
	docs, err := h.graph.Assemble(ctx, pc)
	if err != nil {
		h.logger.Warn("structured data unavailable", "page", pc.ID, "error", err)
		return nil
	}
	return docs
}
