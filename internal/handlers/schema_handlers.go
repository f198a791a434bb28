package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"schemagraph/internal/customschema"
	"schemagraph/internal/graph"
	"schemagraph/internal/jsonld"
	"schemagraph/internal/page"
	"schemagraph/internal/schema"
	"schemagraph/internal/schemaerr"
)

// maxImportBytes caps the size of an imported schema file.
const maxImportBytes = 1 << 20

// SchemaHandler serves the editing sidebar API for custom schemas.
type SchemaHandler struct {
	pages    page.Provider
	custom   *customschema.Store
	graph    *graph.Assembler
	registry *schema.Registry
	siteName string
	siteURL  string
	now      func() time.Time
	logger   *log.Logger
}

func NewSchemaHandler(pages page.Provider, custom *customschema.Store, assembler *graph.Assembler, registry *schema.Registry, siteName, siteURL string, logger *log.Logger) *SchemaHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &SchemaHandler{
		pages:    pages,
		custom:   custom,
		graph:    assembler,
		registry: registry,
		siteName: siteName,
		siteURL:  siteURL,
		now:      time.Now,
		logger:   logger,
	}
}

type addSchemaRequest struct {
	SchemaType string `json:"schema_type" form:"schema_type"`
	schema.Input
}

type bulkRequest struct {
	Action string `json:"action" form:"action"`
}

func (h *SchemaHandler) buildContext(pc page.Context) schema.BuildContext {
	return schema.BuildContext{Page: pc, SiteName: h.siteName, SiteURL: h.siteURL, Now: h.now()}
}

func (h *SchemaHandler) pageContext(c echo.Context) (page.Context, error) {
	id, err := pageIDParam(c)
	if err != nil {
		return page.Context{}, err
	}
	return h.pages.Context(c.Request().Context(), id)
}

// ListSchemas returns every document the page shows in the editor
func (h *SchemaHandler) ListSchemas(c echo.Context) error {
	pc, err := h.pageContext(c)
	if err != nil {
		return err
	}
	items, err := h.graph.Preview(c.Request().Context(), pc)
	if err != nil {
		return err
	}
	return ok(c, "", items)
}

// AddSchema stores a new custom schema built from a type template
func (h *SchemaHandler) AddSchema(c echo.Context) error {
	pc, err := h.pageContext(c)
	if err != nil {
		return err
	}
	var req addSchemaRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	entry, index, err := h.custom.AddFromTemplate(c.Request().Context(), pc.ID, req.SchemaType, req.Input, h.buildContext(pc))
	if err != nil {
		return err
	}
	h.logger.Info("custom schema added", "page", pc.ID, "type", entry.Document.Type(), "index", index, "user", getStringFromContext(c, "userUID"))
	return ok(c, "Schema added successfully", map[string]any{"index": index, "schema": entry})
}

// UpdateSchema applies the submitted fields to one custom schema
func (h *SchemaHandler) UpdateSchema(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}
	index, err := indexParam(c)
	if err != nil {
		return err
	}

	var patch customschema.Patch
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := c.Bind(&patch); err != nil {
			return err
		}
	} else {
		form, err := c.FormParams()
		if err != nil {
			return schemaerr.Wrap(schemaerr.ErrCodeInvalidInput, err, "read form")
		}
		patch = patchFromForm(form)
	}

	entry, err := h.custom.Update(c.Request().Context(), pageID, index, patch)
	if err != nil {
		return err
	}
	return ok(c, "Schema updated successfully", entry)
}

// patchFromForm keeps only the fields present in the submitted form.
func patchFromForm(form url.Values) customschema.Patch {
	field := func(key string) *string {
		if !form.Has(key) {
			return nil
		}
		v := form.Get(key)
		return &v
	}
	return customschema.Patch{
		Name:        field("name"),
		Description: field("description"),
		URL:         field("url"),
		Address:     field("address"),
		Telephone:   field("telephone"),
		Email:       field("email"),
		Brand:       field("brand"),
		Price:       field("price"),
		Currency:    field("currency"),
	}
}

// ToggleSchema flips one custom schema on or off
func (h *SchemaHandler) ToggleSchema(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}
	index, err := indexParam(c)
	if err != nil {
		return err
	}
	enabled, err := h.custom.Toggle(c.Request().Context(), pageID, index)
	if err != nil {
		return err
	}
	message := "Schema disabled"
	if enabled {
		message = "Schema enabled"
	}
	return ok(c, message, map[string]any{"enabled": enabled})
}

// DeleteSchema removes one custom schema
func (h *SchemaHandler) DeleteSchema(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}
	index, err := indexParam(c)
	if err != nil {
		return err
	}
	if err := h.custom.Remove(c.Request().Context(), pageID, index); err != nil {
		return err
	}
	return ok(c, "Schema deleted successfully", nil)
}

// DuplicateSchema copies one custom schema right after itself
func (h *SchemaHandler) DuplicateSchema(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}
	index, err := indexParam(c)
	if err != nil {
		return err
	}
	copied, err := h.custom.Duplicate(c.Request().Context(), pageID, index)
	if err != nil {
		return err
	}
	return ok(c, "Schema duplicated", map[string]any{"index": copied})
}

// BulkAction enables, disables or removes every custom schema of a page
func (h *SchemaHandler) BulkAction(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}
	var req bulkRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var n int
	switch req.Action {
	case "enable":
		n, err = h.custom.SetAllEnabled(ctx, pageID, true)
	case "disable":
		n, err = h.custom.SetAllEnabled(ctx, pageID, false)
	case "reset":
		n, err = h.custom.Reset(ctx, pageID)
	default:
		return schemaerr.New(schemaerr.ErrCodeInvalidInput, "unknown bulk action %q", req.Action)
	}
	if err != nil {
		return err
	}
	return ok(c, "Bulk action applied", map[string]any{"action": req.Action, "affected": n})
}

// ExportSchemas downloads the custom schemas of a page
func (h *SchemaHandler) ExportSchemas(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}
	entries, err := h.custom.Export(c.Request().Context(), pageID)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []customschema.Entry{}
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="page-`+c.Param("id")+`-schemas.json"`)
	return c.JSON(http.StatusOK, entries)
}

// ImportSchemas appends documents from an uploaded file or the request body
func (h *SchemaHandler) ImportSchemas(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}
	raw, err := readImport(c)
	if err != nil {
		return err
	}
	docs, err := jsonld.ParseAll(raw)
	if err != nil {
		return err
	}
	n, err := h.custom.Import(c.Request().Context(), pageID, docs)
	if err != nil {
		return err
	}
	return ok(c, "Schemas imported", map[string]any{"imported": n})
}

func readImport(c echo.Context) ([]byte, error) {
	var r io.Reader = c.Request().Body
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, schemaerr.Wrap(schemaerr.ErrCodeInvalidInput, err, "open uploaded file")
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(io.LimitReader(r, maxImportBytes+1))
	if err != nil {
		return nil, schemaerr.Wrap(schemaerr.ErrCodeInvalidInput, err, "read import")
	}
	if len(raw) > maxImportBytes {
		return nil, schemaerr.New(schemaerr.ErrCodeInvalidInput, "import exceeds %d bytes", maxImportBytes)
	}
	return raw, nil
}

// ListTypes returns the schema types with a dedicated builder
func (h *SchemaHandler) ListTypes(c echo.Context) error {
	return ok(c, "", h.registry.Types())
}

// PreviewTemplate builds a document for a type without storing it
func (h *SchemaHandler) PreviewTemplate(c echo.Context) error {
	var in schema.Input
	if err := c.Bind(&in); err != nil {
		return err
	}
	var pc page.Context
	if raw := c.QueryParam("page_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return schemaerr.New(schemaerr.ErrCodeInvalidInput, "invalid page id %q", raw)
		}
		if pc, err = h.pages.Context(c.Request().Context(), uint(id)); err != nil {
			return err
		}
	}

	doc, err := h.registry.Template(c.Param("type"), in, h.buildContext(pc))
	if err != nil {
		return err
	}
	result := map[string]any{"schema": doc, "valid": true}
	var verr *schemaerr.ValidationError
	if err := schema.Validate(doc); err != nil {
		result["valid"] = false
		if errors.As(err, &verr) {
			result["issues"] = verr.Issues
		}
	}
	return ok(c, "", result)
}

// SaveMeta stores the per-page schema type and description overrides
func (h *SchemaHandler) SaveMeta(c echo.Context) error {
	id, err := pageIDParam(c)
	if err != nil {
		return err
	}
	var meta page.Meta
	if err := c.Bind(&meta); err != nil {
		return err
	}
	meta.SchemaType = schema.Text(meta.SchemaType)
	meta.Description = schema.Textarea(meta.Description)
	if !page.ValidOverride(meta.SchemaType) {
		return schemaerr.New(schemaerr.ErrCodeInvalidInput, "schema type %q cannot be set on a page", meta.SchemaType)
	}
	if err := h.pages.SaveMeta(c.Request().Context(), id, meta); err != nil {
		return err
	}
	return ok(c, "Page schema settings saved", meta)
}
