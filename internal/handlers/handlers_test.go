package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemagraph/internal/customschema"
	"schemagraph/internal/graph"
	"schemagraph/internal/menu"
	"schemagraph/internal/middleware"
	"schemagraph/internal/page"
	"schemagraph/internal/schema"
	"schemagraph/internal/settings"
)

// pageRenderer writes the template data fields the tests look at.
type pageRenderer struct{}

func (pageRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	pd, ok := data.(PageData)
	if !ok {
		return fmt.Errorf("unexpected data for %s", name)
	}
	_, err := fmt.Fprintf(w, "<title>%s</title>\n%s\n%s", pd.Title, pd.SchemaHead, pd.Breadcrumbs)
	return err
}

type server struct {
	e        *echo.Echo
	pages    *page.MemoryProvider
	custom   *customschema.Store
	settings *settings.Accessor
}

func newServer(t *testing.T) server {
	t.Helper()
	logger := log.New(io.Discard)
	acc := settings.New(settings.NewMemoryStore(), "Acme", logger)

	nav := menu.NewMemoryProvider()
	nav.Register("primary", "Primary Menu")
	nav.Assign("primary", menu.Item{ID: 1, Name: "Home", URL: "https://acme.example/"})
	resolver := menu.NewResolver(nav, acc, menu.NewMemoryCache(), logger)

	pages := page.NewMemoryProvider()
	pages.Put("about", page.Context{ID: 10, Kind: page.KindPage, Title: "About", Permalink: "https://acme.example/p/about/", Content: "We build things."})
	pages.Put("team", page.Context{ID: 11, Kind: page.KindPage, Title: "Team", Permalink: "https://acme.example/p/team/", ParentID: 10})
	pages.PutTerm("news", page.Term{Name: "News", URL: "https://acme.example/t/category/news/", Taxonomy: "category"})

	registry := schema.NewRegistry()
	custom := customschema.NewStore(customschema.NewMemoryStorage(), registry, logger)
	assembler := graph.New(graph.Config{
		Settings: acc,
		Menus:    resolver,
		Pages:    pages,
		Custom:   custom,
		Registry: registry,
		SiteName: "Acme",
		SiteURL:  "https://acme.example",
		Logger:   logger,
		Now:      func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) },
	})

	e := echo.New()
	e.JSONSerializer = JSONSerializer{}
	e.Renderer = pageRenderer{}
	e.HTTPErrorHandler = middleware.CustomErrorHandler(logger)
	Handlers{
		Public:   NewPublicHandler(pages, assembler, "Acme", "https://acme.example", false, logger),
		Schemas:  NewSchemaHandler(pages, custom, assembler, registry, "Acme", "https://acme.example", logger),
		Settings: NewSettingsHandler(acc),
		Menus:    NewMenuHandler(resolver),
		Auth:     NewAuthHandler(nil),
	}.Register(e, middleware.RequireEditor(nil, true))

	return server{e: e, pages: pages, custom: custom, settings: acc}
}

func (s server) do(method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s server) doJSON(method, target, body string) *httptest.ResponseRecorder {
	return s.do(method, target, echo.MIMEApplicationJSON, strings.NewReader(body))
}

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestPublicPages(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		contains   []string
	}{
		{
			name:       "page with breadcrumb",
			target:     "/p/team",
			wantStatus: http.StatusOK,
			contains: []string{
				"<title>Team</title>",
				`<script type="application/ld+json">`,
				`"@type":"BreadcrumbList"`,
				`<a href="https:\/\/acme.example\/p\/about\/">About</a>`,
			},
		},
		{
			name:       "front page falls back to site name",
			target:     "/",
			wantStatus: http.StatusOK,
			contains:   []string{"<title>Acme</title>", `"@type":"Organization"`},
		},
		{
			name:       "term archive",
			target:     "/t/category/news",
			wantStatus: http.StatusOK,
			contains: []string{
				"<title>News</title>",
				`<nav class="schema-breadcrumbs"`,
				`<a href="https:\/\/acme.example\/">Home</a>`,
				`<li class="breadcrumb-item current"><span>News</span></li>`,
			},
		},
		{
			name:       "unknown page",
			target:     "/p/missing",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, tt.target, "", nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			for _, want := range tt.contains {
				if strings.HasPrefix(want, "<a href") {
					// breadcrumb markup is html, not JSON escaped
					want = strings.ReplaceAll(want, `\/`, "/")
				}
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestExportPage(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/p/about/schema.jsonld", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/ld+json", rec.Header().Get(echo.HeaderContentType))

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.NotEmpty(t, docs)
	assert.Equal(t, "Organization", docs[0]["@type"])
	assert.Contains(t, rec.Body.String(), `https:\/\/acme.example`)
}

func TestSchemaLifecycle(t *testing.T) {
	s := newServer(t)

	rec := s.doJSON(http.MethodPost, "/api/pages/11/schemas", `{"schema_type":"Product","name":"Widget","price":"9.99"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Schema added successfully", env.Message)

	form := url.Values{"name": {"Gadget"}}
	rec = s.do(http.MethodPut, "/api/pages/11/schemas/0", echo.MIMEApplicationForm, strings.NewReader(form.Encode()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/pages/11/schemas/0/duplicate", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"index":1}`, string(decode(t, rec).Data))

	rec = s.do(http.MethodPost, "/api/pages/11/schemas/1/toggle", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decode(t, rec)
	assert.Equal(t, "Schema disabled", env.Message)

	entries, err := s.custom.List(context.Background(), 11)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Gadget", entries[0].Document["name"])
	assert.False(t, entries[1].Enabled)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	rec = s.do(http.MethodGet, "/api/pages/11/schemas", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []graph.Annotated
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &items))
	last := items[len(items)-1]
	assert.False(t, last.Enabled)
	assert.Equal(t, customschema.SourceCustom, last.Source)

	rec = s.do(http.MethodDelete, "/api/pages/11/schemas/0", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries, err = s.custom.List(context.Background(), 11)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSchemaErrors(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"bad page id", http.MethodGet, "/api/pages/abc/schemas", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown page", http.MethodGet, "/api/pages/99/schemas", "", http.StatusNotFound, "NOT_FOUND"},
		{"stale index", http.MethodPost, "/api/pages/11/schemas/4/toggle", "", http.StatusNotFound, "NOT_FOUND"},
		{"bad index", http.MethodDelete, "/api/pages/11/schemas/x", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown bulk action", http.MethodPost, "/api/pages/11/schemas/bulk", `{"action":"explode"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"import without context", http.MethodPost, "/api/pages/11/schemas/import", `[{"@type":"Thing"}]`, http.StatusBadRequest, "INVALID_INPUT"},
		{"meta with bad type", http.MethodPut, "/api/pages/11/meta", `{"schema_type":"Recipe"}`, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			rec := s.do(tt.method, tt.target, echo.MIMEApplicationJSON, body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			env := decode(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Code)
		})
	}
}

func TestBulkAction(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	for _, name := range []string{"A", "B"} {
		_, _, err := s.custom.AddFromTemplate(ctx, 10, "Thing", schema.Input{Name: name}, schema.BuildContext{})
		require.NoError(t, err)
	}

	rec := s.doJSON(http.MethodPost, "/api/pages/10/schemas/bulk", `{"action":"disable"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"action":"disable","affected":2}`, string(decode(t, rec).Data))

	rec = s.doJSON(http.MethodPost, "/api/pages/10/schemas/bulk", `{"action":"reset"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	entries, err := s.custom.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportImport(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	_, _, err := s.custom.AddFromTemplate(ctx, 10, "Person", schema.Input{Name: "Kim"}, schema.BuildContext{})
	require.NoError(t, err)

	rec := s.do(http.MethodGet, "/api/pages/10/schemas/export", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `page-10-schemas.json`)
	exported := rec.Body.Bytes()
	assert.Contains(t, string(exported), `"_enabled":true`)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "schemas.json")
	require.NoError(t, err)
	_, err = part.Write(exported)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec = s.do(http.MethodPost, "/api/pages/11/schemas/import", mw.FormDataContentType(), &buf)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"imported":1}`, string(decode(t, rec).Data))

	entries, err := s.custom.List(ctx, 11)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Kim", entries[0].Document["name"])
	assert.Equal(t, customschema.SourceCustom, entries[0].Source)
}

func TestPreviewTemplate(t *testing.T) {
	s := newServer(t)

	rec := s.doJSON(http.MethodPost, "/api/schema-templates/Product?page_id=10", `{}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result struct {
		Schema map[string]any `json:"schema"`
		Valid  bool           `json:"valid"`
		Issues []struct {
			Field string `json:"field"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
	assert.Equal(t, "Product", result.Schema["@type"])
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Issues)

	rec = s.do(http.MethodGet, "/api/schema-types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var types []string
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &types))
	assert.Contains(t, types, "FAQPage")
}

func TestSaveMeta(t *testing.T) {
	s := newServer(t)
	rec := s.doJSON(http.MethodPut, "/api/pages/10/meta", `{"schema_type":"Article","description":"<b>Who</b> we are"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	pc, err := s.pages.Context(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Article", pc.SchemaType)
	assert.Equal(t, "Who we are", pc.Description)
}

func TestSettingsRoutes(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/settings/general", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var general map[string]any
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &general))
	assert.Equal(t, "Acme", general["org_name"])

	rec = s.do(http.MethodGet, "/api/settings/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.doJSON(http.MethodPatch, "/api/settings/general", `{"org_type":"LocalBusiness"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	g, err := s.settings.General(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LocalBusiness", g.OrgType)
	assert.Equal(t, "Acme", g.OrgName)

	values, err := s.settings.Get(context.Background(), settings.GroupGeneral)
	require.NoError(t, err)
	assert.NotContains(t, values, "group")

	rec = s.do(http.MethodPost, "/api/settings/general/toggle", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Schema output disabled", decode(t, rec).Message)

	rec = s.do(http.MethodGet, "/p/about/schema.jsonld", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestMenuRoutes(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/menus/header", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(decode(t, rec).Data), `"primary"`)

	rec = s.do(http.MethodGet, "/api/menus/sidebar", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/menus/invalidate", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginWithoutFirebase(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodPost, "/auth/login", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "AUTH_NOT_CONFIGURED", decode(t, rec).Code)

	rec = s.do(http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), middleware.SessionCookie+"=;")
}
