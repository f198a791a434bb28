// Package graph assembles the ordered list of JSON-LD documents emitted for
// one page render.
package graph

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"schemagraph/internal/breadcrumb"
	"schemagraph/internal/customschema"
	"schemagraph/internal/menu"
	"schemagraph/internal/page"
	"schemagraph/internal/schema"
	"schemagraph/internal/schemaerr"
	"schemagraph/internal/settings"
)

// Config wires an Assembler's collaborators.
type Config struct {
	Settings *settings.Accessor
	Menus    *menu.Resolver
	Pages    page.Lookup
	Custom   *customschema.Store
	Registry *schema.Registry
	SiteName string
	SiteURL  string
	Logger   *log.Logger
	Now      func() time.Time
}

// Assembler builds page graphs.
type Assembler struct {
	cfg Config
}

// New creates an Assembler. Registry, Logger and Now default when nil.
func New(cfg Config) *Assembler {
	if cfg.Registry == nil {
		cfg.Registry = schema.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return &Assembler{cfg: cfg}
}

// Annotated is one document as the editor lists it.
type Annotated struct {
	Document schema.Document     `json:"schema"`
	Source   customschema.Source `json:"_source"`
	Enabled  bool                `json:"_enabled"`
	Index    *int                `json:"_index,omitempty"`
	ID       string              `json:"_id,omitempty"`
	Valid    bool                `json:"valid"`
	Issues   []schemaerr.Issue   `json:"issues,omitempty"`
}

// Assemble returns the documents to emit for pc, in emission order:
// organization, header and footer navigation, the page document and the
// breadcrumb list for singular pages, then the enabled custom entries.
// Documents that fail validation are logged and left out. An error is only
// returned when the general settings cannot be read.
func (a *Assembler) Assemble(ctx context.Context, pc page.Context) ([]schema.Document, error) {
	items, err := a.collect(ctx, pc, false)
	if err != nil {
		return nil, err
	}
	docs := make([]schema.Document, 0, len(items))
	for _, it := range items {
		if !it.Enabled {
			continue
		}
		if !it.Valid {
			a.cfg.Logger.Warn("schema validation failed, skipping document",
				"type", it.Document.Type(), "source", it.Source, "issues", it.Issues)
			continue
		}
		docs = append(docs, schema.Strip(it.Document))
	}
	return docs, nil
}

// Preview returns every document the editor shows for pc, including disabled
// custom entries, annotated with control fields and validation results.
func (a *Assembler) Preview(ctx context.Context, pc page.Context) ([]Annotated, error) {
	return a.collect(ctx, pc, true)
}

func (a *Assembler) collect(ctx context.Context, pc page.Context, includeDisabled bool) ([]Annotated, error) {
	g, err := a.cfg.Settings.General(ctx)
	if err != nil {
		return nil, err
	}
	if !g.Enabled {
		return []Annotated{}, nil
	}

	bc := schema.BuildContext{Page: pc, SiteName: a.siteName(g), SiteURL: a.cfg.SiteURL, Now: a.cfg.Now()}
	var out []Annotated
	add := func(doc schema.Document, src customschema.Source) {
		if doc == nil {
			return
		}
		out = append(out, annotate(doc, src, true))
	}

	add(a.organization(ctx, g, bc), customschema.SourceGlobal)
	if bool(g.HeaderSchema) {
		add(a.navigation(ctx, menu.RoleHeader), customschema.SourceGlobal)
	}
	if bool(g.FooterSchema) {
		add(a.navigation(ctx, menu.RoleFooter), customschema.SourceGlobal)
	}
	if pc.Singular() {
		add(a.pageDocument(ctx, bc), customschema.SourcePost)
		if !isFront(pc) {
			trail := a.breadcrumbs(g).Trail(ctx, pc, bool(g.ShowCurrent))
			add(breadcrumb.ToSchema(trail), customschema.SourceAuto)
		}
	}

	if pc.ID != 0 && a.cfg.Custom != nil {
		entries, err := a.cfg.Custom.List(ctx, pc.ID)
		if err != nil {
			a.cfg.Logger.Warn("custom schemas unavailable", "page", pc.ID, "error", err)
		}
		for i, e := range entries {
			if !e.Enabled && !includeDisabled {
				continue
			}
			it := annotate(e.Document, e.Source, e.Enabled)
			index := i
			it.Index = &index
			it.ID = e.ID
			out = append(out, it)
		}
	}
	if out == nil {
		out = []Annotated{}
	}
	return out, nil
}

// BreadcrumbHTML renders the breadcrumb navigation for pc using the general
// settings. Singular pages and term archives have a trail; it returns "" for
// everything else and when output is disabled.
func (a *Assembler) BreadcrumbHTML(ctx context.Context, pc page.Context) template.HTML {
	g, err := a.cfg.Settings.General(ctx)
	if err != nil {
		a.cfg.Logger.Warn("breadcrumb settings unavailable", "error", err)
		return ""
	}
	if !bool(g.Enabled) || isFront(pc) || !(pc.Singular() || pc.Kind == page.KindTermArchive) {
		return ""
	}
	// the trail already honours show_current, so Render keeps its last crumb
	trail := a.breadcrumbs(g).Trail(ctx, pc, bool(g.ShowCurrent))
	return breadcrumb.Render(trail, g.BreadcrumbSeparator, true)
}

func isFront(pc page.Context) bool {
	return pc.IsFrontPage || pc.Kind == page.KindFront
}

func (a *Assembler) breadcrumbs(g settings.GlobalSettings) breadcrumb.Builder {
	return breadcrumb.Builder{
		Home:    g.BreadcrumbHome,
		HomeURL: a.cfg.SiteURL + "/",
		Pages:   a.cfg.Pages,
		Logger:  a.cfg.Logger,
	}
}

func (a *Assembler) siteName(g settings.GlobalSettings) string {
	if g.OrgName != "" {
		return g.OrgName
	}
	return a.cfg.SiteName
}

func (a *Assembler) organization(ctx context.Context, g settings.GlobalSettings, bc schema.BuildContext) schema.Document {
	in := schema.Input{
		Name:       bc.SiteName,
		URL:        a.cfg.SiteURL + "/",
		LogoURL:    g.OrgLogo,
		SocialURLs: g.OrgSocial,
	}
	lb, err := a.cfg.Settings.LocalBusiness(ctx)
	if err != nil {
		a.cfg.Logger.Warn("local business settings unavailable", "error", err)
	} else if bool(lb.Enabled) {
		in.Address = lb.Address
		in.Telephone = lb.Phone
	}

	typ := g.OrgType
	if typ == "" {
		typ = "Organization"
	}
	doc, err := a.cfg.Registry.Template(typ, in, bc)
	if err != nil {
		a.cfg.Logger.Warn("organization schema not built", "type", typ, "error", err)
		return nil
	}
	if _, ok := doc["address"]; !ok && in.Address != "" {
		doc["address"] = schema.Textarea(in.Address)
	}
	if _, ok := doc["telephone"]; !ok && in.Telephone != "" {
		doc["telephone"] = schema.Text(in.Telephone)
	}
	return doc
}

func (a *Assembler) navigation(ctx context.Context, role menu.Role) schema.Document {
	if a.cfg.Menus == nil {
		return nil
	}
	res, err := a.cfg.Menus.Resolve(ctx, role)
	if err != nil {
		a.cfg.Logger.Warn("menu resolution failed", "role", role, "error", err)
		return nil
	}
	return schema.Navigation(a.cfg.SiteURL, role, res.Items)
}

func (a *Assembler) pageDocument(ctx context.Context, bc schema.BuildContext) schema.Document {
	art, err := a.cfg.Settings.Article(ctx)
	if err != nil {
		a.cfg.Logger.Warn("article settings unavailable", "error", err)
	}
	return a.cfg.Registry.PageDocument(bc, schema.PageOptions{
		ArticleEnabled: bool(art.Enabled),
		ArticleType:    art.ArticleType,
	})
}

func annotate(doc schema.Document, src customschema.Source, enabled bool) Annotated {
	it := Annotated{Document: doc, Source: src, Enabled: enabled, Valid: true}
	if err := schema.Validate(schema.Strip(doc)); err != nil {
		it.Valid = false
		var verr *schemaerr.ValidationError
		if errors.As(err, &verr) {
			it.Issues = verr.Issues
		}
	}
	return it
}
