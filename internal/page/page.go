package page

import (
	"context"
	"time"
)

// Kind classifies the request being rendered.
type Kind string

const (
	KindSingle      Kind = "single"       // non-hierarchical post
	KindPage        Kind = "page"         // hierarchical page with parent links
	KindTermArchive Kind = "term_archive" // category/tag listing
	KindFront       Kind = "front"
	KindOther       Kind = "other"
)

// Term is a taxonomy term a page is filed under, or the term being listed.
type Term struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Taxonomy string `json:"taxonomy"`
}

// Ref is the minimal view of a page used when walking parent links.
type Ref struct {
	ID       uint   `json:"id"`
	ParentID uint   `json:"parent_id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

// Context describes the page currently being rendered.
type Context struct {
	ID            uint      `json:"id"`
	PostType      string    `json:"post_type"`
	Kind          Kind      `json:"kind"`
	IsFrontPage   bool      `json:"is_front_page"`
	Title         string    `json:"title"`
	Permalink     string    `json:"permalink"`
	Published     time.Time `json:"published"`
	Modified      time.Time `json:"modified"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	AuthorName    string    `json:"author_name"`
	FeaturedImage string    `json:"featured_image"`
	ParentID      uint      `json:"parent_id"`
	Terms         []Term    `json:"terms,omitempty"`
	QueriedTerm   *Term     `json:"queried_term,omitempty"`

	// Per-page overrides saved from the editor.
	SchemaType  string `json:"schema_type"`
	Description string `json:"description"`
}

// Singular reports whether the context renders one page rather than a listing.
func (c Context) Singular() bool {
	return c.Kind == KindSingle || c.Kind == KindPage || c.Kind == KindFront
}

// Ref returns the parent-walk view of the page.
func (c Context) Ref() Ref {
	return Ref{ID: c.ID, ParentID: c.ParentID, Title: c.Title, URL: c.Permalink}
}

// Meta holds the per-page schema overrides.
type Meta struct {
	SchemaType  string `json:"schema_type" form:"schema_type"`
	Description string `json:"description" form:"description"`
}

// OverrideTypes are the schema types an editor may force on a page.
// The empty string means "derive from settings".
var OverrideTypes = []string{"", "Article", "BlogPosting", "NewsArticle", "Product", "Event", "LocalBusiness", "WebPage"}

// ValidOverride reports whether t is an accepted per-page override.
func ValidOverride(t string) bool {
	for _, o := range OverrideTypes {
		if o == t {
			return true
		}
	}
	return false
}

// Lookup resolves page references for the breadcrumb parent walk.
type Lookup interface {
	Ref(ctx context.Context, id uint) (Ref, error)
}

// Provider exposes the site's content to the schema graph.
type Provider interface {
	Lookup
	Context(ctx context.Context, id uint) (Context, error)
	ContextBySlug(ctx context.Context, slug string) (Context, error)
	FrontPage(ctx context.Context) (Context, error)
	TermArchive(ctx context.Context, taxonomy, slug string) (Context, error)
	SaveMeta(ctx context.Context, id uint, meta Meta) error
	PageIDs(ctx context.Context) ([]uint, error)
}
