// Package breadcrumb builds the path from the site root to the current page,
// both as BreadcrumbList structured data and as navigation markup.
package breadcrumb

import (
	"context"
	"html"
	"html/template"
	"strings"

	"github.com/charmbracelet/log"

	"schemagraph/internal/page"
	"schemagraph/internal/schema"
)

// maxDepth bounds the parent walk so a corrupt parent chain cannot loop.
const maxDepth = 32

// Crumb is one step of the trail.
type Crumb struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Trail is the ordered path from the home entry to the current page.
type Trail []Crumb

// Builder builds trails for pages of one site.
type Builder struct {
	Home    string
	HomeURL string
	Pages   page.Lookup
	Logger  *log.Logger
}

// Trail returns the breadcrumb trail for pc. The home entry always comes
// first; showCurrent controls whether pc itself ends the trail.
func (b Builder) Trail(ctx context.Context, pc page.Context, showCurrent bool) Trail {
	home := b.Home
	if home == "" {
		home = "Home"
	}
	trail := Trail{{Title: home, URL: b.HomeURL}}
	current := Crumb{Title: pc.Title, URL: pc.Permalink}

	switch pc.Kind {
	case page.KindTermArchive:
		if pc.QueriedTerm != nil {
			trail = append(trail, Crumb{Title: pc.QueriedTerm.Name, URL: pc.QueriedTerm.URL})
		}
	case page.KindSingle:
		if len(pc.Terms) > 0 {
			trail = append(trail, Crumb{Title: pc.Terms[0].Name, URL: pc.Terms[0].URL})
		}
		if showCurrent {
			trail = append(trail, current)
		}
	case page.KindPage:
		trail = append(trail, b.ancestors(ctx, pc)...)
		if showCurrent {
			trail = append(trail, current)
		}
	}
	return trail
}

// ancestors walks parent links upward and returns them root first.
func (b Builder) ancestors(ctx context.Context, pc page.Context) []Crumb {
	if b.Pages == nil {
		return nil
	}
	var chain []Crumb
	seen := map[uint]bool{pc.ID: true}
	for id := pc.ParentID; id != 0 && len(chain) < maxDepth; {
		if seen[id] {
			b.logger().Warn("breadcrumb parent cycle", "page", pc.ID, "parent", id)
			break
		}
		seen[id] = true
		ref, err := b.Pages.Ref(ctx, id)
		if err != nil {
			b.logger().Warn("breadcrumb parent lookup failed", "page", pc.ID, "parent", id, "error", err)
			break
		}
		chain = append(chain, Crumb{Title: ref.Title, URL: ref.URL})
		id = ref.ParentID
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func (b Builder) logger() *log.Logger {
	if b.Logger == nil {
		return log.Default()
	}
	return b.Logger
}

// ToSchema mirrors trail as a BreadcrumbList. It returns nil for an empty trail.
func ToSchema(trail Trail) schema.Document {
	if len(trail) == 0 {
		return nil
	}
	elements := make([]any, 0, len(trail))
	for i, c := range trail {
		elements = append(elements, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     schema.Text(c.Title),
			"item":     schema.URL(c.URL),
		})
	}
	doc := schema.New("BreadcrumbList")
	doc["itemListElement"] = elements
	return doc
}

// Render returns the trail as an ordered list. Without showCurrent the last
// crumb is dropped entirely; the final remaining crumb is never linked and
// no separator follows it.
func Render(trail Trail, separator string, showCurrent bool) template.HTML {
	if !showCurrent && len(trail) > 0 {
		trail = trail[:len(trail)-1]
	}
	if len(trail) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<nav class="schema-breadcrumbs" aria-label="Breadcrumb"><ol class="breadcrumb-list">`)
	for i, c := range trail {
		last := i == len(trail)-1
		if last {
			sb.WriteString(`<li class="breadcrumb-item current"><span>`)
			sb.WriteString(html.EscapeString(c.Title))
			sb.WriteString(`</span></li>`)
			break
		}
		sb.WriteString(`<li class="breadcrumb-item"><a href="`)
		sb.WriteString(html.EscapeString(schema.URL(c.URL)))
		sb.WriteString(`">`)
		sb.WriteString(html.EscapeString(c.Title))
		sb.WriteString(`</a></li><li class="breadcrumb-separator">`)
		sb.WriteString(html.EscapeString(separator))
		sb.WriteString(`</li>`)
	}
	sb.WriteString(`</ol></nav>`)
	return template.HTML(sb.String())
}
