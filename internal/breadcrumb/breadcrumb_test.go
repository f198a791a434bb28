package breadcrumb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemagraph/internal/page"
)

func hierarchy() (*page.MemoryProvider, page.Context) {
	pages := page.NewMemoryProvider()
	pages.Put("a", page.Context{ID: 1, Kind: page.KindPage, Title: "A", Permalink: "https://example.com/a/"})
	pages.Put("b", page.Context{ID: 2, Kind: page.KindPage, Title: "B", Permalink: "https://example.com/a/b/", ParentID: 1})
	current := page.Context{ID: 3, Kind: page.KindPage, Title: "Current", Permalink: "https://example.com/a/b/current/", ParentID: 2}
	pages.Put("current", current)
	return pages, current
}

func titles(t Trail) []string {
	out := make([]string, len(t))
	for i, c := range t {
		out[i] = c.Title
	}
	return out
}

func TestTrail_ParentChain(t *testing.T) {
	pages, current := hierarchy()
	b := Builder{Home: "Home", HomeURL: "https://example.com/", Pages: pages}

	assert.Equal(t, []string{"Home", "A", "B", "Current"}, titles(b.Trail(context.Background(), current, true)))
	assert.Equal(t, []string{"Home", "A", "B"}, titles(b.Trail(context.Background(), current, false)))
}

func TestTrail_Kinds(t *testing.T) {
	b := Builder{Home: "Start", HomeURL: "/"}
	term := page.Term{Name: "News", URL: "/category/news/", Taxonomy: "category"}

	tests := []struct {
		name string
		pc   page.Context
		want []string
	}{
		{
			name: "term archive adds one term",
			pc:   page.Context{Kind: page.KindTermArchive, QueriedTerm: &term},
			want: []string{"Start", "News"},
		},
		{
			name: "single post adds first term then itself",
			pc: page.Context{Kind: page.KindSingle, Title: "Post", Terms: []page.Term{
				term, {Name: "Other", Taxonomy: "category"},
			}},
			want: []string{"Start", "News", "Post"},
		},
		{
			name: "single post without terms",
			pc:   page.Context{Kind: page.KindSingle, Title: "Post"},
			want: []string{"Start", "Post"},
		},
		{
			name: "front page is home only",
			pc:   page.Context{Kind: page.KindFront, Title: "Welcome"},
			want: []string{"Start"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(b.Trail(context.Background(), tt.pc, true)))
		})
	}
}

func TestTrail_DefaultHomeLabel(t *testing.T) {
	trail := Builder{}.Trail(context.Background(), page.Context{Kind: page.KindOther}, true)
	assert.Equal(t, []string{"Home"}, titles(trail))
}

func TestTrail_ParentCycleStops(t *testing.T) {
	pages := page.NewMemoryProvider()
	pages.Put("x", page.Context{ID: 1, Kind: page.KindPage, Title: "X", ParentID: 2})
	pages.Put("y", page.Context{ID: 2, Kind: page.KindPage, Title: "Y", ParentID: 1})
	current := page.Context{ID: 3, Kind: page.KindPage, Title: "Z", ParentID: 1}

	trail := Builder{Pages: pages}.Trail(context.Background(), current, true)
	assert.Equal(t, []string{"Home", "Y", "X", "Z"}, titles(trail))
}

func TestTrail_MissingParentStopsWalk(t *testing.T) {
	pages := page.NewMemoryProvider()
	current := page.Context{ID: 3, Kind: page.KindPage, Title: "Orphan", ParentID: 99}

	trail := Builder{Pages: pages}.Trail(context.Background(), current, true)
	assert.Equal(t, []string{"Home", "Orphan"}, titles(trail))
}

func TestToSchema(t *testing.T) {
	assert.Nil(t, ToSchema(nil))

	doc := ToSchema(Trail{{Title: "Home", URL: "https://example.com/"}, {Title: "About", URL: "https://example.com/about/"}})
	require.NotNil(t, doc)
	assert.Equal(t, "BreadcrumbList", doc["@type"])
	elements := doc["itemListElement"].([]any)
	require.Len(t, elements, 2)
	assert.Equal(t, map[string]any{
		"@type":    "ListItem",
		"position": 2,
		"name":     "About",
		"item":     "https://example.com/about/",
	}, elements[1])
}

func TestRender(t *testing.T) {
	trail := Trail{{Title: "Home", URL: "/"}, {Title: "A & B", URL: "/ab/"}, {Title: "Current", URL: "/ab/c/"}}

	t.Run("show current", func(t *testing.T) {
		got := string(Render(trail, " › ", true))
		assert.Equal(t, `<nav class="schema-breadcrumbs" aria-label="Breadcrumb"><ol class="breadcrumb-list">`+
			`<li class="breadcrumb-item"><a href="/">Home</a></li><li class="breadcrumb-separator"> › </li>`+
			`<li class="breadcrumb-item"><a href="/ab/">A &amp; B</a></li><li class="breadcrumb-separator"> › </li>`+
			`<li class="breadcrumb-item current"><span>Current</span></li></ol></nav>`, got)
	})

	t.Run("hide current drops the last crumb", func(t *testing.T) {
		got := string(Render(trail, "/", false))
		assert.NotContains(t, got, "Current")
		assert.Contains(t, got, `<li class="breadcrumb-item current"><span>A &amp; B</span></li></ol>`)
		assert.Equal(t, 1, countSeparators(got))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Render(Trail{{Title: "Home"}}, "/", false))
	})
}

func countSeparators(s string) int {
	n := 0
	for i := 0; i+len("breadcrumb-separator") <= len(s); i++ {
		if s[i:i+len("breadcrumb-separator")] == "breadcrumb-separator" {
			n++
		}
	}
	return n
}
