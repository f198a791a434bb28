package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemagraph/internal/menu"
	"schemagraph/internal/page"
	"schemagraph/internal/schemaerr"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		doc    Document
		issues []schemaerr.Issue
	}{
		{
			name: "valid organization",
			doc:  Document{"@context": Context, "@type": "Organization", "name": "Acme"},
		},
		{
			name:   "missing context and name",
			doc:    Document{"@type": "Organization"},
			issues: []schemaerr.Issue{{Field: "@context", Message: "is missing"}, {Field: "name", Message: "is required"}},
		},
		{
			name:   "wrong context",
			doc:    Document{"@context": "http://schema.org", "@type": "Thing"},
			issues: []schemaerr.Issue{{Field: "@context", Message: "must be https://schema.org"}},
		},
		{
			name:   "empty type list",
			doc:    Document{"@context": Context, "@type": []any{}},
			issues: []schemaerr.Issue{{Field: "@type", Message: "is missing"}},
		},
		{
			name: "multi typed",
			doc:  Document{"@context": Context, "@type": []any{"SiteNavigationElement", "WPHeader"}},
		},
		{
			name: "unknown type only needs context and type",
			doc:  Document{"@context": Context, "@type": "Bakery"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.doc)
			if tt.issues == nil {
				assert.NoError(t, err)
				return
			}
			var verr *schemaerr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.issues, verr.Issues)
		})
	}
}

func TestNavigation(t *testing.T) {
	assert.Nil(t, Navigation("https://example.com", menu.RoleHeader, nil))

	doc := Navigation("https://example.com/", menu.RoleFooter, []menu.Item{
		{Name: "Privacy Policy", URL: "https://example.com/privacy/"},
		{Name: "***", URL: "/x"},
	})
	require.NoError(t, Validate(doc))
	assert.Equal(t, "https://example.com#WPFooter", doc["@id"])

	parts := doc["hasPart"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, map[string]any{
		"@type": []any{"SiteNavigationElement", "WPFooter"},
		"@id":   "https://example.com#privacy-policy",
		"name":  "Privacy Policy",
		"url":   "https://example.com/privacy/",
	}, parts[0])
	assert.Equal(t, "https://example.com#item-2", parts[1].(map[string]any)["@id"])
}

func TestNavigation_RepeatedNames(t *testing.T) {
	doc := Navigation("https://example.com", menu.RoleHeader, []menu.Item{
		{Name: "Shop", URL: "/shop/"},
		{Name: "Blog", URL: "/blog/"},
		{Name: "Shop", URL: "/shop/sale/"},
		{Name: "Shop 3", URL: "/shop/3/"},
	})
	var ids []any
	for _, p := range doc["hasPart"].([]any) {
		ids = append(ids, p.(map[string]any)["@id"])
	}
	assert.Equal(t, []any{
		"https://example.com#shop",
		"https://example.com#blog",
		"https://example.com#shop-3",
		"https://example.com#shop-3-4",
	}, ids)
}

func TestPageDocument(t *testing.T) {
	r := NewRegistry()
	post := page.Context{
		PostType:  "post",
		Kind:      page.KindSingle,
		Title:     "News",
		Permalink: "https://example.com/news/",
		Content:   "<p>one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty twentyone twentytwo twentythree twentyfour twentyfive twentysix</p>",
	}

	t.Run("article enabled", func(t *testing.T) {
		doc := r.PageDocument(BuildContext{Page: post}, PageOptions{ArticleEnabled: true, ArticleType: "NewsArticle"})
		assert.Equal(t, "NewsArticle", doc["@type"])
		assert.Equal(t, "News", doc["headline"])
		assert.Equal(t, "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty twentyone twentytwo twentythree twentyfour twentyfive...", doc["description"])
	})

	t.Run("article disabled", func(t *testing.T) {
		doc := r.PageDocument(BuildContext{Page: post}, PageOptions{})
		assert.Equal(t, "WebPage", doc["@type"])
		assert.NotContains(t, doc, "headline")
	})

	t.Run("override wins", func(t *testing.T) {
		p := post
		p.SchemaType = "Product"
		p.Description = "Custom text"
		doc := r.PageDocument(BuildContext{Page: p}, PageOptions{ArticleEnabled: true})
		assert.Equal(t, "Product", doc["@type"])
		assert.Equal(t, "Custom text", doc["description"])
	})
}

func TestDocument_StripAndClone(t *testing.T) {
	doc := Document{"@context": Context, "@type": "Thing", "_id": "x", "_enabled": true, "nested": map[string]any{"a": []any{"b"}}}
	stripped := Strip(doc)
	assert.NotContains(t, stripped, "_id")
	assert.NotContains(t, stripped, "_enabled")
	assert.Contains(t, doc, "_id")

	stripped["nested"].(map[string]any)["a"].([]any)[0] = "changed"
	assert.Equal(t, "b", doc["nested"].(map[string]any)["a"].([]any)[0])
}
