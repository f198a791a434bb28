package schema

import (
	"strconv"
	"strings"

	"schemagraph/internal/menu"
)

// Navigation builds the WebPageElement document for one navigation role.
// It returns nil when there are no items.
func Navigation(siteURL string, role menu.Role, items []menu.Item) Document {
	if len(items) == 0 {
		return nil
	}
	site := strings.TrimRight(siteURL, "/")
	tag := role.ElementType()

	parts := make([]any, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		name := Text(it.Name)
		slug := Slug(name)
		if slug == "" {
			slug = "item-" + strconv.Itoa(i+1)
		}
		// repeated names keep distinct fragments
		for base, n := slug, i+1; seen[slug]; n++ {
			slug = base + "-" + strconv.Itoa(n)
		}
		seen[slug] = true
		parts = append(parts, map[string]any{
			"@type": []any{"SiteNavigationElement", tag},
			"@id":   site + "#" + slug,
			"name":  name,
			"url":   URL(it.URL),
		})
	}

	doc := New("WebPageElement")
	doc["@id"] = site + "#" + tag
	doc["hasPart"] = parts
	return doc
}
