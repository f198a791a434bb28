package schema

import "slices"

// descriptionWords caps the description derived from page copy.
const descriptionWords = 25

// ArticleTypes are the page types built with the article builder.
var ArticleTypes = []string{"Article", "BlogPosting", "NewsArticle"}

// IsArticle reports whether typ belongs to the article family.
func IsArticle(typ string) bool {
	return slices.Contains(ArticleTypes, typ)
}

// PageOptions carries the article settings that pick a page's type.
type PageOptions struct {
	ArticleEnabled bool
	ArticleType    string
}

// PageType resolves the effective type of the current page: the per-page
// override, then the article type for posts, then WebPage.
func PageType(bc BuildContext, opts PageOptions) string {
	if bc.Page.SchemaType != "" {
		return bc.Page.SchemaType
	}
	if bc.Page.PostType == "post" && opts.ArticleEnabled {
		return or(opts.ArticleType, "Article")
	}
	return "WebPage"
}

// PageDocument builds the WebPage/Article document describing the current page.
func (r *Registry) PageDocument(bc BuildContext, opts PageOptions) Document {
	typ := PageType(bc, opts)
	p := bc.Page

	description := Textarea(p.Description)
	if description == "" {
		description = TrimWords(or(p.Excerpt, p.Content), descriptionWords, "...")
	}

	doc := New(typ)
	doc.set("name", Text(p.Title))
	doc.set("url", URL(p.Permalink))
	doc.set("description", description)
	if IsArticle(typ) {
		r.lookup(typ).Build(doc, Input{ImageURL: p.FeaturedImage}, bc)
	}
	return doc
}
