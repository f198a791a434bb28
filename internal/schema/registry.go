package schema

import (
	"slices"
	"strings"

	"schemagraph/internal/schemaerr"
)

// Builder maps an Input and the build context into the type-specific fields
// of doc. The registry has already stamped @context, @type and the common fields.
type Builder interface {
	Build(doc Document, in Input, bc BuildContext)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(doc Document, in Input, bc BuildContext)

// Build calls f.
func (f BuilderFunc) Build(doc Document, in Input, bc BuildContext) { f(doc, in, bc) }

// Registry dispatches schema types to builders.
type Registry struct {
	builders map[string]Builder
	aliases  map[string]string
	generic  Builder
}

// NewRegistry returns a registry with every built-in type registered.
func NewRegistry() *Registry {
	r := &Registry{
		builders: make(map[string]Builder),
		aliases:  make(map[string]string),
		generic:  BuilderFunc(buildGeneric),
	}
	r.Register("Organization", BuilderFunc(buildOrganization))
	r.Register("LocalBusiness", BuilderFunc(buildLocalBusiness))
	r.Register("Service", BuilderFunc(buildService))
	r.Register("Product", BuilderFunc(buildProduct))
	r.Register("Event", BuilderFunc(buildEvent))
	r.Register("Person", BuilderFunc(buildPerson))
	r.Register("FAQPage", BuilderFunc(buildFAQPage))
	r.Register("HowTo", BuilderFunc(buildHowTo))
	r.Register("Recipe", BuilderFunc(buildRecipe))
	r.Register("VideoObject", BuilderFunc(buildVideoObject))
	r.Register("Review", BuilderFunc(buildReview))
	r.Register("BlogPosting", BuilderFunc(buildArticle))
	r.Register("WebSite", BuilderFunc(buildWebSite))
	r.Register("WebPage", r.generic)
	r.Alias("Article", "BlogPosting")
	r.Alias("NewsArticle", "BlogPosting")
	return r
}

// Register installs b for typ, replacing any previous builder.
func (r *Registry) Register(typ string, b Builder) {
	r.builders[typ] = b
}

// Alias routes alias to the builder registered for target.
func (r *Registry) Alias(alias, target string) {
	r.aliases[alias] = target
}

// Supported reports whether typ has a dedicated builder or alias.
func (r *Registry) Supported(typ string) bool {
	if _, ok := r.aliases[typ]; ok {
		return true
	}
	_, ok := r.builders[typ]
	return ok
}

// Types lists the supported type names in alphabetical order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.builders)+len(r.aliases))
	for t := range r.builders {
		out = append(out, t)
	}
	for a := range r.aliases {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

func (r *Registry) lookup(typ string) Builder {
	if target, ok := r.aliases[typ]; ok {
		typ = target
	}
	if b, ok := r.builders[typ]; ok {
		return b
	}
	return r.generic
}

// Template builds an unvalidated document for typ. This is the "add" path:
// an editor may save an incomplete entry and fix it later.
func (r *Registry) Template(typ string, in Input, bc BuildContext) (Document, error) {
	typ = Text(typ)
	if typ == "" {
		return nil, schemaerr.New(schemaerr.ErrCodeUnsupportedType, "schema type is required")
	}
	doc := New(typ)
	doc.set("name", Text(in.Name))
	doc.set("description", Textarea(in.Description))
	doc.set("url", URL(in.URL))
	r.lookup(typ).Build(doc, in, bc)
	return doc, nil
}

// Build builds a document for typ and validates it.
func (r *Registry) Build(typ string, in Input, bc BuildContext) (Document, error) {
	doc, err := r.Template(typ, in, bc)
	if err != nil {
		return nil, err
	}
	return doc, Validate(doc)
}

// canonicalType normalizes the user-controlled type name the generic builder
// stamps; anything that is not an identifier becomes Thing.
func canonicalType(typ string) string {
	if typ == "" || strings.ContainsAny(typ, " \t<>\"'") {
		return "Thing"
	}
	return typ
}
