// Package schema builds and validates schema.org JSON-LD documents.
//
// A Registry maps each supported schema type name to a Builder. Builders turn a
// flat Input record plus the current page into a Document; common fields
// (name, description, url) are applied by the registry before the type-specific
// fields. Aliases route several type names to one builder (Article and
// NewsArticle share the BlogPosting builder) and unknown types fall back to a
// generic builder that only emits the common fields.
//
//	reg := schema.NewRegistry()
//	doc, err := reg.Build("FAQPage", schema.Input{
//	    Questions: []string{"Q1", "Q2"},
//	    Answers:   []string{"A1", ""},
//	}, bc)
//
// Validate checks the presence rules every emitted document must satisfy:
// @context and @type, plus each type's mandatory fields.
package schema
