// Package jsonld serializes schema documents for embedding in HTML.
package jsonld

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"schemagraph/internal/schema"
	"schemagraph/internal/schemaerr"
)

// MIMEType is the media type of the emitted script blocks.
const MIMEType = "application/ld+json"

// Marshal encodes doc as compact JSON. HTML-sensitive characters are escaped
// and every "/" is written as "\/" so the output cannot close a script element.
func Marshal(doc schema.Document) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, schemaerr.Wrap(schemaerr.ErrCodeInternal, err, "encode %s document", doc.Type())
	}
	return escapeSlashes(raw), nil
}

// MarshalIndent is Marshal with two-space indentation.
func MarshalIndent(doc schema.Document) ([]byte, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, schemaerr.Wrap(schemaerr.ErrCodeInternal, err, "encode %s document", doc.Type())
	}
	return escapeSlashes(raw), nil
}

// MarshalAll encodes docs as one JSON array.
func MarshalAll(docs []schema.Document) ([]byte, error) {
	if docs == nil {
		docs = []schema.Document{}
	}
	raw, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, schemaerr.Wrap(schemaerr.ErrCodeInternal, err, "encode documents")
	}
	return escapeSlashes(raw), nil
}

// escapeSlashes rewrites "/" as "\/". A slash never appears in JSON outside
// string literals, and "\/" is a valid escape inside them.
func escapeSlashes(raw []byte) []byte {
	return bytes.ReplaceAll(raw, []byte("/"), []byte(`\/`))
}

// Script wraps the encoded document in a JSON-LD script element.
func Script(doc schema.Document, pretty bool) (template.HTML, error) {
	var (
		raw []byte
		err error
	)
	if pretty {
		raw, err = MarshalIndent(doc)
	} else {
		raw, err = Marshal(doc)
	}
	if err != nil {
		return "", err
	}
	return template.HTML(`<script type="` + MIMEType + `">` + string(raw) + `</script>`), nil
}

// Render returns one script element per document, newline separated.
// Documents that fail to encode are logged and skipped.
func Render(docs []schema.Document, pretty bool, logger *log.Logger) template.HTML {
	if logger == nil {
		logger = log.Default()
	}
	scripts := make([]string, 0, len(docs))
	for _, doc := range docs {
		s, err := Script(doc, pretty)
		if err != nil {
			logger.Warn("skipping unencodable schema", "type", doc.Type(), "error", err)
			continue
		}
		scripts = append(scripts, string(s))
	}
	return template.HTML(strings.Join(scripts, "\n"))
}

// Parse decodes one JSON object into a document.
func Parse(data []byte) (schema.Document, error) {
	var doc schema.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, schemaerr.Wrap(schemaerr.ErrCodeInvalidInput, err, "parse JSON-LD document")
	}
	if doc == nil {
		return nil, schemaerr.New(schemaerr.ErrCodeInvalidInput, "JSON-LD document must be an object")
	}
	return doc, nil
}

// ParseAll accepts either a single object or an array of objects.
func ParseAll(data []byte) ([]schema.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []schema.Document
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, schemaerr.Wrap(schemaerr.ErrCodeInvalidInput, err, "parse JSON-LD documents")
		}
		for i, d := range docs {
			if d == nil {
				return nil, schemaerr.New(schemaerr.ErrCodeInvalidInput, "document %d must be an object", i)
			}
		}
		return docs, nil
	}
	doc, err := Parse(trimmed)
	if err != nil {
		return nil, err
	}
	return []schema.Document{doc}, nil
}
