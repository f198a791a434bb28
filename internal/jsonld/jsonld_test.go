package jsonld

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemagraph/internal/schema"
	"schemagraph/internal/schemaerr"
)

func TestMarshal_EscapesSlashesAndMarkup(t *testing.T) {
	doc := schema.Document{"@context": schema.Context, "@type": "Thing", "name": "</script><b>&"}
	raw, err := Marshal(doc)
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, `"https:\/\/schema.org"`)
	assert.NotContains(t, s, "</")
	assert.NotContains(t, s, "<")
	assert.NotContains(t, s, "&")
}

// canonical turns decoded numbers and string lists into the shapes a JSON
// round trip produces.
func canonical(v any) any {
	switch t := v.(type) {
	case schema.Document:
		return canonical(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = canonical(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = canonical(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	case int:
		return float64(t)
	}
	return v
}

func TestRoundTrip(t *testing.T) {
	r := schema.NewRegistry()
	docs := []schema.Document{}
	for _, typ := range r.Types() {
		doc, err := r.Template(typ, schema.Input{
			Name:        "A/B <test>",
			URL:         "https://example.com/a/b",
			RatingValue: "4",
			Questions:   []string{"Q?"},
			Answers:     []string{"A!"},
		}, schema.BuildContext{SiteName: "Site", SiteURL: "https://example.com"})
		require.NoError(t, err)
		docs = append(docs, doc)
	}

	for _, doc := range docs {
		t.Run(doc.Type(), func(t *testing.T) {
			for _, pretty := range []bool{false, true} {
				var raw []byte
				var err error
				if pretty {
					raw, err = MarshalIndent(doc)
				} else {
					raw, err = Marshal(doc)
				}
				require.NoError(t, err)
				back, err := Parse(raw)
				require.NoError(t, err)
				assert.Equal(t, canonical(doc), canonical(back))
			}
		})
	}
}

func TestScript(t *testing.T) {
	s, err := Script(schema.Document{"@type": "Thing"}, false)
	require.NoError(t, err)
	assert.Equal(t, `<script type="application/ld+json">{"@type":"Thing"}</script>`, string(s))
}

func TestRender_SkipsUnencodable(t *testing.T) {
	docs := []schema.Document{
		{"@type": "A"},
		{"@type": "B", "bad": math.Inf(1)},
		{"@type": "C"},
	}
	out := string(Render(docs, false, nil))
	assert.Equal(t, 2, strings.Count(out, "<script"))
	assert.Contains(t, out, `"A"`)
	assert.Contains(t, out, `"C"`)
	assert.NotContains(t, out, `"B"`)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestParseAll(t *testing.T) {
	docs, err := ParseAll([]byte(` {"@type":"A"} `))
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = ParseAll([]byte(`[{"@type":"A"},{"@type":"B"}]`))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = ParseAll([]byte(`[1]`))
	assert.True(t, schemaerr.Is(err, schemaerr.ErrCodeInvalidInput))

	_, err = Parse([]byte(`null`))
	assert.True(t, schemaerr.Is(err, schemaerr.ErrCodeInvalidInput))
}
