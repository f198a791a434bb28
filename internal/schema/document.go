package schema

import "strings"

// Context is the fixed JSON-LD context of every document.
const Context = "https://schema.org"

// Document is one JSON-LD object. Nested values are map[string]any, []any,
// strings, ints and bools so documents survive a JSON round trip unchanged.
type Document map[string]any

// New returns a document carrying @context and @type.
func New(typ string) Document {
	return Document{"@context": Context, "@type": typ}
}

// Type returns the primary @type. For multi-typed documents it is the first entry.
func (d Document) Type() string {
	switch t := d["@type"].(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			s, _ := t[0].(string)
			return s
		}
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return cloneValue(map[string]any(d)).(map[string]any)
}

// set stores v under key when v is non-empty.
func (d Document) set(key, v string) {
	if v != "" {
		d[key] = v
	}
}

// Strip returns a copy of d without control fields (keys starting with "_").
func Strip(d Document) Document {
	out := d.Clone()
	for k := range out {
		if strings.HasPrefix(k, "_") {
			delete(out, k)
		}
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return Document(cloneValue(map[string]any(t)).(map[string]any))
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = cloneValue(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = cloneValue(val)
		}
		return s
	case []string:
		s := make([]string, len(t))
		copy(s, t)
		return s
	default:
		return v
	}
}
