// Package customschema stores the per-page custom JSON-LD entries an editor
// adds in the sidebar, together with their control fields.
package customschema

import (
	"strings"

	"github.com/goccy/go-json"

	"schemagraph/internal/schema"
)

// Source tells where an entry shown in the editor came from.
type Source string

const (
	SourceGlobal Source = "global"
	SourcePost   Source = "post"
	SourceAuto   Source = "auto"
	SourceCustom Source = "custom"
)

// Control field keys stored alongside the document keys.
const (
	fieldID      = "_id"
	fieldEnabled = "_enabled"
	fieldSource  = "_source"
)

// Entry is one stored custom document.
type Entry struct {
	ID       string
	Enabled  bool
	Source   Source
	Document schema.Document
}

// MarshalJSON writes the entry as one flat object: the document keys plus
// _id, _enabled and _source.
func (e Entry) MarshalJSON() ([]byte, error) {
	flat := map[string]any(schema.Strip(e.Document))
	if flat == nil {
		flat = make(map[string]any, 3)
	}
	if e.ID != "" {
		flat[fieldID] = e.ID
	}
	flat[fieldEnabled] = e.Enabled
	flat[fieldSource] = string(e.Source)
	return json.Marshal(flat)
}

// UnmarshalJSON reads the flat form. A missing _enabled means enabled.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(b, &flat); err != nil {
		return err
	}
	*e = FromDocument(flat)
	return nil
}

// FromDocument splits a flat document with control fields into an Entry.
func FromDocument(flat map[string]any) Entry {
	e := Entry{Enabled: true, Source: SourceCustom}
	if id, ok := flat[fieldID].(string); ok {
		e.ID = id
	}
	if v, ok := flat[fieldEnabled]; ok {
		e.Enabled = enabledValue(v)
	}
	if src, ok := flat[fieldSource].(string); ok && src != "" {
		e.Source = Source(src)
	}
	e.Document = schema.Strip(flat)
	return e
}

func enabledValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "0", "false", "off", "no":
			return false
		}
		return true
	case nil:
		return true
	}
	return true
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	e.Document = e.Document.Clone()
	return e
}

func cloneEntries(in []Entry) []Entry {
	if in == nil {
		return nil
	}
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
