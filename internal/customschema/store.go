package customschema

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"schemagraph/internal/schema"
	"schemagraph/internal/schemaerr"
)

// maxAttempts bounds the read-modify-write retries on a version conflict.
const maxAttempts = 3

// Patch carries the editable fields of an existing entry. Nil fields are
// left untouched.
type Patch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	URL         *string `json:"url,omitempty"`
	Address     *string `json:"address,omitempty"`
	Telephone   *string `json:"telephone,omitempty"`
	Email       *string `json:"email,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	Price       *string `json:"price,omitempty"`
	Currency    *string `json:"currency,omitempty"`
}

// Store implements the editor operations on top of a Storage.
type Store struct {
	storage  Storage
	registry *schema.Registry
	logger   *log.Logger
}

// NewStore creates a Store. A nil registry uses the built-in builders.
func NewStore(storage Storage, registry *schema.Registry, logger *log.Logger) *Store {
	if registry == nil {
		registry = schema.NewRegistry()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{storage: storage, registry: registry, logger: logger}
}

// List returns the entries of pageID in stored order.
func (s *Store) List(ctx context.Context, pageID uint) ([]Entry, error) {
	entries, _, err := s.storage.Load(ctx, pageID)
	return entries, err
}

// Export returns the entries of pageID for download.
func (s *Store) Export(ctx context.Context, pageID uint) ([]Entry, error) {
	return s.List(ctx, pageID)
}

// Add appends e and returns its index. An entry without an id gets one.
func (s *Store) Add(ctx context.Context, pageID uint, e Entry) (int, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Source == "" {
		e.Source = SourceCustom
	}
	var index int
	err := s.mutate(ctx, pageID, func(entries []Entry) ([]Entry, error) {
		index = len(entries)
		return append(entries, e.Clone()), nil
	})
	return index, err
}

// AddFromTemplate builds an unvalidated document of typ and appends it as an
// enabled custom entry.
func (s *Store) AddFromTemplate(ctx context.Context, pageID uint, typ string, in schema.Input, bc schema.BuildContext) (Entry, int, error) {
	doc, err := s.registry.Template(typ, in, bc)
	if err != nil {
		return Entry{}, 0, err
	}
	e := Entry{ID: uuid.NewString(), Enabled: true, Source: SourceCustom, Document: doc}
	index, err := s.Add(ctx, pageID, e)
	return e, index, err
}

// Update applies p to the entry at index and returns the result.
func (s *Store) Update(ctx context.Context, pageID uint, index int, p Patch) (Entry, error) {
	var updated Entry
	err := s.mutate(ctx, pageID, func(entries []Entry) ([]Entry, error) {
		if err := checkIndex(entries, index); err != nil {
			return nil, err
		}
		applyPatch(entries[index].Document, p)
		updated = entries[index].Clone()
		return entries, nil
	})
	return updated, err
}

// Toggle flips the enabled flag of the entry at index and returns the new state.
func (s *Store) Toggle(ctx context.Context, pageID uint, index int) (bool, error) {
	var enabled bool
	err := s.mutate(ctx, pageID, func(entries []Entry) ([]Entry, error) {
		if err := checkIndex(entries, index); err != nil {
			return nil, err
		}
		entries[index].Enabled = !entries[index].Enabled
		enabled = entries[index].Enabled
		return entries, nil
	})
	return enabled, err
}

// Remove deletes the entry at index; later entries shift down by one.
func (s *Store) Remove(ctx context.Context, pageID uint, index int) error {
	return s.mutate(ctx, pageID, func(entries []Entry) ([]Entry, error) {
		if err := checkIndex(entries, index); err != nil {
			return nil, err
		}
		return slices.Delete(entries, index, index+1), nil
	})
}

// SetAllEnabled sets the enabled flag of every entry and returns how many changed.
func (s *Store) SetAllEnabled(ctx context.Context, pageID uint, enabled bool) (int, error) {
	var changed int
	err := s.mutate(ctx, pageID, func(entries []Entry) ([]Entry, error) {
		changed = 0
		for i := range entries {
			if entries[i].Enabled != enabled {
				entries[i].Enabled = enabled
				changed++
			}
		}
		return entries, nil
	})
	return changed, err
}

// Duplicate inserts a copy of the entry at index right after it and returns
// the index of the copy.
func (s *Store) Duplicate(ctx context.Context, pageID uint, index int) (int, error) {
	err := s.mutate(ctx, pageID, func(entries []Entry) ([]Entry, error) {
		if err := checkIndex(entries, index); err != nil {
			return nil, err
		}
		dup := entries[index].Clone()
		dup.ID = uuid.NewString()
		dup.Source = SourceCustom
		return slices.Insert(entries, index+1, dup), nil
	})
	if err != nil {
		return 0, err
	}
	return index + 1, nil
}

// Reset removes every entry of pageID and returns how many were removed.
func (s *Store) Reset(ctx context.Context, pageID uint) (int, error) {
	var removed int
	err := s.mutate(ctx, pageID, func(entries []Entry) ([]Entry, error) {
		removed = len(entries)
		return []Entry{}, nil
	})
	return removed, err
}

// Import appends docs as custom entries. Every document must carry the
// schema.org @context and a @type; otherwise nothing is stored. A stored
// _enabled flag is kept, ids and sources are reassigned.
func (s *Store) Import(ctx context.Context, pageID uint, docs []schema.Document) (int, error) {
	imported := make([]Entry, 0, len(docs))
	for i, doc := range docs {
		if c, _ := doc["@context"].(string); c != schema.Context {
			return 0, schemaerr.New(schemaerr.ErrCodeInvalidInput, "document %d: @context must be %s", i, schema.Context)
		}
		if doc.Type() == "" {
			return 0, schemaerr.New(schemaerr.ErrCodeInvalidInput, "document %d: @type is required", i)
		}
		e := FromDocument(doc.Clone())
		e.ID = uuid.NewString()
		e.Source = SourceCustom
		imported = append(imported, e)
	}
	if len(imported) == 0 {
		return 0, nil
	}
	err := s.mutate(ctx, pageID, func(entries []Entry) ([]Entry, error) {
		return append(entries, cloneEntries(imported)...), nil
	})
	if err != nil {
		return 0, err
	}
	return len(imported), nil
}

// mutate runs fn against a fresh read and saves the result, retrying when a
// concurrent writer won the race. Errors from fn abort without saving.
func (s *Store) mutate(ctx context.Context, pageID uint, fn func([]Entry) ([]Entry, error)) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var (
			entries []Entry
			version int64
		)
		entries, version, err = s.storage.Load(ctx, pageID)
		if err != nil {
			return err
		}
		var next []Entry
		if next, err = fn(entries); err != nil {
			return err
		}
		err = s.storage.Save(ctx, pageID, next, version)
		if !schemaerr.Is(err, schemaerr.ErrCodeStorageConflict) {
			return err
		}
		s.logger.Debug("custom schema write conflict", "page", pageID, "attempt", attempt)
	}
	s.logger.Warn("custom schema write gave up after conflicts", "page", pageID, "attempts", maxAttempts)
	return err
}

func checkIndex(entries []Entry, index int) error {
	if index < 0 || index >= len(entries) {
		return schemaerr.New(schemaerr.ErrCodeNotFound, "schema %d not found", index)
	}
	return nil
}

func applyPatch(doc schema.Document, p Patch) {
	setText := func(key string, v *string, clean func(string) string) {
		if v != nil {
			doc[key] = clean(*v)
		}
	}
	setText("name", p.Name, schema.Text)
	setText("description", p.Description, schema.Textarea)
	setText("url", p.URL, schema.URL)

	switch doc.Type() {
	case "LocalBusiness", "Service":
		setText("address", p.Address, schema.Textarea)
		setText("telephone", p.Telephone, schema.Text)
		setText("email", p.Email, schema.Email)
	case "Product":
		setText("brand", p.Brand, schema.Text)
		if p.Price == nil && p.Currency == nil {
			return
		}
		offers, _ := doc["offers"].(map[string]any)
		if offers == nil {
			offers = map[string]any{"@type": "Offer"}
		}
		if p.Price != nil {
			offers["price"] = schema.Text(*p.Price)
		}
		if p.Currency != nil {
			offers["priceCurrency"] = schema.Text(*p.Currency)
		}
		doc["offers"] = offers
	}
}
