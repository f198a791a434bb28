// Package settings is the typed accessor for the site-wide option groups.
package settings

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"schemagraph/internal/menu"
	"schemagraph/internal/schema"
	"schemagraph/internal/schemaerr"
)

// Option groups.
const (
	GroupGeneral       = "general"
	GroupArticle       = "article"
	GroupAboutPage     = "about_page"
	GroupContactPage   = "contact_page"
	GroupLocalBusiness = "local_business"
	GroupPerson        = "person"
	GroupAuthor        = "author"
	GroupPublisher     = "publisher"
	GroupProduct       = "product"
	GroupFAQ           = "faq"
)

// Store persists one option map per group.
type Store interface {
	// Load returns the stored values of group; ok is false when nothing is stored.
	Load(ctx context.Context, group string) (values map[string]any, ok bool, err error)
	Save(ctx context.Context, group string, values map[string]any) error
}

// ChangeHook runs after a group was saved.
type ChangeHook func(ctx context.Context, group string)

// Accessor reads and writes option groups, merging stored values over defaults.
type Accessor struct {
	store    Store
	siteName string
	logger   *log.Logger

	mu    sync.RWMutex
	hooks []ChangeHook
}

// New creates an Accessor. siteName seeds the default organization name.
func New(store Store, siteName string, logger *log.Logger) *Accessor {
	if logger == nil {
		logger = log.Default()
	}
	return &Accessor{store: store, siteName: siteName, logger: logger}
}

// Groups lists every known group name in alphabetical order.
func Groups() []string {
	return slices.Sorted(maps.Keys(defaults("")))
}

// OnChange registers h to run after every successful Set.
func (a *Accessor) OnChange(h ChangeHook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, h)
}

// Get returns the values of group with defaults filled in.
func (a *Accessor) Get(ctx context.Context, group string) (map[string]any, error) {
	def, ok := defaults(a.siteName)[group]
	if !ok {
		return nil, schemaerr.New(schemaerr.ErrCodeConfigurationMissing, "unknown settings group %q", group)
	}
	stored, found, err := a.store.Load(ctx, group)
	if err != nil {
		return nil, schemaerr.Wrap(schemaerr.ErrCodeInternal, err, "load settings group %q", group)
	}
	if !found {
		a.logger.Debug("settings group not stored, using defaults", "group", group)
	}
	out := maps.Clone(def)
	maps.Copy(out, stored)
	return out, nil
}

// Set sanitizes values and replaces the stored values of group.
func (a *Accessor) Set(ctx context.Context, group string, values map[string]any) error {
	if _, ok := defaults(a.siteName)[group]; !ok {
		return schemaerr.New(schemaerr.ErrCodeInvalidInput, "unknown settings group %q", group)
	}
	clean := make(map[string]any, len(values))
	for k, v := range values {
		key := schema.Text(k)
		clean[key] = sanitizeField(key, v)
	}
	if err := a.store.Save(ctx, group, clean); err != nil {
		return schemaerr.Wrap(schemaerr.ErrCodeInternal, err, "save settings group %q", group)
	}

	a.mu.RLock()
	hooks := slices.Clone(a.hooks)
	a.mu.RUnlock()
	for _, h := range hooks {
		h(ctx, group)
	}
	return nil
}

// Update merges values into the stored values of group and saves the result.
func (a *Accessor) Update(ctx context.Context, group string, values map[string]any) error {
	if _, ok := defaults(a.siteName)[group]; !ok {
		return schemaerr.New(schemaerr.ErrCodeInvalidInput, "unknown settings group %q", group)
	}
	stored, _, err := a.store.Load(ctx, group)
	if err != nil {
		return schemaerr.Wrap(schemaerr.ErrCodeInternal, err, "load settings group %q", group)
	}
	merged := maps.Clone(stored)
	if merged == nil {
		merged = make(map[string]any, len(values))
	}
	maps.Copy(merged, values)
	return a.Set(ctx, group, merged)
}

// SetEnabled switches structured data output on or off site-wide.
func (a *Accessor) SetEnabled(ctx context.Context, enabled bool) error {
	return a.Update(ctx, GroupGeneral, map[string]any{"enabled": enabled})
}

// MenuOverride returns the location pinned for role in the general group.
func (a *Accessor) MenuOverride(ctx context.Context, role menu.Role) (string, error) {
	g, err := a.General(ctx)
	if err != nil {
		return "", err
	}
	if role == menu.RoleFooter {
		return g.FooterMenuLocation, nil
	}
	return g.HeaderMenuLocation, nil
}

// General returns the typed general group.
func (a *Accessor) General(ctx context.Context) (GlobalSettings, error) {
	var s GlobalSettings
	return s, a.decode(ctx, GroupGeneral, &s)
}

// Article returns the typed article group.
func (a *Accessor) Article(ctx context.Context) (ArticleSettings, error) {
	var s ArticleSettings
	return s, a.decode(ctx, GroupArticle, &s)
}

// LocalBusiness returns the typed local business group.
func (a *Accessor) LocalBusiness(ctx context.Context) (LocalBusinessSettings, error) {
	var s LocalBusinessSettings
	return s, a.decode(ctx, GroupLocalBusiness, &s)
}

// Enabled reads the "enabled" flag of any group.
func (a *Accessor) Enabled(ctx context.Context, group string) (bool, error) {
	var s struct {
		Enabled Flag `json:"enabled"`
	}
	if err := a.decode(ctx, group, &s); err != nil {
		return false, err
	}
	return bool(s.Enabled), nil
}

func (a *Accessor) decode(ctx context.Context, group string, dst any) error {
	values, err := a.Get(ctx, group)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return schemaerr.Wrap(schemaerr.ErrCodeInternal, err, "encode settings group %q", group)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return schemaerr.Wrap(schemaerr.ErrCodeInvalidInput, err, "decode settings group %q", group)
	}
	return nil
}

// multiline keys hold one entry per line.
var multiline = map[string]bool{
	"org_social":    true,
	"address":       true,
	"opening_hours": true,
}

func sanitizeField(key string, v any) any {
	s, ok := v.(string)
	switch {
	case !ok:
		return sanitize(v)
	case multiline[key]:
		return schema.Textarea(s)
	case key == "breadcrumb_separator":
		return padded(s)
	default:
		return schema.Text(s)
	}
}

// padded cleans s like schema.Text but keeps the spacing around it.
func padded(s string) string {
	core := schema.Text(s)
	if core == "" {
		if s != "" && strings.TrimSpace(s) == "" {
			return " "
		}
		return core
	}
	if strings.TrimLeft(s, " \t") != s {
		core = " " + core
	}
	if strings.TrimRight(s, " \t") != s {
		core += " "
	}
	return core
}

func sanitize(v any) any {
	switch t := v.(type) {
	case string:
		return schema.Text(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sanitize(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = schema.Text(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			key := schema.Text(k)
			out[key] = sanitizeField(key, e)
		}
		return out
	default:
		return v
	}
}
