package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemagraph/internal/menu"
	"schemagraph/internal/schemaerr"
)

func TestGet_DefaultsWhenNothingStored(t *testing.T) {
	a := New(NewMemoryStore(), "Example Site", nil)

	g, err := a.General(context.Background())
	require.NoError(t, err)
	assert.True(t, bool(g.Enabled))
	assert.Equal(t, "Example Site", g.OrgName)
	assert.Equal(t, "Organization", g.OrgType)
	assert.Equal(t, "Home", g.BreadcrumbHome)
	assert.Equal(t, " › ", g.BreadcrumbSeparator)
	assert.True(t, bool(g.ShowCurrent))
	assert.True(t, bool(g.HeaderSchema))
	assert.True(t, bool(g.FooterSchema))

	art, err := a.Article(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ArticleSettings{Enabled: true, ArticleType: "Article"}, art)

	lb, err := a.LocalBusiness(context.Background())
	require.NoError(t, err)
	assert.False(t, bool(lb.Enabled))

	on, err := a.Enabled(context.Background(), GroupFAQ)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestGet_UnknownGroup(t *testing.T) {
	_, err := New(NewMemoryStore(), "", nil).Get(context.Background(), "nope")
	assert.True(t, schemaerr.Is(err, schemaerr.ErrCodeConfigurationMissing))
}

func TestSet_SanitizesAndMerges(t *testing.T) {
	ctx := context.Background()
	a := New(NewMemoryStore(), "Site", nil)

	require.NoError(t, a.Set(ctx, GroupGeneral, map[string]any{
		"org_name":   "<b>Acme</b>  Corp",
		"org_social": []any{" https://x.example ", 3},
	}))

	got, err := a.Get(ctx, GroupGeneral)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got["org_name"])
	assert.Equal(t, []any{"https://x.example", 3}, got["org_social"])
	assert.Equal(t, "Home", got["breadcrumb_home"])
}

func TestSet_KeepsFieldShape(t *testing.T) {
	ctx := context.Background()
	a := New(NewMemoryStore(), "Site", nil)

	require.NoError(t, a.Set(ctx, GroupGeneral, map[string]any{
		"org_name":             "Acme\nCorp",
		"org_social":           "https://twitter.com/acme\n<i>https://github.com/acme</i>",
		"breadcrumb_separator": " <b>›</b> ",
	}))
	g, err := a.General(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", g.OrgName)
	assert.Equal(t, "https://twitter.com/acme\nhttps://github.com/acme", g.OrgSocial)
	assert.Equal(t, " › ", g.BreadcrumbSeparator)

	require.NoError(t, a.Update(ctx, GroupLocalBusiness, map[string]any{
		"address":       "1 Main St\r\nSpringfield",
		"opening_hours": "Mo-Fr 09:00-17:00\nSa 10:00-14:00",
	}))
	lb, err := a.LocalBusiness(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St\nSpringfield", lb.Address)
	assert.Equal(t, "Mo-Fr 09:00-17:00\nSa 10:00-14:00", lb.Hours)

	// saving the merged group again leaves the values untouched
	require.NoError(t, a.Update(ctx, GroupGeneral, map[string]any{"org_type": "LocalBusiness"}))
	g, err = a.General(ctx)
	require.NoError(t, err)
	assert.Equal(t, " › ", g.BreadcrumbSeparator)
	assert.Equal(t, "https://twitter.com/acme\nhttps://github.com/acme", g.OrgSocial)
}

func TestSet_UnknownGroup(t *testing.T) {
	err := New(NewMemoryStore(), "", nil).Set(context.Background(), "nope", nil)
	assert.True(t, schemaerr.Is(err, schemaerr.ErrCodeInvalidInput))
}

func TestFlag_LegacyEncodings(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		stored any
		want   bool
	}{
		{"1", true},
		{"on", true},
		{"true", true},
		{"", false},
		{"0", false},
		{float64(1), true},
		{0, false},
		{nil, false},
		{false, false},
	}

	for _, tt := range tests {
		store := NewMemoryStore()
		require.NoError(t, store.Save(ctx, GroupArticle, map[string]any{"enabled": tt.stored}))
		art, err := New(store, "", nil).Article(ctx)
		require.NoError(t, err)
		assert.Equal(t, tt.want, bool(art.Enabled), "stored %#v", tt.stored)
	}
}

func TestSetEnabled_KeepsOtherValues(t *testing.T) {
	ctx := context.Background()
	a := New(NewMemoryStore(), "", nil)
	require.NoError(t, a.Set(ctx, GroupGeneral, map[string]any{"org_name": "Acme"}))

	require.NoError(t, a.SetEnabled(ctx, false))

	g, err := a.General(ctx)
	require.NoError(t, err)
	assert.False(t, bool(g.Enabled))
	assert.Equal(t, "Acme", g.OrgName)
}

func TestOnChange_RunsAfterSave(t *testing.T) {
	ctx := context.Background()
	a := New(NewMemoryStore(), "", nil)
	var groups []string
	a.OnChange(func(_ context.Context, group string) { groups = append(groups, group) })

	require.NoError(t, a.Set(ctx, GroupArticle, map[string]any{"enabled": true}))
	require.NoError(t, a.SetEnabled(ctx, true))
	assert.Equal(t, []string{GroupArticle, GroupGeneral}, groups)
}

func TestMenuOverride(t *testing.T) {
	ctx := context.Background()
	a := New(NewMemoryStore(), "", nil)
	require.NoError(t, a.Set(ctx, GroupGeneral, map[string]any{
		"header_menu_location": "primary",
		"footer_menu_location": "legal",
	}))

	var overrides menu.Overrides = a
	header, err := overrides.MenuOverride(ctx, menu.RoleHeader)
	require.NoError(t, err)
	footer, err := overrides.MenuOverride(ctx, menu.RoleFooter)
	require.NoError(t, err)
	assert.Equal(t, "primary", header)
	assert.Equal(t, "legal", footer)
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) (map[string]any, bool, error) {
	return nil, false, errors.New("disk gone")
}

func (failingStore) Save(context.Context, string, map[string]any) error {
	return errors.New("disk gone")
}

func TestStoreErrorsAreInternal(t *testing.T) {
	a := New(failingStore{}, "", nil)
	_, err := a.Get(context.Background(), GroupGeneral)
	assert.True(t, schemaerr.Is(err, schemaerr.ErrCodeInternal))

	err = a.Set(context.Background(), GroupGeneral, map[string]any{})
	assert.True(t, schemaerr.Is(err, schemaerr.ErrCodeInternal))
}

func TestGroups(t *testing.T) {
	assert.Equal(t, []string{
		"about_page", "article", "author", "contact_page", "faq",
		"general", "local_business", "person", "product", "publisher",
	}, Groups())
}
