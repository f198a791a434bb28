package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"schemagraph/internal/models"
	"schemagraph/internal/page"
	"schemagraph/internal/schemaerr"
)

// ContentStore serves page contexts from the pages and terms tables.
type ContentStore struct {
	db      *gorm.DB
	siteURL string
}

// NewContentStore creates a page.Provider backed by db. Permalinks are built
// under siteURL.
func NewContentStore(db *gorm.DB, siteURL string) *ContentStore {
	return &ContentStore{db: db, siteURL: strings.TrimRight(siteURL, "/")}
}

// Permalink returns the public URL of the page with slug.
func (s *ContentStore) Permalink(slug string) string {
	return s.siteURL + "/p/" + slug + "/"
}

// TermURL returns the public URL of a term archive.
func (s *ContentStore) TermURL(taxonomy models.TermTaxonomy, slug string) string {
	return s.siteURL + "/t/" + string(taxonomy) + "/" + slug + "/"
}

func (s *ContentStore) Ref(ctx context.Context, id uint) (page.Ref, error) {
	var p models.Page
	if err := s.db.WithContext(ctx).Select("id", "slug", "title", "parent_id").First(&p, id).Error; err != nil {
		return page.Ref{}, notFound(err, "page %d", id)
	}
	return page.Ref{ID: p.ID, ParentID: parentID(p), Title: p.Title, URL: s.Permalink(p.Slug)}, nil
}

func (s *ContentStore) Context(ctx context.Context, id uint) (page.Context, error) {
	var p models.Page
	if err := s.withTerms(ctx).First(&p, id).Error; err != nil {
		return page.Context{}, notFound(err, "page %d", id)
	}
	return s.toContext(p), nil
}

func (s *ContentStore) ContextBySlug(ctx context.Context, slug string) (page.Context, error) {
	var p models.Page
	if err := s.withTerms(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return page.Context{}, notFound(err, "page %q", slug)
	}
	return s.toContext(p), nil
}

func (s *ContentStore) FrontPage(ctx context.Context) (page.Context, error) {
	var p models.Page
	err := s.withTerms(ctx).Where("is_front = ?", true).Order("id").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return page.Context{Kind: page.KindFront, IsFrontPage: true, Permalink: s.siteURL + "/"}, nil
	}
	if err != nil {
		return page.Context{}, err
	}
	return s.toContext(p), nil
}

func (s *ContentStore) TermArchive(ctx context.Context, taxonomy, slug string) (page.Context, error) {
	var t models.Term
	if err := s.db.WithContext(ctx).Where("taxonomy = ? AND slug = ?", taxonomy, slug).First(&t).Error; err != nil {
		return page.Context{}, notFound(err, "term %s/%s", taxonomy, slug)
	}
	term := s.toTerm(t)
	return page.Context{Kind: page.KindTermArchive, Title: term.Name, Permalink: term.URL, QueriedTerm: &term}, nil
}

func (s *ContentStore) SaveMeta(ctx context.Context, id uint, meta page.Meta) error {
	result := s.db.WithContext(ctx).Model(&models.Page{}).Where("id = ?", id).Updates(map[string]any{
		"schema_type":        meta.SchemaType,
		"schema_description": meta.Description,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return schemaerr.New(schemaerr.ErrCodeNotFound, "page %d not found", id)
	}
	return nil
}

func (s *ContentStore) PageIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Page{}).Order("id").Pluck("id", &ids).Error
	return ids, err
}

func (s *ContentStore) withTerms(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Terms", func(db *gorm.DB) *gorm.DB {
		return db.Order("terms.taxonomy ASC, terms.id ASC")
	})
}

func (s *ContentStore) toContext(p models.Page) page.Context {
	kind := page.KindPage
	switch {
	case p.IsFront:
		kind = page.KindFront
	case p.PostType == "post":
		kind = page.KindSingle
	}

	var published time.Time
	if p.PublishedAt != nil {
		published = *p.PublishedAt
	}
	terms := make([]page.Term, 0, len(p.Terms))
	for _, t := range p.Terms {
		terms = append(terms, s.toTerm(t))
	}

	return page.Context{
		ID:            p.ID,
		PostType:      p.PostType,
		Kind:          kind,
		IsFrontPage:   p.IsFront,
		Title:         p.Title,
		Permalink:     s.Permalink(p.Slug),
		Published:     published,
		Modified:      p.UpdatedAt,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		AuthorName:    p.AuthorName,
		FeaturedImage: p.FeaturedImage,
		ParentID:      parentID(p),
		Terms:         terms,
		SchemaType:    p.SchemaType,
		Description:   p.SchemaDescription,
	}
}

func (s *ContentStore) toTerm(t models.Term) page.Term {
	return page.Term{Name: t.Name, URL: s.TermURL(t.Taxonomy, t.Slug), Taxonomy: string(t.Taxonomy)}
}

func parentID(p models.Page) uint {
	if p.ParentID == nil {
		return 0
	}
	return *p.ParentID
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return schemaerr.New(schemaerr.ErrCodeNotFound, format+" not found", args...)
	}
	return err
}
