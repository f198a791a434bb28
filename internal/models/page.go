package models

import (
	"time"

	"gorm.io/gorm"
)

// Page is a piece of site content that can be rendered
type Page struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Slug          string     `gorm:"type:varchar(255);uniqueIndex" json:"slug"`
	PostType      string     `gorm:"type:varchar(20);default:'page'" json:"post_type"`
	Title         string     `gorm:"type:varchar(255)" json:"title"`
	Excerpt       string     `gorm:"type:text" json:"excerpt"`
	Content       string     `gorm:"type:text" json:"content"`
	AuthorName    string     `gorm:"type:varchar(255)" json:"author_name"`
	FeaturedImage string     `gorm:"type:text" json:"featured_image"`
	ParentID      *uint      `gorm:"index" json:"parent_id"`
	IsFront       bool       `gorm:"default:false" json:"is_front"`
	PublishedAt   *time.Time `json:"published_at"`

	// Editor overrides
	SchemaType        string `gorm:"type:varchar(50)" json:"schema_type"`
	SchemaDescription string `gorm:"type:text" json:"schema_description"`

	// Relationships
	Terms []Term `gorm:"many2many:page_terms;" json:"terms,omitempty"`
}

// TermTaxonomy represents the kind of grouping a term belongs to
type TermTaxonomy string

const (
	TaxonomyCategory TermTaxonomy = "category"
	TaxonomyTag      TermTaxonomy = "tag"
)

// Term is a category or tag pages are filed under
type Term struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Taxonomy TermTaxonomy `gorm:"type:varchar(20);uniqueIndex:idx_terms_taxonomy_slug,priority:1" json:"taxonomy"`
	Slug     string       `gorm:"type:varchar(255);uniqueIndex:idx_terms_taxonomy_slug,priority:2" json:"slug"`
	Name     string       `gorm:"type:varchar(255)" json:"name"`
}
