package services

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schemagraph/internal/customschema"
	"schemagraph/internal/models"
	"schemagraph/internal/schemaerr"
)

// SchemaStorage persists custom schema entries per page with an optimistic
// version column.
type SchemaStorage struct {
	db *gorm.DB
}

// NewSchemaStorage creates a customschema.Storage backed by db.
func NewSchemaStorage(db *gorm.DB) *SchemaStorage {
	return &SchemaStorage{db: db}
}

func (s *SchemaStorage) Load(ctx context.Context, pageID uint) ([]customschema.Entry, int64, error) {
	var set models.CustomSchemaSet
	err := s.db.WithContext(ctx).Where("page_id = ?", pageID).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	if set.Entries == "" {
		return nil, set.Version, nil
	}
	var entries []customschema.Entry
	if err := json.Unmarshal([]byte(set.Entries), &entries); err != nil {
		return nil, 0, schemaerr.Wrap(schemaerr.ErrCodeInternal, err, "decode custom schemas of page %d", pageID)
	}
	return entries, set.Version, nil
}

func (s *SchemaStorage) Save(ctx context.Context, pageID uint, entries []customschema.Entry, expected int64) error {
	if entries == nil {
		entries = []customschema.Entry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return schemaerr.Wrap(schemaerr.ErrCodeInternal, err, "encode custom schemas of page %d", pageID)
	}

	db := s.db.WithContext(ctx)
	var result *gorm.DB
	if expected == 0 {
		set := models.CustomSchemaSet{PageID: pageID, Entries: string(payload), Version: 1}
		result = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&set)
	} else {
		result = db.Model(&models.CustomSchemaSet{}).
			Where("page_id = ? AND version = ?", pageID, expected).
			Updates(map[string]any{"entries": string(payload), "version": expected + 1})
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return schemaerr.New(schemaerr.ErrCodeStorageConflict,
			"custom schemas of page %d changed since version %d", pageID, expected)
	}
	return nil
}
