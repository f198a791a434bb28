package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"schemagraph/internal/menu"
	"schemagraph/internal/models"
)

// NavigationStore serves registered menu locations and their items.
type NavigationStore struct {
	db *gorm.DB
}

// NewNavigationStore creates a menu.Provider backed by db.
func NewNavigationStore(db *gorm.DB) *NavigationStore {
	return &NavigationStore{db: db}
}

func (s *NavigationStore) Locations(ctx context.Context) ([]menu.Location, error) {
	var rows []models.MenuLocation
	if err := s.db.WithContext(ctx).Order("position ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]menu.Location, 0, len(rows))
	for _, r := range rows {
		out = append(out, menu.Location{ID: r.Slug, Description: r.Description})
	}
	return out, nil
}

func (s *NavigationStore) Items(ctx context.Context, location string) ([]menu.Item, error) {
	var loc models.MenuLocation
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Where("slug = ?", location).
		First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]menu.Item, 0, len(loc.Items))
	for _, it := range loc.Items {
		out = append(out, menu.Item{ID: it.ID, Name: it.Name, URL: it.URL, ParentID: it.ParentID})
	}
	return out, nil
}
