package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schemagraph/internal/models"
)

// SettingsStore persists option groups in the settings table.
type SettingsStore struct {
	db *gorm.DB
}

// NewSettingsStore creates a settings.Store backed by db.
func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Load(ctx context.Context, group string) (map[string]any, bool, error) {
	var row models.Setting
	err := s.db.WithContext(ctx).Where("group_name = ?", group).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row.Values, true, nil
}

func (s *SettingsStore) Save(ctx context.Context, group string, values map[string]any) error {
	row := models.Setting{GroupName: group, Values: values}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_values", "updated_at"}),
	}).Create(&row).Error
}
