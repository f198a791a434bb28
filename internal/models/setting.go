package models

import (
	"time"
)

// Setting stores one option group as a JSON object
type Setting struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	GroupName string         `gorm:"type:varchar(64);uniqueIndex" json:"group"`
	Values    map[string]any `gorm:"column:option_values;serializer:json" json:"values"`
}
