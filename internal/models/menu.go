package models

import (
	"time"
)

// MenuLocation is a navigation slot registered by the site theme
type MenuLocation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Slug        string `gorm:"type:varchar(100);uniqueIndex" json:"slug"`
	Description string `gorm:"type:varchar(255)" json:"description"`
	Position    int    `json:"position"`

	Items []MenuItem `gorm:"foreignKey:LocationID" json:"items,omitempty"`
}

// MenuItem is one link of the menu assigned to a location
type MenuItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LocationID uint   `gorm:"index" json:"location_id"`
	Name       string `gorm:"type:varchar(255)" json:"name"`
	URL        string `gorm:"type:text" json:"url"`
	ParentID   uint   `gorm:"default:0" json:"parent_id"`
	Position   int    `json:"position"`
}
