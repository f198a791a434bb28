package models

import (
	"time"
)

// CustomSchemaSet holds the custom JSON-LD entries of one page.
// Version is bumped on every write and guards concurrent editors.
type CustomSchemaSet struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PageID  uint   `gorm:"uniqueIndex" json:"page_id"`
	Entries string `gorm:"type:text" json:"entries"` // JSON array of flat entries
	Version int64  `gorm:"not null;default:0" json:"version"`
}
