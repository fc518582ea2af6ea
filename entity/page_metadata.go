package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PageMetadata holds SEO fields for one public route, e.g. "/" or "/products".
type PageMetadata struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Path        string                      `json:"path" gorm:"type:varchar(512);not null;uniqueIndex"`
	Title       string                      `json:"title" gorm:"type:varchar(255);not null"`
	Description string                      `json:"description" gorm:"type:varchar(1024)"`
	Keywords    datatypes.JSONSlice[string] `json:"keywords" gorm:"type:jsonb"`
	CreatedAt   time.Time                   `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time                   `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PageMetadata) TableName() string {
	return "page_metadata"
}

type PagePatch struct {
	Path        *string
	Title       *string
	Description *string
	Keywords    *[]string
}

func (p PagePatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Path != nil {
		cols["path"] = *p.Path
	}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Keywords != nil {
		cols["keywords"] = datatypes.JSONSlice[string](*p.Keywords)
	}
	return cols
}
