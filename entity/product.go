package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string         `json:"name" gorm:"type:varchar(255);not null"`
	Slug           string         `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	Category       string         `json:"category" gorm:"type:varchar(128);index"`
	Summary        string         `json:"summary" gorm:"type:varchar(1024)"`
	Description    string         `json:"description" gorm:"type:text"`
	Specifications datatypes.JSON `json:"specifications" gorm:"type:jsonb"`
	IsPublished    bool           `json:"is_published" gorm:"not null;default:false;index"`
	SortOrder      int            `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt      time.Time      `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// ProductPatch carries the fields an update may change. Nil fields are left untouched.
type ProductPatch struct {
	Name           *string
	Slug           *string
	Category       *string
	Summary        *string
	Description    *string
	Specifications *datatypes.JSON
	IsPublished    *bool
}

func (p ProductPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Slug != nil {
		cols["slug"] = *p.Slug
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Summary != nil {
		cols["summary"] = *p.Summary
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Specifications != nil {
		cols["specifications"] = *p.Specifications
	}
	if p.IsPublished != nil {
		cols["is_published"] = *p.IsPublished
	}
	return cols
}
