package entity

import (
	"time"

	"github.com/google/uuid"
)

type TeamMember struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Role      string    `json:"role" gorm:"type:varchar(255)"`
	Bio       string    `json:"bio" gorm:"type:text"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type TeamMemberPatch struct {
	Name *string
	Role *string
	Bio  *string
}

func (p TeamMemberPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Role != nil {
		cols["role"] = *p.Role
	}
	if p.Bio != nil {
		cols["bio"] = *p.Bio
	}
	return cols
}
