package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	AdminRoleOwner  = "owner"
	AdminRoleEditor = "editor"
)

type AdminUser struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"type:varchar(255);not null"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"`
	Role         string     `json:"role" gorm:"type:varchar(32);not null;default:'editor'"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}
