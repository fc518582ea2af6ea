package entity

import (
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;index"`
	Company   string    `json:"company" gorm:"type:varchar(255)"`
	Phone     string    `json:"phone" gorm:"type:varchar(64)"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	RemoteIP  string    `json:"remote_ip" gorm:"type:varchar(64)"`
	Handled   bool      `json:"handled" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime;index"`
}
