package entity

import (
	"time"

	"github.com/google/uuid"
)

// PendingUpload is the ledger entry written at presign time. It is removed when the upload is
// confirmed, or by the reconciliation sweep once ExpiresAt has passed.
type PendingUpload struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Kind             MediaKind  `json:"kind" gorm:"type:varchar(32);not null"`
	StorageKey       string     `json:"storage_key" gorm:"type:varchar(512);not null;uniqueIndex"`
	ExpectedName     *string    `json:"expected_name,omitempty" gorm:"type:varchar(255)"`
	ExpectedMimeType string     `json:"expected_mime_type" gorm:"type:varchar(127);not null"`
	ExpectedSize     *int64     `json:"expected_size,omitempty"`
	OwnerID          *uuid.UUID `json:"owner_id,omitempty" gorm:"type:uuid"`
	CreatedBy        uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt        time.Time  `json:"created_at" gorm:"not null;autoCreateTime"`
	ExpiresAt        time.Time  `json:"expires_at" gorm:"not null;index"`
}

func (p *PendingUpload) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
