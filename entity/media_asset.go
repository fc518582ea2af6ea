package entity

import (
	"time"

	"github.com/google/uuid"
)

// MediaKind scopes media rows and their storage key prefix.
type MediaKind string

const (
	MediaKindGalleryPhoto    MediaKind = "gallery-photos"
	MediaKindProductMedia    MediaKind = "product-media"
	MediaKindPackagingOption MediaKind = "packaging-options"
	MediaKindTeamPhoto       MediaKind = "team-photos"
	MediaKindOGImage         MediaKind = "og-images"
)

// KeyFor returns the storage key of an asset of this kind, "<kind>/<id>".
func (k MediaKind) KeyFor(id uuid.UUID) string {
	return string(k) + "/" + id.String()
}

// MediaAsset is a confirmed upload. Rows only exist for objects the client reported as uploaded.
type MediaAsset struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Kind       MediaKind  `json:"kind" gorm:"type:varchar(32);not null;uniqueIndex:idx_media_assets_kind_name,priority:1"`
	Name       *string    `json:"name,omitempty" gorm:"type:varchar(255);uniqueIndex:idx_media_assets_kind_name,priority:2"`
	StorageKey string     `json:"storage_key" gorm:"type:varchar(512);not null;uniqueIndex"`
	SizeBytes  *int64     `json:"size_bytes,omitempty"`
	MimeType   *string    `json:"mime_type,omitempty" gorm:"type:varchar(127)"`
	OwnerID    *uuid.UUID `json:"owner_id,omitempty" gorm:"type:uuid;index"`
	SortOrder  int        `json:"sort_order" gorm:"not null;default:0"`
	CreatedBy  *uuid.UUID `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt  time.Time  `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}
