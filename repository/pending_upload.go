package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"gorm.io/gorm"
)

type PendingUploadRepository struct {
	db *gorm.DB
}

func NewPendingUploadRepository(db *gorm.DB) *PendingUploadRepository {
	return &PendingUploadRepository{db: db}
}

func (r *PendingUploadRepository) Create(ctx context.Context, pending *entity.PendingUpload) error {
	return translate("create pending upload", r.db.WithContext(ctx).Create(pending).Error)
}

func (r *PendingUploadRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PendingUpload, error) {
	var pending entity.PendingUpload
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pending).Error; err != nil {
		return nil, translate("find pending upload", err)
	}
	return &pending, nil
}

func (r *PendingUploadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate("delete pending upload", r.db.WithContext(ctx).Delete(&entity.PendingUpload{}, "id = ?", id).Error)
}

// FindExpired returns the oldest entries whose ExpiresAt is before now.
func (r *PendingUploadRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]entity.PendingUpload, error) {
	var pending []entity.PendingUpload
	query := r.db.WithContext(ctx).Where("expires_at < ?", now).Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&pending).Error
	return pending, translate("find expired pending uploads", err)
}

func (r *PendingUploadRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PendingUpload{}).Count(&count).Error
	return count, translate("count pending uploads", err)
}
