package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"gorm.io/gorm"
)

type PageMetadataRepository struct {
	db *gorm.DB
}

func NewPageMetadataRepository(db *gorm.DB) *PageMetadataRepository {
	return &PageMetadataRepository{db: db}
}

func (r *PageMetadataRepository) Create(ctx context.Context, page *entity.PageMetadata) error {
	return translate("create page metadata", r.db.WithContext(ctx).Create(page).Error)
}

func (r *PageMetadataRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PageMetadata, error) {
	var page entity.PageMetadata
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&page).Error; err != nil {
		return nil, translate("find page metadata", err)
	}
	return &page, nil
}

func (r *PageMetadataRepository) FindByPath(ctx context.Context, path string) (*entity.PageMetadata, error) {
	var page entity.PageMetadata
	if err := r.db.WithContext(ctx).Where("path = ?", path).First(&page).Error; err != nil {
		return nil, translate("find page metadata by path", err)
	}
	return &page, nil
}

func (r *PageMetadataRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PageMetadata{}).Where("id = ?", id).Count(&count).Error
	return count > 0, translate("count page metadata", err)
}

func (r *PageMetadataRepository) PathTaken(ctx context.Context, path string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.PageMetadata{}).Where("path = ?", path)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, translate("check page path", err)
}

func (r *PageMetadataRepository) Update(ctx context.Context, id uuid.UUID, patch entity.PagePatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.PageMetadata{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return translate("update page metadata", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PageMetadataRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.PageMetadata{}, "id = ?", id)
	if result.Error != nil {
		return translate("delete page metadata", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PageMetadataRepository) List(ctx context.Context, q ListQuery) ([]entity.PageMetadata, int64, error) {
	where := searchScope("path", q.Search)

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.PageMetadata{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, translate("count page metadata", err)
	}

	var pages []entity.PageMetadata
	if err := r.db.WithContext(ctx).Scopes(where, pageScope(q)).Find(&pages).Error; err != nil {
		return nil, 0, translate("list page metadata", err)
	}
	return pages, total, nil
}

func (r *PageMetadataRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PageMetadata{}).Count(&count).Error
	return count, translate("count page metadata", err)
}
