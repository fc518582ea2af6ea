package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"gorm.io/gorm"
)

type MediaFilter struct {
	Kind    entity.MediaKind
	OwnerID *uuid.UUID
}

type MediaAssetRepository struct {
	db *gorm.DB
}

func NewMediaAssetRepository(db *gorm.DB) *MediaAssetRepository {
	return &MediaAssetRepository{db: db}
}

func (r *MediaAssetRepository) Create(ctx context.Context, asset *entity.MediaAsset) error {
	return translate("create media asset", r.db.WithContext(ctx).Create(asset).Error)
}

func (r *MediaAssetRepository) FindByID(ctx context.Context, kind entity.MediaKind, id uuid.UUID) (*entity.MediaAsset, error) {
	var asset entity.MediaAsset
	err := r.db.WithContext(ctx).Where("id = ? AND kind = ?", id, kind).First(&asset).Error
	if err != nil {
		return nil, translate("find media asset", err)
	}
	return &asset, nil
}

func (r *MediaAssetRepository) FindByIDs(ctx context.Context, kind entity.MediaKind, ids []uuid.UUID) ([]entity.MediaAsset, error) {
	var assets []entity.MediaAsset
	if len(ids) == 0 {
		return assets, nil
	}
	err := r.db.WithContext(ctx).Where("kind = ? AND id IN ?", kind, ids).Find(&assets).Error
	return assets, translate("find media assets", err)
}

func (r *MediaAssetRepository) FindByOwner(ctx context.Context, kind entity.MediaKind, ownerID uuid.UUID) ([]entity.MediaAsset, error) {
	var assets []entity.MediaAsset
	err := r.db.WithContext(ctx).
		Where("kind = ? AND owner_id = ?", kind, ownerID).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&assets).Error
	return assets, translate("find media assets by owner", err)
}

// ExistsByID looks across every kind, since ids are globally unique.
func (r *MediaAssetRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.MediaAsset{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, translate("count media asset", err)
	}
	return count > 0, nil
}

func (r *MediaAssetRepository) ExistsByStorageKey(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.MediaAsset{}).Where("storage_key = ?", key).Count(&count).Error
	if err != nil {
		return false, translate("count media asset by key", err)
	}
	return count > 0, nil
}

func (r *MediaAssetRepository) NameTaken(ctx context.Context, kind entity.MediaKind, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.MediaAsset{}).Where("kind = ? AND name = ?", kind, name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translate("check media name", err)
	}
	return count > 0, nil
}

func (r *MediaAssetRepository) Rename(ctx context.Context, kind entity.MediaKind, id uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).Model(&entity.MediaAsset{}).
		Where("id = ? AND kind = ?", id, kind).
		Update("name", name)
	if result.Error != nil {
		return translate("rename media asset", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MediaAssetRepository) Delete(ctx context.Context, kind entity.MediaKind, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND kind = ?", id, kind).Delete(&entity.MediaAsset{})
	if result.Error != nil {
		return translate("delete media asset", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MediaAssetRepository) DeleteByIDs(ctx context.Context, kind entity.MediaKind, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("kind = ? AND id IN ?", kind, ids).Delete(&entity.MediaAsset{})
	return result.RowsAffected, translate("delete media assets", result.Error)
}

// List runs the count and the page query as two statements over the same predicate.
func (r *MediaAssetRepository) List(ctx context.Context, filter MediaFilter, q ListQuery) ([]entity.MediaAsset, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		db = db.Where("kind = ?", filter.Kind)
		if filter.OwnerID != nil {
			db = db.Where("owner_id = ?", *filter.OwnerID)
		}
		return db.Scopes(searchScope("name", q.Search))
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.MediaAsset{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, translate("count media assets", err)
	}

	var assets []entity.MediaAsset
	if err := r.db.WithContext(ctx).Scopes(where, pageScope(q)).Find(&assets).Error; err != nil {
		return nil, 0, translate("list media assets", err)
	}
	return assets, total, nil
}

func (r *MediaAssetRepository) Reorder(ctx context.Context, kind entity.MediaKind, ids []uuid.UUID) error {
	return translate("reorder media assets", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			err := tx.Model(&entity.MediaAsset{}).Where("id = ? AND kind = ?", id, kind).Update("sort_order", i).Error
			if err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *MediaAssetRepository) CountByKind(ctx context.Context) (map[entity.MediaKind]int64, error) {
	var rows []struct {
		Kind  entity.MediaKind
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&entity.MediaAsset{}).
		Select("kind, COUNT(*) AS total").Group("kind").Scan(&rows).Error
	if err != nil {
		return nil, translate("count media assets by kind", err)
	}
	counts := make(map[entity.MediaKind]int64, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Total
	}
	return counts, nil
}
