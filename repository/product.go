package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"gorm.io/gorm"
)

type ProductFilter struct {
	OnlyPublished bool
	Category      string
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return translate("create product", r.db.WithContext(ctx).Create(product).Error)
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translate("find product", err)
	}
	return &product, nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	var product entity.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, translate("find product by slug", err)
	}
	return &product, nil
}

func (r *ProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, translate("count product", err)
}

func (r *ProductRepository) SlugTaken(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Product{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, translate("check product slug", err)
}

func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, patch entity.ProductPatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return translate("update product", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id)
	if result.Error != nil {
		return translate("delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter, q ListQuery) ([]entity.Product, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		if filter.OnlyPublished {
			db = db.Where("is_published = ?", true)
		}
		if filter.Category != "" {
			db = db.Where("category = ?", filter.Category)
		}
		return db.Scopes(searchScope("name", q.Search))
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Product{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, translate("count products", err)
	}

	var products []entity.Product
	if err := r.db.WithContext(ctx).Scopes(where, pageScope(q)).Find(&products).Error; err != nil {
		return nil, 0, translate("list products", err)
	}
	return products, total, nil
}

func (r *ProductRepository) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return translate("reorder products", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&entity.Product{}).Where("id = ?", id).Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *ProductRepository) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id IN ?", ids).Count(&count).Error
	return count, translate("count products by id", err)
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).Count(&count).Error
	return count, translate("count products", err)
}
