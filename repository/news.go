package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"gorm.io/gorm"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) Create(ctx context.Context, article *entity.NewsArticle) error {
	return translate("create news article", r.db.WithContext(ctx).Create(article).Error)
}

func (r *NewsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.NewsArticle, error) {
	var article entity.NewsArticle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&article).Error; err != nil {
		return nil, translate("find news article", err)
	}
	return &article, nil
}

func (r *NewsRepository) FindBySlug(ctx context.Context, slug string) (*entity.NewsArticle, error) {
	var article entity.NewsArticle
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&article).Error; err != nil {
		return nil, translate("find news article by slug", err)
	}
	return &article, nil
}

func (r *NewsRepository) SlugTaken(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.NewsArticle{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, translate("check news slug", err)
}

func (r *NewsRepository) Update(ctx context.Context, id uuid.UUID, patch entity.NewsPatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.NewsArticle{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return translate("update news article", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NewsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.NewsArticle{}, "id = ?", id)
	if result.Error != nil {
		return translate("delete news article", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NewsRepository) List(ctx context.Context, onlyPublished bool, q ListQuery) ([]entity.NewsArticle, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		if onlyPublished {
			db = db.Where("is_published = ?", true)
		}
		return db.Scopes(searchScope("title", q.Search))
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.NewsArticle{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, translate("count news articles", err)
	}

	var articles []entity.NewsArticle
	if err := r.db.WithContext(ctx).Scopes(where, pageScope(q)).Find(&articles).Error; err != nil {
		return nil, 0, translate("list news articles", err)
	}
	return articles, total, nil
}

func (r *NewsRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.NewsArticle{}).Count(&count).Error
	return count, translate("count news articles", err)
}
