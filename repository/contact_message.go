package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"gorm.io/gorm"
)

type ContactMessageRepository struct {
	db *gorm.DB
}

func NewContactMessageRepository(db *gorm.DB) *ContactMessageRepository {
	return &ContactMessageRepository{db: db}
}

func (r *ContactMessageRepository) Create(ctx context.Context, msg *entity.ContactMessage) error {
	return translate("create contact message", r.db.WithContext(ctx).Create(msg).Error)
}

func (r *ContactMessageRepository) MarkHandled(ctx context.Context, id uuid.UUID, handled bool) error {
	result := r.db.WithContext(ctx).Model(&entity.ContactMessage{}).Where("id = ?", id).Update("handled", handled)
	if result.Error != nil {
		return translate("mark contact message", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContactMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.ContactMessage{}, "id = ?", id)
	if result.Error != nil {
		return translate("delete contact message", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContactMessageRepository) List(ctx context.Context, onlyUnhandled bool, q ListQuery) ([]entity.ContactMessage, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		if onlyUnhandled {
			db = db.Where("handled = ?", false)
		}
		if q.Search != "" {
			pattern := "%" + escapeLike(q.Search) + "%"
			db = db.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.ContactMessage{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, translate("count contact messages", err)
	}

	var messages []entity.ContactMessage
	if err := r.db.WithContext(ctx).Scopes(where, pageScope(q)).Find(&messages).Error; err != nil {
		return nil, 0, translate("list contact messages", err)
	}
	return messages, total, nil
}

func (r *ContactMessageRepository) CountUnhandled(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ContactMessage{}).Where("handled = ?", false).Count(&count).Error
	return count, translate("count unhandled contact messages", err)
}
