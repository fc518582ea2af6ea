package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"gorm.io/gorm"
)

type AdminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

func (r *AdminUserRepository) Create(ctx context.Context, user *entity.AdminUser) error {
	return translate("create admin user", r.db.WithContext(ctx).Create(user).Error)
}

func (r *AdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AdminUser, error) {
	var user entity.AdminUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate("find admin user", err)
	}
	return &user, nil
}

func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (*entity.AdminUser, error) {
	var user entity.AdminUser
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, translate("find admin user by email", err)
	}
	return &user, nil
}

func (r *AdminUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&entity.AdminUser{}).Where("id = ?", id).Update("last_login_at", at).Error
	return translate("touch admin last login", err)
}
