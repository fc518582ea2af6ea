package repository

import (
	"fmt"

	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/infra"
	"gorm.io/gorm"
)

type Repository struct {
	MediaAssetRepo     *MediaAssetRepository
	PendingUploadRepo  *PendingUploadRepository
	ProductRepo        *ProductRepository
	NewsRepo           *NewsRepository
	TeamMemberRepo     *TeamMemberRepository
	PageMetadataRepo   *PageMetadataRepository
	ContactMessageRepo *ContactMessageRepository
	AdminUserRepo      *AdminUserRepository

	db *gorm.DB
}

func InitRepository(infra *infra.Infra) *Repository {
	return NewRepository(infra.Postgres.DB)
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		MediaAssetRepo:     NewMediaAssetRepository(db),
		PendingUploadRepo:  NewPendingUploadRepository(db),
		ProductRepo:        NewProductRepository(db),
		NewsRepo:           NewNewsRepository(db),
		TeamMemberRepo:     NewTeamMemberRepository(db),
		PageMetadataRepo:   NewPageMetadataRepository(db),
		ContactMessageRepo: NewContactMessageRepository(db),
		AdminUserRepo:      NewAdminUserRepository(db),
		db:                 db,
	}
}

func (r *Repository) Migrate() error {
	err := r.db.AutoMigrate(
		&entity.AdminUser{},
		&entity.Product{},
		&entity.NewsArticle{},
		&entity.TeamMember{},
		&entity.PageMetadata{},
		&entity.MediaAsset{},
		&entity.PendingUpload{},
		&entity.ContactMessage{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
