package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"gorm.io/gorm"
)

type TeamMemberRepository struct {
	db *gorm.DB
}

func NewTeamMemberRepository(db *gorm.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

func (r *TeamMemberRepository) Create(ctx context.Context, member *entity.TeamMember) error {
	return translate("create team member", r.db.WithContext(ctx).Create(member).Error)
}

func (r *TeamMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TeamMember, error) {
	var member entity.TeamMember
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		return nil, translate("find team member", err)
	}
	return &member, nil
}

func (r *TeamMemberRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TeamMember{}).Where("id = ?", id).Count(&count).Error
	return count > 0, translate("count team member", err)
}

func (r *TeamMemberRepository) Update(ctx context.Context, id uuid.UUID, patch entity.TeamMemberPatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.TeamMember{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return translate("update team member", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TeamMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.TeamMember{}, "id = ?", id)
	if result.Error != nil {
		return translate("delete team member", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TeamMemberRepository) List(ctx context.Context, q ListQuery) ([]entity.TeamMember, int64, error) {
	where := searchScope("name", q.Search)

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.TeamMember{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, translate("count team members", err)
	}

	var members []entity.TeamMember
	if err := r.db.WithContext(ctx).Scopes(where, pageScope(q)).Find(&members).Error; err != nil {
		return nil, 0, translate("list team members", err)
	}
	return members, total, nil
}

func (r *TeamMemberRepository) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return translate("reorder team members", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&entity.TeamMember{}).Where("id = ?", id).Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *TeamMemberRepository) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TeamMember{}).Where("id IN ?", ids).Count(&count).Error
	return count, translate("count team members by id", err)
}

func (r *TeamMemberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TeamMember{}).Count(&count).Error
	return count, translate("count team members", err)
}
