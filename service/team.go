package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/repository"
)

type TeamMemberRepository interface {
	Create(ctx context.Context, member *entity.TeamMember) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TeamMember, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, patch entity.TeamMemberPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q repository.ListQuery) ([]entity.TeamMember, int64, error)
	Reorder(ctx context.Context, ids []uuid.UUID) error
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type TeamMemberInput struct {
	Name string
	Role string
	Bio  string
}

type TeamMemberDetail struct {
	entity.TeamMember
	Photos []MediaView `json:"photos"`
}

var teamSortColumns = map[string]string{
	"name":      "name",
	"sortOrder": "sort_order",
	"updatedAt": "updated_at",
}

type TeamService struct {
	members TeamMemberRepository
	media   *MediaService
	newID   func() uuid.UUID
}

func NewTeamService(members TeamMemberRepository, media *MediaService) *TeamService {
	return &TeamService{members: members, media: media, newID: uuid.New}
}

func (s *TeamService) List(ctx context.Context, params ListParams) (*Page[entity.TeamMember], error) {
	q, err := params.resolve(SortColumns{Columns: teamSortColumns, Default: "sortOrder"})
	if err != nil {
		return nil, err
	}
	members, total, err := s.members.List(ctx, q.ListQuery)
	if err != nil {
		return nil, Internal("failed to list team members", err)
	}
	return newPage(members, total, q.page, q.pageSize), nil
}

// ListWithPhotos is the public roster: every member in display order with their photos.
func (s *TeamService) ListWithPhotos(ctx context.Context, params ListParams) (*Page[TeamMemberDetail], error) {
	page, err := s.List(ctx, params)
	if err != nil {
		return nil, err
	}
	details := make([]TeamMemberDetail, 0, len(page.Items))
	for _, member := range page.Items {
		photos, err := s.media.ListByOwner(ctx, entity.MediaKindTeamPhoto, member.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, TeamMemberDetail{TeamMember: member, Photos: photos})
	}
	return newPage(details, page.Total, page.Page, page.PageSize), nil
}

func (s *TeamService) Get(ctx context.Context, id uuid.UUID) (*TeamMemberDetail, error) {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "team member not found", "failed to load team member")
	}
	photos, err := s.media.ListByOwner(ctx, entity.MediaKindTeamPhoto, id)
	if err != nil {
		return nil, err
	}
	return &TeamMemberDetail{TeamMember: *member, Photos: photos}, nil
}

func (s *TeamService) Create(ctx context.Context, caller Caller, in TeamMemberInput) (*entity.TeamMember, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	name, err := requireText("name", in.Name, 255)
	if err != nil {
		return nil, err
	}
	role, err := optionalText("role", in.Role, 255)
	if err != nil {
		return nil, err
	}
	member := &entity.TeamMember{ID: s.newID(), Name: name, Role: role, Bio: in.Bio}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, Internal("failed to create team member", err)
	}
	return member, nil
}

func (s *TeamService) Update(ctx context.Context, caller Caller, id uuid.UUID, patch entity.TeamMemberPatch) (*entity.TeamMember, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name, err := requireText("name", *patch.Name, 255)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.Role != nil {
		role, err := optionalText("role", *patch.Role, 255)
		if err != nil {
			return nil, err
		}
		patch.Role = &role
	}
	if len(patch.Columns()) > 0 {
		if err := s.members.Update(ctx, id, patch); err != nil {
			return nil, notFoundOr(err, "team member not found", "failed to update team member")
		}
	}
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "team member not found", "failed to load team member")
	}
	return member, nil
}

func (s *TeamService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if err := caller.Require(); err != nil {
		return err
	}
	if _, err := s.members.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "team member not found", "failed to load team member")
	}
	if err := s.media.DeleteOwnedMedia(ctx, id, entity.MediaKindTeamPhoto); err != nil {
		return err
	}
	if err := s.members.Delete(ctx, id); err != nil {
		return notFoundOr(err, "team member not found", "failed to delete team member")
	}
	return nil
}

func (s *TeamService) Reorder(ctx context.Context, caller Caller, ids []uuid.UUID) error {
	if err := caller.Require(); err != nil {
		return err
	}
	ordered, err := requireOrdering(ids)
	if err != nil {
		return err
	}
	count, err := s.members.CountByIDs(ctx, ordered)
	if err != nil {
		return Internal("failed to load team members", err)
	}
	if count != int64(len(ordered)) {
		return NotFound("one or more team members not found")
	}
	if err := s.members.Reorder(ctx, ordered); err != nil {
		return Internal("failed to reorder team members", err)
	}
	return nil
}
