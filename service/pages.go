package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/repository"
	"gorm.io/datatypes"
)

type PageMetadataRepository interface {
	Create(ctx context.Context, page *entity.PageMetadata) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PageMetadata, error)
	FindByPath(ctx context.Context, path string) (*entity.PageMetadata, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	PathTaken(ctx context.Context, path string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, patch entity.PagePatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q repository.ListQuery) ([]entity.PageMetadata, int64, error)
}

type PageInput struct {
	Path        string
	Title       string
	Description string
	Keywords    []string
}

// PageView is page metadata with the URL of its first OG image, if any.
type PageView struct {
	entity.PageMetadata
	OGImageURL string `json:"og_image_url,omitempty"`
}

var pageSortColumns = map[string]string{
	"path":      "path",
	"updatedAt": "updated_at",
}

type PageService struct {
	pages PageMetadataRepository
	media *MediaService
	paths *NameGuard
	newID func() uuid.UUID
}

func NewPageService(pages PageMetadataRepository, media *MediaService) *PageService {
	return &PageService{
		pages: pages,
		media: media,
		paths: NewNameGuard("path", pages.PathTaken),
		newID: uuid.New,
	}
}

func (s *PageService) List(ctx context.Context, params ListParams) (*Page[entity.PageMetadata], error) {
	q, err := params.resolve(SortColumns{Columns: pageSortColumns, Default: "path"})
	if err != nil {
		return nil, err
	}
	pages, total, err := s.pages.List(ctx, q.ListQuery)
	if err != nil {
		return nil, Internal("failed to list pages", err)
	}
	return newPage(pages, total, q.page, q.pageSize), nil
}

func (s *PageService) Get(ctx context.Context, id uuid.UUID) (*PageView, error) {
	page, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "page not found", "failed to load page")
	}
	return s.view(ctx, page)
}

func (s *PageService) GetByPath(ctx context.Context, path string) (*PageView, error) {
	path, err := normalizePagePath(path)
	if err != nil {
		return nil, err
	}
	page, err := s.pages.FindByPath(ctx, path)
	if err != nil {
		return nil, notFoundOr(err, "page not found", "failed to load page")
	}
	return s.view(ctx, page)
}

func (s *PageService) view(ctx context.Context, page *entity.PageMetadata) (*PageView, error) {
	images, err := s.media.ListByOwner(ctx, entity.MediaKindOGImage, page.ID)
	if err != nil {
		return nil, err
	}
	view := &PageView{PageMetadata: *page}
	if len(images) > 0 {
		view.OGImageURL = images[0].URL
	}
	return view, nil
}

func (s *PageService) CheckPathAvailability(ctx context.Context, caller Caller, path string, excludeID *uuid.UUID) (bool, error) {
	if err := caller.Require(); err != nil {
		return false, err
	}
	path, err := normalizePagePath(path)
	if err != nil {
		return false, err
	}
	return s.paths.IsAvailable(ctx, path, excludeID)
}

func (s *PageService) Create(ctx context.Context, caller Caller, in PageInput) (*entity.PageMetadata, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	path, err := normalizePagePath(in.Path)
	if err != nil {
		return nil, err
	}
	title, err := requireText("title", in.Title, 255)
	if err != nil {
		return nil, err
	}
	description, err := optionalText("description", in.Description, 1024)
	if err != nil {
		return nil, err
	}
	if err := s.paths.Ensure(ctx, path, nil); err != nil {
		return nil, err
	}

	page := &entity.PageMetadata{
		ID:          s.newID(),
		Path:        path,
		Title:       title,
		Description: description,
		Keywords:    datatypes.JSONSlice[string](cleanKeywords(in.Keywords)),
	}
	if err := s.pages.Create(ctx, page); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.paths.Conflict(path)
		}
		return nil, Internal("failed to create page", err)
	}
	return page, nil
}

func (s *PageService) Update(ctx context.Context, caller Caller, id uuid.UUID, patch entity.PagePatch) (*entity.PageMetadata, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	if patch.Path != nil {
		path, err := normalizePagePath(*patch.Path)
		if err != nil {
			return nil, err
		}
		patch.Path = &path
	}
	if patch.Title != nil {
		title, err := requireText("title", *patch.Title, 255)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		description, err := optionalText("description", *patch.Description, 1024)
		if err != nil {
			return nil, err
		}
		patch.Description = &description
	}
	if patch.Keywords != nil {
		keywords := cleanKeywords(*patch.Keywords)
		patch.Keywords = &keywords
	}

	if _, err := s.pages.FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "page not found", "failed to load page")
	}
	if patch.Path != nil {
		if err := s.paths.Ensure(ctx, *patch.Path, &id); err != nil {
			return nil, err
		}
	}
	if len(patch.Columns()) > 0 {
		if err := s.pages.Update(ctx, id, patch); err != nil {
			if errors.Is(err, repository.ErrDuplicate) && patch.Path != nil {
				return nil, s.paths.Conflict(*patch.Path)
			}
			return nil, notFoundOr(err, "page not found", "failed to update page")
		}
	}
	page, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "page not found", "failed to load page")
	}
	return page, nil
}

func (s *PageService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if err := caller.Require(); err != nil {
		return err
	}
	if _, err := s.pages.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "page not found", "failed to load page")
	}
	if err := s.media.DeleteOwnedMedia(ctx, id, entity.MediaKindOGImage); err != nil {
		return err
	}
	if err := s.pages.Delete(ctx, id); err != nil {
		return notFoundOr(err, "page not found", "failed to delete page")
	}
	return nil
}

func cleanKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(keyword)]; ok {
			continue
		}
		seen[strings.ToLower(keyword)] = struct{}{}
		out = append(out, keyword)
	}
	return out
}
