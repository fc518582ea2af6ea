package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/repository"
)

type NewsRepository interface {
	Create(ctx context.Context, article *entity.NewsArticle) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.NewsArticle, error)
	FindBySlug(ctx context.Context, slug string) (*entity.NewsArticle, error)
	SlugTaken(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, patch entity.NewsPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, onlyPublished bool, q repository.ListQuery) ([]entity.NewsArticle, int64, error)
}

type NewsInput struct {
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	IsPublished bool
	PublishedAt *time.Time
}

var newsSortColumns = map[string]string{
	"title":       "title",
	"publishedAt": "published_at",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

type NewsService struct {
	news  NewsRepository
	slugs *NameGuard
	now   func() time.Time
	newID func() uuid.UUID
}

func NewNewsService(news NewsRepository) *NewsService {
	return &NewsService{
		news:  news,
		slugs: NewNameGuard("slug", news.SlugTaken),
		now:   time.Now,
		newID: uuid.New,
	}
}

func (s *NewsService) List(ctx context.Context, onlyPublished bool, params ListParams) (*Page[entity.NewsArticle], error) {
	q, err := params.resolve(SortColumns{Columns: newsSortColumns, Default: "publishedAt", DefaultDesc: true})
	if err != nil {
		return nil, err
	}
	articles, total, err := s.news.List(ctx, onlyPublished, q.ListQuery)
	if err != nil {
		return nil, Internal("failed to list news", err)
	}
	return newPage(articles, total, q.page, q.pageSize), nil
}

func (s *NewsService) Get(ctx context.Context, id uuid.UUID) (*entity.NewsArticle, error) {
	article, err := s.news.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "news article not found", "failed to load news article")
	}
	return article, nil
}

func (s *NewsService) GetPublished(ctx context.Context, slug string) (*entity.NewsArticle, error) {
	article, err := s.news.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "news article not found", "failed to load news article")
	}
	if !article.IsPublished {
		return nil, NotFound("news article not found")
	}
	return article, nil
}

func (s *NewsService) CheckSlugAvailability(ctx context.Context, caller Caller, slug string, excludeID *uuid.UUID) (bool, error) {
	if err := caller.Require(); err != nil {
		return false, err
	}
	slug, err := requireSlug(slug)
	if err != nil {
		return false, err
	}
	return s.slugs.IsAvailable(ctx, slug, excludeID)
}

func (s *NewsService) Create(ctx context.Context, caller Caller, in NewsInput) (*entity.NewsArticle, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	title, err := requireText("title", in.Title, 255)
	if err != nil {
		return nil, err
	}
	slug, err := requireSlug(in.Slug)
	if err != nil {
		return nil, err
	}
	excerpt, err := optionalText("excerpt", in.Excerpt, 1024)
	if err != nil {
		return nil, err
	}
	if err := s.slugs.Ensure(ctx, slug, nil); err != nil {
		return nil, err
	}

	article := &entity.NewsArticle{
		ID:          s.newID(),
		Title:       title,
		Slug:        slug,
		Excerpt:     excerpt,
		Content:     in.Content,
		IsPublished: in.IsPublished,
		PublishedAt: in.PublishedAt,
	}
	if article.IsPublished && article.PublishedAt == nil {
		now := s.now()
		article.PublishedAt = &now
	}
	if err := s.news.Create(ctx, article); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.slugs.Conflict(slug)
		}
		return nil, Internal("failed to create news article", err)
	}
	return article, nil
}

func (s *NewsService) Update(ctx context.Context, caller Caller, id uuid.UUID, patch entity.NewsPatch) (*entity.NewsArticle, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	if patch.Title != nil {
		title, err := requireText("title", *patch.Title, 255)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if patch.Slug != nil {
		slug, err := requireSlug(*patch.Slug)
		if err != nil {
			return nil, err
		}
		patch.Slug = &slug
	}
	if patch.Excerpt != nil {
		excerpt, err := optionalText("excerpt", *patch.Excerpt, 1024)
		if err != nil {
			return nil, err
		}
		patch.Excerpt = &excerpt
	}

	current, err := s.news.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "news article not found", "failed to load news article")
	}
	if patch.Slug != nil {
		if err := s.slugs.Ensure(ctx, *patch.Slug, &id); err != nil {
			return nil, err
		}
	}
	// Publishing an article that was never stamped records the publish time.
	if patch.IsPublished != nil && *patch.IsPublished && patch.PublishedAt == nil && current.PublishedAt == nil {
		now := s.now()
		patch.PublishedAt = &now
	}

	if len(patch.Columns()) > 0 {
		if err := s.news.Update(ctx, id, patch); err != nil {
			if errors.Is(err, repository.ErrDuplicate) && patch.Slug != nil {
				return nil, s.slugs.Conflict(*patch.Slug)
			}
			return nil, notFoundOr(err, "news article not found", "failed to update news article")
		}
	}
	return s.Get(ctx, id)
}

func (s *NewsService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if err := caller.Require(); err != nil {
		return err
	}
	if err := s.news.Delete(ctx, id); err != nil {
		return notFoundOr(err, "news article not found", "failed to delete news article")
	}
	return nil
}
