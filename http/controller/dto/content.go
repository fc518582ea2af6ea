package dto

import (
	"encoding/json"
	"time"

	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/service"
	"gorm.io/datatypes"
)

type CreateProductRequestDTO struct {
	Name           string          `json:"name" binding:"required,max=255"`
	Slug           string          `json:"slug" binding:"required,slug"`
	Category       string          `json:"category" binding:"max=128"`
	Summary        string          `json:"summary" binding:"max=1024"`
	Description    string          `json:"description"`
	Specifications json.RawMessage `json:"specifications"`
	IsPublished    bool            `json:"is_published"`
}

func (r CreateProductRequestDTO) Input() service.ProductInput {
	return service.ProductInput{
		Name:           r.Name,
		Slug:           r.Slug,
		Category:       r.Category,
		Summary:        r.Summary,
		Description:    r.Description,
		Specifications: r.Specifications,
		IsPublished:    r.IsPublished,
	}
}

type UpdateProductRequestDTO struct {
	Name           *string          `json:"name" binding:"omitempty,max=255"`
	Slug           *string          `json:"slug" binding:"omitempty,slug"`
	Category       *string          `json:"category" binding:"omitempty,max=128"`
	Summary        *string          `json:"summary" binding:"omitempty,max=1024"`
	Description    *string          `json:"description"`
	Specifications *json.RawMessage `json:"specifications"`
	IsPublished    *bool            `json:"is_published"`
}

func (r UpdateProductRequestDTO) Patch() entity.ProductPatch {
	patch := entity.ProductPatch{
		Name:        r.Name,
		Slug:        r.Slug,
		Category:    r.Category,
		Summary:     r.Summary,
		Description: r.Description,
		IsPublished: r.IsPublished,
	}
	if r.Specifications != nil {
		specs := datatypes.JSON(*r.Specifications)
		patch.Specifications = &specs
	}
	return patch
}

type CreateNewsRequestDTO struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Slug        string     `json:"slug" binding:"required,slug"`
	Excerpt     string     `json:"excerpt" binding:"max=1024"`
	Content     string     `json:"content"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
}

func (r CreateNewsRequestDTO) Input() service.NewsInput {
	return service.NewsInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Excerpt:     r.Excerpt,
		Content:     r.Content,
		IsPublished: r.IsPublished,
		PublishedAt: r.PublishedAt,
	}
}

type UpdateNewsRequestDTO struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Slug        *string    `json:"slug" binding:"omitempty,slug"`
	Excerpt     *string    `json:"excerpt" binding:"omitempty,max=1024"`
	Content     *string    `json:"content"`
	IsPublished *bool      `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
}

func (r UpdateNewsRequestDTO) Patch() entity.NewsPatch {
	return entity.NewsPatch{
		Title:       r.Title,
		Slug:        r.Slug,
		Excerpt:     r.Excerpt,
		Content:     r.Content,
		IsPublished: r.IsPublished,
		PublishedAt: r.PublishedAt,
	}
}

type CreateTeamMemberRequestDTO struct {
	Name string `json:"name" binding:"required,max=255"`
	Role string `json:"role" binding:"max=255"`
	Bio  string `json:"bio"`
}

type UpdateTeamMemberRequestDTO struct {
	Name *string `json:"name" binding:"omitempty,max=255"`
	Role *string `json:"role" binding:"omitempty,max=255"`
	Bio  *string `json:"bio"`
}

type CreatePageRequestDTO struct {
	Path        string   `json:"path" binding:"required,startswith=/,max=512"`
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"max=1024"`
	Keywords    []string `json:"keywords" binding:"max=50"`
}

type UpdatePageRequestDTO struct {
	Path        *string   `json:"path" binding:"omitempty,startswith=/,max=512"`
	Title       *string   `json:"title" binding:"omitempty,max=255"`
	Description *string   `json:"description" binding:"omitempty,max=1024"`
	Keywords    *[]string `json:"keywords"`
}

func (r UpdatePageRequestDTO) Patch() entity.PagePatch {
	return entity.PagePatch{Path: r.Path, Title: r.Title, Description: r.Description, Keywords: r.Keywords}
}
