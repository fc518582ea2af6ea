package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/repository"
	"gorm.io/datatypes"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Product, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	SlugTaken(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, patch entity.ProductPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter repository.ProductFilter, q repository.ListQuery) ([]entity.Product, int64, error)
	Reorder(ctx context.Context, ids []uuid.UUID) error
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type ProductInput struct {
	Name           string
	Slug           string
	Category       string
	Summary        string
	Description    string
	Specifications json.RawMessage
	IsPublished    bool
}

// ProductDetail is a product with the media it owns.
type ProductDetail struct {
	entity.Product
	Media     []MediaView `json:"media"`
	Packaging []MediaView `json:"packaging_options"`
}

var productSortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"sortOrder": "sort_order",
}

type ProductService struct {
	products ProductRepository
	media    *MediaService
	slugs    *NameGuard
	newID    func() uuid.UUID
}

func NewProductService(products ProductRepository, media *MediaService) *ProductService {
	return &ProductService{
		products: products,
		media:    media,
		slugs:    NewNameGuard("slug", products.SlugTaken),
		newID:    uuid.New,
	}
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter, params ListParams) (*Page[entity.Product], error) {
	q, err := params.resolve(SortColumns{Columns: productSortColumns, Default: "sortOrder"})
	if err != nil {
		return nil, err
	}
	products, total, err := s.products.List(ctx, filter, q.ListQuery)
	if err != nil {
		return nil, Internal("failed to list products", err)
	}
	return newPage(products, total, q.page, q.pageSize), nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found", "failed to load product")
	}
	return s.detail(ctx, product)
}

// GetPublished resolves a slug for the public site. Drafts are reported as missing.
func (s *ProductService) GetPublished(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "product not found", "failed to load product")
	}
	if !product.IsPublished {
		return nil, NotFound("product not found")
	}
	return s.detail(ctx, product)
}

func (s *ProductService) detail(ctx context.Context, product *entity.Product) (*ProductDetail, error) {
	media, err := s.media.ListByOwner(ctx, entity.MediaKindProductMedia, product.ID)
	if err != nil {
		return nil, err
	}
	packaging, err := s.media.ListByOwner(ctx, entity.MediaKindPackagingOption, product.ID)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: *product, Media: media, Packaging: packaging}, nil
}

func (s *ProductService) CheckSlugAvailability(ctx context.Context, caller Caller, slug string, excludeID *uuid.UUID) (bool, error) {
	if err := caller.Require(); err != nil {
		return false, err
	}
	slug, err := requireSlug(slug)
	if err != nil {
		return false, err
	}
	return s.slugs.IsAvailable(ctx, slug, excludeID)
}

func (s *ProductService) Create(ctx context.Context, caller Caller, in ProductInput) (*entity.Product, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	name, err := requireText("name", in.Name, 255)
	if err != nil {
		return nil, err
	}
	slug, err := requireSlug(in.Slug)
	if err != nil {
		return nil, err
	}
	category, err := optionalText("category", in.Category, 128)
	if err != nil {
		return nil, err
	}
	summary, err := optionalText("summary", in.Summary, 1024)
	if err != nil {
		return nil, err
	}
	specs, err := specificationsOf(in.Specifications)
	if err != nil {
		return nil, err
	}
	if err := s.slugs.Ensure(ctx, slug, nil); err != nil {
		return nil, err
	}

	product := &entity.Product{
		ID:             s.newID(),
		Name:           name,
		Slug:           slug,
		Category:       category,
		Summary:        summary,
		Description:    in.Description,
		Specifications: specs,
		IsPublished:    in.IsPublished,
	}
	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.slugs.Conflict(slug)
		}
		return nil, Internal("failed to create product", err)
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, caller Caller, id uuid.UUID, patch entity.ProductPatch) (*entity.Product, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	if err := s.validatePatch(&patch); err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "product not found", "failed to load product")
	}
	if patch.Slug != nil {
		if err := s.slugs.Ensure(ctx, *patch.Slug, &id); err != nil {
			return nil, err
		}
	}
	if len(patch.Columns()) > 0 {
		if err := s.products.Update(ctx, id, patch); err != nil {
			if errors.Is(err, repository.ErrDuplicate) && patch.Slug != nil {
				return nil, s.slugs.Conflict(*patch.Slug)
			}
			return nil, notFoundOr(err, "product not found", "failed to update product")
		}
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found", "failed to load product")
	}
	return product, nil
}

func (s *ProductService) validatePatch(patch *entity.ProductPatch) error {
	if patch.Name != nil {
		name, err := requireText("name", *patch.Name, 255)
		if err != nil {
			return err
		}
		patch.Name = &name
	}
	if patch.Slug != nil {
		slug, err := requireSlug(*patch.Slug)
		if err != nil {
			return err
		}
		patch.Slug = &slug
	}
	if patch.Category != nil {
		category, err := optionalText("category", *patch.Category, 128)
		if err != nil {
			return err
		}
		patch.Category = &category
	}
	if patch.Summary != nil {
		summary, err := optionalText("summary", *patch.Summary, 1024)
		if err != nil {
			return err
		}
		patch.Summary = &summary
	}
	if patch.Specifications != nil {
		specs, err := specificationsOf(json.RawMessage(*patch.Specifications))
		if err != nil {
			return err
		}
		patch.Specifications = &specs
	}
	return nil
}

// Delete removes the product's media first. A failed object delete keeps the product.
func (s *ProductService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if err := caller.Require(); err != nil {
		return err
	}
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "product not found", "failed to load product")
	}
	if err := s.media.DeleteOwnedMedia(ctx, id, entity.MediaKindProductMedia, entity.MediaKindPackagingOption); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return notFoundOr(err, "product not found", "failed to delete product")
	}
	return nil
}

func (s *ProductService) Reorder(ctx context.Context, caller Caller, ids []uuid.UUID) error {
	if err := caller.Require(); err != nil {
		return err
	}
	ordered, err := requireOrdering(ids)
	if err != nil {
		return err
	}
	count, err := s.products.CountByIDs(ctx, ordered)
	if err != nil {
		return Internal("failed to load products", err)
	}
	if count != int64(len(ordered)) {
		return NotFound("one or more products not found")
	}
	if err := s.products.Reorder(ctx, ordered); err != nil {
		return Internal("failed to reorder products", err)
	}
	return nil
}

// specificationsOf accepts a JSON object, or nothing for an empty one.
func specificationsOf(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON("{}"), nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, BadRequest("specifications must be a JSON object")
	}
	return datatypes.JSON(raw), nil
}
