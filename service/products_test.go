package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/repository"
)

type fakeProductRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{rows: make(map[uuid.UUID]entity.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Slug == p.Slug {
			return repository.ErrDuplicate
		}
	}
	r.rows[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *fakeProductRepo) FindBySlug(_ context.Context, slug string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Slug == slug {
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProductRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *fakeProductRepo) SlugTaken(_ context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.Slug == slug && (excludeID == nil || *excludeID != id) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) Update(_ context.Context, id uuid.UUID, patch entity.ProductPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Slug != nil {
		row.Slug = *patch.Slug
	}
	if patch.Category != nil {
		row.Category = *patch.Category
	}
	if patch.Specifications != nil {
		row.Specifications = *patch.Specifications
	}
	if patch.IsPublished != nil {
		row.IsPublished = *patch.IsPublished
	}
	r.rows[id] = row
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, filter repository.ProductFilter, _ repository.ListQuery) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, row := range r.rows {
		if filter.OnlyPublished && !row.IsPublished {
			continue
		}
		out = append(out, row)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Reorder(_ context.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range ids {
		row := r.rows[id]
		row.SortOrder = i
		r.rows[id] = row
	}
	return nil
}

func (r *fakeProductRepo) CountByIDs(_ context.Context, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.rows[id]; ok {
			n++
		}
	}
	return n, nil
}

func newProductFixture(t *testing.T) (*ProductService, *fakeProductRepo, *mediaFixture) {
	t.Helper()
	media := newMediaFixture(t)
	products := newFakeProductRepo()
	media.svc.owners[OwnerProduct] = products
	return NewProductService(products, media.svc), products, media
}

func TestProductCreate(t *testing.T) {
	svc, _, _ := newProductFixture(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, admin, ProductInput{
		Name:           " Coconut Shell Briquettes ",
		Slug:           "coconut-shell-briquettes",
		Specifications: json.RawMessage(`{"ash":"2.5%","moisture":"5%"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Coconut Shell Briquettes", product.Name)
	assert.JSONEq(t, `{"ash":"2.5%","moisture":"5%"}`, string(product.Specifications))

	_, err = svc.Create(ctx, admin, ProductInput{Name: "Other", Slug: "coconut-shell-briquettes"})
	assertCode(t, err, CodeBadRequest)
	assert.ErrorIs(t, err, ErrNameTaken)

	_, err = svc.Create(ctx, admin, ProductInput{Name: "Bad", Slug: "Bad Slug"})
	assertCode(t, err, CodeBadRequest)

	_, err = svc.Create(ctx, admin, ProductInput{Name: "Bad", Slug: "bad-specs", Specifications: json.RawMessage(`[1,2]`)})
	assertCode(t, err, CodeBadRequest)

	_, err = svc.Create(ctx, Anonymous(), ProductInput{Name: "Anon", Slug: "anon"})
	assertCode(t, err, CodeUnauthorized)
}

func TestProductUpdate(t *testing.T) {
	svc, _, _ := newProductFixture(t)
	ctx := context.Background()
	a, err := svc.Create(ctx, admin, ProductInput{Name: "A", Slug: "hardwood"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, ProductInput{Name: "B", Slug: "sawdust"})
	require.NoError(t, err)

	taken := "sawdust"
	_, err = svc.Update(ctx, admin, a.ID, entity.ProductPatch{Slug: &taken})
	assertCode(t, err, CodeBadRequest)

	own := "hardwood"
	published := true
	updated, err := svc.Update(ctx, admin, a.ID, entity.ProductPatch{Slug: &own, IsPublished: &published})
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)

	blank := "   "
	_, err = svc.Update(ctx, admin, a.ID, entity.ProductPatch{Name: &blank})
	assertCode(t, err, CodeBadRequest)

	_, err = svc.Update(ctx, admin, uuid.New(), entity.ProductPatch{Name: &own})
	assertCode(t, err, CodeNotFound)
}

func TestProductDeleteCascadesMedia(t *testing.T) {
	svc, products, media := newProductFixture(t)
	ctx := context.Background()
	product, err := svc.Create(ctx, admin, ProductInput{Name: "Lump", Slug: "lump"})
	require.NoError(t, err)
	photo := media.upload(t, entity.MediaKindProductMedia, "", &product.ID)
	option := media.upload(t, entity.MediaKindPackagingOption, "25kg bag", &product.ID)

	detail, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Media, 1)
	assert.Len(t, detail.Packaging, 1)

	require.NoError(t, svc.Delete(ctx, admin, product.ID))
	assert.Empty(t, products.rows)
	assert.Zero(t, media.media.Count())
	assert.False(t, media.store.Has(photo.StorageKey))
	assert.False(t, media.store.Has(option.StorageKey))
}

func TestProductDeleteKeepsProductWhenMediaDeleteFails(t *testing.T) {
	svc, products, media := newProductFixture(t)
	ctx := context.Background()
	product, err := svc.Create(ctx, admin, ProductInput{Name: "Lump", Slug: "lump"})
	require.NoError(t, err)
	photo := media.upload(t, entity.MediaKindProductMedia, "", &product.ID)
	media.store.FailDelete[photo.StorageKey] = true

	err = svc.Delete(ctx, admin, product.ID)

	assertCode(t, err, CodeInternal)
	assert.Len(t, products.rows, 1)
}

func TestProductGetPublishedHidesDrafts(t *testing.T) {
	svc, _, _ := newProductFixture(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, admin, ProductInput{Name: "Draft", Slug: "draft"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, ProductInput{Name: "Live", Slug: "live", IsPublished: true})
	require.NoError(t, err)

	_, err = svc.GetPublished(ctx, "draft")
	assertCode(t, err, CodeNotFound)

	live, err := svc.GetPublished(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, live.Media)
}

func TestProductReorder(t *testing.T) {
	svc, products, _ := newProductFixture(t)
	ctx := context.Background()
	a, _ := svc.Create(ctx, admin, ProductInput{Name: "A", Slug: "a"})
	b, _ := svc.Create(ctx, admin, ProductInput{Name: "B", Slug: "b"})

	require.NoError(t, svc.Reorder(ctx, admin, []uuid.UUID{b.ID, a.ID}))
	assert.Equal(t, 0, products.rows[b.ID].SortOrder)
	assert.Equal(t, 1, products.rows[a.ID].SortOrder)

	err := svc.Reorder(ctx, admin, []uuid.UUID{a.ID, uuid.New()})
	assertCode(t, err, CodeNotFound)
}
