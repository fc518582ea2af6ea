package controller

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/repository"
)

type pageRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.PageMetadata
}

func newPageRepo() *pageRepo {
	return &pageRepo{rows: make(map[uuid.UUID]entity.PageMetadata)}
}

func (r *pageRepo) Create(_ context.Context, page *entity.PageMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Path == page.Path {
			return repository.ErrDuplicate
		}
	}
	r.rows[page.ID] = *page
	return nil
}

func (r *pageRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.PageMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *pageRepo) FindByPath(_ context.Context, path string) (*entity.PageMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Path == path {
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *pageRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *pageRepo) PathTaken(_ context.Context, path string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.Path == path && (excludeID == nil || *excludeID != id) {
			return true, nil
		}
	}
	return false, nil
}

func (r *pageRepo) Update(_ context.Context, id uuid.UUID, patch entity.PagePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Path != nil {
		row.Path = *patch.Path
	}
	if patch.Title != nil {
		row.Title = *patch.Title
	}
	if patch.Description != nil {
		row.Description = *patch.Description
	}
	r.rows[id] = row
	return nil
}

func (r *pageRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *pageRepo) List(_ context.Context, _ repository.ListQuery) ([]entity.PageMetadata, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.PageMetadata, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out, int64(len(out)), nil
}

func (f *handlerFixture) seedPublicCache() {
	for _, key := range []string{"public:home:a1", "public:pages:b2", "public:gallery:c3"} {
		f.cache.entries[key] = []byte(`{}`)
	}
}

func TestPageWritesInvalidateHomeAndPages(t *testing.T) {
	f := newHandlerFixture(t)

	f.seedPublicCache()
	w := f.do(t, http.MethodPost, "/admin/pages", gin.H{"path": "/", "title": "Charcoal Export", "description": "Hardwood and coconut charcoal"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)
	assert.NotContains(t, f.cache.entries, "public:home:a1")
	assert.NotContains(t, f.cache.entries, "public:pages:b2")
	assert.Contains(t, f.cache.entries, "public:gallery:c3")

	f.seedPublicCache()
	w = f.do(t, http.MethodPatch, "/admin/pages/"+id, gin.H{"title": "Charcoal Export Co."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, f.cache.entries, "public:home:a1")
	assert.NotContains(t, f.cache.entries, "public:pages:b2")
	assert.Contains(t, f.cache.entries, "public:gallery:c3")

	f.seedPublicCache()
	w = f.do(t, http.MethodDelete, "/admin/pages/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, f.cache.entries, "public:home:a1")
	assert.NotContains(t, f.cache.entries, "public:pages:b2")
}

func TestFailedPageWriteKeepsCache(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedPublicCache()

	w := f.do(t, http.MethodPatch, "/admin/pages/"+uuid.NewString(), gin.H{"title": "Missing"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, f.cache.entries, 3)
}
