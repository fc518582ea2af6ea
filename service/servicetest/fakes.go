// Package servicetest provides in-memory implementations of the service dependencies for tests.
package servicetest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/repository"
)

// AssetBase is the public base URL Store.PublicURL resolves against.
const AssetBase = "https://assets.charcoal.test"

// MediaRepo mirrors the media_assets unique indexes: id, storage_key and (kind, name).
type MediaRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]entity.MediaAsset
	clock time.Time

	// Err fails every Create when set.
	Err error
	// OnNameTaken runs after each NameTaken answer, outside the lock.
	OnNameTaken func()
}

func NewMediaRepo() *MediaRepo {
	return &MediaRepo{
		rows:  make(map[uuid.UUID]entity.MediaAsset),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *MediaRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *MediaRepo) Create(_ context.Context, asset *entity.MediaAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.rows[asset.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, row := range r.rows {
		if row.StorageKey == asset.StorageKey {
			return repository.ErrDuplicate
		}
		if asset.Name != nil && row.Name != nil && row.Kind == asset.Kind && *row.Name == *asset.Name {
			return repository.ErrDuplicate
		}
	}
	now := r.tick()
	asset.CreatedAt, asset.UpdatedAt = now, now
	r.rows[asset.ID] = *asset
	return nil
}

func (r *MediaRepo) FindByID(_ context.Context, kind entity.MediaKind, id uuid.UUID) (*entity.MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.Kind != kind {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *MediaRepo) FindByIDs(_ context.Context, kind entity.MediaKind, ids []uuid.UUID) ([]entity.MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.MediaAsset
	for _, id := range ids {
		if row, ok := r.rows[id]; ok && row.Kind == kind {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *MediaRepo) FindByOwner(_ context.Context, kind entity.MediaKind, ownerID uuid.UUID) ([]entity.MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.MediaAsset
	for _, row := range r.rows {
		if row.Kind == kind && row.OwnerID != nil && *row.OwnerID == ownerID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *MediaRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *MediaRepo) ExistsByStorageKey(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.StorageKey == key {
			return true, nil
		}
	}
	return false, nil
}

// NameTaken runs OnNameTaken after answering, so tests can slip a write in before the caller acts.
func (r *MediaRepo) NameTaken(_ context.Context, kind entity.MediaKind, name string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	taken := false
	for id, row := range r.rows {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if row.Kind == kind && row.Name != nil && *row.Name == name {
			taken = true
			break
		}
	}
	hook := r.OnNameTaken
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return taken, nil
}

func (r *MediaRepo) Rename(_ context.Context, kind entity.MediaKind, id uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.Kind != kind {
		return repository.ErrNotFound
	}
	for otherID, other := range r.rows {
		if otherID != id && other.Kind == kind && other.Name != nil && *other.Name == name {
			return repository.ErrDuplicate
		}
	}
	row.Name = &name
	row.UpdatedAt = r.tick()
	r.rows[id] = row
	return nil
}

func (r *MediaRepo) Delete(_ context.Context, kind entity.MediaKind, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.Kind != kind {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *MediaRepo) DeleteByIDs(_ context.Context, kind entity.MediaKind, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if row, ok := r.rows[id]; ok && row.Kind == kind {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

func (r *MediaRepo) List(_ context.Context, filter repository.MediaFilter, q repository.ListQuery) ([]entity.MediaAsset, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []entity.MediaAsset
	for _, row := range r.rows {
		if row.Kind != filter.Kind {
			continue
		}
		if filter.OwnerID != nil && (row.OwnerID == nil || *row.OwnerID != *filter.OwnerID) {
			continue
		}
		if q.Search != "" && (row.Name == nil || !strings.Contains(strings.ToLower(*row.Name), strings.ToLower(q.Search))) {
			continue
		}
		matched = append(matched, row)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if c := compareMedia(a, b, q.SortColumn); c != 0 {
			if q.Desc {
				return c > 0
			}
			return c < 0
		}
		return a.ID.String() < b.ID.String()
	})

	total := int64(len(matched))
	start := min(q.Offset, len(matched))
	end := len(matched)
	if q.Limit > 0 {
		end = min(start+q.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

func compareMedia(a, b entity.MediaAsset, column string) int {
	switch column {
	case "name":
		return strings.Compare(deref(a.Name), deref(b.Name))
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "sort_order":
		return a.SortOrder - b.SortOrder
	}
	return 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *MediaRepo) Reorder(_ context.Context, kind entity.MediaKind, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range ids {
		row := r.rows[id]
		row.SortOrder = i
		r.rows[id] = row
	}
	return nil
}

func (r *MediaRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type PendingRepo struct {
	mu      sync.Mutex
	Entries map[uuid.UUID]entity.PendingUpload
}

func NewPendingRepo() *PendingRepo {
	return &PendingRepo{Entries: make(map[uuid.UUID]entity.PendingUpload)}
}

func (r *PendingRepo) Create(_ context.Context, pending *entity.PendingUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Entries[pending.ID]; ok {
		return repository.ErrDuplicate
	}
	r.Entries[pending.ID] = *pending
	return nil
}

func (r *PendingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.PendingUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.Entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entry, nil
}

func (r *PendingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Entries, id)
	return nil
}

func (r *PendingRepo) FindExpired(_ context.Context, now time.Time, limit int) ([]entity.PendingUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.PendingUpload
	for _, entry := range r.Entries {
		if entry.ExpiresAt.Before(now) {
			out = append(out, entry)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *PendingRepo) Has(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.Entries[id]
	return ok
}

// Store is an object store where presign reserves nothing; tests call Put to simulate the
// client's PUT.
type Store struct {
	mu         sync.Mutex
	Objects    map[string]string
	FailDelete map[string]bool
	PresignErr error
	Presigned  []string
}

func NewStore() *Store {
	return &Store{Objects: make(map[string]string), FailDelete: make(map[string]bool)}
}

func (s *Store) PresignPut(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PresignErr != nil {
		return "", s.PresignErr
	}
	s.Presigned = append(s.Presigned, key)
	return "https://storage.test/media/" + key + "?X-Amz-Signature=sig&content-type=" + contentType, nil
}

func (s *Store) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete[key] {
		return errors.New("storage unavailable")
	}
	delete(s.Objects, key)
	return nil
}

func (s *Store) ObjectExists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Objects[key]
	return ok, nil
}

func (s *Store) PublicURL(key string) string {
	return AssetBase + "/" + key
}

// Put simulates the client PUT against a presigned URL.
func (s *Store) Put(key, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = contentType
}

func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Objects[key]
	return ok
}

type Owners map[uuid.UUID]bool

func (o Owners) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return o[id], nil
}

type Queue struct {
	mu   sync.Mutex
	Keys []string
}

func (q *Queue) EnqueueObjectDelete(_ context.Context, key, _ string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Keys = append(q.Keys, key)
	return nil
}

type Limiter struct {
	hits  map[string]int64
	Err   error
	Calls int
}

func (l *Limiter) Allow(_ context.Context, key string, limit int64, _ time.Duration) (bool, error) {
	l.Calls++
	if l.Err != nil {
		return false, l.Err
	}
	if l.hits == nil {
		l.hits = make(map[string]int64)
	}
	l.hits[key]++
	return l.hits[key] <= limit, nil
}

type Notifier struct {
	Sent []*entity.ContactMessage
	Err  error
}

func (n *Notifier) NotifyContact(_ context.Context, msg *entity.ContactMessage) error {
	n.Sent = append(n.Sent, msg)
	return n.Err
}
