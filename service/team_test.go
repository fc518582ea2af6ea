package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/repository"
)

type fakeTeamRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.TeamMember

	// onDelete runs before a row is removed, outside the lock.
	onDelete func(id uuid.UUID)
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{rows: make(map[uuid.UUID]entity.TeamMember)}
}

func (r *fakeTeamRepo) Create(_ context.Context, m *entity.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.SortOrder = len(r.rows)
	r.rows[m.ID] = *m
	return nil
}

func (r *fakeTeamRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *fakeTeamRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, id uuid.UUID, patch entity.TeamMemberPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Role != nil {
		row.Role = *patch.Role
	}
	if patch.Bio != nil {
		row.Bio = *patch.Bio
	}
	r.rows[id] = row
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.onDelete != nil {
		r.onDelete(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeTeamRepo) List(_ context.Context, _ repository.ListQuery) ([]entity.TeamMember, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.TeamMember, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, int64(len(out)), nil
}

func (r *fakeTeamRepo) Reorder(_ context.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range ids {
		row := r.rows[id]
		row.SortOrder = i
		r.rows[id] = row
	}
	return nil
}

func (r *fakeTeamRepo) CountByIDs(_ context.Context, ids []uuid.UUID) (int64, error) {
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

func newTeamFixture(t *testing.T) (*TeamService, *fakeTeamRepo, *mediaFixture) {
	t.Helper()
	media := newMediaFixture(t)
	members := newFakeTeamRepo()
	media.svc.owners[OwnerTeamMember] = members
	return NewTeamService(members, media.svc), members, media
}

func TestTeamCreate(t *testing.T) {
	svc, members, _ := newTeamFixture(t)
	ctx := context.Background()

	member, err := svc.Create(ctx, admin, TeamMemberInput{Name: "  Linh Tran ", Role: " Kiln Lead ", Bio: "Runs the kilns."})
	require.NoError(t, err)
	assert.Equal(t, "Linh Tran", member.Name)
	assert.Equal(t, "Kiln Lead", member.Role)
	assert.Contains(t, members.rows, member.ID)

	_, err = svc.Create(ctx, admin, TeamMemberInput{Name: "   "})
	assertCode(t, err, CodeBadRequest)

	_, err = svc.Create(ctx, admin, TeamMemberInput{Name: strings.Repeat("a", 256)})
	assertCode(t, err, CodeBadRequest)

	_, err = svc.Create(ctx, admin, TeamMemberInput{Name: "Quan", Role: strings.Repeat("r", 256)})
	assertCode(t, err, CodeBadRequest)

	_, err = svc.Create(ctx, Anonymous(), TeamMemberInput{Name: "Anon"})
	assertCode(t, err, CodeUnauthorized)
	assert.Len(t, members.rows, 1)
}

func TestTeamUpdate(t *testing.T) {
	svc, _, _ := newTeamFixture(t)
	ctx := context.Background()
	member, err := svc.Create(ctx, admin, TeamMemberInput{Name: "Linh", Role: "Kiln Lead"})
	require.NoError(t, err)

	role := " Export Manager "
	updated, err := svc.Update(ctx, admin, member.ID, entity.TeamMemberPatch{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Export Manager", updated.Role)
	assert.Equal(t, "Linh", updated.Name)

	blank := " "
	_, err = svc.Update(ctx, admin, member.ID, entity.TeamMemberPatch{Name: &blank})
	assertCode(t, err, CodeBadRequest)

	name := "Quan"
	_, err = svc.Update(ctx, admin, uuid.New(), entity.TeamMemberPatch{Name: &name})
	assertCode(t, err, CodeNotFound)

	_, err = svc.Update(ctx, admin, uuid.New(), entity.TeamMemberPatch{})
	assertCode(t, err, CodeNotFound)
}

func TestTeamReorder(t *testing.T) {
	svc, members, _ := newTeamFixture(t)
	ctx := context.Background()
	a, err := svc.Create(ctx, admin, TeamMemberInput{Name: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, admin, TeamMemberInput{Name: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.Reorder(ctx, admin, []uuid.UUID{b.ID, a.ID}))
	assert.Equal(t, 0, members.rows[b.ID].SortOrder)
	assert.Equal(t, 1, members.rows[a.ID].SortOrder)

	err = svc.Reorder(ctx, admin, []uuid.UUID{a.ID, a.ID})
	assertCode(t, err, CodeBadRequest)

	err = svc.Reorder(ctx, admin, nil)
	assertCode(t, err, CodeBadRequest)

	err = svc.Reorder(ctx, admin, []uuid.UUID{a.ID, uuid.New()})
	assertCode(t, err, CodeNotFound)
	assert.Equal(t, 1, members.rows[a.ID].SortOrder)
}

func TestTeamDeleteRemovesPhotosFirst(t *testing.T) {
	svc, members, media := newTeamFixture(t)
	ctx := context.Background()
	member, err := svc.Create(ctx, admin, TeamMemberInput{Name: "Linh"})
	require.NoError(t, err)
	photo := media.upload(t, entity.MediaKindTeamPhoto, "", &member.ID)

	photoPresentAtDelete := true
	members.onDelete = func(uuid.UUID) { photoPresentAtDelete = media.store.Has(photo.StorageKey) }

	require.NoError(t, svc.Delete(ctx, admin, member.ID))
	assert.False(t, photoPresentAtDelete)
	assert.Empty(t, members.rows)
	assert.Zero(t, media.media.Count())

	err = svc.Delete(ctx, admin, member.ID)
	assertCode(t, err, CodeNotFound)
}

func TestTeamDeleteKeepsMemberWhenPhotoDeleteFails(t *testing.T) {
	svc, members, media := newTeamFixture(t)
	ctx := context.Background()
	member, err := svc.Create(ctx, admin, TeamMemberInput{Name: "Linh"})
	require.NoError(t, err)
	kept := media.upload(t, entity.MediaKindTeamPhoto, "", &member.ID)
	gone := media.upload(t, entity.MediaKindTeamPhoto, "", &member.ID)
	media.store.FailDelete[kept.StorageKey] = true

	err = svc.Delete(ctx, admin, member.ID)

	assertCode(t, err, CodeInternal)
	assert.Contains(t, members.rows, member.ID)
	assert.True(t, media.store.Has(kept.StorageKey))
	assert.False(t, media.store.Has(gone.StorageKey))
	assert.Equal(t, 1, media.media.Count())
}

func TestTeamListWithPhotos(t *testing.T) {
	svc, _, media := newTeamFixture(t)
	ctx := context.Background()
	withPhoto, err := svc.Create(ctx, admin, TeamMemberInput{Name: "Linh"})
	require.NoError(t, err)
	without, err := svc.Create(ctx, admin, TeamMemberInput{Name: "Quan"})
	require.NoError(t, err)
	photo := media.upload(t, entity.MediaKindTeamPhoto, "", &withPhoto.ID)

	page, err := svc.ListWithPhotos(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)

	assert.Equal(t, withPhoto.ID, page.Items[0].ID)
	require.Len(t, page.Items[0].Photos, 1)
	assert.Equal(t, photo.ID, page.Items[0].Photos[0].ID)

	assert.Equal(t, without.ID, page.Items[1].ID)
	assert.NotNil(t, page.Items[1].Photos)
	assert.Empty(t, page.Items[1].Photos)
}
