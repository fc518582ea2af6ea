package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/infra"
	"github.com/tnqbao/charcoal-cms/repository"
	"github.com/tnqbao/charcoal-cms/service/servicetest"
)

type mediaFixture struct {
	svc     *MediaService
	media   *servicetest.MediaRepo
	pending *servicetest.PendingRepo
	store   *servicetest.Store
	owners  servicetest.Owners
	now     time.Time
}

func newMediaFixture(t *testing.T) *mediaFixture {
	t.Helper()
	f := &mediaFixture{
		media:   servicetest.NewMediaRepo(),
		pending: servicetest.NewPendingRepo(),
		store:   servicetest.NewStore(),
		owners:  servicetest.Owners{},
		now:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	lookups := map[string]OwnerLookup{OwnerProduct: f.owners, OwnerTeamMember: f.owners, OwnerPage: f.owners}
	f.svc = NewMediaService(f.media, f.pending, f.store, lookups, MediaOptions{
		PresignTTL:            15 * time.Minute,
		PendingTTL:            time.Hour,
		MaxBytes:              20 << 20,
		BulkDeleteConcurrency: 4,
	}, infra.NewNopLogger())
	f.svc.now = func() time.Time { return f.now }
	return f
}

var admin = Caller{ID: uuid.MustParse("6f1c4a8e-3d1b-4b6e-9a51-0c2d7e8f9a10"), Email: "owner@charcoal.test", Role: "owner", IsAuthenticated: true}

func (f *mediaFixture) presign(t *testing.T, kind entity.MediaKind, name string, ownerID *uuid.UUID) *PresignResult {
	t.Helper()
	res, err := f.svc.CreatePresignedURL(context.Background(), admin, kind, PresignInput{Name: name, MimeType: "image/jpeg", OwnerID: ownerID})
	require.NoError(t, err)
	return res
}

func (f *mediaFixture) confirm(kind entity.MediaKind, res *PresignResult, name string) (*MediaView, error) {
	return f.svc.ConfirmUpload(context.Background(), admin, kind, ConfirmInput{
		PhotoID:   res.PhotoID,
		Key:       res.Key,
		Name:      name,
		SizeBytes: 2048,
		MimeType:  res.ContentType,
	})
}

// upload runs presign, the client PUT and confirm.
func (f *mediaFixture) upload(t *testing.T, kind entity.MediaKind, name string, ownerID *uuid.UUID) *MediaView {
	t.Helper()
	res := f.presign(t, kind, name, ownerID)
	f.store.Put(res.Key, res.ContentType)
	view, err := f.confirm(kind, res, name)
	require.NoError(t, err)
	return view
}

func assertCode(t *testing.T, err error, code Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, CodeOf(err), "error: %v", err)
}

func TestCreatePresignedURL_NameTakenCreatesNothing(t *testing.T) {
	f := newMediaFixture(t)
	f.upload(t, entity.MediaKindGalleryPhoto, "sunset", nil)
	presignedBefore := len(f.store.Presigned)

	_, err := f.svc.CreatePresignedURL(context.Background(), admin, entity.MediaKindGalleryPhoto, PresignInput{Name: "sunset", MimeType: "image/png"})

	assertCode(t, err, CodeBadRequest)
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.Len(t, f.store.Presigned, presignedBefore)
	assert.Empty(t, f.pending.Entries)
	assert.Equal(t, 1, f.media.Count())
}

func TestCreatePresignedURL_ReturnsKindScopedKey(t *testing.T) {
	f := newMediaFixture(t)

	res, err := f.svc.CreatePresignedURL(context.Background(), admin, entity.MediaKindGalleryPhoto, PresignInput{Name: "harbor", MimeType: "Image/JPEG; charset=binary"})

	require.NoError(t, err)
	assert.Equal(t, "gallery-photos/"+res.PhotoID.String(), res.Key)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Contains(t, res.UploadURL, res.Key)
	assert.Equal(t, f.now.Add(15*time.Minute), res.ExpiresAt)

	entry, ok := f.pending.Entries[res.PhotoID]
	require.True(t, ok)
	assert.Equal(t, res.Key, entry.StorageKey)
	assert.Equal(t, f.now.Add(time.Hour), entry.ExpiresAt)
	assert.Equal(t, admin.ID, entry.CreatedBy)
	assert.Zero(t, f.media.Count())
}

func TestCreatePresignedURL_Validation(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	tooBig := int64(21 << 20)
	product := uuid.New()
	f.owners[product] = true
	missing := uuid.New()

	cases := []struct {
		name   string
		caller Caller
		kind   entity.MediaKind
		in     PresignInput
		code   Code
	}{
		{"anonymous", Anonymous(), entity.MediaKindGalleryPhoto, PresignInput{Name: "a", MimeType: "image/png"}, CodeUnauthorized},
		{"unknown kind", admin, entity.MediaKind("videos"), PresignInput{Name: "a", MimeType: "image/png"}, CodeBadRequest},
		{"gallery without name", admin, entity.MediaKindGalleryPhoto, PresignInput{Name: "  ", MimeType: "image/png"}, CodeBadRequest},
		{"pdf", admin, entity.MediaKindGalleryPhoto, PresignInput{Name: "a", MimeType: "application/pdf"}, CodeBadRequest},
		{"gif og image", admin, entity.MediaKindOGImage, PresignInput{MimeType: "image/gif", OwnerID: &product}, CodeBadRequest},
		{"too large", admin, entity.MediaKindGalleryPhoto, PresignInput{Name: "a", MimeType: "image/png", SizeBytes: &tooBig}, CodeBadRequest},
		{"owned kind without owner", admin, entity.MediaKindProductMedia, PresignInput{MimeType: "image/png"}, CodeBadRequest},
		{"owner missing", admin, entity.MediaKindProductMedia, PresignInput{MimeType: "image/png", OwnerID: &missing}, CodeNotFound},
		{"owner on gallery", admin, entity.MediaKindGalleryPhoto, PresignInput{Name: "a", MimeType: "image/png", OwnerID: &product}, CodeBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreatePresignedURL(ctx, tc.caller, tc.kind, tc.in)
			assertCode(t, err, tc.code)
		})
	}
	assert.Empty(t, f.store.Presigned)
	assert.Empty(t, f.pending.Entries)
}

func TestCreatePresignedURL_StorageFailure(t *testing.T) {
	f := newMediaFixture(t)
	f.store.PresignErr = errors.New("endpoint unreachable")

	_, err := f.svc.CreatePresignedURL(context.Background(), admin, entity.MediaKindGalleryPhoto, PresignInput{Name: "a", MimeType: "image/png"})

	assertCode(t, err, CodeInternal)
	assert.Equal(t, "failed to create upload url", MessageOf(err))
	assert.Empty(t, f.pending.Entries)
}

func TestConfirmUpload_ListContainsExactlyOneRow(t *testing.T) {
	f := newMediaFixture(t)
	res := f.presign(t, entity.MediaKindGalleryPhoto, "lanterns", nil)
	f.store.Put(res.Key, res.ContentType)

	view, err := f.confirm(entity.MediaKindGalleryPhoto, res, "lanterns")
	require.NoError(t, err)
	assert.Equal(t, res.PhotoID, view.ID)

	page, err := f.svc.List(context.Background(), entity.MediaKindGalleryPhoto, nil, ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, res.PhotoID, page.Items[0].ID)
	assert.Equal(t, "lanterns", *page.Items[0].Name)
	assert.Equal(t, res.Key, page.Items[0].StorageKey)
	assert.False(t, f.pending.Has(res.PhotoID))
}

func TestConfirmUpload_DuplicateLeavesObjectIntact(t *testing.T) {
	f := newMediaFixture(t)
	res := f.presign(t, entity.MediaKindGalleryPhoto, "pier", nil)
	f.store.Put(res.Key, res.ContentType)
	_, err := f.confirm(entity.MediaKindGalleryPhoto, res, "pier")
	require.NoError(t, err)

	_, err = f.confirm(entity.MediaKindGalleryPhoto, res, "pier")

	assertCode(t, err, CodeBadRequest)
	assert.Equal(t, "upload already confirmed", MessageOf(err))
	assert.Equal(t, 1, f.media.Count())
	assert.True(t, f.store.Has(res.Key))
}

func TestConfirmUpload_NameTakenAtConfirmDeletesObject(t *testing.T) {
	f := newMediaFixture(t)
	first := f.presign(t, entity.MediaKindGalleryPhoto, "dunes", nil)
	second := f.presign(t, entity.MediaKindGalleryPhoto, "dunes", nil)
	f.store.Put(first.Key, first.ContentType)
	f.store.Put(second.Key, second.ContentType)

	_, err := f.confirm(entity.MediaKindGalleryPhoto, first, "dunes")
	require.NoError(t, err)
	_, err = f.confirm(entity.MediaKindGalleryPhoto, second, "dunes")

	assertCode(t, err, CodeBadRequest)
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.False(t, f.store.Has(second.Key))
	assert.False(t, f.pending.Has(second.PhotoID))
	assert.True(t, f.store.Has(first.Key))
	assert.Equal(t, 1, f.media.Count())
}

func TestConfirmUpload_FailedCompensationKeepsLedgerEntry(t *testing.T) {
	f := newMediaFixture(t)
	first := f.presign(t, entity.MediaKindGalleryPhoto, "dunes", nil)
	second := f.presign(t, entity.MediaKindGalleryPhoto, "dunes", nil)
	f.store.Put(first.Key, first.ContentType)
	f.store.Put(second.Key, second.ContentType)
	f.store.FailDelete[second.Key] = true
	_, err := f.confirm(entity.MediaKindGalleryPhoto, first, "dunes")
	require.NoError(t, err)

	_, err = f.confirm(entity.MediaKindGalleryPhoto, second, "dunes")

	assertCode(t, err, CodeBadRequest)
	assert.True(t, f.pending.Has(second.PhotoID))
}

func TestConfirmUpload_UniqueViolationAfterPreCheck(t *testing.T) {
	f := newMediaFixture(t)
	res := f.presign(t, entity.MediaKindGalleryPhoto, "tide", nil)
	f.store.Put(res.Key, res.ContentType)

	// Another writer claims the name between the guard and the insert.
	f.media.OnNameTaken = func() {
		f.media.OnNameTaken = nil
		name := "tide"
		require.NoError(t, f.media.Create(context.Background(), &entity.MediaAsset{
			ID: uuid.New(), Kind: entity.MediaKindGalleryPhoto, Name: &name, StorageKey: "gallery-photos/other",
		}))
	}

	_, err := f.confirm(entity.MediaKindGalleryPhoto, res, "tide")

	assertCode(t, err, CodeBadRequest)
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.False(t, f.store.Has(res.Key))
	assert.Equal(t, 1, f.media.Count())
}

func TestConfirmUpload_Rejections(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	res := f.presign(t, entity.MediaKindGalleryPhoto, "reef", nil)

	t.Run("object not uploaded", func(t *testing.T) {
		_, err := f.confirm(entity.MediaKindGalleryPhoto, res, "reef")
		assertCode(t, err, CodeBadRequest)
		assert.Equal(t, "object has not been uploaded", MessageOf(err))
	})

	f.store.Put(res.Key, res.ContentType)

	t.Run("key from another upload", func(t *testing.T) {
		_, err := f.svc.ConfirmUpload(ctx, admin, entity.MediaKindGalleryPhoto, ConfirmInput{
			PhotoID: res.PhotoID, Key: "gallery-photos/" + uuid.NewString(), Name: "reef", SizeBytes: 10, MimeType: "image/jpeg",
		})
		assertCode(t, err, CodeBadRequest)
	})
	t.Run("wrong kind", func(t *testing.T) {
		_, err := f.svc.ConfirmUpload(ctx, admin, entity.MediaKindTeamPhoto, ConfirmInput{
			PhotoID: res.PhotoID, Key: entity.MediaKindTeamPhoto.KeyFor(res.PhotoID), SizeBytes: 10, MimeType: "image/jpeg",
		})
		assertCode(t, err, CodeBadRequest)
	})
	t.Run("mime differs from presign", func(t *testing.T) {
		_, err := f.svc.ConfirmUpload(ctx, admin, entity.MediaKindGalleryPhoto, ConfirmInput{
			PhotoID: res.PhotoID, Key: res.Key, Name: "reef", SizeBytes: 10, MimeType: "image/png",
		})
		assertCode(t, err, CodeBadRequest)
	})
	t.Run("zero size", func(t *testing.T) {
		_, err := f.svc.ConfirmUpload(ctx, admin, entity.MediaKindGalleryPhoto, ConfirmInput{
			PhotoID: res.PhotoID, Key: res.Key, Name: "reef", MimeType: "image/jpeg",
		})
		assertCode(t, err, CodeBadRequest)
	})
	t.Run("unknown upload", func(t *testing.T) {
		id := uuid.New()
		_, err := f.svc.ConfirmUpload(ctx, admin, entity.MediaKindGalleryPhoto, ConfirmInput{
			PhotoID: id, Key: entity.MediaKindGalleryPhoto.KeyFor(id), Name: "reef", SizeBytes: 10, MimeType: "image/jpeg",
		})
		assertCode(t, err, CodeNotFound)
	})
	t.Run("anonymous", func(t *testing.T) {
		_, err := f.svc.ConfirmUpload(ctx, Anonymous(), entity.MediaKindGalleryPhoto, ConfirmInput{
			PhotoID: res.PhotoID, Key: res.Key, Name: "reef", SizeBytes: 10, MimeType: "image/jpeg",
		})
		assertCode(t, err, CodeUnauthorized)
	})
	t.Run("expired", func(t *testing.T) {
		f.now = f.now.Add(2 * time.Hour)
		defer func() { f.now = f.now.Add(-2 * time.Hour) }()
		_, err := f.confirm(entity.MediaKindGalleryPhoto, res, "reef")
		assertCode(t, err, CodeBadRequest)
	})

	assert.Zero(t, f.media.Count())
	assert.True(t, f.store.Has(res.Key))
	assert.True(t, f.pending.Has(res.PhotoID))
}

func TestConfirmUpload_InsertFailureKeepsLedgerEntry(t *testing.T) {
	f := newMediaFixture(t)
	res := f.presign(t, entity.MediaKindGalleryPhoto, "cliff", nil)
	f.store.Put(res.Key, res.ContentType)
	f.media.Err = errors.New("connection reset")

	_, err := f.confirm(entity.MediaKindGalleryPhoto, res, "cliff")

	assertCode(t, err, CodeInternal)
	assert.True(t, f.pending.Has(res.PhotoID))
	assert.True(t, f.store.Has(res.Key))
}

func TestDelete_RemovesObjectAndRow(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	view := f.upload(t, entity.MediaKindGalleryPhoto, "kiln", nil)

	require.NoError(t, f.svc.Delete(ctx, admin, entity.MediaKindGalleryPhoto, view.ID))

	_, err := f.svc.Get(ctx, entity.MediaKindGalleryPhoto, view.ID)
	assertCode(t, err, CodeNotFound)
	assert.False(t, f.store.Has(view.StorageKey))
}

func TestDelete_StorageFailureKeepsRow(t *testing.T) {
	f := newMediaFixture(t)
	view := f.upload(t, entity.MediaKindGalleryPhoto, "kiln", nil)
	f.store.FailDelete[view.StorageKey] = true

	err := f.svc.Delete(context.Background(), admin, entity.MediaKindGalleryPhoto, view.ID)

	assertCode(t, err, CodeInternal)
	assert.Equal(t, 1, f.media.Count())
}

func TestBulkDelete_NothingMatched(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	f.upload(t, entity.MediaKindGalleryPhoto, "ember", nil)

	_, err := f.svc.BulkDelete(ctx, admin, entity.MediaKindGalleryPhoto, []uuid.UUID{})
	assertCode(t, err, CodeNotFound)

	_, err = f.svc.BulkDelete(ctx, admin, entity.MediaKindGalleryPhoto, []uuid.UUID{uuid.New(), uuid.New()})
	assertCode(t, err, CodeNotFound)

	assert.Equal(t, 1, f.media.Count())
}

func TestBulkDelete_CollectsPerItemResults(t *testing.T) {
	f := newMediaFixture(t)
	a := f.upload(t, entity.MediaKindGalleryPhoto, "a", nil)
	b := f.upload(t, entity.MediaKindGalleryPhoto, "b", nil)
	c := f.upload(t, entity.MediaKindGalleryPhoto, "c", nil)
	f.store.FailDelete[b.StorageKey] = true
	unknown := uuid.New()

	res, err := f.svc.BulkDelete(context.Background(), admin, entity.MediaKindGalleryPhoto, []uuid.UUID{a.ID, b.ID, c.ID, a.ID, unknown})

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.EqualValues(t, 2, res.DeletedCount)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, b.ID, res.Failed[0].ID)
	assert.Equal(t, []uuid.UUID{unknown}, res.NotFound)
	assert.Equal(t, 1, f.media.Count())
	assert.True(t, f.store.Has(b.StorageKey))
	assert.False(t, f.store.Has(a.StorageKey))
}

func TestBulkDelete_AllSucceeded(t *testing.T) {
	f := newMediaFixture(t)
	var ids []uuid.UUID
	for i := 0; i < 12; i++ {
		ids = append(ids, f.upload(t, entity.MediaKindGalleryPhoto, fmt.Sprintf("photo-%02d", i), nil).ID)
	}

	res, err := f.svc.BulkDelete(context.Background(), admin, entity.MediaKindGalleryPhoto, ids)

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.EqualValues(t, 12, res.DeletedCount)
	assert.Empty(t, res.Failed)
	assert.NotNil(t, res.NotFound)
	assert.Zero(t, f.media.Count())
}

func TestList_PagesAreDisjoint(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	for i := 0; i < 11; i++ {
		f.upload(t, entity.MediaKindGalleryPhoto, fmt.Sprintf("charcoal-%02d", i), nil)
	}

	first, err := f.svc.List(ctx, entity.MediaKindGalleryPhoto, nil, ListParams{Page: 1, Limit: 10, SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	second, err := f.svc.List(ctx, entity.MediaKindGalleryPhoto, nil, ListParams{Page: 2, Limit: 10, SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)

	assert.EqualValues(t, 11, first.Total)
	assert.EqualValues(t, 11, second.Total)
	assert.Len(t, first.Items, 10)
	assert.Len(t, second.Items, 1)
	seen := map[uuid.UUID]bool{}
	for _, item := range first.Items {
		seen[item.ID] = true
	}
	for _, item := range second.Items {
		assert.False(t, seen[item.ID], "item %s appears on both pages", item.ID)
	}
	assert.Equal(t, "charcoal-10", *second.Items[0].Name)
}

func TestList_RejectsUnknownSort(t *testing.T) {
	f := newMediaFixture(t)

	_, err := f.svc.List(context.Background(), entity.MediaKindGalleryPhoto, nil, ListParams{SortBy: "size"})

	assertCode(t, err, CodeBadRequest)
}

func TestRename(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	a := f.upload(t, entity.MediaKindGalleryPhoto, "alpha", nil)
	f.upload(t, entity.MediaKindGalleryPhoto, "beta", nil)

	err := f.svc.Rename(ctx, admin, entity.MediaKindGalleryPhoto, a.ID, "beta")
	assertCode(t, err, CodeBadRequest)
	assert.ErrorIs(t, err, ErrNameTaken)

	require.NoError(t, f.svc.Rename(ctx, admin, entity.MediaKindGalleryPhoto, a.ID, "alpha"))
	require.NoError(t, f.svc.Rename(ctx, admin, entity.MediaKindGalleryPhoto, a.ID, "gamma"))

	got, err := f.svc.Get(ctx, entity.MediaKindGalleryPhoto, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "gamma", *got.Name)

	err = f.svc.Rename(ctx, admin, entity.MediaKindGalleryPhoto, uuid.New(), "delta")
	assertCode(t, err, CodeNotFound)
}

func TestCheckNameAvailability(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	a := f.upload(t, entity.MediaKindGalleryPhoto, "alpha", nil)

	available, err := f.svc.CheckNameAvailability(ctx, admin, entity.MediaKindGalleryPhoto, "alpha", nil)
	require.NoError(t, err)
	assert.False(t, available)

	available, err = f.svc.CheckNameAvailability(ctx, admin, entity.MediaKindGalleryPhoto, "alpha", &a.ID)
	require.NoError(t, err)
	assert.True(t, available)

	// Names are scoped per kind.
	available, err = f.svc.CheckNameAvailability(ctx, admin, entity.MediaKindTeamPhoto, "alpha", nil)
	require.NoError(t, err)
	assert.True(t, available)
}

func TestReorder_OwnedMedia(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	product, other := uuid.New(), uuid.New()
	f.owners[product], f.owners[other] = true, true
	a := f.upload(t, entity.MediaKindProductMedia, "", &product)
	b := f.upload(t, entity.MediaKindProductMedia, "", &product)
	c := f.upload(t, entity.MediaKindProductMedia, "", &other)

	require.NoError(t, f.svc.Reorder(ctx, admin, entity.MediaKindProductMedia, &product, []uuid.UUID{b.ID, a.ID}))
	views, err := f.svc.ListByOwner(ctx, entity.MediaKindProductMedia, product)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, b.ID, views[0].ID)

	err = f.svc.Reorder(ctx, admin, entity.MediaKindProductMedia, &product, []uuid.UUID{a.ID, c.ID})
	assertCode(t, err, CodeBadRequest)

	err = f.svc.Reorder(ctx, admin, entity.MediaKindProductMedia, &product, []uuid.UUID{a.ID, a.ID})
	assertCode(t, err, CodeBadRequest)
}

func TestDeleteOwnedMedia(t *testing.T) {
	f := newMediaFixture(t)
	product := uuid.New()
	f.owners[product] = true
	m := f.upload(t, entity.MediaKindProductMedia, "", &product)
	p := f.upload(t, entity.MediaKindPackagingOption, "", &product)
	f.store.FailDelete[p.StorageKey] = true

	err := f.svc.DeleteOwnedMedia(context.Background(), product, entity.MediaKindProductMedia, entity.MediaKindPackagingOption)

	assertCode(t, err, CodeInternal)
	assert.False(t, f.store.Has(m.StorageKey))
	assert.Equal(t, 1, f.media.Count())
}

func TestConfirmUpload_OwnerDeletedAfterPresign(t *testing.T) {
	for _, kind := range []entity.MediaKind{entity.MediaKindProductMedia, entity.MediaKindTeamPhoto} {
		t.Run(string(kind), func(t *testing.T) {
			f := newMediaFixture(t)
			owner := uuid.New()
			f.owners[owner] = true
			res := f.presign(t, kind, "", &owner)
			f.store.Put(res.Key, res.ContentType)
			delete(f.owners, owner)

			view, err := f.confirm(kind, res, "")

			assertCode(t, err, CodeNotFound)
			assert.Nil(t, view)
			assert.Zero(t, f.media.Count())
			assert.False(t, f.store.Has(res.Key))
			assert.False(t, f.pending.Has(res.PhotoID))
		})
	}
}

func TestConfirmUpload_OwnerDeletedKeepsEntryWhenObjectDeleteFails(t *testing.T) {
	f := newMediaFixture(t)
	product := uuid.New()
	f.owners[product] = true
	res := f.presign(t, entity.MediaKindPackagingOption, "", &product)
	f.store.Put(res.Key, res.ContentType)
	f.store.FailDelete[res.Key] = true
	delete(f.owners, product)

	_, err := f.confirm(entity.MediaKindPackagingOption, res, "")

	assertCode(t, err, CodeNotFound)
	assert.Zero(t, f.media.Count())
	assert.True(t, f.store.Has(res.Key))
	assert.True(t, f.pending.Has(res.PhotoID))
}

func TestSweepExpiredUploads(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()
	queue := &servicetest.Queue{}
	f.svc.WithDeleteQueue(queue)

	abandoned := f.presign(t, entity.MediaKindGalleryPhoto, "abandoned", nil)
	f.store.Put(abandoned.Key, abandoned.ContentType)
	confirmed := f.presign(t, entity.MediaKindGalleryPhoto, "kept", nil)
	f.store.Put(confirmed.Key, confirmed.ContentType)
	_, err := f.confirm(entity.MediaKindGalleryPhoto, confirmed, "kept")
	require.NoError(t, err)
	// A confirm that could not clear its entry leaves it for the sweep.
	require.NoError(t, f.pending.Create(ctx, &entity.PendingUpload{
		ID: confirmed.PhotoID, Kind: entity.MediaKindGalleryPhoto, StorageKey: confirmed.Key,
		ExpectedMimeType: "image/jpeg", CreatedBy: admin.ID, ExpiresAt: f.now.Add(time.Hour),
	}))
	fresh := f.presign(t, entity.MediaKindGalleryPhoto, "fresh", nil)

	report, err := f.svc.SweepExpiredUploads(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, &SweepReport{}, report)

	f.now = f.now.Add(61 * time.Minute)
	fresh2 := f.presign(t, entity.MediaKindGalleryPhoto, "fresh-2", nil)
	report, err = f.svc.SweepExpiredUploads(ctx, 100)
	require.NoError(t, err)

	assert.Equal(t, &SweepReport{Scanned: 3, Orphaned: 2, AlreadyConfirmed: 1}, report)
	assert.ElementsMatch(t, []string{abandoned.Key, fresh.Key}, queue.Keys)
	assert.False(t, f.pending.Has(abandoned.PhotoID))
	assert.False(t, f.pending.Has(confirmed.PhotoID))
	assert.True(t, f.pending.Has(fresh2.PhotoID))
	assert.True(t, f.store.Has(confirmed.Key))
}

func TestSweepExpiredUploads_DeletesInlineWithoutQueue(t *testing.T) {
	f := newMediaFixture(t)
	abandoned := f.presign(t, entity.MediaKindGalleryPhoto, "abandoned", nil)
	f.store.Put(abandoned.Key, abandoned.ContentType)
	f.now = f.now.Add(2 * time.Hour)

	report, err := f.svc.SweepExpiredUploads(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Orphaned)
	assert.False(t, f.store.Has(abandoned.Key))
}

func TestUploadEndToEnd(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	res, err := f.svc.CreatePresignedURL(ctx, admin, entity.MediaKindGalleryPhoto, PresignInput{Name: "sunset-beach-01", MimeType: "image/jpeg"})
	require.NoError(t, err)
	f.store.Put(res.Key, res.ContentType)
	_, err = f.svc.ConfirmUpload(ctx, admin, entity.MediaKindGalleryPhoto, ConfirmInput{
		PhotoID: res.PhotoID, Key: res.Key, Name: "sunset-beach-01", SizeBytes: 183_204, MimeType: "image/jpeg",
	})
	require.NoError(t, err)

	page, err := f.svc.List(ctx, entity.MediaKindGalleryPhoto, nil, ListParams{Search: "sunset"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	item := page.Items[0]
	assert.Equal(t, res.PhotoID, item.ID)
	assert.Equal(t, servicetest.AssetBase+"/gallery-photos/"+res.PhotoID.String(), item.URL)
	assert.EqualValues(t, 183_204, *item.SizeBytes)
	assert.Equal(t, "image/jpeg", *item.MimeType)
}

func TestRepositoryErrorsMapToInternal(t *testing.T) {
	err := notFoundOr(fmt.Errorf("find: %w", repository.ErrNotFound), "gone", "boom")
	assertCode(t, err, CodeNotFound)

	err = notFoundOr(errors.New("timeout"), "gone", "boom")
	assertCode(t, err, CodeInternal)
	assert.Equal(t, "boom", MessageOf(err))
}
