package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type MediaRepository interface {
	Create(ctx context.Context, asset *entity.MediaAsset) error
	FindByID(ctx context.Context, kind entity.MediaKind, id uuid.UUID) (*entity.MediaAsset, error)
	FindByIDs(ctx context.Context, kind entity.MediaKind, ids []uuid.UUID) ([]entity.MediaAsset, error)
	FindByOwner(ctx context.Context, kind entity.MediaKind, ownerID uuid.UUID) ([]entity.MediaAsset, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByStorageKey(ctx context.Context, key string) (bool, error)
	NameTaken(ctx context.Context, kind entity.MediaKind, name string, excludeID *uuid.UUID) (bool, error)
	Rename(ctx context.Context, kind entity.MediaKind, id uuid.UUID, name string) error
	Delete(ctx context.Context, kind entity.MediaKind, id uuid.UUID) error
	DeleteByIDs(ctx context.Context, kind entity.MediaKind, ids []uuid.UUID) (int64, error)
	List(ctx context.Context, filter repository.MediaFilter, q repository.ListQuery) ([]entity.MediaAsset, int64, error)
	Reorder(ctx context.Context, kind entity.MediaKind, ids []uuid.UUID) error
}

type PendingUploadRepository interface {
	Create(ctx context.Context, pending *entity.PendingUpload) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PendingUpload, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindExpired(ctx context.Context, now time.Time, limit int) ([]entity.PendingUpload, error)
}

type ObjectStore interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
	ObjectExists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
}

type OwnerLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ObjectDeleteQueue hands storage keys to the background deleter.
type ObjectDeleteQueue interface {
	EnqueueObjectDelete(ctx context.Context, storageKey, reason string) error
}

type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

type MediaOptions struct {
	PresignTTL            time.Duration
	PendingTTL            time.Duration
	MaxBytes              int64
	BulkDeleteConcurrency int
}

type PresignInput struct {
	Name      string
	MimeType  string
	SizeBytes *int64
	OwnerID   *uuid.UUID
}

type PresignResult struct {
	UploadURL   string    `json:"upload_url"`
	Key         string    `json:"key"`
	PhotoID     uuid.UUID `json:"photo_id"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ConfirmInput struct {
	PhotoID   uuid.UUID
	Key       string
	Name      string
	SizeBytes int64
	MimeType  string
}

type MediaView struct {
	entity.MediaAsset
	URL string `json:"url"`
}

type BulkDeleteFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

type BulkDeleteResult struct {
	Success      bool                `json:"success"`
	DeletedCount int64               `json:"deleted_count"`
	Failed       []BulkDeleteFailure `json:"failed"`
	NotFound     []uuid.UUID         `json:"not_found"`
}

type SweepReport struct {
	Scanned          int `json:"scanned"`
	Orphaned         int `json:"orphaned"`
	AlreadyConfirmed int `json:"already_confirmed"`
	Failed           int `json:"failed"`
}

var mediaSortColumns = map[string]string{
	"name":      "name",
	"updatedAt": "updated_at",
	"createdAt": "created_at",
	"sortOrder": "sort_order",
}

// MediaService runs the presign / confirm upload flow and the media CRUD for every kind.
type MediaService struct {
	media    MediaRepository
	pending  PendingUploadRepository
	store    ObjectStore
	owners   map[string]OwnerLookup
	policies map[entity.MediaKind]KindPolicy
	opts     MediaOptions
	logger   Logger
	queue    ObjectDeleteQueue

	now       func() time.Time
	newID     func() uuid.UUID
	confirmed metric.Int64Counter
}

func NewMediaService(media MediaRepository, pending PendingUploadRepository, store ObjectStore, owners map[string]OwnerLookup, opts MediaOptions, logger Logger) *MediaService {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 15 * time.Minute
	}
	// The ledger entry must outlive the URL, otherwise a slow but valid upload could be swept.
	if opts.PendingTTL < opts.PresignTTL {
		opts.PendingTTL = opts.PresignTTL + 5*time.Minute
	}
	if opts.BulkDeleteConcurrency <= 0 {
		opts.BulkDeleteConcurrency = 8
	}
	return &MediaService{
		media:     media,
		pending:   pending,
		store:     store,
		owners:    owners,
		policies:  DefaultKindPolicies(),
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.New,
		confirmed: newUploadCounter(),
	}
}

// WithDeleteQueue routes orphan removal found by the sweep through a queue instead of
// deleting inline.
func (s *MediaService) WithDeleteQueue(queue ObjectDeleteQueue) *MediaService {
	s.queue = queue
	return s
}

func (s *MediaService) Policy(kind entity.MediaKind) (KindPolicy, error) {
	policy, ok := s.policies[kind]
	if !ok {
		return KindPolicy{}, BadRequest(fmt.Sprintf("unknown media kind %q", kind))
	}
	return policy, nil
}

func (s *MediaService) View(asset entity.MediaAsset) MediaView {
	return MediaView{MediaAsset: asset, URL: s.store.PublicURL(asset.StorageKey)}
}

func (s *MediaService) nameGuard(kind entity.MediaKind) *NameGuard {
	return NewNameGuard("name", func(ctx context.Context, candidate string, excludeID *uuid.UUID) (bool, error) {
		return s.media.NameTaken(ctx, kind, candidate, excludeID)
	})
}

func (s *MediaService) normalizeName(policy KindPolicy, raw string) (*string, error) {
	if policy.RequiresName {
		name, err := requireText("name", raw, 255)
		if err != nil {
			return nil, err
		}
		return &name, nil
	}
	name, err := optionalText("name", raw, 255)
	if err != nil || name == "" {
		return nil, err
	}
	return &name, nil
}

func (s *MediaService) checkSize(size int64) error {
	if size <= 0 {
		return BadRequest("size must be positive")
	}
	if s.opts.MaxBytes > 0 && size > s.opts.MaxBytes {
		return BadRequest(fmt.Sprintf("size exceeds the %d byte limit", s.opts.MaxBytes))
	}
	return nil
}

func (s *MediaService) resolveOwner(ctx context.Context, policy KindPolicy, ownerID *uuid.UUID) (*uuid.UUID, error) {
	if policy.Owner == "" {
		if ownerID != nil {
			return nil, BadRequest(fmt.Sprintf("%s do not take an owner", policy.Kind))
		}
		return nil, nil
	}
	if ownerID == nil || *ownerID == uuid.Nil {
		return nil, BadRequest(fmt.Sprintf("owner_id of the %s is required", policy.Owner))
	}
	lookup, ok := s.owners[policy.Owner]
	if !ok {
		return nil, Internal("owner lookup is not configured", fmt.Errorf("no lookup for %s", policy.Owner))
	}
	exists, err := lookup.Exists(ctx, *ownerID)
	if err != nil {
		return nil, Internal("failed to look up "+policy.Owner, err)
	}
	if !exists {
		return nil, NotFound(policy.Owner + " not found")
	}
	return ownerID, nil
}

// CreatePresignedURL checks the name, then signs a PUT for a fresh key and records the
// pending upload. No media row exists until ConfirmUpload.
func (s *MediaService) CreatePresignedURL(ctx context.Context, caller Caller, kind entity.MediaKind, in PresignInput) (*PresignResult, error) {
	ctx, span := tracer.Start(ctx, "media.presign", trace.WithAttributes(attribute.String("media.kind", string(kind))))
	defer span.End()

	if err := caller.Require(); err != nil {
		return nil, err
	}
	policy, err := s.Policy(kind)
	if err != nil {
		return nil, err
	}
	name, err := s.normalizeName(policy, in.Name)
	if err != nil {
		return nil, err
	}
	contentType, err := policy.NormalizeMIME(in.MimeType)
	if err != nil {
		return nil, err
	}
	if in.SizeBytes != nil {
		if err := s.checkSize(*in.SizeBytes); err != nil {
			return nil, err
		}
	}
	ownerID, err := s.resolveOwner(ctx, policy, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		if err := s.nameGuard(kind).Ensure(ctx, *name, nil); err != nil {
			return nil, err
		}
	}

	id := s.newID()
	key := kind.KeyFor(id)
	uploadURL, err := s.store.PresignPut(ctx, key, contentType, s.opts.PresignTTL)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, Internal("failed to create upload url", err)
	}

	now := s.now()
	pending := &entity.PendingUpload{
		ID:               id,
		Kind:             kind,
		StorageKey:       key,
		ExpectedName:     name,
		ExpectedMimeType: contentType,
		ExpectedSize:     in.SizeBytes,
		OwnerID:          ownerID,
		CreatedBy:        caller.ID,
		ExpiresAt:        now.Add(s.opts.PendingTTL),
	}
	if err := s.pending.Create(ctx, pending); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, Internal("failed to record pending upload", err)
	}

	return &PresignResult{
		UploadURL:   uploadURL,
		Key:         key,
		PhotoID:     id,
		ContentType: contentType,
		ExpiresAt:   now.Add(s.opts.PresignTTL),
	}, nil
}

// ConfirmUpload records the media row for an object the client has PUT. A name that was
// claimed in the meantime deletes the uploaded object and fails.
func (s *MediaService) ConfirmUpload(ctx context.Context, caller Caller, kind entity.MediaKind, in ConfirmInput) (*MediaView, error) {
	ctx, span := tracer.Start(ctx, "media.confirm", trace.WithAttributes(
		attribute.String("media.kind", string(kind)),
		attribute.String("media.id", in.PhotoID.String()),
	))
	defer span.End()

	if err := caller.Require(); err != nil {
		return nil, err
	}
	policy, err := s.Policy(kind)
	if err != nil {
		return nil, err
	}
	if in.PhotoID == uuid.Nil {
		return nil, BadRequest("photo_id is required")
	}
	if in.Key != kind.KeyFor(in.PhotoID) {
		return nil, BadRequest("key does not belong to this upload")
	}
	name, err := s.normalizeName(policy, in.Name)
	if err != nil {
		return nil, err
	}
	contentType, err := policy.NormalizeMIME(in.MimeType)
	if err != nil {
		return nil, err
	}
	if err := s.checkSize(in.SizeBytes); err != nil {
		return nil, err
	}

	// A repeated confirm must not run the compensating delete: the object belongs to the row.
	confirmed, err := s.media.ExistsByID(ctx, in.PhotoID)
	if err != nil {
		return nil, Internal("failed to check upload", err)
	}
	if confirmed {
		return nil, BadRequest("upload already confirmed")
	}

	pending, err := s.pending.FindByID(ctx, in.PhotoID)
	if err != nil {
		return nil, notFoundOr(err, "upload not found or expired", "failed to load pending upload")
	}
	if pending.Kind != kind || pending.StorageKey != in.Key {
		return nil, BadRequest("key does not belong to this upload")
	}
	if pending.IsExpired(s.now()) {
		return nil, BadRequest("upload expired, request a new upload url")
	}
	if pending.ExpectedMimeType != contentType {
		return nil, BadRequest("mime_type does not match the upload url")
	}
	// The owner may have been deleted, with its media cascade, after the presign.
	if _, err := s.resolveOwner(ctx, policy, pending.OwnerID); err != nil {
		if CodeOf(err) == CodeNotFound {
			s.discardUpload(ctx, pending, "owner deleted")
		}
		return nil, err
	}

	exists, err := s.store.ObjectExists(ctx, in.Key)
	if err != nil {
		return nil, Internal("failed to verify uploaded object", err)
	}
	if !exists {
		return nil, BadRequest("object has not been uploaded")
	}

	guard := s.nameGuard(kind)
	if name != nil {
		if err := guard.Ensure(ctx, *name, nil); err != nil {
			if errors.Is(err, ErrNameTaken) {
				s.discardUpload(ctx, pending, "name taken at confirm")
			}
			return nil, err
		}
	}

	size := in.SizeBytes
	asset := &entity.MediaAsset{
		ID:         in.PhotoID,
		Kind:       kind,
		Name:       name,
		StorageKey: in.Key,
		SizeBytes:  &size,
		MimeType:   &contentType,
		OwnerID:    pending.OwnerID,
		CreatedBy:  &caller.ID,
	}
	if err := s.media.Create(ctx, asset); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.resolveDuplicateConfirm(ctx, guard, pending, name)
		}
		span.SetStatus(codes.Error, err.Error())
		// The ledger entry stays, so a retried confirm can still succeed.
		return nil, Internal("failed to record media", err)
	}

	if err := s.pending.Delete(ctx, pending.ID); err != nil {
		s.logger.WarningWithContextf(ctx, "[Media] Confirmed %s but could not clear pending upload: %v", in.Key, err)
	}
	s.confirmed.Add(ctx, 1, metric.WithAttributes(attribute.String("media.kind", string(kind))))

	view := s.View(*asset)
	return &view, nil
}

// resolveDuplicateConfirm handles a unique violation on insert. Either a concurrent confirm of
// the same upload won, or another upload took the name after the pre-check.
func (s *MediaService) resolveDuplicateConfirm(ctx context.Context, guard *NameGuard, pending *entity.PendingUpload, name *string) error {
	confirmed, err := s.media.ExistsByID(ctx, pending.ID)
	if err != nil {
		return Internal("failed to check upload", err)
	}
	if confirmed {
		return BadRequest("upload already confirmed")
	}
	s.discardUpload(ctx, pending, "unique violation at confirm")
	if name != nil {
		return guard.Conflict(*name)
	}
	return BadRequest("upload conflicts with an existing media item")
}

// discardUpload is the compensating action of a failed confirm. When the object delete fails
// the pending entry is kept so the sweep retries it.
func (s *MediaService) discardUpload(ctx context.Context, pending *entity.PendingUpload, reason string) {
	if err := s.store.DeleteObject(ctx, pending.StorageKey); err != nil {
		s.logger.ErrorWithContextf(ctx, err, "[Media] Failed to delete %s after %s, leaving it to the sweep", pending.StorageKey, reason)
		return
	}
	if err := s.pending.Delete(ctx, pending.ID); err != nil {
		s.logger.WarningWithContextf(ctx, "[Media] Deleted %s but could not clear pending upload: %v", pending.StorageKey, err)
	}
	s.logger.InfoWithContextf(ctx, "[Media] Discarded upload %s: %s", pending.StorageKey, reason)
}

func (s *MediaService) Get(ctx context.Context, kind entity.MediaKind, id uuid.UUID) (*MediaView, error) {
	if _, err := s.Policy(kind); err != nil {
		return nil, err
	}
	asset, err := s.media.FindByID(ctx, kind, id)
	if err != nil {
		return nil, notFoundOr(err, "media not found", "failed to load media")
	}
	view := s.View(*asset)
	return &view, nil
}

func (s *MediaService) List(ctx context.Context, kind entity.MediaKind, ownerID *uuid.UUID, params ListParams) (*Page[MediaView], error) {
	policy, err := s.Policy(kind)
	if err != nil {
		return nil, err
	}
	sort := SortColumns{Columns: mediaSortColumns, Default: "updatedAt", DefaultDesc: true}
	if policy.Owner != "" {
		sort = SortColumns{Columns: mediaSortColumns, Default: "sortOrder"}
	}
	q, err := params.resolve(sort)
	if err != nil {
		return nil, err
	}

	assets, total, err := s.media.List(ctx, repository.MediaFilter{Kind: kind, OwnerID: ownerID}, q.ListQuery)
	if err != nil {
		return nil, Internal("failed to list media", err)
	}
	return mapPage(assets, total, q, s.View), nil
}

func (s *MediaService) ListByOwner(ctx context.Context, kind entity.MediaKind, ownerID uuid.UUID) ([]MediaView, error) {
	assets, err := s.media.FindByOwner(ctx, kind, ownerID)
	if err != nil {
		return nil, Internal("failed to load media", err)
	}
	views := make([]MediaView, 0, len(assets))
	for _, asset := range assets {
		views = append(views, s.View(asset))
	}
	return views, nil
}

func (s *MediaService) CheckNameAvailability(ctx context.Context, caller Caller, kind entity.MediaKind, name string, excludeID *uuid.UUID) (bool, error) {
	if err := caller.Require(); err != nil {
		return false, err
	}
	if _, err := s.Policy(kind); err != nil {
		return false, err
	}
	candidate, err := requireText("name", name, 255)
	if err != nil {
		return false, err
	}
	return s.nameGuard(kind).IsAvailable(ctx, candidate, excludeID)
}

func (s *MediaService) Rename(ctx context.Context, caller Caller, kind entity.MediaKind, id uuid.UUID, newName string) error {
	if err := caller.Require(); err != nil {
		return err
	}
	policy, err := s.Policy(kind)
	if err != nil {
		return err
	}
	name, err := requireText("name", newName, 255)
	if err != nil {
		return err
	}
	if _, err := s.media.FindByID(ctx, kind, id); err != nil {
		return notFoundOr(err, "media not found", "failed to load media")
	}

	guard := s.nameGuard(policy.Kind)
	if err := guard.Ensure(ctx, name, &id); err != nil {
		return err
	}
	if err := s.media.Rename(ctx, kind, id, name); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return guard.Conflict(name)
		}
		return notFoundOr(err, "media not found", "failed to rename media")
	}
	return nil
}

// Delete removes the object first and the row second.
func (s *MediaService) Delete(ctx context.Context, caller Caller, kind entity.MediaKind, id uuid.UUID) error {
	if err := caller.Require(); err != nil {
		return err
	}
	if _, err := s.Policy(kind); err != nil {
		return err
	}
	asset, err := s.media.FindByID(ctx, kind, id)
	if err != nil {
		return notFoundOr(err, "media not found", "failed to load media")
	}
	if err := s.store.DeleteObject(ctx, asset.StorageKey); err != nil {
		return Internal("failed to delete media object", err)
	}
	if err := s.media.Delete(ctx, kind, id); err != nil {
		return notFoundOr(err, "media not found", "failed to delete media")
	}
	return nil
}

// BulkDelete deletes objects concurrently, collects a result per id and removes only the rows
// whose object is gone.
func (s *MediaService) BulkDelete(ctx context.Context, caller Caller, kind entity.MediaKind, ids []uuid.UUID) (*BulkDeleteResult, error) {
	ctx, span := tracer.Start(ctx, "media.bulk_delete", trace.WithAttributes(
		attribute.String("media.kind", string(kind)),
		attribute.Int("media.requested", len(ids)),
	))
	defer span.End()

	if err := caller.Require(); err != nil {
		return nil, err
	}
	if _, err := s.Policy(kind); err != nil {
		return nil, err
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, NotFound("no media matched")
	}

	assets, err := s.media.FindByIDs(ctx, kind, ids)
	if err != nil {
		return nil, Internal("failed to load media", err)
	}
	if len(assets) == 0 {
		return nil, NotFound("no media matched")
	}

	deleted, failed := s.deleteObjects(ctx, assets)
	result := &BulkDeleteResult{
		Failed:   failed,
		NotFound: missingIDs(ids, assets),
	}
	if len(deleted) > 0 {
		count, err := s.media.DeleteByIDs(ctx, kind, deleted)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, Internal("objects were deleted but their rows could not be removed", err)
		}
		result.DeletedCount = count
	}
	result.Success = len(result.Failed) == 0
	span.SetAttributes(attribute.Int64("media.deleted", result.DeletedCount), attribute.Int("media.failed", len(failed)))
	return result, nil
}

// DeleteOwnedMedia removes every asset of the given kinds owned by ownerID. It fails if any
// object could not be deleted, leaving those rows in place.
func (s *MediaService) DeleteOwnedMedia(ctx context.Context, ownerID uuid.UUID, kinds ...entity.MediaKind) error {
	var failures int
	for _, kind := range kinds {
		assets, err := s.media.FindByOwner(ctx, kind, ownerID)
		if err != nil {
			return Internal("failed to load owned media", err)
		}
		if len(assets) == 0 {
			continue
		}
		deleted, failed := s.deleteObjects(ctx, assets)
		if _, err := s.media.DeleteByIDs(ctx, kind, deleted); err != nil {
			return Internal("failed to delete owned media", err)
		}
		failures += len(failed)
	}
	if failures > 0 {
		return Internal("failed to delete owned media", fmt.Errorf("%d object deletes failed", failures))
	}
	return nil
}

func (s *MediaService) deleteObjects(ctx context.Context, assets []entity.MediaAsset) ([]uuid.UUID, []BulkDeleteFailure) {
	var (
		mu      sync.Mutex
		results = make(map[uuid.UUID]error, len(assets))
		group   errgroup.Group
	)
	group.SetLimit(s.opts.BulkDeleteConcurrency)

	for _, asset := range assets {
		group.Go(func() error {
			err := s.store.DeleteObject(ctx, asset.StorageKey)
			if err != nil {
				s.logger.ErrorWithContextf(ctx, err, "[Media] Failed to delete object %s", asset.StorageKey)
			}
			mu.Lock()
			results[asset.ID] = err
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	deleted := make([]uuid.UUID, 0, len(assets))
	failed := make([]BulkDeleteFailure, 0)
	for _, asset := range assets {
		if err := results[asset.ID]; err != nil {
			failed = append(failed, BulkDeleteFailure{ID: asset.ID, Error: "failed to delete object from storage"})
			continue
		}
		deleted = append(deleted, asset.ID)
	}
	return deleted, failed
}

func missingIDs(requested []uuid.UUID, found []entity.MediaAsset) []uuid.UUID {
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, asset := range found {
		present[asset.ID] = struct{}{}
	}
	missing := make([]uuid.UUID, 0)
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Reorder sets sort_order to each id's position. ownerID, when given, must own every item.
func (s *MediaService) Reorder(ctx context.Context, caller Caller, kind entity.MediaKind, ownerID *uuid.UUID, ids []uuid.UUID) error {
	if err := caller.Require(); err != nil {
		return err
	}
	if _, err := s.Policy(kind); err != nil {
		return err
	}
	ordered, err := requireOrdering(ids)
	if err != nil {
		return err
	}
	assets, err := s.media.FindByIDs(ctx, kind, ordered)
	if err != nil {
		return Internal("failed to load media", err)
	}
	if len(assets) != len(ordered) {
		return NotFound("one or more media items not found")
	}
	if ownerID != nil {
		for _, asset := range assets {
			if asset.OwnerID == nil || *asset.OwnerID != *ownerID {
				return BadRequest("media does not belong to this owner")
			}
		}
	}
	if err := s.media.Reorder(ctx, kind, ordered); err != nil {
		return Internal("failed to reorder media", err)
	}
	return nil
}

// SweepExpiredUploads reconciles pending uploads past their TTL. Objects no row references are
// removed (through the queue when configured); entries for confirmed rows are just dropped.
func (s *MediaService) SweepExpiredUploads(ctx context.Context, batchSize int) (*SweepReport, error) {
	expired, err := s.pending.FindExpired(ctx, s.now(), batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired uploads: %w", err)
	}

	report := &SweepReport{Scanned: len(expired)}
	for _, pending := range expired {
		referenced, err := s.media.ExistsByStorageKey(ctx, pending.StorageKey)
		if err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Sweep] Failed to check %s", pending.StorageKey)
			report.Failed++
			continue
		}
		if !referenced {
			if err := s.removeOrphan(ctx, pending.StorageKey); err != nil {
				s.logger.ErrorWithContextf(ctx, err, "[Sweep] Failed to remove orphan %s", pending.StorageKey)
				report.Failed++
				continue
			}
		}
		if err := s.pending.Delete(ctx, pending.ID); err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Sweep] Failed to drop pending upload %s", pending.ID)
			report.Failed++
			continue
		}
		if referenced {
			report.AlreadyConfirmed++
		} else {
			report.Orphaned++
		}
	}
	return report, nil
}

func (s *MediaService) removeOrphan(ctx context.Context, key string) error {
	if s.queue != nil {
		return s.queue.EnqueueObjectDelete(ctx, key, "abandoned upload")
	}
	return s.store.DeleteObject(ctx, key)
}
