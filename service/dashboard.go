package service

import (
	"context"

	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/infra"
	"golang.org/x/sync/errgroup"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type MediaCounter interface {
	CountByKind(ctx context.Context) (map[entity.MediaKind]int64, error)
}

type UnhandledCounter interface {
	CountUnhandled(ctx context.Context) (int64, error)
}

type StorageUsageSource interface {
	StorageUsage(ctx context.Context) (*infra.StorageUsage, error)
}

type DashboardSources struct {
	Products Counter
	News     Counter
	Team     Counter
	Pages    Counter
	Pending  Counter
	Media    MediaCounter
	Contact  UnhandledCounter
	// Storage is nil when the backend has no admin API.
	Storage StorageUsageSource
}

type DashboardSummary struct {
	Products       int64                      `json:"products"`
	News           int64                      `json:"news"`
	TeamMembers    int64                      `json:"team_members"`
	Pages          int64                      `json:"pages"`
	Media          map[entity.MediaKind]int64 `json:"media"`
	UnreadMessages int64                      `json:"unread_messages"`
	PendingUploads int64                      `json:"pending_uploads"`
	Storage        *infra.StorageUsage        `json:"storage,omitempty"`
}

type DashboardService struct {
	sources DashboardSources
	logger  Logger
}

func NewDashboardService(sources DashboardSources, logger Logger) *DashboardService {
	return &DashboardService{sources: sources, logger: logger}
}

func (s *DashboardService) Summary(ctx context.Context, caller Caller) (*DashboardSummary, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	summary := &DashboardSummary{}
	group, gctx := errgroup.WithContext(ctx)
	count := func(c Counter, dst *int64) {
		group.Go(func() error {
			n, err := c.Count(gctx)
			*dst = n
			return err
		})
	}
	count(s.sources.Products, &summary.Products)
	count(s.sources.News, &summary.News)
	count(s.sources.Team, &summary.TeamMembers)
	count(s.sources.Pages, &summary.Pages)
	count(s.sources.Pending, &summary.PendingUploads)
	group.Go(func() error {
		n, err := s.sources.Contact.CountUnhandled(gctx)
		summary.UnreadMessages = n
		return err
	})
	group.Go(func() error {
		media, err := s.sources.Media.CountByKind(gctx)
		summary.Media = media
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, Internal("failed to load dashboard", err)
	}

	if s.sources.Storage != nil {
		usage, err := s.sources.Storage.StorageUsage(ctx)
		if err != nil {
			s.logger.WarningWithContextf(ctx, "[Dashboard] Storage usage unavailable: %v", err)
		} else {
			summary.Storage = usage
		}
	}
	return summary, nil
}
