package worker

import (
	"context"
	"time"

	"github.com/tnqbao/charcoal-cms/infra"
	"github.com/tnqbao/charcoal-cms/service"
)

const sweepBatchSize = 200

type UploadSweeper interface {
	SweepExpiredUploads(ctx context.Context, batchSize int) (*service.SweepReport, error)
}

// PendingUploadSweeper periodically reconciles uploads that were presigned but never confirmed.
type PendingUploadSweeper struct {
	media    UploadSweeper
	interval time.Duration
	logger   *infra.LoggerClient
}

func NewPendingUploadSweeper(media UploadSweeper, interval time.Duration, logger *infra.LoggerClient) *PendingUploadSweeper {
	return &PendingUploadSweeper{media: media, interval: interval, logger: logger}
}

func (s *PendingUploadSweeper) Start(ctx context.Context) {
	s.logger.InfoWithContextf(ctx, "[Upload Sweeper] Running every %s", s.interval)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.InfoWithContextf(ctx, "[Upload Sweeper] Shutting down...")
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce sweeps batches until a batch comes back short.
func (s *PendingUploadSweeper) RunOnce(ctx context.Context) {
	for ctx.Err() == nil {
		report, err := s.media.SweepExpiredUploads(ctx, sweepBatchSize)
		if err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Upload Sweeper] Sweep failed: %v", err)
			return
		}
		if report.Scanned > 0 {
			s.logger.InfoWithContextf(ctx, "[Upload Sweeper] Scanned %d, orphaned %d, already confirmed %d, failed %d",
				report.Scanned, report.Orphaned, report.AlreadyConfirmed, report.Failed)
		}
		// Failed entries stay in the ledger; stop rather than rescan them in a loop.
		if report.Scanned < sweepBatchSize || report.Failed > 0 {
			return
		}
	}
}
