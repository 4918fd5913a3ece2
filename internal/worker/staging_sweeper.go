package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper removes staged files older than a cutoff.
type Sweeper interface {
	Sweep(ctx context.Context, before time.Time) (int, error)
}

// StartStagingSweeper removes staged files older than staleAfter every
// interval until ctx is cancelled. It runs one pass immediately so that files
// left by a previous crash are reclaimed at boot. The returned channel is
// closed when the loop exits.
func StartStagingSweeper(ctx context.Context, sweeper Sweeper, interval, staleAfter time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if sweeper == nil || interval <= 0 {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		sweepOnce(ctx, sweeper, staleAfter, logger)
		for {
			select {
			case <-ctx.Done():
				logger.Info("staging sweeper stopped")
				return
			case <-ticker.C:
				sweepOnce(ctx, sweeper, staleAfter, logger)
			}
		}
	}()
	return done
}

func sweepOnce(ctx context.Context, sweeper Sweeper, staleAfter time.Duration, logger *zap.Logger) {
	removed, err := sweeper.Sweep(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		logger.Warn("staging sweep incomplete", zap.Int("removed", removed), zap.Error(err))
		return
	}
	if removed > 0 {
		logger.Info("staging sweep removed orphaned files", zap.Int("removed", removed))
	}
}
