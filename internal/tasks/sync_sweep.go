package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/AvivElectis/electisSpace-sub002/internal/syncqueue"
)

// Sweeper runs one guarded sync sweep.
type Sweeper interface {
	Sweep(ctx context.Context) (*syncqueue.ProcessResult, error)
}

// SyncSweepTask drains due sync queue items in the background.
type SyncSweepTask struct {
	Reason string `json:"reason,omitempty"`
}

// Config returns the queue configuration for sync sweep tasks.
func (t SyncSweepTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sync_sweep",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SyncSweepProcessor creates a processor function for SyncSweepTask. A sweep
// that is already running (here or on another instance) is not an error.
func SyncSweepProcessor(sweeper Sweeper, logger *zap.Logger) backlite.QueueProcessor[SyncSweepTask] {
	return func(ctx context.Context, task SyncSweepTask) error {
		if sweeper == nil {
			return fmt.Errorf("sync sweeper not configured")
		}

		result, err := sweeper.Sweep(ctx)
		if errors.Is(err, syncqueue.ErrSweepInProgress) || errors.Is(err, syncqueue.ErrSweepLocked) {
			logger.Info("sync sweep task skipped", zap.String("reason", task.Reason), zap.Error(err))
			return nil
		}
		if err != nil {
			return fmt.Errorf("sync sweep: %w", err)
		}

		logger.Info("sync sweep task finished",
			zap.String("reason", task.Reason),
			zap.Int("processed", result.Processed),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed))
		return nil
	}
}

// NewSyncSweepQueue creates a backlite queue for sync sweep tasks.
func NewSyncSweepQueue(sweeper Sweeper, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(SyncSweepProcessor(sweeper, logger))
}
