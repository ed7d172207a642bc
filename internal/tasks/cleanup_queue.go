package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// SyncQueueCleaner deletes finished sync queue items.
type SyncQueueCleaner interface {
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupSyncQueueTask removes COMPLETED and FAILED sync queue items older
// than the retention period.
type CleanupSyncQueueTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for sync queue cleanup tasks.
func (t CleanupSyncQueueTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_sync_queue",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupSyncQueueProcessor creates a processor function for CleanupSyncQueueTask.
func CleanupSyncQueueProcessor(cleaner SyncQueueCleaner, logger *zap.Logger) backlite.QueueProcessor[CleanupSyncQueueTask] {
	return func(ctx context.Context, task CleanupSyncQueueTask) error {
		if cleaner == nil {
			return fmt.Errorf("sync queue cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 7
		}
		cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

		deleted, err := cleaner.DeleteFinishedBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("cleanup sync queue: %w", err)
		}

		logger.Info("cleaned up sync queue items",
			zap.Int64("deleted", deleted),
			zap.Int("retention_days", retentionDays))
		return nil
	}
}

// NewCleanupSyncQueueQueue creates a backlite queue for sync queue cleanup tasks.
func NewCleanupSyncQueueQueue(cleaner SyncQueueCleaner, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupSyncQueueProcessor(cleaner, logger))
}
