package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// ItemReprocessor reprocesses a single sync queue item.
type ItemReprocessor interface {
	ProcessItemByID(ctx context.Context, id string) error
}

// SyncReprocessItemTask retries one sync queue item out of band.
type SyncReprocessItemTask struct {
	ItemID string `json:"item_id"`
}

// Config returns the queue configuration for reprocess tasks. The sync queue
// applies its own backoff, so the task itself is not retried.
func (t SyncReprocessItemTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sync_reprocess_item",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SyncReprocessItemProcessor creates a processor function for SyncReprocessItemTask.
func SyncReprocessItemProcessor(reprocessor ItemReprocessor, logger *zap.Logger) backlite.QueueProcessor[SyncReprocessItemTask] {
	return func(ctx context.Context, task SyncReprocessItemTask) error {
		if reprocessor == nil {
			return fmt.Errorf("sync reprocessor not configured")
		}
		if task.ItemID == "" {
			return fmt.Errorf("reprocess task has no item id")
		}

		if err := reprocessor.ProcessItemByID(ctx, task.ItemID); err != nil {
			return fmt.Errorf("reprocess item %s: %w", task.ItemID, err)
		}

		logger.Info("reprocessed sync item", zap.String("item_id", task.ItemID))
		return nil
	}
}

// NewSyncReprocessItemQueue creates a backlite queue for reprocess tasks.
func NewSyncReprocessItemQueue(reprocessor ItemReprocessor, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(SyncReprocessItemProcessor(reprocessor, logger))
}
