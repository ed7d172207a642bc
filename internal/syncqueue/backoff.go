package syncqueue

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

// BackoffDelay returns min(base * 2^attempts, max). The first retry after one
// failed attempt therefore waits 2*base.
func BackoffDelay(attempts int, base, maxDelay time.Duration) time.Duration {
	delay := base
	for i := 0; i < attempts; i++ {
		delay *= 2
		if delay >= maxDelay || delay <= 0 {
			return maxDelay
		}
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

// applyBackoff counts the failed attempt and either reschedules the item or
// marks it FAILED for good once attempts reach MaxAttempts.
func (p *Processor) applyBackoff(ctx context.Context, item *entities.SyncQueueItem, cause error) {
	attempts := item.Attempts + 1
	message := cause.Error()
	now := p.now()

	changes := entities.SyncQueueItemChanges{
		Attempts:     &attempts,
		ErrorMessage: &message,
	}

	var status entities.QueueStatus
	if attempts >= item.MaxAttempts {
		status = entities.QueueStatusFailed
		changes.ProcessedAt = &now
	} else {
		status = entities.QueueStatusPending
		next := now.Add(BackoffDelay(attempts, p.config.RetryBaseDelay, p.config.RetryMaxDelay))
		changes.ScheduledAt = &next
	}
	changes.Status = &status

	log := p.itemLogger(item)
	if err := p.deps.Queue.UpdateItem(ctx, item.ID, changes); err != nil {
		log.Error("failed to record item failure", zap.Error(err))
		return
	}

	item.Attempts = attempts
	item.Status = status
	item.ErrorMessage = message
	if changes.ScheduledAt != nil {
		item.ScheduledAt = *changes.ScheduledAt
		log.Info("sync item rescheduled", zap.Time("scheduled_at", item.ScheduledAt))
	} else {
		item.ProcessedAt = changes.ProcessedAt
		log.Warn("sync item failed permanently", zap.Int("max_attempts", item.MaxAttempts))
	}
}
