// Package queue provides database operations for the outbound AIMS sync queue.
//
// # Usage
//
//	repo := queue.NewRepository(db, 5)
//	items, err := repo.FindDueItems(ctx, entities.QueueStatusPending, time.Now().Add(-5*time.Second), 50)
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AvivElectis/electisSpace-sub002/internal/database"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

// DefaultMaxAttempts is used when neither the item nor the repository sets one.
const DefaultMaxAttempts = 5

// Repository handles all sync queue database operations.
type Repository struct {
	db          *gorm.DB
	maxAttempts int
}

// NewRepository creates a new queue repository. maxAttempts is the default
// retry budget stamped on enqueued items.
func NewRepository(db *gorm.DB, maxAttempts int) *Repository {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Repository{db: db, maxAttempts: maxAttempts}
}

// ListFilter narrows List results. Zero values are ignored.
type ListFilter struct {
	Status  entities.QueueStatus
	StoreID string
	Limit   int
	Offset  int
}

// Enqueue inserts a new item. ID, status, schedule time and retry budget are
// defaulted when unset.
func (r *Repository) Enqueue(ctx context.Context, item *entities.SyncQueueItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = entities.QueueStatusPending
	}
	if item.ScheduledAt.IsZero() {
		item.ScheduledAt = time.Now()
	}
	if item.MaxAttempts <= 0 {
		item.MaxAttempts = r.maxAttempts
	}
	return r.db.WithContext(ctx).Omit("Store").Create(item).Error
}

// FindDueItems returns up to limit items in the given status whose scheduled
// time is at or before scheduledBefore, oldest first, with their store loaded.
func (r *Repository) FindDueItems(ctx context.Context, status entities.QueueStatus, scheduledBefore time.Time, limit int) ([]entities.SyncQueueItem, error) {
	var items []entities.SyncQueueItem
	err := r.db.WithContext(ctx).
		Preload("Store").
		Where("status = ? AND scheduled_at <= ?", status, scheduledBefore).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("find due sync items: %w", err)
	}
	return items, nil
}

// FindItemByID returns one item with its store loaded.
func (r *Repository) FindItemByID(ctx context.Context, id string) (*entities.SyncQueueItem, error) {
	var item entities.SyncQueueItem
	err := r.db.WithContext(ctx).Preload("Store").Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, database.NotFound(err)
	}
	return &item, nil
}

// UpdateItem applies a partial update. Updating a missing item returns entities.ErrNotFound.
func (r *Repository) UpdateItem(ctx context.Context, id string, changes entities.SyncQueueItemChanges) error {
	updates := map[string]any{
		"updated_at": time.Now(),
	}
	if changes.Status != nil {
		updates["status"] = *changes.Status
	}
	if changes.Attempts != nil {
		updates["attempts"] = *changes.Attempts
	}
	if changes.ErrorMessage != nil {
		updates["error_message"] = *changes.ErrorMessage
	}
	if changes.ScheduledAt != nil {
		updates["scheduled_at"] = *changes.ScheduledAt
	}
	if changes.ProcessedAt != nil {
		updates["processed_at"] = *changes.ProcessedAt
	}

	result := r.db.WithContext(ctx).Model(&entities.SyncQueueItem{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("sync item %s: %w", id, entities.ErrNotFound)
	}
	return nil
}

// List returns items newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]entities.SyncQueueItem, int64, error) {
	var items []entities.SyncQueueItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.SyncQueueItem{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StoreID != "" {
		query = query.Where("store_id = ?", filter.StoreID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

// CountByStatus returns the number of items per status.
func (r *Repository) CountByStatus(ctx context.Context) (map[entities.QueueStatus]int64, error) {
	var rows []struct {
		Status entities.QueueStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&entities.SyncQueueItem{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entities.QueueStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// DeleteFinishedBefore removes COMPLETED and FAILED items processed before cutoff.
// Returns the number of deleted items.
func (r *Repository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status IN ? AND processed_at < ?",
			[]entities.QueueStatus{entities.QueueStatusCompleted, entities.QueueStatusFailed}, cutoff).
		Delete(&entities.SyncQueueItem{})
	return result.RowsAffected, result.Error
}
