package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_queue_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Store{}, &entities.SyncQueueItem{})
	require.NoError(t, err)

	require.NoError(t, db.Create(&entities.Store{ID: "store-a", Name: "A", Code: "A01", SyncEnabled: true}).Error)
	require.NoError(t, db.Create(&entities.Store{ID: "store-b", Name: "B", Code: "B01", SyncEnabled: false}).Error)

	repo := NewRepository(db, 3)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func enqueue(t *testing.T, repo *Repository, storeID string, scheduledAt time.Time) *entities.SyncQueueItem {
	t.Helper()
	item := &entities.SyncQueueItem{
		StoreID:     storeID,
		EntityType:  entities.EntityTypeSpace,
		EntityID:    "space-1",
		Action:      entities.SyncActionUpdate,
		ScheduledAt: scheduledAt,
	}
	require.NoError(t, repo.Enqueue(context.Background(), item))
	return item
}

func TestRepository_Enqueue_Defaults(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	item := &entities.SyncQueueItem{
		StoreID:    "store-a",
		EntityType: entities.EntityTypePerson,
		EntityID:   "person-1",
		Action:     entities.SyncActionCreate,
	}
	require.NoError(t, repo.Enqueue(context.Background(), item))

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, entities.QueueStatusPending, item.Status)
	assert.Equal(t, 3, item.MaxAttempts)
	assert.False(t, item.ScheduledAt.IsZero())
}

func TestRepository_FindDueItems(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now()
	oldest := enqueue(t, repo, "store-a", now.Add(-3*time.Minute))
	middle := enqueue(t, repo, "store-b", now.Add(-2*time.Minute))
	enqueue(t, repo, "store-a", now.Add(time.Minute)) // not yet due

	done := enqueue(t, repo, "store-a", now.Add(-5*time.Minute))
	completed := entities.QueueStatusCompleted
	require.NoError(t, repo.UpdateItem(ctx, done.ID, entities.SyncQueueItemChanges{Status: &completed}))

	items, err := repo.FindDueItems(ctx, entities.QueueStatusPending, now, 50)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, oldest.ID, items[0].ID)
	assert.Equal(t, middle.ID, items[1].ID)

	t.Run("store is preloaded", func(t *testing.T) {
		assert.Equal(t, "A01", items[0].Store.Code)
		assert.True(t, items[0].Store.SyncEnabled)
		assert.False(t, items[1].Store.SyncEnabled)
	})
}

func TestRepository_FindDueItems_Limit(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	for i := 0; i < 7; i++ {
		enqueue(t, repo, "store-a", now.Add(-time.Duration(i+1)*time.Minute))
	}

	items, err := repo.FindDueItems(context.Background(), entities.QueueStatusPending, now, 5)
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestRepository_UpdateItem(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	item := enqueue(t, repo, "store-a", time.Now())

	status := entities.QueueStatusPending
	attempts := 2
	msg := "aims unavailable"
	next := time.Now().Add(4 * time.Second).Truncate(time.Second)
	err := repo.UpdateItem(ctx, item.ID, entities.SyncQueueItemChanges{
		Status:       &status,
		Attempts:     &attempts,
		ErrorMessage: &msg,
		ScheduledAt:  &next,
	})
	require.NoError(t, err)

	found, err := repo.FindItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Attempts)
	assert.Equal(t, "aims unavailable", found.ErrorMessage)
	assert.True(t, found.ScheduledAt.Equal(next))
	assert.Nil(t, found.ProcessedAt)
}

func TestRepository_UpdateItem_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	status := entities.QueueStatusCompleted
	err := repo.UpdateItem(context.Background(), "missing", entities.SyncQueueItemChanges{Status: &status})
	assert.True(t, errors.Is(err, entities.ErrNotFound))
}

func TestRepository_FindItemByID_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.FindItemByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, entities.ErrNotFound))
}

func TestRepository_ListAndCount(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		enqueue(t, repo, "store-a", time.Now())
	}
	failedItem := enqueue(t, repo, "store-b", time.Now())
	failed := entities.QueueStatusFailed
	require.NoError(t, repo.UpdateItem(ctx, failedItem.ID, entities.SyncQueueItemChanges{Status: &failed}))

	items, total, err := repo.List(ctx, ListFilter{StoreID: "store-a", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, items, 2)

	items, total, err = repo.List(ctx, ListFilter{Status: entities.QueueStatusFailed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, failedItem.ID, items[0].ID)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), counts[entities.QueueStatusPending])
	assert.Equal(t, int64(1), counts[entities.QueueStatusFailed])
}

func TestRepository_DeleteFinishedBefore(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now()
	statuses := []entities.QueueStatus{
		entities.QueueStatusCompleted,
		entities.QueueStatusFailed,
		entities.QueueStatusPending,
	}
	for i, status := range statuses {
		item := enqueue(t, repo, "store-a", now)
		s := status
		processed := now.Add(-48 * time.Hour)
		require.NoError(t, repo.UpdateItem(ctx, item.ID, entities.SyncQueueItemChanges{
			Status:      &s,
			ProcessedAt: &processed,
		}), fmt.Sprintf("item %d", i))
	}
	recent := enqueue(t, repo, "store-a", now)
	completed := entities.QueueStatusCompleted
	require.NoError(t, repo.UpdateItem(ctx, recent.ID, entities.SyncQueueItemChanges{Status: &completed, ProcessedAt: &now}))

	deleted, err := repo.DeleteFinishedBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, total, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
