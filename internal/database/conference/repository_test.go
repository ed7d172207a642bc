package conference

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "conference.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.ConferenceRoom{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db)
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	room := &entities.ConferenceRoom{
		StoreID:      "store-1",
		ExternalID:   "C01",
		RoomName:     "Boardroom",
		HasMeeting:   true,
		MeetingName:  "Planning",
		StartTime:    "09:00",
		EndTime:      "10:00",
		Participants: `["Ada","Grace"]`,
	}
	require.NoError(t, repo.Create(ctx, room))
	assert.NotEmpty(t, room.ID)

	found, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, found.HasMeeting)

	names, err := found.ParticipantList()
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Grace"}, names)
}

func TestRepository_UpdateSyncState(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	room := &entities.ConferenceRoom{StoreID: "store-1", ExternalID: "C02"}
	require.NoError(t, repo.Create(ctx, room))

	at := time.Now().Truncate(time.Second)
	require.NoError(t, repo.UpdateSyncState(ctx, room.ID, entities.SyncState{
		SyncStatus:   entities.EntitySyncSynced,
		LastSyncedAt: &at,
	}))
	require.NoError(t, repo.UpdateSyncState(ctx, room.ID, entities.SyncState{SyncStatus: entities.EntitySyncError}))

	found, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.EntitySyncError, found.SyncStatus)
	require.NotNil(t, found.LastSyncedAt)
}

func TestRepository_NotFound(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	err = repo.UpdateSyncState(ctx, "missing", entities.SyncState{SyncStatus: entities.EntitySyncSynced})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
