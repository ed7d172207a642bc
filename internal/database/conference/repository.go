// Package conference provides database operations for conference room records.
package conference

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AvivElectis/electisSpace-sub002/internal/database"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

// Repository handles all conference room database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new conference room repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a room, assigning an ID when unset.
func (r *Repository) Create(ctx context.Context, room *entities.ConferenceRoom) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.SyncStatus == "" {
		room.SyncStatus = entities.EntitySyncPending
	}
	return r.db.WithContext(ctx).Create(room).Error
}

// FindByID retrieves a conference room by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*entities.ConferenceRoom, error) {
	var room entities.ConferenceRoom
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, database.NotFound(err)
	}
	return &room, nil
}

// UpdateSyncState writes the sync status fields of a conference room.
func (r *Repository) UpdateSyncState(ctx context.Context, id string, state entities.SyncState) error {
	return database.UpdateSyncState(ctx, r.db, &entities.ConferenceRoom{}, id, state)
}
