// Package spaces provides database operations for space records.
package spaces

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AvivElectis/electisSpace-sub002/internal/database"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

// Repository handles all space database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new spaces repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a space, assigning an ID when unset.
func (r *Repository) Create(ctx context.Context, space *entities.Space) error {
	if space.ID == "" {
		space.ID = uuid.NewString()
	}
	if space.SyncStatus == "" {
		space.SyncStatus = entities.EntitySyncPending
	}
	return r.db.WithContext(ctx).Create(space).Error
}

// FindByID retrieves a space by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*entities.Space, error) {
	var space entities.Space
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&space).Error; err != nil {
		return nil, database.NotFound(err)
	}
	return &space, nil
}

// UpdateSyncState writes the sync status fields of a space.
func (r *Repository) UpdateSyncState(ctx context.Context, id string, state entities.SyncState) error {
	return database.UpdateSyncState(ctx, r.db, &entities.Space{}, id, state)
}
