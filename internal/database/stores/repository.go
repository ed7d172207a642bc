// Package stores provides database operations for store (tenant) records.
package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AvivElectis/electisSpace-sub002/internal/database"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

// Repository handles all store database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new stores repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a store, assigning an ID when unset.
func (r *Repository) Create(ctx context.Context, store *entities.Store) error {
	if store.ID == "" {
		store.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByID retrieves a store by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*entities.Store, error) {
	var store entities.Store
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error
	if err != nil {
		return nil, database.NotFound(err)
	}
	return &store, nil
}

// SetSyncEnabled toggles AIMS sync for a store.
func (r *Repository) SetSyncEnabled(ctx context.Context, id string, enabled bool) error {
	return r.update(ctx, id, map[string]any{"sync_enabled": enabled})
}

// UpdateLastAimsSync stamps the time of the last processed batch for the store.
func (r *Repository) UpdateLastAimsSync(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, map[string]any{"last_aims_sync_at": at})
}

func (r *Repository) update(ctx context.Context, id string, updates map[string]any) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&entities.Store{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("store %s: %w", id, entities.ErrNotFound)
	}
	return nil
}
