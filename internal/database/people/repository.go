// Package people provides database operations for person records.
package people

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AvivElectis/electisSpace-sub002/internal/database"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

// Repository handles all person database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new people repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a person, assigning an ID when unset.
func (r *Repository) Create(ctx context.Context, person *entities.Person) error {
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	if person.SyncStatus == "" {
		person.SyncStatus = entities.EntitySyncPending
	}
	return r.db.WithContext(ctx).Create(person).Error
}

// FindByID retrieves a person by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*entities.Person, error) {
	var person entities.Person
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&person).Error; err != nil {
		return nil, database.NotFound(err)
	}
	return &person, nil
}

// UpdateSyncState writes the sync status fields of a person.
func (r *Repository) UpdateSyncState(ctx context.Context, id string, state entities.SyncState) error {
	return database.UpdateSyncState(ctx, r.db, &entities.Person{}, id, state)
}
