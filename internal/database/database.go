package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the database and migrates every model. For sqlite the dsn
// is a file path; for mysql it is a go-sql-driver DSN.
func NewDatabase(driver, dsn string) (*Database, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Store{},
		&entities.Space{},
		&entities.Person{},
		&entities.ConferenceRoom{},
		&entities.SyncQueueItem{},
		&entities.Setting{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks connectivity of the underlying connection pool.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// NotFound maps gorm's missing-row error onto entities.ErrNotFound.
func NotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ErrNotFound
	}
	return err
}

// UpdateSyncState writes the sync status (and lastSyncedAt when set) of the
// record of the given model with the given ID.
func UpdateSyncState(ctx context.Context, db *gorm.DB, model any, id string, state entities.SyncState) error {
	updates := map[string]any{
		"sync_status": state.SyncStatus,
		"updated_at":  time.Now(),
	}
	if state.LastSyncedAt != nil {
		updates["last_synced_at"] = *state.LastSyncedAt
	}

	result := db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%T %s: %w", model, id, entities.ErrNotFound)
	}
	return nil
}
