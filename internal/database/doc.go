// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or mysql), migrations
//	├── queue/           # Sync queue store (due items, partial updates, retention)
//	├── stores/          # Store records and the per-store AIMS sync stamp
//	├── spaces/          # Space records and their sync state
//	├── people/          # Person records and their sync state
//	├── conference/      # Conference room records and their sync state
//	├── settings/        # Key/value settings
//	└── audit/           # Audit events
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(database.DriverSQLite, "./electis.db")
//
//	queueRepo := queue.NewRepository(db.DB, 5)
//	storesRepo := stores.NewRepository(db.DB)
//
//	items, err := queueRepo.FindDueItems(ctx, entities.QueueStatusPending, cutoff, 50)
//
// # Missing Rows
//
// Repositories return entities.ErrNotFound (wrapped) when a lookup or targeted
// update misses. Callers test for it with errors.Is.
//
// # Interface Implementations
//
// Compile-time checks for the interfaces these repositories satisfy live in
// internal/interfaces.
package database
