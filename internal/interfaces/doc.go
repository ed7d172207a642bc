// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Sync Processor Collaborators (internal/syncqueue/processor.go)
//
//   - QueueStore: due-item fetch, lookup and partial update of sync queue items
//   - StoreRepository: stamps a store's last AIMS sync time
//   - SpaceRepository, PersonRepository, ConferenceRepository: entity lookup and sync write-back
//   - Gateway: pushes and deletes AIMS articles for a store
//   - Auditor: records sweep and reprocess outcomes (optional)
//   - SweepLock: cross-instance sweep lease (optional, Redis)
//
// ## HTTP Dependencies (internal/http/config.go)
//
//   - SyncProcessor, QueueReader, TaskRunner, AIMSSettings, CredentialsValidator, AuditLog
//
// ## Background Work (internal/tasks, internal/scheduler)
//
//   - Sweeper, ItemReprocessor, SyncQueueCleaner, AuditEventCleaner
//   - Enqueuer: hands cleanup tasks from the cron scheduler to the task queue
//
// # Adding a New Entity Type
//
// To sync a new kind of record to AIMS:
//
//  1. Add the model to internal/entities and the constant to EntityType.
//
//  2. Create sub-package internal/database/<name>/ with FindByID and UpdateSyncState.
//
//  3. Add an article builder in internal/syncqueue/article.go and a case in
//     Processor.buildArticle and Processor.writeBack.
//
//  4. Add a compile-time check:
//
//     var _ syncqueue.KioskRepository = (*kiosks.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
