package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/AvivElectis/electisSpace-sub002/internal/aims"
	"github.com/AvivElectis/electisSpace-sub002/internal/audit"
	"github.com/AvivElectis/electisSpace-sub002/internal/cli"
	"github.com/AvivElectis/electisSpace-sub002/internal/database"
	auditRepo "github.com/AvivElectis/electisSpace-sub002/internal/database/audit"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/conference"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/people"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/queue"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/settings"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/spaces"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/stores"
	"github.com/AvivElectis/electisSpace-sub002/internal/http"
	"github.com/AvivElectis/electisSpace-sub002/internal/lock"
	"github.com/AvivElectis/electisSpace-sub002/internal/scheduler"
	"github.com/AvivElectis/electisSpace-sub002/internal/settingsstore"
	"github.com/AvivElectis/electisSpace-sub002/internal/syncqueue"
	"github.com/AvivElectis/electisSpace-sub002/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Sync processor collaborators
var _ syncqueue.QueueStore = (*queue.Repository)(nil)
var _ syncqueue.StoreRepository = (*stores.Repository)(nil)
var _ syncqueue.SpaceRepository = (*spaces.Repository)(nil)
var _ syncqueue.PersonRepository = (*people.Repository)(nil)
var _ syncqueue.ConferenceRepository = (*conference.Repository)(nil)

// AIMS store lookup
var _ aims.StoreLookup = (*stores.Repository)(nil)

// Settings persistence
var _ settingsstore.Repository = (*settings.Repository)(nil)

// HTTP read models
var _ http.Pinger = (*database.Database)(nil)
var _ http.QueueReader = (*queue.Repository)(nil)
var _ http.AuditLog = (*audit.Service)(nil)
var _ http.AIMSSettings = (*settingsstore.SettingsStore)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ syncqueue.Gateway = (*aims.StoreGateway)(nil)
var _ http.CredentialsValidator = (*aims.Client)(nil)
var _ syncqueue.SweepLock = (*lock.RedisLock)(nil)

// =============================================================================
// Processor Consumers
// =============================================================================

var _ http.SyncProcessor = (*syncqueue.Processor)(nil)
var _ tasks.Sweeper = (*syncqueue.Processor)(nil)
var _ tasks.ItemReprocessor = (*syncqueue.Processor)(nil)
var _ cli.SweepRunner = (*syncqueue.Processor)(nil)
var _ cli.ItemReprocessor = (*syncqueue.Processor)(nil)

// =============================================================================
// Auditing and Maintenance
// =============================================================================

var _ syncqueue.Auditor = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*auditRepo.Repository)(nil)
var _ tasks.SyncQueueCleaner = (*queue.Repository)(nil)

// =============================================================================
// Task Queue
// =============================================================================

var _ http.TaskRunner = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
