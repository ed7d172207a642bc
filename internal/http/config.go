package http

import (
	"context"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/AvivElectis/electisSpace-sub002/internal/aims"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/queue"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
	"github.com/AvivElectis/electisSpace-sub002/internal/settingsstore"
	"github.com/AvivElectis/electisSpace-sub002/internal/syncqueue"
)

// Pinger reports database connectivity.
type Pinger interface {
	Ping() error
}

// SyncProcessor is the part of the queue processor exposed over HTTP.
type SyncProcessor interface {
	IsRunning() bool
	IsSweeping() bool
	LastResult() *syncqueue.SweepReport
	Sweep(ctx context.Context) (*syncqueue.ProcessResult, error)
	ProcessItemByID(ctx context.Context, id string) error
}

// QueueReader lists sync queue items.
type QueueReader interface {
	List(ctx context.Context, filter queue.ListFilter) ([]entities.SyncQueueItem, int64, error)
	CountByStatus(ctx context.Context) (map[entities.QueueStatus]int64, error)
}

// TaskRunner enqueues background tasks and reports their status.
type TaskRunner interface {
	Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// AIMSSettings reads and writes the runtime AIMS connection settings.
type AIMSSettings interface {
	AIMSCredentials(ctx context.Context) (aims.Credentials, error)
	GetAIMSSettingsInfo() settingsstore.AIMSSettingsInfo
	UpdateAIMSSettings(update settingsstore.AIMSSettingsUpdate) error
	ClearAIMSSettings() error
}

// CredentialsValidator checks AIMS credentials by logging in.
type CredentialsValidator interface {
	ValidateCredentials(ctx context.Context, creds aims.Credentials) error
}

// AuditLog reads audit events and records settings changes.
type AuditLog interface {
	GetEvents(storeID string, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsByType(eventType entities.AuditEventType, storeID string, limit, offset int) ([]entities.AuditEvent, int64, error)
	LogSettings(action, description string)
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. Optional dependencies disable their routes
// when nil.
type RouterConfig struct {
	// Core dependencies
	Database  Pinger
	Processor SyncProcessor
	Queue     QueueReader

	// Task queue client (optional)
	TaskClient TaskRunner

	// AIMS settings (optional)
	Settings  AIMSSettings
	Validator CredentialsValidator

	// Audit log (optional)
	Audit AuditLog

	// Application info
	Version string

	Logger *zap.Logger
}
