// Package audit records sync activity as audit events.
package audit

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AvivElectis/electisSpace-sub002/internal/database/audit"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo   *audit.Repository
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(event); err != nil {
			s.logger.Warn("failed to log audit event", zap.String("action", event.Action), zap.Error(err))
		}
	}()
}

// Wait blocks until pending asynchronous events are written.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogSweep records the outcome of a sync sweep.
func (s *Service) LogSweep(processed, succeeded, failed int, duration time.Duration, err error) {
	event := &entities.AuditEvent{
		EventType: entities.AuditEventSync,
		Action:    "sync_sweep",
		Description: fmt.Sprintf("Processed %d queue items (%d succeeded, %d failed) in %v",
			processed, succeeded, failed, duration.Round(time.Millisecond)),
		Status: entities.AuditStatusSuccess,
	}
	event.Metadata = metadata(map[string]any{
		"processed":   processed,
		"succeeded":   succeeded,
		"failed":      failed,
		"duration_ms": duration.Milliseconds(),
	})

	if err != nil {
		event.Description = "Sync sweep could not read the queue"
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	} else if failed > 0 {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// LogReprocess records a manual reprocess of one queue item.
func (s *Service) LogReprocess(storeID, itemID string, err error) {
	event := &entities.AuditEvent{
		StoreID:     storeID,
		EventType:   entities.AuditEventReprocess,
		Action:      "queue_item_reprocess",
		Description: "Reprocessed sync queue item " + itemID,
		EntityType:  "sync_queue_item",
		EntityID:    itemID,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogSettings records a settings change event.
func (s *Service) LogSettings(action, description string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventSettings,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events. An empty storeID matches all stores.
func (s *Service) GetEvents(storeID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(storeID, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, storeID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, storeID, limit, offset)
}

// DeleteOldEvents removes events created before olderThan.
func (s *Service) DeleteOldEvents(olderThan time.Time) (int64, error) {
	return s.repo.DeleteOldEvents(olderThan)
}

func metadata(values map[string]any) string {
	b, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
