// Package scheduler runs periodic maintenance for the sync service.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/AvivElectis/electisSpace-sub002/internal/logging"
	"github.com/AvivElectis/electisSpace-sub002/internal/tasks"
)

const DefaultSchedule = "0 3 * * *"

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer hands tasks to the background task queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error)
}

type MaintenanceConfig struct {
	Enabled            bool
	Schedule           string // cron expression, five fields
	QueueRetentionDays int
	AuditRetentionDays int
}

// MaintenanceScheduler enqueues the sync queue and audit cleanup tasks on a
// cron schedule.
type MaintenanceScheduler struct {
	enqueuer Enqueuer
	config   MaintenanceConfig
	logger   *zap.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewMaintenanceScheduler(enqueuer Enqueuer, cfg MaintenanceConfig, logger *zap.Logger) *MaintenanceScheduler {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceScheduler{
		enqueuer: enqueuer,
		config:   cfg,
		logger:   logger,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(logging.NewCronLogger(logger)),
		),
	}
}

// Start schedules the cleanup job. It is a no-op when disabled or already running.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.config.Enabled {
		s.logger.Info("maintenance scheduler disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.config.Schedule)
	s.logger.Info("maintenance scheduler started",
		zap.String("schedule", s.config.Schedule),
		zap.Timep("next_run", nextRun))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and removes the schedule.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	s.logger.Info("maintenance scheduler stopped")
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the cleanup runs next, or nil when stopped.
func (s *MaintenanceScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow enqueues the cleanup tasks immediately.
func (s *MaintenanceScheduler) RunNow(ctx context.Context) {
	ids, err := s.enqueuer.Enqueue(ctx,
		tasks.CleanupSyncQueueTask{RetentionDays: s.config.QueueRetentionDays},
		tasks.CleanupAuditEventsTask{RetentionDays: s.config.AuditRetentionDays},
	)
	if err != nil {
		s.logger.Error("failed to enqueue maintenance tasks", zap.Error(err))
		return
	}
	s.logger.Info("maintenance tasks enqueued", zap.Strings("task_ids", ids))
}

// ValidateCronSchedule validates a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// GetNextRunTime calculates the next activation of schedule after now.
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}
