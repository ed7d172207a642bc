package http

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mikestefanello/backlite"

	"github.com/AvivElectis/electisSpace-sub002/internal/aims"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/queue"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
	"github.com/AvivElectis/electisSpace-sub002/internal/settingsstore"
	"github.com/AvivElectis/electisSpace-sub002/internal/syncqueue"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping() error { return f.err }

type fakeProcessor struct {
	running    bool
	sweeping   bool
	report     *syncqueue.SweepReport
	result     *syncqueue.ProcessResult
	sweepErr   error
	processErr error
	processed  []string
}

func (f *fakeProcessor) IsRunning() bool { return f.running }

func (f *fakeProcessor) IsSweeping() bool { return f.sweeping }

func (f *fakeProcessor) LastResult() *syncqueue.SweepReport { return f.report }

func (f *fakeProcessor) Sweep(_ context.Context) (*syncqueue.ProcessResult, error) {
	return f.result, f.sweepErr
}

func (f *fakeProcessor) ProcessItemByID(_ context.Context, id string) error {
	f.processed = append(f.processed, id)
	return f.processErr
}

type fakeQueueReader struct {
	items      []entities.SyncQueueItem
	counts     map[entities.QueueStatus]int64
	lastFilter queue.ListFilter
	err        error
}

func (f *fakeQueueReader) List(_ context.Context, filter queue.ListFilter) ([]entities.SyncQueueItem, int64, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.items, int64(len(f.items)), nil
}

func (f *fakeQueueReader) CountByStatus(_ context.Context) (map[entities.QueueStatus]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

type fakeTaskRunner struct {
	enqueued []backlite.Task
	statuses map[string]backlite.TaskStatus
	err      error
}

func (f *fakeTaskRunner) Enqueue(_ context.Context, tasks ...backlite.Task) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.enqueued = append(f.enqueued, tasks...)
	ids := make([]string, len(tasks))
	for i := range tasks {
		ids[i] = fmt.Sprintf("task-%d", len(f.enqueued)-len(tasks)+i+1)
	}
	return ids, nil
}

func (f *fakeTaskRunner) Status(_ context.Context, taskID string) (backlite.TaskStatus, error) {
	if f.err != nil {
		return 0, f.err
	}
	status, ok := f.statuses[taskID]
	if !ok {
		return backlite.TaskStatusNotFound, nil
	}
	return status, nil
}

type fakeSettings struct {
	creds     aims.Credentials
	info      settingsstore.AIMSSettingsInfo
	updates   []settingsstore.AIMSSettingsUpdate
	cleared   bool
	updateErr error
}

func (f *fakeSettings) AIMSCredentials(_ context.Context) (aims.Credentials, error) {
	return f.creds, nil
}

func (f *fakeSettings) GetAIMSSettingsInfo() settingsstore.AIMSSettingsInfo { return f.info }

func (f *fakeSettings) UpdateAIMSSettings(update settingsstore.AIMSSettingsUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeSettings) ClearAIMSSettings() error {
	f.cleared = true
	return nil
}

type fakeValidator struct {
	err     error
	checked []aims.Credentials
}

func (f *fakeValidator) ValidateCredentials(_ context.Context, creds aims.Credentials) error {
	f.checked = append(f.checked, creds)
	return f.err
}

type fakeAuditLog struct {
	mu        sync.Mutex
	events    []entities.AuditEvent
	settings  []string
	lastStore string
	lastType  entities.AuditEventType
	err       error
}

func (f *fakeAuditLog) GetEvents(storeID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	f.lastStore = storeID
	return f.events, int64(len(f.events)), f.err
}

func (f *fakeAuditLog) GetEventsByType(eventType entities.AuditEventType, storeID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	f.lastType = eventType
	f.lastStore = storeID
	return f.events, int64(len(f.events)), f.err
}

func (f *fakeAuditLog) LogSettings(action, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = append(f.settings, action)
}

var errBoom = errors.New("boom")
