package tasks

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

var ErrUnknownTaskType = errors.New("unknown task type")

// Dependencies are the collaborators the task processors run against.
type Dependencies struct {
	Sweeper      Sweeper
	Reprocessor  ItemReprocessor
	QueueCleaner SyncQueueCleaner
	AuditCleaner AuditEventCleaner
	Logger       *zap.Logger
}

// RegisterQueues registers every task queue with the client.
func RegisterQueues(c *Client, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c.Register(
		NewSyncSweepQueue(deps.Sweeper, logger),
		NewSyncReprocessItemQueue(deps.Reprocessor, logger),
		NewCleanupSyncQueueQueue(deps.QueueCleaner, logger),
		NewCleanupAuditEventsQueue(deps.AuditCleaner, logger),
	)
}

// TaskTypes lists the task types that can be triggered on demand.
func TaskTypes() []string {
	return []string{
		SyncSweepTask{}.Config().Name,
		SyncReprocessItemTask{}.Config().Name,
		CleanupSyncQueueTask{}.Config().Name,
		CleanupAuditEventsTask{}.Config().Name,
	}
}

// NewTask builds a task of the given type from JSON parameters. Empty params
// yield the task's zero value.
func NewTask(taskType string, params []byte) (backlite.Task, error) {
	switch taskType {
	case "sync_sweep":
		return decodeTask[SyncSweepTask](params)
	case "sync_reprocess_item":
		task, err := decodeTask[SyncReprocessItemTask](params)
		if err != nil {
			return nil, err
		}
		if task.ItemID == "" {
			return nil, fmt.Errorf("sync_reprocess_item: item_id is required")
		}
		return task, nil
	case "cleanup_sync_queue":
		return decodeTask[CleanupSyncQueueTask](params)
	case "cleanup_audit_events":
		return decodeTask[CleanupAuditEventsTask](params)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTaskType, taskType)
}

func decodeTask[T backlite.Task](params []byte) (T, error) {
	var task T
	if len(params) == 0 {
		return task, nil
	}
	if err := json.Unmarshal(params, &task); err != nil {
		return task, fmt.Errorf("invalid task parameters: %w", err)
	}
	return task, nil
}
