package tasks

import (
	"time"

	"github.com/mikestefanello/backlite"
)

// Config tunes the backlite workers behind the sync service.
type Config struct {
	Workers         int           // concurrent task workers (default: 2)
	ReleaseAfter    time.Duration // claimed tasks return to the queue after this (default: 15m)
	CleanupInterval time.Duration // how often finished tasks are purged (default: 1h)
}

func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// withDefaults fills zero values and keeps ReleaseAfter longer than every
// task timeout, so a slow sweep is never handed to a second worker.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = d.ReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if longest := longestTaskTimeout(); c.ReleaseAfter <= longest {
		c.ReleaseAfter = longest + time.Minute
	}
	return c
}

func longestTaskTimeout() time.Duration {
	var longest time.Duration
	for _, task := range []backlite.Task{
		SyncSweepTask{},
		SyncReprocessItemTask{},
		CleanupSyncQueueTask{},
		CleanupAuditEventsTask{},
	} {
		if timeout := task.Config().Timeout; timeout > longest {
			longest = timeout
		}
	}
	return longest
}
