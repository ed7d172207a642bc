package entities

import "time"

type EntityType string

const (
	EntityTypeSpace      EntityType = "space"
	EntityTypePerson     EntityType = "person"
	EntityTypeConference EntityType = "conference"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeSpace, EntityTypePerson, EntityTypeConference:
		return true
	}
	return false
}

type SyncAction string

const (
	SyncActionCreate   SyncAction = "CREATE"
	SyncActionUpdate   SyncAction = "UPDATE"
	SyncActionDelete   SyncAction = "DELETE"
	SyncActionSyncFull SyncAction = "SYNC_FULL"
)

func (a SyncAction) Valid() bool {
	switch a {
	case SyncActionCreate, SyncActionUpdate, SyncActionDelete, SyncActionSyncFull:
		return true
	}
	return false
}

type QueueStatus string

const (
	QueueStatusPending    QueueStatus = "PENDING"
	QueueStatusProcessing QueueStatus = "PROCESSING"
	QueueStatusCompleted  QueueStatus = "COMPLETED"
	QueueStatusFailed     QueueStatus = "FAILED"
)

func (s QueueStatus) Valid() bool {
	switch s {
	case QueueStatusPending, QueueStatusProcessing, QueueStatusCompleted, QueueStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the automatic sweep will never pick the item up again.
func (s QueueStatus) Terminal() bool {
	return s == QueueStatusCompleted || s == QueueStatusFailed
}

// SyncQueueItem is one pending outbound mutation destined for AIMS.
type SyncQueueItem struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	StoreID      string      `gorm:"index;size:36" json:"store_id"`
	Store        Store       `gorm:"foreignKey:StoreID;references:ID" json:"-"`
	EntityType   EntityType  `gorm:"size:20" json:"entity_type"`
	EntityID     string      `gorm:"size:36;index" json:"entity_id"`
	Action       SyncAction  `gorm:"size:20" json:"action"`
	Payload      string      `gorm:"type:text" json:"payload,omitempty"` // JSON hint; entities are re-read at processing time
	Status       QueueStatus `gorm:"size:20;index:idx_sync_queue_due,priority:1" json:"status"`
	ScheduledAt  time.Time   `gorm:"index:idx_sync_queue_due,priority:2" json:"scheduled_at"`
	Attempts     int         `json:"attempts"`
	MaxAttempts  int         `json:"max_attempts"`
	ErrorMessage string      `gorm:"type:text" json:"error_message,omitempty"`
	ProcessedAt  *time.Time  `json:"processed_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (SyncQueueItem) TableName() string {
	return "sync_queue"
}

// SyncQueueItemChanges is a partial update of a queue item. Nil fields are left untouched.
type SyncQueueItemChanges struct {
	Status       *QueueStatus
	Attempts     *int
	ErrorMessage *string
	ScheduledAt  *time.Time
	ProcessedAt  *time.Time
}
