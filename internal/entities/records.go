package entities

import (
	"encoding/json"
	"time"
)

type EntitySyncStatus string

const (
	EntitySyncPending EntitySyncStatus = "PENDING"
	EntitySyncSynced  EntitySyncStatus = "SYNCED"
	EntitySyncError   EntitySyncStatus = "ERROR"
)

// SyncState is the pair of fields the sync processor writes back on records.
type SyncState struct {
	SyncStatus   EntitySyncStatus `gorm:"size:20;default:PENDING" json:"sync_status"`
	LastSyncedAt *time.Time       `json:"last_synced_at,omitempty"`
}

type Space struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	StoreID    string `gorm:"index;size:36" json:"store_id"`
	ExternalID string `gorm:"size:100;index" json:"external_id"`
	Data       string `gorm:"type:text" json:"data,omitempty"` // JSON object of dynamic fields
	SyncState
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Space) TableName() string {
	return "spaces"
}

// Fields decodes the dynamic Data column. An empty column yields an empty map.
func (s *Space) Fields() (map[string]any, error) {
	return decodeFields(s.Data)
}

type Person struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	StoreID        string  `gorm:"index;size:36" json:"store_id"`
	ExternalID     *string `gorm:"size:100;index" json:"external_id,omitempty"`
	VirtualSpaceID *string `gorm:"size:100" json:"virtual_space_id,omitempty"`
	Data           string  `gorm:"type:text" json:"data,omitempty"`
	SyncState
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Person) TableName() string {
	return "people"
}

func (p *Person) Fields() (map[string]any, error) {
	return decodeFields(p.Data)
}

// ArticleID is the AIMS article id: external id, then virtual space id, then local id.
func (p *Person) ArticleID() string {
	if p.ExternalID != nil && *p.ExternalID != "" {
		return *p.ExternalID
	}
	if p.VirtualSpaceID != nil && *p.VirtualSpaceID != "" {
		return *p.VirtualSpaceID
	}
	return p.ID
}

type ConferenceRoom struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	StoreID      string `gorm:"index;size:36" json:"store_id"`
	ExternalID   string `gorm:"size:100;index" json:"external_id"`
	RoomName     string `gorm:"size:255" json:"room_name"`
	HasMeeting   bool   `json:"has_meeting"`
	MeetingName  string `gorm:"size:255" json:"meeting_name"`
	StartTime    string `gorm:"size:20" json:"start_time"`
	EndTime      string `gorm:"size:20" json:"end_time"`
	Participants string `gorm:"type:text" json:"participants,omitempty"` // JSON array of names
	SyncState
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ConferenceRoom) TableName() string {
	return "conference_rooms"
}

// ParticipantList decodes the Participants column.
func (c *ConferenceRoom) ParticipantList() ([]string, error) {
	if c.Participants == "" {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(c.Participants), &names); err != nil {
		return nil, err
	}
	return names, nil
}

func decodeFields(raw string) (map[string]any, error) {
	fields := make(map[string]any)
	if raw == "" {
		return fields, nil
	}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
