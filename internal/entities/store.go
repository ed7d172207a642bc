package entities

import "time"

// Store is a tenant/location that owns spaces, people and rooms and carries
// the AIMS sync switch.
type Store struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	Name           string     `gorm:"size:255" json:"name"`
	Code           string     `gorm:"size:100;index" json:"code"` // AIMS store code
	SyncEnabled    bool       `json:"sync_enabled"`
	LastAimsSyncAt *time.Time `json:"last_aims_sync_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}
