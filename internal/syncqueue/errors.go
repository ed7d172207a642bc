package syncqueue

import "errors"

// ErrItemNotFound is returned by ProcessItemByID for an unknown queue item.
var ErrItemNotFound = errors.New("Item not found") //nolint:staticcheck // operator-facing message

// ErrSyncDisabled is returned by ProcessItemByID when the item's store has sync turned off.
var ErrSyncDisabled = errors.New("sync is disabled for store")

// ErrItemBusy is returned by ProcessItemByID when the item is claimed by a
// sweep or a concurrent reprocess.
var ErrItemBusy = errors.New("queue item is being processed")

// ErrSweepInProgress means another sweep holds the in-process guard.
var ErrSweepInProgress = errors.New("sync sweep already in progress")

// ErrSweepLocked means another instance holds the distributed sweep lock.
var ErrSweepLocked = errors.New("sync sweep locked by another instance")

var (
	ErrMissingExternalID = errors.New("entity has no external id")
	ErrUnknownEntityType = errors.New("unknown entity type")
	ErrUnknownAction     = errors.New("unknown sync action")
)

// SyncDisabledMessage is written to items skipped because their store has sync off.
const SyncDisabledMessage = "Skipped: Sync disabled for store"

// StoreMissingMessage is written to items whose store record no longer exists.
const StoreMissingMessage = "Skipped: Store not found"
