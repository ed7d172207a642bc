package syncqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

// resolveDeleteID finds the AIMS article id to delete. A row that is already
// gone falls back to the externalId carried in the payload. An empty result
// means there is nothing to delete.
func (p *Processor) resolveDeleteID(ctx context.Context, item *entities.SyncQueueItem) (string, error) {
	var (
		articleID string
		err       error
	)

	switch item.EntityType {
	case entities.EntityTypeSpace:
		var space *entities.Space
		if space, err = p.deps.Spaces.FindByID(ctx, item.EntityID); err == nil {
			articleID = space.ExternalID
		}
	case entities.EntityTypePerson:
		var person *entities.Person
		if person, err = p.deps.People.FindByID(ctx, item.EntityID); err == nil {
			articleID = personExternalID(person)
		}
	case entities.EntityTypeConference:
		var room *entities.ConferenceRoom
		if room, err = p.deps.Conference.FindByID(ctx, item.EntityID); err == nil {
			articleID = room.ExternalID
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, item.EntityType)
	}

	if errors.Is(err, entities.ErrNotFound) {
		return payloadExternalID(item.Payload), nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s %s: %w", item.EntityType, item.EntityID, err)
	}
	return articleID, nil
}

func personExternalID(person *entities.Person) string {
	if person.ExternalID != nil && *person.ExternalID != "" {
		return *person.ExternalID
	}
	if person.VirtualSpaceID != nil {
		return *person.VirtualSpaceID
	}
	return ""
}

// payloadExternalID reads the externalId hint from a queue payload.
func payloadExternalID(payload string) string {
	if payload == "" {
		return ""
	}
	var hint struct {
		ExternalID      string `json:"externalId"`
		ExternalIDSnake string `json:"external_id"`
	}
	if err := json.Unmarshal([]byte(payload), &hint); err != nil {
		return ""
	}
	if hint.ExternalID != "" {
		return hint.ExternalID
	}
	return hint.ExternalIDSnake
}
