package syncqueue

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/AvivElectis/electisSpace-sub002/internal/aims"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

const (
	customFieldSlots = 5

	meetingStatusBusy = "MEETING"
	meetingStatusFree = "AVAILABLE"
	defaultPersonName = "Person"
)

func BuildSpaceArticle(space *entities.Space) (aims.Article, error) {
	if space.ExternalID == "" {
		return aims.Article{}, fmt.Errorf("space %s: %w", space.ID, ErrMissingExternalID)
	}
	fields, err := space.Fields()
	if err != nil {
		return aims.Article{}, fmt.Errorf("space %s: decode data: %w", space.ID, err)
	}

	return aims.Article{
		ArticleID:   space.ExternalID,
		ArticleName: fieldOr(fields, "name", space.ExternalID),
		NFCURL:      fieldOr(fields, "nfcData", ""),
		Data:        ExtractCustomFields(fields),
	}, nil
}

func BuildPersonArticle(person *entities.Person) (aims.Article, error) {
	fields, err := person.Fields()
	if err != nil {
		return aims.Article{}, fmt.Errorf("person %s: decode data: %w", person.ID, err)
	}

	return aims.Article{
		ArticleID:   person.ArticleID(),
		ArticleName: fieldOr(fields, "name", defaultPersonName),
		NFCURL:      fieldOr(fields, "nfcData", ""),
		Data:        ExtractCustomFields(fields),
	}, nil
}

// BuildConferenceArticle maps a room onto the fixed data1..data5 layout:
// status, meeting name, start, end, participants.
func BuildConferenceArticle(room *entities.ConferenceRoom) (aims.Article, error) {
	if room.ExternalID == "" {
		return aims.Article{}, fmt.Errorf("conference room %s: %w", room.ID, ErrMissingExternalID)
	}
	participants, err := room.ParticipantList()
	if err != nil {
		return aims.Article{}, fmt.Errorf("conference room %s: decode participants: %w", room.ID, err)
	}

	status := meetingStatusFree
	if room.HasMeeting {
		status = meetingStatusBusy
	}

	return aims.Article{
		ArticleID:   room.ExternalID,
		ArticleName: room.RoomName,
		Data: map[string]string{
			"data1": status,
			"data2": room.MeetingName,
			"data3": room.StartTime,
			"data4": room.EndTime,
			"data5": strings.Join(participants, ", "),
		},
	}, nil
}

// ExtractCustomFields copies field1..field5 and data1..data5 onto the AIMS
// data1..data5 slots. dataN wins over fieldN. Null values and every other key
// are dropped.
func ExtractCustomFields(fields map[string]any) map[string]string {
	out := make(map[string]string)
	for i := 1; i <= customFieldSlots; i++ {
		slot := "data" + strconv.Itoa(i)
		for _, key := range []string{"field" + strconv.Itoa(i), slot} {
			if v, ok := fields[key]; ok && v != nil {
				out[slot] = stringify(v)
			}
		}
	}
	return out
}

func fieldOr(fields map[string]any, key, fallback string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return fallback
	}
	return stringify(v)
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
