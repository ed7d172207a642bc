// Command seed_demo creates a demo database with a store, spaces, people, a
// conference room and queued sync items.
// Usage: go run ./cmd/seed_demo [-db path/to/demo.db] [-store-code DEMO01]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/AvivElectis/electisSpace-sub002/internal/database"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/conference"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/people"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/queue"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/spaces"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/stores"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
	"github.com/AvivElectis/electisSpace-sub002/internal/logging"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	storeCode := flag.String("store-code", "DEMO01", "AIMS store code of the demo store")
	flag.Parse()

	logger, err := logging.New("info", logging.FormatConsole)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logger.Sugar()

	log.Infof("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(database.DriverSQLite, *dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	summary, err := seed(context.Background(), db, *storeCode, logger)
	if err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	log.Infow("Demo database generated successfully!",
		"spaces", summary.Spaces,
		"people", summary.People,
		"rooms", summary.Rooms,
		"queued", summary.Queued,
	)
}

type seedSummary struct {
	Spaces int
	People int
	Rooms  int
	Queued int
}

type demoSpace struct {
	ExternalID string
	Fields     map[string]any
}

func getDemoSpaces() []demoSpace {
	return []demoSpace{
		{ExternalID: "A-101", Fields: map[string]any{"name": "Desk A-101", "floor": 1, "field1": "Window"}},
		{ExternalID: "A-102", Fields: map[string]any{"name": "Desk A-102", "floor": 1, "data2": "Standing desk"}},
		{ExternalID: "B-201", Fields: map[string]any{"name": "Desk B-201", "floor": 2, "accessible": true}},
	}
}

// seed writes the demo rows and one CREATE queue item per record. Items for
// the paused store are queued too so the skip path is visible.
func seed(ctx context.Context, db *database.Database, storeCode string, logger *zap.Logger) (seedSummary, error) {
	var summary seedSummary
	log := logger.Sugar()

	storeRepo := stores.NewRepository(db.DB)
	spaceRepo := spaces.NewRepository(db.DB)
	peopleRepo := people.NewRepository(db.DB)
	roomRepo := conference.NewRepository(db.DB)
	queueRepo := queue.NewRepository(db.DB, queue.DefaultMaxAttempts)

	store := &entities.Store{Name: "Demo Office", Code: storeCode, SyncEnabled: true}
	if err := storeRepo.Create(ctx, store); err != nil {
		return summary, fmt.Errorf("create store: %w", err)
	}
	paused := &entities.Store{Name: "Paused Office", Code: storeCode + "-P"}
	if err := storeRepo.Create(ctx, paused); err != nil {
		return summary, fmt.Errorf("create paused store: %w", err)
	}

	enqueue := func(storeID string, entityType entities.EntityType, entityID string) error {
		item := &entities.SyncQueueItem{
			StoreID:    storeID,
			EntityType: entityType,
			EntityID:   entityID,
			Action:     entities.SyncActionCreate,
		}
		if err := queueRepo.Enqueue(ctx, item); err != nil {
			return fmt.Errorf("enqueue %s %s: %w", entityType, entityID, err)
		}
		summary.Queued++
		return nil
	}

	for _, s := range getDemoSpaces() {
		data, err := json.Marshal(s.Fields)
		if err != nil {
			return summary, err
		}
		space := &entities.Space{StoreID: store.ID, ExternalID: s.ExternalID, Data: string(data)}
		if err := spaceRepo.Create(ctx, space); err != nil {
			return summary, fmt.Errorf("create space %s: %w", s.ExternalID, err)
		}
		summary.Spaces++
		log.Infof("Saved space %s", s.ExternalID)
		if err := enqueue(store.ID, entities.EntityTypeSpace, space.ID); err != nil {
			return summary, err
		}
	}

	externalID := "EMP-001"
	virtualSpaceID := "VS-042"
	demoPeople := []*entities.Person{
		{StoreID: store.ID, ExternalID: &externalID, Data: `{"name":"Ada Lovelace","department":"R&D"}`},
		{StoreID: store.ID, VirtualSpaceID: &virtualSpaceID, Data: `{"name":"Grace Hopper","data3":"On call"}`},
	}
	for _, person := range demoPeople {
		if err := peopleRepo.Create(ctx, person); err != nil {
			return summary, fmt.Errorf("create person: %w", err)
		}
		summary.People++
		log.Infof("Saved person %s", person.ArticleID())
		if err := enqueue(store.ID, entities.EntityTypePerson, person.ID); err != nil {
			return summary, err
		}
	}

	room := &entities.ConferenceRoom{
		StoreID:      store.ID,
		ExternalID:   "C01",
		RoomName:     "Boardroom",
		HasMeeting:   true,
		MeetingName:  "Quarterly review",
		StartTime:    "10:00",
		EndTime:      "11:30",
		Participants: `["Ada Lovelace","Grace Hopper"]`,
	}
	if err := roomRepo.Create(ctx, room); err != nil {
		return summary, fmt.Errorf("create room: %w", err)
	}
	summary.Rooms++
	log.Infof("Saved conference room %s", room.ExternalID)
	if err := enqueue(store.ID, entities.EntityTypeConference, room.ID); err != nil {
		return summary, err
	}

	pausedSpace := &entities.Space{StoreID: paused.ID, ExternalID: "P-001", Data: `{"name":"Paused desk"}`}
	if err := spaceRepo.Create(ctx, pausedSpace); err != nil {
		return summary, fmt.Errorf("create paused space: %w", err)
	}
	summary.Spaces++
	if err := enqueue(paused.ID, entities.EntityTypeSpace, pausedSpace.ID); err != nil {
		return summary, err
	}

	return summary, nil
}
