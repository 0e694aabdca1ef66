package jobs

import (
	"sync"
	"testing"
	"time"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/dal"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/engine"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/logger"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/pubsub"
)

func init() {
	logger.Init()
}

type capturePublisher struct {
	mu     sync.Mutex
	events []pubsub.Event
}

func (p *capturePublisher) Publish(event pubsub.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) last(t *testing.T) pubsub.Event {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		t.Fatal("no events published")
	}
	return p.events[len(p.events)-1]
}

func seedGames(t *testing.T, store dal.LeagueDAL) {
	t.Helper()
	score := func(n int) *int { return &n }
	week := 1
	games := []*models.GameFact{
		{SeasonYear: "2025", SeasonType: models.SeasonTypeRegular, Week: &week, HomeTeamID: "buf", AwayTeamID: "mia", HomeScore: score(30), AwayScore: score(10), Status: models.StatusFinal},
		{SeasonYear: "2025", SeasonType: models.SeasonTypeRegular, Week: &week, HomeTeamID: "nyj", AwayTeamID: "ne", HomeScore: score(21), AwayScore: score(14), Status: models.StatusFinal},
	}
	for _, g := range games {
		if _, err := store.AddGame(g); err != nil {
			t.Fatalf("AddGame() failed: %v", err)
		}
	}
}

func TestConsumerHandleComputesAndPersists(t *testing.T) {
	store := dal.NewMemoryDAL()
	seedGames(t, store)

	publisher := &capturePublisher{}
	consumer := NewConsumer(store, engine.NewSnapshotService(), publisher)

	consumer.Handle(pubsub.Event{
		Type: pubsub.EventDraftOrderRequest,
		Payload: map[string]interface{}{
			"seasonYear": "2025",
			"seasonType": float64(2),
			"mode":       "current",
		},
	})

	event := publisher.last(t)
	if event.Type != pubsub.EventDraftOrderComputed {
		t.Fatalf("expected %s, got %s", pubsub.EventDraftOrderComputed, event.Type)
	}
	if event.Payload["code"] != CodeOK {
		t.Fatalf("expected OK, got %v (message: %v)", event.Payload["code"], event.Payload["message"])
	}

	snapshotID, ok := event.Payload["snapshotId"].(string)
	if !ok || snapshotID == "" {
		t.Fatalf("expected snapshotId in payload, got %v", event.Payload)
	}

	snapshot, err := store.GetSnapshot(snapshotID)
	if err != nil {
		t.Fatalf("GetSnapshot() failed: %v", err)
	}
	if len(snapshot.PickOrder) != 32 {
		t.Errorf("expected pick order covering all 32 teams, got %d", len(snapshot.PickOrder))
	}
	// Worst team picks first; buf is 1-0 so it must pick after winless teams
	last := snapshot.PickOrder[len(snapshot.PickOrder)-1]
	if last != "buf" && last != "nyj" {
		t.Errorf("expected a winning team to pick last, got %s", last)
	}
}

func TestConsumerHandleProjectionMode(t *testing.T) {
	store := dal.NewMemoryDAL()
	seedGames(t, store)

	publisher := &capturePublisher{}
	consumer := NewConsumer(store, engine.NewSnapshotService(), publisher)

	consumer.Handle(pubsub.Event{
		Type: pubsub.EventDraftOrderRequest,
		Payload: map[string]interface{}{
			"seasonYear":  "2025",
			"seasonType":  float64(2),
			"mode":        "projection",
			"throughWeek": float64(10),
		},
	})

	event := publisher.last(t)
	if event.Payload["code"] != CodeOK {
		t.Fatalf("expected OK, got %v", event.Payload["code"])
	}
	if event.Payload["strategy"] != engine.BaselineStrategyName {
		t.Errorf("expected defaulted strategy %q, got %v", engine.BaselineStrategyName, event.Payload["strategy"])
	}
}

func TestConsumerHandleValidationError(t *testing.T) {
	store := dal.NewMemoryDAL()
	publisher := &capturePublisher{}
	consumer := NewConsumer(store, engine.NewSnapshotService(), publisher)

	testCases := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing seasonYear", map[string]interface{}{"seasonType": float64(2), "mode": "current"}},
		{"missing seasonType", map[string]interface{}{"seasonYear": "2025", "mode": "current"}},
		{"bad seasonType", map[string]interface{}{"seasonYear": "2025", "seasonType": float64(9), "mode": "current"}},
		{"bad mode", map[string]interface{}{"seasonYear": "2025", "seasonType": float64(2), "mode": "speculative"}},
		{"unknown strategy", map[string]interface{}{"seasonYear": "2025", "seasonType": float64(2), "mode": "projection", "strategy": "sos-adjusted"}},
		{"non-numeric throughWeek", map[string]interface{}{"seasonYear": "2025", "seasonType": float64(2), "mode": "current", "throughWeek": "ten"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			consumer.Handle(pubsub.Event{Type: pubsub.EventDraftOrderRequest, Payload: tc.payload})

			event := publisher.last(t)
			if event.Payload["code"] != CodeError {
				t.Errorf("expected ERROR, got %v", event.Payload["code"])
			}
			if event.Payload["reason"] != "validation" {
				t.Errorf("expected validation reason, got %v", event.Payload["reason"])
			}
		})
	}

	snapshots, err := store.ListSnapshots("2025")
	if err != nil {
		t.Fatalf("ListSnapshots() failed: %v", err)
	}
	if len(snapshots) != 0 {
		t.Errorf("no snapshots should be persisted for invalid requests, got %d", len(snapshots))
	}
}

func TestConsumerIgnoresOtherEvents(t *testing.T) {
	store := dal.NewMemoryDAL()
	publisher := &capturePublisher{}
	consumer := NewConsumer(store, engine.NewSnapshotService(), publisher)

	consumer.Handle(pubsub.Event{Type: pubsub.EventGameRecorded})
	consumer.Handle(pubsub.Event{Type: pubsub.EventStandingsUpdated})

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	if len(publisher.events) != 0 {
		t.Errorf("expected no published events, got %d", len(publisher.events))
	}
}

func TestConsumerEndToEndThroughMockBus(t *testing.T) {
	store := dal.NewMemoryDAL()
	seedGames(t, store)

	bus, err := pubsub.NewMockNATSPubSub("", "league.events")
	if err != nil {
		t.Fatalf("NewMockNATSPubSub() failed: %v", err)
	}
	defer bus.Close()

	consumer := NewConsumer(store, engine.NewSnapshotService(), bus)
	if err := consumer.Start(bus); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	results := bus.Subscribe()
	defer bus.Unsubscribe(results)

	bus.Publish(pubsub.Event{
		Type: pubsub.EventDraftOrderRequest,
		Payload: map[string]interface{}{
			"seasonYear": "2025",
			"seasonType": float64(2),
			"mode":       "current",
		},
	})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-results:
			if event.Type != pubsub.EventDraftOrderComputed {
				continue
			}
			if event.Payload["code"] != CodeOK {
				t.Fatalf("expected OK, got %v", event.Payload["code"])
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for completion event")
		}
	}
}
