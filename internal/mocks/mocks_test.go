package mocks

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/logger"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/pubsub"
)

func init() {
	logger.Init()
}

func TestMockPostgresDALBacksOntoSQLite(t *testing.T) {
	store, err := NewMockPostgresDAL(filepath.Join(t.TempDir(), "mock.sqlite"))
	if err != nil {
		t.Fatalf("NewMockPostgresDAL() failed: %v", err)
	}
	defer store.Close()

	teams, err := store.ListTeams()
	if err != nil {
		t.Fatalf("ListTeams() failed: %v", err)
	}
	if len(teams) != 32 {
		t.Errorf("expected 32 seeded teams, got %d", len(teams))
	}
}

func TestMockNATSDurableDelivery(t *testing.T) {
	bus := NewMockNATSPubSub()
	defer bus.Close()

	got := make(chan pubsub.Event, 1)
	if err := bus.SubscribeJetStream("test-worker", func(e pubsub.Event) { got <- e }); err != nil {
		t.Fatalf("SubscribeJetStream() failed: %v", err)
	}

	bus.Publish(pubsub.Event{Type: pubsub.EventGameRecorded})

	select {
	case e := <-got:
		if e.Type != pubsub.EventGameRecorded {
			t.Errorf("expected %s, got %s", pubsub.EventGameRecorded, e.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}
