package pubsub

import (
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	ps := New()
	if ps == nil {
		t.Fatal("New() returned nil")
	}
	if ps.subscribers == nil {
		t.Error("subscribers slice should be initialized")
	}
	if ps.upstream != nil {
		t.Error("upstream should be nil for basic PubSub")
	}
}

func TestSubscribeAndPublish(t *testing.T) {
	ps := New()

	ch := ps.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil channel")
	}

	ps.Publish(Event{Type: EventStandingsUpdated, Payload: map[string]interface{}{"seasonYear": "2025"}})

	select {
	case event := <-ch:
		if event.Type != EventStandingsUpdated {
			t.Errorf("expected %s, got %s", EventStandingsUpdated, event.Type)
		}
		if event.Payload["seasonYear"] != "2025" {
			t.Errorf("payload not preserved: %v", event.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishFanOut(t *testing.T) {
	ps := New()

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()
	ch3 := ps.Subscribe()

	ps.Publish(Event{Type: EventBracketUpdated})

	for i, ch := range []chan Event{ch1, ch2, ch3} {
		select {
		case event := <-ch:
			if event.Type != EventBracketUpdated {
				t.Errorf("subscriber %d: expected %s, got %s", i, EventBracketUpdated, event.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive event", i)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	ps := New()

	ch := ps.Subscribe()
	ps.Unsubscribe(ch)

	ps.mu.RLock()
	if len(ps.subscribers) != 0 {
		t.Errorf("expected 0 subscribers after unsubscribe, got %d", len(ps.subscribers))
	}
	ps.mu.RUnlock()

	// Verify channel is closed
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("channel should be closed after unsubscribe")
		}
	default:
		t.Error("channel should be closed and readable")
	}
}

func TestUnsubscribeMiddle(t *testing.T) {
	ps := New()

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()
	ch3 := ps.Subscribe()

	// Unsubscribe the middle one
	ps.Unsubscribe(ch2)

	ps.mu.RLock()
	if len(ps.subscribers) != 2 {
		t.Errorf("expected 2 subscribers, got %d", len(ps.subscribers))
	}
	ps.mu.RUnlock()

	ps.Publish(Event{Type: EventGameRecorded})

	select {
	case <-ch1:
	case <-time.After(time.Second):
		t.Error("ch1 should still receive events")
	}
	select {
	case <-ch3:
	case <-time.After(time.Second):
		t.Error("ch3 should still receive events")
	}
}

func TestPublishWithUpstream(t *testing.T) {
	mock, err := NewMockNATSPubSub("", "league.events")
	if err != nil {
		t.Fatalf("NewMockNATSPubSub() failed: %v", err)
	}
	defer mock.Close()

	ps := NewWithUpstream(mock)

	// Give the upstream bridge goroutine time to subscribe
	time.Sleep(50 * time.Millisecond)

	ch := ps.Subscribe()
	ps.Publish(Event{Type: EventDraftOrderComputed, Payload: map[string]interface{}{"snapshotId": "snap_abc"}})

	select {
	case event := <-ch:
		if event.Type != EventDraftOrderComputed {
			t.Errorf("expected %s, got %s", EventDraftOrderComputed, event.Type)
		}
		if event.Payload["snapshotId"] != "snap_abc" {
			t.Errorf("payload not preserved through upstream: %v", event.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event did not round-trip through upstream")
	}

	if mock.GetMessageCount() != 1 {
		t.Errorf("expected 1 stored upstream message, got %d", mock.GetMessageCount())
	}
}

func TestMockNATSDurableSubscription(t *testing.T) {
	mock, err := NewMockNATSPubSub("", "league.events")
	if err != nil {
		t.Fatalf("NewMockNATSPubSub() failed: %v", err)
	}
	defer mock.Close()

	var mu sync.Mutex
	received := []Event{}

	err = mock.SubscribeJetStream("draft-order-worker", func(event Event) {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("SubscribeJetStream() failed: %v", err)
	}

	mock.Publish(Event{Type: EventDraftOrderRequest})
	mock.Publish(Event{Type: EventDraftOrderRequest})

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(received)
		mu.Unlock()
		if n >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 2 handled events, got %d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestConcurrentPublishSubscribe(t *testing.T) {
	ps := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := ps.Subscribe()
			ps.Publish(Event{Type: EventGameRecorded})
			ps.Unsubscribe(ch)
		}()
	}
	wg.Wait()

	ps.mu.RLock()
	if len(ps.subscribers) != 0 {
		t.Errorf("expected 0 subscribers after all unsubscribed, got %d", len(ps.subscribers))
	}
	ps.mu.RUnlock()
}
