package mocks

import (
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/logger"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/pubsub"
)

// MockNATSPubSub provides a mock NATS/JetStream implementation for local development
type MockNATSPubSub struct {
	*pubsub.PubSub
}

// NewMockNATSPubSub creates a mock NATS pub/sub using the in-memory implementation
func NewMockNATSPubSub() *MockNATSPubSub {
	logger.Info("Using MOCK NATS/JetStream (in-memory pub/sub) for local development")

	return &MockNATSPubSub{
		PubSub: pubsub.New(),
	}
}

// SubscribeJetStream emulates a durable JetStream subscription by pumping the
// in-memory channel into the handler. No persistence, no redelivery.
func (m *MockNATSPubSub) SubscribeJetStream(consumerName string, handler func(pubsub.Event)) error {
	ch := m.Subscribe()
	go func() {
		for event := range ch {
			handler(event)
		}
	}()
	logger.Info("Mock durable subscription started", "consumer", consumerName)
	return nil
}

// Close is a no-op for mock
func (m *MockNATSPubSub) Close() {
	// No cleanup needed for in-memory
}
