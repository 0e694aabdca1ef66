package jobs

import (
	"errors"
	"fmt"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/dal"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/engine"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/logger"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/pubsub"
)

// ConsumerName is the durable JetStream consumer identity. All replicas share
// it so each compute request is processed exactly once across the deployment.
const ConsumerName = "draft-order-worker"

// Result codes attached to draft_order.computed events.
const (
	CodeOK    = "OK"
	CodeError = "ERROR"
)

// Subscriber is the durable subscription surface the consumer needs from the
// event bus. NATSPubSub, EmbeddedNATSPubSub and MockNATSPubSub all provide it.
type Subscriber interface {
	SubscribeJetStream(consumerName string, handler func(pubsub.Event)) error
}

// Publisher emits completion events back onto the bus.
type Publisher interface {
	Publish(pubsub.Event)
}

// Consumer processes batch draft-order compute requests arriving over the
// event bus and persists the resulting snapshots.
type Consumer struct {
	store     dal.LeagueDAL
	snapshots *engine.SnapshotService
	publisher Publisher
}

// NewConsumer creates a draft-order compute consumer
func NewConsumer(store dal.LeagueDAL, snapshots *engine.SnapshotService, publisher Publisher) *Consumer {
	return &Consumer{
		store:     store,
		snapshots: snapshots,
		publisher: publisher,
	}
}

// Start registers the durable subscription and begins handling requests
func (c *Consumer) Start(sub Subscriber) error {
	if err := sub.SubscribeJetStream(ConsumerName, c.Handle); err != nil {
		return fmt.Errorf("failed to subscribe draft-order consumer: %w", err)
	}
	logger.Info("Draft-order consumer started", "consumer", ConsumerName)
	return nil
}

// Handle processes a single event from the bus. Events other than compute
// requests are ignored; malformed requests produce an ERROR completion event
// rather than a retry, since redelivery cannot fix a bad payload.
func (c *Consumer) Handle(event pubsub.Event) {
	if event.Type != pubsub.EventDraftOrderRequest {
		return
	}

	req, err := parseRequest(event.Payload)
	if err != nil {
		logger.Warn("Rejected draft-order request", "error", err)
		c.publishError(err)
		return
	}

	snapshot, err := c.compute(req)
	if err != nil {
		logger.Error("Draft-order computation failed", "seasonYear", req.SeasonYear, "mode", req.Mode, "error", err)
		c.publishError(err)
		return
	}

	logger.Info("Draft-order snapshot created",
		"snapshotId", snapshot.ID, "seasonYear", snapshot.SeasonYear, "mode", snapshot.Mode)

	result := map[string]interface{}{
		"code":       CodeOK,
		"snapshotId": snapshot.ID,
		"seasonYear": snapshot.SeasonYear,
		"mode":       string(snapshot.Mode),
	}
	if snapshot.Strategy != "" {
		result["strategy"] = snapshot.Strategy
	}
	c.publisher.Publish(pubsub.Event{
		Type:    pubsub.EventDraftOrderComputed,
		Payload: result,
	})
}

func (c *Consumer) compute(req engine.SnapshotRequest) (*models.DraftOrderSnapshot, error) {
	if err := c.snapshots.Validate(&req); err != nil {
		return nil, err
	}

	games, err := c.store.ListFinalGames(req.SeasonYear, req.SeasonType, req.ThroughWeek)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	teams, err := c.store.TeamsByID()
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}

	snapshot, err := c.snapshots.Compute(req, games, teams)
	if err != nil {
		return nil, err
	}

	return c.store.CreateSnapshot(snapshot)
}

// publishError emits the ERROR completion event. The code field carries only
// the two-outcome contract (OK or ERROR); the error taxonomy rides alongside
// in reason so callers can distinguish bad requests from bad data.
func (c *Consumer) publishError(err error) {
	reason := "internal"
	if errors.Is(err, engine.ErrValidation) {
		reason = "validation"
	} else if errors.Is(err, engine.ErrDataIntegrity) {
		reason = "data_integrity"
	}

	c.publisher.Publish(pubsub.Event{
		Type: pubsub.EventDraftOrderComputed,
		Payload: map[string]interface{}{
			"code":    CodeError,
			"reason":  reason,
			"message": err.Error(),
		},
	})
}

// parseRequest decodes the loosely-typed event payload into a snapshot
// request. JSON numbers arrive as float64.
func parseRequest(payload map[string]interface{}) (engine.SnapshotRequest, error) {
	var req engine.SnapshotRequest

	seasonYear, ok := payload["seasonYear"].(string)
	if !ok || seasonYear == "" {
		return req, fmt.Errorf("%w: seasonYear is required", engine.ErrValidation)
	}
	req.SeasonYear = seasonYear

	seasonType, err := intField(payload, "seasonType")
	if err != nil {
		return req, err
	}
	if seasonType == nil {
		return req, fmt.Errorf("%w: seasonType is required", engine.ErrValidation)
	}
	req.SeasonType = models.SeasonType(*seasonType)

	mode, _ := payload["mode"].(string)
	req.Mode = models.SnapshotMode(mode)

	if strategy, ok := payload["strategy"].(string); ok {
		req.Strategy = strategy
	}

	throughWeek, err := intField(payload, "throughWeek")
	if err != nil {
		return req, err
	}
	req.ThroughWeek = throughWeek

	return req, nil
}

func intField(payload map[string]interface{}, key string) (*int, error) {
	raw, ok := payload[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case float64:
		n := int(v)
		return &n, nil
	case int:
		n := v
		return &n, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a number", engine.ErrValidation, key)
	}
}
