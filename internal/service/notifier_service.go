package service

import (
	"context"
	"encoding/json"
	"time"

	"claim-verify-be/internal/pkg/logger"
	"claim-verify-be/internal/websocket"
	"claim-verify-be/pkg/events"
	pktNats "claim-verify-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ProgressTopic is the in-process channel carrying pipeline events from
// the sequencer to the notifier.
const ProgressTopic = "VERIFY_PROGRESS"

// wireEvent is the serialized form of an event on the watermill bus.
type wireEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// ProgressPublisher bridges the sequencer's progress sink onto the
// watermill channel.
type ProgressPublisher struct {
	pubSub *gochannel.GoChannel
}

func NewProgressPublisher(pubSub *gochannel.GoChannel) *ProgressPublisher {
	return &ProgressPublisher{pubSub: pubSub}
}

func (p *ProgressPublisher) Publish(_ context.Context, event events.Event) error {
	payload, err := json.Marshal(wireEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return err
	}
	return p.pubSub.Publish(ProgressTopic, message.NewMessage(watermill.NewUUID(), payload))
}

type INotifierService interface {
	Consume(ctx context.Context) error
}

// notifierService drains the progress topic and fans events out to
// websocket watchers and the NATS bus. Delivery is best effort on both
// legs; the session store stays the source of truth.
type notifierService struct {
	pubSub  *gochannel.GoChannel
	hub     *websocket.Hub
	natsPub *pktNats.Publisher
	logger  logger.ILogger
}

func NewNotifierService(
	pubSub *gochannel.GoChannel,
	hub *websocket.Hub,
	natsPub *pktNats.Publisher,
	log logger.ILogger,
) INotifierService {
	return &notifierService{
		pubSub:  pubSub,
		hub:     hub,
		natsPub: natsPub,
		logger:  log,
	}
}

func (ns *notifierService) Consume(ctx context.Context) error {
	messages, err := ns.pubSub.Subscribe(ctx, ProgressTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ns.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ns *notifierService) processMessage(ctx context.Context, msg *message.Message) {
	var evt wireEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		ns.logger.Error("Notifier", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	base := events.BaseEvent{Type: evt.Type, Data: evt.Data, OccurredAt: evt.OccurredAt}

	sessionId, _ := evt.Data["session_id"].(string)
	if ns.hub != nil && sessionId != "" {
		ns.hub.Notify(sessionId, base)
	}

	if ns.natsPub != nil {
		if err := ns.natsPub.Publish(ctx, base); err != nil {
			ns.logger.Warn("Notifier", "NATS publish failed", map[string]interface{}{
				"event": evt.Type, "error": err.Error(),
			})
		}
	}

	msg.Ack()
}
