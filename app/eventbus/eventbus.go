// Package eventbus wraps watermill-nats so modules publish and subscribe
// through one JetStream-backed bus without touching NATS directly.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventBus is the pub/sub surface handed to routers and services. It is a
// watermill publisher and subscriber plus stream management.
type EventBus interface {
	message.Publisher
	message.Subscriber

	// CreateStream ensures a JetStream stream exists for the given subjects.
	CreateStream(ctx context.Context, streamName string, subjects ...string) error

	// PublishPayload marshals a payload to JSON and publishes it on topic,
	// propagating the context's correlation ID into message metadata.
	PublishPayload(ctx context.Context, topic string, payload any) error
}

type eventBus struct {
	publisher      message.Publisher
	subscriber     message.Subscriber
	js             jetstream.JetStream
	natsConn       *nc.Conn
	logger         *slog.Logger
	createdStreams map[string]bool
	streamMutex    sync.Mutex
}

// NewEventBus creates an EventBus with a connection to NATS JetStream.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger) (EventBus, error) {
	natsConn, err := nc.Connect(natsURL, nc.RetryOnFailedConnect(true))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to NATS", attr.Error(err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		logger.ErrorContext(ctx, "Failed to initialize JetStream", attr.Error(err))
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaller := &wmnats.NATSMarshaler{}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:       natsURL,
			Marshaler: marshaller,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		logger.ErrorContext(ctx, "Failed to create watermill publisher", attr.Error(err))
		return nil, fmt.Errorf("failed to create watermill publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(
		wmnats.SubscriberConfig{
			URL:         natsURL,
			Unmarshaler: marshaller,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		publisher.Close()
		logger.ErrorContext(ctx, "Failed to create watermill subscriber", attr.Error(err))
		return nil, fmt.Errorf("failed to create watermill subscriber: %w", err)
	}

	return &eventBus{
		publisher:      publisher,
		subscriber:     subscriber,
		js:             js,
		natsConn:       natsConn,
		logger:         logger,
		createdStreams: make(map[string]bool),
	}, nil
}

func (eb *eventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
	}
	return eb.publisher.Publish(topic, messages...)
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return eb.subscriber.Subscribe(ctx, topic)
}

func (eb *eventBus) PublishPayload(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	correlationID := attr.ExtractCorrelationID(ctx).Value.String()
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	middleware.SetCorrelationID(correlationID, msg)
	msg.SetContext(ctx)

	eb.logger.DebugContext(ctx, "Publishing message",
		attr.String("topic", topic),
		attr.String("message_id", msg.UUID),
	)
	return eb.Publish(topic, msg)
}

// CreateStream ensures the stream exists; repeated calls for the same
// stream are cheap after the first.
func (eb *eventBus) CreateStream(ctx context.Context, streamName string, subjects ...string) error {
	eb.streamMutex.Lock()
	defer eb.streamMutex.Unlock()

	if eb.createdStreams[streamName] {
		return nil
	}

	_, err := eb.js.Stream(ctx, streamName)
	if err == jetstream.ErrStreamNotFound {
		_, err = eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     streamName,
			Subjects: subjects,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream %s: %w", streamName, err)
		}
		eb.logger.InfoContext(ctx, "Created JetStream stream",
			attr.String("stream", streamName),
			attr.Any("subjects", subjects),
		)
	} else if err != nil {
		return fmt.Errorf("failed to check stream %s: %w", streamName, err)
	}

	eb.createdStreams[streamName] = true
	return nil
}

// Close shuts down the publisher, subscriber, and NATS connection.
func (eb *eventBus) Close() error {
	var firstErr error
	if err := eb.publisher.Close(); err != nil {
		firstErr = err
	}
	if err := eb.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	eb.natsConn.Close()
	return firstErr
}
