package scoringhandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	scoringservice "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/application"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/metrics"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/trace"
)

// ScoringHandlers handles scoring run events.
type ScoringHandlers struct {
	service        scoringservice.Service
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        metrics.ScoringMetrics
	handlerWrapper func(handlerName string, unmarshalTo interface{}, handlerFunc func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error)) message.HandlerFunc
}

// NewScoringHandlers creates a new ScoringHandlers.
func NewScoringHandlers(
	service scoringservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	m metrics.ScoringMetrics,
) Handlers {
	return &ScoringHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		metrics: m,
		handlerWrapper: func(handlerName string, unmarshalTo interface{}, handlerFunc func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error)) message.HandlerFunc {
			return handlerWrapper(handlerName, unmarshalTo, handlerFunc, logger, tracer)
		},
	}
}

// handlerWrapper handles common tracing, logging, and payload unmarshalling
// for handlers.
func handlerWrapper(
	handlerName string,
	unmarshalTo interface{},
	handlerFunc func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error),
	logger *slog.Logger,
	tracer trace.Tracer,
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx, span := tracer.Start(msg.Context(), handlerName)
		defer span.End()

		startTime := time.Now()
		logger.InfoContext(ctx, handlerName+" triggered",
			attr.CorrelationIDFromMsg(msg),
			attr.String("message_id", msg.UUID),
		)

		if unmarshalTo != nil {
			if err := json.Unmarshal(msg.Payload, unmarshalTo); err != nil {
				logger.ErrorContext(ctx, "Failed to unmarshal payload",
					attr.CorrelationIDFromMsg(msg),
					attr.Error(err),
				)
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		result, err := handlerFunc(ctx, msg, unmarshalTo)
		if err != nil {
			logger.ErrorContext(ctx, "Error in "+handlerName,
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			span.RecordError(err)
			return nil, err
		}

		logger.InfoContext(ctx, handlerName+" completed",
			attr.CorrelationIDFromMsg(msg),
			attr.Duration("took", time.Since(startTime)),
		)
		return result, nil
	}
}

// createResultMessage builds an outgoing message carrying payload,
// propagating the correlation ID from the incoming message.
func createResultMessage(incoming *message.Message, payload interface{}) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if correlationID := middleware.MessageCorrelationID(incoming); correlationID != "" {
		middleware.SetCorrelationID(correlationID, msg)
	}
	return msg, nil
}
