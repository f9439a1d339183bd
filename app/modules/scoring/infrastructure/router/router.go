package scoringrouter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/eventbus"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	scoringservice "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/application"
	scoringhandlers "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/handlers"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/metrics"
	wmmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// ScoringRouter binds scoring topics to handlers on a shared watermill
// router.
type ScoringRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     eventbus.EventBus
	publisher      eventbus.EventBus
	tracer         trace.Tracer
	metricsBuilder *wmmetrics.PrometheusMetricsBuilder
	metricsEnabled bool
}

// NewScoringRouter creates a new ScoringRouter.
func NewScoringRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *ScoringRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *wmmetrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := wmmetrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}
	return &ScoringRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
		metricsEnabled: prometheusRegistry != nil && !inTestEnv,
	}
}

// Configure registers middleware and scoring handlers on the router.
func (r *ScoringRouter) Configure(ctx context.Context, service scoringservice.Service, m metrics.ScoringMetrics) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	handlers := scoringhandlers.NewScoringHandlers(service, r.logger, r.tracer, m)

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	if err := r.RegisterHandlers(ctx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

// RegisterHandlers registers event handlers using V1 versioned topics.
func (r *ScoringRouter) RegisterHandlers(ctx context.Context, handlers scoringhandlers.Handlers) error {
	eventsToHandlers := map[string]message.HandlerFunc{
		events.ScoringRunRequestedV1: handlers.HandleScoringRunRequested,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := fmt.Sprintf("scoring.%s", topic)
		r.Router.AddHandler(
			handlerName,
			topic,
			r.subscriber,
			"",
			nil,
			func(msg *message.Message) ([]*message.Message, error) {
				messages, err := handlerFunc(msg)
				if err != nil {
					r.logger.ErrorContext(ctx, "Error processing message",
						attr.String("message_id", msg.UUID),
						attr.Error(err),
					)
					return nil, err
				}
				for _, m := range messages {
					publishTopic := m.Metadata.Get("topic")
					if publishTopic == "" {
						r.logger.Error("router failed to resolve publish topic - message dropped",
							attr.String("handler", handlerName),
							attr.String("msg_uuid", m.UUID),
						)
						continue
					}

					r.logger.InfoContext(ctx, "publishing message",
						attr.String("topic", publishTopic),
						attr.String("handler", handlerName),
					)

					if err := r.publisher.Publish(publishTopic, m); err != nil {
						return nil, fmt.Errorf("failed to publish to %s: %w", publishTopic, err)
					}
				}
				return nil, nil
			},
		)
	}
	return nil
}

// Close shuts down the router.
func (r *ScoringRouter) Close() error {
	return r.Router.Close()
}
