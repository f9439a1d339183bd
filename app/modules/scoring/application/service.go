package scoringservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/eventbus"
	scoringdb "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/standings"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/metrics"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ScoringService implements the Service interface.
type ScoringService struct {
	fetcher   StandingsFetcher
	league    *config.LeagueConfig
	repo      scoringdb.Repository
	EventBus  eventbus.EventBus
	logger    *slog.Logger
	metrics   metrics.ScoringMetrics
	tracer    trace.Tracer
	db        *bun.DB
	overrides standings.StatusOverrides

	serviceWrapper func(ctx context.Context, operationName string, eventName string, serviceFunc func(ctx context.Context) (ScoringOperationResult, error)) (ScoringOperationResult, error)
}

// NewScoringService creates a new ScoringService.
func NewScoringService(
	fetcher StandingsFetcher,
	league *config.LeagueConfig,
	repo scoringdb.Repository,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	m metrics.ScoringMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ScoringService {
	s := &ScoringService{
		fetcher:  fetcher,
		league:   league,
		repo:     repo,
		EventBus: eventBus,
		logger:   logger,
		metrics:  m,
		tracer:   tracer,
		db:       db,
	}
	s.serviceWrapper = s.withTelemetry
	return s
}

// SetStatusOverrides installs manual player status overrides for upcoming
// runs (cut, withdrawn, DNS calls the feed does not carry).
func (s *ScoringService) SetStatusOverrides(o standings.StatusOverrides) {
	s.overrides = o
}

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func (s *ScoringService) withTelemetry(
	ctx context.Context,
	operationName string,
	eventName string,
	op func(ctx context.Context) (ScoringOperationResult, error),
) (result ScoringOperationResult, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("event_name", eventName),
	))
	defer span.End()

	s.metrics.RecordScoringRunAttempt(ctx, eventName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.String("event_name", eventName),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("event_name", eventName),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordScoringRunFailure(ctx, eventName)
			span.RecordError(err)
			result = ScoringOperationResult{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("event_name", eventName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordScoringRunFailure(ctx, eventName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("event_name", eventName),
			attr.String("reason", result.Failure.Reason),
		)
		s.metrics.RecordScoringRunFailure(ctx, eventName)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.String("event_name", eventName),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordScoringRunSuccess(ctx, eventName)
	}

	return result, nil
}
