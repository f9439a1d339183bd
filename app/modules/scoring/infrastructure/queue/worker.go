package scoringqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/eventbus"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/riverqueue/river"
)

// ScoringRefreshWorker fires scheduled scoring refreshes onto the event bus.
type ScoringRefreshWorker struct {
	river.WorkerDefaults[ScoringRefreshJob]
	logger   *slog.Logger
	eventBus eventbus.EventBus
}

// NewScoringRefreshWorker creates a worker that publishes run requests.
func NewScoringRefreshWorker(logger *slog.Logger, eventBus eventbus.EventBus) *ScoringRefreshWorker {
	return &ScoringRefreshWorker{
		logger:   logger,
		eventBus: eventBus,
	}
}

// Work publishes the scoring run request for the scheduled job.
func (w *ScoringRefreshWorker) Work(ctx context.Context, job *river.Job[ScoringRefreshJob]) error {
	w.logger.InfoContext(ctx, "Scoring refresh job fired",
		attr.String("event_name", job.Args.EventName),
		attr.Int("round", job.Args.Round),
		attr.Bool("final", job.Args.Final),
		attr.Int64("job_id", job.ID),
	)

	payload := events.ScoringRunRequestedPayloadV1{
		EventName:   job.Args.EventName,
		Round:       job.Args.Round,
		Final:       job.Args.Final,
		RequestedBy: "scheduler",
	}

	if err := w.eventBus.PublishPayload(ctx, events.ScoringRunRequestedV1, payload); err != nil {
		w.logger.ErrorContext(ctx, "Failed to publish scheduled run request",
			attr.String("event_name", job.Args.EventName),
			attr.Error(err),
		)
		return fmt.Errorf("failed to publish scheduled run request: %w", err)
	}
	return nil
}
