package scoringqueue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/eventbus"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Refresher keeps the live-refresh loop going: each non-final scoring run
// schedules the next one, and a final run cancels any pending refreshes.
type Refresher struct {
	queue    QueueService
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewRefresher creates a refresher that re-schedules every interval.
func NewRefresher(queue QueueService, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		queue:    queue,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Configure subscribes the refresher to scoring run outcomes.
func (r *Refresher) Configure(router *message.Router, subscriber eventbus.EventBus) {
	router.AddNoPublisherHandler(
		"scoring.refresh."+events.ScoringRunCompletedV1,
		events.ScoringRunCompletedV1,
		subscriber,
		r.HandleScoringRunCompleted,
	)
}

// HandleScoringRunCompleted schedules the next refresh after a live run and
// stops the loop once an event goes final.
func (r *Refresher) HandleScoringRunCompleted(msg *message.Message) error {
	var payload events.ScoringRunCompletedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	ctx := msg.Context()
	if payload.Final {
		r.logger.InfoContext(ctx, "Event final, cancelling pending refreshes",
			attr.String("event_name", payload.EventName),
		)
		return r.queue.CancelEventJobs(ctx, payload.EventName)
	}

	at := r.now().Add(r.interval)
	r.logger.InfoContext(ctx, "Scheduling next live refresh",
		attr.String("event_name", payload.EventName),
		attr.Time("scheduled_at", at),
	)
	return r.queue.ScheduleRefresh(ctx, ScoringRefreshJob{EventName: payload.EventName}, at)
}
