package report

import (
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/eventbus"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Router binds the report handlers to the scoring outcome topics on a
// shared watermill router. Report handlers are terminal; they publish
// nothing back onto the bus.
type Router struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
}

// NewRouter creates a report Router.
func NewRouter(logger *slog.Logger, router *message.Router, subscriber eventbus.EventBus) *Router {
	return &Router{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
	}
}

// Configure registers the report handlers.
func (r *Router) Configure(handlers *Handlers) error {
	eventsToHandlers := map[string]message.HandlerFunc{
		events.ScoringRunCompletedV1: handlers.HandleScoringRunCompleted,
		events.ScoringRunFailedV1:    handlers.HandleScoringRunFailed,
	}

	for topic, handlerFunc := range eventsToHandlers {
		r.Router.AddNoPublisherHandler(
			fmt.Sprintf("report.%s", topic),
			topic,
			r.subscriber,
			func(msg *message.Message) error {
				_, err := handlerFunc(msg)
				return err
			},
		)
	}
	return nil
}
