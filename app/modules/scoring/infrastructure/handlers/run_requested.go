package scoringhandlers

import (
	"context"
	"errors"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	"github.com/ThreeDotsLabs/watermill/message"
)

// HandleScoringRunRequested runs the scoring pipeline for a requested event
// and emits either a completed or a failed message. The router resolves the
// publish topic from the "topic" metadata key.
func (h *ScoringHandlers) HandleScoringRunRequested(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleScoringRunRequested",
		&events.ScoringRunRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			request, ok := payload.(*events.ScoringRunRequestedPayloadV1)
			if !ok {
				return nil, errors.New("unexpected payload type for scoring run request")
			}

			result, err := h.service.RunScoring(ctx, *request)
			if err != nil && result.Failure == nil {
				return nil, err
			}

			if result.Failure != nil {
				failureMsg, err := createResultMessage(msg, result.Failure)
				if err != nil {
					return nil, err
				}
				failureMsg.Metadata.Set("topic", events.ScoringRunFailedV1)
				return []*message.Message{failureMsg}, nil
			}

			if result.Success == nil {
				return nil, errors.New("scoring run produced neither success nor failure")
			}

			successMsg, err := createResultMessage(msg, result.Success)
			if err != nil {
				return nil, err
			}
			successMsg.Metadata.Set("topic", events.ScoringRunCompletedV1)
			return []*message.Message{successMsg}, nil
		},
	)

	return wrappedHandler(msg)
}
