package scoringhandlers

import (
	"context"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	scoringservice "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/application"
)

// FakeService provides a programmable stub for the scoring service.
type FakeService struct {
	RunScoringFunc func(ctx context.Context, req events.ScoringRunRequestedPayloadV1) (scoringservice.ScoringOperationResult, error)
	LastRequest    *events.ScoringRunRequestedPayloadV1
}

func (f *FakeService) RunScoring(ctx context.Context, req events.ScoringRunRequestedPayloadV1) (scoringservice.ScoringOperationResult, error) {
	f.LastRequest = &req
	if f.RunScoringFunc != nil {
		return f.RunScoringFunc(ctx, req)
	}
	return scoringservice.ScoringOperationResult{}, nil
}
