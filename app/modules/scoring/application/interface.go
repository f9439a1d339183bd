package scoringservice

import (
	"context"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/standings"
)

// StandingsFetcher is the slice of the standings client the service needs.
type StandingsFetcher interface {
	FetchRound(ctx context.Context, tournamentID int, division scoringdomain.Division, round int) ([]standings.ScoreRow, error)
	FetchFinal(ctx context.Context, tournamentID int, division scoringdomain.Division) ([]standings.ScoreRow, error)
	LookupTournamentID(ctx context.Context, name string, year int) (int, error)
}

// ScoringOperationResult carries either the completed payload or the failed
// payload of a scoring run. Exactly one side is set on a handled outcome.
type ScoringOperationResult struct {
	Success *events.ScoringRunCompletedPayloadV1
	Failure *events.ScoringRunFailedPayloadV1
}

// IsSuccess reports whether the operation produced a success payload.
func (r ScoringOperationResult) IsSuccess() bool { return r.Success != nil }

// IsFailure reports whether the operation produced a failure payload.
func (r ScoringOperationResult) IsFailure() bool { return r.Failure != nil }

// Service defines the scoring module's application surface.
type Service interface {
	// RunScoring executes one full scoring run: resolve the event, fetch
	// standings, score, persist, and return the outcome payload.
	RunScoring(ctx context.Context, req events.ScoringRunRequestedPayloadV1) (ScoringOperationResult, error)
}
