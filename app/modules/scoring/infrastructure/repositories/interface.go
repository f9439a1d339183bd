package scoringdb

import (
	"context"

	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
)

// Repository persists scoring results.
type Repository interface {
	// UpsertEventScores stores every team's result for the event named in
	// the engine output, replacing any earlier run of the same event.
	UpsertEventScores(ctx context.Context, result *scoringdomain.Result) error

	// GetEventScores returns the stored results for one event, best rank
	// first. Returns ErrEventNotFound when the event has never been scored.
	GetEventScores(ctx context.Context, eventName string) ([]TeamEventScore, error)

	// GetSeasonTotals aggregates stored finals into season standings,
	// highest points first.
	GetSeasonTotals(ctx context.Context) ([]SeasonTotal, error)
}
