package scoringservice

import (
	"context"

	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	scoringdb "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/standings"
)

// ------------------------
// Fake Repository
// ------------------------

// FakeRepository provides a programmable stub for the scoringdb.Repository
// interface.
type FakeRepository struct {
	trace []string

	UpsertEventScoresFunc func(ctx context.Context, result *scoringdomain.Result) error
	GetEventScoresFunc    func(ctx context.Context, eventName string) ([]scoringdb.TeamEventScore, error)
	GetSeasonTotalsFunc   func(ctx context.Context) ([]scoringdb.SeasonTotal, error)
	LastStoredResult      *scoringdomain.Result
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRepository) UpsertEventScores(ctx context.Context, result *scoringdomain.Result) error {
	f.record("UpsertEventScores")
	f.LastStoredResult = result
	if f.UpsertEventScoresFunc != nil {
		return f.UpsertEventScoresFunc(ctx, result)
	}
	return nil
}

func (f *FakeRepository) GetEventScores(ctx context.Context, eventName string) ([]scoringdb.TeamEventScore, error) {
	f.record("GetEventScores")
	if f.GetEventScoresFunc != nil {
		return f.GetEventScoresFunc(ctx, eventName)
	}
	return nil, scoringdb.ErrEventNotFound
}

func (f *FakeRepository) GetSeasonTotals(ctx context.Context) ([]scoringdb.SeasonTotal, error) {
	f.record("GetSeasonTotals")
	if f.GetSeasonTotalsFunc != nil {
		return f.GetSeasonTotalsFunc(ctx)
	}
	return nil, nil
}

// ------------------------
// Fake Standings Fetcher
// ------------------------

// FakeFetcher provides a programmable stub for the StandingsFetcher
// interface.
type FakeFetcher struct {
	trace []string

	FetchRoundFunc         func(ctx context.Context, tournamentID int, division scoringdomain.Division, round int) ([]standings.ScoreRow, error)
	FetchFinalFunc         func(ctx context.Context, tournamentID int, division scoringdomain.Division) ([]standings.ScoreRow, error)
	LookupTournamentIDFunc func(ctx context.Context, name string, year int) (int, error)
}

func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{trace: []string{}}
}

func (f *FakeFetcher) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeFetcher) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeFetcher) FetchRound(ctx context.Context, tournamentID int, division scoringdomain.Division, round int) ([]standings.ScoreRow, error) {
	f.record("FetchRound")
	if f.FetchRoundFunc != nil {
		return f.FetchRoundFunc(ctx, tournamentID, division, round)
	}
	return nil, nil
}

func (f *FakeFetcher) FetchFinal(ctx context.Context, tournamentID int, division scoringdomain.Division) ([]standings.ScoreRow, error) {
	f.record("FetchFinal")
	if f.FetchFinalFunc != nil {
		return f.FetchFinalFunc(ctx, tournamentID, division)
	}
	return nil, nil
}

func (f *FakeFetcher) LookupTournamentID(ctx context.Context, name string, year int) (int, error) {
	f.record("LookupTournamentID")
	if f.LookupTournamentIDFunc != nil {
		return f.LookupTournamentIDFunc(ctx, name, year)
	}
	return 0, nil
}
