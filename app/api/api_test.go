package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	scoringdb "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/schedule"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	eventScores map[string][]scoringdb.TeamEventScore
	totals      []scoringdb.SeasonTotal
}

func (f *fakeRepo) UpsertEventScores(context.Context, *scoringdomain.Result) error { return nil }

func (f *fakeRepo) GetEventScores(_ context.Context, eventName string) ([]scoringdb.TeamEventScore, error) {
	scores, ok := f.eventScores[eventName]
	if !ok {
		return nil, scoringdb.ErrEventNotFound
	}
	return scores, nil
}

func (f *fakeRepo) GetSeasonTotals(context.Context) ([]scoringdb.SeasonTotal, error) {
	return f.totals, nil
}

func newTestServer(repo scoringdb.Repository) *Server {
	obs := observability.NewNoOp()
	league := &config.LeagueConfig{
		Schedule: []config.ScheduleEvent{
			{Name: "Jonesboro Open", Dates: "Apr 17-19", Kind: config.EventKindFull},
		},
	}
	return NewServer(config.HTTPConfig{Address: ":0"}, league, schedule.New(league), repo, obs.Registry, obs.Logger)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Healthz(t *testing.T) {
	rec := get(t, newTestServer(&fakeRepo{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	rec := get(t, newTestServer(&fakeRepo{}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Leaderboard(t *testing.T) {
	repo := &fakeRepo{
		eventScores: map[string][]scoringdb.TeamEventScore{
			"Jonesboro Open": {
				{EventName: "Jonesboro Open", TeamName: "Chain Gang", Rank: 1, Total: 16},
				{EventName: "Jonesboro Open", TeamName: "Hyzer Flippers", Rank: 2, Total: 9},
			},
		},
	}
	s := newTestServer(repo)

	t.Run("stored event", func(t *testing.T) {
		rec := get(t, s, "/api/leaderboard/Jonesboro%20Open")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Event       string                     `json:"event"`
			Leaderboard []scoringdb.TeamEventScore `json:"leaderboard"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Jonesboro Open", body.Event)
		require.Len(t, body.Leaderboard, 2)
		assert.Equal(t, "Chain Gang", body.Leaderboard[0].TeamName)
	})

	t.Run("unknown event is 404", func(t *testing.T) {
		rec := get(t, s, "/api/leaderboard/USDGC")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_Season(t *testing.T) {
	repo := &fakeRepo{
		totals: []scoringdb.SeasonTotal{
			{TeamName: "Chain Gang", Events: 2, Points: 28},
			{TeamName: "Hyzer Flippers", Events: 2, Points: 17.5},
		},
	}
	rec := get(t, newTestServer(repo), "/api/season")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Standings []scoringdb.SeasonTotal `json:"standings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Standings, 2)
	assert.Equal(t, 28.0, body.Standings[0].Points)
}
