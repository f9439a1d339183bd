package scoring_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/integration_tests/containers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	scoringdb "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories"
	scoringmigrations "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories/migrations"
)

func setupRepository(t *testing.T) (scoringdb.Repository, *bun.DB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(pgdb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })

	migrator := migrate.NewMigrator(db, scoringmigrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return scoringdb.NewRepository(db, logger), db
}

func eventResult(eventName string, final bool, totals map[string]float64) *scoringdomain.Result {
	result := &scoringdomain.Result{
		EventName:    eventName,
		TournamentID: 77775,
		Final:        final,
	}
	rank := 1
	for name, total := range totals {
		result.Leaderboard = append(result.Leaderboard, scoringdomain.TeamScoreResult{
			TeamName: name,
			Rank:     rank,
			Total:    total,
			Divisions: []scoringdomain.DivisionScore{
				{Division: scoringdomain.DivisionMPO, Subtotal: total, EligibleCount: 2},
			},
		})
		rank++
	}
	return result
}

func TestRepository_UpsertAndGet(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertEventScores(ctx, eventResult("Jonesboro Open", false, map[string]float64{
		"Chain Gang": 16,
	})))

	scores, err := repo.GetEventScores(ctx, "Jonesboro Open")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "Chain Gang", scores[0].TeamName)
	assert.Equal(t, 16.0, scores[0].Total)
	assert.False(t, scores[0].Final)
	require.Len(t, scores[0].Breakdown, 1)
	assert.Equal(t, scoringdomain.DivisionMPO, scores[0].Breakdown[0].Division)

	// A later run for the same event replaces the row instead of adding one.
	require.NoError(t, repo.UpsertEventScores(ctx, eventResult("Jonesboro Open", true, map[string]float64{
		"Chain Gang": 18.5,
	})))

	scores, err = repo.GetEventScores(ctx, "Jonesboro Open")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 18.5, scores[0].Total)
	assert.True(t, scores[0].Final)
}

func TestRepository_UnknownEvent(t *testing.T) {
	repo, _ := setupRepository(t)

	_, err := repo.GetEventScores(context.Background(), "USDGC")
	assert.ErrorIs(t, err, scoringdb.ErrEventNotFound)
}

func TestRepository_SeasonTotals(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertEventScores(ctx, eventResult("Jonesboro Open", true, map[string]float64{
		"Chain Gang":     16,
		"Hyzer Flippers": 9,
	})))
	require.NoError(t, repo.UpsertEventScores(ctx, eventResult("OTB Open", true, map[string]float64{
		"Chain Gang":     12,
		"Hyzer Flippers": 8.5,
	})))
	// Live scores never count toward the season.
	require.NoError(t, repo.UpsertEventScores(ctx, eventResult("USDGC", false, map[string]float64{
		"Chain Gang": 40,
	})))

	totals, err := repo.GetSeasonTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "Chain Gang", totals[0].TeamName)
	assert.Equal(t, 28.0, totals[0].Points)
	assert.Equal(t, 2, totals[0].Events)
	assert.Equal(t, "Hyzer Flippers", totals[1].TeamName)
	assert.Equal(t, 17.5, totals[1].Points)
}
