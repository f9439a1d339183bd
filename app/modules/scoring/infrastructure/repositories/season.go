package scoringdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/uptrace/bun"
)

type repository struct {
	db     *bun.DB
	logger *slog.Logger
}

// NewRepository returns a bun-backed Repository.
func NewRepository(db *bun.DB, logger *slog.Logger) Repository {
	return &repository{db: db, logger: logger}
}

func (r *repository) UpsertEventScores(ctx context.Context, result *scoringdomain.Result) error {
	rows := make([]*TeamEventScore, 0, len(result.Leaderboard))
	now := time.Now().UTC()
	for _, team := range result.Leaderboard {
		penalized := false
		for _, ds := range team.Divisions {
			if ds.PenaltyApplied {
				penalized = true
			}
		}
		rows = append(rows, &TeamEventScore{
			EventName:      result.EventName,
			TournamentID:   result.TournamentID,
			TeamName:       team.TeamName,
			Rank:           team.Rank,
			Total:          team.Total,
			PenaltyApplied: penalized,
			Final:          result.Final,
			Breakdown:      team.Divisions,
			UpdatedAt:      now,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&rows).
			On("CONFLICT (event_name, team_name) DO UPDATE").
			Set("rank = EXCLUDED.rank").
			Set("total = EXCLUDED.total").
			Set("penalty_applied = EXCLUDED.penalty_applied").
			Set("final = EXCLUDED.final").
			Set("breakdown = EXCLUDED.breakdown").
			Set("tournament_id = EXCLUDED.tournament_id").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upsert event scores: %w", err)
	}

	r.logger.InfoContext(ctx, "Stored event scores",
		attr.String("event_name", result.EventName),
		attr.Int("teams", len(rows)),
		attr.Bool("final", result.Final),
	)
	return nil
}

func (r *repository) GetEventScores(ctx context.Context, eventName string) ([]TeamEventScore, error) {
	var scores []TeamEventScore
	err := r.db.NewSelect().
		Model(&scores).
		Where("event_name = ?", eventName).
		Order("rank ASC", "team_name ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query event scores: %w", err)
	}
	if len(scores) == 0 {
		return nil, ErrEventNotFound
	}
	return scores, nil
}

func (r *repository) GetSeasonTotals(ctx context.Context) ([]SeasonTotal, error) {
	var totals []SeasonTotal
	err := r.db.NewSelect().
		Model((*TeamEventScore)(nil)).
		ColumnExpr("team_name").
		ColumnExpr("COUNT(*) AS events").
		ColumnExpr("SUM(total) AS points").
		Where("final = TRUE").
		Group("team_name").
		OrderExpr("points DESC, team_name ASC").
		Scan(ctx, &totals)
	if err != nil {
		return nil, fmt.Errorf("failed to query season totals: %w", err)
	}
	return totals, nil
}
