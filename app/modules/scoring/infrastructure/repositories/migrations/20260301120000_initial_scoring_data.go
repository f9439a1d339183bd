package scoringmigrations

import (
	"context"
	"fmt"

	scoringdb "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating team_event_scores table...")

		if _, err := db.NewCreateTable().Model((*scoringdb.TeamEventScore)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.ExecContext(ctx, `
			CREATE UNIQUE INDEX IF NOT EXISTS idx_team_event_scores_event_team
			ON team_event_scores(event_name, team_name);
		`); err != nil {
			return fmt.Errorf("failed to add unique index to team_event_scores: %w", err)
		}

		fmt.Println("team_event_scores table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping team_event_scores table...")

		if _, err := db.NewDropTable().Model((*scoringdb.TeamEventScore)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("team_event_scores table dropped successfully!")
		return nil
	})
}
