// scorectl runs one-shot scoring operations from the command line: score an
// event, look up a tournament ID, print the next scheduled event, or export
// the season to a workbook. The long-running service does the same work off
// the event bus; this tool is for manual runs and recovery.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/report"
	scoringservice "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/application"
	scoringdb "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/schedule"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/standings"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/metrics"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "scorectl",
		Usage: "fantasy disc golf scoring operations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			runCommand(),
			lookupCommand(),
			nextCommand(),
			seasonExportCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type env struct {
	cfg    *config.Config
	league *config.LeagueConfig
	obs    *observability.Observability
}

func loadEnv(c *cli.Context) (*env, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	league, err := config.LoadLeague(cfg.League.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load league: %w", err)
	}
	return &env{cfg: cfg, league: league, obs: observability.Init(cfg.Observability.Environment)}, nil
}

func openDB(cfg *config.Config) *bun.DB {
	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	return bun.NewDB(pgdb, pgdialect.New())
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "score an event and print (and optionally publish) the report",
		ArgsUsage: "<event name>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "round", Usage: "score a single live round instead of the final"},
			&cli.BoolFlag{Name: "final", Usage: "treat the run as final"},
			&cli.BoolFlag{Name: "no-discord", Usage: "skip the Discord post"},
			&cli.BoolFlag{Name: "no-sheets", Usage: "skip the season sheet update"},
		},
		Action: func(c *cli.Context) error {
			eventName := c.Args().First()
			if eventName == "" {
				return errors.New("usage: scorectl run <event name>")
			}

			e, err := loadEnv(c)
			if err != nil {
				return err
			}

			db := openDB(e.cfg)
			defer db.Close()

			m := metrics.NewScoringMetrics(nil)
			repo := scoringdb.NewRepository(db, e.obs.Logger)
			fetcher := standings.NewClient(e.cfg.PDGA, e.obs.Logger, m)
			service := scoringservice.NewScoringService(
				fetcher, e.league, repo, nil, e.obs.Logger, m, e.obs.Tracer, db,
			)

			result, err := service.RunScoring(c.Context, events.ScoringRunRequestedPayloadV1{
				EventName:   eventName,
				Round:       c.Int("round"),
				Final:       c.Bool("final"),
				RequestedBy: "scorectl",
			})
			if err != nil {
				return err
			}
			if result.IsFailure() {
				return fmt.Errorf("scoring failed: %s", result.Failure.Reason)
			}

			payload := *result.Success
			content := report.BuildEventReport(payload, time.Now())
			fmt.Println(content)

			if !c.Bool("no-discord") && e.cfg.Discord.WebhookURL != "" {
				webhook := report.NewDiscordWebhook(e.cfg.Discord.WebhookURL, e.obs.Logger, m)
				if err := webhook.Post(c.Context, content); err != nil {
					return fmt.Errorf("failed to post to Discord: %w", err)
				}
			}

			if !c.Bool("no-sheets") && payload.Final &&
				e.cfg.Sheets.SpreadsheetID != "" && e.cfg.Sheets.CredentialsFile != "" {
				if err := updateSeasonSheet(c.Context, e, m, payload); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func updateSeasonSheet(ctx context.Context, e *env, m metrics.ScoringMetrics, payload events.ScoringRunCompletedPayloadV1) error {
	publisher, err := report.NewSheetsPublisher(ctx, e.cfg.Sheets, e.obs.Logger, m)
	if err != nil {
		return err
	}

	totals := make(map[string]float64, len(payload.Leaderboard))
	for _, team := range payload.Leaderboard {
		totals[team.TeamName] = team.Total
	}
	return publisher.UpdateSeasonRow(ctx, payload.EventName, teamOrder(e.league), totals)
}

func teamOrder(league *config.LeagueConfig) []string {
	names := make([]string, 0, len(league.Teams))
	for _, team := range league.Teams {
		names = append(names, team.Name)
	}
	return names
}

func lookupCommand() *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "resolve an event name to a PDGA tournament ID",
		ArgsUsage: "<event name>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Usage: "tournament year (defaults to the current year)"},
		},
		Action: func(c *cli.Context) error {
			eventName := c.Args().First()
			if eventName == "" {
				return errors.New("usage: scorectl lookup <event name>")
			}

			e, err := loadEnv(c)
			if err != nil {
				return err
			}

			year := c.Int("year")
			if year == 0 {
				year = time.Now().Year()
			}

			client := standings.NewClient(e.cfg.PDGA, e.obs.Logger, metrics.NewScoringMetrics(nil))
			id, err := client.LookupTournamentID(c.Context, eventName, year)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%d): tournament ID %d\n", eventName, year, id)
			return nil
		},
	}
}

func nextCommand() *cli.Command {
	return &cli.Command{
		Name:  "next",
		Usage: "print the next scheduled event",
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}

			ev, start, ok := schedule.New(e.league).Next(time.Now())
			if !ok {
				return errors.New("no upcoming events")
			}
			fmt.Printf("%s (%s) starting %s\n", ev.Name, ev.Kind, start.Format("Mon Jan 2, 2006"))
			return nil
		},
	}
}

func seasonExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "season-export",
		Usage: "export stored event scores to an xlsx workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "season.xlsx", Usage: "output workbook path"},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}

			db := openDB(e.cfg)
			defer db.Close()
			repo := scoringdb.NewRepository(db, e.obs.Logger)

			var rows []report.SeasonRow
			for _, ev := range e.league.Schedule {
				scores, err := repo.GetEventScores(c.Context, ev.Name)
				if errors.Is(err, scoringdb.ErrEventNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				rows = append(rows, report.SeasonRow{
					EventName: ev.Name,
					Totals:    eventTotals(scores),
				})
			}
			if len(rows) == 0 {
				return errors.New("no stored event scores to export")
			}

			path := c.String("out")
			if err := report.WriteSeasonWorkbook(path, e.cfg.Sheets.SeasonTab, teamOrder(e.league), rows); err != nil {
				return err
			}
			fmt.Printf("Wrote %d events to %s\n", len(rows), path)
			return nil
		},
	}
}

func eventTotals(scores []scoringdb.TeamEventScore) map[string]float64 {
	totals := make(map[string]float64, len(scores))
	for _, score := range scores {
		totals[score.TeamName] = score.Total
	}
	return totals
}
