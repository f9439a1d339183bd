// Package app wires the modules together: database, event bus, scoring,
// reports, the refresh queue, and the HTTP API.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/api"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/eventbus"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/report"
	scoringservice "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/application"
	scoringqueue "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/queue"
	scoringdb "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories"
	scoringrouter "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/router"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/schedule"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/standings"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/metrics"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// ShutdownTimeout bounds how long Close waits for components to drain.
const ShutdownTimeout = 15 * time.Second

// App holds the assembled application.
type App struct {
	Config          *config.Config
	League          *config.LeagueConfig
	Observability   *observability.Observability
	EventBus        eventbus.EventBus
	WatermillRouter *message.Router
	QueueService    scoringqueue.QueueService
	Schedule        *schedule.Registry

	db        *bun.DB
	apiServer *api.Server
}

// Initialize builds every component. Nothing runs until Run.
func (app *App) Initialize(ctx context.Context, cfg *config.Config, obs *observability.Observability) error {
	app.Config = cfg
	app.Observability = obs
	logger := obs.Logger

	league, err := config.LoadLeague(cfg.League.File)
	if err != nil {
		return fmt.Errorf("failed to load league: %w", err)
	}
	app.League = league
	app.Schedule = schedule.New(league)

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	app.db = bun.NewDB(pgdb, pgdialect.New())
	if err := app.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	app.EventBus = bus

	if err := bus.CreateStream(ctx, events.Stream, "fantasy.>"); err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	scoringMetrics := metrics.NewScoringMetrics(obs.Registry)
	repo := scoringdb.NewRepository(app.db, logger)
	fetcher := standings.NewClient(cfg.PDGA, logger, scoringMetrics)

	service := scoringservice.NewScoringService(
		fetcher, league, repo, bus, logger, scoringMetrics, obs.Tracer, app.db,
	)

	watermillLogger := watermill.NewSlogLogger(logger)
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return fmt.Errorf("failed to create watermill router: %w", err)
	}
	app.WatermillRouter = router

	sr := scoringrouter.NewScoringRouter(logger, router, bus, bus, obs.Tracer, obs.Registry)
	if err := sr.Configure(ctx, service, scoringMetrics); err != nil {
		return fmt.Errorf("failed to configure scoring router: %w", err)
	}

	if err := app.configureReports(ctx, repo, scoringMetrics); err != nil {
		return err
	}

	queueService, err := scoringqueue.NewService(ctx, app.db, logger, cfg.Postgres.DSN, bus)
	if err != nil {
		return fmt.Errorf("failed to create queue service: %w", err)
	}
	app.QueueService = queueService

	refresher := scoringqueue.NewRefresher(queueService, cfg.League.RefreshInterval, logger)
	refresher.Configure(router, bus)

	app.apiServer = api.NewServer(cfg.HTTP, league, app.Schedule, repo, obs.Registry, logger)

	logger.InfoContext(ctx, "Application initialized",
		attr.Int("teams", len(league.Teams)),
		attr.Int("events", len(league.Schedule)),
	)
	return nil
}

// configureReports wires the Discord and Sheets publishers when configured.
// A bare deployment with neither still runs scoring and serves the API.
func (app *App) configureReports(ctx context.Context, repo scoringdb.Repository, m metrics.ScoringMetrics) error {
	cfg := app.Config
	logger := app.Observability.Logger

	var discord report.DiscordPoster
	if cfg.Discord.WebhookURL != "" {
		discord = report.NewDiscordWebhook(cfg.Discord.WebhookURL, logger, m)
	} else {
		logger.Warn("Discord webhook not configured; reports will not be posted")
	}

	var sheets report.SeasonSheet
	if cfg.Sheets.SpreadsheetID != "" && cfg.Sheets.CredentialsFile != "" {
		publisher, err := report.NewSheetsPublisher(ctx, cfg.Sheets, logger, m)
		if err != nil {
			return fmt.Errorf("failed to create sheets publisher: %w", err)
		}
		sheets = publisher
	} else {
		logger.Warn("Google Sheets not configured; season sheet will not be updated")
	}

	handlers := report.NewHandlers(discord, sheets, repo, app.League, logger, app.Observability.Tracer)
	return report.NewRouter(logger, app.WatermillRouter, app.EventBus).Configure(handlers)
}

// Run starts the router, the queue workers, and the HTTP API, and blocks
// until the context is cancelled or a component fails.
func (app *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	go func() {
		if err := app.WatermillRouter.Run(ctx); err != nil {
			errCh <- fmt.Errorf("watermill router: %w", err)
		}
	}()

	if err := app.QueueService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start queue service: %w", err)
	}

	go func() {
		if err := app.apiServer.Start(ctx); err != nil {
			errCh <- fmt.Errorf("http api: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

// Close shuts components down in reverse dependency order.
func (app *App) Close(ctx context.Context) {
	logger := app.Observability.Logger

	if app.QueueService != nil {
		if err := app.QueueService.Stop(ctx); err != nil {
			logger.Error("Failed to stop queue service", attr.Error(err))
		}
	}
	if app.WatermillRouter != nil {
		if err := app.WatermillRouter.Close(); err != nil {
			logger.Error("Failed to close watermill router", attr.Error(err))
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", attr.Error(err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			logger.Error("Failed to close database", attr.Error(err))
		}
	}
}
