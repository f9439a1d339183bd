package scoringqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/eventbus"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
	"github.com/uptrace/bun"
)

// QueueService schedules and cancels scoring refresh jobs.
type QueueService interface {
	// ScheduleRefresh schedules a scoring run at the given time.
	ScheduleRefresh(ctx context.Context, job ScoringRefreshJob, at time.Time) error
	// CancelEventJobs cancels pending refreshes for one event.
	CancelEventJobs(ctx context.Context, eventName string) error
	// GetScheduledJobs lists pending refreshes for one event.
	GetScheduledJobs(ctx context.Context, eventName string) ([]JobInfo, error)
	// HealthCheck verifies the queue backend is reachable.
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service handles scoring refresh scheduling using River.
type Service struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	db     *bun.DB
	logger *slog.Logger
}

// NewService creates a River-backed queue service. River needs its own pgx
// pool; the bun DB is only used for job queries.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, eventBus eventbus.EventBus) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
	)

	ctxLogger.Info("Initializing scoring queue service")

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewScoringRefreshWorker(ctxLogger, eventBus))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			"scoring":          {MaxWorkers: 5},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	ctxLogger.Info("Scoring queue service initialized")
	return &Service{
		client: riverClient,
		pool:   pool,
		db:     bunDB,
		logger: ctxLogger,
	}, nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting scoring queue service")
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop stops the River client and closes its pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping scoring queue service")
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.pool.Close()
	return nil
}

// ScheduleRefresh schedules a scoring refresh. Duplicate jobs for the same
// args are collapsed by River's uniqueness check.
func (s *Service) ScheduleRefresh(ctx context.Context, job ScoringRefreshJob, at time.Time) error {
	ctxLogger := s.logger.With(
		attr.String("event_name", job.EventName),
		attr.Time("scheduled_at", at),
	)

	now := time.Now()
	if at.Before(now.Add(5 * time.Second)) {
		return fmt.Errorf("refresh time must be at least 5 seconds in the future")
	}

	// Uniqueness is scoped to pending states only so a completed refresh
	// does not block the next one for the same event.
	jobResult, err := s.client.Insert(ctx, job, &river.InsertOpts{
		Queue:       "scoring",
		ScheduledAt: at,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRetryable,
				rivertype.JobStateRunning,
				rivertype.JobStateScheduled,
			},
		},
	})
	if err != nil {
		ctxLogger.Error("Failed to schedule scoring refresh", attr.Error(err))
		return fmt.Errorf("failed to schedule scoring refresh: %w", err)
	}

	ctxLogger.Info("Scoring refresh scheduled",
		attr.Duration("delay", at.Sub(now)),
		attr.Int64("job_id", jobResult.Job.ID),
	)
	return nil
}

// riverJobRow mirrors the river_job columns the queries below read.
type riverJobRow struct {
	ID          int64      `bun:"id"`
	Kind        string     `bun:"kind"`
	State       string     `bun:"state"`
	ScheduledAt *time.Time `bun:"scheduled_at"`
	CreatedAt   time.Time  `bun:"created_at"`
	Attempt     int16      `bun:"attempt"`
	MaxAttempts int16      `bun:"max_attempts"`
}

// CancelEventJobs cancels all pending refreshes for one event.
func (s *Service) CancelEventJobs(ctx context.Context, eventName string) error {
	ctxLogger := s.logger.With(attr.String("event_name", eventName))

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state").
		Where("kind = ?", ScoringRefreshJob{}.Kind()).
		Where("state IN (?, ?)", "available", "scheduled").
		Where("args->>'event_name' = ?", eventName).
		Scan(ctx, &jobs)
	if err != nil {
		return fmt.Errorf("failed to query jobs for cancellation: %w", err)
	}

	cancelled := 0
	for _, job := range jobs {
		if _, err := s.client.JobCancel(ctx, job.ID); err != nil {
			ctxLogger.Warn("Failed to cancel job",
				attr.Int64("job_id", job.ID),
				attr.Error(err),
			)
			continue
		}
		cancelled++
	}

	ctxLogger.Info("Job cancellation completed",
		attr.Int("total_found", len(jobs)),
		attr.Int("cancelled_count", cancelled),
	)
	return nil
}

// GetScheduledJobs lists pending refreshes for one event.
func (s *Service) GetScheduledJobs(ctx context.Context, eventName string) ([]JobInfo, error) {
	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind = ?", ScoringRefreshJob{}.Kind()).
		Where("args->>'event_name' = ?", eventName).
		Order("scheduled_at ASC NULLS LAST", "created_at ASC").
		Scan(ctx, &jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled jobs: %w", err)
	}

	result := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.Format(time.RFC3339)
		}
		result[i] = JobInfo{
			ID:          job.ID,
			Kind:        job.Kind,
			EventName:   eventName,
			State:       job.State,
			ScheduledAt: scheduledAt,
			CreatedAt:   job.CreatedAt.Format(time.RFC3339),
			Attempt:     int(job.Attempt),
			MaxAttempts: int(job.MaxAttempts),
		}
	}
	return result, nil
}

// HealthCheck verifies the underlying pool is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue database unreachable: %w", err)
	}
	return nil
}
