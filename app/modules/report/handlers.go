package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	scoringdb "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// DiscordPoster is the Discord surface the handlers need.
type DiscordPoster interface {
	Post(ctx context.Context, content string) error
	PostWithChart(ctx context.Context, content string, chartPNG []byte) error
}

// SeasonSheet is the spreadsheet surface the handlers need.
type SeasonSheet interface {
	UpdateSeasonRow(ctx context.Context, eventName string, teamOrder []string, totals map[string]float64) error
}

// Handlers consumes scoring outcomes and fans them out to Discord and the
// season sheet. Either target may be nil when disabled.
type Handlers struct {
	discord DiscordPoster
	sheets  SeasonSheet
	repo    scoringdb.Repository
	league  *config.LeagueConfig
	logger  *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewHandlers creates report handlers.
func NewHandlers(
	discord DiscordPoster,
	sheets SeasonSheet,
	repo scoringdb.Repository,
	league *config.LeagueConfig,
	logger *slog.Logger,
	tracer trace.Tracer,
) *Handlers {
	return &Handlers{
		discord: discord,
		sheets:  sheets,
		repo:    repo,
		league:  league,
		logger:  logger,
		tracer:  tracer,
		now:     time.Now,
	}
}

// HandleScoringRunCompleted publishes the event report. Final full-event
// runs also update the season sheet and attach the season chart.
func (h *Handlers) HandleScoringRunCompleted(msg *message.Message) ([]*message.Message, error) {
	ctx, span := h.tracer.Start(msg.Context(), "HandleScoringRunCompleted")
	defer span.End()

	var payload events.ScoringRunCompletedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal completed payload: %w", err)
	}

	h.logger.InfoContext(ctx, "Publishing scoring report",
		attr.CorrelationIDFromMsg(msg),
		attr.String("event_name", payload.EventName),
		attr.Bool("final", payload.Final),
	)

	if h.discord != nil {
		if err := h.postToDiscord(ctx, payload); err != nil {
			return nil, err
		}
	}

	if h.sheets != nil && payload.Final {
		if err := h.updateSeasonSheet(ctx, payload); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// HandleScoringRunFailed posts the failure notice so the channel is not
// left waiting on results.
func (h *Handlers) HandleScoringRunFailed(msg *message.Message) ([]*message.Message, error) {
	ctx, span := h.tracer.Start(msg.Context(), "HandleScoringRunFailed")
	defer span.End()

	var payload events.ScoringRunFailedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failed payload: %w", err)
	}

	h.logger.WarnContext(ctx, "Scoring run failed",
		attr.CorrelationIDFromMsg(msg),
		attr.String("event_name", payload.EventName),
		attr.String("reason", payload.Reason),
	)

	if h.discord == nil {
		return nil, nil
	}
	content := fmt.Sprintf("## ⚠️ Scoring failed for %s\n%s", payload.EventName, payload.Reason)
	return nil, h.discord.Post(ctx, content)
}

func (h *Handlers) postToDiscord(ctx context.Context, payload events.ScoringRunCompletedPayloadV1) error {
	content := BuildEventReport(payload, h.now())

	// Final full-event reports carry the season chart.
	if payload.Final && payload.EventKind == config.EventKindFull && h.repo != nil {
		totals, err := h.repo.GetSeasonTotals(ctx)
		if err == nil && len(totals) > 0 {
			if chartPNG, chartErr := RenderSeasonChart(totals); chartErr == nil {
				return h.discord.PostWithChart(ctx, content, chartPNG)
			} else {
				h.logger.WarnContext(ctx, "Season chart rendering failed, posting without it",
					attr.Error(chartErr),
				)
			}
		} else if err != nil {
			h.logger.WarnContext(ctx, "Season totals unavailable, posting without chart",
				attr.Error(err),
			)
		}
	}
	return h.discord.Post(ctx, content)
}

func (h *Handlers) updateSeasonSheet(ctx context.Context, payload events.ScoringRunCompletedPayloadV1) error {
	teamOrder := make([]string, 0, len(h.league.Teams))
	for _, team := range h.league.Teams {
		teamOrder = append(teamOrder, team.Name)
	}

	totals := make(map[string]float64, len(payload.Leaderboard))
	for _, team := range payload.Leaderboard {
		totals[team.TeamName] = team.Total
	}

	if err := h.sheets.UpdateSeasonRow(ctx, payload.EventName, teamOrder, totals); err != nil {
		return fmt.Errorf("failed to update season sheet: %w", err)
	}
	return nil
}
