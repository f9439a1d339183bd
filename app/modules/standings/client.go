// Package standings fetches live tournament results from the PDGA API and
// maps them into engine standings entries. It is the only module that talks
// to the outside scoring feed; the engine itself never performs I/O.
package standings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/metrics"
	"golang.org/x/time/rate"
)

// finalRoundProbes is the round order tried when fetching final results:
// highest first, falling back until a completed round appears.
var finalRoundProbes = []int{4, 3, 2, 1}

// Client talks to the PDGA live results and events APIs.
type Client struct {
	httpClient  *http.Client
	liveAPIURL  string
	eventAPIURL string
	limiter     *rate.Limiter
	logger      *slog.Logger
	metrics     metrics.ScoringMetrics
}

// NewClient builds a rate-limited PDGA API client.
func NewClient(cfg config.PDGAConfig, logger *slog.Logger, m metrics.ScoringMetrics) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		liveAPIURL:  cfg.LiveAPIURL,
		eventAPIURL: cfg.EventAPIURL,
		// The live API throttles aggressively during tournament weekends.
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		logger:  logger,
		metrics: m,
	}
}

// FetchRound fetches one division's scores for a specific round.
func (c *Client) FetchRound(ctx context.Context, tournamentID int, division scoringdomain.Division, round int) ([]ScoreRow, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("TournID", strconv.Itoa(tournamentID))
	q.Set("Division", string(division))
	q.Set("Round", strconv.Itoa(round))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.liveAPIURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build live results request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("live results request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("live results API returned status %d for tournament %d round %d", resp.StatusCode, tournamentID, round)
	}

	var payload liveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode live results: %w", err)
	}

	rows := payload.Data.Scores
	c.metrics.RecordStandingsFetch(ctx, string(division), len(rows))
	c.logger.InfoContext(ctx, "Fetched round scores",
		attr.Int("tournament_id", tournamentID),
		attr.String("division", string(division)),
		attr.Int("round", round),
		attr.Int("rows", len(rows)),
	)
	return rows, nil
}

// FetchFinal fetches final tournament results by probing rounds from the
// last plausible one downward until a round with completed scores appears.
func (c *Client) FetchFinal(ctx context.Context, tournamentID int, division scoringdomain.Division) ([]ScoreRow, error) {
	var lastErr error
	for _, round := range finalRoundProbes {
		rows, err := c.FetchRound(ctx, tournamentID, division, round)
		if err != nil {
			lastErr = err
			continue
		}
		if anyCompleted(rows) {
			return rows, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("no completed round found for tournament %d %s: %w", tournamentID, division, lastErr)
	}
	return nil, nil
}

func anyCompleted(rows []ScoreRow) bool {
	for _, r := range rows {
		if bool(r.Completed) {
			return true
		}
	}
	return false
}

// LookupTournamentID resolves a tournament name to its PDGA ID within a
// season, matching case-insensitively on a name fragment.
func (c *Client) LookupTournamentID(ctx context.Context, name string, year int) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	q := url.Values{}
	q.Set("tier", "ES,NT,M")
	q.Set("start_date", fmt.Sprintf("%d-01-01", year))
	q.Set("end_date", fmt.Sprintf("%d-12-31", year))
	q.Set("limit", "100")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.eventAPIURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build event lookup request: %w", err)
	}
	req.Header.Set("Cookie", "session_name=sessid")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("event lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("events API returned status %d", resp.StatusCode)
	}

	var records []eventRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return 0, fmt.Errorf("failed to decode events response: %w", err)
	}

	needle := strings.ToLower(name)
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Name), needle) {
			c.logger.InfoContext(ctx, "Resolved tournament ID",
				attr.String("name", rec.Name),
				attr.Int("tournament_id", int(rec.TournamentID)),
			)
			return int(rec.TournamentID), nil
		}
	}
	return 0, fmt.Errorf("no tournament matching %q in %d", name, year)
}
