package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/metrics"
	"golang.org/x/oauth2/google"
)

const sheetsAPIBase = "https://sheets.googleapis.com/v4/spreadsheets"

// SheetsPublisher writes event totals into the season tab of the league
// spreadsheet. Rows are keyed by event name in column A; team totals fill
// the columns to the right.
type SheetsPublisher struct {
	spreadsheetID string
	tab           string
	baseURL       string
	httpClient    *http.Client
	logger        *slog.Logger
	metrics       metrics.ScoringMetrics
}

// NewSheetsPublisher authenticates with the service-account key and returns
// a publisher for the configured spreadsheet.
func NewSheetsPublisher(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger, m metrics.ScoringMetrics) (*SheetsPublisher, error) {
	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets credentials: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(creds, "https://www.googleapis.com/auth/spreadsheets")
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheets credentials: %w", err)
	}

	return &SheetsPublisher{
		spreadsheetID: cfg.SpreadsheetID,
		tab:           cfg.SeasonTab,
		baseURL:       sheetsAPIBase,
		httpClient:    jwtConfig.Client(ctx),
		logger:        logger,
		metrics:       m,
	}, nil
}

// newSheetsPublisherForTest bypasses authentication; tests point baseURL at
// an httptest server.
func newSheetsPublisherForTest(baseURL, spreadsheetID, tab string, logger *slog.Logger, m metrics.ScoringMetrics) *SheetsPublisher {
	return &SheetsPublisher{
		spreadsheetID: spreadsheetID,
		tab:           tab,
		baseURL:       baseURL,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		logger:        logger,
		metrics:       m,
	}
}

// UpdateSeasonRow writes one event's totals. The row is located by event
// name in column A; a new row is appended when the event is not present.
// teamOrder fixes the column order and must match the sheet header.
func (p *SheetsPublisher) UpdateSeasonRow(ctx context.Context, eventName string, teamOrder []string, totals map[string]float64) error {
	row, err := p.findEventRow(ctx, eventName)
	if err != nil {
		p.metrics.RecordPublish(ctx, "sheets", false)
		return err
	}

	values := make([]interface{}, 0, len(teamOrder)+1)
	values = append(values, eventName)
	for _, team := range teamOrder {
		values = append(values, totals[team])
	}

	if row == 0 {
		err = p.append(ctx, values)
	} else {
		err = p.update(ctx, row, values)
	}
	if err != nil {
		p.metrics.RecordPublish(ctx, "sheets", false)
		return err
	}

	p.logger.InfoContext(ctx, "Season sheet updated",
		attr.String("event_name", eventName),
		attr.Int("row", row),
	)
	p.metrics.RecordPublish(ctx, "sheets", true)
	return nil
}

// findEventRow returns the 1-based sheet row holding eventName in column A,
// or zero when absent.
func (p *SheetsPublisher) findEventRow(ctx context.Context, eventName string) (int, error) {
	rangeRef := url.PathEscape(fmt.Sprintf("%s!A:A", p.tab))
	endpoint := fmt.Sprintf("%s/%s/values/%s", p.baseURL, p.spreadsheetID, rangeRef)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build sheets request: %w", err)
	}

	var result struct {
		Values [][]string `json:"values"`
	}
	if err := p.do(req, &result); err != nil {
		return 0, err
	}

	needle := strings.ToLower(strings.TrimSpace(eventName))
	for i, rowValues := range result.Values {
		if len(rowValues) > 0 && strings.ToLower(strings.TrimSpace(rowValues[0])) == needle {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (p *SheetsPublisher) update(ctx context.Context, row int, values []interface{}) error {
	rangeRef := url.PathEscape(fmt.Sprintf("%s!A%d", p.tab, row))
	endpoint := fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW", p.baseURL, p.spreadsheetID, rangeRef)

	body, err := json.Marshal(map[string]interface{}{"values": [][]interface{}{values}})
	if err != nil {
		return fmt.Errorf("failed to marshal sheet values: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sheets request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(req, nil)
}

func (p *SheetsPublisher) append(ctx context.Context, values []interface{}) error {
	rangeRef := url.PathEscape(fmt.Sprintf("%s!A:A", p.tab))
	endpoint := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=RAW", p.baseURL, p.spreadsheetID, rangeRef)

	body, err := json.Marshal(map[string]interface{}{"values": [][]interface{}{values}})
	if err != nil {
		return fmt.Errorf("failed to marshal sheet values: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sheets request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(req, nil)
}

func (p *SheetsPublisher) do(req *http.Request, out interface{}) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheets API returned status %d: %s", resp.StatusCode, string(body))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode sheets response: %w", err)
		}
	}
	return nil
}
