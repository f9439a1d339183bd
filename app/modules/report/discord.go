package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/metrics"
	"golang.org/x/time/rate"
)

// discordMessageLimit is Discord's hard cap on message content length.
const discordMessageLimit = 2000

// DiscordWebhook posts formatted reports to a Discord channel webhook.
type DiscordWebhook struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    metrics.ScoringMetrics
}

// NewDiscordWebhook builds a rate-limited webhook poster.
func NewDiscordWebhook(url string, logger *slog.Logger, m metrics.ScoringMetrics) *DiscordWebhook {
	return &DiscordWebhook{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		// Webhooks allow 30 requests/minute; stay well under it.
		limiter: rate.NewLimiter(rate.Every(3*time.Second), 1),
		logger:  logger,
		metrics: m,
	}
}

// Post sends a markdown message, splitting on paragraph boundaries when the
// content exceeds Discord's message limit.
func (w *DiscordWebhook) Post(ctx context.Context, content string) error {
	for _, chunk := range splitMessage(content, discordMessageLimit) {
		if err := w.post(ctx, chunk); err != nil {
			w.metrics.RecordPublish(ctx, "discord", false)
			return err
		}
	}
	w.metrics.RecordPublish(ctx, "discord", true)
	return nil
}

func (w *DiscordWebhook) post(ctx context.Context, content string) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return w.send(req)
}

// PostWithChart sends a message with an attached PNG chart.
func (w *DiscordWebhook) PostWithChart(ctx context.Context, content string, chartPNG []byte) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}
	if err := mw.WriteField("payload_json", string(payload)); err != nil {
		return fmt.Errorf("failed to write payload field: %w", err)
	}

	part, err := mw.CreateFormFile("files[0]", "season.png")
	if err != nil {
		return fmt.Errorf("failed to create chart attachment: %w", err)
	}
	if _, err := part.Write(chartPNG); err != nil {
		return fmt.Errorf("failed to write chart attachment: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, &buf)
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if err := w.send(req); err != nil {
		w.metrics.RecordPublish(ctx, "discord", false)
		return err
	}
	w.metrics.RecordPublish(ctx, "discord", true)
	return nil
}

func (w *DiscordWebhook) send(req *http.Request) error {
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		w.logger.Error("Discord webhook rejected message",
			attr.Int("status", resp.StatusCode),
			attr.String("body", string(body)),
		)
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// splitMessage splits content into chunks under limit, preferring paragraph
// breaks, then line breaks, then a hard cut.
func splitMessage(content string, limit int) []string {
	if len(content) <= limit {
		return []string{content}
	}

	var chunks []string
	for len(content) > limit {
		cut := lastIndexBefore(content, "\n\n", limit)
		if cut <= 0 {
			cut = lastIndexBefore(content, "\n", limit)
		}
		if cut <= 0 {
			cut = limit
		}
		chunks = append(chunks, content[:cut])
		for cut < len(content) && content[cut] == '\n' {
			cut++
		}
		content = content[cut:]
	}
	if content != "" {
		chunks = append(chunks, content)
	}
	return chunks
}

func lastIndexBefore(s, sep string, limit int) int {
	if limit > len(s) {
		limit = len(s)
	}
	return bytes.LastIndex([]byte(s[:limit]), []byte(sep))
}
