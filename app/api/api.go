// Package api exposes the read-side HTTP surface: health, metrics, stored
// event leaderboards, season standings, and the schedule.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	scoringdb "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/schedule"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"log/slog"
)

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the API server and its routes.
func NewServer(
	cfg config.HTTPConfig,
	league *config.LeagueConfig,
	sched *schedule.Registry,
	repo scoringdb.Repository,
	registry *prometheus.Registry,
	logger *slog.Logger,
) *Server {
	s := &Server{logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/leaderboard/{event}", s.handleLeaderboard(repo))
		r.Get("/season", s.handleSeason(repo))
		r.Get("/schedule/next", s.handleNextEvent(sched))
	})

	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves until the context is cancelled, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", attr.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleLeaderboard(repo scoringdb.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventName := chi.URLParam(r, "event")
		if decoded, err := url.PathUnescape(eventName); err == nil {
			eventName = decoded
		}

		scores, err := repo.GetEventScores(r.Context(), eventName)
		if errors.Is(err, scoringdb.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "no stored scores for event")
			return
		}
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to load event scores", attr.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, map[string]interface{}{
			"event":       eventName,
			"leaderboard": scores,
		})
	}
}

func (s *Server) handleSeason(repo scoringdb.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := repo.GetSeasonTotals(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to load season totals", attr.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, map[string]interface{}{"standings": totals})
	}
}

func (s *Server) handleNextEvent(sched *schedule.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, start, ok := sched.Next(time.Now())
		if !ok {
			writeError(w, http.StatusNotFound, "no upcoming events")
			return
		}

		writeJSON(w, map[string]interface{}{
			"event":      ev.Name,
			"kind":       ev.Kind,
			"dates":      ev.Dates,
			"special":    ev.Special,
			"start_date": start.Format("2006-01-02"),
		})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
