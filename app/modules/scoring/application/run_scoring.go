package scoringservice

import (
	"context"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/standings"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
)

// RunScoring executes one scoring run end to end using the service wrapper.
func (s *ScoringService) RunScoring(ctx context.Context, req events.ScoringRunRequestedPayloadV1) (ScoringOperationResult, error) {
	return s.serviceWrapper(ctx, "RunScoring", req.EventName, func(ctx context.Context) (ScoringOperationResult, error) {
		ev, ok := s.league.FindEvent(req.EventName)
		if !ok {
			return ScoringOperationResult{
				Failure: &events.ScoringRunFailedPayloadV1{
					EventName: req.EventName,
					Reason:    fmt.Sprintf("no scheduled event matching %q", req.EventName),
				},
			}, nil
		}

		cfg := s.league.EventConfigFor(ev)

		tournamentID := req.TournamentID
		if tournamentID == 0 {
			tournamentID = ev.TournamentID
		}
		if tournamentID == 0 {
			id, err := s.fetcher.LookupTournamentID(ctx, ev.Name, time.Now().Year())
			if err != nil {
				return ScoringOperationResult{
					Failure: &events.ScoringRunFailedPayloadV1{
						EventName: ev.Name,
						Reason:    fmt.Sprintf("failed to resolve tournament ID: %v", err),
					},
				}, nil
			}
			tournamentID = id
		}
		cfg.TournamentID = tournamentID

		teams := s.league.DomainTeams()
		entries, err := s.fetchStandings(ctx, tournamentID, teams, req)
		if err != nil {
			return ScoringOperationResult{
				Failure: &events.ScoringRunFailedPayloadV1{
					EventName:    ev.Name,
					TournamentID: tournamentID,
					Reason:       fmt.Sprintf("failed to fetch standings: %v", err),
				},
			}, nil
		}

		if len(entries) == 0 {
			return ScoringOperationResult{
				Failure: &events.ScoringRunFailedPayloadV1{
					EventName:    ev.Name,
					TournamentID: tournamentID,
					Reason:       ErrNoStandings.Error(),
				},
			}, nil
		}

		result, err := scoringdomain.Score(scoringdomain.Input{
			Config:    cfg,
			Tables:    s.league.DomainTables(),
			Teams:     teams,
			Standings: entries,
		})
		if err != nil {
			return ScoringOperationResult{
				Failure: &events.ScoringRunFailedPayloadV1{
					EventName:    ev.Name,
					TournamentID: tournamentID,
					Reason:       err.Error(),
				},
			}, nil
		}
		if req.Final {
			result.Final = true
		}

		if err := s.repo.UpsertEventScores(ctx, result); err != nil {
			return ScoringOperationResult{
				Failure: &events.ScoringRunFailedPayloadV1{
					EventName:    ev.Name,
					TournamentID: tournamentID,
					Reason:       fmt.Sprintf("failed to store scores: %v", err),
				},
			}, nil
		}

		s.logger.InfoContext(ctx, "Scoring run complete",
			attr.ExtractCorrelationID(ctx),
			attr.String("event_name", ev.Name),
			attr.Int("tournament_id", tournamentID),
			attr.Int("teams", len(result.Leaderboard)),
			attr.Int("warnings", len(result.Warnings)),
			attr.Bool("final", result.Final),
		)

		return ScoringOperationResult{
			Success: &events.ScoringRunCompletedPayloadV1{
				EventName:    ev.Name,
				TournamentID: tournamentID,
				EventKind:    ev.Kind,
				Final:        result.Final,
				Leaderboard:  result.Leaderboard,
				Warnings:     result.Warnings,
			},
		}, nil
	})
}

// fetchStandings pulls one round (or the final) per tracked division and
// maps the feed rows onto rostered players.
func (s *ScoringService) fetchStandings(ctx context.Context, tournamentID int, teams []scoringdomain.Team, req events.ScoringRunRequestedPayloadV1) ([]scoringdomain.StandingEntry, error) {
	var entries []scoringdomain.StandingEntry
	for _, division := range scoringdomain.Divisions {
		tracked := trackedPlayers(teams, division)
		if len(tracked) == 0 {
			continue
		}

		var (
			rows []standings.ScoreRow
			err  error
		)
		if req.Final || req.Round == 0 {
			rows, err = s.fetcher.FetchFinal(ctx, tournamentID, division)
		} else {
			rows, err = s.fetcher.FetchRound(ctx, tournamentID, division, req.Round)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", division, err)
		}

		entries = append(entries, standings.MapRows(rows, division, tracked, s.overrides)...)
	}
	return entries, nil
}

// trackedPlayers flattens every roster's players for one division.
func trackedPlayers(teams []scoringdomain.Team, d scoringdomain.Division) []scoringdomain.Player {
	var out []scoringdomain.Player
	seen := make(map[scoringdomain.PlayerID]bool)
	for _, team := range teams {
		for _, p := range team.RosterByDivision(d) {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}
