// Package events defines the versioned topics and payloads exchanged over
// the event bus. The Discord bot publishes run requests; the scoring module
// consumes them and publishes outcomes for the report publisher.
package events

import (
	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
)

// Stream groups all fantasy scoring subjects under one JetStream stream.
const Stream = "fantasy"

// Versioned topic constants. Bump the version when a payload changes shape.
const (
	ScoringRunRequestedV1 = "fantasy.scoring.run.requested.v1"
	ScoringRunCompletedV1 = "fantasy.scoring.run.completed.v1"
	ScoringRunFailedV1    = "fantasy.scoring.run.failed.v1"
)

// ScoringRunRequestedPayloadV1 asks for one scoring run. Round zero with
// Final set fetches final results; otherwise the given live round.
type ScoringRunRequestedPayloadV1 struct {
	EventName    string `json:"event_name"`
	TournamentID int    `json:"tournament_id,omitempty"`
	Round        int    `json:"round,omitempty"`
	Final        bool   `json:"final"`
	RequestedBy  string `json:"requested_by,omitempty"`
}

// ScoringRunCompletedPayloadV1 carries the full engine output to the
// report publisher.
type ScoringRunCompletedPayloadV1 struct {
	EventName    string                          `json:"event_name"`
	TournamentID int                             `json:"tournament_id"`
	EventKind    string                          `json:"event_kind"`
	Final        bool                            `json:"final"`
	Leaderboard  []scoringdomain.TeamScoreResult `json:"leaderboard"`
	Warnings     []string                        `json:"warnings,omitempty"`
}

// ScoringRunFailedPayloadV1 reports a run that could not complete.
type ScoringRunFailedPayloadV1 struct {
	EventName    string `json:"event_name"`
	TournamentID int    `json:"tournament_id,omitempty"`
	Reason       string `json:"reason"`
}
