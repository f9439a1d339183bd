package scoringdb

import (
	"time"

	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	"github.com/uptrace/bun"
)

// TeamEventScore is one team's stored result for one event. The engine
// never reads these back; they feed the HTTP API, the season sheet, and
// the chart.
type TeamEventScore struct {
	bun.BaseModel `bun:"table:team_event_scores,alias:tes"`

	ID             int64                        `bun:"id,pk,autoincrement"`
	EventName      string                       `bun:"event_name,notnull"`
	TournamentID   int                          `bun:"tournament_id,notnull"`
	TeamName       string                       `bun:"team_name,notnull"`
	Rank           int                          `bun:"rank,notnull"`
	Total          float64                      `bun:"total,notnull"`
	PenaltyApplied bool                         `bun:"penalty_applied,notnull"`
	Final          bool                         `bun:"final,notnull"`
	Breakdown      []scoringdomain.DivisionScore `bun:"breakdown,type:jsonb"`
	UpdatedAt      time.Time                    `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// SeasonTotal is a team's accumulated points across stored events.
type SeasonTotal struct {
	TeamName string  `bun:"team_name" json:"team_name"`
	Events   int     `bun:"events" json:"events"`
	Points   float64 `bun:"points" json:"points"`
}
