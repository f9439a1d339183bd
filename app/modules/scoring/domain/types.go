package scoringdomain

// Division identifies one of the two tracked competitive divisions.
type Division string

const (
	DivisionMPO Division = "MPO"
	DivisionFPO Division = "FPO"
)

// Divisions lists the tracked divisions in canonical order.
// Team subtotals and reports always follow this order.
var Divisions = []Division{DivisionMPO, DivisionFPO}

// Status describes a player's competing state within an event snapshot.
type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusCut         Status = "CUT"
	StatusWithdrawn   Status = "WITHDRAWN"
	StatusDidNotStart Status = "DID_NOT_START"
)

// Earns reports whether a player in this status keeps placement points.
// Cut players competed and keep what they earned; withdrawals and no-shows
// score nothing even if a historical score exists in the feed.
func (s Status) Earns() bool {
	return s == StatusActive || s == StatusCut
}

// PlayerID is a stable identifier for a tracked player (normalized name).
type PlayerID string

// Player is a rostered player.
type Player struct {
	ID       PlayerID
	Name     string
	Division Division
}

// Team is a fantasy team with its ordered roster.
type Team struct {
	Name    string
	Players []Player
}

// RosterByDivision returns the team's players in the given division,
// preserving roster order.
func (t Team) RosterByDivision(d Division) []Player {
	var out []Player
	for _, p := range t.Players {
		if p.Division == d {
			out = append(out, p)
		}
	}
	return out
}

// StandingEntry is one tracked player's current or final tournament standing.
// Place is 1-based; tied players share a place number.
type StandingEntry struct {
	PlayerID PlayerID
	Name     string
	Division Division
	Place    int
	ToPar    int
	Total    int
	Status   Status
	Final    bool
}

// SpecialModifier is an event-level scoring modifier.
type SpecialModifier string

const (
	ModifierNone         SpecialModifier = "NONE"
	ModifierDoublePoints SpecialModifier = "DOUBLE_POINTS"
)

// Default event parameters. Majors override TopN per division (e.g. FPO 4
// for the US Women's Championship) via league configuration.
const (
	DefaultTopN         = 3
	DefaultCutThreshold = 3
)

// EventConfig carries all event-specific scoring behavior. It is immutable
// for the duration of a scoring run; every stage consumes the same value.
type EventConfig struct {
	EventName    string
	TournamentID int

	// TopN is the per-division count of players whose points count toward
	// the team total. Missing divisions fall back to DefaultTopN.
	TopN map[Division]int

	Modifier SpecialModifier

	// CutThreshold is the minimum number of ACTIVE players a team needs in
	// a division to avoid the cut-rule penalty.
	CutThreshold int

	// PenaltyPoints is an optional fixed deduction applied to a division
	// subtotal when the cut rule triggers. Zero means flag-only.
	PenaltyPoints float64
}

// TopNFor returns the effective top-N count for a division.
func (c EventConfig) TopNFor(d Division) int {
	if n, ok := c.TopN[d]; ok {
		return n
	}
	return DefaultTopN
}

// PlayerPoints is the per-player line of a team's breakdown.
type PlayerPoints struct {
	Player  Player
	Place   int
	ToPar   int
	Status  Status
	Points  float64
	Counted bool // contributes to the division subtotal
	Missing bool // no standings entry found for this player
}

// DivisionScore is one division's contribution to a team total.
type DivisionScore struct {
	Division       Division
	Subtotal       float64
	EligibleCount  int
	PenaltyApplied bool
	PenaltyPoints  float64
	Players        []PlayerPoints
}

// TeamScoreResult is a team's final event score with its full breakdown.
// Rank uses competition ranking: teams tied on total share a rank number
// and the next distinct total skips the shared slots (1,2,2,4).
type TeamScoreResult struct {
	TeamName  string
	Rank      int
	Total     float64
	Divisions []DivisionScore
}

// Input is a fully-materialized scoring request. The engine performs no I/O
// and reads nothing outside this value.
type Input struct {
	Config    EventConfig
	Tables    map[Division]PlacementPointsTable
	Teams     []Team
	Standings []StandingEntry

	// Bonuses is the extension point for flat per-player bonus points
	// (e.g. a future hole-in-one rule). Applied to a player's resolved
	// placement points before top-N selection.
	Bonuses map[PlayerID]float64
}

// Result is the engine output handed to publishers.
type Result struct {
	EventName    string
	TournamentID int
	Final        bool
	Leaderboard  []TeamScoreResult
	Warnings     []string
}
