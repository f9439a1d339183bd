package config

import (
	"fmt"
	"os"
	"strings"

	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	"gopkg.in/yaml.v3"
)

// Event kinds: individual events score placement points only in reports;
// full events also feature the team leaderboard.
const (
	EventKindIndividual = "individual"
	EventKindFull       = "full"
)

// Special schedule flags.
const (
	SpecialNone   = ""
	SpecialDouble = "double"
	SpecialWomens = "womens"
)

// LeagueConfig is the immutable league definition: fantasy rosters, season
// schedule, and scoring rules. It is loaded once and passed by value into
// each scoring invocation, never mutated.
type LeagueConfig struct {
	Teams    []TeamRoster    `yaml:"teams"`
	Schedule []ScheduleEvent `yaml:"schedule"`
	Scoring  ScoringRules    `yaml:"scoring"`
}

// TeamRoster is one fantasy team's roster as written in the league sheet.
type TeamRoster struct {
	Name string   `yaml:"name"`
	MPO  []string `yaml:"mpo"`
	FPO  []string `yaml:"fpo"`
}

// ScheduleEvent is one tournament on the season schedule. TournamentID is
// zero until the PDGA publishes it; the lookup command fills it in.
type ScheduleEvent struct {
	Name         string `yaml:"name"`
	TournamentID int    `yaml:"tournament_id"`
	Kind         string `yaml:"kind"`
	Dates        string `yaml:"dates"`
	Special      string `yaml:"special"`
}

// ScoringRules carries the league's point tables and rule knobs.
type ScoringRules struct {
	TopN          int     `yaml:"top_n"`
	WomensFPOTopN int     `yaml:"womens_fpo_top_n"`
	CutThreshold  int     `yaml:"cut_threshold"`
	PenaltyPoints float64 `yaml:"penalty_points"`

	Tables map[string]scoringdomain.PlacementPointsTable `yaml:"tables"`
}

// LoadLeague reads and validates the league definition.
func LoadLeague(filename string) (*LeagueConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read league file: %w", err)
	}

	var league LeagueConfig
	if err := yaml.Unmarshal(data, &league); err != nil {
		return nil, fmt.Errorf("failed to unmarshal league file: %w", err)
	}

	league.applyDefaults()
	if err := league.validate(); err != nil {
		return nil, err
	}
	return &league, nil
}

func (l *LeagueConfig) applyDefaults() {
	if l.Scoring.TopN == 0 {
		l.Scoring.TopN = scoringdomain.DefaultTopN
	}
	if l.Scoring.WomensFPOTopN == 0 {
		l.Scoring.WomensFPOTopN = 4
	}
	if l.Scoring.CutThreshold == 0 {
		l.Scoring.CutThreshold = scoringdomain.DefaultCutThreshold
	}
	if l.Scoring.Tables == nil {
		l.Scoring.Tables = map[string]scoringdomain.PlacementPointsTable{}
	}
	if _, ok := l.Scoring.Tables[string(scoringdomain.DivisionMPO)]; !ok {
		l.Scoring.Tables[string(scoringdomain.DivisionMPO)] = defaultMPOTable()
	}
	if _, ok := l.Scoring.Tables[string(scoringdomain.DivisionFPO)]; !ok {
		l.Scoring.Tables[string(scoringdomain.DivisionFPO)] = defaultFPOTable()
	}
}

func (l *LeagueConfig) validate() error {
	if len(l.Teams) == 0 {
		return fmt.Errorf("league has no teams")
	}
	seen := map[string]bool{}
	for _, team := range l.Teams {
		if team.Name == "" {
			return fmt.Errorf("league team with empty name")
		}
		if seen[team.Name] {
			return fmt.Errorf("duplicate team name %q", team.Name)
		}
		seen[team.Name] = true
		if len(team.MPO)+len(team.FPO) == 0 {
			return fmt.Errorf("team %q has no rostered players", team.Name)
		}
	}
	for _, ev := range l.Schedule {
		switch ev.Kind {
		case EventKindIndividual, EventKindFull:
		default:
			return fmt.Errorf("event %q has unknown kind %q", ev.Name, ev.Kind)
		}
		switch ev.Special {
		case SpecialNone, SpecialDouble, SpecialWomens:
		default:
			return fmt.Errorf("event %q has unknown special flag %q", ev.Name, ev.Special)
		}
	}
	for div, table := range l.Scoring.Tables {
		if !table.Valid() {
			return fmt.Errorf("placement table for %s is not monotone non-increasing", div)
		}
	}
	return nil
}

// DomainTeams converts the rosters into engine teams with normalized
// player identifiers. Roster order is preserved.
func (l *LeagueConfig) DomainTeams() []scoringdomain.Team {
	teams := make([]scoringdomain.Team, 0, len(l.Teams))
	for _, tr := range l.Teams {
		team := scoringdomain.Team{Name: tr.Name}
		for _, name := range tr.MPO {
			team.Players = append(team.Players, rosterPlayer(name, scoringdomain.DivisionMPO))
		}
		for _, name := range tr.FPO {
			team.Players = append(team.Players, rosterPlayer(name, scoringdomain.DivisionFPO))
		}
		teams = append(teams, team)
	}
	return teams
}

func rosterPlayer(name string, d scoringdomain.Division) scoringdomain.Player {
	return scoringdomain.Player{
		ID:       scoringdomain.NormalizePlayerID(name),
		Name:     name,
		Division: d,
	}
}

// DomainTables returns the placement tables keyed by division. Divisions
// without a configured table get the league defaults.
func (l *LeagueConfig) DomainTables() map[scoringdomain.Division]scoringdomain.PlacementPointsTable {
	out := map[scoringdomain.Division]scoringdomain.PlacementPointsTable{
		scoringdomain.DivisionMPO: defaultMPOTable(),
		scoringdomain.DivisionFPO: defaultFPOTable(),
	}
	for div, table := range l.Scoring.Tables {
		out[scoringdomain.Division(div)] = table
	}
	return out
}

// FindEvent looks up a schedule entry by name, case-insensitive, allowing a
// partial match the way the old spreadsheet lookup did.
func (l *LeagueConfig) FindEvent(name string) (ScheduleEvent, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, ev := range l.Schedule {
		if strings.ToLower(ev.Name) == needle {
			return ev, true
		}
	}
	for _, ev := range l.Schedule {
		if strings.Contains(strings.ToLower(ev.Name), needle) {
			return ev, true
		}
	}
	return ScheduleEvent{}, false
}

// EventConfigFor assembles the engine configuration for one event: the
// schedule's special flag becomes the modifier or the FPO top-N override,
// everything else comes from the league scoring rules.
func (l *LeagueConfig) EventConfigFor(ev ScheduleEvent) scoringdomain.EventConfig {
	topN := l.Scoring.TopN
	if topN == 0 {
		topN = scoringdomain.DefaultTopN
	}
	cfg := scoringdomain.EventConfig{
		EventName:     ev.Name,
		TournamentID:  ev.TournamentID,
		Modifier:      scoringdomain.ModifierNone,
		CutThreshold:  l.Scoring.CutThreshold,
		PenaltyPoints: l.Scoring.PenaltyPoints,
		TopN: map[scoringdomain.Division]int{
			scoringdomain.DivisionMPO: topN,
			scoringdomain.DivisionFPO: topN,
		},
	}
	switch ev.Special {
	case SpecialDouble:
		cfg.Modifier = scoringdomain.ModifierDoublePoints
	case SpecialWomens:
		womens := l.Scoring.WomensFPOTopN
		if womens == 0 {
			womens = 4
		}
		cfg.TopN[scoringdomain.DivisionFPO] = womens
	}
	return cfg
}

func defaultMPOTable() scoringdomain.PlacementPointsTable {
	return scoringdomain.PlacementPointsTable{
		Breaks: []scoringdomain.PlacementBreak{
			{ThroughPlace: 1, Points: 7},
			{ThroughPlace: 3, Points: 4},
			{ThroughPlace: 7, Points: 2},
			{ThroughPlace: 16, Points: 1},
		},
	}
}

func defaultFPOTable() scoringdomain.PlacementPointsTable {
	return scoringdomain.PlacementPointsTable{
		Breaks: []scoringdomain.PlacementBreak{
			{ThroughPlace: 1, Points: 7},
			{ThroughPlace: 3, Points: 4},
			{ThroughPlace: 7, Points: 2},
			{ThroughPlace: 12, Points: 1},
		},
	}
}
