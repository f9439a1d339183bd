package scoringdomain

import (
	"cmp"
	"fmt"
	"slices"
)

// Score runs the full scoring pipeline over one standings snapshot:
// resolve placement points (with tie-splitting), evaluate cut-rule
// penalties, aggregate top-N per division, apply the event modifier, and
// rank teams. It is pure: no I/O, no shared state, and identical inputs
// always produce identical output.
func Score(in Input) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	res := &Result{
		EventName:    in.Config.EventName,
		TournamentID: in.Config.TournamentID,
	}

	entries, points := resolveStandings(in, res)
	res.Final = allFinal(in.Standings)

	results := make([]TeamScoreResult, 0, len(in.Teams))
	for _, team := range in.Teams {
		results = append(results, scoreTeam(team, in, entries, points, res))
	}

	rankTeams(results)
	res.Leaderboard = results
	return res, nil
}

func validate(in Input) error {
	for _, d := range Divisions {
		if n := in.Config.TopNFor(d); n <= 0 {
			return fmt.Errorf("%w: top-N for %s must be positive, got %d", ErrInvalidConfig, d, n)
		}
		table, ok := in.Tables[d]
		if !ok {
			return fmt.Errorf("%w: no placement points table for %s", ErrInvalidConfig, d)
		}
		if !table.Valid() {
			return fmt.Errorf("%w: placement points table for %s is not monotone non-increasing", ErrInvalidConfig, d)
		}
	}
	if in.Config.CutThreshold < 0 {
		return fmt.Errorf("%w: cut threshold must not be negative, got %d", ErrInvalidConfig, in.Config.CutThreshold)
	}
	if in.Config.PenaltyPoints < 0 {
		return fmt.Errorf("%w: penalty points must not be negative, got %g", ErrInvalidConfig, in.Config.PenaltyPoints)
	}
	switch in.Config.Modifier {
	case "", ModifierNone, ModifierDoublePoints:
	default:
		return fmt.Errorf("%w: unknown special modifier %q", ErrInvalidConfig, in.Config.Modifier)
	}
	return nil
}

// resolveStandings indexes the snapshot by player and computes each
// point-earning player's placement points, splitting ties by averaging the
// occupied place slots. Duplicate entries for a player keep the first one
// seen and raise a warning.
func resolveStandings(in Input, res *Result) (map[PlayerID]StandingEntry, map[PlayerID]float64) {
	entries := make(map[PlayerID]StandingEntry, len(in.Standings))
	type slot struct {
		division Division
		place    int
	}
	tied := make(map[slot]int)

	for _, e := range in.Standings {
		if _, dup := entries[e.PlayerID]; dup {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("duplicate standings entry for %s (%s), keeping the first", e.Name, e.Division))
			continue
		}
		entries[e.PlayerID] = e
		if e.Status.Earns() {
			tied[slot{e.Division, e.Place}]++
		}
	}

	points := make(map[PlayerID]float64, len(entries))
	for id, e := range entries {
		if !e.Status.Earns() {
			continue
		}
		table := in.Tables[e.Division]
		points[id] = table.ResolveTied(e.Place, tied[slot{e.Division, e.Place}])
	}
	return entries, points
}

func allFinal(standings []StandingEntry) bool {
	if len(standings) == 0 {
		return false
	}
	for _, e := range standings {
		if e.Status == StatusActive && !e.Final {
			return false
		}
	}
	return true
}

// scoreTeam builds one team's breakdown: per-division player lines, top-N
// selection, cut-rule evaluation, and the modified total.
func scoreTeam(team Team, in Input, entries map[PlayerID]StandingEntry, points map[PlayerID]float64, res *Result) TeamScoreResult {
	result := TeamScoreResult{
		TeamName:  team.Name,
		Divisions: make([]DivisionScore, 0, len(Divisions)),
	}

	for _, d := range Divisions {
		ds := scoreDivision(team, d, in, entries, points, res)
		result.Total += ds.Subtotal
		result.Divisions = append(result.Divisions, ds)
	}

	if in.Config.Modifier == ModifierDoublePoints {
		// Applied exactly once, after aggregation and penalties. Per-player
		// points in the breakdown stay unmultiplied.
		result.Total *= 2
	}
	return result
}

func scoreDivision(team Team, d Division, in Input, entries map[PlayerID]StandingEntry, points map[PlayerID]float64, res *Result) DivisionScore {
	ds := DivisionScore{Division: d}

	roster := team.RosterByDivision(d)
	ds.Players = make([]PlayerPoints, 0, len(roster))
	for _, p := range roster {
		e, ok := entries[p.ID]
		if !ok {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("no standings entry for %s (%s, team %s); scoring as zero", p.Name, d, team.Name))
			ds.Players = append(ds.Players, PlayerPoints{Player: p, Missing: true})
			continue
		}
		pp := PlayerPoints{
			Player: p,
			Place:  e.Place,
			ToPar:  e.ToPar,
			Status: e.Status,
		}
		if e.Status == StatusActive {
			ds.EligibleCount++
		}
		if e.Status.Earns() {
			pp.Points = points[p.ID] + in.Bonuses[p.ID]
		}
		ds.Players = append(ds.Players, pp)
	}

	selectTopN(ds.Players, in.Config.TopNFor(d))
	for _, pp := range ds.Players {
		if pp.Counted {
			ds.Subtotal += pp.Points
		}
	}

	if ds.EligibleCount < in.Config.CutThreshold {
		ds.PenaltyApplied = true
		ds.PenaltyPoints = in.Config.PenaltyPoints
		ds.Subtotal -= ds.PenaltyPoints
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("cut rule triggered for team %s in %s: %d of %d required players active",
				team.Name, d, ds.EligibleCount, in.Config.CutThreshold))
	}
	return ds
}

// selectTopN marks the top-N point-earning players as counted. Selection is
// by points descending, then numerically better place, then player ID, so
// reordering the roster never changes the subtotal. Missing players and
// non-earning statuses are never selected; the team sums whatever it has
// when fewer than N are available.
func selectTopN(players []PlayerPoints, n int) {
	idx := make([]int, 0, len(players))
	for i, pp := range players {
		if pp.Missing || !pp.Status.Earns() {
			continue
		}
		idx = append(idx, i)
	}

	slices.SortFunc(idx, func(a, b int) int {
		if c := cmp.Compare(players[b].Points, players[a].Points); c != 0 {
			return c
		}
		if c := cmp.Compare(players[a].Place, players[b].Place); c != 0 {
			return c
		}
		return cmp.Compare(players[a].Player.ID, players[b].Player.ID)
	})

	for i, j := range idx {
		if i >= n {
			break
		}
		players[j].Counted = true
	}
}

// rankTeams orders results by total descending (team name as the listing
// tie-break) and assigns competition ranks: tied totals share a rank and
// the next distinct total skips the shared slots.
func rankTeams(results []TeamScoreResult) {
	slices.SortFunc(results, func(a, b TeamScoreResult) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamName, b.TeamName)
	})

	for i := range results {
		if i > 0 && results[i].Total == results[i-1].Total {
			results[i].Rank = results[i-1].Rank
			continue
		}
		results[i].Rank = i + 1
	}
}
