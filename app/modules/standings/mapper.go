package standings

import (
	"fmt"
	"strings"

	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
)

// StatusOverrides lets a human mark players as cut, withdrawn, or DNS when
// the feed does not say so; keyed by normalized player ID. Everything not
// listed is ACTIVE.
type StatusOverrides map[scoringdomain.PlayerID]scoringdomain.Status

// MapRows joins one division's feed rows against the tracked players of
// that division and returns one StandingEntry per tracked player found.
// Players with no matching row simply produce no entry; the engine reports
// them as missing data.
func MapRows(rows []ScoreRow, division scoringdomain.Division, tracked []scoringdomain.Player, overrides StatusOverrides) []scoringdomain.StandingEntry {
	entries := make([]scoringdomain.StandingEntry, 0, len(tracked))
	for _, p := range tracked {
		row, ok := findRow(rows, p)
		if !ok {
			continue
		}

		status := scoringdomain.StatusActive
		if o, overridden := overrides[p.ID]; overridden {
			status = o
		}

		entries = append(entries, scoringdomain.StandingEntry{
			PlayerID: p.ID,
			Name:     p.Name,
			Division: division,
			Place:    int(row.RunningPlace),
			ToPar:    int(row.ToPar),
			Total:    int(row.GrandTotal),
			Status:   status,
			Final:    bool(row.Completed),
		})
	}
	return entries
}

// findRow matches a tracked player to a feed row: exact normalized name
// first, then a first/last-name containment fallback for rows where the
// feed spells the name differently than the roster sheet.
func findRow(rows []ScoreRow, p scoringdomain.Player) (ScoreRow, bool) {
	target := string(p.ID)
	for _, row := range rows {
		if string(scoringdomain.NormalizePlayerID(row.Name)) == target {
			return row, true
		}
	}
	for _, row := range rows {
		full := string(scoringdomain.NormalizePlayerID(fmt.Sprintf("%s %s", row.FirstName, row.LastName)))
		if full == "" {
			continue
		}
		if strings.Contains(full, target) || strings.Contains(target, full) {
			return row, true
		}
	}
	return ScoreRow{}, false
}
