// Package report turns scoring results into the outward-facing surfaces:
// Discord messages, the season spreadsheet, a workbook export, and charts.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
)

var medals = []string{"🥇", "🥈", "🥉"}

// FormatPoints renders points without trailing zeros: 7, 5.5, 16.
func FormatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatToPar renders a to-par score the way scorecards do: E, -12, +3.
func FormatToPar(toPar int) string {
	switch {
	case toPar == 0:
		return "E"
	case toPar > 0:
		return fmt.Sprintf("+%d", toPar)
	default:
		return strconv.Itoa(toPar)
	}
}

// FormatPlace renders an ordinal place: 1st, 2nd, 3rd, 4th.
func FormatPlace(place int) string {
	if place <= 0 {
		return "-"
	}
	suffix := "th"
	switch place % 10 {
	case 1:
		if place%100 != 11 {
			suffix = "st"
		}
	case 2:
		if place%100 != 12 {
			suffix = "nd"
		}
	case 3:
		if place%100 != 13 {
			suffix = "rd"
		}
	}
	return strconv.Itoa(place) + suffix
}

// BuildEventReport renders the Discord markdown for one scoring run.
// Individual events show placement points only; full events add the team
// leaderboard.
func BuildEventReport(payload events.ScoringRunCompletedPayloadV1, now time.Time) string {
	var b strings.Builder

	state := "🔴 LIVE"
	if payload.Final {
		state = "✅ FINAL"
	}
	fmt.Fprintf(&b, "## 🥏 %s — Fantasy Results (%s)\n\n", payload.EventName, state)

	writePlacementSection(&b, payload.Leaderboard)

	if payload.EventKind == config.EventKindFull {
		writeLeaderboardSection(&b, payload.Leaderboard)
	}

	if len(payload.Warnings) > 0 {
		b.WriteString("### ⚠️ Notices\n")
		for _, w := range payload.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "_Updated %s_\n", now.UTC().Format("Jan 2 15:04 MST"))
	return b.String()
}

// writePlacementSection lists every point-earning player by division,
// highest points first.
func writePlacementSection(b *strings.Builder, leaderboard []scoringdomain.TeamScoreResult) {
	type line struct {
		player scoringdomain.PlayerPoints
		team   string
	}
	byDivision := map[scoringdomain.Division][]line{}
	for _, team := range leaderboard {
		for _, ds := range team.Divisions {
			for _, pp := range ds.Players {
				if pp.Missing || pp.Points == 0 {
					continue
				}
				byDivision[ds.Division] = append(byDivision[ds.Division], line{player: pp, team: team.TeamName})
			}
		}
	}

	b.WriteString("### 📊 Placement Points\n")
	for _, d := range scoringdomain.Divisions {
		lines := byDivision[d]
		if len(lines) == 0 {
			continue
		}
		sort.SliceStable(lines, func(i, j int) bool {
			if lines[i].player.Points != lines[j].player.Points {
				return lines[i].player.Points > lines[j].player.Points
			}
			return lines[i].player.Place < lines[j].player.Place
		})

		fmt.Fprintf(b, "**%s**\n", d)
		for _, l := range lines {
			fmt.Fprintf(b, "- %s (%s, %s) — %s pts [%s]\n",
				l.player.Player.Name,
				FormatPlace(l.player.Place),
				FormatToPar(l.player.ToPar),
				FormatPoints(l.player.Points),
				l.team,
			)
		}
	}
	b.WriteString("\n")
}

// writeLeaderboardSection renders the ranked team standings with division
// subtotals.
func writeLeaderboardSection(b *strings.Builder, leaderboard []scoringdomain.TeamScoreResult) {
	b.WriteString("### 🏆 Team Leaderboard\n")
	for i, team := range leaderboard {
		marker := fmt.Sprintf("%d.", team.Rank)
		if i < len(medals) && team.Rank == i+1 {
			marker = medals[i]
		}

		subtotals := make([]string, 0, len(team.Divisions))
		for _, ds := range team.Divisions {
			part := fmt.Sprintf("%s %s", ds.Division, FormatPoints(ds.Subtotal))
			if ds.PenaltyApplied {
				part += " ⚠️"
			}
			subtotals = append(subtotals, part)
		}

		fmt.Fprintf(b, "%s **%s** — %s pts (%s)\n",
			marker, team.TeamName, FormatPoints(team.Total), strings.Join(subtotals, " | "))
	}
	b.WriteString("\n")
}
