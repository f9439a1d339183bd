package report

import (
	"strings"
	"testing"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/stretchr/testify/assert"
)

func TestFormatToPar(t *testing.T) {
	assert.Equal(t, "E", FormatToPar(0))
	assert.Equal(t, "-12", FormatToPar(-12))
	assert.Equal(t, "+3", FormatToPar(3))
}

func TestFormatPlace(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd", 0: "-"}
	for place, want := range cases {
		assert.Equal(t, want, FormatPlace(place), "place %d", place)
	}
}

func TestFormatPoints(t *testing.T) {
	assert.Equal(t, "7", FormatPoints(7))
	assert.Equal(t, "5.5", FormatPoints(5.5))
	assert.Equal(t, "16.25", FormatPoints(16.25))
}

func samplePayload(kind string, final bool) events.ScoringRunCompletedPayloadV1 {
	return events.ScoringRunCompletedPayloadV1{
		EventName: "Jonesboro Open",
		EventKind: kind,
		Final:     final,
		Leaderboard: []scoringdomain.TeamScoreResult{
			{
				TeamName: "Chain Gang",
				Rank:     1,
				Total:    16,
				Divisions: []scoringdomain.DivisionScore{
					{
						Division: scoringdomain.DivisionMPO,
						Subtotal: 9,
						Players: []scoringdomain.PlayerPoints{
							{Player: scoringdomain.Player{Name: "Ricky Wysocki"}, Place: 1, ToPar: -20, Points: 7, Counted: true},
							{Player: scoringdomain.Player{Name: "Calvin Heimburg"}, Place: 4, ToPar: -14, Points: 2, Counted: true},
						},
					},
					{
						Division: scoringdomain.DivisionFPO,
						Subtotal: 7,
						Players: []scoringdomain.PlayerPoints{
							{Player: scoringdomain.Player{Name: "Paige Pierce"}, Place: 1, ToPar: -12, Points: 7, Counted: true},
						},
					},
				},
			},
			{
				TeamName: "Hyzer Flippers",
				Rank:     2,
				Total:    5,
				Divisions: []scoringdomain.DivisionScore{
					{
						Division:       scoringdomain.DivisionMPO,
						Subtotal:       5,
						PenaltyApplied: true,
						Players: []scoringdomain.PlayerPoints{
							{Player: scoringdomain.Player{Name: "Paul McBeth"}, Place: 2, ToPar: -17, Points: 4, Counted: true},
						},
					},
					{Division: scoringdomain.DivisionFPO},
				},
			},
		},
		Warnings: []string{"no standings entry for Eagle McMahon (MPO, team Hyzer Flippers); scoring as zero"},
	}
}

func TestBuildEventReport(t *testing.T) {
	now := time.Date(2026, time.April, 19, 18, 0, 0, 0, time.UTC)

	t.Run("full final event", func(t *testing.T) {
		out := BuildEventReport(samplePayload(config.EventKindFull, true), now)

		assert.Contains(t, out, "## 🥏 Jonesboro Open — Fantasy Results (✅ FINAL)")
		assert.Contains(t, out, "### 🏆 Team Leaderboard")
		assert.Contains(t, out, "🥇 **Chain Gang** — 16 pts (MPO 9 | FPO 7)")
		assert.Contains(t, out, "🥈 **Hyzer Flippers** — 5 pts (MPO 5 ⚠️ | FPO 0)")
		assert.Contains(t, out, "- Ricky Wysocki (1st, -20) — 7 pts [Chain Gang]")
		assert.Contains(t, out, "### ⚠️ Notices")
		assert.Contains(t, out, "Eagle McMahon")
		assert.Contains(t, out, "_Updated Apr 19 18:00 UTC_")
	})

	t.Run("individual live event has no leaderboard section", func(t *testing.T) {
		out := BuildEventReport(samplePayload(config.EventKindIndividual, false), now)

		assert.Contains(t, out, "(🔴 LIVE)")
		assert.NotContains(t, out, "Team Leaderboard")
		assert.Contains(t, out, "### 📊 Placement Points")
	})

	t.Run("placement points ordered by points then place", func(t *testing.T) {
		out := BuildEventReport(samplePayload(config.EventKindFull, true), now)

		wysocki := strings.Index(out, "Ricky Wysocki")
		mcbeth := strings.Index(out, "Paul McBeth")
		heimburg := strings.Index(out, "Calvin Heimburg")
		assert.True(t, wysocki < mcbeth && mcbeth < heimburg,
			"expected 7pt, 4pt, 2pt order, got positions %d %d %d", wysocki, mcbeth, heimburg)
	})
}
