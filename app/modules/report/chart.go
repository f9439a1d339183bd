package report

import (
	"bytes"
	"fmt"

	scoringdb "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories"
	"github.com/wcharczuk/go-chart/v2"
)

// RenderSeasonChart produces a PNG bar chart of season totals, best team
// first.
func RenderSeasonChart(totals []scoringdb.SeasonTotal) ([]byte, error) {
	if len(totals) == 0 {
		return nil, fmt.Errorf("no season totals to chart")
	}

	bars := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		bars = append(bars, chart.Value{
			Label: t.TeamName,
			Value: t.Points,
		})
	}

	graph := chart.BarChart{
		Title:    "Season Standings",
		Width:    200 * len(bars),
		Height:   400,
		BarWidth: 80,
		XAxis: chart.Style{
			TextRotationDegrees: 0,
		},
		Bars: bars,
	}
	if graph.Width < 400 {
		graph.Width = 400
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render season chart: %w", err)
	}
	return buf.Bytes(), nil
}
