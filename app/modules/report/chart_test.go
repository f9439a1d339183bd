package report

import (
	"testing"

	scoringdb "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func TestRenderSeasonChart(t *testing.T) {
	t.Run("renders a PNG", func(t *testing.T) {
		png, err := RenderSeasonChart([]scoringdb.SeasonTotal{
			{TeamName: "Chain Gang", Events: 3, Points: 41.5},
			{TeamName: "Hyzer Flippers", Events: 3, Points: 35},
		})
		require.NoError(t, err)
		require.Greater(t, len(png), len(pngHeader))
		assert.Equal(t, pngHeader, png[:len(pngHeader)])
	})

	t.Run("no totals is an error", func(t *testing.T) {
		_, err := RenderSeasonChart(nil)
		assert.Error(t, err)
	})
}
