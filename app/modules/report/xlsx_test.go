package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteSeasonWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "season.xlsx")
	teamOrder := []string{"Chain Gang", "Hyzer Flippers"}
	rows := []SeasonRow{
		{EventName: "Supreme Flight Open", Totals: map[string]float64{"Chain Gang": 12, "Hyzer Flippers": 8.5}},
		{EventName: "Jonesboro Open", Totals: map[string]float64{"Chain Gang": 16, "Hyzer Flippers": 9}},
	}

	require.NoError(t, WriteSeasonWorkbook(path, "SEASON SCORE", teamOrder, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue("SEASON SCORE", ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Event", cell("A1"))
	assert.Equal(t, "Chain Gang", cell("B1"))
	assert.Equal(t, "Hyzer Flippers", cell("C1"))

	assert.Equal(t, "Supreme Flight Open", cell("A2"))
	assert.Equal(t, "12", cell("B2"))
	assert.Equal(t, "8.5", cell("C2"))

	assert.Equal(t, "Jonesboro Open", cell("A3"))

	assert.Equal(t, "Season Total", cell("A4"))
	assert.Equal(t, "28", cell("B4"))
	assert.Equal(t, "17.5", cell("C4"))
}
