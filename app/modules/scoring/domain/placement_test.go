package scoringdomain

import "testing"

func leagueTable() PlacementPointsTable {
	return PlacementPointsTable{
		Breaks: []PlacementBreak{
			{ThroughPlace: 1, Points: 7},
			{ThroughPlace: 3, Points: 4},
			{ThroughPlace: 7, Points: 2},
			{ThroughPlace: 16, Points: 1},
		},
	}
}

func TestPlacementPointsTable_Resolve(t *testing.T) {
	table := leagueTable()

	t.Run("break boundaries", func(t *testing.T) {
		cases := map[int]float64{
			1: 7, 2: 4, 3: 4, 4: 2, 7: 2, 8: 1, 16: 1,
		}
		for place, want := range cases {
			if got := table.Resolve(place); got != want {
				t.Errorf("Resolve(%d) = %g, want %g", place, got, want)
			}
		}
	})

	t.Run("beyond table resolves to floor", func(t *testing.T) {
		if got := table.Resolve(17); got != 0 {
			t.Errorf("Resolve(17) = %g, want 0", got)
		}
		withFloor := table
		withFloor.Floor = 0.5
		if got := withFloor.Resolve(100); got != 0.5 {
			t.Errorf("Resolve(100) = %g, want 0.5", got)
		}
	})

	t.Run("monotone non-increasing over all places", func(t *testing.T) {
		for place := 1; place < 50; place++ {
			if table.Resolve(place) < table.Resolve(place+1) {
				t.Fatalf("points(%d)=%g < points(%d)=%g", place, table.Resolve(place), place+1, table.Resolve(place+1))
			}
		}
	})
}

func TestPlacementPointsTable_ResolveTied(t *testing.T) {
	t.Run("averages the occupied slots", func(t *testing.T) {
		table := PlacementPointsTable{
			Breaks: []PlacementBreak{
				{ThroughPlace: 1, Points: 25},
				{ThroughPlace: 2, Points: 18},
				{ThroughPlace: 3, Points: 15},
				{ThroughPlace: 4, Points: 12},
			},
		}
		// Two players tied at places 2-3: (18+15)/2.
		if got := table.ResolveTied(2, 2); got != 16.5 {
			t.Errorf("ResolveTied(2, 2) = %g, want 16.5", got)
		}
	})

	t.Run("tie spanning the table edge uses the floor", func(t *testing.T) {
		table := leagueTable()
		// Places 16-17: (1+0)/2.
		if got := table.ResolveTied(16, 2); got != 0.5 {
			t.Errorf("ResolveTied(16, 2) = %g, want 0.5", got)
		}
	})

	t.Run("single player is a plain resolve", func(t *testing.T) {
		table := leagueTable()
		if got := table.ResolveTied(1, 1); got != 7 {
			t.Errorf("ResolveTied(1, 1) = %g, want 7", got)
		}
	})
}

func TestPlacementPointsTable_Valid(t *testing.T) {
	if !leagueTable().Valid() {
		t.Error("league table should be valid")
	}

	increasing := PlacementPointsTable{
		Breaks: []PlacementBreak{
			{ThroughPlace: 1, Points: 5},
			{ThroughPlace: 3, Points: 9},
		},
	}
	if increasing.Valid() {
		t.Error("table with increasing points should be invalid")
	}

	unordered := PlacementPointsTable{
		Breaks: []PlacementBreak{
			{ThroughPlace: 5, Points: 5},
			{ThroughPlace: 2, Points: 3},
		},
	}
	if unordered.Valid() {
		t.Error("table with unordered breaks should be invalid")
	}

	floorAbove := leagueTable()
	floorAbove.Floor = 2
	if floorAbove.Valid() {
		t.Error("floor above the last break should be invalid")
	}
}
