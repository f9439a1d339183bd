package scoringdomain

// PlacementBreak maps a contiguous run of places to a point value. A break
// covers every place up to and including ThroughPlace that no earlier break
// covered, so {1:7}, {3:4}, {7:2}, {16:1} reads "1st = 7, 2nd-3rd = 4,
// 4th-7th = 2, 8th-16th = 1".
type PlacementBreak struct {
	ThroughPlace int     `yaml:"through"`
	Points       float64 `yaml:"points"`
}

// PlacementPointsTable awards points by finishing place. Breaks must be
// ordered by ThroughPlace ascending with non-increasing point values; places
// beyond the last break resolve to Floor.
type PlacementPointsTable struct {
	Breaks []PlacementBreak `yaml:"breaks"`
	Floor  float64          `yaml:"floor"`
}

// Valid reports whether the table is ordered and monotone non-increasing.
func (t PlacementPointsTable) Valid() bool {
	lastPlace := 0
	lastPoints := 0.0
	for i, b := range t.Breaks {
		if b.ThroughPlace <= lastPlace {
			return false
		}
		if i > 0 && b.Points > lastPoints {
			return false
		}
		lastPlace = b.ThroughPlace
		lastPoints = b.Points
	}
	if len(t.Breaks) > 0 && t.Floor > lastPoints {
		return false
	}
	return true
}

// Resolve returns the point value for a single place slot. Places beyond the
// table resolve to the floor, never an error.
func (t PlacementPointsTable) Resolve(place int) float64 {
	if place < 1 {
		return t.Floor
	}
	for _, b := range t.Breaks {
		if place <= b.ThroughPlace {
			return b.Points
		}
	}
	return t.Floor
}

// ResolveTied returns the points for each of tiedCount players sharing a
// place: the average of the values the occupied slots would have yielded
// individually. Places 2-3 tied on a {2:18, 3:15} table give 16.5 each.
func (t PlacementPointsTable) ResolveTied(place, tiedCount int) float64 {
	if tiedCount <= 1 {
		return t.Resolve(place)
	}
	sum := 0.0
	for slot := place; slot < place+tiedCount; slot++ {
		sum += t.Resolve(slot)
	}
	return sum / float64(tiedCount)
}
