package scoringdomain

import "strings"

// NormalizePlayerID derives the stable player identifier used to join
// roster entries against standings rows: lowercased, trimmed, single-spaced.
// The live feed and the roster sheet disagree on casing and stray spaces,
// so both sides normalize through here.
func NormalizePlayerID(name string) PlayerID {
	return PlayerID(strings.Join(strings.Fields(strings.ToLower(name)), " "))
}
