package scoringservice

import "errors"

// ErrNoStandings is returned when the feed produced no rows for any tracked
// division.
var ErrNoStandings = errors.New("no standings rows for any tracked division")
