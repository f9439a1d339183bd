package scoringdb

import "errors"

// ErrEventNotFound is returned when no scores are stored for an event.
var ErrEventNotFound = errors.New("no stored scores for event")
