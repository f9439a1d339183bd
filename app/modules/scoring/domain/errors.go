package scoringdomain

import "errors"

// ErrInvalidConfig marks a structurally invalid scoring configuration.
// It is the only fatal error the engine produces; every per-player or
// per-team anomaly becomes a warning instead.
var ErrInvalidConfig = errors.New("invalid scoring configuration")
