package scoringqueue

// ScoringRefreshJob is a scheduled scoring run. When it fires, the worker
// publishes a scoring run request on the bus; the scoring handler does the
// actual work so retries and telemetry stay in one place.
type ScoringRefreshJob struct {
	EventName string `json:"event_name"`
	Round     int    `json:"round,omitempty"`
	Final     bool   `json:"final"`
}

// Kind returns the job type identifier for River.
func (ScoringRefreshJob) Kind() string { return "scoring_refresh" }

// JobInfo describes a scheduled job, for debugging and the CLI.
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	EventName   string `json:"event_name"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
