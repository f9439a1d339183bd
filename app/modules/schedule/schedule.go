// Package schedule answers calendar questions about the season: which event
// is next, and when an event starts. Schedule dates are kept as the
// human-written text from the league sheet ("Feb 27-Mar 1") and parsed on
// demand.
package schedule

import (
	"strings"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Registry wraps the season schedule with date parsing.
type Registry struct {
	events []config.ScheduleEvent
	parser *when.Parser
}

// New builds a Registry over the league schedule.
func New(league *config.LeagueConfig) *Registry {
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	return &Registry{
		events: league.Schedule,
		parser: parser,
	}
}

// Events returns the schedule in season order.
func (r *Registry) Events() []config.ScheduleEvent {
	return r.events
}

// StartDate parses the start of an event's date range within the season
// containing now. "Feb 27-Mar 1" starts on Feb 27 of now's year.
func (r *Registry) StartDate(ev config.ScheduleEvent, now time.Time) (time.Time, bool) {
	text := ev.Dates
	if i := strings.IndexAny(text, "-–"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	// Anchor parsing at the start of the year so "Feb 27" resolves inside
	// the current season instead of rolling forward past now.
	anchor := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	result, err := r.parser.Parse(text, anchor)
	if err != nil || result == nil {
		return time.Time{}, false
	}
	return result.Time, true
}

// Next returns the first event starting on or after now. Events whose date
// text cannot be parsed are skipped.
func (r *Registry) Next(now time.Time) (config.ScheduleEvent, time.Time, bool) {
	var (
		bestEv    config.ScheduleEvent
		bestStart time.Time
		found     bool
	)
	for _, ev := range r.events {
		start, ok := r.StartDate(ev, now)
		if !ok {
			continue
		}
		// An event still counts as "next" through its final weekend.
		if start.Before(now.AddDate(0, 0, -4)) {
			continue
		}
		if !found || start.Before(bestStart) {
			bestEv, bestStart, found = ev, start, true
		}
	}
	return bestEv, bestStart, found
}
