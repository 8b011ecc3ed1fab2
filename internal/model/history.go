package model

import "time"

// DailyProgress is one weekday bucket of the rolling seven-day completion
// history shown on the progress screen.
type DailyProgress struct {
	Day   string // weekday abbreviation, Sun..Sat
	Count int
}

var weekdayAbbrevs = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DefaultHistory returns the seven zero-count weekday buckets a fresh or
// corrupted store falls back to.
func DefaultHistory() []DailyProgress {
	out := make([]DailyProgress, 0, len(weekdayAbbrevs))
	for _, day := range weekdayAbbrevs {
		out = append(out, DailyProgress{Day: day})
	}
	return out
}

// WeekdayAbbrev maps an instant to its history bucket key.
func WeekdayAbbrev(at time.Time) string {
	return weekdayAbbrevs[int(at.Weekday())]
}
