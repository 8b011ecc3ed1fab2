package engine

import "github.com/rudhh/questly/internal/model"

// Window is a half-open [Start, End) span in minutes since midnight, used for
// same-day overlap checks. Windows that cross midnight are compared as stored;
// collisions with the adjacent day are a known gap carried over from the
// original scheduling rules.
type Window struct {
	Start int
	End   int
}

// WindowOf converts stored HH:mm strings into an overlap window.
func WindowOf(startTime, endTime string) (Window, error) {
	start, err := model.ParseClock(startTime)
	if err != nil {
		return Window{}, err
	}
	end, err := model.ParseClock(endTime)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start.MinuteOfDay(), End: end.MinuteOfDay()}, nil
}

// HasOverlap reports whether the candidate window intersects any existing
// same-day window. Touching endpoints do not overlap.
func HasOverlap(candidate Window, existing []Window) bool {
	for _, w := range existing {
		if candidate.Start < w.End && w.Start < candidate.End {
			return true
		}
	}
	return false
}
