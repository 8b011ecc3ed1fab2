package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidClock = errors.New("model: invalid clock time")

// ClockTime is a wall-clock time of day with minute precision, parsed from the
// "HH:mm" form tasks are stored with.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClock(s string) (ClockTime, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok || len(h) != 2 || len(m) != 2 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// MinuteOfDay returns minutes since midnight, the ordering used for
// cross-midnight detection and overlap checks.
func (c ClockTime) MinuteOfDay() int {
	return c.Hour*60 + c.Minute
}

// On places the clock time on the given calendar day, in that day's location.
func (c ClockTime) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

// AddMinutes advances the clock time, wrapping across midnight.
func (c ClockTime) AddMinutes(n int) ClockTime {
	total := ((c.MinuteOfDay()+n)%(24*60) + 24*60) % (24 * 60)
	return ClockTime{Hour: total / 60, Minute: total % 60}
}

// ResolveWindow resolves a task's stored start/end times into absolute instants
// for the occurrence beginning on ref's calendar day. An end time that encodes
// an earlier minute of day than the start crosses midnight and lands on the
// following day. Equal start and end resolve to a zero-length window; Validate
// rejects those before they can be stored.
func ResolveWindow(startTime, endTime string, ref time.Time) (time.Time, time.Time, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	startAt := start.On(ref)
	endAt := end.On(ref)
	if end.MinuteOfDay() < start.MinuteOfDay() {
		endAt = endAt.AddDate(0, 0, 1)
	}
	return startAt, endAt, nil
}
