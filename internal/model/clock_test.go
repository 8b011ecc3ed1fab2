package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseClockValid(t *testing.T) {
	cases := []struct {
		in     string
		hour   int
		minute int
	}{
		{"00:00", 0, 0},
		{"09:05", 9, 5},
		{"23:59", 23, 59},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tc.in, err)
		}
		if got.Hour != tc.hour || got.Minute != tc.minute {
			t.Fatalf("ParseClock(%q) = %+v", tc.in, got)
		}
	}
}

func TestParseClockRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "24:00", "12:60", "9:00", "12:5", "12-30", "ab:cd", "12:30:00"} {
		if _, err := ParseClock(in); !errors.Is(err, ErrInvalidClock) {
			t.Fatalf("ParseClock(%q): expected ErrInvalidClock, got %v", in, err)
		}
	}
}

func TestResolveWindowSameDay(t *testing.T) {
	ref := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	start, end, err := ResolveWindow("09:00", "10:00", ref)
	if err != nil {
		t.Fatalf("resolve window: %v", err)
	}
	if start.Day() != 14 || end.Day() != 14 {
		t.Fatalf("expected both instants on day 14, got %v and %v", start, end)
	}
	if got := end.Sub(start); got != time.Hour {
		t.Fatalf("expected 1h window, got %v", got)
	}
}

func TestResolveWindowCrossesMidnight(t *testing.T) {
	ref := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	start, end, err := ResolveWindow("23:30", "00:15", ref)
	if err != nil {
		t.Fatalf("resolve window: %v", err)
	}
	if start.Day() != 14 {
		t.Fatalf("expected start on day 14, got %v", start)
	}
	if end.Day() != 15 {
		t.Fatalf("expected end on day 15, got %v", end)
	}
	if got := end.Sub(start); got != 45*time.Minute {
		t.Fatalf("expected 45m window, got %v", got)
	}
}

func TestResolveWindowEqualTimesIsZeroLength(t *testing.T) {
	ref := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	start, end, err := ResolveWindow("08:00", "08:00", ref)
	if err != nil {
		t.Fatalf("resolve window: %v", err)
	}
	if !start.Equal(end) {
		t.Fatalf("expected zero-length window, got %v and %v", start, end)
	}
}

func TestClockAddMinutesWraps(t *testing.T) {
	c := ClockTime{Hour: 23, Minute: 30}
	got := c.AddMinutes(45)
	if got.String() != "00:15" {
		t.Fatalf("expected 00:15, got %s", got)
	}
}
