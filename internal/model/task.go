package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrZeroLengthWindow = errors.New("model: task start and end times are equal")
	ErrInvalidDate      = errors.New("model: invalid task date")
)

const DateLayout = "2006-01-02"

// DefaultTaskXP is the point value a task is worth when completed on time.
const DefaultTaskXP = 50

type Task struct {
	ID          string
	Title       string
	StartTime   string // HH:mm
	EndTime     string // HH:mm
	Date        string // YYYY-MM-DD, the day the window begins on
	IsCompleted bool
	IsLate      bool
	XPValue     int
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	start, err := ParseClock(t.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(t.EndTime)
	if err != nil {
		return err
	}
	if start == end {
		return fmt.Errorf("%w: %s", ErrZeroLengthWindow, t.StartTime)
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, t.Date)
	}
	if t.XPValue < 0 {
		return errors.New("model: task xp value must not be negative")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.IsCompleted && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task is completed")
	}
	if !t.IsCompleted && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task is not completed")
	}
	return nil
}

// Window resolves the task's absolute start/end instants for its own calendar
// day, interpreted in ref's location.
func (t Task) Window(ref time.Time) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, t.Date, ref.Location())
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, t.Date)
	}
	return ResolveWindow(t.StartTime, t.EndTime, day)
}
