package engine

import (
	"fmt"
	"time"

	"github.com/rudhh/questly/internal/model"
	"github.com/rudhh/questly/internal/sound"
)

type TaskState string

const (
	StatePending   TaskState = "pending"
	StateActive    TaskState = "active"
	StateExpired   TaskState = "expired"
	StateCompleted TaskState = "completed"
)

// CriticalThreshold is the progress percentage past which an active task is
// considered critical.
const CriticalThreshold = 90.0

type Status struct {
	State    TaskState
	Progress float64 // 0..100
	Label    string
	// Events holds the one-shot cues this computation triggered. The caller
	// forwards them to the sound notifier; the engine only decides when.
	Events []sound.Event
}

// TransitionLog records which one-shot cues have already fired per task, so
// ComputeStatus stays a pure function of (task, now, prior notifications).
// A fresh log is created whenever a task's card is remounted.
type TransitionLog struct {
	fired map[string]bool
}

func NewTransitionLog() *TransitionLog {
	return &TransitionLog{fired: make(map[string]bool)}
}

func (l *TransitionLog) key(taskID string, ev sound.Event) string {
	return taskID + "/" + string(ev)
}

func (l *TransitionLog) Seen(taskID string, ev sound.Event) bool {
	if l == nil {
		return false
	}
	return l.fired[l.key(taskID, ev)]
}

func (l *TransitionLog) mark(taskID string, ev sound.Event) {
	if l == nil {
		return
	}
	l.fired[l.key(taskID, ev)] = true
}

// Forget drops a task's transition history, e.g. after deletion, so a reused
// identity cannot suppress future cues.
func (l *TransitionLog) Forget(taskID string) {
	if l == nil {
		return
	}
	for _, ev := range []sound.Event{sound.EventCritical, sound.EventWarning} {
		delete(l.fired, l.key(taskID, ev))
	}
}

// ComputeStatus derives a task's lifecycle state at the injected instant. It
// never reads the wall clock and never fails: malformed stored times fall back
// to a pending status so a bad record cannot take down the whole list.
func ComputeStatus(task model.Task, now time.Time, log *TransitionLog) Status {
	if task.IsCompleted {
		return Status{State: StateCompleted, Progress: 100, Label: "QUEST COMPLETE"}
	}

	start, end, err := task.Window(now)
	if err != nil {
		return Status{State: StatePending, Progress: 0, Label: "Starts " + task.StartTime}
	}

	switch {
	case now.Before(start):
		return Status{State: StatePending, Progress: 0, Label: "Starts " + task.StartTime}
	case !now.After(end):
		progress := 100.0
		if total := end.Sub(start); total > 0 {
			progress = clampPercent(float64(now.Sub(start)) / float64(total) * 100)
		}
		st := Status{State: StateActive, Progress: progress, Label: remainingLabel(end.Sub(now))}
		if progress > CriticalThreshold && !log.Seen(task.ID, sound.EventCritical) {
			log.mark(task.ID, sound.EventCritical)
			st.Events = append(st.Events, sound.EventCritical)
		}
		return st
	default:
		st := Status{State: StateExpired, Progress: 100, Label: "MISSION BYPASSED (0 XP)"}
		if !log.Seen(task.ID, sound.EventWarning) {
			log.mark(task.ID, sound.EventWarning)
			st.Events = append(st.Events, sound.EventWarning)
		}
		return st
	}
}

func remainingLabel(left time.Duration) string {
	if left < 0 {
		left = 0
	}
	m := int(left / time.Minute)
	s := int(left/time.Second) % 60
	return fmt.Sprintf("%dm %ds remaining", m, s)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
