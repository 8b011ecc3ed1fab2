package scheduler

import (
	"testing"
	"time"

	"github.com/rudhh/questly/internal/model"
)

func waitEvent(t *testing.T, ch <-chan WindowEvent, timeout time.Duration) WindowEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("event channel closed")
		}
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for event")
	}
	return WindowEvent{}
}

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(WindowEvent{TaskID: "later", Kind: KindStart, At: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(WindowEvent{TaskID: "sooner", Kind: KindStart, At: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.TaskID != "sooner" || second.TaskID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.TaskID, second.TaskID)
	}
}

func TestEngineCancelRemovesQueuedEvents(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(WindowEvent{TaskID: "doomed", Kind: KindExpiry, At: now.Add(60 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule doomed: %v", err)
	}
	if err := engine.Schedule(WindowEvent{TaskID: "kept", Kind: KindExpiry, At: now.Add(90 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule kept: %v", err)
	}

	engine.Cancel("doomed")

	ev := waitEvent(t, engine.C(), time.Second)
	if ev.TaskID != "kept" {
		t.Fatalf("got %s, want kept", ev.TaskID)
	}
	select {
	case ev := <-engine.C():
		t.Fatalf("unexpected extra event %+v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestEngineRejectsZeroTriggerTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(WindowEvent{TaskID: "x", Kind: KindStart}); err != ErrInvalidTriggerTime {
		t.Fatalf("err = %v, want ErrInvalidTriggerTime", err)
	}
}

func TestPlanTaskSkipsPastEdges(t *testing.T) {
	task := model.Task{
		ID:        "t1",
		Title:     "demo",
		StartTime: "09:00",
		EndTime:   "10:00",
		Date:      "2026-03-14",
		CreatedAt: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
	}

	// Before the window: all three edges pending.
	events := PlanTask(task, time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC))
	if len(events) != 3 {
		t.Fatalf("len = %d, want 3", len(events))
	}
	if events[0].Kind != KindStart || events[1].Kind != KindCritical || events[2].Kind != KindExpiry {
		t.Fatalf("kinds = %v %v %v", events[0].Kind, events[1].Kind, events[2].Kind)
	}
	wantCritical := time.Date(2026, 3, 14, 9, 54, 0, 0, time.UTC)
	if !events[1].At.Equal(wantCritical) {
		t.Fatalf("critical at %v, want %v", events[1].At, wantCritical)
	}

	// Mid-window: start already passed.
	events = PlanTask(task, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	if len(events) != 2 || events[0].Kind != KindCritical {
		t.Fatalf("events = %+v, want critical+expiry", events)
	}

	// After expiry: nothing left.
	if events := PlanTask(task, time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)); len(events) != 0 {
		t.Fatalf("events = %+v, want none", events)
	}
}

func TestPlanTaskCompleted(t *testing.T) {
	done := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	task := model.Task{
		ID:          "t1",
		Title:       "demo",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Date:        "2026-03-14",
		IsCompleted: true,
		CompletedAt: &done,
		CreatedAt:   time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
	}
	if events := PlanTask(task, time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)); len(events) != 0 {
		t.Fatalf("events = %+v, want none for completed task", events)
	}
}
