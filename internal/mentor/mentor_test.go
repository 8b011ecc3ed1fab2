package mentor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rudhh/questly/internal/model"
)

func sampleTasks() []model.Task {
	done := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return []model.Task{
		{ID: "a", Title: "read chapter 4", StartTime: "09:00", EndTime: "10:00", Date: "2026-03-14"},
		{ID: "b", Title: "finished already", StartTime: "07:00", EndTime: "08:00", Date: "2026-03-14", IsCompleted: true, CompletedAt: &done},
		{ID: "c", Title: "evening review", StartTime: "20:00", EndTime: "21:00", Date: "2026-03-14"},
	}
}

func TestBuildSnapshotFiltersCompleted(t *testing.T) {
	snap := BuildSnapshot("Rudhh", sampleTasks())

	if snap.UserName != "Rudhh" {
		t.Fatalf("userName = %q", snap.UserName)
	}
	if len(snap.Tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(snap.Tasks))
	}
	for _, task := range snap.Tasks {
		if task.Title == "finished already" {
			t.Fatal("completed task leaked into snapshot")
		}
	}
}

func TestSnapshotPrompt(t *testing.T) {
	snap := BuildSnapshot("Rudhh", sampleTasks())
	prompt := snap.Prompt()

	if !strings.Contains(prompt, "read chapter 4 (09:00-10:00)") {
		t.Fatalf("prompt = %q", prompt)
	}
	if strings.Contains(prompt, "finished already") {
		t.Fatalf("prompt leaks completed task: %q", prompt)
	}

	empty := BuildSnapshot("", nil).Prompt()
	if !strings.Contains(empty, "No active quests") {
		t.Fatalf("empty prompt = %q", empty)
	}
}

func TestScriptedMentor(t *testing.T) {
	m := NewScripted(model.DefaultMentorPersonality)
	ctx := context.Background()
	snap := BuildSnapshot("Rudhh", sampleTasks())

	reply, err := m.Send(ctx, snap, "what should I do next?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(reply.Text, "read chapter 4") {
		t.Fatalf("reply = %q, want nudge toward earliest task", reply.Text)
	}
	if reply.Thinking == "" {
		t.Fatal("expected a thinking trace")
	}

	reply, err = m.Send(ctx, Snapshot{}, "help")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(reply.Text, "/add") {
		t.Fatalf("help reply = %q", reply.Text)
	}

	reply, err = m.Send(ctx, Snapshot{UserName: "Rudhh"}, "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(reply.Text, "empty") {
		t.Fatalf("empty-board reply = %q", reply.Text)
	}
}
