// Package mentor is the boundary to the AI mentor collaborator. The core's
// only obligation toward it is an accurate snapshot of today's active tasks;
// everything past that line (model selection, streaming, grounding) belongs to
// the collaborator.
package mentor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rudhh/questly/internal/model"
)

// Snapshot is the task context handed to the mentor with every message.
type Snapshot struct {
	UserName string
	Tasks    []TaskContext
}

type TaskContext struct {
	Title     string
	StartTime string
	EndTime   string
}

// Reply is a mentor answer. Thinking and Citations are optional; the chat
// screen renders them when present.
type Reply struct {
	Text      string
	Thinking  string
	Citations []string
}

type Client interface {
	Send(ctx context.Context, snap Snapshot, message string) (Reply, error)
}

// BuildSnapshot projects the uncompleted tasks into mentor context. Completed
// tasks are the caller's job to filter; this keeps only the fields the mentor
// is allowed to see.
func BuildSnapshot(userName string, tasks []model.Task) Snapshot {
	snap := Snapshot{UserName: userName, Tasks: make([]TaskContext, 0, len(tasks))}
	for _, t := range tasks {
		if t.IsCompleted {
			continue
		}
		snap.Tasks = append(snap.Tasks, TaskContext{
			Title:     t.Title,
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
		})
	}
	return snap
}

// Prompt renders the snapshot as the context block a remote mentor receives.
func (s Snapshot) Prompt() string {
	var b strings.Builder
	if s.UserName != "" {
		fmt.Fprintf(&b, "Student: %s\n", s.UserName)
	}
	if len(s.Tasks) == 0 {
		b.WriteString("No active quests today.\n")
		return b.String()
	}
	b.WriteString("Active quests:\n")
	for _, t := range s.Tasks {
		fmt.Fprintf(&b, "- %s (%s-%s)\n", t.Title, t.StartTime, t.EndTime)
	}
	return b.String()
}
