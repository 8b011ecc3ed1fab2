package mentor

import (
	"context"
	"fmt"
	"strings"
)

// Scripted is the offline mentor used when no remote collaborator is
// configured. It answers from canned persona lines so the chat screen works
// without network access.
type Scripted struct {
	Personality string
}

func NewScripted(personality string) *Scripted {
	return &Scripted{Personality: personality}
}

func (s *Scripted) Send(_ context.Context, snap Snapshot, message string) (Reply, error) {
	msg := strings.ToLower(strings.TrimSpace(message))

	switch {
	case msg == "":
		return Reply{Text: "Speak up! An unasked question earns no XP."}, nil
	case strings.Contains(msg, "help"):
		return Reply{
			Text: "Try `/add <title> HH:mm-HH:mm` to schedule a quest, `/done <id>` when you finish, `/show progress` for the week.",
		}, nil
	case len(snap.Tasks) == 0:
		greeting := "The quest board is empty"
		if snap.UserName != "" {
			greeting = fmt.Sprintf("The quest board is empty, %s", snap.UserName)
		}
		return Reply{Text: greeting + ". Add a task and the real work begins."}, nil
	default:
		next := snap.Tasks[0]
		return Reply{
			Text:     fmt.Sprintf("Focus on %q: the window closes at %s. Finish on time and the XP is yours.", next.Title, next.EndTime),
			Thinking: fmt.Sprintf("%d active quests; nudging toward the earliest window.", len(snap.Tasks)),
		}, nil
	}
}
