package root

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rudhh/questly/internal/model"
)

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			id, err := resolveTaskID(a, args[0])
			if err != nil {
				return err
			}
			res, err := a.svc.DeleteTask(context.Background(), id)
			if err != nil {
				return err
			}

			if res.XPDelta < 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %q, %d xp returned\n", res.Task.Title, res.XPDelta)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", res.Task.Title)
			}
			return nil
		},
	}
	return cmd
}

// resolveTaskID accepts a full id, a unique prefix, or a 1-based position in
// today's list.
func resolveTaskID(a *app, ref string) (string, error) {
	tasks, err := a.svc.TasksOn(context.Background(), time.Now().Format(model.DateLayout))
	if err != nil {
		return "", err
	}

	if n := parsePosition(ref); n >= 1 && n <= len(tasks) {
		return tasks[n-1].ID, nil
	}

	matches := make([]string, 0, 1)
	for _, task := range tasks {
		if task.ID == ref {
			return task.ID, nil
		}
		if strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		// Fall through to the store: the quest may live on another day.
		return ref, nil
	default:
		return "", fmt.Errorf("ambiguous id prefix %q matches %d quests", ref, len(matches))
	}
}

func parsePosition(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
