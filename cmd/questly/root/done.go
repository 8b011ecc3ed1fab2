package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a quest",
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
			res, err := a.svc.CompleteTask(context.Background(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.IsLate {
				fmt.Fprintf(out, "completed %q late, no XP\n", res.Task.Title)
			} else {
				fmt.Fprintf(out, "completed %q +%dxp\n", res.Task.Title, res.XPAwarded)
			}
			if res.LevelUp {
				fmt.Fprintf(out, "level up! now level %d\n", res.LevelAfter)
			}
			for _, badge := range res.NewBadges {
				fmt.Fprintf(out, "badge unlocked: %s %s (+%dxp)\n", badge.Icon, badge.Name, badge.RewardXP)
			}
			return nil
		},
	}
	return cmd
}
