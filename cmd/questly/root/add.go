package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rudhh/questly/internal/engine"
)

func newAddCmd() *cobra.Command {
	var (
		start    string
		end      string
		duration int
		date     string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a time-boxed quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			task, err := a.svc.CreateTask(context.Background(), engine.CreateTaskInput{
				Title:       strings.Join(args, " "),
				StartTime:   start,
				EndTime:     end,
				DurationMin: duration,
				Date:        date,
				Force:       force,
			})
			if errors.Is(err, engine.ErrOverlap) {
				return fmt.Errorf("%w (re-run with --force to schedule anyway)", err)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %q %s-%s on %s (+%dxp on time)\n",
				task.Title, task.StartTime, task.EndTime, task.Date, task.XPValue)
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "Start time (HH:mm)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "End time (HH:mm); crosses midnight when earlier than start")
	cmd.Flags().IntVarP(&duration, "for", "m", 0, "Duration in minutes, instead of --end")
	cmd.Flags().StringVar(&date, "date", "", "Quest date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&force, "force", false, "Create even when the window overlaps an existing quest")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}
