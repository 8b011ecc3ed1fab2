package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rudhh/questly/internal/engine"
	"github.com/rudhh/questly/internal/model"
)

func newListCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quests for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			day := date
			if day == "" {
				day = time.Now().Format(model.DateLayout)
			}
			tasks, err := a.svc.TasksOn(context.Background(), day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintf(out, "no quests on %s\n", day)
				return nil
			}

			now := time.Now()
			log := engine.NewTransitionLog()
			for i, task := range tasks {
				st := engine.ComputeStatus(task, now, log)
				fmt.Fprintf(out, "%2d. [%-9s] %s %s-%s | %s\n",
					i+1, st.State, task.Title, task.StartTime, task.EndTime, st.Label)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to list (YYYY-MM-DD, default today)")
	return cmd
}
