package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rudhh/questly/internal/engine"
	"github.com/rudhh/questly/internal/model"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the player profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.svc.Profile(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			name := p.Name
			if name == "" {
				name = "(not onboarded)"
			}
			have, need := engine.TierProgress(p.RankXP)
			fmt.Fprintf(out, "%s: level %d, %d xp\n", name, p.Level, p.XP)
			fmt.Fprintf(out, "rank: %s %s (best: %s), %d/%d to next tier\n",
				p.CurrentRank, p.CurrentTier, p.HighestRank, have, have+need)
			fmt.Fprintf(out, "completed: %d | streak: %d\n", p.TotalCompleted, p.Streak)

			if len(p.Badges) > 0 {
				fmt.Fprintln(out, "badges:")
				for _, id := range p.Badges {
					if badge, ok := model.BadgeByID(id); ok {
						fmt.Fprintf(out, "  %s %s: %s\n", badge.Icon, badge.Name, badge.Description)
					}
				}
			}
			return nil
		},
	}
	return cmd
}
