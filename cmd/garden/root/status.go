package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"garden/internal/engine"
	"garden/internal/metrics"
	"garden/internal/ui"
)

func newStatusCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show garden stats and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			return withSession(ctx, opts, func(s *session) error {
				out := cmd.OutOrStdout()
				stats := s.svc.Stats()
				open, _, _, unlocked := metrics.Counts(s.svc)

				fmt.Fprintln(out, ui.Heading(ui.IconGarden, "Garden Status"))
				fmt.Fprintln(out, ui.LabelValue("Completed tasks", stats.CompletedTasks))
				fmt.Fprintln(out, ui.LabelValue("Plants grown", stats.PlantsGrown))
				fmt.Fprintln(out, ui.LabelValue("Open tasks", open))
				fmt.Fprintln(out, "")

				statuses := s.svc.Achievements()
				fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Achievements (%d/%d)", ui.IconTrophy, unlocked, len(statuses))))
				for _, st := range statuses {
					fmt.Fprintln(out, achievementLine(st, stats.CompletedTasks))
				}

				if next, ok := nextLocked(statuses); ok {
					fmt.Fprintln(out, "")
					toGo := next.Threshold - stats.CompletedTasks
					if toGo < 0 {
						toGo = 0
					}
					fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("Next: %s in %d more task(s)", next.Title, toGo)))
				}
				return nil
			})
		},
	}

	return cmd
}

// nextLocked returns the first locked achievement in catalog order.
func nextLocked(statuses []engine.AchievementStatus) (engine.Achievement, bool) {
	for _, st := range statuses {
		if !st.Unlocked {
			return st.Achievement, true
		}
	}
	return engine.Achievement{}, false
}

func achievementLine(st engine.AchievementStatus, completed int) string {
	if st.Unlocked {
		return fmt.Sprintf("- %s %s %s", ui.IconTrophy, ui.Gold.Render(st.Title), ui.Muted.Render(st.Description))
	}
	return fmt.Sprintf("- %s %s %s", ui.IconLock, st.Title, ui.Muted.Render(fmt.Sprintf("(%d/%d)", min(completed, st.Threshold), st.Threshold)))
}
