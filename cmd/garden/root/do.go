package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"garden/internal/engine"
	"garden/internal/ui"
)

func newDoCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <id>",
		Short: "Complete a task and grow its plant",
		Args:  taskIDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id := parseTaskID(args[0])
			return withSession(ctx, opts, func(s *session) error {
				out := cmd.OutOrStdout()
				if _, ok := s.svc.Task(id); !ok {
					return fmt.Errorf("task #%d not found", id)
				}

				// A PersistError still comes with a result: report it, then fail.
				res, err := s.svc.CompleteTask(ctx, id)
				if res == nil {
					return err
				}
				if !res.Completed {
					fmt.Fprintln(out, ui.Notice(ui.NoticeInfo, fmt.Sprintf("Task #%d is already done.", id)))
					return err
				}

				fmt.Fprintln(out, ui.Notice(ui.NoticeSuccess, fmt.Sprintf("Great job! Your %s plant is growing! 🌿", res.Task.Category)))
				if res.Plant != nil {
					fmt.Fprintf(out, "%s %s\n", ui.PlantText(res.Plant.Emoji, res.Plant.Size), ui.Muted.Render(shortID(res.Plant.ID)))
				}
				if res.Unlocked != nil {
					printUnlocked(cmd, *res.Unlocked)
				}
				fmt.Fprintln(out, ui.LabelValue("Completed", res.Stats.CompletedTasks)+"  "+ui.LabelValue("Plants", res.Stats.PlantsGrown))
				return err
			})
		},
	}

	return cmd
}

func printUnlocked(cmd *cobra.Command, a engine.Achievement) {
	fmt.Fprintln(cmd.OutOrStdout(), "")
	fmt.Fprintln(cmd.OutOrStdout(), ui.Modal.Render(
		ui.Gold.Render(ui.IconTrophy+" Achievement Unlocked!")+"\n\n"+
			ui.Title.Render(a.Title)+"\n"+a.Description))
}
