package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"garden/internal/engine"
	"garden/internal/ui"
)

func newAddCmd(opts *globalOptions) *cobra.Command {
	var category string
	var priority string

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Plant a new task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("description is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := engine.ParseCategory(category)
			if err != nil {
				return err
			}
			p, err := engine.ParsePriority(priority)
			if err != nil {
				return err
			}

			ctx := context.Background()
			return withSession(ctx, opts, func(s *session) error {
				task, err := s.svc.CreateTask(ctx, engine.CreateTaskInput{
					Description: strings.Join(args, " "),
					Category:    c,
					Priority:    p,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, ui.Notice(ui.NoticeSuccess, "Task planted successfully! 🌱"))
				fmt.Fprintf(out, "%s %s %s %s\n",
					ui.Muted.Render(fmt.Sprintf("#%d", task.ID)),
					ui.CategoryIcon(task.Category),
					ui.PriorityIcon(task.Priority),
					task.Text)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(engine.DefaultCategory), "Category (work|personal|health|learning|creative)")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(engine.DefaultPriority), "Priority (low|medium|high)")

	return cmd
}
