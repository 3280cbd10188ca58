package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"garden/internal/ui"
)

func newRemoveCmd(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Long: `Delete a task from the list.

Plants already grown from the task stay in the garden, and the
completed-task counter is not decreased.`,
		Args: taskIDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id := parseTaskID(args[0])
			return withSession(ctx, opts, func(s *session) error {
				task, ok := s.svc.Task(id)
				if !ok {
					return fmt.Errorf("task #%d not found", id)
				}
				if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %q?", task.Text)) {
					return errAborted
				}
				if _, err := s.svc.DeleteTask(ctx, id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Notice(ui.NoticeInfo, "Task removed from garden"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
