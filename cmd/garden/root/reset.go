package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"garden/internal/ui"
)

func newResetCmd(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all tasks, plants, stats and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			return withSession(ctx, opts, func(s *session) error {
				q := "Reset your entire garden? This will delete all tasks and plants."
				if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), q) {
					return errAborted
				}
				if err := s.svc.ResetGarden(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Notice(ui.NoticeInfo, "Garden reset successfully! Start fresh! 🌱"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
