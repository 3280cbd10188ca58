package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"garden/internal/ui"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var pending bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks: open first, then by priority and newest",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			return withSession(ctx, opts, func(s *session) error {
				out := cmd.OutOrStdout()
				if s.svc.IsEmpty() {
					fmt.Fprintln(out, ui.Notice(ui.NoticeInfo, ui.WelcomeMessage))
					return nil
				}

				fmt.Fprintln(out, ui.Heading(ui.IconGarden, "Tasks"))
				shown := 0
				for _, t := range s.svc.SortedTasks() {
					if pending && t.Completed {
						continue
					}
					text := t.Text
					if t.Completed {
						text = ui.Done.Render(text)
					}
					fmt.Fprintf(out, "%s %s %s %s\n",
						ui.Muted.Render(fmt.Sprintf("#%d", t.ID)),
						ui.CategoryIcon(t.Category),
						ui.PriorityIcon(t.Priority),
						text)
					shown++
				}
				if shown == 0 {
					fmt.Fprintln(out, ui.Muted.Render("(no open tasks)"))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "Only show tasks that are not done")

	return cmd
}

func newGardenCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "garden",
		Short: "Show the plants grown so far",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			return withSession(ctx, opts, func(s *session) error {
				out := cmd.OutOrStdout()
				if s.svc.IsEmpty() {
					fmt.Fprintln(out, ui.Notice(ui.NoticeInfo, ui.WelcomeMessage))
					return nil
				}
				plants := s.svc.Plants()
				fmt.Fprintln(out, ui.Heading(ui.IconGarden, fmt.Sprintf("Garden (%d plants)", len(plants))))
				if len(plants) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("(nothing grown yet, finish a task with garden do <id>)"))
					return nil
				}
				for _, p := range plants {
					fmt.Fprintf(out, "%s %s %s\n",
						ui.Muted.Render(shortID(p.ID)),
						ui.PlantText(p.Emoji, p.Size),
						p.TaskText)
				}
				return nil
			})
		},
	}

	return cmd
}

func newPlantCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plant <id>",
		Short: "Show where a plant came from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			return withSession(ctx, opts, func(s *session) error {
				p, ok := s.svc.Plant(args[0])
				if !ok {
					return fmt.Errorf("plant %q not found", args[0])
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, ui.PlantDetails(p.Emoji, p.TaskText, p.GrownAt))
				fmt.Fprintln(out, ui.LabelValue("Category", ui.CategoryText(p.Category)))
				fmt.Fprintln(out, ui.LabelValue("Size", p.Size))
				return nil
			})
		},
	}

	return cmd
}

// shortID is the plant id prefix shown in listings; garden plant accepts it back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
