package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"garden/internal/engine"
	"garden/internal/ui"
)

const Version = "0.1.0"

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	store      string
	dataPath   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "garden",
		Short:         "Productivity Garden: grow a plant for every finished task",
		Long:          "Productivity Garden is a local-first task tracker. Each completed task grows a plant, and milestones unlock achievements.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default $GARDEN_CONFIG or ~/.config/garden/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.store, "store", "", "Store kind (sqlite|file|memory)")
	cmd.PersistentFlags().StringVar(&opts.dataPath, "data", "", "Data file path")

	cmd.AddCommand(
		newAddCmd(opts),
		newDoCmd(opts),
		newRemoveCmd(opts),
		newListCmd(opts),
		newGardenCmd(opts),
		newPlantCmd(opts),
		newStatusCmd(opts),
		newResetCmd(opts),
		newBoardCmd(opts),
		newMetricsCmd(opts),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(engine.ExitCode(err))
	}
}
