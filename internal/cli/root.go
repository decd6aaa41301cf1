package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root schedboard command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "schedboard",
		Short: "Live metrics dashboard for the interview scheduler",
		Long: `schedboard loads days, appointments and interviewers from the scheduler
API, keeps them current from the push channel and shows four summary panels.
Select a panel to focus it; the choice survives restarts.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to JSON config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.logDevelopment, "log-dev", false, "human-friendly console logs")

	root.AddCommand(
		newServeCmd(opts),
		newSnapshotCmd(opts),
		newFocusCmd(opts),
		newReplayCmd(opts),
		newGenerateCmd(),
	)

	return root
}
