package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/schedboard/internal/dashboard"
	"github.com/SmitUplenchwar2687/schedboard/internal/focus"
)

func newFocusCmd(root *rootOptions) *cobra.Command {
	var store storageOptions

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Inspect or edit the persisted panel focus",
		Long: `The dashboard stores the focused panel under the "focused" key as a JSON
number, or null when every panel is shown.`,
	}
	store.addFlags(cmd.PersistentFlags())

	withStore := func(run func(ctx context.Context, cmd *cobra.Command, s *focus.Store, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			opts, err := store.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			backend, err := openStorage(ctx, opts)
			if err != nil {
				return err
			}
			defer backend.Close()
			return run(ctx, cmd, focus.NewStore(backend), args)
		}
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the persisted focus",
		Args:  cobra.NoArgs,
		RunE: withStore(func(ctx context.Context, cmd *cobra.Command, s *focus.Store, _ []string) error {
			f, err := s.Load(ctx)
			if err != nil {
				return err
			}
			id, ok := f.ID()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "none")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", id, panelLabel(id))
			return nil
		}),
	}

	setCmd := &cobra.Command{
		Use:     "set ID",
		Short:   "Focus a panel",
		Example: `  schedboard focus set 2`,
		Args:    cobra.ExactArgs(1),
		RunE: withStore(func(ctx context.Context, cmd *cobra.Command, s *focus.Store, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("panel id must be a positive integer, got %q", args[0])
			}
			if err := s.Save(ctx, focus.On(id)); err != nil {
				return err
			}
			label := panelLabel(id)
			if label == "" {
				label = "(no such panel, the dashboard will show nothing)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "focused %d %s\n", id, label)
			return nil
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Show all panels",
		Args:  cobra.NoArgs,
		RunE: withStore(func(ctx context.Context, cmd *cobra.Command, s *focus.Store, _ []string) error {
			if err := s.Save(ctx, focus.None); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cleared")
			return nil
		}),
	}

	cmd.AddCommand(showCmd, setCmd, clearCmd)
	return cmd
}

func panelLabel(id int) string {
	for _, p := range dashboard.DefaultPanels() {
		if p.ID == id {
			return p.Label
		}
	}
	return ""
}
