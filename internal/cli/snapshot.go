package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/schedboard/internal/dashboard"
)

func newSnapshotCmd(root *rootOptions) *cobra.Command {
	var (
		timeout    time.Duration
		listen     time.Duration
		outputJSON bool
		endpoints  endpointOptions
		store      storageOptions
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Mount the dashboard once and print its panels",
		Long: `Mounts the dashboard, waits for the initial fetch, optionally keeps the push
channel open for a while so live updates land, prints the panels and unmounts.

The persisted focus is honoured, so a focused panel prints alone.`,
		Example: `  schedboard snapshot
  schedboard snapshot --listen 30s --ws-url ws://localhost:8001
  schedboard snapshot --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			endpoints.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			storeOpts, err := store.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			backend, err := openStorage(ctx, storeOpts)
			if err != nil {
				return err
			}
			defer backend.Close()

			view, err := buildView(viewDeps{
				cfg:   cfg,
				log:   log,
				store: backend,
				live:  listen > 0,
			})
			if err != nil {
				return err
			}
			if err := view.Mount(ctx); err != nil {
				return err
			}
			defer view.Unmount()

			waitCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				waitCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			if err := view.WaitLoaded(waitCtx); err != nil {
				return fmt.Errorf("dashboard did not load: %w", err)
			}

			if listen > 0 {
				select {
				case <-time.After(listen):
				case <-ctx.Done():
				}
			}

			page := view.Page()
			if outputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			}
			return dashboard.WriteText(cmd.OutOrStdout(), page)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "how long to wait for the initial fetch (0 = forever)")
	cmd.Flags().DurationVar(&listen, "listen", 0, "keep the push channel open this long before printing")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output the rendered page as JSON")
	endpoints.addFlags(cmd, true)
	store.addFlags(cmd.Flags())

	return cmd
}
