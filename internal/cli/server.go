package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SmitUplenchwar2687/schedboard/internal/clock"
	"github.com/SmitUplenchwar2687/schedboard/internal/dashboard"
	"github.com/SmitUplenchwar2687/schedboard/internal/metrics"
	"github.com/SmitUplenchwar2687/schedboard/internal/recorder"
	"github.com/SmitUplenchwar2687/schedboard/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr       string
		recordFile string
		endpoints  endpointOptions
		store      storageOptions
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Mount the dashboard and serve it to browsers",
		Long: `Mounts the dashboard view, loads data from the scheduler API, subscribes to
the push channel and serves the live page over HTTP.

Endpoints:
  GET  /dashboard/              Live dashboard page
  GET  /api/view                Current rendered view as JSON
  POST /api/panels/{id}/select  Toggle focus on a panel
  GET  /health                  Health check
  GET  /metrics                 Prometheus metrics
  WS   /ws                      Page updates for browsers`,
		Example: `  schedboard serve
  schedboard serve --addr :9090 --api-url http://localhost:8001 --ws-url ws://localhost:8001
  schedboard serve --storage redis --redis-host localhost:6379
  schedboard serve --record updates.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			endpoints.apply(cmd, &cfg)
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			// Graceful shutdown on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			storeOpts, err := store.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			backend, err := openStorage(ctx, storeOpts)
			if err != nil {
				return err
			}
			defer backend.Close()

			m := metrics.New()
			var rec *recorder.Recorder
			if recordFile != "" {
				rec = recorder.New(nil, clock.NewRealClock())
			}

			view, err := buildView(viewDeps{
				cfg:      cfg,
				log:      log,
				store:    backend,
				metrics:  m,
				recorder: rec,
				live:     true,
			})
			if err != nil {
				return err
			}
			if err := view.Mount(ctx); err != nil {
				return err
			}

			srv := server.New(cfg.Server.Addr, view, m, log)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  schedboard\n")
			fmt.Fprintf(out, "  ────────────────────────────────────\n")
			fmt.Fprintf(out, "  Dashboard:  http://localhost%s/dashboard/\n", cfg.Server.Addr)
			fmt.Fprintf(out, "  API:        %s\n", cfg.API.BaseURL)
			if cfg.Live.URL != "" {
				fmt.Fprintf(out, "  Push:       %s\n", cfg.Live.URL)
			}
			fmt.Fprintf(out, "  Storage:    %s\n", storeOpts.Backend)
			fmt.Fprintf(out, "  ────────────────────────────────────\n\n")

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				teardown(view, rec, recordFile, log)
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				log.Info("shutting down")
				teardown(view, rec, recordFile, log)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&recordFile, "record", "", "record push messages to JSON file (exported on shutdown)")
	endpoints.addFlags(cmd, true)
	store.addFlags(cmd.Flags())

	return cmd
}

// teardown unmounts the view and exports recordings if enabled. It runs on
// every exit path of serve.
func teardown(view *dashboard.View, rec *recorder.Recorder, recordFile string, log *zap.Logger) {
	if err := view.Unmount(); err != nil {
		log.Warn("unmounting view", zap.Error(err))
	}
	if rec == nil {
		return
	}
	log.Info("exporting update records", zap.Int("records", rec.Len()), zap.String("file", recordFile))
	if err := rec.ExportFile(recordFile); err != nil {
		log.Error("exporting update records", zap.Error(err))
	}
}
