package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SmitUplenchwar2687/schedboard/internal/api"
	"github.com/SmitUplenchwar2687/schedboard/internal/config"
	"github.com/SmitUplenchwar2687/schedboard/internal/dashboard"
	"github.com/SmitUplenchwar2687/schedboard/internal/focus"
	"github.com/SmitUplenchwar2687/schedboard/internal/live"
	"github.com/SmitUplenchwar2687/schedboard/internal/logging"
	"github.com/SmitUplenchwar2687/schedboard/internal/metrics"
	"github.com/SmitUplenchwar2687/schedboard/internal/recorder"
	"github.com/SmitUplenchwar2687/schedboard/internal/storage"
)

type rootOptions struct {
	configPath     string
	logLevel       string
	logDevelopment bool
}

// loadConfig layers defaults, the config file, .env and SCHEDBOARD_*
// variables, then the global flags that were set explicitly.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.LoadFile(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-dev") {
		cfg.Log.Development = o.logDevelopment
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Development)
}

// endpointOptions holds the flags that point at the scheduler backend.
type endpointOptions struct {
	apiURL     string
	apiTimeout time.Duration
	wsURL      string
}

func (o *endpointOptions) addFlags(cmd *cobra.Command, withLive bool) {
	cmd.Flags().StringVar(&o.apiURL, "api-url", "", "scheduler API base URL (overrides config)")
	cmd.Flags().DurationVar(&o.apiTimeout, "api-timeout", 0, "timeout for the initial fetch (0 = none)")
	if withLive {
		cmd.Flags().StringVar(&o.wsURL, "ws-url", "", "push channel websocket URL (overrides config and SCHEDBOARD_WEBSOCKET_URL)")
	}
}

func (o *endpointOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("api-url") {
		cfg.API.BaseURL = o.apiURL
	}
	if cmd.Flags().Changed("api-timeout") {
		cfg.API.Timeout = o.apiTimeout
	}
	if cmd.Flags().Lookup("ws-url") != nil && cmd.Flags().Changed("ws-url") {
		cfg.Live.URL = o.wsURL
	}
}

func newAPIClient(cfg config.Config, log *zap.Logger) *api.Client {
	opts := []api.Option{api.WithLogger(log)}
	if cfg.API.Timeout > 0 {
		opts = append(opts, api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}))
	}
	return api.NewClient(cfg.API.BaseURL, opts...)
}

// viewDeps collects what a mounted view needs.
type viewDeps struct {
	cfg      config.Config
	log      *zap.Logger
	store    storage.Storage
	metrics  *metrics.Metrics
	recorder *recorder.Recorder
	live     bool
}

func buildView(d viewDeps) (*dashboard.View, error) {
	deps := dashboard.Deps{
		Panels:   dashboard.DefaultPanels(),
		Fetcher:  newAPIClient(d.cfg, d.log),
		Focus:    focus.NewStore(d.store),
		Recorder: d.recorder,
		Metrics:  d.metrics,
		Logger:   d.log,
	}
	if d.live && d.cfg.Live.URL != "" {
		deps.Subscribe = dashboard.LiveSubscriber(d.cfg.Live.URL, live.Options{
			DialTimeout: d.cfg.Live.DialTimeout,
			Logger:      d.log,
		})
	} else if d.live {
		d.log.Warn("no push channel configured, live updates disabled",
			zap.String("hint", "set live.url or "+config.EnvPrefix+"WEBSOCKET_URL"))
	}
	return dashboard.NewView(deps)
}

func openStorage(ctx context.Context, opts storage.Options) (storage.Storage, error) {
	store, err := storage.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("opening %s focus storage: %w", opts.Backend, err)
	}
	return store, nil
}
