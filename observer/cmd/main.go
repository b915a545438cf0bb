package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/continuum-labs/continuum/observer/config"
	"github.com/continuum-labs/continuum/observer/internal/api"
	"github.com/continuum-labs/continuum/observer/internal/notify"
	"github.com/continuum-labs/continuum/observer/internal/queue"
	"github.com/continuum-labs/continuum/observer/internal/store"
	"github.com/continuum-labs/continuum/observer/internal/subscriber"
	"github.com/continuum-labs/continuum/observer/pkg/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

const (
	flagConfig   = "config"
	flagWSURL    = "ws-url"
	flagDBDriver = "db-driver"
	flagDBPath   = "db-path"
	flagDBDSN    = "db-dsn"
	flagAPIPort  = "api-port"
	flagLogLevel = "log-level"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "continuum-observer",
		Short:         "Project sequencer events into a queryable order book",
		Version:       fmt.Sprintf("%s (built %s)", version, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String(flagConfig, "", "path to YAML configuration file")
	flags.String(flagWSURL, "", "node websocket endpoint")
	flags.String(flagDBDriver, "", "projection store driver (sqlite|postgres)")
	flags.String(flagDBPath, "", "sqlite database path")
	flags.String(flagDBDSN, "", "postgres DSN")
	flags.Int(flagAPIPort, 0, "HTTP API port")
	flags.String(flagLogLevel, "", "log level")
	_ = v.BindPFlags(flags)

	return cmd
}

// loadConfig reads the YAML file and layers non-empty flags on top.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.LoadConfig(v.GetString(flagConfig))
	if err != nil {
		return nil, err
	}

	if s := v.GetString(flagWSURL); s != "" {
		cfg.Chain.WSURL = s
	}
	if s := v.GetString(flagDBDriver); s != "" {
		cfg.Database.Driver = s
	}
	if s := v.GetString(flagDBPath); s != "" {
		cfg.Database.Path = s
	}
	if s := v.GetString(flagDBDSN); s != "" {
		cfg.Database.DSN = s
	}
	if p := v.GetInt(flagAPIPort); p != 0 {
		cfg.API.Port = p
	}
	if s := v.GetString(flagLogLevel); s != "" {
		cfg.Log.Level = s
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.FromConfig("observer", cfg.Log)
	log.Info("Starting continuum observer", "version", version, "build_time", buildTime)

	st, err := store.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	sub := subscriber.NewSubscriber(cfg.Chain, log.With("module", "subscriber"))
	projector := queue.NewProjector(st, log.With("module", "projector"))
	if cfg.NATS.Enabled() {
		notifier, err := notify.Connect(cfg.NATS, log.With("module", "notify"))
		if err != nil {
			return err
		}
		defer notifier.Close()
		projector.WithNotifier(notifier)
	}
	server := api.NewServer(cfg.API, st, log.With("module", "api"))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sub.Run(gctx)
	})

	g.Go(func() error {
		err := projector.Run(gctx, sub.Batches())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	log.Info("Observer stopped", "error", err)
	return err
}
