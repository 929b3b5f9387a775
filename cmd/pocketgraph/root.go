package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alt-coder/pocketgraph/core"
	"github.com/alt-coder/pocketgraph/internal/config"
	"github.com/alt-coder/pocketgraph/internal/logging"
	"github.com/alt-coder/pocketgraph/observe"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	observer core.Observer
	registry *prometheus.Registry
	metrics  *http.Server
}

// execute runs cmd with args and stops the metrics server afterwards, also
// when the command failed.
func (a *app) execute(cmd *cobra.Command, args []string) error {
	if args != nil {
		cmd.SetArgs(args)
	}
	err := cmd.Execute()
	if shutdownErr := a.shutdown(); shutdownErr != nil && err == nil {
		err = fmt.Errorf("stop metrics server: %w", shutdownErr)
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pocketgraph",
		Short:         "pocketgraph runs action-labeled node graphs",
		Long:          `pocketgraph walks graphs of prep/exec/post nodes, following the edge named by each node's action.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides POCKETGRAPH_LOG_LEVEL")
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (default ./.env when present)")
	rootCmd.PersistentFlags().String("metrics", "", "Serve Prometheus metrics on this address, e.g. :2112")

	rootCmd.AddCommand(newDemoCmd(a), newChatCmd(a), newResumeCmd(a), newVersionCmd())
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if addr, _ := cmd.Flags().GetString("metrics"); addr != "" {
		cfg.MetricsAddr = addr
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level).With("run_id", uuid.NewString())
	a.registry = prometheus.NewRegistry()

	metrics, err := observe.NewMetrics(a.registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	a.observer = observe.Multi(observe.NewLogger(a.logger), metrics)

	if cfg.MetricsAddr != "" {
		a.serveMetrics(cfg.MetricsAddr)
	}
	return nil
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	a.logger.Info("serving metrics", "addr", addr)
	go func() {
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
}

func (a *app) shutdown() error {
	if a.metrics == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.metrics.Shutdown(ctx)
}

// runContext attaches the observers to ctx.
func (a *app) runContext(ctx context.Context) context.Context {
	return core.WithObserver(ctx, a.observer)
}
