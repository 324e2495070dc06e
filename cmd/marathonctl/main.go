package main

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/marathon/internal/adapters/repository"
	app "github.com/okian/marathon/internal/app"
	"github.com/okian/marathon/internal/cli"
	"github.com/okian/marathon/internal/config"
	"github.com/okian/marathon/pkg/logger"
	"github.com/okian/marathon/pkg/metrics"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marathonctl [query_number|operation]",
	Short: "Run marathon report queries against the configured store",
	Long: `marathonctl runs one of the numbered report queries and prints the result.

The store is selected through the same MARATHON_* environment variables
and config file as the HTTP service. Run without arguments to list queries.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := cli.SetupLogging(cfg.LogFormat, cfg.LogLevel); err != nil {
		return err
	}

	labels, err := cfg.MetricsLabelMap()
	if err != nil {
		return err
	}
	metrics.Configure(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithMetricPrefix(cfg.MetricsPrefix),
		metrics.WithCustomLabels(labels),
	)

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Get().Warn(ctx, "failed to close store", logger.Error(err))
		}
	}()

	svc := app.New(
		app.WithStore(store),
		app.WithReportWorkers(1),
		app.WithSeedOnStart(cfg.SeedOnStart),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	return cli.Dispatch(ctx, svc, cmd.OutOrStdout(), cmd.Root().Name(), args)
}
