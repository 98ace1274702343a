package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/talentmatch/internal/config"
	"github.com/okian/talentmatch/pkg/logger"
	"github.com/okian/talentmatch/pkg/metrics"
)

const appName = "talentmatch"

// cliState is shared by the subcommands once the root pre-run has loaded it.
type cliState struct {
	cfgFile string
	cfg     *config.Config
	log     logger.Logger
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "talentmatch ranks employees against a benchmark cohort for a job vacancy",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Logs go to stderr so `run` can print JSON on stdout.
			if err := logger.InitWriter(cmd.ErrOrStderr()); err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			state.log = logger.Get()

			cfg, err := loadConfig(cmd, state.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				state.log.Warn(cmd.Context(), "invalid log_level; falling back to info",
					logger.String("log_level", cfg.LogLevel), logger.Error(err))
				_ = logger.SetLevelString("info")
			}
			metrics.Configure(metricsOptions(cfg)...)
			state.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&state.cfgFile, "config", "",
		"YAML config file (default: $TALENTMATCH_CONFIG)")

	root.AddCommand(newServeCmd(state), newRunCmd(state))
	return root
}

func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("TALENTMATCH_CONFIG")
	}
	return config.LoadFile(cmd.Context(), path)
}

// metricsOptions maps the metrics_* config keys onto the global metrics manager.
func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithCustomLabels(cfg.MetricsLabels),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
		metrics.WithRefreshInterval(cfg.MetricsRefresh()),
	}
}
