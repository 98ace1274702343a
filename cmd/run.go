package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/pkg/logger"
)

func newRunCmd(state *cliState) *cobra.Command {
	var req model.AnalysisRequest

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one analysis and print the result as JSON",
		Example: `  talentmatch run --role "Data Engineer" --level Senior \
    --benchmark e-001 --benchmark e-002`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := buildComponents(ctx, state.cfg, state.log)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					state.log.Warn(ctx, "close components failed", logger.Error(err))
				}
			}()

			res, err := c.svc.RunAnalysis(ctx, req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.RoleName, "role", "", "role name of the vacancy")
	cmd.Flags().StringVar(&req.JobLevel, "level", model.JobLevelStaff, "job level: Staff, Senior or Manager")
	cmd.Flags().StringVar(&req.Purpose, "purpose", "", "role purpose")
	cmd.Flags().StringSliceVarP(&req.Benchmark, "benchmark", "b", nil, "benchmark employee id (repeatable)")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("benchmark")
	return cmd
}
