package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/tasktrack/internal/http/server"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			conn, err := server.OpenStore(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer conn.Close()

			res, err := server.Migrate(ctx, conn)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: applied %d, skipped %d (%s)\n",
				conn.Name(), len(res.Applied), len(res.Skipped), res.Duration)
			return nil
		},
	}
}
