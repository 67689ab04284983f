package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actiontracker/tracker/migrations"
	"github.com/actiontracker/tracker/pkg/composables"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context) error {
				pool, err := composables.UsePool(ctx)
				if err != nil {
					return err
				}
				results, err := migrations.Up(ctx, pool)
				if err != nil {
					return withCode(exitDBWrite, err)
				}
				for _, r := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "applied %s (%s)\n", r.Source.Path, r.Duration)
				}
				if len(results) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context) error {
				pool, err := composables.UsePool(ctx)
				if err != nil {
					return err
				}
				statuses, err := migrations.Status(ctx, pool)
				if err != nil {
					return err
				}
				rows := make([][]any, 0, len(statuses))
				for _, s := range statuses {
					applied := "pending"
					if !s.AppliedAt.IsZero() {
						applied = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
					rows = append(rows, []any{s.Source.Version, s.Source.Path, applied})
				}
				return writeTable(cmd.OutOrStdout(), "VERSION\tFILE\tAPPLIED", rows)
			})
		},
	})
	return cmd
}
