package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/actiontracker/tracker/pkg/composables"
	"github.com/actiontracker/tracker/pkg/configuration"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tracker-admin",
		Short:         "Admin tool for the action tracker: CSV import, users, vendors, migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			ctx := composables.WithLogger(cmd.Context(), logrus.NewEntry(conf.Logger()))
			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newCreateUserCmd())
	cmd.AddCommand(newListUsersCmd())
	cmd.AddCommand(newCreateVendorCmd())
	cmd.AddCommand(newListVendorsCmd())
	cmd.AddCommand(newResetSequenceCmd())
	cmd.AddCommand(newShowItemCmd())
	cmd.AddCommand(newMigrateCmd())
	return cmd
}

func Execute() {
	err := newRootCmd().Execute()
	configuration.Use().Unload()
	if err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
