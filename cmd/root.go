package cmd

import (
	"github.com/grovetools/sessionsync/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the sessionsync command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"sessionsync",
		"Share one shopping session between a host shell and its embedded apps",
	)

	rootCmd.AddCommand(
		NewShowCmd(),
		NewProductsCmd(),
		NewCartCmd(),
		NewCheckoutCmd(),
		NewUserCmd(),
		NewRouteCmd(),
		NewSignOutCmd(),
		NewResetCmd(),
		NewHostCmd(),
		NewNotifyCmd(),
		NewWatchCmd(),
		NewSessionsCmd(),
		NewSchemaCmd(),
		cli.NewVersionCommand("sessionsync"),
	)
	return rootCmd
}
