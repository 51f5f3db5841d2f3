package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRouteCmd creates the `route` command
func NewRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Record an observed navigation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			env.session.RecordRoute(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Route: %s\n", args[0])
			return nil
		},
	}
}

// NewSignOutCmd creates the `signout` command
func NewSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Clear the user and the cart; keep the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			env.session.SignOut()
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

// NewResetCmd creates the `reset` command
func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the whole session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			env.session.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "Session reset")
			return nil
		},
	}
}
