package cmd

import (
	"fmt"

	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/spf13/cobra"
)

// NewUserCmd creates the `user` command
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Set or clear the signed-in user",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <name> <email>",
		Short: "Sign a user in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			env.session.Store().SetUser(&models.User{Name: args[0], Email: args[1]})
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the user without touching the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			env.session.Store().SetUser(nil)
			fmt.Fprintln(cmd.OutOrStdout(), "User cleared")
			return nil
		},
	})

	return cmd
}
