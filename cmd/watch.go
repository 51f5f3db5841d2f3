package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/sessionsync/cli"
	"github.com/grovetools/sessionsync/config"
	"github.com/grovetools/sessionsync/errors"
	"github.com/grovetools/sessionsync/pkg/storage"
	"github.com/grovetools/sessionsync/state"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the `watch` command
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print session changes made by other processes",
		Long: `Follow the session snapshot on disk and print the state each time another
process changes it. Requires the file storage backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd, func(cfg *config.Config) {
				cfg.Session.Watch = true
			})
			if err != nil {
				return err
			}
			defer env.Close()

			if backend := env.cfg.Session.Storage.Backend; backend != storage.BackendFile {
				return errors.New(errors.ErrCodeInvalidInput,
					fmt.Sprintf("watch needs the file backend, not '%s'", backend))
			}

			jsonOutput := cli.GetOptions(cmd).JSONOutput
			out := cmd.OutOrStdout()
			env.session.Store().Subscribe(func(u state.Update) {
				if jsonOutput {
					printJSON(out, u)
					return
				}
				fmt.Fprintf(out, "%s: cart=%d products=%d route=%s\n",
					u.Op, len(u.State.Cart), len(u.State.Products), u.State.CurrentRoute)
			})

			fmt.Fprintf(out, "Watching session %s (Ctrl-C to stop)\n", env.session.ID())
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}
}
