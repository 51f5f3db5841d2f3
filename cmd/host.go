package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/sessionsync/bridge/ws"
	"github.com/grovetools/sessionsync/config"
	"github.com/grovetools/sessionsync/internal/hostlock"
	"github.com/grovetools/sessionsync/internal/server"
	"github.com/grovetools/sessionsync/session"
	"github.com/spf13/cobra"
)

// NewHostCmd creates the `host` command
func NewHostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Run the host shell and serve the bridge",
		Long: `Run the host shell. Embedded applications connect to the websocket at
/bridge; their navigation requests are recorded in the session and their
cart updates drive the cart badge. The session state is served at /api/state
and streamed at /api/stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Other processes write the same session; the host follows them.
			env, err := openSessionEnv(cmd, func(cfg *config.Config) {
				cfg.Session.Watch = true
			})
			if err != nil {
				return err
			}
			defer env.Close()

			lock := hostlock.Path(env.session.ID())
			if err := hostlock.Acquire(lock); err != nil {
				return err
			}
			defer hostlock.Release(lock)

			if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
				env.cfg.Bridge.Listen = listen
			}

			hub := ws.NewHub(ws.HubOptions{
				AllowedOrigins: env.cfg.Bridge.AllowedOrigins,
				SendBuffer:     env.cfg.Bridge.SendBuffer,
				Logger:         env.logger.WithField("component", "bridge-hub"),
			})

			shell := session.NewShell(env.session, hub, func(path string) {
				env.logger.WithField("route", path).Info("Navigated")
			}, session.WithHomeCatalog(session.DefaultCatalog()))
			defer shell.Close()
			shell.Navigate(env.session.State().CurrentRoute)

			srv := server.New(env.session, hub, env.cfg.Session.Storage.Backend, env.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe(env.cfg.Bridge.Listen) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("listen", "", "Override bridge.listen")
	return cmd
}
