package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/grovetools/sessionsync/bridge"
	"github.com/grovetools/sessionsync/bridge/ws"
	"github.com/grovetools/sessionsync/cli"
	"github.com/grovetools/sessionsync/config"
	"github.com/grovetools/sessionsync/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// sessionEnv bundles what most commands need.
type sessionEnv struct {
	cfg     *config.Config
	session *session.Session
	logger  *logrus.Entry
}

// openSessionEnv loads configuration, applies adjust, and activates the
// selected session.
func openSessionEnv(cmd *cobra.Command, adjust ...func(*config.Config)) (*sessionEnv, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	for _, fn := range adjust {
		fn(cfg)
	}
	logger := cli.GetLogger(cmd)

	// Resolve once so storage and session agree on a generated id.
	cfg.Session.ID = session.ResolveID(cfg.Session.ID)
	st, err := session.OpenStorage(cfg, cfg.Session.ID)
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(cfg, st, logger)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &sessionEnv{cfg: cfg, session: sess, logger: logger}, nil
}

func (r *sessionEnv) Close() {
	if err := r.session.Close(); err != nil {
		r.logger.WithError(err).Warn("Failed to close session")
	}
}

// parentEndpoint returns the endpoint an embedded role reports to. With
// --notify it dials the host; otherwise messages go nowhere. A host that
// cannot be reached is not an error: notifications are best effort.
func (r *sessionEnv) parentEndpoint(cmd *cobra.Command) (bridge.Endpoint, func()) {
	notify, _ := cmd.Flags().GetBool("notify")
	if notify {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		client, err := ws.Dial(ctx, r.cfg.Bridge.URL, ws.DialOptions{
			Origin:     r.cfg.Bridge.Origin,
			SendBuffer: r.cfg.Bridge.SendBuffer,
			Logger:     r.logger,
		})
		if err == nil {
			return client, func() { client.Close() }
		}
		r.logger.WithError(err).Warn("Host unreachable; notifications will be dropped")
	}

	_, embedded := bridge.NewPair(bridge.WithLogger(r.logger))
	return embedded, func() {}
}

func addNotifyFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("notify", false, "Send bridge notifications to a running host")
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
