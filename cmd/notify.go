package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/grovetools/sessionsync/bridge"
	"github.com/grovetools/sessionsync/bridge/ws"
	"github.com/grovetools/sessionsync/cli"
	"github.com/spf13/cobra"
)

// NewNotifyCmd creates the `notify` command
func NewNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify <type> [arg]",
		Short: "Send one bridge message to a running host",
		Long: `Send one bridge message to a running host, as an embedded application
would. Types:
  CART_UPDATED <count>
  NAVIGATE <path>
  ORDER_COMPLETED`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 1 {
				arg = args[1]
			}
			msg, err := bridge.Parse(args[0], arg)
			if err != nil {
				return err
			}

			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if url, _ := cmd.Flags().GetString("url"); url != "" {
				cfg.Bridge.URL = url
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			client, err := ws.Dial(ctx, cfg.Bridge.URL, ws.DialOptions{
				Origin: cfg.Bridge.Origin,
				Logger: cli.GetLogger(cmd),
			})
			if err != nil {
				return err
			}
			client.Notify(msg)
			if err := client.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sent %s\n", msg.Type())
			return nil
		},
	}
	cmd.Flags().String("url", "", "Override bridge.url")
	return cmd
}
