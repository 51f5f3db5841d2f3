package cmd

import (
	"fmt"

	"github.com/grovetools/sessionsync/config"
	"github.com/grovetools/sessionsync/errors"
	"github.com/grovetools/sessionsync/schema"
	"github.com/spf13/cobra"
)

// NewSchemaCmd creates the `schema` command
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [config|snapshot|bridge]",
		Short:     "Print a JSON schema",
		Long:      "Print the JSON schema of the configuration file (default), the durable snapshot record, or bridge messages.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"config", "snapshot", "bridge"},
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "config"
			if len(args) == 1 {
				which = args[0]
			}

			var data []byte
			switch which {
			case "config":
				generated, err := config.GenerateSchemaJSON()
				if err != nil {
					return err
				}
				data = generated
			case "snapshot":
				data = schema.SnapshotSchema()
			case "bridge":
				data = schema.BridgeSchema()
			default:
				return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown schema '%s'", which)).
					WithDetail("choices", "config, snapshot, bridge")
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
