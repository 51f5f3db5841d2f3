package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/grovetools/sessionsync/cli"
	"github.com/grovetools/sessionsync/pkg/paths"
	"github.com/grovetools/sessionsync/pkg/storage"
	"github.com/spf13/cobra"
)

// NewSessionsCmd creates the `sessions` command
func NewSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List sessions with durable records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			sc := cfg.Session.Storage
			dir := sc.Dir
			if dir == "" {
				dir = paths.SessionsDir()
			}
			dir = paths.Expand(dir)

			var ids []string
			switch sc.Backend {
			case storage.BackendSQLite:
				dbPath := paths.Expand(sc.Path)
				if dbPath == "" {
					dbPath = filepath.Join(dir, "sessions.db")
				}
				db, err := storage.OpenSQLite(dbPath, "-")
				if err != nil {
					return err
				}
				defer db.Close()
				if ids, err = db.Sessions(); err != nil {
					return err
				}
			case storage.BackendMemory:
				ids = []string{}
			default:
				entries, err := os.ReadDir(dir)
				if err != nil && !os.IsNotExist(err) {
					return err
				}
				for _, e := range entries {
					if e.IsDir() {
						ids = append(ids, storage.DecodeName(e.Name()))
					}
				}
				sort.Strings(ids)
			}

			if cli.GetOptions(cmd).JSONOutput {
				if ids == nil {
					ids = []string{}
				}
				return printJSON(cmd.OutOrStdout(), ids)
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
