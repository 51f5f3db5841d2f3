package cli

import (
	"os"

	"github.com/grovetools/sessionsync/config"
	"github.com/grovetools/sessionsync/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CommandOptions holds common options for sessionsync commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
	SessionID  string
	Backend    string
	StorageDir string
}

// NewStandardCommand creates a new command with the standard flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to sessionsync.yml config file")
	AddSessionFlags(cmd.PersistentFlags())

	return cmd
}

// AddSessionFlags registers the flags that select a session and its storage.
func AddSessionFlags(fs *pflag.FlagSet) {
	fs.StringP("session", "s", "", "Session id ('auto' generates one)")
	fs.String("backend", "", "Storage backend: file, sqlite or memory")
	fs.String("storage-dir", "", "Directory for session records")
}

// GetLogger creates a logger based on command flags
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	entry := logging.NewLogger("sessionsync")

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		entry.Logger.SetLevel(logrus.DebugLevel)
	}

	return entry
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	sessionID, _ := cmd.Flags().GetString("session")
	backend, _ := cmd.Flags().GetString("backend")
	storageDir, _ := cmd.Flags().GetString("storage-dir")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
		SessionID:  sessionID,
		Backend:    backend,
		StorageDir: storageDir,
	}
}

// LoadConfig loads the configuration named by --config, or discovers one from
// the working directory, then applies the session flags on top.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := GetOptions(cmd)

	var cfg *config.Config
	var err error
	if opts.ConfigFile != "" {
		cfg, err = config.Load(opts.ConfigFile)
	} else {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return nil, cwdErr
		}
		cfg, err = config.LoadOrDefault(cwd)
	}
	if err != nil {
		return nil, err
	}

	ApplyFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyFlags overrides cfg with the session flags the user actually set.
func ApplyFlags(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("session") {
		cfg.Session.ID, _ = fs.GetString("session")
	}
	if fs.Changed("backend") {
		cfg.Session.Storage.Backend, _ = fs.GetString("backend")
	}
	if fs.Changed("storage-dir") {
		cfg.Session.Storage.Dir, _ = fs.GetString("storage-dir")
	}
}
