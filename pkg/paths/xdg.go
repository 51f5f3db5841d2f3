// Package paths provides XDG-compliant path resolution for sessionsync.
//
// Resolution order:
// 1. SESSIONSYNC_HOME (portable root) → $SESSIONSYNC_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/sessionsync
// 3. Platform defaults → ~/.config/sessionsync, ~/.local/state/sessionsync
package paths

import (
	"os"
	"path/filepath"
)

const appName = "sessionsync"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv("SESSIONSYNC_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv("SESSIONSYNC_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the global configuration directory.
// Used for the global sessionsync.yml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	if os.Getenv("SESSIONSYNC_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// StateDir returns the state directory.
// Used for durable session records and logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	if os.Getenv("SESSIONSYNC_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// SessionsDir returns the default root for durable session storage.
func SessionsDir() string {
	return filepath.Join(StateDir(), "sessions")
}

// Expand expands a leading tilde to the user's home directory.
func Expand(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
