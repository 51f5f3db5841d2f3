package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Defaults applied by SetDefaults.
const (
	DefaultVersion    = "1.0"
	DefaultSessionID  = "default"
	DefaultSessionKey = "mfe-global-state"
	DefaultListen     = "127.0.0.1:7420"
	DefaultBridgeURL  = "ws://127.0.0.1:7420/bridge"
	DefaultOrigin     = "http://localhost"
	DefaultSendBuffer = 64
	DefaultDebounceMs = 100
)

// StorageConfig selects the durable storage backend for session snapshots.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty" toml:"backend,omitempty" env:"SESSIONSYNC_STORAGE_BACKEND" jsonschema:"enum=file,enum=sqlite,enum=memory,description=Durable storage backend (default: file)"`
	Dir     string `yaml:"dir,omitempty" toml:"dir,omitempty" env:"SESSIONSYNC_STORAGE_DIR" jsonschema:"description=Root directory for file records and the default SQLite database"`
	Path    string `yaml:"path,omitempty" toml:"path,omitempty" env:"SESSIONSYNC_STORAGE_PATH" jsonschema:"description=SQLite database file (sqlite backend only)"`
}

// SessionConfig controls the session lifecycle.
type SessionConfig struct {
	ID         string        `yaml:"id,omitempty" toml:"id,omitempty" env:"SESSIONSYNC_SESSION_ID" jsonschema:"description=Session scope for durable records; 'auto' generates a fresh id"`
	Key        string        `yaml:"key,omitempty" toml:"key,omitempty" env:"SESSIONSYNC_SESSION_KEY" jsonschema:"description=Fixed record key of the session snapshot (default: mfe-global-state)"`
	Watch      bool          `yaml:"watch,omitempty" toml:"watch,omitempty" env:"SESSIONSYNC_SESSION_WATCH" jsonschema:"description=Reload the store when another process rewrites the snapshot (file backend)"`
	DebounceMs int           `yaml:"debounce_ms,omitempty" toml:"debounce_ms,omitempty" env:"SESSIONSYNC_SESSION_DEBOUNCE_MS" jsonschema:"description=Debounce window for snapshot reloads in milliseconds"`
	Storage    StorageConfig `yaml:"storage,omitempty" toml:"storage,omitempty" jsonschema:"description=Durable storage settings"`
}

// BridgeConfig controls the cross-process message bridge.
type BridgeConfig struct {
	Listen         string   `yaml:"listen,omitempty" toml:"listen,omitempty" env:"SESSIONSYNC_BRIDGE_LISTEN" jsonschema:"description=Address the host server listens on"`
	URL            string   `yaml:"url,omitempty" toml:"url,omitempty" env:"SESSIONSYNC_BRIDGE_URL" jsonschema:"description=Websocket URL embedded applications dial"`
	Origin         string   `yaml:"origin,omitempty" toml:"origin,omitempty" env:"SESSIONSYNC_BRIDGE_ORIGIN" jsonschema:"description=Origin header sent by embedded applications"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty" toml:"allowed_origins,omitempty" env:"SESSIONSYNC_BRIDGE_ALLOWED_ORIGINS" envSeparator:"," jsonschema:"description=Origins the host accepts; empty trusts every peer"`
	SendBuffer     int      `yaml:"send_buffer,omitempty" toml:"send_buffer,omitempty" env:"SESSIONSYNC_BRIDGE_SEND_BUFFER" jsonschema:"description=Per-peer outbound buffer; messages beyond it are dropped"`
}

// Config represents the sessionsync.yml configuration
type Config struct {
	Version string        `yaml:"version" toml:"version" jsonschema:"description=Configuration version (e.g. 1.0)"`
	Session SessionConfig `yaml:"session,omitempty" toml:"session,omitempty" jsonschema:"description=Session lifecycle and storage"`
	Bridge  BridgeConfig  `yaml:"bridge,omitempty" toml:"bridge,omitempty" jsonschema:"description=Host/embedded message bridge"`

	// Extensions captures all other top-level keys (e.g. logging).
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// knownKeys are the top-level keys decoded into typed fields.
var knownKeys = map[string]bool{"version": true, "session": true, "bridge": true}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Session.ID == "" {
		c.Session.ID = DefaultSessionID
	}
	if c.Session.Key == "" {
		c.Session.Key = DefaultSessionKey
	}
	if c.Session.DebounceMs <= 0 {
		c.Session.DebounceMs = DefaultDebounceMs
	}
	if c.Session.Storage.Backend == "" {
		c.Session.Storage.Backend = "file"
	}
	if c.Bridge.Listen == "" {
		c.Bridge.Listen = DefaultListen
	}
	if c.Bridge.URL == "" {
		c.Bridge.URL = DefaultBridgeURL
	}
	if c.Bridge.Origin == "" {
		c.Bridge.Origin = DefaultOrigin
	}
	if c.Bridge.SendBuffer <= 0 {
		c.Bridge.SendBuffer = DefaultSendBuffer
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded sessionsync.yml into the provided target struct. The target must be
// a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// A missing section leaves the target zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
