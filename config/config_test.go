package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/sessionsync/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the global config lookup at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("SESSIONSYNC_HOME", t.TempDir())
	for _, key := range []string{
		"SESSIONSYNC_SESSION_ID", "SESSIONSYNC_SESSION_KEY", "SESSIONSYNC_STORAGE_BACKEND",
		"SESSIONSYNC_STORAGE_DIR", "SESSIONSYNC_BRIDGE_URL", "SESSIONSYNC_BRIDGE_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadYAML(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("TEST_STATE_DIR", "/var/lib/sessions")
	writeFile(t, filepath.Join(dir, "sessionsync.yml"), `
version: "1.0"
session:
  id: tab-1
  storage:
    backend: sqlite
    dir: ${TEST_STATE_DIR}
bridge:
  allowed_origins:
    - http://localhost:4200
logging:
  level: debug
`)

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "tab-1", cfg.Session.ID)
	assert.Equal(t, DefaultSessionKey, cfg.Session.Key)
	assert.Equal(t, "sqlite", cfg.Session.Storage.Backend)
	assert.Equal(t, "/var/lib/sessions", cfg.Session.Storage.Dir)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.Bridge.AllowedOrigins)
	assert.Equal(t, DefaultListen, cfg.Bridge.Listen)
	assert.Equal(t, DefaultSendBuffer, cfg.Bridge.SendBuffer)

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
}

func TestLoadTOML(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sessionsync.toml"), `
version = "1.0"

[session]
key = "shop-state"
watch = true
debounce_ms = 250

[session.storage]
backend = "memory"

[bridge]
listen = "0.0.0.0:9000"
send_buffer = 8

[logging]
level = "warn"
`)

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "shop-state", cfg.Session.Key)
	assert.True(t, cfg.Session.Watch)
	assert.Equal(t, 250, cfg.Session.DebounceMs)
	assert.Equal(t, "memory", cfg.Session.Storage.Backend)
	assert.Equal(t, "0.0.0.0:9000", cfg.Bridge.Listen)
	assert.Equal(t, 8, cfg.Bridge.SendBuffer)

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "warn", logCfg.Level)
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sessionsync.yml"), "session:\n  id: from-file\n")

	t.Setenv("SESSIONSYNC_SESSION_ID", "from-env")
	t.Setenv("SESSIONSYNC_BRIDGE_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Session.ID)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Bridge.AllowedOrigins)
}

func TestOverrideFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sessionsync.yml"), "session:\n  id: base\n  key: base-key\n")
	writeFile(t, filepath.Join(dir, "sessionsync.override.yml"), "session:\n  id: local\n")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Session.ID)
	assert.Equal(t, "base-key", cfg.Session.Key)
}

func TestFindConfigFileWalksUp(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sessionsync.yml"), "version: \"1.0\"\n")
	nested := filepath.Join(root, "apps", "catalog")
	require.NoError(t, os.MkdirAll(nested, 0755))

	path, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sessionsync.yml"), path)
}

func TestLoadOrDefault(t *testing.T) {
	isolate(t)

	cfg, err := LoadOrDefault(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionID, cfg.Session.ID)
	assert.Equal(t, DefaultSessionKey, cfg.Session.Key)
	assert.Equal(t, "file", cfg.Session.Storage.Backend)

	_, err = LoadFrom(t.TempDir())
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{}},
		{name: "bad backend", cfg: Config{Session: SessionConfig{Storage: StorageConfig{Backend: "redis"}}}, wantErr: true},
		{name: "bad listen", cfg: Config{Bridge: BridgeConfig{Listen: "7420"}}, wantErr: true},
		{name: "http bridge url", cfg: Config{Bridge: BridgeConfig{URL: "http://localhost/bridge"}}, wantErr: true},
		{name: "bad origin", cfg: Config{Bridge: BridgeConfig{AllowedOrigins: []string{"localhost"}}}, wantErr: true},
		{name: "wildcard origin", cfg: Config{Bridge: BridgeConfig{AllowedOrigins: []string{"*"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.SetDefaults()
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInvalidYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("session: [unclosed"), "yaml")
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}
