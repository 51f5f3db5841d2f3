package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/sessionsync/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags(t *testing.T) {
	cmd := NewStandardCommand("test", "test")
	cmd.RunE = func(*cobra.Command, []string) error { return nil }
	cmd.SetArgs([]string{"--session", "tab-2", "--backend", "sqlite"})
	require.NoError(t, cmd.Execute())

	opts := GetOptions(cmd)
	assert.Equal(t, "tab-2", opts.SessionID)
	assert.Equal(t, "sqlite", opts.Backend)
	assert.Empty(t, opts.StorageDir)
}

func TestLoadConfigFromFlag(t *testing.T) {
	t.Setenv("SESSIONSYNC_HOME", t.TempDir())
	os.Unsetenv("SESSIONSYNC_SESSION_ID")
	os.Unsetenv("SESSIONSYNC_STORAGE_BACKEND")
	os.Unsetenv("SESSIONSYNC_STORAGE_DIR")

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("session:\n  id: from-file\n  storage:\n    backend: memory\n"), 0o644))

	cmd := NewStandardCommand("test", "test")
	cmd.RunE = func(c *cobra.Command, _ []string) error {
		cfg, err := LoadConfig(c)
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.Session.ID)
		assert.Equal(t, "memory", cfg.Session.Storage.Backend)
		assert.Equal(t, "/tmp/records", cfg.Session.Storage.Dir)
		return nil
	}
	cmd.SetArgs([]string{"--config", path, "--storage-dir", "/tmp/records"})
	require.NoError(t, cmd.Execute())
}

func TestLoadConfigRejectsBadBackendFlag(t *testing.T) {
	t.Setenv("SESSIONSYNC_HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "sessionsync.yml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.0\"\n"), 0o644))

	cmd := NewStandardCommand("test", "test")
	var loadErr error
	cmd.RunE = func(c *cobra.Command, _ []string) error {
		_, loadErr = LoadConfig(c)
		return nil
	}
	cmd.SetArgs([]string{"--config", path, "--backend", "floppy"})
	require.NoError(t, cmd.Execute())

	assert.True(t, errors.Is(loadErr, errors.ErrCodeConfigInvalid))
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty cart", errors.EmptyCart(), "cart is empty"},
		{"dial", errors.BridgeDial("ws://127.0.0.1:9/bridge", fmt.Errorf("refused")), "ws://127.0.0.1:9/bridge"},
		{"invalid input", errors.New(errors.ErrCodeInvalidInput, "bad customer").WithDetail("email", "Valid email is required"), "email: Valid email is required"},
		{"host running", errors.HostRunning(4242, "/tmp/hosts/default.pid"), "PID 4242"},
		{"generic", fmt.Errorf("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Out: &buf}

			assert.Equal(t, tt.err, h.Handle(tt.err))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestErrorHandlerVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &buf}

	h.Handle(errors.OriginRejected("http://evil"))

	assert.Contains(t, buf.String(), "BRIDGE_ORIGIN_REJECTED")
	assert.Nil(t, h.Handle(nil))
}

func TestVersionCommandJSON(t *testing.T) {
	root := NewStandardCommand("sessionsync", "test")
	root.AddCommand(NewVersionCommand("sessionsync"))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), `"version": "dev"`)
}
