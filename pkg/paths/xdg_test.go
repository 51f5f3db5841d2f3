package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPortableHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SESSIONSYNC_HOME", home)

	assert.Equal(t, filepath.Join(home, "config"), ConfigDir())
	assert.Equal(t, filepath.Join(home, "state"), StateDir())
	assert.Equal(t, filepath.Join(home, "state", "sessions"), SessionsDir())
}

func TestXDGOverrides(t *testing.T) {
	t.Setenv("SESSIONSYNC_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	assert.Equal(t, "/xdg/config/sessionsync", ConfigDir())
	assert.Equal(t, "/xdg/state/sessionsync", StateDir())
}

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, "logs"), Expand("~/logs"))
	assert.Equal(t, "/abs/path", Expand("/abs/path"))
}
