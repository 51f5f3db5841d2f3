package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/grovetools/sessionsync/pkg/storage"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// SampleProducts returns a small fixed catalog.
func SampleProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Wireless Headphones", Price: 99.99, Description: "Noise-cancelling over-ear headphones", Image: "/img/headphones.png"},
		{ID: "2", Name: "Smart Watch", Price: 199.99, Description: "Fitness tracking and notifications", Image: "/img/watch.png"},
		{ID: "3", Name: "Laptop Stand", Price: 49.99, Description: "Adjustable aluminium stand", Image: "/img/stand.png"},
	}
}

// SampleUser returns a fixed signed-in user.
func SampleUser() *models.User {
	return &models.User{Name: "Jane Doe", Email: "jane@example.com"}
}

// FileStorage opens file-backed storage for sessionID under a temp dir.
func FileStorage(t *testing.T, sessionID string) *storage.File {
	t.Helper()

	fs, err := storage.NewFile(t.TempDir(), sessionID)
	require.NoError(t, err)
	return fs
}

// SQLiteStorage opens an SQLite storage for sessionID in a temp database.
func SQLiteStorage(t *testing.T, sessionID string) *storage.SQLite {
	t.Helper()

	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"), sessionID)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// CaptureLogger returns a logger whose entries are recorded by the returned hook.
func CaptureLogger() (*logrus.Entry, *test.Hook) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	hook := test.NewLocal(logger)
	return logger.WithField("component", "test"), hook
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// RandomString generates a random hex string of the given length
func RandomString(length int) string {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)
}
