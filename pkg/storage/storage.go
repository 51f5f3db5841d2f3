// Package storage provides session-scoped durable key/value records.
//
// A Storage plays the role of the browser's sessionStorage: each record is a
// named blob written synchronously and read back on the next activation of
// the same session. Backends:
//   - memory: process-local, lost on exit (tests, single-process embedding)
//   - file: one file per key under <dir>/<session>/
//   - sqlite: one row per (session, key) in a SQLite database
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grovetools/sessionsync/errors"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Storage is a session-scoped key/value store for durable snapshots.
type Storage interface {
	// GetItem returns the record for key. ok is false when no record exists.
	GetItem(key string) (value []byte, ok bool, err error)

	// SetItem writes the record for key, replacing any previous value.
	SetItem(key string, value []byte) error

	// RemoveItem deletes the record for key. Removing a missing key is not an error.
	RemoveItem(key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Options configures Open.
type Options struct {
	// Backend is one of "memory", "file" or "sqlite". Empty means "file".
	Backend string

	// Dir is the root directory for the file backend and the default
	// location of the SQLite database.
	Dir string

	// Path overrides the SQLite database file.
	Path string

	// SessionID scopes records to one session.
	SessionID string
}

// Open creates the Storage described by opts.
func Open(opts Options) (Storage, error) {
	if strings.TrimSpace(opts.SessionID) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "session id is required")
	}

	switch opts.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case "", BackendFile:
		return NewFile(opts.Dir, opts.SessionID)
	case BackendSQLite:
		path := opts.Path
		if path == "" {
			path = filepath.Join(opts.Dir, "sessions.db")
		}
		return OpenSQLite(path, opts.SessionID)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown storage backend '%s'", opts.Backend)).
			WithDetail("backend", opts.Backend)
	}
}
