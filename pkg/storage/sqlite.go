package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grovetools/sessionsync/errors"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session_items (
	session_id TEXT NOT NULL,
	item_key   TEXT NOT NULL,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (session_id, item_key)
)`

// SQLite stores records in a SQLite database, one row per (session, key).
type SQLite struct {
	db        *sql.DB
	sessionID string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path, sessionID string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageOpen, "create database directory").
			WithDetail("path", cleanPath)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageOpen, "open sqlite db").WithDetail("path", cleanPath)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStorageOpen, "ping sqlite db").WithDetail("path", cleanPath)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStorageOpen, "create schema").WithDetail("path", cleanPath)
	}
	return &SQLite{db: db, sessionID: sessionID}, nil
}

func (s *SQLite) GetItem(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(
		`SELECT value FROM session_items WHERE session_id = ? AND item_key = ?`,
		s.sessionID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.StorageRead(BackendSQLite, key, err)
	}
	return value, true, nil
}

func (s *SQLite) SetItem(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO session_items (session_id, item_key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, item_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.sessionID, key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return errors.StorageWrite(BackendSQLite, key, err)
	}
	return nil
}

func (s *SQLite) RemoveItem(key string) error {
	if _, err := s.db.Exec(
		`DELETE FROM session_items WHERE session_id = ? AND item_key = ?`,
		s.sessionID, key,
	); err != nil {
		return errors.StorageWrite(BackendSQLite, key, err)
	}
	return nil
}

// Sessions lists the session ids that have at least one record.
func (s *SQLite) Sessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT session_id FROM session_items ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
