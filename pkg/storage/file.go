package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/sessionsync/errors"
)

// File stores each record as <dir>/<session>/<key>.json.
type File struct {
	dir string
}

// NewFile creates a file-backed Storage rooted at dir for the given session.
func NewFile(dir, sessionID string) (*File, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "storage directory is required")
	}
	sessionDir := filepath.Join(dir, EncodeName(sessionID))
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageOpen, "create session directory").
			WithDetail("path", sessionDir)
	}
	return &File{dir: sessionDir}, nil
}

// Dir returns the session directory holding the records.
func (f *File) Dir() string {
	return f.dir
}

// PathFor returns the file that holds key.
func (f *File) PathFor(key string) string {
	return filepath.Join(f.dir, EncodeName(key)+".json")
}

func (f *File) GetItem(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.PathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.StorageRead(BackendFile, key, err)
	}
	return data, true, nil
}

// SetItem writes through a temp file and rename so readers in other
// processes never observe a partial record.
func (f *File) SetItem(key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, "."+EncodeName(key)+"-*.tmp")
	if err != nil {
		return errors.StorageWrite(BackendFile, key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.StorageWrite(BackendFile, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.StorageWrite(BackendFile, key, err)
	}
	if err := os.Rename(tmpName, f.PathFor(key)); err != nil {
		os.Remove(tmpName)
		return errors.StorageWrite(BackendFile, key, err)
	}
	return nil
}

func (f *File) RemoveItem(key string) error {
	if err := os.Remove(f.PathFor(key)); err != nil && !os.IsNotExist(err) {
		return errors.StorageWrite(BackendFile, key, err)
	}
	return nil
}

func (f *File) Close() error { return nil }

// EncodeName maps a session id or key onto a file name. Letters, digits, '-'
// and '_' are kept; every other byte becomes %XX, so distinct names never
// share a file and no name can leave the directory.
func EncodeName(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// DecodeName reverses EncodeName. Names it did not produce are returned as is.
func DecodeName(name string) string {
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return name
	}
	return decoded
}
