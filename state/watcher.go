package state

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher reloads a Store whenever another process rewrites its snapshot file.
// It lets independent processes that share a file-backed session observe each
// other's mutations.
type Watcher struct {
	watcher  *fsnotify.Watcher
	store    *Store
	path     string
	debounce time.Duration
	logger   *logrus.Entry

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches path, the snapshot file of store. Bursts of events are
// coalesced: the store reloads once debounce has passed without further
// changes.
func NewWatcher(store *Store, path string, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Snapshot writes replace the file by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	return &Watcher{
		watcher:  watcher,
		store:    store,
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   store.logger.WithField("component", "watcher"),
	}, nil
}

// Start processes file events. It blocks until ctx is cancelled or the
// watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	defer w.stopTimer()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.logger.Debugf("fsnotify event: %s op=%v", filepath.Base(event.Name), event.Op)
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	if w.store.Reload() {
		w.logger.Info("Snapshot changed on disk; state reloaded")
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
