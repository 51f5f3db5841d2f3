package state

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grovetools/sessionsync/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnExternalWrite(t *testing.T) {
	st := testutil.FileStorage(t, "watched")
	writer := newStore(t, st)
	reader := newStore(t, st)

	w, err := NewWatcher(reader, st.PathFor(reader.Key()), 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	reloaded := make(chan struct{}, 1)
	reader.Subscribe(func(u Update) {
		if u.Op == OpReload {
			select {
			case reloaded <- struct{}{}:
			default:
			}
		}
	})

	writer.SetUser(testutil.SampleUser())

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload the store")
	}
	require.NotNil(t, reader.State().User)
	assert.Equal(t, "jane@example.com", reader.State().User.Email)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	st := testutil.FileStorage(t, "watched")
	s := newStore(t, st)

	w, err := NewWatcher(s, st.PathFor(s.Key()), 10*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	var calls atomic.Int32
	s.Subscribe(func(u Update) {
		if u.Op == OpReload {
			calls.Add(1)
		}
	})
	require.NoError(t, st.SetItem("unrelated", []byte("{}")))

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, calls.Load())
}
