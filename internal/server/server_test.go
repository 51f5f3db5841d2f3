package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/sessionsync/bridge"
	"github.com/grovetools/sessionsync/bridge/ws"
	"github.com/grovetools/sessionsync/config"
	"github.com/grovetools/sessionsync/logging"
	"github.com/grovetools/sessionsync/pkg/storage"
	"github.com/grovetools/sessionsync/session"
	"github.com/grovetools/sessionsync/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	session *session.Session
	hub     *ws.Hub
	srv     *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.SetDefaults()
	sess, err := session.Open(cfg, storage.NewMemory(), logging.Discard())
	require.NoError(t, err)

	hub := ws.NewHub(ws.HubOptions{Logger: logging.Discard()})
	s := New(sess, hub, storage.BackendMemory, logging.Discard())
	srv := httptest.NewServer(s.Handler())

	t.Cleanup(func() {
		hub.Close()
		srv.Close()
		sess.Close()
	})
	return &fixture{session: sess, hub: hub, srv: srv}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestGetState(t *testing.T) {
	f := newFixture(t)
	p := testutil.SampleProducts()
	f.session.Store().SetProducts(p)
	f.session.Store().AddToCart(p[0])

	resp, err := http.Get(f.srv.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got stateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, f.session.State(), got.State)
	assert.Equal(t, 1, got.Summary.Count)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestGetStateRejectsOtherMethods(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Post(f.srv.URL+"/api/state", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestGetInfo(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.srv.URL + "/api/info")
	require.NoError(t, err)
	defer resp.Body.Close()

	var info RunningInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, config.DefaultSessionID, info.SessionID)
	assert.Equal(t, config.DefaultSessionKey, info.Key)
	assert.Equal(t, storage.BackendMemory, info.Backend)
	assert.Zero(t, info.Peers)
}

func TestBridgeEndpointReachesShell(t *testing.T) {
	f := newFixture(t)
	var visited []string
	visits := make(chan string, 4)
	sh := session.NewShell(f.session, f.hub, func(path string) { visits <- path })
	defer sh.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/bridge"
	client, err := ws.Dial(ctx, url, ws.DialOptions{Logger: logging.Discard()})
	require.NoError(t, err)
	defer client.Close()

	client.Notify(bridge.CartUpdated{CartCount: 3})
	client.Notify(bridge.Navigate{Path: "/checkout"})

	select {
	case path := <-visits:
		visited = append(visited, path)
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not navigate")
	}
	assert.Equal(t, []string{"/checkout"}, visited)
	assert.Equal(t, 3, sh.CartBadge())
	assert.Equal(t, "/checkout", f.session.State().CurrentRoute)
}

func TestStreamState(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.srv.URL+"/api/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan streamUpdate, 4)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var u streamUpdate
			if json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &u) == nil {
				events <- u
			}
		}
	}()

	next := func() streamUpdate {
		select {
		case u := <-events:
			return u
		case <-time.After(5 * time.Second):
			t.Fatal("no SSE event")
			return streamUpdate{}
		}
	}

	assert.Equal(t, "initial", next().Op)

	f.session.RecordRoute("/catalog")
	u := next()
	assert.Equal(t, "set_current_route", u.Op)
	assert.Equal(t, "/catalog", u.State.CurrentRoute)
}

func TestShutdownEndsOpenStreams(t *testing.T) {
	cfg := &config.Config{}
	cfg.SetDefaults()
	sess, err := session.Open(cfg, storage.NewMemory(), logging.Discard())
	require.NoError(t, err)
	defer sess.Close()

	hub := ws.NewHub(ws.HubOptions{Logger: logging.Discard()})
	s := New(sess, hub, storage.BackendMemory, logging.Discard())

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	served := make(chan error, 1)
	go func() { served <- s.Serve(listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/api/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, s.Shutdown(ctx))
	assert.Less(t, time.Since(start), time.Second)

	// The stream body is closed by the server.
	_, err = io.ReadAll(reader)
	assert.NoError(t, err)
	require.NoError(t, <-served)
}
