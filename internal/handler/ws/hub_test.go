package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"MarketBoard/internal/domain/models"
	"MarketBoard/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, time.Duration) {}
func (nopMetrics) RecordFetchError(string)           {}
func (nopMetrics) RecordLastPrice(string, float64)   {}
func (nopMetrics) RecordRefresh(time.Duration)       {}
func (nopMetrics) SetWSClients(int)                  {}

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	hub := NewHub(nopMetrics{}, l)

	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dashboard"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		GeneratedAt: time.Now().UTC(),
		Groups: []models.AssetGroup{
			{Name: "Indices", Cards: []models.AssetCard{{Symbol: "^KS11", Label: "KOSPI", Price: 2500}}},
		},
	}
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count %d, want %d", hub.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastReachesClient(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	hub.Broadcast(testSnapshot())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(msg, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Groups) != 1 || snap.Groups[0].Cards[0].Symbol != "^KS11" {
		t.Fatalf("unexpected payload %s", msg)
	}
}

func TestLateClientGetsLatestSnapshot(t *testing.T) {
	hub, srv := newTestHub(t)

	hub.Broadcast(testSnapshot())

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("late client got no snapshot: %v", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(msg, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestConnectDuringBroadcastStorm(t *testing.T) {
	// replay of the latest snapshot must not race a broadcast that is
	// dropping slow clients and closing their send channels
	hub, srv := newTestHub(t)

	hub.Broadcast(testSnapshot())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.Broadcast(testSnapshot())
		}
	}()

	for i := 0; i < 10; i++ {
		conn := dial(t, srv)
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Fatalf("client %d got no snapshot: %v", i, err)
		}
	}

	<-done
}

func TestClientCountTracksDisconnect(t *testing.T) {
	hub, srv := newTestHub(t)

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	_ = conn.Close()
	waitForClients(t, hub, 0)
}
