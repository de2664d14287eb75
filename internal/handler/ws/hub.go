package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	"MarketBoard/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Hub pushes refresh snapshots to connected dashboard clients. A client
// that cannot drain its send buffer in time is dropped rather than
// blocking the broadcast.
type Hub struct {
	upgrader websocket.Upgrader
	metrics  domrepo.Metrics
	logger   *logger.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  []byte
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(metrics domrepo.Metrics, l *logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		metrics: metrics,
		logger:  l,
		clients: make(map[*client]struct{}),
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/dashboard", h.handleConnect)
}

func (h *Hub) handleConnect(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	// enqueue the most recent snapshot under the lock so a concurrent
	// broadcast cannot drop the client and close send first; a fresh
	// client never waits a full refresh interval
	if h.latest != nil {
		cl.send <- h.latest
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetWSClients(count)

	h.logger.Info("ws client connected", logger.Int("clients", count))

	go h.writePump(cl)
	go h.readPump(cl)
	return nil
}

// Broadcast sends a snapshot to every connected client and remembers it
// for clients that connect later.
func (h *Hub) Broadcast(snap *models.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("snapshot marshal failed", logger.Error(err))
		return
	}

	h.mu.Lock()
	h.latest = payload
	var slow []*client
	for cl := range h.clients {
		select {
		case cl.send <- payload:
		default:
			slow = append(slow, cl)
		}
	}
	for _, cl := range slow {
		delete(h.clients, cl)
		close(cl.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetWSClients(count)

	if len(slow) > 0 {
		h.logger.Warn("dropped slow ws clients", logger.Int("dropped", len(slow)))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()
	h.metrics.SetWSClients(0)
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetWSClients(count)
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the stream is push-only. It exists to
// observe pongs and close errors.
func (h *Hub) readPump(cl *client) {
	defer func() {
		h.remove(cl)
		_ = cl.conn.Close()
		h.logger.Debug("ws client disconnected")
	}()

	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}
