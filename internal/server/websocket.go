package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/conneroisu/seo/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Messages queued per client before it is dropped.
	sendBuffer = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// hub fans reload messages out to connected browsers.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	logger  logging.Logger
	metrics *metrics
}

func newHub(logger logging.Logger, m *metrics) *hub {
	return &hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
		metrics: m,
	}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.clients.Set(float64(count))
	h.logger.Debug(context.Background(), "Client connected", "clients", count)
}

// remove closes c's queue once; it reports whether c was still registered.
func (h *hub) remove(c *client) bool {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.metrics.clients.Set(float64(count))
		h.logger.Debug(context.Background(), "Client disconnected", "clients", count)
	}
	return ok
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast queues msg for every client; slow clients are dropped.
func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		if h.remove(c) {
			_ = c.conn.Close(websocket.StatusPolicyViolation, "too slow")
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if h.remove(c) {
			_ = c.conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
}

// ClientCount returns the number of connected live reload clients.
func (s *PreviewServer) ClientCount() int {
	return s.hub.count()
}

func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Accept rejects cross-origin requests unless the origin matches Host.
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.hub.add(c)

	// The browser never sends anything; CloseRead handles control frames
	// and cancels ctx when the peer goes away.
	ctx := conn.CloseRead(context.Background())

	for {
		select {
		case <-ctx.Done():
			s.hub.remove(c)
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				if s.hub.remove(c) {
					_ = conn.Close(websocket.StatusInternalError, "write failed")
				}
				return
			}
		}
	}
}
