package relay

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer is the number of queued messages per subscriber before
	// it is dropped as too slow.
	sendBuffer = 16
)

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans push events out to every connected websocket subscriber.
type Hub struct {
	upgrader websocket.Upgrader
	rec      Recorder
	log      *zap.Logger

	mu      sync.Mutex
	clients map[*subscriber]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(rec Recorder, log *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The editing page and the viewer run on other origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		rec:     rec,
		log:     log,
		clients: make(map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the subscriber until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.add(s) {
		conn.Close()
		return
	}
	h.log.Info("subscriber connected", zap.String("remote", r.RemoteAddr))

	go h.writePump(s)
	h.readPump(s)
}

// Broadcast queues msg for every subscriber and returns how many were
// reached. Subscribers with a full queue are dropped.
func (h *Hub) Broadcast(msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for s := range h.clients {
		select {
		case s.send <- msg:
			n++
		default:
			h.log.Warn("dropping slow subscriber")
			h.removeLocked(s)
		}
	}
	h.rec.IncBroadcast()
	return n
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for s := range h.clients {
		h.removeLocked(s)
	}
}

func (h *Hub) add(s *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[s] = struct{}{}
	h.rec.SetHubClients(len(h.clients))
	return true
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

func (h *Hub) removeLocked(s *subscriber) {
	if _, ok := h.clients[s]; !ok {
		return
	}
	delete(h.clients, s)
	close(s.send)
	h.rec.SetHubClients(len(h.clients))
}

// readPump discards inbound messages and detects disconnects.
func (h *Hub) readPump(s *subscriber) {
	defer func() {
		h.remove(s)
		s.conn.Close()
	}()

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("subscriber read failed", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Debug("subscriber write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
