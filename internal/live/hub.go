package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"blockflow/internal/service"
)

const (
	EventDiagramError = "diagram:error"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 64
)

// Message is the envelope for everything sent to clients.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ErrorData reports a rejected command back to its sender.
type ErrorData struct {
	Op    string `json:"op"`
	Error string `json:"error"`
}

// Hub pushes diagram events to websocket clients and applies the
// commands they send. It is the store's EventEmitter.
type Hub struct {
	upgrader   websocket.Upgrader
	dispatcher *Dispatcher
	snapshot   func() any

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]struct{}),
	}
}

// Bind attaches the store commands are applied to. The store must already
// emit through h.
func (h *Hub) Bind(store *service.DiagramStore, blockIDs service.IDGenerator, approver Approver) {
	h.dispatcher = NewDispatcher(store, blockIDs, approver)
	h.snapshot = func() any { return store.Snapshot() }
}

// Emit broadcasts an event to every connected client. Slow clients drop
// messages instead of blocking the store.
func (h *Hub) Emit(_ context.Context, event string, data any) {
	msg, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		log.Printf("[Live] marshal %s: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			log.Printf("[Live] client %s too slow, dropping %s", c.conn.RemoteAddr(), event)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler serves the websocket endpoint at /ws.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleWebSocket)
	return mux
}

// HandleWebSocket upgrades the request and serves the client until it leaves.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Live] upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Printf("[Live] client connected: %s", conn.RemoteAddr())

	go h.writer(c)

	// Clients drop states whose version is older than one already seen.
	if h.snapshot != nil {
		h.sendTo(c, service.EventDiagramChanged, h.snapshot())
	}

	h.reader(c)
}

func (h *Hub) reader(c *client) {
	defer h.remove(c)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Live] read: %v", err)
			}
			return
		}
		if h.dispatcher == nil {
			h.sendTo(c, EventDiagramError, ErrorData{Op: cmd.Op, Error: "hub is not bound to a diagram"})
			continue
		}
		if err := h.dispatcher.Dispatch(cmd); err != nil {
			h.sendTo(c, EventDiagramError, ErrorData{Op: cmd.Op, Error: err.Error()})
		}
	}
}

func (h *Hub) writer(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[Live] write: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) sendTo(c *client, event string, data any) {
	msg, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		log.Printf("[Live] marshal %s: %v", event, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.closeOnce.Do(func() { c.conn.Close() })
	log.Printf("[Live] client disconnected: %s", c.conn.RemoteAddr())
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	for c := range clients {
		close(c.send)
	}
	h.mu.Unlock()
	for c := range clients {
		c.closeOnce.Do(func() { c.conn.Close() })
	}
}
