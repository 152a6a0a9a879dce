package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types pushed to dashboard pages.
const (
	MsgTypeInit     = "init"            // current snapshot on connect
	MsgTypeSnapshot = "snapshot_update" // periodic refresh result
	MsgTypeReload   = "reload"          // session was invalidated, refresh the page
	MsgTypeError    = "error"
)

// Message is the wire envelope for hub pushes.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Client one connected dashboard page.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans dashboard updates out to connected pages.
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	// Called on connect to seed the page with the latest snapshot.
	getSnapshot func() interface{}
}

// NewHub creates the hub; call Run in a goroutine.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetSnapshotProvider installs the init-data callback.
func (h *Hub) SetSnapshotProvider(provider func() interface{}) {
	h.getSnapshot = provider
}

// Run processes register/unregister/broadcast events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("dashboard client connected", zap.Int("total_clients", h.ClientCount()))
			h.sendInit(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("dashboard client disconnected", zap.Int("total_clients", h.ClientCount()))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer, drop the connection
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) sendInit(client *Client) {
	if h.getSnapshot == nil {
		return
	}
	snapshot := h.getSnapshot()
	if snapshot == nil {
		return
	}

	data, err := json.Marshal(Message{Type: MsgTypeInit, Data: snapshot})
	if err != nil {
		h.logger.Error("failed to marshal init snapshot", zap.Error(err))
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.Warn("dropped init snapshot, client buffer full")
	}
}

// BroadcastMessage pushes a typed message to every connected page.
func (h *Hub) BroadcastMessage(msgType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", zap.Error(err))
		return
	}
	h.broadcast <- payload
}

// BroadcastSnapshot pushes a refreshed dashboard snapshot.
func (h *Hub) BroadcastSnapshot(snapshot interface{}) {
	h.BroadcastMessage(MsgTypeSnapshot, snapshot)
}

// BroadcastReload tells every page its session is gone and it must refresh.
func (h *Hub) BroadcastReload() {
	h.BroadcastMessage(MsgTypeReload, nil)
}

// ClientCount reports connected pages.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register attaches the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// Unregister detaches the client.
func (c *Client) Unregister() {
	c.hub.unregister <- c
}

// ReadPump drains inbound frames to keep the connection alive; the dashboard
// protocol is push-only.
func (c *Client) ReadPump() {
	defer func() {
		c.Unregister()
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// WritePump forwards queued messages until the send channel closes.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
