package models

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/metrics"
)

// Hub fans activities out to the WebSocket clients subscribed to a project
// code. All map mutations happen on the Run goroutine.
type Hub struct {
	// Subscribers grouped by project code.
	projects map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan hubMessage
	done       chan struct{}

	// Guards projects for readers outside Run.
	mu  sync.RWMutex
	log *logger.Logger
}

// Client is one WebSocket connection watching a single project feed.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte

	ProjectCode string
	Email       string
}

// FeedMessage is the envelope pushed to subscribers.
type FeedMessage struct {
	Type     string    `json:"type"`
	Activity *Activity `json:"activity"`
}

var errHubStopped = errors.New("hub stopped")

type hubMessage struct {
	projectCode string
	payload     []byte
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size; clients only send control frames
	maxMessageSize = 512

	sendBuffer      = 256
	broadcastBuffer = 256
)

// NewHub creates a hub. Call Run before registering clients.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		projects:   make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan hubMessage, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// NewClient builds a client for conn subscribed to code.
func (h *Hub) NewClient(conn *websocket.Conn, code, email string) *Client {
	return &Client{
		Hub:         h,
		Conn:        conn,
		Send:        make(chan []byte, sendBuffer),
		ProjectCode: strings.TrimSpace(code),
		Email:       email,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every client's Send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for code, clients := range h.projects {
				for client := range clients {
					close(client.Send)
					metrics.WebSocketConnections.Dec()
				}
				delete(h.projects, code)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			clients, ok := h.projects[client.ProjectCode]
			if !ok {
				clients = make(map[*Client]struct{})
				h.projects[client.ProjectCode] = clients
			}
			clients[client] = struct{}{}
			h.mu.Unlock()
			metrics.WebSocketConnections.Inc()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.projects[msg.projectCode] {
				select {
				case client.Send <- msg.payload:
				default:
					// Slow consumer
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops client and closes its Send channel. Caller holds mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.projects[client.ProjectCode]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.projects, client.ProjectCode)
	}
	close(client.Send)
	metrics.WebSocketConnections.Dec()
}

// Register subscribes client. It blocks until Run accepts it or ctx ends.
func (h *Hub) Register(ctx context.Context, client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return errHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unregister removes client; safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastActivity pushes a to every subscriber of its project code. A full
// broadcast queue drops the message; polling stays the source of truth.
func (h *Hub) BroadcastActivity(a *Activity) {
	payload, err := json.Marshal(FeedMessage{Type: "activity", Activity: a})
	if err != nil {
		h.log.Error("Failed to encode activity for broadcast", "error", err, "activity_id", a.ID)
		return
	}
	select {
	case h.broadcast <- hubMessage{projectCode: a.ProjectCode, payload: payload}:
	default:
		h.log.Warn("Broadcast queue full, dropping activity", "activity_id", a.ID, "project_code", a.ProjectCode)
	}
}

// Subscribers reports how many clients watch code.
func (h *Hub) Subscribers(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.projects[code])
}

// ReadPump keeps the connection alive and detects disconnects. Inbound
// payloads are ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn("WebSocket closed unexpectedly", "error", err, "project_code", c.ProjectCode)
			}
			return
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
