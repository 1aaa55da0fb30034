package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/anjiri1684/trivia_api/models"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventQuestionCreated = "question_created"
	EventQuestionDeleted = "question_deleted"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type Client struct {
	ID   uuid.UUID
	Conn Conn

	// closed when the hub's writer for this client exits; nil if unused
	stopped chan struct{}
}

func NewClient(conn Conn) *Client {
	return &Client{ID: uuid.New(), Conn: conn, stopped: make(chan struct{})}
}

type Event struct {
	Event      string                    `json:"event"`
	QuestionID int                       `json:"question_id"`
	Question   *models.FormattedQuestion `json:"question,omitempty"`
}

const (
	writeWait        = 10 * time.Second
	clientBufferSize = 16
	broadcastBuffer  = 64
)

type subscriber struct {
	conn Conn
	send chan Event
}

// Hub fans question events out to every connected client. Each client has
// its own buffered queue and writer goroutine; a client whose queue fills
// up is dropped so one slow reader cannot hold up the others.
type Hub struct {
	log        *zap.Logger
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}

	clientsMu sync.RWMutex
	clients   map[uuid.UUID]*subscriber
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:        log,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, broadcastBuffer),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID]*subscriber),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.clientsMu.Lock()
			for id, sub := range h.clients {
				h.drop(id, sub)
			}
			h.clientsMu.Unlock()
			h.log.Info("Question feed hub stopped")
			return
		case client := <-h.register:
			sub := &subscriber{conn: client.Conn, send: make(chan Event, clientBufferSize)}
			h.clientsMu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				h.drop(client.ID, old)
			}
			h.clients[client.ID] = sub
			h.clientsMu.Unlock()
			go h.write(client, sub)
			h.log.Debug("Feed client registered", zap.Stringer("client_id", client.ID))
		case client := <-h.unregister:
			h.clientsMu.Lock()
			if sub, ok := h.clients[client.ID]; ok && sub.conn == client.Conn {
				h.drop(client.ID, sub)
			}
			h.clientsMu.Unlock()
			h.log.Debug("Feed client unregistered", zap.Stringer("client_id", client.ID))
		case event := <-h.broadcast:
			h.send(event)
		}
	}
}

// drop must be called with clientsMu held.
func (h *Hub) drop(id uuid.UUID, sub *subscriber) {
	delete(h.clients, id)
	close(sub.send)
	// unblocks a writer stuck in WriteJSON
	sub.conn.Close()
}

func (h *Hub) send(event Event) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for id, sub := range h.clients {
		select {
		case sub.send <- event:
		default:
			h.log.Warn("Dropping feed client with a full queue", zap.Stringer("client_id", id))
			h.drop(id, sub)
		}
	}
}

func (h *Hub) write(client *Client, sub *subscriber) {
	if client.stopped != nil {
		defer close(client.stopped)
	}
	for event := range sub.send {
		if err := client.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			h.log.Debug("Feed write deadline failed", zap.Stringer("client_id", client.ID), zap.Error(err))
		}
		if err := client.Conn.WriteJSON(event); err != nil {
			h.log.Warn("Dropping feed client after failed write",
				zap.Stringer("client_id", client.ID), zap.Error(err))
			h.Unregister(client)
			return
		}
	}
}

// Register reports false when the hub has already stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues an event for delivery without blocking. Events are
// discarded when the hub has stopped or its queue is full.
func (h *Hub) Publish(event Event) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	default:
		h.log.Warn("Question feed queue full, dropping event",
			zap.String("event", event.Event), zap.Int("question_id", event.QuestionID))
	}
}

func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Serve holds a feed connection open until the peer goes away.
func (h *Hub) Serve(c *websocketcontrib.Conn) {
	client := NewClient(c)
	if !h.Register(client) {
		c.Close()
		return
	}
	defer func() {
		h.Unregister(client)
		// the conn is recycled once Serve returns, so wait out the writer
		<-client.stopped
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				h.log.Debug("Feed read error", zap.Stringer("client_id", client.ID), zap.Error(err))
			}
			return
		}
	}
}
