package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"storyshare-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event types delivered to online users
const (
	EventNewFollower = "new_follower"
	EventPostLiked   = "post_liked"
	EventNewComment  = "new_comment"
)

// Event is a realtime message pushed to a connected user
type Event struct {
	Type      string             `json:"type"`
	Timestamp int64              `json:"timestamp,omitempty"`
	Actor     models.UserSummary `json:"actor"`
	PostID    string             `json:"post_id,omitempty"`
	CommentID string             `json:"comment_id,omitempty"`
}

// EventSink is the delivery surface services publish events to
type EventSink interface {
	IsOnline(userID string) bool
	SendToUser(userID string, event Event) error
}

// client wraps a WebSocket connection with a write lock. gorilla/websocket
// allows at most one concurrent writer per connection, and SendToUser can
// be called from many goroutines at once.
type client struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

func (c *client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// EventsHub manages WebSocket connections, one per user
type EventsHub struct {
	mu          sync.RWMutex
	connections map[string]*client
}

// NewEventsHub creates a new events hub
func NewEventsHub() *EventsHub {
	return &EventsHub{
		connections: make(map[string]*client),
	}
}

// Register registers a new WebSocket connection for a user, replacing
// any existing one
func (h *EventsHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.conn.Close()
	}
	h.connections[userID] = &client{conn: conn}

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a user's WebSocket connection
func (h *EventsHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.connections[userID]; ok {
		c.conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a user has a live connection
func (h *EventsHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// SendToUser delivers an event to a specific user
func (h *EventsHub) SendToUser(userID string, event Event) error {
	h.mu.RLock()
	c, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := c.write(data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send event: %w", err)
	}
	return nil
}
