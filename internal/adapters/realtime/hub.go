package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/pkg/logger"
	"github.com/okian/alumnet/pkg/metrics"
)

// Event names. Clients send the first three; the hub emits the rest.
const (
	EventSendMessage         = "sendMessage"
	EventTyping              = "typing"
	EventStopTyping          = "stopTyping"
	EventReceiveMessage      = "receiveMessage"
	EventUserTyping          = "userTyping"
	EventUserStoppedTyping   = "userStoppedTyping"
	EventReceiveNotification = "receiveNotification"
	EventOnlineUsers         = "onlineUsers"
	EventError               = "error"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 32
)

// Message is the wire envelope in both directions.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Chat is the payload of sendMessage and receiveMessage.
type Chat struct {
	To     string    `json:"to,omitempty"`
	From   string    `json:"from,omitempty"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt,omitempty"`
}

// Typing is the payload of the typing events.
type Typing struct {
	To   string `json:"to,omitempty"`
	From string `json:"from,omitempty"`
}

func newMessage(event string, v any) Message {
	data, _ := json.Marshal(v)
	return Message{Event: event, Data: data}
}

// Hub upgrades HTTP requests to websockets and routes messages between users.
// It also acts as a notification sink for users who are online.
type Hub struct {
	registry Registry
	upgrader websocket.Upgrader
	logger   logger.Logger
	now      func() time.Time
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithRegistry replaces the in-memory presence registry.
func WithRegistry(r Registry) HubOption {
	return func(h *Hub) {
		if r != nil {
			h.registry = r
		}
	}
}

// WithAllowedOrigins restricts the Origin header of upgrade requests.
// An empty list accepts any origin.
func WithAllowedOrigins(origins []string) HubOption {
	return func(h *Hub) {
		if len(origins) == 0 {
			return
		}
		allowed := make(map[string]bool, len(origins))
		for _, o := range origins {
			allowed[strings.ToLower(o)] = true
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[strings.ToLower(origin)]
		}
	}
}

// NewHub returns a Hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		registry: NewMemoryRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.Get().Named("realtime"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Online returns the ids of connected users.
func (h *Hub) Online() []string { return h.registry.Online() }

// ServeHTTP handles GET /ws?userId=<id>. The X-User-ID header is accepted
// too for non-browser clients.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = r.Header.Get("X-User-ID")
	}
	if userID == "" {
		http.Error(w, "missing userId", http.StatusUnauthorized)
		return
	}
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	c := &client{ws: ws, send: make(chan Message, sendBuffer), done: make(chan struct{})}
	if h.registry.Join(userID, c) {
		h.broadcastOnline()
	} else {
		c.Send(newMessage(EventOnlineUsers, h.registry.Online()))
	}
	go c.writePump()

	h.readPump(r.Context(), userID, c)

	c.close()
	if h.registry.Leave(userID, c) {
		h.broadcastOnline()
	}
}

func (h *Hub) readPump(ctx context.Context, userID string, c *client) {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var m Message
		if err := c.ws.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug(ctx, "websocket closed", logger.String("user_id", userID), logger.Error(err))
			}
			return
		}
		metrics.RecordRealtimeMessage(m.Event)
		h.route(userID, c, m)
	}
}

func (h *Hub) route(from string, c *client, m Message) {
	switch m.Event {
	case EventSendMessage:
		var chat Chat
		if err := json.Unmarshal(m.Data, &chat); err != nil || chat.To == "" || strings.TrimSpace(chat.Text) == "" {
			c.Send(newMessage(EventError, map[string]string{"error": "sendMessage needs to and text"}))
			return
		}
		h.sendTo(chat.To, newMessage(EventReceiveMessage, Chat{From: from, Text: chat.Text, SentAt: h.now().UTC()}))
	case EventTyping, EventStopTyping:
		var t Typing
		if err := json.Unmarshal(m.Data, &t); err != nil || t.To == "" {
			return
		}
		event := EventUserTyping
		if m.Event == EventStopTyping {
			event = EventUserStoppedTyping
		}
		h.sendTo(t.To, newMessage(event, Typing{From: from}))
	default:
		c.Send(newMessage(EventError, map[string]string{"error": "unknown event " + m.Event}))
	}
}

// sendTo delivers m to every connection of userID and reports how many got it.
func (h *Hub) sendTo(userID string, m Message) int {
	n := 0
	for _, c := range h.registry.Conns(userID) {
		if c.Send(m) {
			n++
		}
	}
	return n
}

func (h *Hub) broadcastOnline() {
	online := h.registry.Online()
	metrics.UpdateOnlineUsers(len(online))
	m := newMessage(EventOnlineUsers, online)
	for _, id := range online {
		h.sendTo(id, m)
	}
}

// Name implements the worker sink contract.
func (h *Hub) Name() string { return "realtime" }

// Deliver pushes n to the recipient's open sockets. Offline users are skipped.
func (h *Hub) Deliver(_ context.Context, n model.Notification) error { //nolint:gocritic // sink contract
	h.sendTo(n.UserID, newMessage(EventReceiveNotification, n))
	return nil
}

// client is a websocket connection with a buffered outbound queue.
type client struct {
	ws   *websocket.Conn
	send chan Message
	done chan struct{}
}

// Send drops the message when the buffer is full or the client is closing.
func (c *client) Send(m Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- m:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case m := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(m); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
