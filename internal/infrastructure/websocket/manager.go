package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hashchat/internal/usecase"
)

// Client represents one live WebSocket connection. A user may hold several
// at once (multiple devices); ID is the per-connection handle.
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// ChatService is the persistence side of a send, satisfied by
// usecase.ChatUseCase.
type ChatService interface {
	SendMessage(ctx context.Context, senderID string, input usecase.SendMessageInput) (*usecase.MessageEvent, error)
}

// Manager is the session coordinator: it owns the presence table (clients),
// the room subscriptions and the typing tracker, and dispatches inbound
// events for every registered connection.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]map[string]*Client // userID -> connID -> client
	rooms   map[string]map[string]*Client // roomID -> connID -> client

	typing *TypingTracker
	chat   ChatService
	logger *zap.Logger
}

func NewManager(chat ChatService, logger *zap.Logger) *Manager {
	return &Manager{
		clients: make(map[string]map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		typing:  NewTypingTracker(),
		chat:    chat,
		logger:  logger,
	}
}

// Register records the connection under its identity and broadcasts a
// presence-online event to every connected client.
func (m *Manager) Register(client *Client) {
	m.mu.Lock()
	conns, ok := m.clients[client.UserID]
	if !ok {
		conns = make(map[string]*Client)
		m.clients[client.UserID] = conns
	}
	conns[client.ID] = client
	m.mu.Unlock()

	m.logger.Info("client registered",
		zap.String("user_id", client.UserID),
		zap.String("conn_id", client.ID))

	m.BroadcastAll(envelope(EventUserStatus, StatusData{
		UserID: client.UserID,
		Status: StatusOnline,
	}))
}

// Unregister drops the connection. When it was the identity's last one, all
// typing entries where the identity is the sender are cleared and a
// presence-offline event is broadcast exactly once.
func (m *Manager) Unregister(client *Client) {
	m.mu.Lock()
	conns, ok := m.clients[client.UserID]
	if !ok {
		m.mu.Unlock()
		return
	}
	if _, ok := conns[client.ID]; !ok {
		m.mu.Unlock()
		return
	}
	delete(conns, client.ID)
	close(client.Send)

	for _, members := range m.rooms {
		delete(members, client.ID)
	}

	last := len(conns) == 0
	if last {
		delete(m.clients, client.UserID)
	}
	m.mu.Unlock()

	m.logger.Info("client unregistered",
		zap.String("user_id", client.UserID),
		zap.String("conn_id", client.ID),
		zap.Bool("last_connection", last))

	if last {
		m.typing.ClearSender(client.UserID)
		m.BroadcastAll(envelope(EventUserStatus, StatusData{
			UserID: client.UserID,
			Status: StatusOffline,
		}))
	}
}

// JoinRoom subscribes the connection to the room's broadcast group.
func (m *Manager) JoinRoom(roomID string, client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, ok := m.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		m.rooms[roomID] = members
	}
	members[client.ID] = client
}

// Online reports whether the identity has at least one live connection.
func (m *Manager) Online(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID]) > 0
}

// BroadcastAll sends the payload to every connected client.
func (m *Manager) BroadcastAll(payload []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, conns := range m.clients {
		for _, client := range conns {
			m.trySend(client, payload)
		}
	}
}

// BroadcastToRoom sends the payload to every connection subscribed to the
// room, the sender's included.
func (m *Manager) BroadcastToRoom(roomID string, payload []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, client := range m.rooms[roomID] {
		m.trySend(client, payload)
	}
}

// trySend drops the payload when the connection's send buffer is full; a
// slow consumer must not stall broadcasts for everyone else.
func (m *Manager) trySend(client *Client, payload []byte) {
	select {
	case client.Send <- payload:
	default:
		m.logger.Warn("send buffer full, dropping event",
			zap.String("user_id", client.UserID),
			zap.String("conn_id", client.ID))
	}
}

// ReadPump reads inbound events from the connection and dispatches them.
// Unregister runs on every exit path so presence and typing cleanup happen
// regardless of how the connection died.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister(c)
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Warn("read error",
					zap.String("user_id", c.UserID),
					zap.Error(err))
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump drains the send channel onto the wire.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
