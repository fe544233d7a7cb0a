package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a WebSocket connection client
type Client struct {
	UserID         string
	Conn           *websocket.Conn
	Send           chan []byte
	ActiveChatRoom string
}

// roomMember is one client's subscription to a chat room. Each subscription
// tracks the event ids already delivered so replayed or duplicated bus events
// reach the client at most once.
type roomMember struct {
	client *Client
	seen   map[string]struct{}
}

// Manager manages all active WebSocket connections and chat room subscriptions.
// A room subscription is owned by exactly one client and released exactly once,
// either by an explicit leave or by the client unregistering.
type Manager struct {
	clients       map[string]*Client
	rooms         map[string]map[string]*roomMember
	Register      chan *Client
	Unregister    chan *Client
	authorizeJoin JoinAuthorizer
	markRead      ReadMarker
	mutex         sync.RWMutex
}

// NewManager creates a new WebSocket connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*roomMember),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.UserID]; ok {
					delete(m.clients, client.UserID)
					close(client.Send)
				}
				m.mutex.Unlock()
				if client.ActiveChatRoom != "" {
					m.LeaveChatRoom(client.ActiveChatRoom, client.UserID)
					client.ActiveChatRoom = ""
				}
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SendToUser sends a message to a specific user. The read lock is held
// through the send so an unregister cannot close the channel mid-delivery.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[userID]
	if !ok {
		return
	}

	select {
	case client.Send <- message:
	default:
		log.Printf("SendToUser: Dropping message for %s, send buffer full", userID)
	}
}

// JoinChatRoom subscribes the user's connection to a chat room.
func (m *Manager) JoinChatRoom(chatID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[userID]
	if !ok {
		return
	}

	room, ok := m.rooms[chatID]
	if !ok {
		room = make(map[string]*roomMember)
		m.rooms[chatID] = room
	}

	if _, ok := room[userID]; !ok {
		room[userID] = &roomMember{
			client: client,
			seen:   make(map[string]struct{}),
		}
	}
}

// LeaveChatRoom releases the user's room subscription. Safe to call for a
// subscription already released; the release happens once.
func (m *Manager) LeaveChatRoom(chatID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, ok := m.rooms[chatID]
	if !ok {
		return
	}

	delete(room, userID)
	if len(room) == 0 {
		delete(m.rooms, chatID)
	}
}

// BroadcastToChatRoom delivers an event to every room member except
// excludeUserID. Members that already received eventID are skipped, so a
// member's rendered list ends up with each unique event exactly once no matter
// how often or in what order the bus replays it.
func (m *Manager) BroadcastToChatRoom(chatID, eventID string, message []byte, excludeUserID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, ok := m.rooms[chatID]
	if !ok {
		return
	}

	for userID, member := range room {
		if userID == excludeUserID {
			continue
		}

		if eventID != "" {
			if _, delivered := member.seen[eventID]; delivered {
				continue
			}
			member.seen[eventID] = struct{}{}
		}

		select {
		case member.client.Send <- message:
		default:
			log.Printf("BroadcastToChatRoom: Dropping event for %s in room %s, send buffer full", userID, chatID)
		}
	}
}

// RoomMemberIDs returns the user ids currently subscribed to the room.
func (m *Manager) RoomMemberIDs(chatID string) []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, ok := m.rooms[chatID]
	if !ok {
		return nil
	}

	ids := make([]string, 0, len(room))
	for userID := range room {
		ids = append(ids, userID)
	}
	return ids
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		err := c.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
	}
}
