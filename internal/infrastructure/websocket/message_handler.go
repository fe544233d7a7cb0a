package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// WebSocket message types
const (
	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
	MessageTypeJoinChatRoom  = "join_chat_room"
	MessageTypeLeaveChatRoom = "leave_chat_room"
	MessageTypeMarkChatRead  = "mark_chat_read"

	// Server -> client events
	MessageTypeNewMessage     = "new_message"
	MessageTypeUnreadCount    = "unread_count"
	MessageTypeDealCreated    = "deal_created"
	MessageTypeSessionChanged = "session_changed"
	MessageTypeError          = "error"
)

// WSMessage is the frame exchanged with clients.
type WSMessage struct {
	Type      string      `json:"type"`
	ChatID    string      `json:"chat_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// JoinAuthorizer decides whether a user may subscribe to a chat room.
type JoinAuthorizer func(ctx context.Context, userID, chatID string) bool

// ReadMarker marks a chat read for the user. Clients re-send mark_chat_read
// when they regain foreground visibility, so it must be idempotent.
type ReadMarker func(ctx context.Context, userID, chatID string) error

// SetJoinAuthorizer installs the room membership check. Wired at startup.
func (m *Manager) SetJoinAuthorizer(f JoinAuthorizer) {
	m.authorizeJoin = f
}

// SetReadMarker installs the mark-read hook. Wired at startup.
func (m *Manager) SetReadMarker(f ReadMarker) {
	m.markRead = f
}

// HandleClientMessage processes incoming WebSocket frames.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var wsMessage WSMessage

	if err := json.Unmarshal(messageBytes, &wsMessage); err != nil {
		log.Printf("WebSocket: Failed to unmarshal message from client %s: %v", client.UserID, err)
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		m.handlePing(client)

	case MessageTypeJoinChatRoom:
		m.handleJoinChatRoom(client, wsMessage)

	case MessageTypeLeaveChatRoom:
		m.handleLeaveChatRoom(client, wsMessage)

	case MessageTypeMarkChatRead:
		m.handleMarkChatRead(client, wsMessage)

	default:
		log.Printf("WebSocket: Unknown message type '%s' from client %s", wsMessage.Type, client.UserID)
		m.sendErrorToClient(client, "Unknown message type")
	}
}

func (m *Manager) handlePing(client *Client) {
	m.sendToClient(client, WSMessage{
		Type:      MessageTypePong,
		Data:      map[string]string{"status": "alive"},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (m *Manager) handleJoinChatRoom(client *Client, wsMessage WSMessage) {
	if wsMessage.ChatID == "" {
		m.sendErrorToClient(client, "Missing chat_id")
		return
	}

	if m.authorizeJoin != nil && !m.authorizeJoin(context.Background(), client.UserID, wsMessage.ChatID) {
		m.sendErrorToClient(client, "Not a participant in this chat")
		return
	}

	// One active room per connection: leaving a chat screen for another one
	// releases the old subscription first.
	if client.ActiveChatRoom != "" && client.ActiveChatRoom != wsMessage.ChatID {
		m.LeaveChatRoom(client.ActiveChatRoom, client.UserID)
	}

	m.JoinChatRoom(wsMessage.ChatID, client.UserID)
	client.ActiveChatRoom = wsMessage.ChatID

	log.Printf("WebSocket: Client %s joined chat room %s", client.UserID, wsMessage.ChatID)
}

func (m *Manager) handleLeaveChatRoom(client *Client, wsMessage WSMessage) {
	if wsMessage.ChatID == "" {
		m.sendErrorToClient(client, "Missing chat_id")
		return
	}

	m.LeaveChatRoom(wsMessage.ChatID, client.UserID)
	if client.ActiveChatRoom == wsMessage.ChatID {
		client.ActiveChatRoom = ""
	}

	log.Printf("WebSocket: Client %s left chat room %s", client.UserID, wsMessage.ChatID)
}

func (m *Manager) handleMarkChatRead(client *Client, wsMessage WSMessage) {
	if wsMessage.ChatID == "" {
		m.sendErrorToClient(client, "Missing chat_id")
		return
	}

	if m.markRead == nil {
		return
	}

	if err := m.markRead(context.Background(), client.UserID, wsMessage.ChatID); err != nil {
		log.Printf("WebSocket: Failed to mark chat %s read for %s: %v", wsMessage.ChatID, client.UserID, err)
	}
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: Failed to marshal message for client %s: %v", client.UserID, err)
		return
	}

	select {
	case client.Send <- payload:
	default:
		log.Printf("WebSocket: Dropping message for %s, send buffer full", client.UserID)
	}
}

func (m *Manager) sendErrorToClient(client *Client, errorMsg string) {
	m.sendToClient(client, WSMessage{
		Type:      MessageTypeError,
		Data:      map[string]string{"message": errorMsg},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
