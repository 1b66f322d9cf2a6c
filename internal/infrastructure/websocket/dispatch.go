package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"hashchat/internal/usecase"
	apperrors "hashchat/pkg/errors"
)

// Inbound event types.
const (
	EventJoinChatroom = "joinChatroom"
	EventSendMessage  = "sendMessage"
	EventTyping       = "typing"
)

// Outbound event types.
const (
	EventUserStatus   = "userStatus"   // presence change, broadcast to all
	EventRoomStatus   = "roomStatus"   // other participant's status, unicast on join
	EventMessage      = "message"      // persisted message, room broadcast
	EventTypingStatus = "typingStatus" // typing change, room broadcast
	EventMessageError = "messageError" // unicast to the failing sender
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// WSMessage is the wire envelope for outbound events.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type JoinRoomData struct {
	RoomID string `json:"roomId"`
}

type SendMessageData struct {
	Text       string   `json:"text"`
	ReceiverID string   `json:"receiverId"`
	Hashtags   []string `json:"hashtags"`
	Mentions   []string `json:"mentions"`
}

// TypingData carries the typing flag as a pointer so a missing or
// wrongly-typed field is distinguishable from false.
type TypingData struct {
	ReceiverID string `json:"receiverId"`
	IsTyping   *bool  `json:"isTyping"`
}

type StatusData struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

type TypingStatusData struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

type ErrorData struct {
	Error string `json:"error"`
}

func envelope(eventType string, data interface{}) []byte {
	payload, err := json.Marshal(WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil
	}
	return payload
}

// HandleClientMessage routes one inbound event to its handler. Handler
// failures never escape: they are converted to a scoped messageError or
// silently dropped for best-effort events.
func (m *Manager) HandleClientMessage(client *Client, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		m.logger.Warn("malformed event",
			zap.String("user_id", client.UserID),
			zap.Error(err))
		m.sendError(client, "Invalid message format")
		return
	}

	switch msg.Type {
	case EventJoinChatroom:
		m.handleJoinRoom(client, msg.Data)
	case EventSendMessage:
		m.handleSendMessage(client, msg.Data)
	case EventTyping:
		m.handleTyping(client, msg.Data)
	default:
		m.logger.Warn("unknown event type",
			zap.String("user_id", client.UserID),
			zap.String("type", msg.Type))
		m.sendError(client, "Unknown message type")
	}
}

// handleJoinRoom subscribes the connection to the room and replies, to the
// joining connection only, with the other participant's presence.
func (m *Manager) handleJoinRoom(client *Client, data json.RawMessage) {
	var join JoinRoomData
	if err := json.Unmarshal(data, &join); err != nil {
		m.sendError(client, "Invalid join data")
		return
	}

	userA, userB, err := usecase.ParseRoomID(join.RoomID)
	if err != nil {
		m.sendError(client, "Invalid room id")
		return
	}

	m.JoinRoom(join.RoomID, client)

	otherUserID := userA
	if client.UserID == userA {
		otherUserID = userB
	}

	status := StatusOffline
	if m.Online(otherUserID) {
		status = StatusOnline
	}

	m.trySend(client, envelope(EventRoomStatus, StatusData{
		UserID: otherUserID,
		Status: status,
	}))
}

// handleSendMessage validates and persists the message, broadcasts it to
// the pair's room and clears the sender's typing state, which a send
// supersedes.
func (m *Manager) handleSendMessage(client *Client, data json.RawMessage) {
	var send SendMessageData
	if err := json.Unmarshal(data, &send); err != nil {
		m.sendError(client, "Invalid message data")
		return
	}

	event, err := m.chat.SendMessage(context.Background(), client.UserID, usecase.SendMessageInput{
		ReceiverID: send.ReceiverID,
		Text:       send.Text,
		Hashtags:   send.Hashtags,
		Mentions:   send.Mentions,
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			m.sendError(client, appErr.Message)
		} else {
			m.sendError(client, "Failed to send message")
		}
	} else {
		roomID := usecase.RoomID(client.UserID, send.ReceiverID)
		m.BroadcastToRoom(roomID, envelope(EventMessage, event))
	}

	if send.ReceiverID != "" && send.ReceiverID != client.UserID {
		m.clearTyping(client.UserID, send.ReceiverID)
	}
}

// handleTyping is best-effort: invalid payloads are ignored without an
// error event.
func (m *Manager) handleTyping(client *Client, data json.RawMessage) {
	var typing TypingData
	if err := json.Unmarshal(data, &typing); err != nil {
		return
	}
	if typing.ReceiverID == "" || typing.IsTyping == nil {
		return
	}

	if *typing.IsTyping {
		m.typing.Set(client.UserID, typing.ReceiverID)
	} else {
		m.typing.Clear(client.UserID, typing.ReceiverID)
	}

	roomID := usecase.RoomID(client.UserID, typing.ReceiverID)
	m.BroadcastToRoom(roomID, envelope(EventTypingStatus, TypingStatusData{
		UserID:   client.UserID,
		IsTyping: *typing.IsTyping,
	}))
}

// clearTyping drops the pair's typing entry and tells the room composing
// stopped.
func (m *Manager) clearTyping(senderID, receiverID string) {
	m.typing.Clear(senderID, receiverID)

	roomID := usecase.RoomID(senderID, receiverID)
	m.BroadcastToRoom(roomID, envelope(EventTypingStatus, TypingStatusData{
		UserID:   senderID,
		IsTyping: false,
	}))
}

func (m *Manager) sendError(client *Client, message string) {
	m.trySend(client, envelope(EventMessageError, ErrorData{Error: message}))
}
