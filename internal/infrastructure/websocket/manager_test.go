package websocket

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newTestClient(userID string) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Send:   make(chan []byte, 32),
	}
}

// receivedEvents drains everything currently buffered on the client.
func receivedEvents(t *testing.T, client *Client) []testEvent {
	t.Helper()

	var out []testEvent
	for {
		select {
		case payload, ok := <-client.Send:
			if !ok {
				return out
			}
			var event testEvent
			require.NoError(t, json.Unmarshal(payload, &event))
			out = append(out, event)
		default:
			return out
		}
	}
}

func eventsOfType(events []testEvent, eventType string) []testEvent {
	var out []testEvent
	for _, event := range events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func decodeStatus(t *testing.T, event testEvent) StatusData {
	t.Helper()
	var status StatusData
	require.NoError(t, json.Unmarshal(event.Data, &status))
	return status
}

func TestRegisterBroadcastsOnline(t *testing.T) {
	m := NewManager(nil, zap.NewNop())

	observer := newTestClient("bob")
	m.Register(observer)
	receivedEvents(t, observer)

	alice := newTestClient("alice")
	m.Register(alice)

	assert.True(t, m.Online("alice"))

	statuses := eventsOfType(receivedEvents(t, observer), EventUserStatus)
	require.Len(t, statuses, 1)
	status := decodeStatus(t, statuses[0])
	assert.Equal(t, "alice", status.UserID)
	assert.Equal(t, StatusOnline, status.Status)
}

func TestUnregisterLastConnectionBroadcastsOfflineOnce(t *testing.T) {
	m := NewManager(nil, zap.NewNop())

	observer := newTestClient("bob")
	m.Register(observer)

	first := newTestClient("alice")
	second := newTestClient("alice")
	m.Register(first)
	m.Register(second)
	receivedEvents(t, observer)

	// Two devices: dropping one keeps the identity online.
	m.Unregister(first)
	assert.True(t, m.Online("alice"))
	assert.Empty(t, eventsOfType(receivedEvents(t, observer), EventUserStatus))

	m.Unregister(second)
	assert.False(t, m.Online("alice"))

	statuses := eventsOfType(receivedEvents(t, observer), EventUserStatus)
	require.Len(t, statuses, 1)
	status := decodeStatus(t, statuses[0])
	assert.Equal(t, "alice", status.UserID)
	assert.Equal(t, StatusOffline, status.Status)

	// A second unregister of the same connection is a no-op.
	m.Unregister(second)
	assert.Empty(t, receivedEvents(t, observer))
}

func TestUnregisterClearsTypingState(t *testing.T) {
	m := NewManager(nil, zap.NewNop())

	alice := newTestClient("alice")
	m.Register(alice)

	m.typing.Set("alice", "bob")
	m.typing.Set("alice", "carol")
	m.typing.Set("bob", "alice")

	m.Unregister(alice)

	assert.False(t, m.typing.IsTyping("alice", "bob"))
	assert.False(t, m.typing.IsTyping("alice", "carol"))
	assert.True(t, m.typing.IsTyping("bob", "alice"), "entries where alice is the receiver stay")
}

func TestBroadcastToRoomReachesOnlyMembers(t *testing.T) {
	m := NewManager(nil, zap.NewNop())

	alice := newTestClient("alice")
	bob := newTestClient("bob")
	carol := newTestClient("carol")
	for _, client := range []*Client{alice, bob, carol} {
		m.Register(client)
		receivedEvents(t, client)
	}

	m.JoinRoom("alice_bob", alice)
	m.JoinRoom("alice_bob", bob)

	m.BroadcastToRoom("alice_bob", envelope(EventMessage, map[string]string{"text": "hi"}))

	assert.Len(t, eventsOfType(receivedEvents(t, alice), EventMessage), 1)
	assert.Len(t, eventsOfType(receivedEvents(t, bob), EventMessage), 1)
	assert.Empty(t, eventsOfType(receivedEvents(t, carol), EventMessage))
}

func TestTypingTracker(t *testing.T) {
	tracker := NewTypingTracker()

	tracker.Set("alice", "bob")
	assert.True(t, tracker.IsTyping("alice", "bob"))
	assert.False(t, tracker.IsTyping("bob", "alice"))

	tracker.Clear("alice", "bob")
	assert.False(t, tracker.IsTyping("alice", "bob"))

	// Clearing an already-cleared pair is a no-op.
	tracker.Clear("alice", "bob")
	assert.False(t, tracker.IsTyping("alice", "bob"))
}
