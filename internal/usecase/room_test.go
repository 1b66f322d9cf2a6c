package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomIDCanonical(t *testing.T) {
	assert.Equal(t, RoomID("alice", "bob"), RoomID("bob", "alice"))
	assert.Equal(t, "alice_bob", RoomID("bob", "alice"))
	assert.Equal(t, "alice_bob", RoomID("alice", "bob"))
}

func TestRoomIDDistinctPairsDiffer(t *testing.T) {
	assert.NotEqual(t, RoomID("alice", "bob"), RoomID("alice", "carol"))
	assert.NotEqual(t, RoomID("alice", "bob"), RoomID("bob", "carol"))
}

func TestParseRoomID(t *testing.T) {
	userA, userB, err := ParseRoomID(RoomID("bob", "alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", userA)
	assert.Equal(t, "bob", userB)
}

func TestParseRoomIDInvalid(t *testing.T) {
	for _, roomID := range []string{"", "alice", "_bob", "alice_", "a_b_c"} {
		_, _, err := ParseRoomID(roomID)
		assert.Error(t, err, "room id %q", roomID)
	}
}
