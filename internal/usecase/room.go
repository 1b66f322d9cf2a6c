package usecase

import (
	"strings"

	"hashchat/pkg/errors"
)

// roomSeparator joins the two participant identities into a room id.
// Identities come from the auth layer (JWT subjects, UUIDs, ObjectIDs) and
// never contain an underscore, which keeps the derivation injective.
const roomSeparator = "_"

// RoomID derives the canonical room identifier for two user identities.
// The smaller identity always comes first, so both participants compute
// the same id regardless of who initiates.
func RoomID(userA, userB string) string {
	if userA < userB {
		return userA + roomSeparator + userB
	}
	return userB + roomSeparator + userA
}

// ParseRoomID splits a room identifier back into its two participant
// identities.
func ParseRoomID(roomID string) (string, string, error) {
	parts := strings.Split(roomID, roomSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Validation("Invalid room id", nil)
	}
	return parts[0], parts[1], nil
}
