package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation holds the full message history between exactly two users.
// ParticipantA is always the lexicographically smaller identity so that a
// single document exists per unordered pair (enforced by a unique compound
// index on both fields).
type Conversation struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	ParticipantA string               `json:"participant_a" bson:"participantA"`
	ParticipantB string               `json:"participant_b" bson:"participantB"`
	Discussions  []MessageEntry       `json:"discussions" bson:"discussions"`
	HashtagRefs  []primitive.ObjectID `json:"hashtag_refs" bson:"hashTags"`
	CreatedAt    time.Time            `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updated_at" bson:"updatedAt"`
}

// MessageEntry is one chat message inside a conversation. Entries are
// append-only; their position in Discussions is the chronological order.
type MessageEntry struct {
	SenderID  string    `json:"sender_id" bson:"senderId"`
	Text      string    `json:"text" bson:"message"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}
