package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hashchat/internal/domain/entity"
)

// ConversationRepository is the durable store for two-party conversations.
// Implementations must guarantee at most one conversation per unordered
// participant pair and must serialize concurrent appends to the same
// conversation through an atomic append primitive.
type ConversationRepository interface {
	// FindOrCreate returns the conversation for the unordered pair,
	// creating an empty one if none exists. Safe under concurrent first
	// use by both participants: a losing create retries as a find.
	FindOrCreate(ctx context.Context, userA, userB string) (*entity.Conversation, error)

	// AppendMessage atomically appends the entry and returns the updated
	// conversation. The stored order matches a valid linearization of
	// concurrent append calls.
	AppendMessage(ctx context.Context, id primitive.ObjectID, entry entity.MessageEntry) (*entity.Conversation, error)

	// AddHashtagRefs merges refs into the conversation's reference set.
	// Idempotent: refs already present are skipped.
	AddHashtagRefs(ctx context.Context, id primitive.ObjectID, refs []primitive.ObjectID) error

	// GetByParticipants returns the conversation for the unordered pair,
	// or a NOT_FOUND error if none exists.
	GetByParticipants(ctx context.Context, userA, userB string) (*entity.Conversation, error)
}
