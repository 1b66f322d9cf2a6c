package usecase

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"hashchat/internal/domain/entity"
	"hashchat/internal/domain/repository"
	"hashchat/internal/infrastructure/events"
	"hashchat/internal/infrastructure/ratelimit"
	"hashchat/pkg/errors"
)

type ChatUseCase struct {
	conversationRepo repository.ConversationRepository
	hashtagRegistry  repository.HashtagRegistry
	userRepo         repository.UserRepository
	publisher        events.Publisher
	rateLimiter      *ratelimit.RateLimiter
	logger           *zap.Logger
}

func NewChatUseCase(
	conversationRepo repository.ConversationRepository,
	hashtagRegistry repository.HashtagRegistry,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		conversationRepo: conversationRepo,
		hashtagRegistry:  hashtagRegistry,
		userRepo:         userRepo,
		publisher:        publisher,
		rateLimiter:      rateLimiter,
		logger:           logger,
	}
}

type SendMessageInput struct {
	ReceiverID string
	Text       string
	Hashtags   []string
	Mentions   []string
}

// MessageEvent is the payload broadcast to the room after a send has been
// persisted. Mentions pass through unresolved.
type MessageEvent struct {
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       string    `json:"text"`
	Hashtags   []string  `json:"hashtags"`
	Mentions   []string  `json:"mentions"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SendMessage persists one message between sender and receiver: hashtags
// are upserted first, then the conversation is found or created, the entry
// appended, and new hashtag references merged into the conversation.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*MessageEvent, error) {
	if input.Text == "" || input.ReceiverID == "" {
		return nil, errors.Validation("Invalid message data", nil)
	}
	if input.ReceiverID == senderID {
		return nil, errors.Validation("Cannot send a message to yourself", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(senderID, "send_message")
	if !allowed {
		uc.logger.Warn("send rate limited",
			zap.String("user_id", senderID),
			zap.Duration("wait", waitTime))
		return nil, errors.TooManyRequests("You are sending messages too quickly. Please slow down")
	}

	refs := uc.processHashtags(ctx, input.Hashtags)

	conversation, err := uc.conversationRepo.FindOrCreate(ctx, senderID, input.ReceiverID)
	if err != nil {
		uc.logger.Error("find-or-create conversation failed",
			zap.String("sender_id", senderID),
			zap.String("receiver_id", input.ReceiverID),
			zap.Error(err))
		return nil, err
	}

	entry := entity.MessageEntry{
		SenderID:  senderID,
		Text:      input.Text,
		CreatedAt: time.Now().UTC(),
	}

	conversation, err = uc.conversationRepo.AppendMessage(ctx, conversation.ID, entry)
	if err != nil {
		uc.logger.Error("append message failed",
			zap.String("conversation_id", conversation.ID.Hex()),
			zap.Error(err))
		return nil, err
	}

	if len(refs) > 0 {
		if err := uc.conversationRepo.AddHashtagRefs(ctx, conversation.ID, refs); err != nil {
			// References are derivable from the registry; a failed merge
			// must not lose the already-appended message.
			uc.logger.Error("merge hashtag refs failed",
				zap.String("conversation_id", conversation.ID.Hex()),
				zap.Error(err))
		}
	}

	event := &MessageEvent{
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		Text:       input.Text,
		Hashtags:   input.Hashtags,
		Mentions:   input.Mentions,
		CreatedAt:  entry.CreatedAt,
	}

	if err := uc.publisher.MessageSent(ctx, event); err != nil {
		uc.logger.Warn("publish message event failed", zap.Error(err))
	}

	return event, nil
}

// processHashtags normalizes and upserts each supplied tag name, returning
// the registry references. Individual failures are logged and skipped so a
// bad tag never blocks the message itself.
func (uc *ChatUseCase) processHashtags(ctx context.Context, names []string) []primitive.ObjectID {
	var refs []primitive.ObjectID

	for _, name := range names {
		tagName := NormalizeTag(name)
		if tagName == "" {
			continue
		}

		hashtag, err := uc.hashtagRegistry.UpsertAndIncrement(ctx, tagName)
		if err != nil {
			uc.logger.Error("upsert hashtag failed",
				zap.String("tag", tagName),
				zap.Error(err))
			continue
		}
		refs = append(refs, hashtag.ID)
	}

	return refs
}

// GetConversation returns the discussions between userID and receiverID,
// empty when the pair has never exchanged a message.
func (uc *ChatUseCase) GetConversation(ctx context.Context, userID, receiverID string) ([]entity.MessageEntry, error) {
	if receiverID == "" {
		return nil, errors.Validation("Receiver ID is required", nil)
	}

	conversation, err := uc.conversationRepo.GetByParticipants(ctx, userID, receiverID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return []entity.MessageEntry{}, nil
		}
		return nil, err
	}

	return conversation.Discussions, nil
}

func (uc *ChatUseCase) ListUsers(ctx context.Context, userID string) ([]*entity.User, error) {
	return uc.userRepo.List(ctx, userID)
}

func (uc *ChatUseCase) SearchUsers(ctx context.Context, query, userID string) ([]*entity.User, error) {
	return uc.userRepo.Search(ctx, query, userID, 10)
}

// NormalizeTag applies the registry's name normalization: trimmed and
// lower-cased.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
