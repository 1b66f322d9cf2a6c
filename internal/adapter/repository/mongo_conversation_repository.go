package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hashchat/internal/domain/entity"
	"hashchat/internal/domain/repository"
	"hashchat/pkg/errors"
)

type mongoConversationRepository struct {
	coll *mongo.Collection
}

// NewMongoConversationRepository wires the conversations collection and
// ensures the unique compound index over the canonical participant pair.
// That index is the final arbiter for concurrent first-use creates.
func NewMongoConversationRepository(db *mongo.Database) repository.ConversationRepository {
	coll := db.Collection("conversations")

	idx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "participantA", Value: 1},
			{Key: "participantB", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("participants_unique"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)

	return &mongoConversationRepository{coll: coll}
}

// canonicalPair orders two identities so the smaller is stored first.
func canonicalPair(userA, userB string) (string, string) {
	if userA < userB {
		return userA, userB
	}
	return userB, userA
}

func pairFilter(userA, userB string) bson.M {
	lo, hi := canonicalPair(userA, userB)
	return bson.M{"participantA": lo, "participantB": hi}
}

func (r *mongoConversationRepository) FindOrCreate(ctx context.Context, userA, userB string) (*entity.Conversation, error) {
	conversation, err := r.findByPair(ctx, userA, userB)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	lo, hi := canonicalPair(userA, userB)
	now := time.Now().UTC()
	fresh := &entity.Conversation{
		ID:           primitive.NewObjectID(),
		ParticipantA: lo,
		ParticipantB: hi,
		Discussions:  []entity.MessageEntry{},
		HashtagRefs:  []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = r.coll.InsertOne(ctx, fresh)
	if err == nil {
		return fresh, nil
	}

	// Lost the create race: the unique index rejected the insert, so the
	// winning document must exist now.
	if mongo.IsDuplicateKeyError(err) {
		return r.findByPair(ctx, userA, userB)
	}

	return nil, errors.Unavailable("Failed to create conversation", err)
}

func (r *mongoConversationRepository) findByPair(ctx context.Context, userA, userB string) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := r.coll.FindOne(ctx, pairFilter(userA, userB)).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Unavailable("Failed to query conversation", err)
	}
	return &conversation, nil
}

func (r *mongoConversationRepository) AppendMessage(ctx context.Context, id primitive.ObjectID, entry entity.MessageEntry) (*entity.Conversation, error) {
	update := bson.M{
		"$push": bson.M{"discussions": entry},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var conversation entity.Conversation
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Unavailable("Failed to append message", err)
	}

	return &conversation, nil
}

func (r *mongoConversationRepository) AddHashtagRefs(ctx context.Context, id primitive.ObjectID, refs []primitive.ObjectID) error {
	if len(refs) == 0 {
		return nil
	}

	update := bson.M{
		"$addToSet": bson.M{"hashTags": bson.M{"$each": refs}},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}

	_, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return errors.Unavailable("Failed to merge hashtag references", err)
	}
	return nil
}

func (r *mongoConversationRepository) GetByParticipants(ctx context.Context, userA, userB string) (*entity.Conversation, error) {
	return r.findByPair(ctx, userA, userB)
}
