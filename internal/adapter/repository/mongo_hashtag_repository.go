package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hashchat/internal/domain/entity"
	"hashchat/internal/domain/repository"
	"hashchat/pkg/errors"
)

type mongoHashtagRepository struct {
	coll *mongo.Collection
}

// NewMongoHashtagRepository wires the hashtags collection and ensures the
// unique index on the normalized name.
func NewMongoHashtagRepository(db *mongo.Database) repository.HashtagRegistry {
	coll := db.Collection("hashtags")

	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)

	return &mongoHashtagRepository{coll: coll}
}

func (r *mongoHashtagRepository) UpsertAndIncrement(ctx context.Context, name string) (*entity.Hashtag, error) {
	if name == "" {
		return nil, errors.Validation("Tag name is required", nil)
	}

	// Single findOneAndUpdate keeps create-or-increment atomic per name,
	// no read-then-write window.
	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$setOnInsert": bson.M{
			"name":      name,
			"createdAt": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var hashtag entity.Hashtag
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&hashtag)
	if err != nil {
		return nil, errors.Unavailable("Failed to upsert hashtag", err)
	}

	return &hashtag, nil
}

func (r *mongoHashtagRepository) Search(ctx context.Context, query string, limit int64) ([]*entity.Hashtag, error) {
	filter := bson.M{}
	if query != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "count", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Unavailable("Failed to search hashtags", err)
	}
	defer cursor.Close(ctx)

	var tags []*entity.Hashtag
	for cursor.Next(ctx) {
		var tag entity.Hashtag
		if err := cursor.Decode(&tag); err != nil {
			return nil, errors.Internal("Failed to decode hashtag", err)
		}
		tags = append(tags, &tag)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Unavailable("Failed to iterate hashtags", err)
	}

	return tags, nil
}
