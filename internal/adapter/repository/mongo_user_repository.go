package repository

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hashchat/internal/domain/entity"
	"hashchat/internal/domain/repository"
	"hashchat/pkg/errors"
)

type mongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{coll: db.Collection("users")}
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Unavailable("Failed to get user", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) List(ctx context.Context, excludeID string) ([]*entity.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$ne": excludeID}})
	if err != nil {
		return nil, errors.Unavailable("Failed to list users", err)
	}
	return decodeUsers(ctx, cursor)
}

func (r *mongoUserRepository) Search(ctx context.Context, query, excludeID string, limit int64) ([]*entity.User, error) {
	filter := bson.M{"_id": bson.M{"$ne": excludeID}}
	if query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"username": pattern},
			bson.M{"email": pattern},
		}
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, errors.Unavailable("Failed to search users", err)
	}
	return decodeUsers(ctx, cursor)
}

func decodeUsers(ctx context.Context, cursor *mongo.Cursor) ([]*entity.User, error) {
	defer cursor.Close(ctx)

	var users []*entity.User
	for cursor.Next(ctx) {
		var user entity.User
		if err := cursor.Decode(&user); err != nil {
			return nil, errors.Internal("Failed to decode user", err)
		}
		users = append(users, &user)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Unavailable("Failed to iterate users", err)
	}
	return users, nil
}
