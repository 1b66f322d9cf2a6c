package repository

import (
	"context"

	"hashchat/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// List returns all users except excludeID.
	List(ctx context.Context, excludeID string) ([]*entity.User, error)

	// Search matches query against username and email (case-insensitive
	// substring), excluding excludeID, capped at limit.
	Search(ctx context.Context, query, excludeID string, limit int64) ([]*entity.User, error)
}
