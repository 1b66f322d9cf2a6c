package repository

import (
	"context"

	"hashchat/internal/domain/entity"
)

// HashtagRegistry persists tag usage. UpsertAndIncrement must be atomic per
// name under concurrent increments from different conversations.
type HashtagRegistry interface {
	// UpsertAndIncrement creates the tag with count 1 or increments an
	// existing count, returning the stored record. The name is expected
	// to be normalized by the caller; implementations reject empty names.
	UpsertAndIncrement(ctx context.Context, name string) (*entity.Hashtag, error)

	// Search returns tags whose name contains query (case-insensitive;
	// all tags when query is empty), ordered by descending count, capped
	// at limit.
	Search(ctx context.Context, query string, limit int64) ([]*entity.Hashtag, error)
}
