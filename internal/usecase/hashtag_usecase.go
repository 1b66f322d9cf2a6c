package usecase

import (
	"context"

	"hashchat/internal/domain/entity"
	"hashchat/internal/domain/repository"
	"hashchat/pkg/errors"
)

const tagSearchLimit = 10

type HashtagUseCase struct {
	hashtagRegistry repository.HashtagRegistry
}

func NewHashtagUseCase(hashtagRegistry repository.HashtagRegistry) *HashtagUseCase {
	return &HashtagUseCase{hashtagRegistry: hashtagRegistry}
}

// CreateTag upserts the named tag, creating it with count 1 or incrementing
// an existing count.
func (uc *HashtagUseCase) CreateTag(ctx context.Context, name string) (*entity.Hashtag, error) {
	tagName := NormalizeTag(name)
	if tagName == "" {
		return nil, errors.Validation("Tag name is required", nil)
	}

	return uc.hashtagRegistry.UpsertAndIncrement(ctx, tagName)
}

// SearchTags returns suggestion candidates for the query, most used first.
func (uc *HashtagUseCase) SearchTags(ctx context.Context, query string) ([]*entity.Hashtag, error) {
	return uc.hashtagRegistry.Search(ctx, query, tagSearchLimit)
}
