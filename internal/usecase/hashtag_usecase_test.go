package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashchat/pkg/errors"
)

func TestCreateTagNormalizes(t *testing.T) {
	registry := newFakeHashtagRegistry()
	uc := NewHashtagUseCase(registry)

	tag, err := uc.CreateTag(context.Background(), "  GoLang ")
	require.NoError(t, err)
	assert.Equal(t, "golang", tag.Name)
	assert.Equal(t, int64(1), tag.Count)

	tag, err = uc.CreateTag(context.Background(), "GOLANG")
	require.NoError(t, err)
	assert.Equal(t, "golang", tag.Name)
	assert.Equal(t, int64(2), tag.Count)

	assert.Len(t, registry.tags, 1)
}

func TestCreateTagRejectsBlank(t *testing.T) {
	uc := NewHashtagUseCase(newFakeHashtagRegistry())

	for _, name := range []string{"", "   ", "\t"} {
		_, err := uc.CreateTag(context.Background(), name)
		require.Error(t, err, "name %q", name)
		assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
	}
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "go", NormalizeTag("Go "))
	assert.Equal(t, "go", NormalizeTag(" go"))
	assert.Equal(t, "", NormalizeTag("   "))
}
