package repository

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hashchat/internal/domain/entity"
	"hashchat/pkg/errors"
)

// Integration tests against a live MongoDB; skipped unless MONGO_TEST_URI
// is set, e.g. MONGO_TEST_URI=mongodb://localhost:27017 go test ./...
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("hashchat_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

func TestFindOrCreateCanonicalPair(t *testing.T) {
	db := testDatabase(t)
	repo := NewMongoConversationRepository(db)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.ParticipantA)
	assert.Equal(t, "bob", first.ParticipantB)

	second, err := repo.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "both orderings must resolve to the same document")

	count, err := db.Collection("conversations").CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFindOrCreateConcurrentFirstUse(t *testing.T) {
	db := testDatabase(t)
	repo := NewMongoConversationRepository(db)
	ctx := context.Background()

	const callers = 8
	ids := make([]primitive.ObjectID, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userA, userB := "alice", "bob"
			if i%2 == 1 {
				userA, userB = userB, userA
			}
			conversation, err := repo.FindOrCreate(ctx, userA, userB)
			if assert.NoError(t, err) {
				ids[i] = conversation.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}

	count, err := db.Collection("conversations").CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "the unique index must arbitrate the create race")
}

func TestAppendMessageConcurrent(t *testing.T) {
	db := testDatabase(t)
	repo := NewMongoConversationRepository(db)
	ctx := context.Background()

	conversation, err := repo.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)

	const appends = 20
	var wg sync.WaitGroup
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AppendMessage(ctx, conversation.ID, entity.MessageEntry{
				SenderID: "alice",
				Text:     "ping",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	updated, err := repo.GetByParticipants(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Len(t, updated.Discussions, appends, "no appends may be lost")
}

func TestAddHashtagRefsIdempotent(t *testing.T) {
	db := testDatabase(t)
	repo := NewMongoConversationRepository(db)
	ctx := context.Background()

	conversation, err := repo.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)

	ref := primitive.NewObjectID()
	require.NoError(t, repo.AddHashtagRefs(ctx, conversation.ID, []primitive.ObjectID{ref}))
	require.NoError(t, repo.AddHashtagRefs(ctx, conversation.ID, []primitive.ObjectID{ref}))

	updated, err := repo.GetByParticipants(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Len(t, updated.HashtagRefs, 1)
}

func TestGetByParticipantsNotFound(t *testing.T) {
	db := testDatabase(t)
	repo := NewMongoConversationRepository(db)

	_, err := repo.GetByParticipants(context.Background(), "alice", "stranger")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestHashtagUpsertAndIncrement(t *testing.T) {
	db := testDatabase(t)
	repo := NewMongoHashtagRepository(db)
	ctx := context.Background()

	first, err := repo.UpsertAndIncrement(ctx, "go")
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.Count)

	second, err := repo.UpsertAndIncrement(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.EqualValues(t, 2, second.Count)

	count, err := db.Collection("hashtags").CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestHashtagUpsertConcurrent(t *testing.T) {
	db := testDatabase(t)
	repo := NewMongoHashtagRepository(db)
	ctx := context.Background()

	const increments = 16
	var wg sync.WaitGroup
	for i := 0; i < increments; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpsertAndIncrement(ctx, "news")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tags, err := repo.Search(ctx, "news", 10)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.EqualValues(t, increments, tags[0].Count)
}

func TestHashtagSearchOrdersByCount(t *testing.T) {
	db := testDatabase(t)
	repo := NewMongoHashtagRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.UpsertAndIncrement(ctx, "golang")
		require.NoError(t, err)
	}
	_, err := repo.UpsertAndIncrement(ctx, "gopher")
	require.NoError(t, err)
	_, err = repo.UpsertAndIncrement(ctx, "rust")
	require.NoError(t, err)

	tags, err := repo.Search(ctx, "go", 10)
	require.NoError(t, err)
	require.Len(t, tags, 2, "substring match must exclude rust")
	assert.Equal(t, "golang", tags[0].Name)
	assert.Equal(t, "gopher", tags[1].Name)

	limited, err := repo.Search(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestUserRepositorySearch(t *testing.T) {
	db := testDatabase(t)
	repo := NewMongoUserRepository(db)
	ctx := context.Background()

	users := []interface{}{
		entity.User{ID: "u1", Username: "alice", Email: "alice@example.com"},
		entity.User{ID: "u2", Username: "bob", Email: "bob@example.com"},
		entity.User{ID: "u3", Username: "alicia", Email: "alicia@example.com"},
	}
	_, err := db.Collection("users").InsertMany(ctx, users)
	require.NoError(t, err)

	all, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := repo.Search(ctx, "alic", "u1", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alicia", found[0].Username)
}
