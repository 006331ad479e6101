package dataloader

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/storage"
	"github.com/UkralStul/orion-graphql/internal/storage/inmemory"
)

// countingStore считает обращения к батч-методу пользователей
type countingStore struct {
	storage.Storage
	userBatches atomic.Int32
}

func (s *countingStore) UsersByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	s.userBatches.Add(1)
	return s.Storage.UsersByIDs(ctx, ids)
}

func newSeeded(t *testing.T) *countingStore {
	t.Helper()
	store := inmemory.New()
	require.NoError(t, store.LoadSeed())
	return &countingStore{Storage: store}
}

func TestLoaders_BatchesConcurrentLoads(t *testing.T) {
	store := newSeeded(t)
	loaders := New(store, 10*time.Millisecond)
	ctx := context.Background()

	var wg sync.WaitGroup
	users := make([]*domain.User, 3)
	for i, id := range []string{"1", "2", "3"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			u, err := loaders.User(ctx, id)
			assert.NoError(t, err)
			users[i] = u
		}(i, id)
	}
	wg.Wait()

	assert.Equal(t, int32(1), store.userBatches.Load())
	assert.Equal(t, "alice", users[0].Username)

	// Повторная загрузка берётся из кэша, после ClearAll - снова из хранилища
	_, err := loaders.User(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), store.userBatches.Load())
	loaders.ClearAll()
	_, err = loaders.User(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), store.userBatches.Load())
}

func TestLoaders_MissingIsNil(t *testing.T) {
	loaders := New(newSeeded(t), time.Millisecond)

	u, err := loaders.User(context.Background(), "404")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestLoaders_TagsSkipDangling(t *testing.T) {
	loaders := New(newSeeded(t), time.Millisecond)

	tags, err := loaders.Tags(context.Background(), []string{"1", "404", "2"})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "1", tags[0].ID)
	assert.Equal(t, "2", tags[1].ID)
}

func TestLoaders_Replies(t *testing.T) {
	store := newSeeded(t)
	loaders := New(store, time.Millisecond)
	ctx := context.Background()

	comment, err := store.GetComment(ctx, "1")
	require.NoError(t, err)
	reply, err := store.CreateComment(ctx, domain.CreateCommentInput{PostID: comment.PostID, AuthorID: "2", Content: "reply", ParentID: &comment.ID})
	require.NoError(t, err)

	replies, err := loaders.Replies(ctx, comment.ID)
	require.NoError(t, err)
	require.NotEmpty(t, replies)
	assert.Equal(t, reply.ID, replies[len(replies)-1].ID)
}

func TestExtension_FreshLoadersPerOperation(t *testing.T) {
	store := newSeeded(t)
	ext := Extension{Store: store, Wait: time.Millisecond}

	var seen []*Loaders
	op := func(ctx context.Context) graphql.ResponseHandler {
		l := For(ctx)
		seen = append(seen, l)
		_, err := l.User(ctx, "1")
		assert.NoError(t, err)
		return graphql.OneShot(&graphql.Response{})
	}
	// Две операции в одном контексте соединения.
	conn := context.Background()
	ext.InterceptOperation(conn, op)
	ext.InterceptOperation(conn, op)

	require.Len(t, seen, 2)
	require.NotNil(t, seen[0])
	assert.NotSame(t, seen[0], seen[1])
	assert.Equal(t, int32(2), store.userBatches.Load())
	assert.Nil(t, For(conn))
}

func TestLoaders_Renew(t *testing.T) {
	store := newSeeded(t)
	loaders := New(store, time.Millisecond)
	ctx := context.Background()

	_, err := loaders.User(ctx, "1")
	require.NoError(t, err)
	_, err = loaders.Renew().User(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), store.userBatches.Load())
}
