package inmemory

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/query"
	"github.com/UkralStul/orion-graphql/internal/reqmeta"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

var testNow = time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// newTestStore создает пустое хранилище с фиксированными часами
func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(opts...)
}

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	require.NoError(t, s.LoadSeed())
	return s
}

// fixture - два пользователя, категория, метка и опубликованный пост Алисы
type fixture struct {
	store    *Store
	alice    *domain.User
	bob      *domain.User
	category *domain.Category
	tag      *domain.Tag
	post     *domain.Post
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	s := newTestStore(t, opts...)

	alice, err := s.CreateUser(ctx, domain.CreateUserInput{Username: "alice", Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, domain.CreateUserInput{Username: "bob", Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)
	cat, err := s.CreateCategory(ctx, domain.CreateCategoryInput{Name: "Tech", Slug: "tech", Description: "Technology"})
	require.NoError(t, err)
	tag, err := s.CreateTag(ctx, domain.CreateTagInput{Name: "Go", Slug: "go"})
	require.NoError(t, err)
	post, err := s.CreatePost(ctx, domain.CreatePostInput{
		Title:      "Hello World",
		Content:    "Some content",
		AuthorID:   alice.ID,
		CategoryID: cat.ID,
		TagIDs:     []string{tag.ID},
		Status:     ptr(domain.PostPublished),
	})
	require.NoError(t, err)

	return &fixture{store: s, alice: alice, bob: bob, category: cat, tag: tag, post: post}
}

func (f *fixture) comment(t *testing.T, authorID string, parentID *string) *domain.Comment {
	t.Helper()
	c, err := f.store.CreateComment(context.Background(), domain.CreateCommentInput{
		PostID: f.post.ID, AuthorID: authorID, Content: "Nice post!", ParentID: parentID,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) getPost(t *testing.T) *domain.Post {
	t.Helper()
	p, err := f.store.GetPost(context.Background(), f.post.ID)
	require.NoError(t, err)
	return p
}

func TestStore_LoadSeed(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, stats.UserCount)
	assert.Equal(t, 30, stats.PostCount)
	assert.Equal(t, 25, stats.PublishedPostCount)
	assert.Equal(t, 2, stats.DraftPostCount)
	assert.Equal(t, 50, stats.CommentCount)
	assert.Equal(t, 12, stats.CategoryCount)
	assert.Equal(t, 20, stats.TagCount)
	assert.Equal(t, 97, stats.TotalLikes)

	// Счётчики пересчитаны по связям
	post, err := s.GetPost(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 4, post.LikeCount)
	assert.Equal(t, 7, post.CommentCount)

	tag, err := s.GetTag(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 20, tag.UsageCount)

	// Новые id выдаются после максимального загруженного
	u, err := s.CreateUser(ctx, domain.CreateUserInput{Username: "newcomer", Email: "new@example.com", Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "21", u.ID)
}

func TestStore_Load_UnknownField(t *testing.T) {
	s := newTestStore(t)
	err := s.Load(strings.NewReader("users:\n- id: '1'\n  nickname: x\n"))
	require.Error(t, err)
}

func TestStore_GetMissingReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetPost(ctx, "non-existent-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetCategoryBySlug(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	f := newFixture(t)
	p := f.getPost(t)
	p.Title = "mutated"
	p.TagIDs[0] = "999"

	again := f.getPost(t)
	assert.Equal(t, "Hello World", again.Title)
	assert.Equal(t, []string{f.tag.ID}, again.TagIDs)
}

func TestStore_CreatePost_Defaults(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "hello-world", f.post.Slug)
	assert.Equal(t, "Some content...", f.post.Excerpt)
	assert.Equal(t, 1, f.post.ReadingTimeMinutes)
	require.NotNil(t, f.post.PublishedAt)
	assert.Equal(t, testNow, *f.post.PublishedAt)

	second, err := f.store.CreatePost(context.Background(), domain.CreatePostInput{
		Title: "Hello, World!", Content: "x", AuthorID: f.alice.ID, CategoryID: f.category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", second.Slug)
	assert.Equal(t, domain.PostDraft, second.Status)
	assert.Nil(t, second.PublishedAt)
}

func TestStore_CreatePost_ReferentialChecks(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.CreatePost(context.Background(), domain.CreatePostInput{
		Title: "T", Content: "C", AuthorID: "404", CategoryID: "404", TagIDs: []string{"404"},
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 3)
}

func TestStore_UpdatePost_RetagAdjustsUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.store.CreateTag(ctx, domain.CreateTagInput{Name: "Rust", Slug: "rust"})
	require.NoError(t, err)

	_, err = f.store.UpdatePost(ctx, f.post.ID, domain.UpdatePostInput{TagIDs: &[]string{other.ID, other.ID}})
	require.NoError(t, err)

	goTag, _ := f.store.GetTag(ctx, f.tag.ID)
	rustTag, _ := f.store.GetTag(ctx, other.ID)
	assert.Equal(t, 0, goTag.UsageCount)
	assert.Equal(t, 1, rustTag.UsageCount)
	assert.Equal(t, []string{other.ID}, f.getPost(t).TagIDs)
}

func TestStore_CreateComment_Success(t *testing.T) {
	rec := &recordingListener{}
	f := newFixture(t, WithListener(rec))
	rec.store = f.store

	comment := f.comment(t, f.bob.ID, nil)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, domain.CommentPending, comment.Status)
	assert.Equal(t, 1, f.getPost(t).CommentCount)

	notes, err := f.store.ListNotifications(context.Background(), f.alice.ID, true, nil)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationComment, notes[0].Type)
	assert.Equal(t, "Bob commented on your post", notes[0].Message)

	assert.Len(t, rec.commentIDs(), 1)
	assert.Len(t, rec.notificationIDs(), 1)
}

func TestStore_CreateComment_NoSelfNotification(t *testing.T) {
	f := newFixture(t)
	f.comment(t, f.alice.ID, nil)

	notes, err := f.store.ListNotifications(context.Background(), f.alice.ID, false, nil)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestStore_CreateComment_TooLong(t *testing.T) {
	f := newFixture(t)

	longContent := strings.Repeat("a", 2001)
	_, err := f.store.CreateComment(context.Background(), domain.CreateCommentInput{PostID: f.post.ID, AuthorID: f.bob.ID, Content: longContent})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comment content is too long")
}

func TestStore_CreateComment_Empty(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.CreateComment(context.Background(), domain.CreateCommentInput{PostID: f.post.ID, AuthorID: f.bob.ID, Content: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comment content cannot be empty")
}

func TestStore_CreateComment_ParentFromAnotherPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := f.comment(t, f.bob.ID, nil)

	other, err := f.store.CreatePost(ctx, domain.CreatePostInput{Title: "Other", Content: "c", AuthorID: f.bob.ID, CategoryID: f.category.ID})
	require.NoError(t, err)

	_, err = f.store.CreateComment(ctx, domain.CreateCommentInput{PostID: other.ID, AuthorID: f.alice.ID, Content: "reply", ParentID: &parent.ID})
	assert.True(t, domain.IsValidation(err))
}

func TestStore_DeleteComment_ReparentsReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.comment(t, f.bob.ID, nil)
	middle := f.comment(t, f.alice.ID, &root.ID)
	leaf := f.comment(t, f.bob.ID, &middle.ID)
	_, err := f.store.Like(ctx, domain.TargetComment, middle.ID, f.bob.ID)
	require.NoError(t, err)

	res, err := f.store.DeleteComment(ctx, middle.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)

	got, err := f.store.GetComment(ctx, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)

	replies, err := f.store.CommentsByParentIDs(ctx, []string{root.ID})
	require.NoError(t, err)
	require.Len(t, replies[root.ID], 1)
	assert.Equal(t, leaf.ID, replies[root.ID][0].ID)

	assert.Equal(t, 2, f.getPost(t).CommentCount)
	liked, _ := f.store.HasLiked(ctx, domain.TargetComment, middle.ID, f.bob.ID)
	assert.False(t, liked)

	// Удаление корня поднимает ответ на верхний уровень
	_, err = f.store.DeleteComment(ctx, root.ID)
	require.NoError(t, err)
	got, _ = f.store.GetComment(ctx, leaf.ID)
	assert.Nil(t, got.ParentID)

	res, err = f.store.DeleteComment(ctx, "404")
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestStore_ListComments_TopLevelOnly(t *testing.T) {
	f := newFixture(t)
	root := f.comment(t, f.bob.ID, nil)
	f.comment(t, f.alice.ID, &root.ID)

	top, err := f.store.ListComments(context.Background(), storage.CommentQuery{
		Filter: &domain.CommentFilter{PostID: &f.post.ID, TopLevelOnly: true},
	})
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, root.ID, top[0].ID)
}

func TestStore_LikeUnlikeScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	like, err := f.store.Like(ctx, domain.TargetPost, f.post.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.getPost(t).LikeCount)

	// Повторный лайк возвращает ту же запись
	again, err := f.store.Like(ctx, domain.TargetPost, f.post.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, like.ID, again.ID)
	assert.Equal(t, 1, f.getPost(t).LikeCount)

	liked, err := f.store.HasLiked(ctx, domain.TargetPost, f.post.ID, f.bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	res, err := f.store.Unlike(ctx, domain.TargetPost, f.post.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, &domain.DeleteResult{Success: true, ID: like.ID}, res)
	assert.Equal(t, 0, f.getPost(t).LikeCount)

	res, err = f.store.Unlike(ctx, domain.TargetPost, f.post.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, &domain.DeleteResult{Success: false, ID: ""}, res)
	assert.Equal(t, 0, f.getPost(t).LikeCount)
}

func TestStore_Like_UnknownTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Like(context.Background(), domain.TargetComment, "404", f.bob.ID)
	assert.True(t, domain.IsValidation(err))
}

func TestStore_CounterUnderflowIsClamped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Like(ctx, domain.TargetPost, f.post.ID, f.bob.ID)
	require.NoError(t, err)

	// Рассинхронизация счётчика не должна увести его ниже нуля
	f.store.mu.Lock()
	p, _ := f.store.posts.Get(f.post.ID)
	p.LikeCount = 0
	f.store.mu.Unlock()

	_, err = f.store.Unlike(ctx, domain.TargetPost, f.post.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, f.getPost(t).LikeCount)
}

func TestStore_Follow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Follow(ctx, f.alice.ID, f.alice.ID)
	assert.True(t, domain.IsValidation(err))

	first, err := f.store.Follow(ctx, f.bob.ID, f.alice.ID)
	require.NoError(t, err)
	second, err := f.store.Follow(ctx, f.bob.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	counters, err := f.store.UserCounters(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counters.Followers)

	followers, err := f.store.Followers(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, f.bob.ID, followers[0].ID)

	notes, _ := f.store.ListNotifications(ctx, f.alice.ID, false, nil)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationFollow, notes[0].Type)

	res, err := f.store.Unfollow(ctx, f.bob.ID, f.alice.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	ok, _ := f.store.IsFollowing(ctx, f.bob.ID, f.alice.ID)
	assert.False(t, ok)
}

func TestStore_Bookmark_UpdatesNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.store.Bookmark(ctx, f.bob.ID, f.post.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, b.Note)

	again, err := f.store.Bookmark(ctx, f.bob.ID, f.post.ID, ptr("read later"))
	require.NoError(t, err)
	assert.Equal(t, b.ID, again.ID)
	require.NotNil(t, again.Note)
	assert.Equal(t, "read later", *again.Note)

	list, err := f.store.UserBookmarks(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_MergeTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rust, err := f.store.CreateTag(ctx, domain.CreateTagInput{Name: "Rust", Slug: "rust"})
	require.NoError(t, err)
	// Второй пост с обеими метками: в посте target не задваивается, счётчики складываются
	both, err := f.store.CreatePost(ctx, domain.CreatePostInput{
		Title: "Both", Content: "c", AuthorID: f.bob.ID, CategoryID: f.category.ID, TagIDs: []string{rust.ID, f.tag.ID},
	})
	require.NoError(t, err)

	_, err = f.store.MergeTags(ctx, rust.ID, rust.ID)
	assert.True(t, domain.IsValidation(err))
	_, err = f.store.MergeTags(ctx, "404", rust.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	merged, err := f.store.MergeTags(ctx, f.tag.ID, rust.ID)
	require.NoError(t, err)
	assert.Equal(t, 1+2, merged.UsageCount)

	_, err = f.store.GetTag(ctx, f.tag.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, _ := f.store.GetPost(ctx, both.ID)
	assert.Equal(t, []string{rust.ID}, got.TagIDs)
	assert.Equal(t, []string{rust.ID}, f.getPost(t).TagIDs)

	logs, err := f.store.ListAuditLogs(ctx, storage.AuditQuery{EntityType: ptr("tag")})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "merge", logs[0].Action)
}

func TestStore_DeleteTag_StripsPosts(t *testing.T) {
	f := newFixture(t)
	res, err := f.store.DeleteTag(context.Background(), f.tag.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, f.getPost(t).TagIDs)
}

func TestStore_DeleteCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	child, err := f.store.CreateCategory(ctx, domain.CreateCategoryInput{Name: "Go", Slug: "golang", Description: "d", ParentID: &f.category.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, child.SortOrder)
	assert.Equal(t, "#3B82F6", child.Color)

	_, err = f.store.DeleteCategory(ctx, f.category.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.store.DeletePost(ctx, f.post.ID)
	require.NoError(t, err)
	res, err := f.store.DeleteCategory(ctx, f.category.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)

	got, err := f.store.GetCategory(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestStore_UpdateCategory_Cycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	child, err := f.store.CreateCategory(ctx, domain.CreateCategoryInput{Name: "Go", Slug: "golang", Description: "d", ParentID: &f.category.ID})
	require.NoError(t, err)

	_, err = f.store.UpdateCategory(ctx, f.category.ID, domain.UpdateCategoryInput{ParentID: &child.ID})
	assert.True(t, domain.IsValidation(err))
	_, err = f.store.UpdateCategory(ctx, f.category.ID, domain.UpdateCategoryInput{ParentID: &f.category.ID})
	assert.True(t, domain.IsValidation(err))

	moved, err := f.store.UpdateCategory(ctx, child.ID, domain.UpdateCategoryInput{MakeRoot: true})
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)

	roots, err := f.store.ListCategories(ctx, storage.CategoryQuery{RootsOnly: true})
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}

func TestStore_DeletePost_Cascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.comment(t, f.bob.ID, nil)
	_, err := f.store.Like(ctx, domain.TargetComment, c.ID, f.alice.ID)
	require.NoError(t, err)
	_, err = f.store.Like(ctx, domain.TargetPost, f.post.ID, f.bob.ID)
	require.NoError(t, err)
	_, err = f.store.Bookmark(ctx, f.bob.ID, f.post.ID, nil)
	require.NoError(t, err)

	res, err := f.store.DeletePost(ctx, f.post.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = f.store.GetComment(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	tag, _ := f.store.GetTag(ctx, f.tag.ID)
	assert.Equal(t, 0, tag.UsageCount)
	bookmarks, _ := f.store.UserBookmarks(ctx, f.bob.ID)
	assert.Empty(t, bookmarks)

	f.store.mu.RLock()
	assert.Equal(t, 0, f.store.likes.Len())
	f.store.mu.RUnlock()

	// Уведомление о комментарии остаётся
	notes, _ := f.store.ListNotifications(ctx, f.alice.ID, false, nil)
	assert.NotEmpty(t, notes)
}

func TestStore_DeleteUser_Cascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Комментарий Боба к посту Алисы и лайк Боба
	f.comment(t, f.bob.ID, nil)
	_, err := f.store.Like(ctx, domain.TargetPost, f.post.ID, f.bob.ID)
	require.NoError(t, err)
	_, err = f.store.Follow(ctx, f.bob.ID, f.alice.ID)
	require.NoError(t, err)

	res, err := f.store.DeleteUser(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)

	post := f.getPost(t)
	assert.Equal(t, 0, post.LikeCount)
	assert.Equal(t, 0, post.CommentCount)
	counters, _ := f.store.UserCounters(ctx, f.alice.ID)
	assert.Equal(t, 0, counters.Followers)

	logs, err := f.store.ListAuditLogs(ctx, storage.AuditQuery{EntityID: &f.bob.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "delete", logs[0].Action)
}

func TestStore_IDsAreNeverReused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.DeletePost(ctx, f.post.ID)
	require.NoError(t, err)
	p, err := f.store.CreatePost(ctx, domain.CreatePostInput{Title: "Again", Content: "c", AuthorID: f.alice.ID, CategoryID: f.category.ID})
	require.NoError(t, err)
	assert.NotEqual(t, f.post.ID, p.ID)
}

func TestStore_BulkPublishPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.store.CreatePost(ctx, domain.CreatePostInput{Title: "Draft", Content: "c", AuthorID: f.alice.ID, CategoryID: f.category.ID})
	require.NoError(t, err)

	res, err := f.store.BulkPublishPosts(ctx, []string{draft.ID, "404", draft.ID})
	require.NoError(t, err)
	assert.Equal(t, &domain.BulkResult{Success: true, Count: 1, IDs: []string{draft.ID}}, res)

	logs, err := f.store.ListAuditLogs(ctx, storage.AuditQuery{EntityID: &draft.ID})
	require.NoError(t, err)
	publishes := 0
	for _, l := range logs {
		if l.Action == "bulk_publish" {
			publishes++
		}
	}
	assert.Equal(t, 1, publishes)

	got, _ := f.store.GetPost(ctx, draft.ID)
	assert.Equal(t, domain.PostPublished, got.Status)
	require.NotNil(t, got.PublishedAt)

	res, err = f.store.BulkPublishPosts(ctx, []string{"404"})
	require.NoError(t, err)
	assert.Equal(t, &domain.BulkResult{Success: false, Count: 0, IDs: []string{}}, res)
}

func TestStore_SchedulePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.SchedulePost(ctx, f.post.ID, "tomorrow")
	assert.True(t, domain.IsValidation(err))

	p, err := f.store.SchedulePost(ctx, f.post.ID, "2025-01-01T09:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, domain.PostScheduled, p.Status)
	require.NotNil(t, p.ScheduledAt)

	logs, _ := f.store.ListAuditLogs(ctx, storage.AuditQuery{EntityID: &f.post.ID})
	require.Len(t, logs, 1)
	assert.Equal(t, "schedule", logs[0].Action)
}

func TestStore_AuditCarriesRequestMeta(t *testing.T) {
	f := newFixture(t)
	ctx := reqmeta.With(context.Background(), reqmeta.Meta{UserID: &f.alice.ID, IP: "10.0.0.1", UserAgent: "test-agent"})

	_, err := f.store.ArchivePost(ctx, f.post.ID)
	require.NoError(t, err)

	logs, err := f.store.ListAuditLogs(ctx, storage.AuditQuery{Limit: ptr(1)})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "archive", logs[0].Action)
	assert.Equal(t, f.alice.ID, *logs[0].UserID)
	assert.Equal(t, "10.0.0.1", logs[0].IPAddress)
	assert.Equal(t, "test-agent", logs[0].UserAgent)
	require.NotNil(t, logs[0].NewValue)
	assert.Contains(t, *logs[0].NewValue, `"status":"archived"`)
}

func TestStore_PostAnalytics(t *testing.T) {
	f := newFixture(t)
	google := reqmeta.With(context.Background(), reqmeta.Meta{Referer: "https://www.google.com/search?q=go"})

	for range 2 {
		_, err := f.store.IncrementViewCount(google, f.post.ID)
		require.NoError(t, err)
	}
	_, err := f.store.IncrementViewCount(context.Background(), f.post.ID)
	require.NoError(t, err)
	_, err = f.store.Like(context.Background(), domain.TargetPost, f.post.ID, f.bob.ID)
	require.NoError(t, err)

	a, err := f.store.PostAnalytics(context.Background(), f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Post.ViewCount)
	require.Len(t, a.ViewsOverTime, domain.AnalyticsWindowDays)
	assert.Equal(t, "2024-11-01", a.ViewsOverTime[0].Date)
	assert.Equal(t, &domain.TimeSeriesPoint{Date: "2024-12-01", Count: 3}, a.ViewsOverTime[30])
	assert.Equal(t, 1, a.LikesOverTime[30].Count)
	assert.Equal(t, []*domain.ReferrerCount{
		{Source: "google.com", Count: 2},
		{Source: "direct", Count: 1},
	}, a.TopReferrers)

	_, err = f.store.PostAnalytics(context.Background(), "404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Search(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	res, err := s.Search(ctx, "ALICE", []domain.SearchType{domain.SearchUsers})
	require.NoError(t, err)
	require.NotEmpty(t, res.Users)
	assert.Equal(t, "alice", res.Users[0].Username)
	assert.Empty(t, res.Posts)
	assert.Equal(t, len(res.Users), res.TotalCount)

	res, err = s.Search(ctx, "graphql", nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Posts), 10)
	for _, p := range res.Posts {
		assert.Equal(t, domain.PostPublished, p.Status)
	}

	_, err = s.Search(ctx, "x", []domain.SearchType{"planets"})
	assert.True(t, domain.IsValidation(err))
}

func TestStore_UserStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.Like(ctx, domain.TargetPost, f.post.ID, f.bob.ID)
	require.NoError(t, err)

	st, err := f.store.UserStats(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, &domain.UserStats{TotalPosts: 1, TotalLikes: 1}, st)

	_, err = f.store.UserStats(ctx, "404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Feed(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	feed, err := s.Feed(ctx, "1", query.Page{})
	require.NoError(t, err)
	require.NotEmpty(t, feed)
	followed := map[string]bool{"2": true, "3": true, "4": true, "5": true}
	for _, p := range feed {
		assert.Equal(t, domain.PostPublished, p.Status)
		assert.True(t, followed[p.AuthorID])
	}
}

func TestStore_PostsConnection_InvalidCursor(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	_, err := s.PostsConnection(ctx, nil, nil, query.CursorArgs{After: ptr("%%%")})
	assert.ErrorIs(t, err, domain.ErrInvalidCursor)

	_, err = s.PostsConnection(ctx, nil, nil, query.CursorArgs{After: ptr(query.EncodeCursor("999"))})
	assert.ErrorIs(t, err, domain.ErrInvalidCursor)
}

func TestStore_CreateUser_Unique(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.CreateUser(context.Background(), domain.CreateUserInput{Username: "ALICE", Email: "other@example.com", Name: "A"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "username", ve.Fields[0].Field)
	assert.Equal(t, domain.UserPending, f.alice.Status)
}

// recordingListener проверяет, что события приходят после снятия блокировки:
// чтение из хранилища внутри обработчика иначе бы зависло.
type recordingListener struct {
	mu            sync.Mutex
	store         *Store
	comments      []string
	notifications []string
}

func (l *recordingListener) CommentCreated(c *domain.Comment) {
	got, err := l.store.GetComment(context.Background(), c.ID)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.comments = append(l.comments, got.ID)
}

func (l *recordingListener) NotificationCreated(n *domain.Notification) {
	got, err := l.store.GetNotification(context.Background(), n.ID)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notifications = append(l.notifications, got.ID)
}

func (l *recordingListener) commentIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.comments...)
}

func (l *recordingListener) notificationIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.notifications...)
}

func TestStore_ListPosts_FollowsIndexes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.store.CreatePost(ctx, domain.CreatePostInput{
		Title: "Other", Content: "c", AuthorID: f.bob.ID, CategoryID: f.category.ID,
		TagIDs: []string{f.tag.ID}, Status: ptr(domain.PostPublished),
	})
	require.NoError(t, err)

	// Висячий id в индексе отбрасывается
	f.store.postsByTag.add(f.tag.ID, "404")
	byTag, err := f.store.ListPosts(ctx, storage.PostQuery{Filter: &domain.PostFilter{TagIDs: []string{f.tag.ID}}})
	require.NoError(t, err)
	require.Len(t, byTag, 2)

	// Предикат по-прежнему отсекает кандидатов из индекса
	byTag, err = f.store.ListPosts(ctx, storage.PostQuery{Filter: &domain.PostFilter{TagIDs: []string{f.tag.ID}, AuthorID: &f.alice.ID}})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, f.post.ID, byTag[0].ID)

	// Выборка по автору берётся из индекса, а не перебором коллекции
	f.store.postsByAuthor = make(index)
	byAuthor, err := f.store.ListPosts(ctx, storage.PostQuery{Filter: &domain.PostFilter{AuthorID: &f.bob.ID}})
	require.NoError(t, err)
	assert.Empty(t, byAuthor)

	f.store.postsByCategory.remove(f.category.ID, f.post.ID)
	byCategory, err := f.store.ListPosts(ctx, storage.PostQuery{Filter: &domain.PostFilter{CategoryID: &f.category.ID}})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, other.ID, byCategory[0].ID)
}

func TestStore_ListComments_FollowsIndexes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.comment(t, f.bob.ID, nil)
	reply := f.comment(t, f.alice.ID, &root.ID)

	replies, err := f.store.ListComments(ctx, storage.CommentQuery{Filter: &domain.CommentFilter{ParentID: &root.ID}})
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, reply.ID, replies[0].ID)

	f.store.commentsByAuthor = make(index)
	byAuthor, err := f.store.ListComments(ctx, storage.CommentQuery{Filter: &domain.CommentFilter{AuthorID: &f.bob.ID}})
	require.NoError(t, err)
	assert.Empty(t, byAuthor)

	f.store.commentsByParent = make(index)
	replies, err = f.store.ListComments(ctx, storage.CommentQuery{Filter: &domain.CommentFilter{ParentID: &root.ID}})
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestStore_ListCategories_ChildrenKeepCreationOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older, err := s.CreateCategory(ctx, domain.CreateCategoryInput{Name: "Older", Slug: "older", Description: "d"})
	require.NoError(t, err)
	parent, err := s.CreateCategory(ctx, domain.CreateCategoryInput{Name: "Parent", Slug: "parent", Description: "d"})
	require.NoError(t, err)
	newer, err := s.CreateCategory(ctx, domain.CreateCategoryInput{Name: "Newer", Slug: "newer", Description: "d", ParentID: &parent.ID})
	require.NoError(t, err)

	// older попадает в индекс родителя последним, но создан раньше
	_, err = s.UpdateCategory(ctx, older.ID, domain.UpdateCategoryInput{ParentID: &parent.ID, SortOrder: ptr(5)})
	require.NoError(t, err)
	_, err = s.UpdateCategory(ctx, newer.ID, domain.UpdateCategoryInput{SortOrder: ptr(5)})
	require.NoError(t, err)

	children, err := s.ListCategories(ctx, storage.CategoryQuery{ParentID: &parent.ID})
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, older.ID, children[0].ID)
	assert.Equal(t, newer.ID, children[1].ID)
}

// TestStore_CountersStayConsistent гоняет случайную последовательность мутаций
// и сверяет счётчики с тем, что лежит в коллекциях.
func TestStore_CountersStayConsistent(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	rnd := rand.New(rand.NewPCG(7, 42))

	id := func(n int) string { return strconv.Itoa(1 + rnd.IntN(n)) }
	target := func() domain.TargetType {
		if rnd.IntN(2) == 0 {
			return domain.TargetPost
		}
		return domain.TargetComment
	}
	targetID := func(tt domain.TargetType) string {
		if tt == domain.TargetPost {
			return id(40)
		}
		return id(80)
	}

	for i := 0; i < 2000; i++ {
		switch rnd.IntN(10) {
		case 0:
			_, _ = s.CreatePost(ctx, domain.CreatePostInput{
				Title: "p" + strconv.Itoa(i), Content: "c", AuthorID: id(20), CategoryID: id(12),
				TagIDs: []string{id(20), id(20)},
			})
		case 1:
			_, _ = s.DeletePost(ctx, id(40))
		case 2:
			tags := []string{id(20), id(20)}
			_, _ = s.UpdatePost(ctx, id(40), domain.UpdatePostInput{TagIDs: &tags})
		case 3:
			var parent *string
			if rnd.IntN(2) == 0 {
				parent = ptr(id(80))
			}
			_, _ = s.CreateComment(ctx, domain.CreateCommentInput{PostID: id(40), AuthorID: id(20), Content: "c", ParentID: parent})
		case 4:
			_, _ = s.DeleteComment(ctx, id(80))
		case 5, 6:
			tt := target()
			_, _ = s.Like(ctx, tt, targetID(tt), id(20))
		case 7:
			tt := target()
			_, _ = s.Unlike(ctx, tt, targetID(tt), id(20))
		case 8:
			if rnd.IntN(2) == 0 {
				_, _ = s.Follow(ctx, id(20), id(20))
			} else {
				_, _ = s.Unfollow(ctx, id(20), id(20))
			}
		case 9:
			if rnd.IntN(20) == 0 {
				_, _ = s.DeleteUser(ctx, id(20))
			}
		}
	}

	likes := map[string]int{}
	for _, l := range s.likes.All() {
		likes[targetKey(l.TargetType, l.TargetID)]++
	}
	comments := map[string]int{}
	for _, c := range s.comments.All() {
		comments[c.PostID]++
		require.True(t, s.posts.Has(c.PostID), "comment %s on missing post", c.ID)
	}
	usage := map[string]int{}
	for _, p := range s.posts.All() {
		for _, tagID := range p.TagIDs {
			usage[tagID]++
		}
		assert.Equal(t, likes[targetKey(domain.TargetPost, p.ID)], p.LikeCount, "post %s likeCount", p.ID)
		assert.Equal(t, comments[p.ID], p.CommentCount, "post %s commentCount", p.ID)
	}
	for _, c := range s.comments.All() {
		assert.Equal(t, likes[targetKey(domain.TargetComment, c.ID)], c.LikeCount, "comment %s likeCount", c.ID)
	}
	for _, tag := range s.tags.All() {
		assert.Equal(t, usage[tag.ID], tag.UsageCount, "tag %s usageCount", tag.ID)
	}

	followers := map[string]int{}
	for _, fl := range s.follows.All() {
		followers[fl.FollowingID]++
		require.True(t, s.users.Has(fl.FollowerID) && s.users.Has(fl.FollowingID))
	}
	for _, u := range s.users.All() {
		assert.Equal(t, followers[u.ID], s.followsByFollowing.count(u.ID), "user %s followers", u.ID)
	}
}
