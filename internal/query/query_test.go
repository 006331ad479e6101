package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/orion-graphql/internal/domain"
)

func ptr[T any](v T) *T { return &v }

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fivePosts - посты 1..5, созданные по порядку с шагом в час
func fivePosts() []*domain.Post {
	out := make([]*domain.Post, 5)
	for i := range out {
		out[i] = &domain.Post{
			ID:        string(rune('1' + i)),
			Title:     []string{"delta", "Alpha", "charlie", "bravo", "echo"}[i],
			LikeCount: []int{3, 1, 3, 0, 1}[i],
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func ids(posts []*domain.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func postID(p *domain.Post) string { return p.ID }

func TestPostComparator_DefaultNewestFirst(t *testing.T) {
	posts := fivePosts()
	SortStable(posts, PostComparator(nil))
	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, ids(posts))
}

func TestPostComparator_StableOnTies(t *testing.T) {
	posts := fivePosts()
	SortStable(posts, PostComparator(&domain.PostSort{Field: domain.PostSortLikeCount, Direction: domain.SortDesc}))
	// Равные likeCount сохраняют входной порядок и при DESC
	assert.Equal(t, []string{"1", "3", "2", "5", "4"}, ids(posts))
}

func TestPostComparator_TitleIsCaseInsensitive(t *testing.T) {
	posts := fivePosts()
	SortStable(posts, PostComparator(&domain.PostSort{Field: domain.PostSortTitle, Direction: domain.SortAsc}))
	assert.Equal(t, []string{"2", "4", "3", "1", "5"}, ids(posts))
}

func TestCompareOptionalTime(t *testing.T) {
	later := base.Add(time.Hour)
	assert.Equal(t, 0, CompareOptionalTime(nil, nil))
	assert.Negative(t, CompareOptionalTime(nil, &base))
	assert.Positive(t, CompareOptionalTime(&later, &base))
}

func TestUserComparator(t *testing.T) {
	assert.Nil(t, UserComparator(nil, nil))

	users := []*domain.User{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	followers := map[string]int{"a": 1, "b": 5, "c": 1}
	counts := func(id string) (int, int) { return 0, followers[id] }
	SortStable(users, UserComparator(&domain.UserSort{Field: domain.UserSortFollowerCount, Direction: domain.SortDesc}, counts))
	assert.Equal(t, "b", users[0].ID)
	assert.Equal(t, "a", users[1].ID)
}

func TestOffset(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, err := Offset(items, Page{Limit: ptr(2), Offset: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, page)

	page, err = Offset(items, Page{})
	require.NoError(t, err)
	assert.Equal(t, items, page)

	page, err = Offset(items, Page{Limit: ptr(0)})
	require.NoError(t, err)
	assert.Empty(t, page)

	page, err = Offset(items, Page{Offset: ptr(10)})
	require.NoError(t, err)
	assert.Empty(t, page)

	_, err = Offset(items, Page{Limit: ptr(-1)})
	assert.True(t, domain.IsValidation(err))
	_, err = Offset(items, Page{Offset: ptr(-1)})
	assert.True(t, domain.IsValidation(err))
}

func TestCursor_RoundTrip(t *testing.T) {
	c := EncodeCursor("42")
	assert.Equal(t, "NDI=", c)
	id, err := DecodeCursor(c)
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	_, err = DecodeCursor("%%%")
	assert.ErrorIs(t, err, domain.ErrInvalidCursor)
	_, err = DecodeCursor("")
	assert.ErrorIs(t, err, domain.ErrInvalidCursor)
}

func TestPaginate_FivePostScenario(t *testing.T) {
	posts := fivePosts()
	SortStable(posts, PostComparator(nil))

	first, err := Paginate(posts, CursorArgs{First: ptr(2)}, postID)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "4"}, ids(first.Nodes()))
	assert.True(t, first.PageInfo.HasNextPage)
	assert.False(t, first.PageInfo.HasPreviousPage)
	assert.Equal(t, 5, first.PageInfo.TotalCount)
	assert.Equal(t, EncodeCursor("5"), *first.PageInfo.StartCursor)

	second, err := Paginate(posts, CursorArgs{First: ptr(2), After: first.PageInfo.EndCursor}, postID)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2"}, ids(second.Nodes()))
	assert.True(t, second.PageInfo.HasNextPage)
	assert.True(t, second.PageInfo.HasPreviousPage)

	last, err := Paginate(posts, CursorArgs{First: ptr(2), After: second.PageInfo.EndCursor}, postID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(last.Nodes()))
	assert.False(t, last.PageInfo.HasNextPage)

	empty, err := Paginate(posts, CursorArgs{After: last.PageInfo.EndCursor}, postID)
	require.NoError(t, err)
	assert.Empty(t, empty.Edges)
	assert.Nil(t, empty.PageInfo.StartCursor)
	assert.Nil(t, empty.PageInfo.EndCursor)
	assert.True(t, empty.PageInfo.HasPreviousPage)
}

func TestPaginate_WalkCoversEveryRecordOnce(t *testing.T) {
	posts := fivePosts()
	SortStable(posts, PostComparator(&domain.PostSort{Field: domain.PostSortLikeCount, Direction: domain.SortAsc}))

	var seen []string
	args := CursorArgs{First: ptr(2)}
	for {
		conn, err := Paginate(posts, args, postID)
		require.NoError(t, err)
		seen = append(seen, ids(conn.Nodes())...)
		if !conn.PageInfo.HasNextPage {
			break
		}
		args.After = conn.PageInfo.EndCursor
	}
	assert.Equal(t, ids(posts), seen)
}

func TestPaginate_Errors(t *testing.T) {
	posts := fivePosts()

	_, err := Paginate(posts, CursorArgs{After: ptr(EncodeCursor("99"))}, postID)
	assert.ErrorIs(t, err, domain.ErrInvalidCursor)

	_, err = Paginate(posts, CursorArgs{First: ptr(-1)}, postID)
	assert.True(t, domain.IsValidation(err))
}

func TestPaginate_DefaultPageSize(t *testing.T) {
	items := make([]*domain.Post, 15)
	for i := range items {
		items[i] = &domain.Post{ID: string(rune('a' + i))}
	}
	conn, err := Paginate(items, CursorArgs{}, postID)
	require.NoError(t, err)
	assert.Len(t, conn.Edges, DefaultPageSize)
	assert.True(t, conn.PageInfo.HasNextPage)
}

func TestPostPredicate(t *testing.T) {
	published := base.Add(48 * time.Hour)
	posts := []*domain.Post{
		{ID: "1", Title: "GraphQL intro", Status: domain.PostPublished, PublishedAt: &published, TagIDs: []string{"t1"}, ViewCount: 100},
		{ID: "2", Title: "Draft", Content: "graphql inside", Status: domain.PostDraft, TagIDs: []string{"t2"}},
		{ID: "3", Title: "Other", Status: domain.PostPublished, PublishedAt: &base, TagIDs: []string{"t2", "t3"}, ViewCount: 5},
	}

	cases := []struct {
		name   string
		filter *domain.PostFilter
		want   []string
	}{
		{"nil filter", nil, []string{"1", "2", "3"}},
		{"status", &domain.PostFilter{Status: ptr(domain.PostPublished)}, []string{"1", "3"}},
		{"any tag", &domain.PostFilter{TagIDs: []string{"t1", "t3"}}, []string{"1", "3"}},
		{"search", &domain.PostFilter{Search: ptr("GRAPHQL")}, []string{"1", "2"}},
		{"published after", &domain.PostFilter{PublishedAfter: ptr("2024-01-02")}, []string{"1"}},
		{"published range inclusive", &domain.PostFilter{PublishedAfter: ptr("2024-01-01T00:00:00Z"), PublishedBefore: ptr("2024-01-01T00:00:00Z")}, []string{"3"}},
		{"min views", &domain.PostFilter{MinViewCount: ptr(10)}, []string{"1"}},
		{"conjunction", &domain.PostFilter{Status: ptr(domain.PostPublished), TagIDs: []string{"t2"}}, []string{"3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pred, err := PostPredicate(tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(Filter(posts, pred)))
		})
	}

	_, err := PostPredicate(&domain.PostFilter{PublishedAfter: ptr("yesterday")})
	assert.True(t, domain.IsValidation(err))
}

func TestCommentPredicate_ParentID(t *testing.T) {
	parent := "1"
	comments := []*domain.Comment{{ID: "1"}, {ID: "2", ParentID: &parent}, {ID: "3"}}

	top := Filter(comments, CommentPredicate(&domain.CommentFilter{TopLevelOnly: true}))
	assert.Len(t, top, 2)

	replies := Filter(comments, CommentPredicate(&domain.CommentFilter{ParentID: &parent}))
	require.Len(t, replies, 1)
	assert.Equal(t, "2", replies[0].ID)
}

func TestPeriodStart(t *testing.T) {
	start, err := PeriodStart(domain.PeriodWeek, base)
	require.NoError(t, err)
	assert.Equal(t, base.AddDate(0, 0, -7), *start)

	start, err = PeriodStart(domain.PeriodAll, base)
	require.NoError(t, err)
	assert.Nil(t, start)

	_, err = PeriodStart("year", base)
	assert.True(t, domain.IsValidation(err))
}
