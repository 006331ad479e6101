package inmemory

import (
	"cmp"
	"context"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/query"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

const (
	searchLimitPerType = 10
	topReferrersLimit  = 5
	directReferrer     = "direct"
)

// === Search ===

// Search ищет подстроку без учёта регистра: опубликованные посты, пользователи,
// одобренные комментарии и метки, не больше 10 записей каждого типа.
func (s *Store) Search(ctx context.Context, q string, types []domain.SearchType) (*domain.SearchResults, error) {
	if len(types) == 0 {
		types = domain.AllSearchTypes
	}
	want := make(map[domain.SearchType]bool, len(types))
	for _, t := range types {
		if !slices.Contains(domain.AllSearchTypes, t) {
			return nil, domain.NewValidationError("types", "unknown search type %q", t)
		}
		want[t] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	res := &domain.SearchResults{
		Posts:    []*domain.Post{},
		Users:    []*domain.User{},
		Comments: []*domain.Comment{},
		Tags:     []*domain.Tag{},
	}
	if want[domain.SearchPosts] {
		res.Posts = searchIn(s.posts.All(), func(p *domain.Post) bool {
			return p.Status == domain.PostPublished && (domain.ContainsFold(p.Title, q) || domain.ContainsFold(p.Content, q))
		})
	}
	if want[domain.SearchUsers] {
		res.Users = searchIn(s.users.All(), func(u *domain.User) bool {
			return domain.ContainsFold(u.Name, q) || domain.ContainsFold(u.Username, q)
		})
	}
	if want[domain.SearchComments] {
		res.Comments = searchIn(s.comments.All(), func(c *domain.Comment) bool {
			return c.Status == domain.CommentApproved && domain.ContainsFold(c.Content, q)
		})
	}
	if want[domain.SearchTags] {
		res.Tags = searchIn(s.tags.All(), func(t *domain.Tag) bool { return domain.ContainsFold(t.Name, q) })
	}
	res.TotalCount = len(res.Posts) + len(res.Users) + len(res.Comments) + len(res.Tags)
	return res, nil
}

func searchIn[T cloner[T]](items []T, match query.Predicate[T]) []T {
	return cloneAll(limitSlice(query.Filter(items, match), searchLimitPerType))
}

// === Aggregates ===

func (s *Store) Stats(ctx context.Context) (*domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &domain.Stats{
		UserCount:     s.users.Len(),
		PostCount:     s.posts.Len(),
		CommentCount:  s.comments.Len(),
		CategoryCount: s.categories.Len(),
		TagCount:      s.tags.Len(),
	}
	for _, p := range s.posts.All() {
		switch p.Status {
		case domain.PostPublished:
			st.PublishedPostCount++
		case domain.PostDraft:
			st.DraftPostCount++
		}
		st.TotalViews += p.ViewCount
		st.TotalLikes += p.LikeCount
	}
	return st, nil
}

func (s *Store) UserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.users.Has(userID) {
		return nil, domain.NotFound(domain.EntityUser, userID)
	}
	st := &domain.UserStats{
		TotalComments:  s.commentsByAuthor.count(userID),
		TotalFollowers: s.followsByFollowing.count(userID),
		TotalFollowing: s.followsByFollower.count(userID),
	}
	for _, p := range s.posts.Lookup(s.postsByAuthor.get(userID)) {
		st.TotalPosts++
		st.TotalViews += p.ViewCount
		st.TotalLikes += p.LikeCount
	}
	return st, nil
}

// === Analytics ===

// PostAnalytics строит дневные ряды просмотров и лайков за последние
// AnalyticsWindowDays дней (включая сегодня) и топ источников переходов.
func (s *Store) PostAnalytics(ctx context.Context, postID string) (*domain.PostAnalytics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts.Get(postID)
	if !ok {
		return nil, domain.NotFound(domain.EntityPost, postID)
	}

	likesByDay := make(map[string]int)
	for _, l := range s.likes.Lookup(s.likesByTarget.get(targetKey(domain.TargetPost, postID))) {
		likesByDay[l.CreatedAt.Format(time.DateOnly)]++
	}

	today := s.clock().Truncate(24 * time.Hour)
	views := make([]*domain.TimeSeriesPoint, 0, domain.AnalyticsWindowDays)
	likes := make([]*domain.TimeSeriesPoint, 0, domain.AnalyticsWindowDays)
	for i := domain.AnalyticsWindowDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(time.DateOnly)
		views = append(views, &domain.TimeSeriesPoint{Date: day, Count: s.views[postID][day]})
		likes = append(likes, &domain.TimeSeriesPoint{Date: day, Count: likesByDay[day]})
	}

	return &domain.PostAnalytics{
		Post:          p.Clone(),
		ViewsOverTime: views,
		LikesOverTime: likes,
		TopReferrers:  topReferrers(s.referrers[postID]),
	}, nil
}

func topReferrers(counts map[string]int) []*domain.ReferrerCount {
	out := make([]*domain.ReferrerCount, 0, len(counts))
	for source, n := range counts {
		out = append(out, &domain.ReferrerCount{Source: source, Count: n})
	}
	slices.SortFunc(out, func(a, b *domain.ReferrerCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Source, b.Source)
	})
	return limitSlice(out, topReferrersLimit)
}

// referrerSource сводит заголовок Referer к хосту без "www.".
func referrerSource(ref string) string {
	if ref == "" {
		return directReferrer
	}
	u, err := url.Parse(ref)
	if err != nil || u.Hostname() == "" {
		return directReferrer
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// === Audit ===

// ListAuditLogs - журнал аудита, новые записи первыми.
func (s *Store) ListAuditLogs(ctx context.Context, q storage.AuditQuery) ([]*domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var preds []query.Predicate[*domain.AuditLog]
	if q.EntityType != nil {
		preds = append(preds, func(a *domain.AuditLog) bool { return a.EntityType == *q.EntityType })
	}
	if q.EntityID != nil {
		preds = append(preds, func(a *domain.AuditLog) bool { return a.EntityID == *q.EntityID })
	}
	items := query.Filter(s.auditLogs.All(), query.And(preds...))
	query.SortStable(items, query.Desc(query.ByCreatedAt(func(a *domain.AuditLog) time.Time { return a.CreatedAt })))
	page, err := query.Offset(items, query.Limit(q.Limit))
	if err != nil {
		return nil, err
	}
	return cloneAll(page), nil
}
