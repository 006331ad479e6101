package inmemory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/metrics"
	"github.com/UkralStul/orion-graphql/internal/query"
	"github.com/UkralStul/orion-graphql/internal/reqmeta"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

// === Post Methods ===

func (s *Store) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityPost, id)
	}
	return p.Clone(), nil
}

func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.postBySlugLocked(slug); p != nil {
		return p.Clone(), nil
	}
	return nil, domain.NotFound(domain.EntityPost, slug)
}

func (s *Store) postBySlugLocked(slug string) *domain.Post {
	for _, p := range s.posts.All() {
		if p.Slug == slug {
			return p
		}
	}
	return nil
}

func (s *Store) PostsByIDs(ctx context.Context, ids []string) (map[string]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.posts.Lookup(ids), func(p *domain.Post) string { return p.ID }), nil
}

func (s *Store) selectPostsLocked(filter *domain.PostFilter, sort *domain.PostSort) ([]*domain.Post, error) {
	pred, err := query.PostPredicate(filter)
	if err != nil {
		return nil, err
	}
	posts := query.Filter(s.postCandidatesLocked(filter), pred)
	query.SortStable(posts, query.PostComparator(sort))
	return posts, nil
}

// postCandidatesLocked берёт кандидатов из самого короткого подходящего
// обратного индекса; остальные условия фильтра проверяет предикат.
func (s *Store) postCandidatesLocked(f *domain.PostFilter) []*domain.Post {
	if f == nil {
		return s.posts.All()
	}
	var n narrowing
	if f.AuthorID != nil {
		n.offer(s.postsByAuthor.get(*f.AuthorID))
	}
	if f.CategoryID != nil {
		n.offer(s.postsByCategory.get(*f.CategoryID))
	}
	if len(f.TagIDs) > 0 {
		var tagged []string
		for _, id := range f.TagIDs {
			tagged = append(tagged, s.postsByTag.get(id)...)
		}
		n.offer(tagged)
	}
	if !n.ok {
		return s.posts.All()
	}
	return s.posts.LookupOrdered(n.ids)
}

func (s *Store) ListPosts(ctx context.Context, q storage.PostQuery) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts, err := s.selectPostsLocked(q.Filter, q.Sort)
	if err != nil {
		return nil, err
	}
	page, err := query.Offset(posts, q.Page)
	if err != nil {
		return nil, err
	}
	return cloneAll(page), nil
}

func (s *Store) PostsConnection(ctx context.Context, filter *domain.PostFilter, sort *domain.PostSort, args query.CursorArgs) (*query.Connection[*domain.Post], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts, err := s.selectPostsLocked(filter, sort)
	if err != nil {
		return nil, err
	}
	return paginateClones(posts, args, func(p *domain.Post) string { return p.ID })
}

func byLikesDesc(a, b *domain.Post) int { return cmp.Compare(b.LikeCount, a.LikeCount) }

// RelatedPosts - опубликованные посты той же категории или с общей меткой, по лайкам.
func (s *Store) RelatedPosts(ctx context.Context, postID string, limit int) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	origin, ok := s.posts.Get(postID)
	if !ok {
		return []*domain.Post{}, nil
	}
	related := query.Filter(s.posts.All(), func(p *domain.Post) bool {
		if p.ID == origin.ID || p.Status != domain.PostPublished {
			return false
		}
		if p.CategoryID == origin.CategoryID {
			return true
		}
		for _, t := range p.TagIDs {
			if origin.HasTag(t) {
				return true
			}
		}
		return false
	})
	query.SortStable(related, byLikesDesc)
	return cloneAll(limitSlice(related, limit)), nil
}

// Feed - опубликованные посты авторов, на которых подписан пользователь.
func (s *Store) Feed(ctx context.Context, userID string, page query.Page) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authors := make(map[string]struct{})
	for _, f := range s.follows.Lookup(s.followsByFollower.get(userID)) {
		authors[f.FollowingID] = struct{}{}
	}
	feed := query.Filter(s.posts.All(), func(p *domain.Post) bool {
		_, followed := authors[p.AuthorID]
		return followed && p.Status == domain.PostPublished
	})
	query.SortStable(feed, query.Desc(query.ByCreatedAt(feedTime)))

	out, err := query.Offset(feed, page)
	if err != nil {
		return nil, err
	}
	return cloneAll(out), nil
}

func feedTime(p *domain.Post) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

func trendingScore(p *domain.Post) int { return p.ViewCount + 10*p.LikeCount }

// Trending - опубликованные посты по viewCount + 10*likeCount.
// period ограничивает publishedAt окном от текущего момента.
func (s *Store) Trending(ctx context.Context, limit int, period domain.TrendingPeriod) ([]*domain.Post, error) {
	since, err := query.PeriodStart(period, s.clock())
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := query.Filter(s.posts.All(), func(p *domain.Post) bool {
		if p.Status != domain.PostPublished {
			return false
		}
		return since == nil || (p.PublishedAt != nil && !p.PublishedAt.Before(*since))
	})
	query.SortStable(posts, func(a, b *domain.Post) int { return cmp.Compare(trendingScore(b), trendingScore(a)) })
	return cloneAll(limitSlice(posts, limit)), nil
}

// Recommended - опубликованные посты из категорий закладок пользователя,
// ещё не добавленные в закладки. Если таких нет - самые популярные.
func (s *Store) Recommended(ctx context.Context, userID *string, limit int) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recommended []*domain.Post
	if userID != nil {
		categories := make(map[string]struct{})
		bookmarked := make(map[string]struct{})
		for _, b := range s.bookmarks.Lookup(s.bookmarksByUser.get(*userID)) {
			bookmarked[b.PostID] = struct{}{}
			if p, ok := s.posts.Get(b.PostID); ok {
				categories[p.CategoryID] = struct{}{}
			}
		}
		recommended = query.Filter(s.posts.All(), func(p *domain.Post) bool {
			_, inCategory := categories[p.CategoryID]
			_, seen := bookmarked[p.ID]
			return p.Status == domain.PostPublished && inCategory && !seen
		})
	}
	if len(recommended) == 0 {
		recommended = query.Filter(s.posts.All(), func(p *domain.Post) bool { return p.Status == domain.PostPublished })
		query.SortStable(recommended, byLikesDesc)
	}
	return cloneAll(limitSlice(recommended, limit)), nil
}

// uniqueSlugLocked добавляет числовой суффикс, если slug уже занят другим постом.
func (s *Store) uniqueSlugLocked(base, exceptID string) string {
	if base == "" {
		base = "post"
	}
	slug := base
	for n := 2; ; n++ {
		p := s.postBySlugLocked(slug)
		if p == nil || p.ID == exceptID {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

// insertPostLocked кладёт пост в коллекцию и индексы. Счётчики меток не трогает.
func (s *Store) insertPostLocked(p *domain.Post) {
	s.posts.Put(p.ID, p)
	s.postsByAuthor.add(p.AuthorID, p.ID)
	s.postsByCategory.add(p.CategoryID, p.ID)
	for _, t := range p.TagIDs {
		s.postsByTag.add(t, p.ID)
	}
}

func (s *Store) checkTagsLocked(errs *refErrors, tagIDs []string) {
	for _, t := range tagIDs {
		errs.check(s.tags.Has(t), "tagIds", "tag %q does not exist", t)
	}
}

func (s *Store) CreatePost(ctx context.Context, in domain.CreatePostInput) (*domain.Post, error) {
	s.mu.Lock()
	defer s.unlock()

	tagIDs := dedupe(in.TagIDs)
	var errs refErrors
	errs.check(s.users.Has(in.AuthorID), "authorId", "user %q does not exist", in.AuthorID)
	errs.check(s.categories.Has(in.CategoryID), "categoryId", "category %q does not exist", in.CategoryID)
	s.checkTagsLocked(&errs, tagIDs)
	if err := errs.err(); err != nil {
		return nil, err
	}

	now := s.clock()
	p := &domain.Post{
		ID:                 s.ids.Next(domain.EntityPost),
		Title:              in.Title,
		Slug:               s.uniqueSlugLocked(domain.Slugify(in.Title), ""),
		Excerpt:            domain.Excerpt(in.Content),
		Content:            in.Content,
		AuthorID:           in.AuthorID,
		CategoryID:         in.CategoryID,
		TagIDs:             tagIDs,
		Status:             domain.PostDraft,
		Visibility:         domain.VisibilityPublic,
		FeaturedImageURL:   in.FeaturedImageURL,
		ReadingTimeMinutes: domain.ReadingTime(in.Content),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Visibility != nil {
		p.Visibility = *in.Visibility
	}
	if p.Status == domain.PostPublished {
		p.PublishedAt = &now
	}

	s.insertPostLocked(p)
	for _, t := range s.tags.Lookup(tagIDs) {
		t.UsageCount++
	}
	metrics.StoreMutation("create_post")
	return p.Clone(), nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, in domain.UpdatePostInput) (*domain.Post, error) {
	s.mu.Lock()
	defer s.unlock()

	p, ok := s.posts.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityPost, id)
	}

	var tagIDs []string
	var errs refErrors
	if in.CategoryID != nil {
		errs.check(s.categories.Has(*in.CategoryID), "categoryId", "category %q does not exist", *in.CategoryID)
	}
	if in.TagIDs != nil {
		tagIDs = dedupe(*in.TagIDs)
		s.checkTagsLocked(&errs, tagIDs)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	now := s.clock()
	if in.Title != nil {
		p.Title = *in.Title
		p.Slug = s.uniqueSlugLocked(domain.Slugify(*in.Title), p.ID)
	}
	if in.Content != nil {
		p.Content = *in.Content
		p.ReadingTimeMinutes = domain.ReadingTime(*in.Content)
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.CategoryID != nil && *in.CategoryID != p.CategoryID {
		s.postsByCategory.move(p.CategoryID, *in.CategoryID, p.ID)
		p.CategoryID = *in.CategoryID
	}
	if in.TagIDs != nil {
		s.retagLocked(p, tagIDs)
	}
	if in.Status != nil {
		p.Status = *in.Status
		if p.Status == domain.PostPublished && p.PublishedAt == nil {
			p.PublishedAt = &now
		}
	}
	if in.Visibility != nil {
		p.Visibility = *in.Visibility
	}
	if in.FeaturedImageURL != nil {
		p.FeaturedImageURL = in.FeaturedImageURL
	}
	p.UpdatedAt = now
	metrics.StoreMutation("update_post")
	return p.Clone(), nil
}

// retagLocked заменяет метки поста и правит usageCount по разности множеств.
func (s *Store) retagLocked(p *domain.Post, tagIDs []string) {
	for _, old := range p.TagIDs {
		if !slices.Contains(tagIDs, old) {
			s.postsByTag.remove(old, p.ID)
			if t, ok := s.tags.Get(old); ok {
				s.decrement("tag.usageCount", t.ID, &t.UsageCount)
			}
		}
	}
	for _, added := range tagIDs {
		if !p.HasTag(added) {
			s.postsByTag.add(added, p.ID)
			if t, ok := s.tags.Get(added); ok {
				t.UsageCount++
			}
		}
	}
	p.TagIDs = tagIDs
}

func (s *Store) DeletePost(ctx context.Context, id string) (*domain.DeleteResult, error) {
	s.mu.Lock()
	defer s.unlock()

	p, ok := s.posts.Get(id)
	if !ok {
		return &domain.DeleteResult{Success: false, ID: id}, nil
	}
	s.auditLocked(ctx, "delete", domain.EntityPost, id, p, nil)
	s.deletePostLocked(p)
	metrics.StoreMutation("delete_post")
	return &domain.DeleteResult{Success: true, ID: id}, nil
}

// deletePostLocked удаляет пост каскадом: комментарии (с их лайками), лайки
// поста, закладки и статистику просмотров; уменьшает usageCount меток.
// Уведомления со ссылкой на пост остаются.
func (s *Store) deletePostLocked(p *domain.Post) {
	for _, c := range s.comments.Lookup(s.commentsByPost.get(p.ID)) {
		s.dropCommentLocked(c)
	}
	for _, l := range s.likes.Lookup(s.likesByTarget.get(targetKey(domain.TargetPost, p.ID))) {
		s.dropLikeLocked(l)
	}
	for _, b := range s.bookmarks.Lookup(s.bookmarksByPost.get(p.ID)) {
		s.removeBookmarkLocked(b)
	}
	for _, tid := range p.TagIDs {
		s.postsByTag.remove(tid, p.ID)
		if t, ok := s.tags.Get(tid); ok {
			s.decrement("tag.usageCount", t.ID, &t.UsageCount)
		}
	}
	s.postsByAuthor.remove(p.AuthorID, p.ID)
	s.postsByCategory.remove(p.CategoryID, p.ID)
	delete(s.views, p.ID)
	delete(s.referrers, p.ID)
	s.posts.Delete(p.ID)
	s.log.Debug().Str("post_id", p.ID).Msg("post deleted with cascade")
}

// transition меняет состояние публикации поста и пишет запись аудита.
func (s *Store) transition(ctx context.Context, id, action string, apply func(p *domain.Post, now time.Time)) (*domain.Post, error) {
	s.mu.Lock()
	defer s.unlock()

	p, ok := s.posts.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityPost, id)
	}
	before := publicationState(p)
	now := s.clock()
	apply(p, now)
	p.UpdatedAt = now
	s.auditLocked(ctx, action, domain.EntityPost, id, before, publicationState(p))
	metrics.StoreMutation(action + "_post")
	return p.Clone(), nil
}

func publicationState(p *domain.Post) map[string]any {
	return map[string]any{
		"status":      p.Status,
		"publishedAt": p.PublishedAt,
		"scheduledAt": p.ScheduledAt,
	}
}

func (s *Store) PublishPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.transition(ctx, id, "publish", func(p *domain.Post, now time.Time) {
		p.Status = domain.PostPublished
		p.PublishedAt = &now
	})
}

func (s *Store) UnpublishPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.transition(ctx, id, "unpublish", func(p *domain.Post, _ time.Time) {
		p.Status = domain.PostDraft
		p.PublishedAt = nil
	})
}

func (s *Store) SchedulePost(ctx context.Context, id string, publishAt string) (*domain.Post, error) {
	at, err := domain.ParseTimestamp(publishAt)
	if err != nil {
		return nil, domain.NewValidationError("publishAt", "%v", err)
	}
	return s.transition(ctx, id, "schedule", func(p *domain.Post, _ time.Time) {
		p.Status = domain.PostScheduled
		p.ScheduledAt = &at
	})
}

func (s *Store) ArchivePost(ctx context.Context, id string) (*domain.Post, error) {
	return s.transition(ctx, id, "archive", func(p *domain.Post, _ time.Time) {
		p.Status = domain.PostArchived
	})
}

// IncrementViewCount учитывает просмотр: счётчик поста, дневную корзину
// и источник перехода из заголовка Referer запроса.
func (s *Store) IncrementViewCount(ctx context.Context, id string) (*domain.Post, error) {
	source := referrerSource(reqmeta.From(ctx).Referer)

	s.mu.Lock()
	defer s.unlock()

	p, ok := s.posts.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityPost, id)
	}
	p.ViewCount++
	bump(s.views, id, s.clock().Format(time.DateOnly))
	bump(s.referrers, id, source)
	metrics.StoreMutation("increment_view_count")
	return p.Clone(), nil
}

func bump(m map[string]map[string]int, id, key string) {
	bucket, ok := m[id]
	if !ok {
		bucket = make(map[string]int)
		m[id] = bucket
	}
	bucket[key]++
}

func (s *Store) BulkDeletePosts(ctx context.Context, ids []string) (*domain.BulkResult, error) {
	s.mu.Lock()
	defer s.unlock()

	var deleted []string
	for _, id := range ids {
		p, ok := s.posts.Get(id)
		if !ok {
			continue
		}
		s.auditLocked(ctx, "bulk_delete", domain.EntityPost, id, p, nil)
		s.deletePostLocked(p)
		deleted = append(deleted, id)
	}
	metrics.StoreMutation("bulk_delete_posts")
	return domain.NewBulkResult(deleted), nil
}

func (s *Store) BulkPublishPosts(ctx context.Context, ids []string) (*domain.BulkResult, error) {
	s.mu.Lock()
	defer s.unlock()

	now := s.clock()
	var published []string
	for _, id := range dedupe(ids) {
		p, ok := s.posts.Get(id)
		if !ok {
			continue
		}
		before := publicationState(p)
		publishedAt := now
		p.Status = domain.PostPublished
		p.PublishedAt = &publishedAt
		p.UpdatedAt = now
		s.auditLocked(ctx, "bulk_publish", domain.EntityPost, id, before, publicationState(p))
		published = append(published, id)
	}
	metrics.StoreMutation("bulk_publish_posts")
	return domain.NewBulkResult(published), nil
}
