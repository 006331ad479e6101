package inmemory

import (
	"context"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/metrics"
)

// targetKey - ключ индекса лайков по цели.
func targetKey(t domain.TargetType, id string) string {
	return string(t) + ":" + id
}

func (s *Store) findLikeLocked(t domain.TargetType, targetID, userID string) *domain.Like {
	for _, l := range s.likes.Lookup(s.likesByTarget.get(targetKey(t, targetID))) {
		if l.UserID == userID {
			return l
		}
	}
	return nil
}

func (s *Store) findFollowLocked(followerID, followingID string) *domain.Follow {
	for _, f := range s.follows.Lookup(s.followsByFollower.get(followerID)) {
		if f.FollowingID == followingID {
			return f
		}
	}
	return nil
}

func (s *Store) findBookmarkLocked(userID, postID string) *domain.Bookmark {
	for _, b := range s.bookmarks.Lookup(s.bookmarksByUser.get(userID)) {
		if b.PostID == postID {
			return b
		}
	}
	return nil
}

func (s *Store) HasLiked(ctx context.Context, target domain.TargetType, targetID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLikeLocked(target, targetID, userID) != nil, nil
}

func (s *Store) HasBookmarked(ctx context.Context, userID, postID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findBookmarkLocked(userID, postID) != nil, nil
}

// UserBookmarks - закладки пользователя в порядке добавления.
func (s *Store) UserBookmarks(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.bookmarks.Lookup(s.bookmarksByUser.get(userID))), nil
}

func (s *Store) insertLikeLocked(l *domain.Like) {
	s.likes.Put(l.ID, l)
	s.likesByTarget.add(targetKey(l.TargetType, l.TargetID), l.ID)
	s.likesByUser.add(l.UserID, l.ID)
}

// likeTargetLocked возвращает счётчик лайков цели, её автора и пост для уведомления.
func (s *Store) likeTargetLocked(t domain.TargetType, id string) (counter *int, authorID string, postID *string, ok bool) {
	switch t {
	case domain.TargetPost:
		p, found := s.posts.Get(id)
		if !found {
			return nil, "", nil, false
		}
		pid := p.ID
		return &p.LikeCount, p.AuthorID, &pid, true
	case domain.TargetComment:
		c, found := s.comments.Get(id)
		if !found {
			return nil, "", nil, false
		}
		pid := c.PostID
		return &c.LikeCount, c.AuthorID, &pid, true
	}
	return nil, "", nil, false
}

// Like ставит отметку. Повторный лайк возвращает существующую запись и не трогает счётчики.
func (s *Store) Like(ctx context.Context, target domain.TargetType, targetID, userID string) (*domain.Like, error) {
	s.mu.Lock()
	defer s.unlock()

	counter, authorID, postID, found := s.likeTargetLocked(target, targetID)
	liker, userOK := s.users.Get(userID)
	var errs refErrors
	errs.check(found, string(target)+"Id", "%s %q does not exist", target, targetID)
	errs.check(userOK, "userId", "user %q does not exist", userID)
	if err := errs.err(); err != nil {
		return nil, err
	}

	if existing := s.findLikeLocked(target, targetID, userID); existing != nil {
		return existing.Clone(), nil
	}

	l := &domain.Like{
		ID:         s.ids.Next(domain.EntityLike),
		UserID:     userID,
		TargetType: target,
		TargetID:   targetID,
		CreatedAt:  s.clock(),
	}
	s.insertLikeLocked(l)
	*counter++

	s.notifyLocked(authorID, userID, domain.NotificationLike,
		"New like", liker.Name+" liked your "+string(target), postID)
	metrics.StoreMutation("like")
	return l.Clone(), nil
}

// Unlike снимает отметку. Без отметки возвращает {success: false, id: ""}.
func (s *Store) Unlike(ctx context.Context, target domain.TargetType, targetID, userID string) (*domain.DeleteResult, error) {
	s.mu.Lock()
	defer s.unlock()

	l := s.findLikeLocked(target, targetID, userID)
	if l == nil {
		return &domain.DeleteResult{Success: false, ID: ""}, nil
	}
	s.removeLikeLocked(l)
	metrics.StoreMutation("unlike")
	return &domain.DeleteResult{Success: true, ID: l.ID}, nil
}

// removeLikeLocked удаляет лайк и уменьшает счётчик цели.
func (s *Store) removeLikeLocked(l *domain.Like) {
	switch l.TargetType {
	case domain.TargetPost:
		if p, ok := s.posts.Get(l.TargetID); ok {
			s.decrement("post.likeCount", p.ID, &p.LikeCount)
		}
	case domain.TargetComment:
		if c, ok := s.comments.Get(l.TargetID); ok {
			s.decrement("comment.likeCount", c.ID, &c.LikeCount)
		}
	}
	s.dropLikeLocked(l)
}

// dropLikeLocked удаляет лайк без правки счётчика: цель удаляется вместе с ним.
func (s *Store) dropLikeLocked(l *domain.Like) {
	s.likesByTarget.remove(targetKey(l.TargetType, l.TargetID), l.ID)
	s.likesByUser.remove(l.UserID, l.ID)
	s.likes.Delete(l.ID)
}

func (s *Store) insertFollowLocked(f *domain.Follow) {
	s.follows.Put(f.ID, f)
	s.followsByFollower.add(f.FollowerID, f.ID)
	s.followsByFollowing.add(f.FollowingID, f.ID)
}

func (s *Store) Follow(ctx context.Context, followerID, followingID string) (*domain.Follow, error) {
	if followerID == followingID {
		return nil, domain.NewValidationError("followingId", "user cannot follow themselves")
	}

	s.mu.Lock()
	defer s.unlock()

	follower, ok := s.users.Get(followerID)
	var errs refErrors
	errs.check(ok, "followerId", "user %q does not exist", followerID)
	errs.check(s.users.Has(followingID), "followingId", "user %q does not exist", followingID)
	if err := errs.err(); err != nil {
		return nil, err
	}

	if existing := s.findFollowLocked(followerID, followingID); existing != nil {
		return existing.Clone(), nil
	}

	f := &domain.Follow{
		ID:          s.ids.Next(domain.EntityFollow),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   s.clock(),
	}
	s.insertFollowLocked(f)
	s.notifyLocked(followingID, followerID, domain.NotificationFollow,
		"New follower", follower.Name+" started following you", nil)
	metrics.StoreMutation("follow")
	return f.Clone(), nil
}

func (s *Store) Unfollow(ctx context.Context, followerID, followingID string) (*domain.DeleteResult, error) {
	s.mu.Lock()
	defer s.unlock()

	f := s.findFollowLocked(followerID, followingID)
	if f == nil {
		return &domain.DeleteResult{Success: false, ID: ""}, nil
	}
	s.removeFollowLocked(f)
	metrics.StoreMutation("unfollow")
	return &domain.DeleteResult{Success: true, ID: f.ID}, nil
}

func (s *Store) removeFollowLocked(f *domain.Follow) {
	s.followsByFollower.remove(f.FollowerID, f.ID)
	s.followsByFollowing.remove(f.FollowingID, f.ID)
	s.follows.Delete(f.ID)
}

func (s *Store) insertBookmarkLocked(b *domain.Bookmark) {
	s.bookmarks.Put(b.ID, b)
	s.bookmarksByUser.add(b.UserID, b.ID)
	s.bookmarksByPost.add(b.PostID, b.ID)
}

// Bookmark добавляет пост в закладки. Повторный вызов возвращает
// существующую закладку, обновив заметку, если она передана.
func (s *Store) Bookmark(ctx context.Context, userID, postID string, note *string) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.unlock()

	var errs refErrors
	errs.check(s.users.Has(userID), "userId", "user %q does not exist", userID)
	errs.check(s.posts.Has(postID), "postId", "post %q does not exist", postID)
	if err := errs.err(); err != nil {
		return nil, err
	}

	if existing := s.findBookmarkLocked(userID, postID); existing != nil {
		if note != nil {
			n := *note
			existing.Note = &n
		}
		return existing.Clone(), nil
	}

	b := &domain.Bookmark{
		ID:        s.ids.Next(domain.EntityBookmark),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: s.clock(),
	}
	if note != nil {
		n := *note
		b.Note = &n
	}
	s.insertBookmarkLocked(b)
	metrics.StoreMutation("bookmark")
	return b.Clone(), nil
}

func (s *Store) RemoveBookmark(ctx context.Context, userID, postID string) (*domain.DeleteResult, error) {
	s.mu.Lock()
	defer s.unlock()

	b := s.findBookmarkLocked(userID, postID)
	if b == nil {
		return &domain.DeleteResult{Success: false, ID: ""}, nil
	}
	s.removeBookmarkLocked(b)
	metrics.StoreMutation("remove_bookmark")
	return &domain.DeleteResult{Success: true, ID: b.ID}, nil
}

func (s *Store) removeBookmarkLocked(b *domain.Bookmark) {
	s.bookmarksByUser.remove(b.UserID, b.ID)
	s.bookmarksByPost.remove(b.PostID, b.ID)
	s.bookmarks.Delete(b.ID)
}
