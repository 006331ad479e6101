package inmemory

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/metrics"
	"github.com/UkralStul/orion-graphql/internal/query"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

// === Comment Methods ===

var commentCreatedAt = func(c *domain.Comment) time.Time { return c.CreatedAt }

func (s *Store) GetComment(ctx context.Context, id string) (*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityComment, id)
	}
	return c.Clone(), nil
}

func (s *Store) CommentsByIDs(ctx context.Context, ids []string) (map[string]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.comments.Lookup(ids), func(c *domain.Comment) string { return c.ID }), nil
}

func (s *Store) commentCandidatesLocked(f *domain.CommentFilter) []*domain.Comment {
	if f == nil {
		return s.comments.All()
	}
	var n narrowing
	if f.PostID != nil {
		n.offer(s.commentsByPost.get(*f.PostID))
	}
	if f.AuthorID != nil {
		n.offer(s.commentsByAuthor.get(*f.AuthorID))
	}
	if f.ParentID != nil && !f.TopLevelOnly {
		n.offer(s.commentsByParent.get(*f.ParentID))
	}
	if !n.ok {
		return s.comments.All()
	}
	return s.comments.LookupOrdered(n.ids)
}

// selectCommentsLocked сужает выборку по обратному индексу, если фильтр это позволяет.
func (s *Store) selectCommentsLocked(filter *domain.CommentFilter) []*domain.Comment {
	out := query.Filter(s.commentCandidatesLocked(filter), query.CommentPredicate(filter))
	query.SortStable(out, query.Desc(query.ByCreatedAt(commentCreatedAt)))
	return out
}

// ListComments - комментарии по фильтру, новые первыми.
func (s *Store) ListComments(ctx context.Context, q storage.CommentQuery) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, err := query.Offset(s.selectCommentsLocked(q.Filter), q.Page)
	if err != nil {
		return nil, err
	}
	return cloneAll(page), nil
}

func (s *Store) CommentsConnection(ctx context.Context, filter *domain.CommentFilter, args query.CursorArgs) (*query.Connection[*domain.Comment], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginateClones(s.selectCommentsLocked(filter), args, func(c *domain.Comment) string { return c.ID })
}

// CommentsByParentIDs реализует метод для Dataloader'а: ответы, от старых к новым.
func (s *Store) CommentsByParentIDs(ctx context.Context, parentIDs []string) (map[string][]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]*domain.Comment, len(parentIDs))
	for _, pid := range parentIDs {
		replies := s.comments.Lookup(s.commentsByParent.get(pid))
		query.SortStable(replies, query.ByCreatedAt(commentCreatedAt))
		result[pid] = cloneAll(replies)
	}
	return result, nil
}

func (s *Store) insertCommentLocked(c *domain.Comment) {
	s.comments.Put(c.ID, c)
	s.commentsByPost.add(c.PostID, c.ID)
	s.commentsByAuthor.add(c.AuthorID, c.ID)
	if c.ParentID != nil {
		s.commentsByParent.add(*c.ParentID, c.ID)
	}
}

func checkCommentContent(content string) error {
	if utf8.RuneCountInString(content) > domain.MaxCommentLength {
		return domain.NewValidationError("content", "comment content is too long")
	}
	if strings.TrimSpace(content) == "" {
		return domain.NewValidationError("content", "comment content cannot be empty")
	}
	return nil
}

// CreateComment создает комментарий в статусе pending и уведомляет автора поста.
func (s *Store) CreateComment(ctx context.Context, in domain.CreateCommentInput) (*domain.Comment, error) {
	if err := checkCommentContent(in.Content); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.unlock()

	post, postOK := s.posts.Get(in.PostID)
	var errs refErrors
	errs.check(postOK, "postId", "post %q does not exist", in.PostID)
	errs.check(s.users.Has(in.AuthorID), "authorId", "user %q does not exist", in.AuthorID)
	if in.ParentID != nil {
		parent, ok := s.comments.Get(*in.ParentID)
		switch {
		case !ok:
			errs.check(false, "parentId", "comment %q does not exist", *in.ParentID)
		case parent.PostID != in.PostID:
			errs.check(false, "parentId", "comment %q belongs to another post", *in.ParentID)
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	now := s.clock()
	c := &domain.Comment{
		ID:        s.ids.Next(domain.EntityComment),
		PostID:    in.PostID,
		AuthorID:  in.AuthorID,
		Content:   in.Content,
		Status:    domain.CommentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.ParentID != nil {
		parentID := *in.ParentID
		c.ParentID = &parentID
	}
	s.insertCommentLocked(c)
	post.CommentCount++

	s.emitCommentLocked(c)
	if author, ok := s.users.Get(in.AuthorID); ok {
		postID := post.ID
		s.notifyLocked(post.AuthorID, in.AuthorID, domain.NotificationComment,
			"New comment", author.Name+" commented on your post", &postID)
	}
	metrics.StoreMutation("create_comment")
	return c.Clone(), nil
}

func (s *Store) UpdateComment(ctx context.Context, id, content string) (*domain.Comment, error) {
	if err := checkCommentContent(content); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.unlock()

	c, ok := s.comments.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityComment, id)
	}
	c.Content = content
	c.UpdatedAt = s.clock()
	metrics.StoreMutation("update_comment")
	return c.Clone(), nil
}

// SetCommentStatus - модерация: approved или spam.
func (s *Store) SetCommentStatus(ctx context.Context, id string, status domain.CommentStatus) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.unlock()

	c, ok := s.comments.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityComment, id)
	}
	c.Status = status
	c.UpdatedAt = s.clock()
	metrics.StoreMutation("moderate_comment")
	return c.Clone(), nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) (*domain.DeleteResult, error) {
	s.mu.Lock()
	defer s.unlock()

	c, ok := s.comments.Get(id)
	if !ok {
		return &domain.DeleteResult{Success: false, ID: id}, nil
	}
	s.auditLocked(ctx, "delete", domain.EntityComment, id, c, nil)
	s.deleteCommentLocked(c)
	metrics.StoreMutation("delete_comment")
	return &domain.DeleteResult{Success: true, ID: id}, nil
}

func (s *Store) BulkDeleteComments(ctx context.Context, ids []string) (*domain.BulkResult, error) {
	s.mu.Lock()
	defer s.unlock()

	var deleted []string
	for _, id := range ids {
		c, ok := s.comments.Get(id)
		if !ok {
			continue
		}
		s.auditLocked(ctx, "bulk_delete", domain.EntityComment, id, c, nil)
		s.deleteCommentLocked(c)
		deleted = append(deleted, id)
	}
	metrics.StoreMutation("bulk_delete_comments")
	return domain.NewBulkResult(deleted), nil
}

// deleteCommentLocked удаляет одиночный комментарий: прямые ответы переходят
// к его родителю, лайки комментария удаляются, commentCount поста уменьшается.
func (s *Store) deleteCommentLocked(c *domain.Comment) {
	for _, reply := range s.comments.Lookup(s.commentsByParent.get(c.ID)) {
		if c.ParentID != nil {
			grandparent := *c.ParentID
			reply.ParentID = &grandparent
			s.commentsByParent.add(grandparent, reply.ID)
		} else {
			reply.ParentID = nil
		}
	}
	delete(s.commentsByParent, c.ID)

	if post, ok := s.posts.Get(c.PostID); ok {
		s.decrement("post.commentCount", post.ID, &post.CommentCount)
	}
	s.dropCommentLocked(c)
}

// dropCommentLocked убирает комментарий, его лайки и индексы без правки счётчиков поста.
// Используется каскадом удаления поста, где удаляются все комментарии сразу.
func (s *Store) dropCommentLocked(c *domain.Comment) {
	for _, l := range s.likes.Lookup(s.likesByTarget.get(targetKey(domain.TargetComment, c.ID))) {
		s.dropLikeLocked(l)
	}
	s.commentsByPost.remove(c.PostID, c.ID)
	s.commentsByAuthor.remove(c.AuthorID, c.ID)
	if c.ParentID != nil {
		s.commentsByParent.remove(*c.ParentID, c.ID)
	}
	delete(s.commentsByParent, c.ID)
	s.comments.Delete(c.ID)
}
