package graph

import (
	"context"

	"github.com/UkralStul/orion-graphql/graph/model"
	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/query"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

// === User Resolvers ===

func (r *userResolver) Posts(ctx context.Context, obj *domain.User, args model.UserPostsArgs) ([]*domain.Post, error) {
	return r.Storage.ListPosts(ctx, storage.PostQuery{
		Filter: &domain.PostFilter{AuthorID: &obj.ID, Status: args.Status},
		Page:   query.Page{Limit: args.Limit, Offset: args.Offset},
	})
}

func (r *userResolver) Comments(ctx context.Context, obj *domain.User, args model.LimitArgs) ([]*domain.Comment, error) {
	return r.Storage.ListComments(ctx, storage.CommentQuery{
		Filter: &domain.CommentFilter{AuthorID: &obj.ID},
		Page:   query.Limit(args.Limit),
	})
}

func (r *userResolver) Bookmarks(ctx context.Context, obj *domain.User) ([]*domain.Bookmark, error) {
	return r.Storage.UserBookmarks(ctx, obj.ID)
}

func (r *userResolver) Notifications(ctx context.Context, obj *domain.User, args model.UnreadArgs) ([]*domain.Notification, error) {
	return r.Storage.ListNotifications(ctx, obj.ID, deref(args.UnreadOnly), nil)
}

func (r *userResolver) Followers(ctx context.Context, obj *domain.User) ([]*domain.User, error) {
	return r.Storage.Followers(ctx, obj.ID)
}

func (r *userResolver) Following(ctx context.Context, obj *domain.User) ([]*domain.User, error) {
	return r.Storage.Following(ctx, obj.ID)
}

func (r *userResolver) PostCount(ctx context.Context, obj *domain.User) (int, error) {
	c, err := r.Storage.UserCounters(ctx, obj.ID)
	return c.Posts, err
}

func (r *userResolver) FollowerCount(ctx context.Context, obj *domain.User) (int, error) {
	c, err := r.Storage.UserCounters(ctx, obj.ID)
	return c.Followers, err
}

func (r *userResolver) FollowingCount(ctx context.Context, obj *domain.User) (int, error) {
	c, err := r.Storage.UserCounters(ctx, obj.ID)
	return c.Following, err
}

// IsFollowedBy - подписан ли args.UserID на obj.
func (r *userResolver) IsFollowedBy(ctx context.Context, obj *domain.User, args model.ByUserArgs) (bool, error) {
	return r.Storage.IsFollowing(ctx, args.UserID, obj.ID)
}

// === Category Resolvers ===

func (r *categoryResolver) Parent(ctx context.Context, obj *domain.Category) (*domain.Category, error) {
	if obj.ParentID == nil {
		return nil, nil
	}
	return r.category(ctx, *obj.ParentID)
}

func (r *categoryResolver) Children(ctx context.Context, obj *domain.Category) ([]*domain.Category, error) {
	return r.Storage.ListCategories(ctx, storage.CategoryQuery{ParentID: &obj.ID})
}

func (r *categoryResolver) Posts(ctx context.Context, obj *domain.Category, args model.CategoryPostsArgs) ([]*domain.Post, error) {
	return r.Storage.ListPosts(ctx, storage.PostQuery{
		Filter: &domain.PostFilter{CategoryID: &obj.ID, Status: args.Status},
		Page:   query.Limit(args.Limit),
	})
}

func (r *categoryResolver) PostCount(ctx context.Context, obj *domain.Category) (int, error) {
	return r.Storage.CategoryPostCount(ctx, obj.ID)
}

// === Tag Resolvers ===

// Posts - только опубликованные посты с меткой.
func (r *tagResolver) Posts(ctx context.Context, obj *domain.Tag, args model.LimitArgs) ([]*domain.Post, error) {
	published := domain.PostPublished
	return r.Storage.ListPosts(ctx, storage.PostQuery{
		Filter: &domain.PostFilter{TagIDs: []string{obj.ID}, Status: &published},
		Page:   query.Limit(args.Limit),
	})
}

// === Post Resolvers ===

func (r *postResolver) Author(ctx context.Context, obj *domain.Post) (*domain.User, error) {
	return r.user(ctx, obj.AuthorID)
}

func (r *postResolver) Category(ctx context.Context, obj *domain.Post) (*domain.Category, error) {
	return r.category(ctx, obj.CategoryID)
}

func (r *postResolver) Tags(ctx context.Context, obj *domain.Post) ([]*domain.Tag, error) {
	return r.tags(ctx, obj.TagIDs)
}

// Comments - комментарии верхнего уровня.
func (r *postResolver) Comments(ctx context.Context, obj *domain.Post, args model.PostCommentsArgs) ([]*domain.Comment, error) {
	return r.Storage.ListComments(ctx, storage.CommentQuery{
		Filter: &domain.CommentFilter{PostID: &obj.ID, Status: args.Status, TopLevelOnly: true},
		Page:   query.Limit(args.Limit),
	})
}

func (r *postResolver) RelatedPosts(ctx context.Context, obj *domain.Post, args model.LimitArgs) ([]*domain.Post, error) {
	return r.Storage.RelatedPosts(ctx, obj.ID, orDefault(args.Limit, defaultRelatedLimit))
}

func (r *postResolver) IsLikedBy(ctx context.Context, obj *domain.Post, args model.ByUserArgs) (bool, error) {
	return r.Storage.HasLiked(ctx, domain.TargetPost, obj.ID, args.UserID)
}

func (r *postResolver) IsBookmarkedBy(ctx context.Context, obj *domain.Post, args model.ByUserArgs) (bool, error) {
	return r.Storage.HasBookmarked(ctx, args.UserID, obj.ID)
}

// === Comment Resolvers ===

func (r *commentResolver) Post(ctx context.Context, obj *domain.Comment) (*domain.Post, error) {
	return r.post(ctx, obj.PostID)
}

func (r *commentResolver) Author(ctx context.Context, obj *domain.Comment) (*domain.User, error) {
	return r.user(ctx, obj.AuthorID)
}

// Parent резолвер для получения родительского комментария.
func (r *commentResolver) Parent(ctx context.Context, obj *domain.Comment) (*domain.Comment, error) {
	if obj.ParentID == nil {
		return nil, nil
	}
	return r.comment(ctx, *obj.ParentID)
}

// Replies загружает ответы одним пакетом на весь уровень дерева, limit применяется после.
func (r *commentResolver) Replies(ctx context.Context, obj *domain.Comment, args model.LimitArgs) ([]*domain.Comment, error) {
	replies, err := r.replies(ctx, obj.ID)
	if err != nil {
		return nil, err
	}
	return query.Offset(replies, query.Limit(args.Limit))
}

func (r *commentResolver) ReplyCount(ctx context.Context, obj *domain.Comment) (int, error) {
	replies, err := r.replies(ctx, obj.ID)
	return len(replies), err
}

func (r *commentResolver) IsLikedBy(ctx context.Context, obj *domain.Comment, args model.ByUserArgs) (bool, error) {
	return r.Storage.HasLiked(ctx, domain.TargetComment, obj.ID, args.UserID)
}

// === Like / Follow / Bookmark Resolvers ===

func (r *likeResolver) User(ctx context.Context, obj *domain.Like) (*domain.User, error) {
	return r.user(ctx, obj.UserID)
}

func (r *likeResolver) Post(ctx context.Context, obj *domain.Like) (*domain.Post, error) {
	if obj.TargetType != domain.TargetPost {
		return nil, nil
	}
	return r.post(ctx, obj.TargetID)
}

func (r *likeResolver) Comment(ctx context.Context, obj *domain.Like) (*domain.Comment, error) {
	if obj.TargetType != domain.TargetComment {
		return nil, nil
	}
	return r.comment(ctx, obj.TargetID)
}

func (r *followResolver) Follower(ctx context.Context, obj *domain.Follow) (*domain.User, error) {
	return r.user(ctx, obj.FollowerID)
}

func (r *followResolver) Following(ctx context.Context, obj *domain.Follow) (*domain.User, error) {
	return r.user(ctx, obj.FollowingID)
}

func (r *bookmarkResolver) User(ctx context.Context, obj *domain.Bookmark) (*domain.User, error) {
	return r.user(ctx, obj.UserID)
}

func (r *bookmarkResolver) Post(ctx context.Context, obj *domain.Bookmark) (*domain.Post, error) {
	return r.post(ctx, obj.PostID)
}

// === Notification / Media / AuditLog Resolvers ===

func (r *notificationResolver) User(ctx context.Context, obj *domain.Notification) (*domain.User, error) {
	return r.user(ctx, obj.UserID)
}

// RelatedPost - null, если пост уже удалён.
func (r *notificationResolver) RelatedPost(ctx context.Context, obj *domain.Notification) (*domain.Post, error) {
	if obj.RelatedPostID == nil {
		return nil, nil
	}
	return r.post(ctx, *obj.RelatedPostID)
}

func (r *notificationResolver) RelatedUser(ctx context.Context, obj *domain.Notification) (*domain.User, error) {
	if obj.RelatedUserID == nil {
		return nil, nil
	}
	return r.user(ctx, *obj.RelatedUserID)
}

func (r *mediaResolver) Uploader(ctx context.Context, obj *domain.Media) (*domain.User, error) {
	return r.user(ctx, obj.UploaderID)
}

func (r *auditLogResolver) User(ctx context.Context, obj *domain.AuditLog) (*domain.User, error) {
	if obj.UserID == nil {
		return nil, nil
	}
	return r.user(ctx, *obj.UserID)
}
