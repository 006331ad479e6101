package graph

import (
	"context"

	"github.com/UkralStul/orion-graphql/graph/model"
	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/query"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

// Размеры выборок по умолчанию.
const (
	defaultFeedLimit        = 20
	defaultTrendingLimit    = 10
	defaultRecommendedLimit = 10
	defaultRelatedLimit     = 5
)

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// === Query Resolvers ===

// Выборки одной записи возвращают null, если ключ не передан или запись не найдена.

func (r *queryResolver) User(ctx context.Context, args model.UserKeyArgs) (*domain.User, error) {
	switch {
	case args.ID != nil:
		return r.Storage.GetUser(ctx, *args.ID)
	case args.Username != nil:
		return r.Storage.GetUserByUsername(ctx, *args.Username)
	}
	return nil, nil
}

func (r *queryResolver) Post(ctx context.Context, args model.SlugKeyArgs) (*domain.Post, error) {
	switch {
	case args.ID != nil:
		return r.Storage.GetPost(ctx, *args.ID)
	case args.Slug != nil:
		return r.Storage.GetPostBySlug(ctx, *args.Slug)
	}
	return nil, nil
}

func (r *queryResolver) Category(ctx context.Context, args model.SlugKeyArgs) (*domain.Category, error) {
	switch {
	case args.ID != nil:
		return r.Storage.GetCategory(ctx, *args.ID)
	case args.Slug != nil:
		return r.Storage.GetCategoryBySlug(ctx, *args.Slug)
	}
	return nil, nil
}

func (r *queryResolver) Tag(ctx context.Context, args model.SlugKeyArgs) (*domain.Tag, error) {
	switch {
	case args.ID != nil:
		return r.Storage.GetTag(ctx, *args.ID)
	case args.Slug != nil:
		return r.Storage.GetTagBySlug(ctx, *args.Slug)
	}
	return nil, nil
}

func (r *queryResolver) Comment(ctx context.Context, args model.IDArgs) (*domain.Comment, error) {
	return r.Storage.GetComment(ctx, args.ID)
}

func (r *queryResolver) Notification(ctx context.Context, args model.IDArgs) (*domain.Notification, error) {
	return r.Storage.GetNotification(ctx, args.ID)
}

func (r *queryResolver) Media(ctx context.Context, args model.IDArgs) (*domain.Media, error) {
	return r.Storage.GetMedia(ctx, args.ID)
}

func (r *queryResolver) Users(ctx context.Context, args model.UsersArgs) ([]*domain.User, error) {
	return r.Storage.ListUsers(ctx, storage.UserQuery{
		Filter: args.Filter,
		Sort:   args.Sort,
		Page:   query.Page{Limit: args.Limit, Offset: args.Offset},
	})
}

func (r *queryResolver) Posts(ctx context.Context, args model.PostsArgs) ([]*domain.Post, error) {
	return r.Storage.ListPosts(ctx, storage.PostQuery{
		Filter: args.Filter,
		Sort:   args.Sort,
		Page:   query.Page{Limit: args.Limit, Offset: args.Offset},
	})
}

func (r *queryResolver) Categories(ctx context.Context, args model.CategoriesArgs) ([]*domain.Category, error) {
	return r.Storage.ListCategories(ctx, storage.CategoryQuery{ParentID: args.ParentID, RootsOnly: args.RootsOnly})
}

func (r *queryResolver) Tags(ctx context.Context, args model.TagsArgs) ([]*domain.Tag, error) {
	return r.Storage.ListTags(ctx, args.Limit, deref(args.OrderByUsage))
}

func (r *queryResolver) Comments(ctx context.Context, args model.CommentsArgs) ([]*domain.Comment, error) {
	return r.Storage.ListComments(ctx, storage.CommentQuery{
		Filter: args.Filter,
		Page:   query.Page{Limit: args.Limit, Offset: args.Offset},
	})
}

func (r *queryResolver) Notifications(ctx context.Context, args model.NotificationsArgs) ([]*domain.Notification, error) {
	return r.Storage.ListNotifications(ctx, args.UserID, deref(args.UnreadOnly), args.Limit)
}

func (r *queryResolver) MediaList(ctx context.Context, args model.MediaListArgs) ([]*domain.Media, error) {
	return r.Storage.ListMedia(ctx, args.UploaderID, args.Limit)
}

func (r *queryResolver) AuditLogs(ctx context.Context, args model.AuditLogsArgs) ([]*domain.AuditLog, error) {
	return r.Storage.ListAuditLogs(ctx, storage.AuditQuery{
		EntityType: args.EntityType,
		EntityID:   args.EntityID,
		Limit:      args.Limit,
	})
}

func (r *queryResolver) PostsConnection(ctx context.Context, args model.PostsConnectionArgs) (*query.Connection[*domain.Post], error) {
	return r.Storage.PostsConnection(ctx, args.Filter, args.Sort, query.CursorArgs{First: args.First, After: args.After})
}

func (r *queryResolver) UsersConnection(ctx context.Context, args model.UsersConnectionArgs) (*query.Connection[*domain.User], error) {
	return r.Storage.UsersConnection(ctx, args.Filter, args.Sort, query.CursorArgs{First: args.First, After: args.After})
}

func (r *queryResolver) CommentsConnection(ctx context.Context, args model.CommentsConnectionArgs) (*query.Connection[*domain.Comment], error) {
	return r.Storage.CommentsConnection(ctx, args.Filter, query.CursorArgs{First: args.First, After: args.After})
}

func (r *queryResolver) Search(ctx context.Context, args model.SearchArgs) (*domain.SearchResults, error) {
	return r.Storage.Search(ctx, args.Query, args.Types)
}

func (r *queryResolver) Stats(ctx context.Context) (*domain.Stats, error) {
	return r.Storage.Stats(ctx)
}

func (r *queryResolver) UserStats(ctx context.Context, args model.UserIDArgs) (*domain.UserStats, error) {
	return r.Storage.UserStats(ctx, args.UserID)
}

func (r *queryResolver) PostAnalytics(ctx context.Context, args model.PostIDArgs) (*domain.PostAnalytics, error) {
	return r.Storage.PostAnalytics(ctx, args.PostID)
}

func (r *queryResolver) Feed(ctx context.Context, args model.FeedArgs) ([]*domain.Post, error) {
	limit := orDefault(args.Limit, defaultFeedLimit)
	return r.Storage.Feed(ctx, args.UserID, query.Page{Limit: &limit, Offset: args.Offset})
}

func (r *queryResolver) Trending(ctx context.Context, args model.TrendingArgs) ([]*domain.Post, error) {
	return r.Storage.Trending(ctx, orDefault(args.Limit, defaultTrendingLimit), domain.TrendingPeriod(deref(args.Period)))
}

func (r *queryResolver) Recommended(ctx context.Context, args model.RecommendedArgs) ([]*domain.Post, error) {
	return r.Storage.Recommended(ctx, args.UserID, orDefault(args.Limit, defaultRecommendedLimit))
}

// === Subscription Resolvers ===

func (r *subscriptionResolver) CommentAdded(ctx context.Context, args model.PostIDArgs) (<-chan *domain.Comment, error) {
	// Проверяем, существует ли пост, прежде чем подписываться
	if _, err := r.Storage.GetPost(ctx, args.PostID); err != nil {
		return nil, err
	}
	return r.Hub.Comments.Subscribe(ctx, args.PostID), nil
}

func (r *subscriptionResolver) NotificationAdded(ctx context.Context, args model.UserIDArgs) (<-chan *domain.Notification, error) {
	if _, err := r.Storage.GetUser(ctx, args.UserID); err != nil {
		return nil, err
	}
	return r.Hub.Notifications.Subscribe(ctx, args.UserID), nil
}
