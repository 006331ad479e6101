package storage

import (
	"context"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/query"
)

// Аргументы списочных выборок. Page - offset-пагинация поверх уже
// отфильтрованной и отсортированной выборки.

type UserQuery struct {
	Filter *domain.UserFilter
	Sort   *domain.UserSort
	Page   query.Page
}

type PostQuery struct {
	Filter *domain.PostFilter
	Sort   *domain.PostSort
	Page   query.Page
}

type CommentQuery struct {
	Filter *domain.CommentFilter
	Page   query.Page
}

// CategoryQuery: RootsOnly - только корневые, ParentID - дети узла, иначе все.
type CategoryQuery struct {
	ParentID  *string
	RootsOnly bool
}

type AuditQuery struct {
	EntityType *string
	EntityID   *string
	Limit      *int
}

// UserCounters - вычисляемые счётчики пользователя.
type UserCounters struct {
	Posts     int
	Followers int
	Following int
}

// Users - пользователи и граф подписок.
type Users interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context, q UserQuery) ([]*domain.User, error)
	UsersConnection(ctx context.Context, filter *domain.UserFilter, sort *domain.UserSort, args query.CursorArgs) (*query.Connection[*domain.User], error)
	UsersByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	UserCounters(ctx context.Context, userID string) (UserCounters, error)
	Followers(ctx context.Context, userID string) ([]*domain.User, error)
	Following(ctx context.Context, userID string) ([]*domain.User, error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)

	CreateUser(ctx context.Context, in domain.CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in domain.UpdateUserInput) (*domain.User, error)
	UpdateUserPreferences(ctx context.Context, id string, in domain.UpdatePreferencesInput) (*domain.User, error)
	SetUserStatus(ctx context.Context, id string, status domain.UserStatus, reason *string) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) (*domain.DeleteResult, error)
}

// Posts - посты, их жизненный цикл и подборки.
type Posts interface {
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error)
	ListPosts(ctx context.Context, q PostQuery) ([]*domain.Post, error)
	PostsConnection(ctx context.Context, filter *domain.PostFilter, sort *domain.PostSort, args query.CursorArgs) (*query.Connection[*domain.Post], error)
	PostsByIDs(ctx context.Context, ids []string) (map[string]*domain.Post, error)
	RelatedPosts(ctx context.Context, postID string, limit int) ([]*domain.Post, error)
	Feed(ctx context.Context, userID string, page query.Page) ([]*domain.Post, error)
	Trending(ctx context.Context, limit int, period domain.TrendingPeriod) ([]*domain.Post, error)
	Recommended(ctx context.Context, userID *string, limit int) ([]*domain.Post, error)

	CreatePost(ctx context.Context, in domain.CreatePostInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, id string, in domain.UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, id string) (*domain.DeleteResult, error)
	PublishPost(ctx context.Context, id string) (*domain.Post, error)
	UnpublishPost(ctx context.Context, id string) (*domain.Post, error)
	SchedulePost(ctx context.Context, id string, publishAt string) (*domain.Post, error)
	ArchivePost(ctx context.Context, id string) (*domain.Post, error)
	IncrementViewCount(ctx context.Context, id string) (*domain.Post, error)
	BulkDeletePosts(ctx context.Context, ids []string) (*domain.BulkResult, error)
	BulkPublishPosts(ctx context.Context, ids []string) (*domain.BulkResult, error)
}

// Taxonomy - дерево категорий и метки.
type Taxonomy interface {
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListCategories(ctx context.Context, q CategoryQuery) ([]*domain.Category, error)
	CategoriesByIDs(ctx context.Context, ids []string) (map[string]*domain.Category, error)
	CategoryPostCount(ctx context.Context, categoryID string) (int, error)

	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	ListTags(ctx context.Context, limit *int, orderByUsage bool) ([]*domain.Tag, error)
	TagsByIDs(ctx context.Context, ids []string) (map[string]*domain.Tag, error)

	CreateCategory(ctx context.Context, in domain.CreateCategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in domain.UpdateCategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) (*domain.DeleteResult, error)

	CreateTag(ctx context.Context, in domain.CreateTagInput) (*domain.Tag, error)
	UpdateTag(ctx context.Context, id string, in domain.UpdateTagInput) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) (*domain.DeleteResult, error)
	MergeTags(ctx context.Context, sourceID, targetID string) (*domain.Tag, error)
}

// Comments - комментарии и их иерархия.
type Comments interface {
	GetComment(ctx context.Context, id string) (*domain.Comment, error)
	ListComments(ctx context.Context, q CommentQuery) ([]*domain.Comment, error)
	CommentsConnection(ctx context.Context, filter *domain.CommentFilter, args query.CursorArgs) (*query.Connection[*domain.Comment], error)
	CommentsByIDs(ctx context.Context, ids []string) (map[string]*domain.Comment, error)
	// CommentsByParentIDs - ответы на каждый комментарий, от старых к новым (для Dataloader'а).
	CommentsByParentIDs(ctx context.Context, parentIDs []string) (map[string][]*domain.Comment, error)

	CreateComment(ctx context.Context, in domain.CreateCommentInput) (*domain.Comment, error)
	UpdateComment(ctx context.Context, id, content string) (*domain.Comment, error)
	SetCommentStatus(ctx context.Context, id string, status domain.CommentStatus) (*domain.Comment, error)
	DeleteComment(ctx context.Context, id string) (*domain.DeleteResult, error)
	BulkDeleteComments(ctx context.Context, ids []string) (*domain.BulkResult, error)
}

// Social - лайки, подписки, закладки.
type Social interface {
	HasLiked(ctx context.Context, target domain.TargetType, targetID, userID string) (bool, error)
	HasBookmarked(ctx context.Context, userID, postID string) (bool, error)
	UserBookmarks(ctx context.Context, userID string) ([]*domain.Bookmark, error)

	Like(ctx context.Context, target domain.TargetType, targetID, userID string) (*domain.Like, error)
	Unlike(ctx context.Context, target domain.TargetType, targetID, userID string) (*domain.DeleteResult, error)
	Follow(ctx context.Context, followerID, followingID string) (*domain.Follow, error)
	Unfollow(ctx context.Context, followerID, followingID string) (*domain.DeleteResult, error)
	Bookmark(ctx context.Context, userID, postID string, note *string) (*domain.Bookmark, error)
	RemoveBookmark(ctx context.Context, userID, postID string) (*domain.DeleteResult, error)
}

type Notifications interface {
	GetNotification(ctx context.Context, id string) (*domain.Notification, error)
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit *int) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (*domain.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) (int, error)
	DeleteNotification(ctx context.Context, id string) (*domain.DeleteResult, error)
}

type MediaLibrary interface {
	GetMedia(ctx context.Context, id string) (*domain.Media, error)
	ListMedia(ctx context.Context, uploaderID *string, limit *int) ([]*domain.Media, error)
	CreateMedia(ctx context.Context, in domain.CreateMediaInput) (*domain.Media, error)
	UpdateMedia(ctx context.Context, id string, in domain.UpdateMediaInput) (*domain.Media, error)
	DeleteMedia(ctx context.Context, id string) (*domain.DeleteResult, error)
}

// Insights - поиск, агрегаты, аналитика и журнал аудита.
type Insights interface {
	Search(ctx context.Context, q string, types []domain.SearchType) (*domain.SearchResults, error)
	Stats(ctx context.Context) (*domain.Stats, error)
	UserStats(ctx context.Context, userID string) (*domain.UserStats, error)
	PostAnalytics(ctx context.Context, postID string) (*domain.PostAnalytics, error)
	ListAuditLogs(ctx context.Context, q AuditQuery) ([]*domain.AuditLog, error)
}

// Storage определяет контракт хранилища. Все возвращаемые записи - копии:
// изменять их можно без влияния на хранилище.
type Storage interface {
	Users
	Posts
	Taxonomy
	Comments
	Social
	Notifications
	MediaLibrary
	Insights
}

// Listener получает события после завершения мутации (вне блокировки хранилища).
type Listener interface {
	CommentCreated(c *domain.Comment)
	NotificationCreated(n *domain.Notification)
}
