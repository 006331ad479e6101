package graph

import (
	"context"

	"github.com/UkralStul/orion-graphql/graph/model"
	"github.com/UkralStul/orion-graphql/internal/domain"
)

// === User Mutations ===

func (r *mutationResolver) CreateUser(ctx context.Context, args model.CreateUserArgs) (*domain.User, error) {
	return r.Storage.CreateUser(ctx, args.Input)
}

func (r *mutationResolver) UpdateUser(ctx context.Context, args model.UpdateUserArgs) (*domain.User, error) {
	return r.Storage.UpdateUser(ctx, args.ID, args.Input)
}

func (r *mutationResolver) UpdateUserPreferences(ctx context.Context, args model.UpdatePreferencesArgs) (*domain.User, error) {
	return r.Storage.UpdateUserPreferences(ctx, args.UserID, args.Input)
}

func (r *mutationResolver) DeleteUser(ctx context.Context, args model.IDArgs) (*domain.DeleteResult, error) {
	return r.Storage.DeleteUser(ctx, args.ID)
}

func (r *mutationResolver) SuspendUser(ctx context.Context, args model.SuspendUserArgs) (*domain.User, error) {
	return r.Storage.SetUserStatus(ctx, args.ID, domain.UserSuspended, args.Reason)
}

func (r *mutationResolver) ActivateUser(ctx context.Context, args model.IDArgs) (*domain.User, error) {
	return r.Storage.SetUserStatus(ctx, args.ID, domain.UserActive, nil)
}

// === Post Mutations ===

func (r *mutationResolver) CreatePost(ctx context.Context, args model.CreatePostArgs) (*domain.Post, error) {
	return r.Storage.CreatePost(ctx, args.Input)
}

func (r *mutationResolver) UpdatePost(ctx context.Context, args model.UpdatePostArgs) (*domain.Post, error) {
	return r.Storage.UpdatePost(ctx, args.ID, args.Input)
}

func (r *mutationResolver) DeletePost(ctx context.Context, args model.IDArgs) (*domain.DeleteResult, error) {
	return r.Storage.DeletePost(ctx, args.ID)
}

func (r *mutationResolver) PublishPost(ctx context.Context, args model.IDArgs) (*domain.Post, error) {
	return r.Storage.PublishPost(ctx, args.ID)
}

func (r *mutationResolver) UnpublishPost(ctx context.Context, args model.IDArgs) (*domain.Post, error) {
	return r.Storage.UnpublishPost(ctx, args.ID)
}

func (r *mutationResolver) SchedulePost(ctx context.Context, args model.SchedulePostArgs) (*domain.Post, error) {
	return r.Storage.SchedulePost(ctx, args.ID, args.PublishAt)
}

func (r *mutationResolver) ArchivePost(ctx context.Context, args model.IDArgs) (*domain.Post, error) {
	return r.Storage.ArchivePost(ctx, args.ID)
}

// IncrementViewCount учитывает просмотр; Referer запроса попадает в аналитику поста.
func (r *mutationResolver) IncrementViewCount(ctx context.Context, args model.IDArgs) (*domain.Post, error) {
	return r.Storage.IncrementViewCount(ctx, args.ID)
}

// === Category & Tag Mutations ===

func (r *mutationResolver) CreateCategory(ctx context.Context, args model.CreateCategoryArgs) (*domain.Category, error) {
	return r.Storage.CreateCategory(ctx, args.Input)
}

func (r *mutationResolver) UpdateCategory(ctx context.Context, args model.UpdateCategoryArgs) (*domain.Category, error) {
	return r.Storage.UpdateCategory(ctx, args.ID, args.Input)
}

func (r *mutationResolver) DeleteCategory(ctx context.Context, args model.IDArgs) (*domain.DeleteResult, error) {
	return r.Storage.DeleteCategory(ctx, args.ID)
}

func (r *mutationResolver) CreateTag(ctx context.Context, args model.CreateTagArgs) (*domain.Tag, error) {
	return r.Storage.CreateTag(ctx, args.Input)
}

func (r *mutationResolver) UpdateTag(ctx context.Context, args model.UpdateTagArgs) (*domain.Tag, error) {
	return r.Storage.UpdateTag(ctx, args.ID, args.Input)
}

func (r *mutationResolver) DeleteTag(ctx context.Context, args model.IDArgs) (*domain.DeleteResult, error) {
	return r.Storage.DeleteTag(ctx, args.ID)
}

func (r *mutationResolver) MergeTags(ctx context.Context, args model.MergeTagsArgs) (*domain.Tag, error) {
	return r.Storage.MergeTags(ctx, args.SourceID, args.TargetID)
}

// === Comment Mutations ===

// CreateComment сохраняет комментарий; подписчики commentAdded получают его
// через Hub после снятия блокировки хранилища.
func (r *mutationResolver) CreateComment(ctx context.Context, args model.CreateCommentArgs) (*domain.Comment, error) {
	return r.Storage.CreateComment(ctx, args.Input)
}

func (r *mutationResolver) UpdateComment(ctx context.Context, args model.UpdateCommentArgs) (*domain.Comment, error) {
	return r.Storage.UpdateComment(ctx, args.ID, args.Content)
}

func (r *mutationResolver) DeleteComment(ctx context.Context, args model.IDArgs) (*domain.DeleteResult, error) {
	return r.Storage.DeleteComment(ctx, args.ID)
}

func (r *mutationResolver) ApproveComment(ctx context.Context, args model.IDArgs) (*domain.Comment, error) {
	return r.Storage.SetCommentStatus(ctx, args.ID, domain.CommentApproved)
}

func (r *mutationResolver) MarkCommentAsSpam(ctx context.Context, args model.IDArgs) (*domain.Comment, error) {
	return r.Storage.SetCommentStatus(ctx, args.ID, domain.CommentSpam)
}

// === Social Mutations ===

func (r *mutationResolver) LikePost(ctx context.Context, args model.PostLikeArgs) (*domain.Like, error) {
	return r.Storage.Like(ctx, domain.TargetPost, args.PostID, args.UserID)
}

func (r *mutationResolver) UnlikePost(ctx context.Context, args model.PostLikeArgs) (*domain.DeleteResult, error) {
	return r.Storage.Unlike(ctx, domain.TargetPost, args.PostID, args.UserID)
}

func (r *mutationResolver) LikeComment(ctx context.Context, args model.CommentLikeArgs) (*domain.Like, error) {
	return r.Storage.Like(ctx, domain.TargetComment, args.CommentID, args.UserID)
}

func (r *mutationResolver) UnlikeComment(ctx context.Context, args model.CommentLikeArgs) (*domain.DeleteResult, error) {
	return r.Storage.Unlike(ctx, domain.TargetComment, args.CommentID, args.UserID)
}

func (r *mutationResolver) FollowUser(ctx context.Context, args model.FollowArgs) (*domain.Follow, error) {
	return r.Storage.Follow(ctx, args.FollowerID, args.FollowingID)
}

func (r *mutationResolver) UnfollowUser(ctx context.Context, args model.FollowArgs) (*domain.DeleteResult, error) {
	return r.Storage.Unfollow(ctx, args.FollowerID, args.FollowingID)
}

func (r *mutationResolver) BookmarkPost(ctx context.Context, args model.BookmarkArgs) (*domain.Bookmark, error) {
	return r.Storage.Bookmark(ctx, args.UserID, args.PostID, args.Note)
}

func (r *mutationResolver) RemoveBookmark(ctx context.Context, args model.BookmarkArgs) (*domain.DeleteResult, error) {
	return r.Storage.RemoveBookmark(ctx, args.UserID, args.PostID)
}

// === Notification & Media Mutations ===

func (r *mutationResolver) MarkNotificationRead(ctx context.Context, args model.IDArgs) (*domain.Notification, error) {
	return r.Storage.MarkNotificationRead(ctx, args.ID)
}

func (r *mutationResolver) MarkAllNotificationsRead(ctx context.Context, args model.UserIDArgs) (int, error) {
	return r.Storage.MarkAllNotificationsRead(ctx, args.UserID)
}

func (r *mutationResolver) DeleteNotification(ctx context.Context, args model.IDArgs) (*domain.DeleteResult, error) {
	return r.Storage.DeleteNotification(ctx, args.ID)
}

func (r *mutationResolver) CreateMedia(ctx context.Context, args model.CreateMediaArgs) (*domain.Media, error) {
	return r.Storage.CreateMedia(ctx, args.Input)
}

func (r *mutationResolver) UpdateMedia(ctx context.Context, args model.UpdateMediaArgs) (*domain.Media, error) {
	return r.Storage.UpdateMedia(ctx, args.ID, args.Input)
}

func (r *mutationResolver) DeleteMedia(ctx context.Context, args model.IDArgs) (*domain.DeleteResult, error) {
	return r.Storage.DeleteMedia(ctx, args.ID)
}

// === Bulk Mutations ===

func (r *mutationResolver) BulkDeletePosts(ctx context.Context, args model.IDsArgs) (*domain.BulkResult, error) {
	return r.Storage.BulkDeletePosts(ctx, args.IDs)
}

func (r *mutationResolver) BulkPublishPosts(ctx context.Context, args model.IDsArgs) (*domain.BulkResult, error) {
	return r.Storage.BulkPublishPosts(ctx, args.IDs)
}

func (r *mutationResolver) BulkDeleteComments(ctx context.Context, args model.IDsArgs) (*domain.BulkResult, error) {
	return r.Storage.BulkDeleteComments(ctx, args.IDs)
}
