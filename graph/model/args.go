// Package model - аргументы полей GraphQL-схемы.
//
// Аргументы декодируются из карты значений запроса по json-тегам
// и проверяются по тегам validate до вызова резолвера.
package model

import (
	"github.com/UkralStul/orion-graphql/internal/domain"
)

// NullAware реализуют аргументы, для которых явный null отличается от отсутствия значения.
type NullAware interface {
	ObserveNulls(raw map[string]any)
}

// ExplicitNull сообщает, передан ли по пути path явный null.
func ExplicitNull(raw map[string]any, path ...string) bool {
	cur := raw
	for i, key := range path {
		v, ok := cur[key]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return v == nil
		}
		next, ok := v.(map[string]any)
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

// === Query ===

type UserKeyArgs struct {
	ID       *string `json:"id"`
	Username *string `json:"username"`
}

// SlugKeyArgs - выборка по id или slug (post, category, tag).
type SlugKeyArgs struct {
	ID   *string `json:"id"`
	Slug *string `json:"slug"`
}

type IDArgs struct {
	ID string `json:"id" validate:"required"`
}

type UsersArgs struct {
	Limit  *int               `json:"limit" validate:"omitempty,min=0"`
	Offset *int               `json:"offset" validate:"omitempty,min=0"`
	Filter *domain.UserFilter `json:"filter"`
	Sort   *domain.UserSort   `json:"sort"`
}

type PostsArgs struct {
	Limit  *int               `json:"limit" validate:"omitempty,min=0"`
	Offset *int               `json:"offset" validate:"omitempty,min=0"`
	Filter *domain.PostFilter `json:"filter"`
	Sort   *domain.PostSort   `json:"sort"`
}

type CategoriesArgs struct {
	ParentID  *string `json:"parentId"`
	RootsOnly bool    `json:"-"`
}

func (a *CategoriesArgs) ObserveNulls(raw map[string]any) {
	a.RootsOnly = ExplicitNull(raw, "parentId")
}

type TagsArgs struct {
	Limit        *int  `json:"limit" validate:"omitempty,min=0"`
	OrderByUsage *bool `json:"orderByUsage"`
}

type CommentsArgs struct {
	Filter *domain.CommentFilter `json:"filter"`
	Limit  *int                  `json:"limit" validate:"omitempty,min=0"`
	Offset *int                  `json:"offset" validate:"omitempty,min=0"`
}

func (a *CommentsArgs) ObserveNulls(raw map[string]any) {
	a.Filter = topLevelOnly(a.Filter, raw)
}

type NotificationsArgs struct {
	UserID     string `json:"userId" validate:"required"`
	UnreadOnly *bool  `json:"unreadOnly"`
	Limit      *int   `json:"limit" validate:"omitempty,min=0"`
}

type MediaListArgs struct {
	UploaderID *string `json:"uploaderId"`
	Limit      *int    `json:"limit" validate:"omitempty,min=0"`
}

type AuditLogsArgs struct {
	EntityType *string `json:"entityType"`
	EntityID   *string `json:"entityId"`
	Limit      *int    `json:"limit" validate:"omitempty,min=0"`
}

type PostsConnectionArgs struct {
	First  *int               `json:"first" validate:"omitempty,min=0"`
	After  *string            `json:"after"`
	Filter *domain.PostFilter `json:"filter"`
	Sort   *domain.PostSort   `json:"sort"`
}

type UsersConnectionArgs struct {
	First  *int               `json:"first" validate:"omitempty,min=0"`
	After  *string            `json:"after"`
	Filter *domain.UserFilter `json:"filter"`
	Sort   *domain.UserSort   `json:"sort"`
}

type CommentsConnectionArgs struct {
	First  *int                  `json:"first" validate:"omitempty,min=0"`
	After  *string               `json:"after"`
	Filter *domain.CommentFilter `json:"filter"`
}

func (a *CommentsConnectionArgs) ObserveNulls(raw map[string]any) {
	a.Filter = topLevelOnly(a.Filter, raw)
}

func topLevelOnly(f *domain.CommentFilter, raw map[string]any) *domain.CommentFilter {
	if !ExplicitNull(raw, "filter", "parentId") {
		return f
	}
	if f == nil {
		f = &domain.CommentFilter{}
	}
	f.TopLevelOnly = true
	return f
}

type SearchArgs struct {
	Query string              `json:"query"`
	Types []domain.SearchType `json:"types" validate:"omitempty,dive,oneof=posts users comments tags"`
}

type UserIDArgs struct {
	UserID string `json:"userId" validate:"required"`
}

type PostIDArgs struct {
	PostID string `json:"postId" validate:"required"`
}

type FeedArgs struct {
	UserID string `json:"userId" validate:"required"`
	Limit  *int   `json:"limit" validate:"omitempty,min=0"`
	Offset *int   `json:"offset" validate:"omitempty,min=0"`
}

type TrendingArgs struct {
	Limit  *int    `json:"limit" validate:"omitempty,min=0"`
	Period *string `json:"period" validate:"omitempty,oneof=day week month all"`
}

type RecommendedArgs struct {
	UserID *string `json:"userId"`
	Limit  *int    `json:"limit" validate:"omitempty,min=0"`
}

// === Mutation ===

type CreateUserArgs struct {
	Input domain.CreateUserInput `json:"input"`
}

type UpdateUserArgs struct {
	ID    string                 `json:"id" validate:"required"`
	Input domain.UpdateUserInput `json:"input"`
}

type UpdatePreferencesArgs struct {
	UserID string                        `json:"userId" validate:"required"`
	Input  domain.UpdatePreferencesInput `json:"input"`
}

type SuspendUserArgs struct {
	ID     string  `json:"id" validate:"required"`
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

type CreatePostArgs struct {
	Input domain.CreatePostInput `json:"input"`
}

type UpdatePostArgs struct {
	ID    string                 `json:"id" validate:"required"`
	Input domain.UpdatePostInput `json:"input"`
}

type SchedulePostArgs struct {
	ID        string `json:"id" validate:"required"`
	PublishAt string `json:"publishAt" validate:"required,timestamp"`
}

type CreateCategoryArgs struct {
	Input domain.CreateCategoryInput `json:"input"`
}

type UpdateCategoryArgs struct {
	ID    string                     `json:"id" validate:"required"`
	Input domain.UpdateCategoryInput `json:"input"`
}

func (a *UpdateCategoryArgs) ObserveNulls(raw map[string]any) {
	a.Input.MakeRoot = ExplicitNull(raw, "input", "parentId")
}

type CreateTagArgs struct {
	Input domain.CreateTagInput `json:"input"`
}

type UpdateTagArgs struct {
	ID    string                `json:"id" validate:"required"`
	Input domain.UpdateTagInput `json:"input"`
}

type MergeTagsArgs struct {
	SourceID string `json:"sourceId" validate:"required"`
	TargetID string `json:"targetId" validate:"required"`
}

type CreateCommentArgs struct {
	Input domain.CreateCommentInput `json:"input"`
}

type UpdateCommentArgs struct {
	ID      string `json:"id" validate:"required"`
	Content string `json:"content"`
}

type PostLikeArgs struct {
	PostID string `json:"postId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

type CommentLikeArgs struct {
	CommentID string `json:"commentId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
}

type FollowArgs struct {
	FollowerID  string `json:"followerId" validate:"required"`
	FollowingID string `json:"followingId" validate:"required"`
}

type BookmarkArgs struct {
	UserID string  `json:"userId" validate:"required"`
	PostID string  `json:"postId" validate:"required"`
	Note   *string `json:"note" validate:"omitempty,max=1000"`
}

type CreateMediaArgs struct {
	Input domain.CreateMediaInput `json:"input"`
}

type UpdateMediaArgs struct {
	ID    string                  `json:"id" validate:"required"`
	Input domain.UpdateMediaInput `json:"input"`
}

type IDsArgs struct {
	IDs []string `json:"ids" validate:"dive,required"`
}

// === Поля типов ===

type LimitArgs struct {
	Limit *int `json:"limit" validate:"omitempty,min=0"`
}

type UserPostsArgs struct {
	Limit  *int               `json:"limit" validate:"omitempty,min=0"`
	Offset *int               `json:"offset" validate:"omitempty,min=0"`
	Status *domain.PostStatus `json:"status"`
}

type UnreadArgs struct {
	UnreadOnly *bool `json:"unreadOnly"`
}

// ByUserArgs - isFollowedBy / isLikedBy / isBookmarkedBy.
type ByUserArgs struct {
	UserID string `json:"userId" validate:"required"`
}

type CategoryPostsArgs struct {
	Limit  *int               `json:"limit" validate:"omitempty,min=0"`
	Status *domain.PostStatus `json:"status"`
}

type PostCommentsArgs struct {
	Limit  *int                  `json:"limit" validate:"omitempty,min=0"`
	Status *domain.CommentStatus `json:"status"`
}
