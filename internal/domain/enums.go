package domain

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleAuthor    Role = "author"
	RoleUser      Role = "user"
	RoleGuest     Role = "guest"
)

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserPending   UserStatus = "pending"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostArchived  PostStatus = "archived"
	PostScheduled PostStatus = "scheduled"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
	VisibilityMembers Visibility = "members"
)

type CommentStatus string

const (
	CommentApproved CommentStatus = "approved"
	CommentPending  CommentStatus = "pending"
	CommentSpam     CommentStatus = "spam"
	CommentDeleted  CommentStatus = "deleted"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMention NotificationType = "mention"
	NotificationSystem  NotificationType = "system"
)

// TargetType - тип объекта, на который ставится лайк.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

type PostSortField string

const (
	PostSortCreatedAt    PostSortField = "CREATED_AT"
	PostSortUpdatedAt    PostSortField = "UPDATED_AT"
	PostSortPublishedAt  PostSortField = "PUBLISHED_AT"
	PostSortViewCount    PostSortField = "VIEW_COUNT"
	PostSortLikeCount    PostSortField = "LIKE_COUNT"
	PostSortCommentCount PostSortField = "COMMENT_COUNT"
	PostSortTitle        PostSortField = "TITLE"
)

type UserSortField string

const (
	UserSortCreatedAt     UserSortField = "CREATED_AT"
	UserSortName          UserSortField = "NAME"
	UserSortUsername      UserSortField = "USERNAME"
	UserSortPostCount     UserSortField = "POST_COUNT"
	UserSortFollowerCount UserSortField = "FOLLOWER_COUNT"
)

// SearchType - имя группы в результатах поиска.
type SearchType string

const (
	SearchPosts    SearchType = "posts"
	SearchUsers    SearchType = "users"
	SearchComments SearchType = "comments"
	SearchTags     SearchType = "tags"
)

// AllSearchTypes - группы поиска по умолчанию.
var AllSearchTypes = []SearchType{SearchPosts, SearchUsers, SearchComments, SearchTags}

// TrendingPeriod ограничивает окно выборки trending.
type TrendingPeriod string

const (
	PeriodDay   TrendingPeriod = "day"
	PeriodWeek  TrendingPeriod = "week"
	PeriodMonth TrendingPeriod = "month"
	PeriodAll   TrendingPeriod = "all"
)
