package domain

import (
	"slices"
	"time"
)

// TimeLayout - формат всех временных меток в ответах API.
// Фиксированная ширина и UTC, поэтому строковое сравнение совпадает с хронологическим.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// EntityType - имя коллекции (используется генератором ID и журналом аудита).
type EntityType string

const (
	EntityUser         EntityType = "user"
	EntityCategory     EntityType = "category"
	EntityTag          EntityType = "tag"
	EntityPost         EntityType = "post"
	EntityComment      EntityType = "comment"
	EntityLike         EntityType = "like"
	EntityFollow       EntityType = "follow"
	EntityBookmark     EntityType = "bookmark"
	EntityNotification EntityType = "notification"
	EntityMedia        EntityType = "media"
	EntityAuditLog     EntityType = "auditLog"
)

// EntityTypes перечисляет все коллекции хранилища.
var EntityTypes = []EntityType{
	EntityUser, EntityCategory, EntityTag, EntityPost, EntityComment, EntityLike,
	EntityFollow, EntityBookmark, EntityNotification, EntityMedia, EntityAuditLog,
}

// User представляет пользователя.
type User struct {
	ID          string          `json:"id" yaml:"id"`
	Username    string          `json:"username" yaml:"username"`
	Email       string          `json:"email" yaml:"email"`
	Name        string          `json:"name" yaml:"name"`
	Bio         *string         `json:"bio" yaml:"bio"`
	AvatarURL   *string         `json:"avatarUrl" yaml:"avatarUrl"`
	Role        Role            `json:"role" yaml:"role"`
	Status      UserStatus      `json:"status" yaml:"status"`
	Preferences UserPreferences `json:"preferences" yaml:"preferences"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt" yaml:"updatedAt"`
	LastLoginAt *time.Time      `json:"lastLoginAt" yaml:"lastLoginAt"`
}

// UserPreferences - вложенная запись настроек пользователя.
type UserPreferences struct {
	Theme              Theme  `json:"theme" yaml:"theme"`
	EmailNotifications bool   `json:"emailNotifications" yaml:"emailNotifications"`
	Language           string `json:"language" yaml:"language"`
	Timezone           string `json:"timezone" yaml:"timezone"`
}

// DefaultPreferences - настройки нового пользователя.
func DefaultPreferences() UserPreferences {
	return UserPreferences{Theme: ThemeSystem, EmailNotifications: true, Language: "en", Timezone: "UTC"}
}

// Category - узел дерева категорий.
type Category struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Slug        string    `json:"slug" yaml:"slug"`
	Description string    `json:"description" yaml:"description"`
	ParentID    *string   `json:"parentId" yaml:"parentId"`
	Color       string    `json:"color" yaml:"color"`
	Icon        string    `json:"icon" yaml:"icon"`
	SortOrder   int       `json:"sortOrder" yaml:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// Tag - метка поста. UsageCount равен числу живых постов, ссылающихся на метку.
type Tag struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Slug       string `json:"slug" yaml:"slug"`
	UsageCount int    `json:"usageCount" yaml:"usageCount"`
}

// Post представляет пост в системе.
type Post struct {
	ID                 string     `json:"id" yaml:"id"`
	Title              string     `json:"title" yaml:"title"`
	Slug               string     `json:"slug" yaml:"slug"`
	Excerpt            string     `json:"excerpt" yaml:"excerpt"`
	Content            string     `json:"content" yaml:"content"`
	AuthorID           string     `json:"authorId" yaml:"authorId"`
	CategoryID         string     `json:"categoryId" yaml:"categoryId"`
	TagIDs             []string   `json:"tagIds" yaml:"tagIds"`
	Status             PostStatus `json:"status" yaml:"status"`
	Visibility         Visibility `json:"visibility" yaml:"visibility"`
	FeaturedImageURL   *string    `json:"featuredImageUrl" yaml:"featuredImageUrl"`
	ReadingTimeMinutes int        `json:"readingTimeMinutes" yaml:"readingTimeMinutes"`
	ViewCount          int        `json:"viewCount" yaml:"viewCount"`
	LikeCount          int        `json:"likeCount" yaml:"likeCount"`
	CommentCount       int        `json:"commentCount" yaml:"commentCount"`
	PublishedAt        *time.Time `json:"publishedAt" yaml:"publishedAt"`
	ScheduledAt        *time.Time `json:"scheduledAt" yaml:"scheduledAt"`
	CreatedAt          time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// HasTag сообщает, ссылается ли пост на метку.
func (p *Post) HasTag(tagID string) bool {
	return slices.Contains(p.TagIDs, tagID)
}

// Comment представляет комментарий к посту.
// ParentID == nil означает комментарий верхнего уровня.
type Comment struct {
	ID        string        `json:"id" yaml:"id"`
	PostID    string        `json:"postId" yaml:"postId"`
	AuthorID  string        `json:"authorId" yaml:"authorId"`
	ParentID  *string       `json:"parentId" yaml:"parentId"`
	Content   string        `json:"content" yaml:"content"`
	Status    CommentStatus `json:"status" yaml:"status"`
	LikeCount int           `json:"likeCount" yaml:"likeCount"`
	CreatedAt time.Time     `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" yaml:"updatedAt"`
}

// Like - полиморфная отметка "нравится" на пост или комментарий.
type Like struct {
	ID         string     `json:"id" yaml:"id"`
	UserID     string     `json:"userId" yaml:"userId"`
	TargetType TargetType `json:"targetType" yaml:"targetType"`
	TargetID   string     `json:"targetId" yaml:"targetId"`
	CreatedAt  time.Time  `json:"createdAt" yaml:"createdAt"`
}

// Follow - направленное ребро подписки.
type Follow struct {
	ID          string    `json:"id" yaml:"id"`
	FollowerID  string    `json:"followerId" yaml:"followerId"`
	FollowingID string    `json:"followingId" yaml:"followingId"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

type Bookmark struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"userId"`
	PostID    string    `json:"postId" yaml:"postId"`
	Note      *string   `json:"note" yaml:"note"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

type Notification struct {
	ID            string           `json:"id" yaml:"id"`
	UserID        string           `json:"userId" yaml:"userId"`
	Type          NotificationType `json:"type" yaml:"type"`
	Title         string           `json:"title" yaml:"title"`
	Message       string           `json:"message" yaml:"message"`
	Read          bool             `json:"read" yaml:"read"`
	RelatedPostID *string          `json:"relatedPostId" yaml:"relatedPostId"`
	RelatedUserID *string          `json:"relatedUserId" yaml:"relatedUserId"`
	CreatedAt     time.Time        `json:"createdAt" yaml:"createdAt"`
}

// Media - метаданные загруженного файла.
type Media struct {
	ID           string    `json:"id" yaml:"id"`
	UploaderID   string    `json:"uploaderId" yaml:"uploaderId"`
	Filename     string    `json:"filename" yaml:"filename"`
	MimeType     string    `json:"mimeType" yaml:"mimeType"`
	Size         int       `json:"size" yaml:"size"`
	URL          string    `json:"url" yaml:"url"`
	ThumbnailURL *string   `json:"thumbnailUrl" yaml:"thumbnailUrl"`
	Alt          *string   `json:"alt" yaml:"alt"`
	Width        *int      `json:"width" yaml:"width"`
	Height       *int      `json:"height" yaml:"height"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
}

// AuditLog - запись журнала действий (только добавление).
// UserID пуст, если действие выполнено без идентифицированного пользователя.
type AuditLog struct {
	ID         string    `json:"id" yaml:"id"`
	UserID     *string   `json:"userId" yaml:"userId"`
	Action     string    `json:"action" yaml:"action"`
	EntityType string    `json:"entityType" yaml:"entityType"`
	EntityID   string    `json:"entityId" yaml:"entityId"`
	OldValue   *string   `json:"oldValue" yaml:"oldValue"`
	NewValue   *string   `json:"newValue" yaml:"newValue"`
	IPAddress  string    `json:"ipAddress" yaml:"ipAddress"`
	UserAgent  string    `json:"userAgent" yaml:"userAgent"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

// === Результаты операций ===

// DeleteResult - ответ мутаций удаления.
type DeleteResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// BulkResult - ответ массовых операций.
type BulkResult struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	IDs     []string `json:"ids"`
}

// NewBulkResult собирает BulkResult по списку реально затронутых id.
func NewBulkResult(ids []string) *BulkResult {
	if ids == nil {
		ids = []string{}
	}
	return &BulkResult{Success: len(ids) > 0, Count: len(ids), IDs: ids}
}

// === Агрегаты ===

type Stats struct {
	UserCount          int `json:"userCount"`
	PostCount          int `json:"postCount"`
	PublishedPostCount int `json:"publishedPostCount"`
	DraftPostCount     int `json:"draftPostCount"`
	CommentCount       int `json:"commentCount"`
	CategoryCount      int `json:"categoryCount"`
	TagCount           int `json:"tagCount"`
	TotalViews         int `json:"totalViews"`
	TotalLikes         int `json:"totalLikes"`
}

type UserStats struct {
	TotalPosts     int `json:"totalPosts"`
	TotalViews     int `json:"totalViews"`
	TotalLikes     int `json:"totalLikes"`
	TotalComments  int `json:"totalComments"`
	TotalFollowers int `json:"totalFollowers"`
	TotalFollowing int `json:"totalFollowing"`
}

type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ReferrerCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// PostAnalytics - статистика поста за последние AnalyticsWindowDays дней.
type PostAnalytics struct {
	Post          *Post              `json:"post"`
	ViewsOverTime []*TimeSeriesPoint `json:"viewsOverTime"`
	LikesOverTime []*TimeSeriesPoint `json:"likesOverTime"`
	TopReferrers  []*ReferrerCount   `json:"topReferrers"`
}

// AnalyticsWindowDays - глубина рядов postAnalytics (включая текущий день).
const AnalyticsWindowDays = 31

// SearchResults - результаты полнотекстового поиска, сгруппированные по типам.
type SearchResults struct {
	Posts      []*Post    `json:"posts"`
	Users      []*User    `json:"users"`
	Comments   []*Comment `json:"comments"`
	Tags       []*Tag     `json:"tags"`
	TotalCount int        `json:"totalCount"`
}
