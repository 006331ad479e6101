package domain

// Спецификации фильтров: конъюнкция независимых необязательных условий.
// Отсутствующее поле не накладывает ограничений.

type PostFilter struct {
	Status          *PostStatus `json:"status" validate:"omitempty,oneof=draft published archived scheduled"`
	Visibility      *Visibility `json:"visibility" validate:"omitempty,oneof=public private members"`
	CategoryID      *string     `json:"categoryId"`
	TagIDs          []string    `json:"tagIds" validate:"omitempty,dive,required"`
	AuthorID        *string     `json:"authorId"`
	Search          *string     `json:"search"`
	PublishedAfter  *string     `json:"publishedAfter" validate:"omitempty,timestamp"`
	PublishedBefore *string     `json:"publishedBefore" validate:"omitempty,timestamp"`
	MinViewCount    *int        `json:"minViewCount" validate:"omitempty,min=0"`
	MinLikeCount    *int        `json:"minLikeCount" validate:"omitempty,min=0"`
}

type UserFilter struct {
	Role          *Role       `json:"role" validate:"omitempty,oneof=admin moderator author user guest"`
	Status        *UserStatus `json:"status" validate:"omitempty,oneof=active suspended pending"`
	Search        *string     `json:"search"`
	CreatedAfter  *string     `json:"createdAfter" validate:"omitempty,timestamp"`
	CreatedBefore *string     `json:"createdBefore" validate:"omitempty,timestamp"`
}

type CommentFilter struct {
	PostID   *string        `json:"postId"`
	AuthorID *string        `json:"authorId"`
	Status   *CommentStatus `json:"status" validate:"omitempty,oneof=approved pending spam deleted"`
	ParentID *string        `json:"parentId"`
	// TopLevelOnly выставляется, когда parentId передан явным null.
	TopLevelOnly bool `json:"-"`
}

type PostSort struct {
	Field     PostSortField `json:"field" validate:"required,oneof=CREATED_AT UPDATED_AT PUBLISHED_AT VIEW_COUNT LIKE_COUNT COMMENT_COUNT TITLE"`
	Direction SortDirection `json:"direction" validate:"required,oneof=ASC DESC"`
}

type UserSort struct {
	Field     UserSortField `json:"field" validate:"required,oneof=CREATED_AT NAME USERNAME POST_COUNT FOLLOWER_COUNT"`
	Direction SortDirection `json:"direction" validate:"required,oneof=ASC DESC"`
}
