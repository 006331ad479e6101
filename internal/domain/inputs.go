package domain

// Входные структуры мутаций. Для update-структур nil означает "не менять".

type CreateUserInput struct {
	Username string  `json:"username" validate:"required,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required,max=100"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=admin moderator author user guest"`
}

type UpdateUserInput struct {
	Username  *string     `json:"username" validate:"omitempty,max=50"`
	Email     *string     `json:"email" validate:"omitempty,email"`
	Name      *string     `json:"name" validate:"omitempty,max=100"`
	Bio       *string     `json:"bio" validate:"omitempty,max=500"`
	AvatarURL *string     `json:"avatarUrl" validate:"omitempty,url"`
	Role      *Role       `json:"role" validate:"omitempty,oneof=admin moderator author user guest"`
	Status    *UserStatus `json:"status" validate:"omitempty,oneof=active suspended pending"`
}

type UpdatePreferencesInput struct {
	Theme              *Theme  `json:"theme" validate:"omitempty,oneof=light dark system"`
	EmailNotifications *bool   `json:"emailNotifications"`
	Language           *string `json:"language" validate:"omitempty,min=2,max=10"`
	Timezone           *string `json:"timezone" validate:"omitempty,timezone"`
}

type CreatePostInput struct {
	Title            string      `json:"title" validate:"required,max=300"`
	Content          string      `json:"content" validate:"required"`
	Excerpt          *string     `json:"excerpt"`
	AuthorID         string      `json:"authorId" validate:"required"`
	CategoryID       string      `json:"categoryId" validate:"required"`
	TagIDs           []string    `json:"tagIds" validate:"omitempty,dive,required"`
	Status           *PostStatus `json:"status" validate:"omitempty,oneof=draft published archived scheduled"`
	Visibility       *Visibility `json:"visibility" validate:"omitempty,oneof=public private members"`
	FeaturedImageURL *string     `json:"featuredImageUrl" validate:"omitempty,url"`
}

type UpdatePostInput struct {
	Title            *string     `json:"title" validate:"omitempty,max=300"`
	Content          *string     `json:"content" validate:"omitempty,min=1"`
	Excerpt          *string     `json:"excerpt"`
	CategoryID       *string     `json:"categoryId" validate:"omitempty,min=1"`
	TagIDs           *[]string   `json:"tagIds" validate:"omitempty,dive,required"`
	Status           *PostStatus `json:"status" validate:"omitempty,oneof=draft published archived scheduled"`
	Visibility       *Visibility `json:"visibility" validate:"omitempty,oneof=public private members"`
	FeaturedImageURL *string     `json:"featuredImageUrl" validate:"omitempty,url"`
}

type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"required,max=100"`
	Description string  `json:"description" validate:"required"`
	ParentID    *string `json:"parentId"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Slug        *string `json:"slug" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	ParentID    *string `json:"parentId"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon"`
	SortOrder   *int    `json:"sortOrder" validate:"omitempty,min=0"`
	// MakeRoot выставляется, когда parentId передан явным null.
	MakeRoot bool `json:"-"`
}

type CreateTagInput struct {
	Name string `json:"name" validate:"required,max=50"`
	Slug string `json:"slug" validate:"required,max=50"`
}

type UpdateTagInput struct {
	Name *string `json:"name" validate:"omitempty,max=50"`
	Slug *string `json:"slug" validate:"omitempty,max=50"`
}

// MaxCommentLength - предельная длина текста комментария.
const MaxCommentLength = 2000

type CreateCommentInput struct {
	PostID   string  `json:"postId" validate:"required"`
	AuthorID string  `json:"authorId" validate:"required"`
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

type CreateMediaInput struct {
	UploaderID   string  `json:"uploaderId" validate:"required"`
	Filename     string  `json:"filename" validate:"required,max=255"`
	MimeType     string  `json:"mimeType" validate:"required"`
	Size         int     `json:"size" validate:"min=0"`
	URL          string  `json:"url" validate:"required,url"`
	ThumbnailURL *string `json:"thumbnailUrl" validate:"omitempty,url"`
	Alt          *string `json:"alt"`
	Width        *int    `json:"width" validate:"omitempty,min=0"`
	Height       *int    `json:"height" validate:"omitempty,min=0"`
}

type UpdateMediaInput struct {
	Filename *string `json:"filename" validate:"omitempty,min=1,max=255"`
	Alt      *string `json:"alt"`
}
