package graph

// === Связывание резолверов с полями схемы ===

func (r *Resolver) Query() *queryResolver               { return &queryResolver{r} }
func (r *Resolver) Mutation() *mutationResolver         { return &mutationResolver{r} }
func (r *Resolver) Subscription() *subscriptionResolver { return &subscriptionResolver{r} }
func (r *Resolver) User() *userResolver                 { return &userResolver{r} }
func (r *Resolver) Category() *categoryResolver         { return &categoryResolver{r} }
func (r *Resolver) Tag() *tagResolver                   { return &tagResolver{r} }
func (r *Resolver) Post() *postResolver                 { return &postResolver{r} }
func (r *Resolver) Comment() *commentResolver           { return &commentResolver{r} }
func (r *Resolver) Like() *likeResolver                 { return &likeResolver{r} }
func (r *Resolver) Follow() *followResolver             { return &followResolver{r} }
func (r *Resolver) Bookmark() *bookmarkResolver         { return &bookmarkResolver{r} }
func (r *Resolver) Notification() *notificationResolver { return &notificationResolver{r} }
func (r *Resolver) Media() *mediaResolver               { return &mediaResolver{r} }
func (r *Resolver) AuditLog() *auditLogResolver         { return &auditLogResolver{r} }

type queryResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type subscriptionResolver struct{ *Resolver }
type userResolver struct{ *Resolver }
type categoryResolver struct{ *Resolver }
type tagResolver struct{ *Resolver }
type postResolver struct{ *Resolver }
type commentResolver struct{ *Resolver }
type likeResolver struct{ *Resolver }
type followResolver struct{ *Resolver }
type bookmarkResolver struct{ *Resolver }
type notificationResolver struct{ *Resolver }
type mediaResolver struct{ *Resolver }
type auditLogResolver struct{ *Resolver }

// fieldTable - резолверы полей по типам. Поля, которых здесь нет,
// читаются из структуры по json-тегу.
func (r *Resolver) fieldTable() map[string]map[string]fieldFunc {
	q, m := r.Query(), r.Mutation()
	user, category, tag, post, comment := r.User(), r.Category(), r.Tag(), r.Post(), r.Comment()
	like, follow, bookmark := r.Like(), r.Follow(), r.Bookmark()
	notification, media, auditLog := r.Notification(), r.Media(), r.AuditLog()

	return map[string]map[string]fieldFunc{
		"Query": {
			"user":               root(q.User),
			"post":               root(q.Post),
			"category":           root(q.Category),
			"tag":                root(q.Tag),
			"comment":            root(q.Comment),
			"notification":       root(q.Notification),
			"media":              root(q.Media),
			"users":              root(q.Users),
			"posts":              root(q.Posts),
			"categories":         root(q.Categories),
			"tags":               root(q.Tags),
			"comments":           root(q.Comments),
			"notifications":      root(q.Notifications),
			"mediaList":          root(q.MediaList),
			"auditLogs":          root(q.AuditLogs),
			"postsConnection":    root(q.PostsConnection),
			"usersConnection":    root(q.UsersConnection),
			"commentsConnection": root(q.CommentsConnection),
			"search":             root(q.Search),
			"stats":              rootNoArgs(q.Stats),
			"userStats":          root(q.UserStats),
			"postAnalytics":      root(q.PostAnalytics),
			"feed":               root(q.Feed),
			"trending":           root(q.Trending),
			"recommended":        root(q.Recommended),
		},
		"Mutation": {
			"createUser":               root(m.CreateUser),
			"updateUser":               root(m.UpdateUser),
			"updateUserPreferences":    root(m.UpdateUserPreferences),
			"deleteUser":               root(m.DeleteUser),
			"suspendUser":              root(m.SuspendUser),
			"activateUser":             root(m.ActivateUser),
			"createPost":               root(m.CreatePost),
			"updatePost":               root(m.UpdatePost),
			"deletePost":               root(m.DeletePost),
			"publishPost":              root(m.PublishPost),
			"unpublishPost":            root(m.UnpublishPost),
			"schedulePost":             root(m.SchedulePost),
			"archivePost":              root(m.ArchivePost),
			"incrementViewCount":       root(m.IncrementViewCount),
			"createCategory":           root(m.CreateCategory),
			"updateCategory":           root(m.UpdateCategory),
			"deleteCategory":           root(m.DeleteCategory),
			"createTag":                root(m.CreateTag),
			"updateTag":                root(m.UpdateTag),
			"deleteTag":                root(m.DeleteTag),
			"mergeTags":                root(m.MergeTags),
			"createComment":            root(m.CreateComment),
			"updateComment":            root(m.UpdateComment),
			"deleteComment":            root(m.DeleteComment),
			"approveComment":           root(m.ApproveComment),
			"markCommentAsSpam":        root(m.MarkCommentAsSpam),
			"likePost":                 root(m.LikePost),
			"unlikePost":               root(m.UnlikePost),
			"likeComment":              root(m.LikeComment),
			"unlikeComment":            root(m.UnlikeComment),
			"followUser":               root(m.FollowUser),
			"unfollowUser":             root(m.UnfollowUser),
			"bookmarkPost":             root(m.BookmarkPost),
			"removeBookmark":           root(m.RemoveBookmark),
			"markNotificationRead":     root(m.MarkNotificationRead),
			"markAllNotificationsRead": root(m.MarkAllNotificationsRead),
			"deleteNotification":       root(m.DeleteNotification),
			"createMedia":              root(m.CreateMedia),
			"updateMedia":              root(m.UpdateMedia),
			"deleteMedia":              root(m.DeleteMedia),
			"bulkDeletePosts":          root(m.BulkDeletePosts),
			"bulkPublishPosts":         root(m.BulkPublishPosts),
			"bulkDeleteComments":       root(m.BulkDeleteComments),
		},
		"User": {
			"posts":          fieldArgs(user.Posts),
			"comments":       fieldArgs(user.Comments),
			"bookmarks":      field(user.Bookmarks),
			"notifications":  fieldArgs(user.Notifications),
			"followers":      field(user.Followers),
			"following":      field(user.Following),
			"postCount":      field(user.PostCount),
			"followerCount":  field(user.FollowerCount),
			"followingCount": field(user.FollowingCount),
			"isFollowedBy":   fieldArgs(user.IsFollowedBy),
		},
		"Category": {
			"parent":    field(category.Parent),
			"children":  field(category.Children),
			"posts":     fieldArgs(category.Posts),
			"postCount": field(category.PostCount),
		},
		"Tag": {
			"posts": fieldArgs(tag.Posts),
		},
		"Post": {
			"author":         field(post.Author),
			"category":       field(post.Category),
			"tags":           field(post.Tags),
			"comments":       fieldArgs(post.Comments),
			"relatedPosts":   fieldArgs(post.RelatedPosts),
			"isLikedBy":      fieldArgs(post.IsLikedBy),
			"isBookmarkedBy": fieldArgs(post.IsBookmarkedBy),
		},
		"Comment": {
			"post":       field(comment.Post),
			"author":     field(comment.Author),
			"parent":     field(comment.Parent),
			"replies":    fieldArgs(comment.Replies),
			"replyCount": field(comment.ReplyCount),
			"isLikedBy":  fieldArgs(comment.IsLikedBy),
		},
		"Like": {
			"user":    field(like.User),
			"post":    field(like.Post),
			"comment": field(like.Comment),
		},
		"Follow": {
			"follower":  field(follow.Follower),
			"following": field(follow.Following),
		},
		"Bookmark": {
			"user": field(bookmark.User),
			"post": field(bookmark.Post),
		},
		"Notification": {
			"user":        field(notification.User),
			"relatedPost": field(notification.RelatedPost),
			"relatedUser": field(notification.RelatedUser),
		},
		"Media": {
			"uploader": field(media.Uploader),
		},
		"AuditLog": {
			"user": field(auditLog.User),
		},
	}
}

func (r *Resolver) subscriptionTable() map[string]subscriptionFunc {
	s := r.Subscription()
	return map[string]subscriptionFunc{
		"commentAdded":      subscription(s.CommentAdded),
		"notificationAdded": subscription(s.NotificationAdded),
	}
}
