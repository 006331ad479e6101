package inmemory

import (
	"context"
	"strings"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/metrics"
	"github.com/UkralStul/orion-graphql/internal/query"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

const avatarURLPattern = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// === User Methods ===

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityUser, id)
	}
	return u.Clone(), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users.All() {
		if u.Username == username {
			return u.Clone(), nil
		}
	}
	return nil, domain.NotFound(domain.EntityUser, username)
}

func (s *Store) UsersByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.users.Lookup(ids), func(u *domain.User) string { return u.ID }), nil
}

// userCountsLocked отдаёт счётчики для сортировки по POST_COUNT / FOLLOWER_COUNT.
func (s *Store) userCountsLocked(userID string) (posts, followers int) {
	return s.postsByAuthor.count(userID), s.followsByFollowing.count(userID)
}

func (s *Store) selectUsersLocked(filter *domain.UserFilter, sort *domain.UserSort) ([]*domain.User, error) {
	pred, err := query.UserPredicate(filter)
	if err != nil {
		return nil, err
	}
	users := query.Filter(s.users.All(), pred)
	query.SortStable(users, query.UserComparator(sort, s.userCountsLocked))
	return users, nil
}

func (s *Store) ListUsers(ctx context.Context, q storage.UserQuery) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, err := s.selectUsersLocked(q.Filter, q.Sort)
	if err != nil {
		return nil, err
	}
	page, err := query.Offset(users, q.Page)
	if err != nil {
		return nil, err
	}
	return cloneAll(page), nil
}

// usersConnectionDefaultSort - порядок usersConnection без явной сортировки.
var usersConnectionDefaultSort = &domain.UserSort{Field: domain.UserSortName, Direction: domain.SortAsc}

func (s *Store) UsersConnection(ctx context.Context, filter *domain.UserFilter, sort *domain.UserSort, args query.CursorArgs) (*query.Connection[*domain.User], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sort == nil {
		sort = usersConnectionDefaultSort
	}
	users, err := s.selectUsersLocked(filter, sort)
	if err != nil {
		return nil, err
	}
	return paginateClones(users, args, func(u *domain.User) string { return u.ID })
}

func (s *Store) UserCounters(ctx context.Context, userID string) (storage.UserCounters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return storage.UserCounters{
		Posts:     s.postsByAuthor.count(userID),
		Followers: s.followsByFollowing.count(userID),
		Following: s.followsByFollower.count(userID),
	}, nil
}

func (s *Store) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	follows := s.follows.Lookup(s.followsByFollowing.get(userID))
	ids := make([]string, len(follows))
	for i, f := range follows {
		ids[i] = f.FollowerID
	}
	return cloneAll(s.users.Lookup(ids)), nil
}

func (s *Store) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	follows := s.follows.Lookup(s.followsByFollower.get(userID))
	ids := make([]string, len(follows))
	for i, f := range follows {
		ids[i] = f.FollowingID
	}
	return cloneAll(s.users.Lookup(ids)), nil
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findFollowLocked(followerID, followingID) != nil, nil
}

// checkUserUniqueLocked проверяет занятость username и email другим пользователем.
func (s *Store) checkUserUniqueLocked(exceptID string, username, email *string) error {
	var errs refErrors
	for _, u := range s.users.All() {
		if u.ID == exceptID {
			continue
		}
		if username != nil && strings.EqualFold(u.Username, *username) {
			errs.check(false, "username", "username %q is already taken", *username)
		}
		if email != nil && strings.EqualFold(u.Email, *email) {
			errs.check(false, "email", "email %q is already registered", *email)
		}
	}
	return errs.err()
}

func (s *Store) CreateUser(ctx context.Context, in domain.CreateUserInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.unlock()

	if err := s.checkUserUniqueLocked("", &in.Username, &in.Email); err != nil {
		return nil, err
	}

	now := s.clock()
	avatar := avatarURLPattern + in.Username
	u := &domain.User{
		ID:          s.ids.Next(domain.EntityUser),
		Username:    in.Username,
		Email:       in.Email,
		Name:        in.Name,
		Bio:         in.Bio,
		AvatarURL:   &avatar,
		Role:        domain.RoleUser,
		Status:      domain.UserPending,
		Preferences: domain.DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	s.users.Put(u.ID, u)
	metrics.StoreMutation("create_user")
	return u.Clone(), nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, in domain.UpdateUserInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.unlock()

	u, ok := s.users.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityUser, id)
	}
	if err := s.checkUserUniqueLocked(id, in.Username, in.Email); err != nil {
		return nil, err
	}
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Bio != nil {
		u.Bio = in.Bio
	}
	if in.AvatarURL != nil {
		u.AvatarURL = in.AvatarURL
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.Status != nil && *in.Status != u.Status {
		s.auditLocked(ctx, "update_status", domain.EntityUser, id,
			map[string]any{"status": u.Status}, map[string]any{"status": *in.Status})
		u.Status = *in.Status
	}
	u.UpdatedAt = s.clock()
	metrics.StoreMutation("update_user")
	return u.Clone(), nil
}

func (s *Store) UpdateUserPreferences(ctx context.Context, id string, in domain.UpdatePreferencesInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.unlock()

	u, ok := s.users.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityUser, id)
	}
	p := &u.Preferences
	if in.Theme != nil {
		p.Theme = *in.Theme
	}
	if in.EmailNotifications != nil {
		p.EmailNotifications = *in.EmailNotifications
	}
	if in.Language != nil {
		p.Language = *in.Language
	}
	if in.Timezone != nil {
		p.Timezone = *in.Timezone
	}
	u.UpdatedAt = s.clock()
	metrics.StoreMutation("update_user_preferences")
	return u.Clone(), nil
}

// SetUserStatus - suspendUser / activateUser. Смена статуса попадает в журнал аудита.
func (s *Store) SetUserStatus(ctx context.Context, id string, status domain.UserStatus, reason *string) (*domain.User, error) {
	s.mu.Lock()
	defer s.unlock()

	u, ok := s.users.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityUser, id)
	}

	action := "activate"
	if status == domain.UserSuspended {
		action = "suspend"
	}
	after := map[string]any{"status": status}
	if reason != nil {
		after["reason"] = *reason
	}
	s.auditLocked(ctx, action, domain.EntityUser, id, map[string]any{"status": u.Status}, after)

	u.Status = status
	u.UpdatedAt = s.clock()
	metrics.StoreMutation(action + "_user")
	return u.Clone(), nil
}

// DeleteUser удаляет пользователя каскадом: посты, комментарии, лайки,
// подписки в обе стороны, закладки, уведомления и медиа. Журнал аудита сохраняется.
func (s *Store) DeleteUser(ctx context.Context, id string) (*domain.DeleteResult, error) {
	s.mu.Lock()
	defer s.unlock()

	u, ok := s.users.Get(id)
	if !ok {
		return &domain.DeleteResult{Success: false, ID: id}, nil
	}

	for _, p := range s.posts.Lookup(s.postsByAuthor.get(id)) {
		s.deletePostLocked(p)
	}
	// Комментарии к чужим постам; комментарии к своим постам уже удалены выше.
	for _, c := range s.comments.Lookup(s.commentsByAuthor.get(id)) {
		s.deleteCommentLocked(c)
	}
	for _, l := range s.likes.Lookup(s.likesByUser.get(id)) {
		s.removeLikeLocked(l)
	}
	for _, f := range s.follows.Lookup(s.followsByFollower.get(id)) {
		s.removeFollowLocked(f)
	}
	for _, f := range s.follows.Lookup(s.followsByFollowing.get(id)) {
		s.removeFollowLocked(f)
	}
	for _, b := range s.bookmarks.Lookup(s.bookmarksByUser.get(id)) {
		s.removeBookmarkLocked(b)
	}
	for _, n := range s.notifications.Lookup(s.notificationsByUser.get(id)) {
		s.removeNotificationLocked(n)
	}
	for _, m := range s.media.Lookup(s.mediaByUploader.get(id)) {
		s.removeMediaLocked(m)
	}

	s.users.Delete(id)
	s.auditLocked(ctx, "delete", domain.EntityUser, id, u, nil)
	s.log.Debug().Str("user_id", id).Msg("user deleted with cascade")
	metrics.StoreMutation("delete_user")
	return &domain.DeleteResult{Success: true, ID: id}, nil
}

// paginateClones применяет курсорную пагинацию и копирует записи страницы.
func paginateClones[T cloner[T]](items []T, args query.CursorArgs, id func(T) string) (*query.Connection[T], error) {
	conn, err := query.Paginate(items, args, id)
	if err != nil {
		return nil, err
	}
	for _, e := range conn.Edges {
		e.Node = e.Node.Clone()
	}
	return conn, nil
}
