package inmemory

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/UkralStul/orion-graphql/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

// seedData - формат файла начальных данных.
type seedData struct {
	Users         []*domain.User         `yaml:"users"`
	Categories    []*domain.Category     `yaml:"categories"`
	Tags          []*domain.Tag          `yaml:"tags"`
	Posts         []*domain.Post         `yaml:"posts"`
	Comments      []*domain.Comment      `yaml:"comments"`
	Likes         []*domain.Like         `yaml:"likes"`
	Follows       []*domain.Follow       `yaml:"follows"`
	Bookmarks     []*domain.Bookmark     `yaml:"bookmarks"`
	Notifications []*domain.Notification `yaml:"notifications"`
	Media         []*domain.Media        `yaml:"media"`
	AuditLogs     []*domain.AuditLog     `yaml:"auditLogs"`
}

// LoadSeed загружает встроенный набор данных.
func (s *Store) LoadSeed() error {
	return s.Load(bytes.NewReader(seedYAML))
}

// Load добавляет записи из YAML и пересчитывает денормализованные счётчики.
// Генератор id сдвигается за максимальный загруженный id каждого типа.
func (s *Store) Load(r io.Reader) error {
	var data seedData
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	s.mu.Lock()
	defer s.unlock()

	for _, u := range data.Users {
		s.users.Put(u.ID, u)
		s.ids.Observe(domain.EntityUser, u.ID)
	}
	for _, c := range data.Categories {
		s.insertCategoryLocked(c)
		s.ids.Observe(domain.EntityCategory, c.ID)
	}
	for _, t := range data.Tags {
		s.tags.Put(t.ID, t)
		s.ids.Observe(domain.EntityTag, t.ID)
	}
	for _, p := range data.Posts {
		p.TagIDs = dedupe(p.TagIDs)
		s.insertPostLocked(p)
		s.ids.Observe(domain.EntityPost, p.ID)
	}
	for _, c := range data.Comments {
		s.insertCommentLocked(c)
		s.ids.Observe(domain.EntityComment, c.ID)
	}
	for _, l := range data.Likes {
		s.insertLikeLocked(l)
		s.ids.Observe(domain.EntityLike, l.ID)
	}
	for _, f := range data.Follows {
		s.insertFollowLocked(f)
		s.ids.Observe(domain.EntityFollow, f.ID)
	}
	for _, b := range data.Bookmarks {
		s.insertBookmarkLocked(b)
		s.ids.Observe(domain.EntityBookmark, b.ID)
	}
	for _, n := range data.Notifications {
		s.insertNotificationLocked(n)
		s.ids.Observe(domain.EntityNotification, n.ID)
	}
	for _, m := range data.Media {
		s.insertMediaLocked(m)
		s.ids.Observe(domain.EntityMedia, m.ID)
	}
	for _, a := range data.AuditLogs {
		s.auditLogs.Put(a.ID, a)
		s.ids.Observe(domain.EntityAuditLog, a.ID)
	}

	s.recountLocked()

	s.log.Info().
		Int("users", s.users.Len()).
		Int("posts", s.posts.Len()).
		Int("comments", s.comments.Len()).
		Int("likes", s.likes.Len()).
		Msg("seed data loaded")
	return nil
}

// recountLocked выставляет likeCount, commentCount и usageCount по индексам.
func (s *Store) recountLocked() {
	for _, p := range s.posts.All() {
		p.LikeCount = s.likesByTarget.count(targetKey(domain.TargetPost, p.ID))
		p.CommentCount = s.commentsByPost.count(p.ID)
	}
	for _, c := range s.comments.All() {
		c.LikeCount = s.likesByTarget.count(targetKey(domain.TargetComment, c.ID))
	}
	for _, t := range s.tags.All() {
		t.UsageCount = s.postsByTag.count(t.ID)
	}
}
