package inmemory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/metrics"
	"github.com/UkralStul/orion-graphql/internal/reqmeta"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

var _ storage.Storage = (*Store)(nil)

// Store реализует интерфейс Storage в памяти.
//
// Одна блокировка на всё хранилище: чтения берут RLock, каждая мутация
// держит Lock целиком, включая каскады и пересчёт счётчиков, поэтому
// читатель никогда не видит запись без её индексов или счётчиков.
type Store struct {
	mu sync.RWMutex

	users         *Collection[*domain.User]
	categories    *Collection[*domain.Category]
	tags          *Collection[*domain.Tag]
	posts         *Collection[*domain.Post]
	comments      *Collection[*domain.Comment]
	likes         *Collection[*domain.Like]
	follows       *Collection[*domain.Follow]
	bookmarks     *Collection[*domain.Bookmark]
	notifications *Collection[*domain.Notification]
	media         *Collection[*domain.Media]
	auditLogs     *Collection[*domain.AuditLog]

	ids *IDGenerator

	postsByAuthor       index
	postsByCategory     index
	postsByTag          index
	commentsByPost      index // все комментарии поста
	commentsByParent    index // только прямые ответы
	commentsByAuthor    index
	categoriesByParent  index
	likesByTarget       index // ключ targetKey(type, id)
	likesByUser         index
	followsByFollower   index
	followsByFollowing  index
	bookmarksByUser     index
	bookmarksByPost     index
	notificationsByUser index
	mediaByUploader     index

	// Аналитика просмотров: postID -> день (YYYY-MM-DD) -> число; postID -> источник -> число.
	views     map[string]map[string]int
	referrers map[string]map[string]int

	now      func() time.Time
	log      zerolog.Logger
	listener storage.Listener
	pending  []func(storage.Listener)
}

type Option func(*Store)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l.With().Str("component", "store").Logger() }
}

// WithListener подписывает слушателя на события создания комментариев и уведомлений.
func WithListener(l storage.Listener) Option {
	return func(s *Store) { s.listener = l }
}

// New создает новый экземпляр in-memory хранилища.
func New(opts ...Option) *Store {
	s := &Store{
		users:         NewCollection[*domain.User](),
		categories:    NewCollection[*domain.Category](),
		tags:          NewCollection[*domain.Tag](),
		posts:         NewCollection[*domain.Post](),
		comments:      NewCollection[*domain.Comment](),
		likes:         NewCollection[*domain.Like](),
		follows:       NewCollection[*domain.Follow](),
		bookmarks:     NewCollection[*domain.Bookmark](),
		notifications: NewCollection[*domain.Notification](),
		media:         NewCollection[*domain.Media](),
		auditLogs:     NewCollection[*domain.AuditLog](),

		ids: NewIDGenerator(),

		postsByAuthor:       make(index),
		postsByCategory:     make(index),
		postsByTag:          make(index),
		commentsByPost:      make(index),
		commentsByParent:    make(index),
		commentsByAuthor:    make(index),
		categoriesByParent:  make(index),
		likesByTarget:       make(index),
		likesByUser:         make(index),
		followsByFollower:   make(index),
		followsByFollowing:  make(index),
		bookmarksByUser:     make(index),
		bookmarksByPost:     make(index),
		notificationsByUser: make(index),
		mediaByUploader:     make(index),

		views:     make(map[string]map[string]int),
		referrers: make(map[string]map[string]int),

		now: time.Now,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clock - текущее время в UTC с точностью до миллисекунды (как в ответах API).
func (s *Store) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// unlock снимает блокировку записи и только после этого раздаёт накопленные события.
func (s *Store) unlock() {
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	if s.listener == nil {
		return
	}
	for _, emit := range events {
		emit(s.listener)
	}
}

func (s *Store) emitCommentLocked(c *domain.Comment) {
	c = c.Clone()
	s.pending = append(s.pending, func(l storage.Listener) { l.CommentCreated(c) })
}

func (s *Store) emitNotificationLocked(n *domain.Notification) {
	n = n.Clone()
	s.pending = append(s.pending, func(l storage.Listener) { l.NotificationCreated(n) })
}

// decrement уменьшает денормализованный счётчик. Уход ниже нуля означает
// рассинхронизацию: значение прижимается к нулю, событие логируется и считается.
func (s *Store) decrement(counter, id string, v *int) {
	if *v <= 0 {
		s.log.Warn().Str("counter", counter).Str("id", id).Msg("counter underflow clamped at zero")
		metrics.CounterClamped(counter)
		*v = 0
		return
	}
	*v--
}

// auditLocked добавляет запись в журнал аудита. before/after сериализуются в JSON.
func (s *Store) auditLocked(ctx context.Context, action string, entity domain.EntityType, entityID string, before, after any) {
	meta := reqmeta.From(ctx)
	entry := &domain.AuditLog{
		ID:         s.ids.Next(domain.EntityAuditLog),
		UserID:     meta.UserID,
		Action:     action,
		EntityType: string(entity),
		EntityID:   entityID,
		OldValue:   s.snapshot(before),
		NewValue:   s.snapshot(after),
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
		CreatedAt:  s.clock(),
	}
	s.auditLogs.Put(entry.ID, entry)
}

func (s *Store) snapshot(v any) *string {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("audit snapshot")
		return nil
	}
	str := string(raw)
	return &str
}

type cloner[T any] interface {
	Clone() T
}

func cloneAll[T cloner[T]](items []T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func cloneMap[T cloner[T]](items []T, id func(T) string) map[string]T {
	out := make(map[string]T, len(items))
	for _, it := range items {
		out[id(it)] = it.Clone()
	}
	return out
}

// refErrors накапливает ошибки ссылочной целостности входа.
type refErrors struct {
	fields []domain.FieldError
}

func (r *refErrors) check(ok bool, field, format string, args ...any) {
	if ok {
		return
	}
	r.fields = append(r.fields, domain.NewValidationError(field, format, args...).Fields...)
}

func (r *refErrors) err() error {
	if len(r.fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: r.fields}
}

// dedupe убирает повторы, сохраняя порядок первого вхождения.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func limitSlice[T any](items []T, limit int) []T {
	if limit >= 0 && limit < len(items) {
		return items[:limit]
	}
	return items
}
