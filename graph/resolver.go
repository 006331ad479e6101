package graph

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

// subscriberBuffer - сколько событий подписчик может не забрать, прежде чем они начнут теряться.
const subscriberBuffer = 16

// Observer хранит каналы подписчиков, сгруппированных по ключу (id поста, id пользователя).
type Observer[T any] struct {
	mu sync.RWMutex
	//          map[key] map[subscriberID] channel
	subs map[string]map[string]chan T
}

func NewObserver[T any]() *Observer[T] {
	return &Observer[T]{subs: make(map[string]map[string]chan T)}
}

// Subscribe регистрирует подписчика. Канал закрывается после отмены ctx.
func (o *Observer[T]) Subscribe(ctx context.Context, key string) <-chan T {
	ch := make(chan T, subscriberBuffer)
	subID := uuid.NewString()

	o.mu.Lock()
	if o.subs[key] == nil {
		o.subs[key] = make(map[string]chan T)
	}
	o.subs[key][subID] = ch
	o.mu.Unlock()

	// Горутина для очистки при отключении клиента
	go func() {
		<-ctx.Done()
		o.mu.Lock()
		if keySubs, ok := o.subs[key]; ok {
			delete(keySubs, subID)
			if len(keySubs) == 0 {
				delete(o.subs, key)
			}
		}
		close(ch)
		o.mu.Unlock()
	}()

	return ch
}

// Publish раздаёт событие подписчикам ключа. Медленный подписчик событие пропускает.
func (o *Observer[T]) Publish(key string, v T) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, ch := range o.subs[key] {
		select {
		case ch <- v:
		default:
		}
	}
}

// Subscribers возвращает число активных подписчиков ключа.
func (o *Observer[T]) Subscribers(key string) int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs[key])
}

// Hub связывает события хранилища с подписками GraphQL.
type Hub struct {
	Comments      *Observer[*domain.Comment]
	Notifications *Observer[*domain.Notification]
}

var _ storage.Listener = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		Comments:      NewObserver[*domain.Comment](),
		Notifications: NewObserver[*domain.Notification](),
	}
}

func (h *Hub) CommentCreated(c *domain.Comment) { h.Comments.Publish(c.PostID, c) }

func (h *Hub) NotificationCreated(n *domain.Notification) {
	h.Notifications.Publish(n.UserID, n)
}

// Resolver - это корневая структура резолвера.
// Она содержит все зависимости, которые нужны для выполнения запросов.
type Resolver struct {
	Storage storage.Storage
	Hub     *Hub
}
