package inmemory

import (
	"context"
	"time"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/metrics"
	"github.com/UkralStul/orion-graphql/internal/query"
)

// === Notification Methods ===

func (s *Store) GetNotification(ctx context.Context, id string) (*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityNotification, id)
	}
	return n.Clone(), nil
}

// ListNotifications - уведомления пользователя, новые первыми.
func (s *Store) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit *int) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.notifications.Lookup(s.notificationsByUser.get(userID))
	if unreadOnly {
		items = query.Filter(items, func(n *domain.Notification) bool { return !n.Read })
	}
	query.SortStable(items, query.Desc(query.ByCreatedAt(func(n *domain.Notification) time.Time { return n.CreatedAt })))
	page, err := query.Offset(items, query.Limit(limit))
	if err != nil {
		return nil, err
	}
	return cloneAll(page), nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.unlock()

	n, ok := s.notifications.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityNotification, id)
	}
	n.Read = true
	metrics.StoreMutation("mark_notification_read")
	return n.Clone(), nil
}

// MarkAllNotificationsRead возвращает число уведомлений, которые были непрочитанными.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.unlock()

	count := 0
	for _, n := range s.notifications.Lookup(s.notificationsByUser.get(userID)) {
		if !n.Read {
			n.Read = true
			count++
		}
	}
	metrics.StoreMutation("mark_all_notifications_read")
	return count, nil
}

func (s *Store) DeleteNotification(ctx context.Context, id string) (*domain.DeleteResult, error) {
	s.mu.Lock()
	defer s.unlock()

	n, ok := s.notifications.Get(id)
	if !ok {
		return &domain.DeleteResult{Success: false, ID: id}, nil
	}
	s.removeNotificationLocked(n)
	metrics.StoreMutation("delete_notification")
	return &domain.DeleteResult{Success: true, ID: id}, nil
}

func (s *Store) insertNotificationLocked(n *domain.Notification) {
	s.notifications.Put(n.ID, n)
	s.notificationsByUser.add(n.UserID, n.ID)
}

func (s *Store) removeNotificationLocked(n *domain.Notification) {
	s.notificationsByUser.remove(n.UserID, n.ID)
	s.notifications.Delete(n.ID)
}

// notifyLocked создает уведомление получателю. Себе уведомления не отправляются.
func (s *Store) notifyLocked(recipientID, actorID string, typ domain.NotificationType, title, message string, relatedPostID *string) {
	if recipientID == actorID || !s.users.Has(recipientID) {
		return
	}
	actor := actorID
	n := &domain.Notification{
		ID:            s.ids.Next(domain.EntityNotification),
		UserID:        recipientID,
		Type:          typ,
		Title:         title,
		Message:       message,
		RelatedPostID: relatedPostID,
		RelatedUserID: &actor,
		CreatedAt:     s.clock(),
	}
	s.insertNotificationLocked(n)
	s.emitNotificationLocked(n)
}
