package inmemory

import (
	"context"
	"time"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/metrics"
	"github.com/UkralStul/orion-graphql/internal/query"
)

// === Media Methods ===

func (s *Store) GetMedia(ctx context.Context, id string) (*domain.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.media.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityMedia, id)
	}
	return m.Clone(), nil
}

// ListMedia - файлы (все или одного загрузившего), новые первыми.
func (s *Store) ListMedia(ctx context.Context, uploaderID *string, limit *int) ([]*domain.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []*domain.Media
	if uploaderID != nil {
		items = s.media.Lookup(s.mediaByUploader.get(*uploaderID))
	} else {
		items = s.media.All()
	}
	query.SortStable(items, query.Desc(query.ByCreatedAt(func(m *domain.Media) time.Time { return m.CreatedAt })))
	page, err := query.Offset(items, query.Limit(limit))
	if err != nil {
		return nil, err
	}
	return cloneAll(page), nil
}

func (s *Store) insertMediaLocked(m *domain.Media) {
	s.media.Put(m.ID, m)
	s.mediaByUploader.add(m.UploaderID, m.ID)
}

func (s *Store) CreateMedia(ctx context.Context, in domain.CreateMediaInput) (*domain.Media, error) {
	s.mu.Lock()
	defer s.unlock()

	if !s.users.Has(in.UploaderID) {
		return nil, domain.NewValidationError("uploaderId", "user %q does not exist", in.UploaderID)
	}
	m := &domain.Media{
		ID:           s.ids.Next(domain.EntityMedia),
		UploaderID:   in.UploaderID,
		Filename:     in.Filename,
		MimeType:     in.MimeType,
		Size:         in.Size,
		URL:          in.URL,
		ThumbnailURL: in.ThumbnailURL,
		Alt:          in.Alt,
		Width:        in.Width,
		Height:       in.Height,
		CreatedAt:    s.clock(),
	}
	s.insertMediaLocked(m)
	metrics.StoreMutation("create_media")
	return m.Clone(), nil
}

func (s *Store) UpdateMedia(ctx context.Context, id string, in domain.UpdateMediaInput) (*domain.Media, error) {
	s.mu.Lock()
	defer s.unlock()

	m, ok := s.media.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityMedia, id)
	}
	if in.Filename != nil {
		m.Filename = *in.Filename
	}
	if in.Alt != nil {
		alt := *in.Alt
		m.Alt = &alt
	}
	metrics.StoreMutation("update_media")
	return m.Clone(), nil
}

func (s *Store) DeleteMedia(ctx context.Context, id string) (*domain.DeleteResult, error) {
	s.mu.Lock()
	defer s.unlock()

	m, ok := s.media.Get(id)
	if !ok {
		return &domain.DeleteResult{Success: false, ID: id}, nil
	}
	s.auditLocked(ctx, "delete", domain.EntityMedia, id, m, nil)
	s.removeMediaLocked(m)
	metrics.StoreMutation("delete_media")
	return &domain.DeleteResult{Success: true, ID: id}, nil
}

func (s *Store) removeMediaLocked(m *domain.Media) {
	s.mediaByUploader.remove(m.UploaderID, m.ID)
	s.media.Delete(m.ID)
}
