package graph

import (
	"context"

	"github.com/UkralStul/orion-graphql/internal/dataloader"
	"github.com/UkralStul/orion-graphql/internal/domain"
)

// Связи разрешаются через Dataloader запроса. Без middleware (тесты, stats)
// запрос идёт прямо в хранилище.

func (r *Resolver) user(ctx context.Context, id string) (*domain.User, error) {
	l := dataloader.For(ctx)
	if l == nil {
		return r.Storage.GetUser(ctx, id)
	}
	v, err := l.User(ctx, id)
	return orNotFound(v, err, domain.EntityUser, id)
}

func (r *Resolver) post(ctx context.Context, id string) (*domain.Post, error) {
	l := dataloader.For(ctx)
	if l == nil {
		return r.Storage.GetPost(ctx, id)
	}
	v, err := l.Post(ctx, id)
	return orNotFound(v, err, domain.EntityPost, id)
}

func (r *Resolver) category(ctx context.Context, id string) (*domain.Category, error) {
	l := dataloader.For(ctx)
	if l == nil {
		return r.Storage.GetCategory(ctx, id)
	}
	v, err := l.Category(ctx, id)
	return orNotFound(v, err, domain.EntityCategory, id)
}

func (r *Resolver) comment(ctx context.Context, id string) (*domain.Comment, error) {
	l := dataloader.For(ctx)
	if l == nil {
		return r.Storage.GetComment(ctx, id)
	}
	v, err := l.Comment(ctx, id)
	return orNotFound(v, err, domain.EntityComment, id)
}

// tags теряет висячие id.
func (r *Resolver) tags(ctx context.Context, ids []string) ([]*domain.Tag, error) {
	if l := dataloader.For(ctx); l != nil {
		return l.Tags(ctx, ids)
	}
	byID, err := r.Storage.TagsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *Resolver) replies(ctx context.Context, commentID string) ([]*domain.Comment, error) {
	if l := dataloader.For(ctx); l != nil {
		return l.Replies(ctx, commentID)
	}
	byParent, err := r.Storage.CommentsByParentIDs(ctx, []string{commentID})
	if err != nil {
		return nil, err
	}
	return byParent[commentID], nil
}

// orNotFound превращает пустой результат Dataloader'а в NotFound, как у прямой выборки.
func orNotFound[T comparable](v T, err error, entity domain.EntityType, id string) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == zero {
		return zero, domain.NotFound(entity, id)
	}
	return v, nil
}
