package dataloader

import (
	"context"
	"fmt"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/graph-gophers/dataloader"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

type contextKey string

const key = contextKey("dataloaders")

// Loaders содержит все дата-лоадеры приложения.
type Loaders struct {
	UserByID           *dataloader.Loader
	PostByID           *dataloader.Loader
	CategoryByID       *dataloader.Loader
	TagByID            *dataloader.Loader
	CommentByID        *dataloader.Loader
	RepliesByCommentID *dataloader.Loader

	store storage.Storage
	wait  time.Duration
}

// byIDs строит батч-функцию поверх метода хранилища вида XxxByIDs.
// Отсутствующая запись даёт nil без ошибки.
func byIDs[T any](fetch func(context.Context, []string) (map[string]T, error)) dataloader.BatchFunc {
	return func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := keys.Keys()
		results := make([]*dataloader.Result, len(keys))

		// Вызываем метод хранилища один раз на весь батч
		found, err := fetch(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		// Результат в том же порядке, что и ключи
		for i, id := range ids {
			results[i] = &dataloader.Result{Data: found[id]}
		}
		return results
	}
}

// New создает набор лоадеров для одного запроса.
func New(store storage.Storage, wait time.Duration) *Loaders {
	opts := []dataloader.Option{dataloader.WithWait(wait)}
	return &Loaders{
		UserByID:           dataloader.NewBatchedLoader(byIDs(store.UsersByIDs), opts...),
		PostByID:           dataloader.NewBatchedLoader(byIDs(store.PostsByIDs), opts...),
		CategoryByID:       dataloader.NewBatchedLoader(byIDs(store.CategoriesByIDs), opts...),
		TagByID:            dataloader.NewBatchedLoader(byIDs(store.TagsByIDs), opts...),
		CommentByID:        dataloader.NewBatchedLoader(byIDs(store.CommentsByIDs), opts...),
		RepliesByCommentID: dataloader.NewBatchedLoader(byIDs(store.CommentsByParentIDs), opts...),

		store: store,
		wait:  wait,
	}
}

// Renew - новый набор с пустыми кэшами поверх того же хранилища.
func (l *Loaders) Renew() *Loaders { return New(l.store, l.wait) }

// ClearAll сбрасывает кэши всех лоадеров. Вызывается после каждой мутации,
// чтобы следующие поля ответа видели изменённые данные.
func (l *Loaders) ClearAll() {
	for _, ld := range []*dataloader.Loader{l.UserByID, l.PostByID, l.CategoryByID, l.TagByID, l.CommentByID, l.RepliesByCommentID} {
		ld.ClearAll()
	}
}

func load[T any](ctx context.Context, ld *dataloader.Loader, id string) (T, error) {
	var zero T
	v, err := ld.Load(ctx, dataloader.StringKey(id))()
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("dataloader: unexpected %T for key %q", v, id)
	}
	return out, nil
}

func loadMany[T any](ctx context.Context, ld *dataloader.Loader, ids []string) ([]T, error) {
	values, errs := ld.LoadMany(ctx, dataloader.NewKeysFromStrings(ids))()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	out := make([]T, 0, len(values))
	for _, v := range values {
		if t, ok := v.(T); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (l *Loaders) User(ctx context.Context, id string) (*domain.User, error) {
	return load[*domain.User](ctx, l.UserByID, id)
}

func (l *Loaders) Post(ctx context.Context, id string) (*domain.Post, error) {
	return load[*domain.Post](ctx, l.PostByID, id)
}

func (l *Loaders) Category(ctx context.Context, id string) (*domain.Category, error) {
	return load[*domain.Category](ctx, l.CategoryByID, id)
}

func (l *Loaders) Comment(ctx context.Context, id string) (*domain.Comment, error) {
	return load[*domain.Comment](ctx, l.CommentByID, id)
}

// Tags загружает метки по списку id; висячие id пропускаются.
func (l *Loaders) Tags(ctx context.Context, ids []string) ([]*domain.Tag, error) {
	tags, err := loadMany[*domain.Tag](ctx, l.TagByID, ids)
	if err != nil {
		return nil, err
	}
	out := tags[:0]
	for _, t := range tags {
		if t != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

// Replies - прямые ответы на комментарий, от старых к новым.
func (l *Loaders) Replies(ctx context.Context, commentID string) ([]*domain.Comment, error) {
	return load[[]*domain.Comment](ctx, l.RepliesByCommentID, commentID)
}

// Extension - расширение gqlgen: свой набор лоадеров на каждую операцию.
// По одному websocket-соединению идёт много операций, поэтому кэш
// нельзя привязывать к HTTP-запросу.
type Extension struct {
	Store storage.Storage
	Wait  time.Duration
}

var (
	_ graphql.HandlerExtension     = Extension{}
	_ graphql.OperationInterceptor = Extension{}
)

func (Extension) ExtensionName() string { return "Dataloader" }

func (Extension) Validate(graphql.ExecutableSchema) error { return nil }

func (e Extension) InterceptOperation(ctx context.Context, next graphql.OperationHandler) graphql.ResponseHandler {
	return next(With(ctx, New(e.Store, e.Wait)))
}

// With помещает лоадеры в контекст.
func With(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, key, l)
}

// For извлекает лоадеры из контекста. Вне операции gqlgen возвращает nil.
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(key).(*Loaders)
	return l
}
