package graph

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/rs/zerolog"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"golang.org/x/sync/errgroup"

	"github.com/UkralStul/orion-graphql/internal/dataloader"
	"github.com/UkralStul/orion-graphql/internal/metrics"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

// Config - зависимости исполняемой схемы.
type Config struct {
	Resolvers *Resolver
	Logger    zerolog.Logger
}

// ExecutableSchema исполняет разобранные и провалидированные gqlgen-обработчиком
// операции: обходит selection set и вызывает резолверы из таблицы полей.
//
// Разбор, валидация, транспорты и расширения остаются за handler.Server.
// Здесь только исполнение:
//   - корневые поля и вычисляемые поля объектов берутся из fieldTable (bindings.go);
//   - остальные поля читаются из структуры модели по json-тегу (fieldByTag);
//   - поля подписок берутся из subscriptionTable;
//   - __schema и __type обслуживает introspection.go.
//
// Поле схемы без записи в таблице и без json-тега даёт ошибку на запросе,
// поэтому покрытие схемы проверяется тестом.
type ExecutableSchema struct {
	schema        *ast.Schema
	fields        map[string]map[string]fieldFunc
	subscriptions map[string]subscriptionFunc
	store         storage.Storage
	log           zerolog.Logger
}

var _ graphql.ExecutableSchema = (*ExecutableSchema)(nil)

func NewExecutableSchema(cfg Config) *ExecutableSchema {
	es := &ExecutableSchema{
		schema: Schema(),
		store:  cfg.Resolvers.Storage,
		log:    cfg.Logger.With().Str("component", "graphql").Logger(),
	}
	es.fields = cfg.Resolvers.fieldTable()
	for typeName, fields := range introspectionFields(es.schema) {
		if es.fields[typeName] == nil {
			es.fields[typeName] = make(map[string]fieldFunc, len(fields))
		}
		for name, fn := range fields {
			es.fields[typeName][name] = fn
		}
	}
	es.subscriptions = cfg.Resolvers.subscriptionTable()
	return es
}

func (es *ExecutableSchema) Schema() *ast.Schema { return es.schema }

// Complexity не переопределяется: используется оценка gqlgen по умолчанию.
func (es *ExecutableSchema) Complexity(typeName, fieldName string, childComplexity int, args map[string]interface{}) (int, bool) {
	return 0, false
}

func (es *ExecutableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	ex := es.newExecution(opCtx)

	switch opCtx.Operation.Operation {
	case ast.Query:
		return graphql.OneShot(ex.run(ctx, es.schema.Query, opCtx.Operation.SelectionSet, false))
	case ast.Mutation:
		return graphql.OneShot(ex.run(ctx, es.schema.Mutation, opCtx.Operation.SelectionSet, true))
	case ast.Subscription:
		return ex.subscribe(ctx, opCtx.Operation.SelectionSet)
	default:
		return graphql.OneShot(&graphql.Response{Errors: gqlerror.List{gqlerror.Errorf("unsupported GraphQL operation")}})
	}
}

// execution - состояние одной операции (или одного события подписки).
type execution struct {
	es    *ExecutableSchema
	opCtx *graphql.OperationContext

	mu   sync.Mutex
	errs gqlerror.List
}

func (es *ExecutableSchema) newExecution(opCtx *graphql.OperationContext) *execution {
	return &execution{es: es, opCtx: opCtx}
}

func (ex *execution) addError(err *gqlerror.Error) {
	ex.mu.Lock()
	ex.errs = append(ex.errs, err)
	ex.mu.Unlock()
}

func (ex *execution) run(ctx context.Context, root *ast.Definition, sel ast.SelectionSet, serial bool) *graphql.Response {
	start := time.Now()
	data := ex.executeObject(ctx, root, nil, sel, nil, serial)
	metrics.ObserveOperation(string(ex.opCtx.Operation.Operation), len(ex.errs) > 0, time.Since(start))
	return ex.response(data)
}

func (ex *execution) response(data graphql.Marshaler) *graphql.Response {
	if data == nil {
		data = graphql.Null
	}
	var buf bytes.Buffer
	data.MarshalGQL(&buf)
	return &graphql.Response{Data: buf.Bytes(), Errors: ex.errs}
}

// executeObject возвращает nil, если одно из non-null полей не удалось разрешить:
// тогда null поднимается к ближайшему nullable родителю.
func (ex *execution) executeObject(ctx context.Context, def *ast.Definition, obj any, sel ast.SelectionSet, path ast.Path, serial bool) graphql.Marshaler {
	fields := graphql.CollectFields(ex.opCtx, sel, []string{def.Name})
	out := &object{keys: make([]string, len(fields)), values: make([]graphql.Marshaler, len(fields))}

	for i, f := range fields {
		out.keys[i] = f.Alias
		out.values[i] = ex.executeField(ctx, def, obj, f, append(slices.Clip(path), ast.PathName(f.Alias)))
		if serial {
			// Мутация могла изменить закэшированные записи.
			if l := dataloader.For(ctx); l != nil {
				l.ClearAll()
			}
		}
	}

	for _, v := range out.values {
		if v == nil {
			return nil
		}
	}
	return out
}

func (ex *execution) executeField(ctx context.Context, parent *ast.Definition, obj any, f graphql.CollectedField, path ast.Path) (res graphql.Marshaler) {
	if f.Name == "__typename" {
		return graphql.MarshalString(parent.Name)
	}
	typ := f.Definition.Type

	defer func() {
		if r := recover(); r != nil {
			ex.es.log.Error().
				Str("field", parent.Name+"."+f.Name).
				Str("path", path.String()).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("resolver panic")
			ex.addError(presentError(fmt.Errorf("panic: %v", r), f.Field, path))
			res = nullFor(typ)
		}
	}()

	value, err := ex.resolve(ctx, parent, obj, f)
	if err != nil {
		if ErrorCode(err) == CodeNotFound && !typ.NonNull {
			return graphql.Null
		}
		ex.fail(err, f.Field, path)
		return nullFor(typ)
	}
	return ex.complete(ctx, typ, f, value, path)
}

func (ex *execution) resolve(ctx context.Context, parent *ast.Definition, obj any, f graphql.CollectedField) (any, error) {
	raw := f.ArgumentMap(ex.opCtx.Variables)
	if fn, ok := ex.es.fields[parent.Name][f.Name]; ok {
		return fn(ctx, obj, raw)
	}
	if v, ok := fieldByTag(obj, f.Name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("field %s.%s has no resolver", parent.Name, f.Name)
}

// fail регистрирует ошибку поля; внутренние ошибки попадают в лог.
func (ex *execution) fail(err error, f *ast.Field, path ast.Path) {
	if ErrorCode(err) == CodeInternal {
		ex.es.log.Error().Err(err).Str("path", path.String()).Msg("resolver failed")
	}
	ex.addError(presentError(err, f, path))
}

func nullFor(typ *ast.Type) graphql.Marshaler {
	if typ.NonNull {
		return nil
	}
	return graphql.Null
}

// object - JSON-объект с порядком ключей как в selection set.
type object struct {
	keys   []string
	values []graphql.Marshaler
}

func (o *object) MarshalGQL(w io.Writer) {
	io.WriteString(w, "{")
	for i, k := range o.keys {
		if i > 0 {
			io.WriteString(w, ",")
		}
		graphql.MarshalString(k).MarshalGQL(w)
		io.WriteString(w, ":")
		o.values[i].MarshalGQL(w)
	}
	io.WriteString(w, "}")
}

// subscribe запускает единственное корневое поле подписки. Каждое событие
// исполняется как отдельный ответ со своим списком ошибок.
func (ex *execution) subscribe(ctx context.Context, sel ast.SelectionSet) graphql.ResponseHandler {
	fields := graphql.CollectFields(ex.opCtx, sel, []string{ex.es.schema.Subscription.Name})
	if len(fields) != 1 {
		return graphql.OneShot(&graphql.Response{Errors: gqlerror.List{gqlerror.Errorf("subscription must select exactly one top level field")}})
	}
	f := fields[0]
	path := ast.Path{ast.PathName(f.Alias)}

	sub, ok := ex.es.subscriptions[f.Name]
	if !ok {
		return graphql.OneShot(&graphql.Response{Errors: gqlerror.List{gqlerror.ErrorPathf(path, "unknown subscription %q", f.Name)}})
	}
	next, err := sub(ctx, f.ArgumentMap(ex.opCtx.Variables))
	if err != nil {
		ex.fail(err, f.Field, path)
		return graphql.OneShot(&graphql.Response{Errors: ex.errs})
	}
	metrics.ObserveOperation(string(ast.Subscription), false, 0)

	return func(ctx context.Context) *graphql.Response {
		v, ok := next(ctx)
		if !ok {
			return nil
		}
		// Подписка живёт долго: каждое событие читает хранилище заново.
		if l := dataloader.For(ctx); l != nil {
			ctx = dataloader.With(ctx, l.Renew())
		}
		event := ex.es.newExecution(ex.opCtx)
		value := event.complete(ctx, f.Definition.Type, f, v, path)
		if value == nil {
			return event.response(nil)
		}
		return event.response(&object{keys: []string{f.Alias}, values: []graphql.Marshaler{value}})
	}
}

// parallel выполняет fn для каждого индекса; используется для элементов списков,
// чтобы загрузки связей попадали в один пакет Dataloader'а.
func parallel(n int, fn func(i int)) {
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
