package graph

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/UkralStul/orion-graphql/graph/model"
	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/validation"
)

// fieldFunc разрешает одно поле объекта. raw - аргументы поля со значениями по умолчанию.
type fieldFunc func(ctx context.Context, obj any, raw map[string]any) (any, error)

// nextFunc отдаёт очередное событие подписки; false - поток закончился.
type nextFunc func(ctx context.Context) (any, bool)

type subscriptionFunc func(ctx context.Context, raw map[string]any) (nextFunc, error)

// decodeArgs собирает типизированные аргументы и проверяет их.
func decodeArgs[A any](raw map[string]any) (A, error) {
	var args A
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &args,
	})
	if err != nil {
		return args, fmt.Errorf("build args decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return args, domain.NewValidationError("", "%v", err)
	}
	if n, ok := any(&args).(model.NullAware); ok {
		n.ObserveNulls(raw)
	}
	if err := validation.Struct(&args); err != nil {
		return args, err
	}
	return args, nil
}

// root - поле Query/Mutation с аргументами.
func root[A, R any](fn func(context.Context, A) (R, error)) fieldFunc {
	return func(ctx context.Context, _ any, raw map[string]any) (any, error) {
		args, err := decodeArgs[A](raw)
		if err != nil {
			return nil, err
		}
		return fn(ctx, args)
	}
}

// rootNoArgs - поле Query без аргументов.
func rootNoArgs[R any](fn func(context.Context) (R, error)) fieldFunc {
	return func(ctx context.Context, _ any, _ map[string]any) (any, error) {
		return fn(ctx)
	}
}

// field - вычисляемое поле объекта без аргументов.
func field[O, R any](fn func(context.Context, O) (R, error)) fieldFunc {
	return func(ctx context.Context, obj any, _ map[string]any) (any, error) {
		o, ok := obj.(O)
		if !ok {
			return nil, fmt.Errorf("resolver expects %T, got %T", o, obj)
		}
		return fn(ctx, o)
	}
}

// fieldArgs - вычисляемое поле объекта с аргументами.
func fieldArgs[O, A, R any](fn func(context.Context, O, A) (R, error)) fieldFunc {
	return func(ctx context.Context, obj any, raw map[string]any) (any, error) {
		o, ok := obj.(O)
		if !ok {
			return nil, fmt.Errorf("resolver expects %T, got %T", o, obj)
		}
		args, err := decodeArgs[A](raw)
		if err != nil {
			return nil, err
		}
		return fn(ctx, o, args)
	}
}

// subscription превращает типизированный канал в поток событий.
func subscription[A, T any](fn func(context.Context, A) (<-chan T, error)) subscriptionFunc {
	return func(ctx context.Context, raw map[string]any) (nextFunc, error) {
		args, err := decodeArgs[A](raw)
		if err != nil {
			return nil, err
		}
		ch, err := fn(ctx, args)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, bool) {
			select {
			case v, ok := <-ch:
				return v, ok
			case <-ctx.Done():
				return nil, false
			}
		}, nil
	}
}

// fieldIndex кэширует соответствие json-тег -> индекс поля для каждого типа.
var fieldIndex sync.Map // reflect.Type -> map[string][]int

// fieldByTag - резолвер по умолчанию: поле структуры с совпадающим json-тегом.
func fieldByTag(obj any, name string) (any, bool) {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	idx, ok := tagIndex(v.Type())[name]
	if !ok {
		return nil, false
	}
	return v.FieldByIndex(idx).Interface(), true
}

func tagIndex(t reflect.Type) map[string][]int {
	if cached, ok := fieldIndex.Load(t); ok {
		return cached.(map[string][]int)
	}
	out := make(map[string][]int, t.NumField())
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		out[name] = f.Index
	}
	fieldIndex.Store(t, out)
	return out
}
