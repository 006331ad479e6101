package graph

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/UkralStul/orion-graphql/internal/domain"
)

var timeType = reflect.TypeOf(time.Time{})

// complete приводит значение резолвера к типу поля схемы.
// nil означает null в non-null позиции.
func (ex *execution) complete(ctx context.Context, typ *ast.Type, f graphql.CollectedField, v any, path ast.Path) graphql.Marshaler {
	rv := reflect.ValueOf(v)
	if isNull(rv) {
		if typ.NonNull {
			ex.fail(fmt.Errorf("non-null field %s resolved to null", path), f.Field, path)
			return nil
		}
		return graphql.Null
	}
	for rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	if typ.Elem != nil {
		return ex.completeList(ctx, typ, f, rv, path)
	}

	def := ex.es.schema.Types[typ.NamedType]
	if def == nil {
		ex.fail(fmt.Errorf("unknown type %q", typ.NamedType), f.Field, path)
		return nullFor(typ)
	}

	switch def.Kind {
	case ast.Scalar, ast.Enum:
		m, err := marshalLeaf(def, rv)
		if err != nil {
			ex.fail(err, f.Field, path)
			return nullFor(typ)
		}
		return m
	case ast.Object:
		res := ex.executeObject(ctx, def, addressable(rv), f.Selections, path, false)
		if res == nil {
			return nullFor(typ)
		}
		return res
	default:
		ex.fail(fmt.Errorf("cannot complete %s of kind %s", def.Name, def.Kind), f.Field, path)
		return nullFor(typ)
	}
}

func (ex *execution) completeList(ctx context.Context, typ *ast.Type, f graphql.CollectedField, rv reflect.Value, path ast.Path) graphql.Marshaler {
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		ex.fail(fmt.Errorf("list field resolved to %s", rv.Type()), f.Field, path)
		return nullFor(typ)
	}

	items := make(graphql.Array, rv.Len())
	completeItem := func(i int) {
		items[i] = ex.complete(ctx, typ.Elem, f, rv.Index(i).Interface(), append(slices.Clip(path), ast.PathIndex(i)))
	}
	if len(f.Selections) > 0 && len(items) > 1 {
		parallel(len(items), completeItem)
	} else {
		for i := range items {
			completeItem(i)
		}
	}

	for _, it := range items {
		if it == nil {
			return nullFor(typ)
		}
	}
	return items
}

// isNull: nil-указатель, nil-интерфейс или отсутствующее значение.
// nil-срез - пустой список, а не null.
func isNull(rv reflect.Value) bool {
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil() || isNull(rv.Elem())
	case reflect.Map:
		return rv.IsNil()
	}
	return false
}

// addressable отдаёт структуру по указателю: резолверы объектов принимают *T.
func addressable(rv reflect.Value) any {
	if rv.Kind() == reflect.Struct {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		return ptr.Interface()
	}
	return rv.Interface()
}

func marshalLeaf(def *ast.Definition, rv reflect.Value) (graphql.Marshaler, error) {
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}

	if def.Kind == ast.Enum {
		if rv.Kind() != reflect.String {
			return nil, fmt.Errorf("enum %s resolved to %s", def.Name, rv.Type())
		}
		val := rv.String()
		if def.EnumValues.ForName(val) == nil {
			return nil, fmt.Errorf("%q is not a valid %s", val, def.Name)
		}
		return graphql.MarshalString(val), nil
	}

	switch def.Name {
	case "String", "ID":
		if rv.Type() == timeType {
			return graphql.MarshalString(domain.FormatTime(rv.Interface().(time.Time))), nil
		}
		if rv.Kind() == reflect.String {
			return graphql.MarshalString(rv.String()), nil
		}
	case "Int":
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return graphql.MarshalInt(int(rv.Int())), nil
		}
	case "Float":
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return graphql.MarshalFloat(rv.Float()), nil
		case reflect.Int, reflect.Int64:
			return graphql.MarshalFloat(float64(rv.Int())), nil
		}
	case "Boolean":
		if rv.Kind() == reflect.Bool {
			return graphql.MarshalBoolean(rv.Bool()), nil
		}
	}
	return nil, fmt.Errorf("cannot marshal %s as %s", rv.Type(), def.Name)
}
