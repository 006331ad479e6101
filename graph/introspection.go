package graph

import (
	"context"
	"errors"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

var errIntrospectionDisabled = &gqlerror.Error{
	Message:    "introspection is disabled",
	Extensions: map[string]any{"code": CodeForbidden},
}

// introspectionFields - резолверы __schema, __type и мета-типов поверх обёрток gqlgen.
func introspectionFields(schema *ast.Schema) map[string]map[string]fieldFunc {
	allowed := func(ctx context.Context) error {
		if graphql.GetOperationContext(ctx).DisableIntrospection {
			return errIntrospectionDisabled
		}
		return nil
	}

	return map[string]map[string]fieldFunc{
		schema.Query.Name: {
			"__schema": func(ctx context.Context, _ any, _ map[string]any) (any, error) {
				if err := allowed(ctx); err != nil {
					return nil, err
				}
				return introspection.WrapSchema(schema), nil
			},
			"__type": func(ctx context.Context, _ any, raw map[string]any) (any, error) {
				if err := allowed(ctx); err != nil {
					return nil, err
				}
				name, _ := raw["name"].(string)
				def := schema.Types[name]
				if def == nil {
					return nil, nil
				}
				return introspection.WrapTypeFromDef(schema, def), nil
			},
		},
		"__Schema": {
			"description":      meta(func(s *introspection.Schema) any { return s.Description() }),
			"types":            meta(func(s *introspection.Schema) any { return s.Types() }),
			"queryType":        meta(func(s *introspection.Schema) any { return s.QueryType() }),
			"mutationType":     meta(func(s *introspection.Schema) any { return s.MutationType() }),
			"subscriptionType": meta(func(s *introspection.Schema) any { return s.SubscriptionType() }),
			"directives":       meta(func(s *introspection.Schema) any { return s.Directives() }),
		},
		"__Type": {
			"kind":        meta(func(t *introspection.Type) any { return t.Kind() }),
			"name":        meta(func(t *introspection.Type) any { return t.Name() }),
			"description": meta(func(t *introspection.Type) any { return t.Description() }),
			"fields": metaArgs(func(t *introspection.Type, raw map[string]any) any {
				return orNull(t.Fields(includeDeprecated(raw)))
			}),
			"interfaces":    meta(func(t *introspection.Type) any { return orNull(t.Interfaces()) }),
			"possibleTypes": meta(func(t *introspection.Type) any { return orNull(t.PossibleTypes()) }),
			"enumValues": metaArgs(func(t *introspection.Type, raw map[string]any) any {
				return orNull(t.EnumValues(includeDeprecated(raw)))
			}),
			"inputFields":    meta(func(t *introspection.Type) any { return orNull(t.InputFields()) }),
			"ofType":         meta(func(t *introspection.Type) any { return t.OfType() }),
			"specifiedByURL": meta(func(t *introspection.Type) any { return t.SpecifiedByURL() }),
		},
		"__Field": {
			"name":              meta(func(f *introspection.Field) any { return f.Name }),
			"description":       meta(func(f *introspection.Field) any { return f.Description() }),
			"args":              meta(func(f *introspection.Field) any { return f.Args }),
			"type":              meta(func(f *introspection.Field) any { return f.Type }),
			"isDeprecated":      meta(func(f *introspection.Field) any { return f.IsDeprecated() }),
			"deprecationReason": meta(func(f *introspection.Field) any { return f.DeprecationReason() }),
		},
		"__InputValue": {
			"name":         meta(func(v *introspection.InputValue) any { return v.Name }),
			"description":  meta(func(v *introspection.InputValue) any { return v.Description() }),
			"type":         meta(func(v *introspection.InputValue) any { return v.Type }),
			"defaultValue": meta(func(v *introspection.InputValue) any { return v.DefaultValue }),
		},
		"__EnumValue": {
			"name":              meta(func(v *introspection.EnumValue) any { return v.Name }),
			"description":       meta(func(v *introspection.EnumValue) any { return v.Description() }),
			"isDeprecated":      meta(func(v *introspection.EnumValue) any { return v.IsDeprecated() }),
			"deprecationReason": meta(func(v *introspection.EnumValue) any { return v.DeprecationReason() }),
		},
		"__Directive": {
			"name":         meta(func(d *introspection.Directive) any { return d.Name }),
			"description":  meta(func(d *introspection.Directive) any { return d.Description() }),
			"locations":    meta(func(d *introspection.Directive) any { return d.Locations }),
			"args":         meta(func(d *introspection.Directive) any { return d.Args }),
			"isRepeatable": meta(func(d *introspection.Directive) any { return d.IsRepeatable }),
		},
	}
}

func meta[O any](fn func(O) any) fieldFunc {
	return metaArgs(func(o O, _ map[string]any) any { return fn(o) })
}

func metaArgs[O any](fn func(O, map[string]any) any) fieldFunc {
	return func(_ context.Context, obj any, raw map[string]any) (any, error) {
		o, ok := obj.(O)
		if !ok {
			return nil, errors.New("unexpected introspection object")
		}
		return fn(o, raw), nil
	}
}

func includeDeprecated(raw map[string]any) bool {
	v, _ := raw["includeDeprecated"].(bool)
	return v
}

// orNull: списки мета-типов, неприменимые к виду типа, отдаются как null.
func orNull[T any](items []T) any {
	if items == nil {
		return nil
	}
	return items
}
