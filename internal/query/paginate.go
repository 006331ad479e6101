package query

import (
	"encoding/base64"
	"fmt"
	"slices"

	"github.com/UkralStul/orion-graphql/internal/domain"
)

// DefaultPageSize - размер страницы курсорной пагинации по умолчанию.
const DefaultPageSize = 10

// Page - аргументы offset-пагинации. nil Limit означает "без ограничения".
type Page struct {
	Limit  *int
	Offset *int
}

// Limit - страница из первых n записей.
func Limit(n *int) Page { return Page{Limit: n} }

// Offset вырезает slice(offset, offset+limit) из отфильтрованной и отсортированной выборки.
func Offset[T any](items []T, p Page) ([]T, error) {
	start := 0
	if p.Offset != nil {
		if *p.Offset < 0 {
			return nil, domain.NewValidationError("offset", "must be at least 0")
		}
		start = *p.Offset
	}
	end := len(items)
	if p.Limit != nil {
		if *p.Limit < 0 {
			return nil, domain.NewValidationError("limit", "must be at least 0")
		}
		end = min(end, start+*p.Limit)
	}
	if start >= end {
		return []T{}, nil
	}
	return items[start:end], nil
}

// CursorArgs - аргументы курсорной пагинации.
type CursorArgs struct {
	First *int
	After *string
}

type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
	TotalCount      int     `json:"totalCount"`
}

type Edge[T any] struct {
	Node   T      `json:"node"`
	Cursor string `json:"cursor"`
}

// Connection - страница в формате {edges, pageInfo}.
type Connection[T any] struct {
	Edges    []*Edge[T] `json:"edges"`
	PageInfo *PageInfo  `json:"pageInfo"`
}

// Nodes возвращает записи страницы.
func (c *Connection[T]) Nodes() []T {
	out := make([]T, len(c.Edges))
	for i, e := range c.Edges {
		out[i] = e.Node
	}
	return out
}

// EncodeCursor кодирует id записи в непрозрачный курсор.
func EncodeCursor(id string) string {
	return base64.StdEncoding.EncodeToString([]byte(id))
}

// DecodeCursor - обратная операция к EncodeCursor.
func DecodeCursor(cursor string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil || len(raw) == 0 {
		return "", fmt.Errorf("%w: %q is not a valid cursor", domain.ErrInvalidCursor, cursor)
	}
	return string(raw), nil
}

// Paginate применяет keyset-пагинацию к отфильтрованной и отсортированной выборке.
// Если курсор after не найден в выборке (запись удалена или отфильтрована),
// возвращается ErrInvalidCursor: тихий рестарт с начала дал бы дубли на страницах.
func Paginate[T any](items []T, args CursorArgs, id func(T) string) (*Connection[T], error) {
	first := DefaultPageSize
	if args.First != nil {
		if *args.First < 0 {
			return nil, domain.NewValidationError("first", "must be at least 0")
		}
		first = *args.First
	}

	start := 0
	if args.After != nil {
		afterID, err := DecodeCursor(*args.After)
		if err != nil {
			return nil, err
		}
		idx := slices.IndexFunc(items, func(it T) bool { return id(it) == afterID })
		if idx < 0 {
			return nil, fmt.Errorf("%w: record %q is not in the current result set", domain.ErrInvalidCursor, afterID)
		}
		start = idx + 1
	}

	end := min(start+first, len(items))
	page := items[start:end]

	edges := make([]*Edge[T], len(page))
	for i, it := range page {
		edges[i] = &Edge[T]{Node: it, Cursor: EncodeCursor(id(it))}
	}

	info := &PageInfo{
		HasNextPage:     end < len(items),
		HasPreviousPage: start > 0,
		TotalCount:      len(items),
	}
	if len(edges) > 0 {
		info.StartCursor = &edges[0].Cursor
		info.EndCursor = &edges[len(edges)-1].Cursor
	}
	return &Connection[T]{Edges: edges, PageInfo: info}, nil
}
