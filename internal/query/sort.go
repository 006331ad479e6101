// Package query - движок фильтрации, сортировки и пагинации над срезами записей.
//
// Конвейер всегда один: фильтр -> устойчивая сортировка -> пагинация.
// Пагинация никогда не применяется раньше сортировки.
package query

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/UkralStul/orion-graphql/internal/domain"
)

// Comparator возвращает <0, 0, >0 как cmp.Compare.
type Comparator[T any] func(a, b T) int

// SortStable сортирует на месте. При равенстве сохраняется входной порядок,
// на этом держится стабильность пагинации между повторными запросами.
func SortStable[T any](items []T, c Comparator[T]) {
	if c == nil {
		return
	}
	slices.SortStableFunc(items, c)
}

// Desc разворачивает компаратор. Равные элементы остаются равными,
// поэтому устойчивость сохраняется и при сортировке по убыванию.
func Desc[T any](c Comparator[T]) Comparator[T] {
	return func(a, b T) int { return c(b, a) }
}

// WithDirection применяет направление сортировки.
func WithDirection[T any](c Comparator[T], dir domain.SortDirection) Comparator[T] {
	if dir == domain.SortDesc {
		return Desc(c)
	}
	return c
}

// Then - лексикографическая композиция компараторов.
func Then[T any](first, second Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		if r := first(a, b); r != 0 {
			return r
		}
		return second(a, b)
	}
}

// CompareOptionalTime: nil считается раньше любого времени.
func CompareOptionalTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

// TextComparator сравнивает строки с учётом локали (аналог localeCompare).
// collate.Collator не потокобезопасен, поэтому на каждую сортировку свой экземпляр.
func TextComparator() func(a, b string) int {
	c := collate.New(language.English)
	return c.CompareString
}

// ByCreatedAt - компаратор по времени создания для любых записей.
func ByCreatedAt[T any](createdAt func(T) time.Time) Comparator[T] {
	return func(a, b T) int { return createdAt(a).Compare(createdAt(b)) }
}

// PostComparator строит компаратор постов. Без сортировки - новые первыми.
func PostComparator(s *domain.PostSort) Comparator[*domain.Post] {
	if s == nil {
		return Desc(ByCreatedAt(func(p *domain.Post) time.Time { return p.CreatedAt }))
	}
	var c Comparator[*domain.Post]
	switch s.Field {
	case domain.PostSortUpdatedAt:
		c = func(a, b *domain.Post) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case domain.PostSortPublishedAt:
		c = func(a, b *domain.Post) int { return CompareOptionalTime(a.PublishedAt, b.PublishedAt) }
	case domain.PostSortViewCount:
		c = func(a, b *domain.Post) int { return cmp.Compare(a.ViewCount, b.ViewCount) }
	case domain.PostSortLikeCount:
		c = func(a, b *domain.Post) int { return cmp.Compare(a.LikeCount, b.LikeCount) }
	case domain.PostSortCommentCount:
		c = func(a, b *domain.Post) int { return cmp.Compare(a.CommentCount, b.CommentCount) }
	case domain.PostSortTitle:
		text := TextComparator()
		c = func(a, b *domain.Post) int { return text(a.Title, b.Title) }
	default:
		c = ByCreatedAt(func(p *domain.Post) time.Time { return p.CreatedAt })
	}
	return WithDirection(c, s.Direction)
}

// UserCounts отдаёт счётчики пользователя из обратных индексов.
type UserCounts func(userID string) (posts, followers int)

// UserComparator строит компаратор пользователей.
// Без сортировки возвращает nil: остаётся порядок вставки.
func UserComparator(s *domain.UserSort, counts UserCounts) Comparator[*domain.User] {
	if s == nil {
		return nil
	}
	var c Comparator[*domain.User]
	switch s.Field {
	case domain.UserSortName:
		text := TextComparator()
		c = func(a, b *domain.User) int { return text(a.Name, b.Name) }
	case domain.UserSortUsername:
		text := TextComparator()
		c = func(a, b *domain.User) int { return text(a.Username, b.Username) }
	case domain.UserSortPostCount:
		c = func(a, b *domain.User) int {
			pa, _ := counts(a.ID)
			pb, _ := counts(b.ID)
			return cmp.Compare(pa, pb)
		}
	case domain.UserSortFollowerCount:
		c = func(a, b *domain.User) int {
			_, fa := counts(a.ID)
			_, fb := counts(b.ID)
			return cmp.Compare(fa, fb)
		}
	default:
		c = ByCreatedAt(func(u *domain.User) time.Time { return u.CreatedAt })
	}
	return WithDirection(c, s.Direction)
}
