package query

import (
	"time"

	"github.com/UkralStul/orion-graphql/internal/domain"
)

// Predicate - условие отбора записи.
type Predicate[T any] func(T) bool

// Filter оставляет записи, удовлетворяющие условию, в исходном порядке.
// nil-условие пропускает всё.
func Filter[T any](items []T, pred Predicate[T]) []T {
	if pred == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// And - конъюнкция условий.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

type timeRange struct {
	after, before *time.Time
}

func parseRange(field string, after, before *string) (timeRange, error) {
	var r timeRange
	if after != nil {
		t, err := domain.ParseTimestamp(*after)
		if err != nil {
			return r, domain.NewValidationError(field+"After", "%v", err)
		}
		r.after = &t
	}
	if before != nil {
		t, err := domain.ParseTimestamp(*before)
		if err != nil {
			return r, domain.NewValidationError(field+"Before", "%v", err)
		}
		r.before = &t
	}
	return r, nil
}

// contains проверяет попадание в диапазон; границы включительные.
func (r timeRange) contains(t time.Time) bool {
	if r.after != nil && t.Before(*r.after) {
		return false
	}
	if r.before != nil && t.After(*r.before) {
		return false
	}
	return true
}

func (r timeRange) empty() bool { return r.after == nil && r.before == nil }

// PostPredicate компилирует фильтр постов.
func PostPredicate(f *domain.PostFilter) (Predicate[*domain.Post], error) {
	if f == nil {
		return nil, nil
	}
	published, err := parseRange("published", f.PublishedAfter, f.PublishedBefore)
	if err != nil {
		return nil, err
	}
	var preds []Predicate[*domain.Post]
	if f.Status != nil {
		preds = append(preds, func(p *domain.Post) bool { return p.Status == *f.Status })
	}
	if f.Visibility != nil {
		preds = append(preds, func(p *domain.Post) bool { return p.Visibility == *f.Visibility })
	}
	if f.CategoryID != nil {
		preds = append(preds, func(p *domain.Post) bool { return p.CategoryID == *f.CategoryID })
	}
	if f.AuthorID != nil {
		preds = append(preds, func(p *domain.Post) bool { return p.AuthorID == *f.AuthorID })
	}
	if len(f.TagIDs) > 0 {
		preds = append(preds, func(p *domain.Post) bool {
			for _, id := range f.TagIDs {
				if p.HasTag(id) {
					return true
				}
			}
			return false
		})
	}
	if f.Search != nil && *f.Search != "" {
		q := *f.Search
		preds = append(preds, func(p *domain.Post) bool {
			return domain.ContainsFold(p.Title, q) || domain.ContainsFold(p.Content, q) || domain.ContainsFold(p.Excerpt, q)
		})
	}
	if !published.empty() {
		// Неопубликованные посты не попадают ни в один диапазон дат публикации.
		preds = append(preds, func(p *domain.Post) bool {
			return p.PublishedAt != nil && published.contains(*p.PublishedAt)
		})
	}
	if f.MinViewCount != nil {
		preds = append(preds, func(p *domain.Post) bool { return p.ViewCount >= *f.MinViewCount })
	}
	if f.MinLikeCount != nil {
		preds = append(preds, func(p *domain.Post) bool { return p.LikeCount >= *f.MinLikeCount })
	}
	if len(preds) == 0 {
		return nil, nil
	}
	return And(preds...), nil
}

// UserPredicate компилирует фильтр пользователей.
func UserPredicate(f *domain.UserFilter) (Predicate[*domain.User], error) {
	if f == nil {
		return nil, nil
	}
	created, err := parseRange("created", f.CreatedAfter, f.CreatedBefore)
	if err != nil {
		return nil, err
	}
	var preds []Predicate[*domain.User]
	if f.Role != nil {
		preds = append(preds, func(u *domain.User) bool { return u.Role == *f.Role })
	}
	if f.Status != nil {
		preds = append(preds, func(u *domain.User) bool { return u.Status == *f.Status })
	}
	if f.Search != nil && *f.Search != "" {
		q := *f.Search
		preds = append(preds, func(u *domain.User) bool {
			return domain.ContainsFold(u.Name, q) || domain.ContainsFold(u.Username, q) || domain.ContainsFold(u.Email, q)
		})
	}
	if !created.empty() {
		preds = append(preds, func(u *domain.User) bool { return created.contains(u.CreatedAt) })
	}
	if len(preds) == 0 {
		return nil, nil
	}
	return And(preds...), nil
}

// CommentPredicate компилирует фильтр комментариев.
func CommentPredicate(f *domain.CommentFilter) Predicate[*domain.Comment] {
	if f == nil {
		return nil
	}
	var preds []Predicate[*domain.Comment]
	if f.PostID != nil {
		preds = append(preds, func(c *domain.Comment) bool { return c.PostID == *f.PostID })
	}
	if f.AuthorID != nil {
		preds = append(preds, func(c *domain.Comment) bool { return c.AuthorID == *f.AuthorID })
	}
	if f.Status != nil {
		preds = append(preds, func(c *domain.Comment) bool { return c.Status == *f.Status })
	}
	switch {
	case f.TopLevelOnly:
		preds = append(preds, func(c *domain.Comment) bool { return c.ParentID == nil })
	case f.ParentID != nil:
		preds = append(preds, func(c *domain.Comment) bool { return c.ParentID != nil && *c.ParentID == *f.ParentID })
	}
	if len(preds) == 0 {
		return nil
	}
	return And(preds...)
}

// PeriodStart - начало окна trending относительно now. Для "all" - nil.
func PeriodStart(period domain.TrendingPeriod, now time.Time) (*time.Time, error) {
	var d time.Duration
	switch period {
	case "", domain.PeriodAll:
		return nil, nil
	case domain.PeriodDay:
		d = 24 * time.Hour
	case domain.PeriodWeek:
		d = 7 * 24 * time.Hour
	case domain.PeriodMonth:
		d = 30 * 24 * time.Hour
	default:
		return nil, domain.NewValidationError("period", "must be one of [day week month all], got %q", period)
	}
	t := now.Add(-d)
	return &t, nil
}
