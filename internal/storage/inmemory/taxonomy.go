package inmemory

import (
	"cmp"
	"context"
	"fmt"

	"github.com/UkralStul/orion-graphql/internal/domain"
	"github.com/UkralStul/orion-graphql/internal/metrics"
	"github.com/UkralStul/orion-graphql/internal/query"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

const (
	defaultCategoryColor = "#3B82F6"
	defaultCategoryIcon  = "folder"
)

// === Category Methods ===

func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityCategory, id)
	}
	return c.Clone(), nil
}

func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories.All() {
		if c.Slug == slug {
			return c.Clone(), nil
		}
	}
	return nil, domain.NotFound(domain.EntityCategory, slug)
}

func (s *Store) CategoriesByIDs(ctx context.Context, ids []string) (map[string]*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.categories.Lookup(ids), func(c *domain.Category) string { return c.ID }), nil
}

func bySortOrder(a, b *domain.Category) int { return cmp.Compare(a.SortOrder, b.SortOrder) }

// ListCategories: корни, дети узла или все категории; всегда по sortOrder.
func (s *Store) ListCategories(ctx context.Context, q storage.CategoryQuery) ([]*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Category
	switch {
	case q.RootsOnly:
		out = query.Filter(s.categories.All(), func(c *domain.Category) bool { return c.ParentID == nil })
	case q.ParentID != nil:
		out = s.categories.LookupOrdered(s.categoriesByParent.get(*q.ParentID))
	default:
		out = s.categories.All()
	}
	query.SortStable(out, bySortOrder)
	return cloneAll(out), nil
}

// CategoryPostCount - число опубликованных постов категории.
func (s *Store) CategoryPostCount(ctx context.Context, categoryID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.posts.Lookup(s.postsByCategory.get(categoryID)) {
		if p.Status == domain.PostPublished {
			n++
		}
	}
	return n, nil
}

func (s *Store) categorySlugTakenLocked(slug, exceptID string) bool {
	for _, c := range s.categories.All() {
		if c.Slug == slug && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) insertCategoryLocked(c *domain.Category) {
	s.categories.Put(c.ID, c)
	if c.ParentID != nil {
		s.categoriesByParent.add(*c.ParentID, c.ID)
	}
}

func (s *Store) CreateCategory(ctx context.Context, in domain.CreateCategoryInput) (*domain.Category, error) {
	s.mu.Lock()
	defer s.unlock()

	var errs refErrors
	errs.check(!s.categorySlugTakenLocked(in.Slug, ""), "slug", "slug %q is already taken", in.Slug)
	if in.ParentID != nil {
		errs.check(s.categories.Has(*in.ParentID), "parentId", "category %q does not exist", *in.ParentID)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	c := &domain.Category{
		ID:          s.ids.Next(domain.EntityCategory),
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		ParentID:    in.ParentID,
		Color:       defaultCategoryColor,
		Icon:        defaultCategoryIcon,
		SortOrder:   s.categories.Len() + 1,
		CreatedAt:   s.clock(),
	}
	if in.Color != nil {
		c.Color = *in.Color
	}
	if in.Icon != nil {
		c.Icon = *in.Icon
	}
	s.insertCategoryLocked(c)
	metrics.StoreMutation("create_category")
	return c.Clone(), nil
}

// createsCycleLocked сообщает, окажется ли id среди предков newParent.
func (s *Store) createsCycleLocked(id, newParent string) bool {
	for cur := newParent; ; {
		if cur == id {
			return true
		}
		c, ok := s.categories.Get(cur)
		if !ok || c.ParentID == nil {
			return false
		}
		cur = *c.ParentID
	}
}

func (s *Store) UpdateCategory(ctx context.Context, id string, in domain.UpdateCategoryInput) (*domain.Category, error) {
	s.mu.Lock()
	defer s.unlock()

	c, ok := s.categories.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityCategory, id)
	}

	var errs refErrors
	if in.Slug != nil {
		errs.check(!s.categorySlugTakenLocked(*in.Slug, id), "slug", "slug %q is already taken", *in.Slug)
	}
	if in.ParentID != nil {
		parent := *in.ParentID
		switch {
		case !s.categories.Has(parent):
			errs.check(false, "parentId", "category %q does not exist", parent)
		case s.createsCycleLocked(id, parent):
			errs.check(false, "parentId", "category %q cannot be moved under its own descendant %q", id, parent)
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Slug != nil {
		c.Slug = *in.Slug
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Color != nil {
		c.Color = *in.Color
	}
	if in.Icon != nil {
		c.Icon = *in.Icon
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	switch {
	case in.ParentID != nil:
		s.reparentCategoryLocked(c, in.ParentID)
	case in.MakeRoot:
		s.reparentCategoryLocked(c, nil)
	}
	metrics.StoreMutation("update_category")
	return c.Clone(), nil
}

func (s *Store) reparentCategoryLocked(c *domain.Category, parent *string) {
	if c.ParentID != nil {
		s.categoriesByParent.remove(*c.ParentID, c.ID)
	}
	if parent != nil {
		p := *parent
		c.ParentID = &p
		s.categoriesByParent.add(p, c.ID)
		return
	}
	c.ParentID = nil
}

// DeleteCategory отказывает, пока на категорию ссылаются посты.
// Дочерние категории переходят к родителю удаляемой.
func (s *Store) DeleteCategory(ctx context.Context, id string) (*domain.DeleteResult, error) {
	s.mu.Lock()
	defer s.unlock()

	c, ok := s.categories.Get(id)
	if !ok {
		return &domain.DeleteResult{Success: false, ID: id}, nil
	}
	if n := s.postsByCategory.count(id); n > 0 {
		return nil, fmt.Errorf("%w: category %q is used by %d posts", domain.ErrConflict, id, n)
	}
	for _, child := range s.categories.Lookup(s.categoriesByParent.get(id)) {
		s.reparentCategoryLocked(child, c.ParentID)
	}
	if c.ParentID != nil {
		s.categoriesByParent.remove(*c.ParentID, id)
	}
	s.categories.Delete(id)
	s.auditLocked(ctx, "delete", domain.EntityCategory, id, c, nil)
	metrics.StoreMutation("delete_category")
	return &domain.DeleteResult{Success: true, ID: id}, nil
}

// === Tag Methods ===

func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tags.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityTag, id)
	}
	return t.Clone(), nil
}

func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tags.All() {
		if t.Slug == slug {
			return t.Clone(), nil
		}
	}
	return nil, domain.NotFound(domain.EntityTag, slug)
}

func (s *Store) TagsByIDs(ctx context.Context, ids []string) (map[string]*domain.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.tags.Lookup(ids), func(t *domain.Tag) string { return t.ID }), nil
}

// ListTags: по usageCount по убыванию или по имени по возрастанию.
func (s *Store) ListTags(ctx context.Context, limit *int, orderByUsage bool) ([]*domain.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := s.tags.All()
	if orderByUsage {
		query.SortStable(tags, func(a, b *domain.Tag) int { return cmp.Compare(b.UsageCount, a.UsageCount) })
	} else {
		text := query.TextComparator()
		query.SortStable(tags, func(a, b *domain.Tag) int { return text(a.Name, b.Name) })
	}
	page, err := query.Offset(tags, query.Limit(limit))
	if err != nil {
		return nil, err
	}
	return cloneAll(page), nil
}

func (s *Store) tagSlugTakenLocked(slug, exceptID string) bool {
	for _, t := range s.tags.All() {
		if t.Slug == slug && t.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) CreateTag(ctx context.Context, in domain.CreateTagInput) (*domain.Tag, error) {
	s.mu.Lock()
	defer s.unlock()

	if s.tagSlugTakenLocked(in.Slug, "") {
		return nil, domain.NewValidationError("slug", "slug %q is already taken", in.Slug)
	}
	t := &domain.Tag{ID: s.ids.Next(domain.EntityTag), Name: in.Name, Slug: in.Slug}
	s.tags.Put(t.ID, t)
	metrics.StoreMutation("create_tag")
	return t.Clone(), nil
}

func (s *Store) UpdateTag(ctx context.Context, id string, in domain.UpdateTagInput) (*domain.Tag, error) {
	s.mu.Lock()
	defer s.unlock()

	t, ok := s.tags.Get(id)
	if !ok {
		return nil, domain.NotFound(domain.EntityTag, id)
	}
	if in.Slug != nil && s.tagSlugTakenLocked(*in.Slug, id) {
		return nil, domain.NewValidationError("slug", "slug %q is already taken", *in.Slug)
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Slug != nil {
		t.Slug = *in.Slug
	}
	metrics.StoreMutation("update_tag")
	return t.Clone(), nil
}

// DeleteTag удаляет метку и убирает её из всех постов.
func (s *Store) DeleteTag(ctx context.Context, id string) (*domain.DeleteResult, error) {
	s.mu.Lock()
	defer s.unlock()

	t, ok := s.tags.Get(id)
	if !ok {
		return &domain.DeleteResult{Success: false, ID: id}, nil
	}
	for _, p := range s.posts.Lookup(s.postsByTag.get(id)) {
		p.TagIDs = without(p.TagIDs, id)
	}
	delete(s.postsByTag, id)
	s.tags.Delete(id)
	s.auditLocked(ctx, "delete", domain.EntityTag, id, t, nil)
	metrics.StoreMutation("delete_tag")
	return &domain.DeleteResult{Success: true, ID: id}, nil
}

// MergeTags переносит все посты с source на target и удаляет source.
// usageCount target после слияния равен сумме счётчиков обоих тегов.
func (s *Store) MergeTags(ctx context.Context, sourceID, targetID string) (*domain.Tag, error) {
	if sourceID == targetID {
		return nil, domain.NewValidationError("targetId", "cannot merge tag %q into itself", sourceID)
	}

	s.mu.Lock()
	defer s.unlock()

	source, ok := s.tags.Get(sourceID)
	if !ok {
		return nil, domain.NotFound(domain.EntityTag, sourceID)
	}
	target, ok := s.tags.Get(targetID)
	if !ok {
		return nil, domain.NotFound(domain.EntityTag, targetID)
	}
	before := map[string]any{"source": source.Clone(), "target": target.Clone()}

	for _, p := range s.posts.Lookup(s.postsByTag.get(sourceID)) {
		tagIDs := without(p.TagIDs, sourceID)
		if !p.HasTag(targetID) {
			tagIDs = append(tagIDs, targetID)
			s.postsByTag.add(targetID, p.ID)
		}
		p.TagIDs = tagIDs
	}
	target.UsageCount += source.UsageCount
	delete(s.postsByTag, sourceID)
	s.tags.Delete(sourceID)

	s.auditLocked(ctx, "merge", domain.EntityTag, targetID, before, target)
	metrics.StoreMutation("merge_tags")
	return target.Clone(), nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
