package domain

import (
	"slices"
	"time"
)

// Хранилище отдаёт наружу только копии записей: вызывающий код не должен
// менять данные в обход блокировки.

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(t *time.Time) *time.Time { return clonePtr(t) }

func (u *User) Clone() *User {
	c := *u
	c.Bio = clonePtr(u.Bio)
	c.AvatarURL = clonePtr(u.AvatarURL)
	c.LastLoginAt = cloneTime(u.LastLoginAt)
	return &c
}

func (c *Category) Clone() *Category {
	cp := *c
	cp.ParentID = clonePtr(c.ParentID)
	return &cp
}

func (t *Tag) Clone() *Tag {
	c := *t
	return &c
}

func (p *Post) Clone() *Post {
	c := *p
	c.TagIDs = slices.Clone(p.TagIDs)
	if c.TagIDs == nil {
		c.TagIDs = []string{}
	}
	c.FeaturedImageURL = clonePtr(p.FeaturedImageURL)
	c.PublishedAt = cloneTime(p.PublishedAt)
	c.ScheduledAt = cloneTime(p.ScheduledAt)
	return &c
}

func (c *Comment) Clone() *Comment {
	cp := *c
	cp.ParentID = clonePtr(c.ParentID)
	return &cp
}

func (l *Like) Clone() *Like {
	c := *l
	return &c
}

func (f *Follow) Clone() *Follow {
	c := *f
	return &c
}

func (b *Bookmark) Clone() *Bookmark {
	c := *b
	c.Note = clonePtr(b.Note)
	return &c
}

func (n *Notification) Clone() *Notification {
	c := *n
	c.RelatedPostID = clonePtr(n.RelatedPostID)
	c.RelatedUserID = clonePtr(n.RelatedUserID)
	return &c
}

func (m *Media) Clone() *Media {
	c := *m
	c.ThumbnailURL = clonePtr(m.ThumbnailURL)
	c.Alt = clonePtr(m.Alt)
	c.Width = clonePtr(m.Width)
	c.Height = clonePtr(m.Height)
	return &c
}

func (a *AuditLog) Clone() *AuditLog {
	c := *a
	c.UserID = clonePtr(a.UserID)
	c.OldValue = clonePtr(a.OldValue)
	c.NewValue = clonePtr(a.NewValue)
	return &c
}
