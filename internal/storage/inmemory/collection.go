package inmemory

import (
	"cmp"
	"slices"
)

// Collection - коллекция записей одного типа с порядком вставки.
// Повторный Put существующего id сохраняет его позицию.
type Collection[T any] struct {
	order []string
	items map[string]T
	// seq - номер вставки; не меняется при удалении других записей.
	seq  map[string]uint64
	next uint64
}

func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{items: make(map[string]T), seq: make(map[string]uint64)}
}

func (c *Collection[T]) Get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *Collection[T]) Has(id string) bool {
	_, ok := c.items[id]
	return ok
}

func (c *Collection[T]) Put(id string, v T) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
		c.seq[id] = c.next
		c.next++
	}
	c.items[id] = v
}

// Delete удаляет запись и сообщает, существовала ли она.
func (c *Collection[T]) Delete(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	delete(c.seq, id)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	return true
}

// All возвращает записи в порядке вставки. Срез новый, записи - общие.
func (c *Collection[T]) All() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Lookup возвращает записи по списку id в порядке списка, пропуская отсутствующие.
func (c *Collection[T]) Lookup(ids []string) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := c.items[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// LookupOrdered - как Lookup, но в порядке вставки записей, без повторов.
// Индексы хранят id в порядке добавления ссылки, а он расходится
// с порядком коллекции после переноса записи к другому владельцу.
func (c *Collection[T]) LookupOrdered(ids []string) []T {
	ids = slices.Clone(ids)
	slices.SortFunc(ids, func(a, b string) int { return cmp.Compare(c.seq[a], c.seq[b]) })
	ids = slices.Compact(ids)
	return c.Lookup(ids)
}

func (c *Collection[T]) Len() int { return len(c.order) }
