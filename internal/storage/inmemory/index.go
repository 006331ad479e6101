package inmemory

import "slices"

// index - обратный индекс внешнего ключа: id владельца -> id ссылающихся записей
// в порядке добавления. Обновляется в той же критической секции, что и данные.
type index map[string][]string

func (ix index) add(owner, id string) {
	if slices.Contains(ix[owner], id) {
		return
	}
	ix[owner] = append(ix[owner], id)
}

func (ix index) remove(owner, id string) {
	ids := ix[owner]
	i := slices.Index(ids, id)
	if i < 0 {
		return
	}
	ids = slices.Delete(ids, i, i+1)
	if len(ids) == 0 {
		delete(ix, owner)
		return
	}
	ix[owner] = ids
}

// get возвращает копию списка, чтобы его можно было обходить во время удаления.
func (ix index) get(owner string) []string {
	return slices.Clone(ix[owner])
}

func (ix index) count(owner string) int {
	return len(ix[owner])
}

// move переносит ссылку на другого владельца.
func (ix index) move(from, to, id string) {
	ix.remove(from, id)
	ix.add(to, id)
}

// narrowing выбирает самый короткий из предложенных списков id.
type narrowing struct {
	ids []string
	ok  bool
}

func (n *narrowing) offer(ids []string) {
	if !n.ok || len(ids) < len(n.ids) {
		n.ids, n.ok = ids, true
	}
}
