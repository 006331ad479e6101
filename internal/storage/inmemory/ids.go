package inmemory

import (
	"strconv"

	"github.com/UkralStul/orion-graphql/internal/domain"
)

// IDGenerator выдаёт последовательные десятичные id по типу сущности.
// Выданное значение никогда не повторяется, даже после удаления записи.
type IDGenerator struct {
	next map[domain.EntityType]int
}

func NewIDGenerator() *IDGenerator {
	g := &IDGenerator{next: make(map[domain.EntityType]int, len(domain.EntityTypes))}
	for _, t := range domain.EntityTypes {
		g.next[t] = 1
	}
	return g
}

// Next возвращает очередной id и сдвигает счётчик.
func (g *IDGenerator) Next(t domain.EntityType) string {
	id := g.next[t]
	if id == 0 {
		id = 1
	}
	g.next[t] = id + 1
	return strconv.Itoa(id)
}

// Observe сдвигает счётчик за уже занятый id (используется при загрузке данных).
// Нечисловые id не влияют на счётчик.
func (g *IDGenerator) Observe(t domain.EntityType, id string) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return
	}
	if n >= g.next[t] {
		g.next[t] = n + 1
	}
}
