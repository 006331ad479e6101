package inmemory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/UkralStul/orion-graphql/internal/domain"
)

func TestCollection_InsertionOrder(t *testing.T) {
	c := NewCollection[string]()
	c.Put("b", "B")
	c.Put("a", "A")
	c.Put("c", "C")
	// Повторный Put не меняет позицию
	c.Put("b", "B2")

	assert.Equal(t, []string{"B2", "A", "C"}, c.All())
	assert.Equal(t, 3, c.Len())

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	assert.Equal(t, []string{"B2", "C"}, c.All())
	assert.False(t, c.Has("a"))

	assert.Equal(t, []string{"C", "B2"}, c.Lookup([]string{"c", "missing", "b"}))
}

func TestCollection_LookupOrdered(t *testing.T) {
	c := NewCollection[string]()
	for _, id := range []string{"x", "y", "z", "w"} {
		c.Put(id, id)
	}
	c.Delete("y")

	assert.Equal(t, []string{"x", "z", "w"}, c.LookupOrdered([]string{"w", "z", "x", "z", "y", "missing"}))
	assert.Empty(t, c.LookupOrdered(nil))
}

func TestIDGenerator(t *testing.T) {
	g := NewIDGenerator()
	assert.Equal(t, "1", g.Next(domain.EntityPost))
	assert.Equal(t, "2", g.Next(domain.EntityPost))
	assert.Equal(t, "1", g.Next(domain.EntityUser))

	g.Observe(domain.EntityPost, "10")
	g.Observe(domain.EntityPost, "4")
	g.Observe(domain.EntityPost, "not-a-number")
	assert.Equal(t, "11", g.Next(domain.EntityPost))
}

func TestIndex(t *testing.T) {
	ix := make(index)
	ix.add("p1", "c1")
	ix.add("p1", "c2")
	ix.add("p1", "c1")
	assert.Equal(t, []string{"c1", "c2"}, ix.get("p1"))
	assert.Equal(t, 2, ix.count("p1"))

	ix.move("p1", "p2", "c1")
	assert.Equal(t, []string{"c2"}, ix.get("p1"))
	assert.Equal(t, []string{"c1"}, ix.get("p2"))

	ix.remove("p1", "c2")
	_, ok := ix["p1"]
	assert.False(t, ok)
	ix.remove("missing", "x")
}

func TestReferrerSource(t *testing.T) {
	cases := map[string]string{
		"":                               "direct",
		"https://www.google.com/search":  "google.com",
		"https://News.YCombinator.com/x": "news.ycombinator.com",
		"not a url":                      "direct",
	}
	for in, want := range cases {
		assert.Equal(t, want, referrerSource(in), in)
	}
}
