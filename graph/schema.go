package graph

import (
	_ "embed"
	"sync"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphqls
var sdl string

var (
	schemaOnce sync.Once
	schema     *ast.Schema
)

// Schema возвращает разобранную схему API.
func Schema() *ast.Schema {
	schemaOnce.Do(func() {
		schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: sdl, BuiltIn: false})
	})
	return schema
}
