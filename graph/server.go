package graph

import (
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/gorilla/websocket"

	"github.com/UkralStul/orion-graphql/internal/dataloader"
)

// ServerOptions - параметры HTTP-обработчика GraphQL.
type ServerOptions struct {
	// KeepAlive - интервал ping для websocket-подписок.
	KeepAlive time.Duration
	// CheckOrigin проверяет Origin при апгрейде до websocket; nil - только тот же источник.
	CheckOrigin   func(r *http.Request) bool
	Introspection bool
	// DataloaderWait - окно сбора ключей в пакет. Лоадеры создаются на каждую операцию.
	DataloaderWait time.Duration
}

// NewServer собирает gqlgen-обработчик: websocket для подписок, GET/POST для запросов.
func NewServer(es *ExecutableSchema, opts ServerOptions) *handler.Server {
	srv := handler.New(es)
	srv.AddTransport(&transport.Websocket{
		Upgrader: websocket.Upgrader{
			CheckOrigin: opts.CheckOrigin,
		},
		KeepAlivePingInterval: opts.KeepAlive,
	})
	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	srv.Use(dataloader.Extension{Store: es.store, Wait: opts.DataloaderWait})
	if opts.Introspection {
		srv.Use(extension.Introspection{})
	}
	return srv
}

// OriginChecker разрешает апгрейд для указанного источника; "*" - для любого.
func OriginChecker(allowed string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if allowed == "*" {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || origin == allowed
	}
}
