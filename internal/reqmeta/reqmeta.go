// Package reqmeta переносит атрибуты HTTP-запроса (кто, откуда) в контекст.
// Используется журналом аудита и аналитикой просмотров.
package reqmeta

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// HeaderUserID - заголовок с id действующего пользователя. Только для атрибуции.
const HeaderUserID = "X-User-ID"

type Meta struct {
	UserID    *string
	IP        string
	UserAgent string
	Referer   string
}

type contextKey struct{}

func With(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, contextKey{}, m)
}

// From возвращает метаданные запроса или пустые, если их нет.
func From(ctx context.Context) Meta {
	m, _ := ctx.Value(contextKey{}).(Meta)
	return m
}

// Middleware кладёт метаданные в контекст. RemoteAddr к этому моменту
// уже переписан chi middleware.RealIP.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := Meta{
			IP:        clientIP(r.RemoteAddr),
			UserAgent: r.UserAgent(),
			Referer:   r.Referer(),
		}
		if id := strings.TrimSpace(r.Header.Get(HeaderUserID)); id != "" {
			m.UserID = &id
		}
		next.ServeHTTP(w, r.WithContext(With(r.Context(), m)))
	})
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
