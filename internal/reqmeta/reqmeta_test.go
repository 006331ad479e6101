package reqmeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	var got Meta
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = From(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	req.Header.Set("User-Agent", "curl/8.0")
	req.Header.Set("Referer", "https://news.ycombinator.com/item?id=1")
	req.Header.Set(HeaderUserID, " 5 ")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "10.0.0.7", got.IP)
	assert.Equal(t, "curl/8.0", got.UserAgent)
	assert.Equal(t, "https://news.ycombinator.com/item?id=1", got.Referer)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "5", *got.UserID)
}

func TestFrom_Empty(t *testing.T) {
	m := From(context.Background())
	assert.Nil(t, m.UserID)
	assert.Empty(t, m.IP)
}
