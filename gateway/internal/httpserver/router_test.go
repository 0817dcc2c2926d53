package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Skotchmaster/bookstore/pkg/middleware/csrf"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upstream struct {
	mu    sync.Mutex
	paths []string
	srv   *httptest.Server
}

func newUpstream(t *testing.T, name string) *upstream {
	u := &upstream{}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.paths = append(u.paths, r.Method+" "+r.URL.RequestURI())
		u.mu.Unlock()
		_, _ = io.WriteString(w, name)
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func newGateway(t *testing.T, auth, store string) *echo.Echo {
	t.Helper()
	cfg := csrf.DefaultConfig()
	cfg.SkipPrefixes = []string{"/api/v1/auth/login"}

	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		AuthURL:    auth,
		StoreURL:   store,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		CSRFConfig: cfg,
	}))
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGateway_RoutesAndStripsPrefixes(t *testing.T) {
	auth := newUpstream(t, "auth")
	store := newUpstream(t, "store")
	e := newGateway(t, auth.srv.URL, store.srv.URL)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/books?page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "store", rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "auth", rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"GET /books?page=2"}, store.paths)
	assert.Equal(t, []string{"GET /me", "POST /login"}, auth.paths)
}

func TestGateway_CSRF(t *testing.T) {
	store := newUpstream(t, "store")
	e := newGateway(t, "http://127.0.0.1:1", store.srv.URL)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))
	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	post := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
		req.Header.Set("Origin", "http://example.com")
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		return serve(e, req)
	}

	assert.Equal(t, http.StatusForbidden, post("").Code)
	assert.Equal(t, http.StatusForbidden, post("wrong").Code)

	rec = post(token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"GET /books", "POST /orders"}, store.paths)
}

func TestGateway_UpstreamDown(t *testing.T) {
	e := newGateway(t, "http://127.0.0.1:1", "http://127.0.0.1:1")

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream unavailable")

	assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/health/live", nil)).Code)
}
