package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgdb "github.com/Skotchmaster/bookstore/pkg/db"
	"github.com/Skotchmaster/bookstore/pkg/httperr"
	"github.com/Skotchmaster/bookstore/pkg/tokens"
	"github.com/Skotchmaster/bookstore/services/auth/internal/models"
	"github.com/Skotchmaster/bookstore/services/auth/internal/repo"
	"github.com/Skotchmaster/bookstore/services/auth/internal/service"
	"github.com/Skotchmaster/bookstore/services/auth/internal/transport"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accessSecret = []byte("test-access")

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	ctx := context.Background()
	db, err := pkgdb.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(ctx))

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{Svc: &service.AuthService{
			Repo:          r,
			AccessSecret:  accessSecret,
			RefreshSecret: []byte("test-refresh"),
		}},
		JWTSecret: accessSecret,
	})
	return e
}

func do(e *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) httperr.Body {
	t.Helper()
	var b httperr.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func TestRegisterLoginFlow(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodPost, "/register", `{"username":"alice","email":"alice@example.com","password":"Secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	rec = do(e, http.MethodPost, "/register", `{"username":"alice","email":"alice@example.com","password":"Secret123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperr.KindConflict, errorBody(t, rec).Error)

	rec = do(e, http.MethodPost, "/login", `{"username":"alice","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/login", `{"username":"alice","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)

	access := cookie(rec, tokens.AccessCookie)
	refresh := cookie(rec, tokens.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	rec = do(e, http.MethodGet, "/me", "", access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")

	rec = do(e, http.MethodPost, "/refresh", "", refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	var pair transport.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, models.RoleUser, pair.Role)
	assert.Equal(t, pair.RefreshToken, cookie(rec, tokens.RefreshCookie).Value)

	rec = do(e, http.MethodPost, "/refresh", "", refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "rotated token is single use")

	newRefresh := &http.Cookie{Name: tokens.RefreshCookie, Value: pair.RefreshToken}
	rec = do(e, http.MethodPost, "/logout", "", newRefresh)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/refresh", "", newRefresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileRoutes(t *testing.T) {
	e := newTestServer(t)

	require.Equal(t, http.StatusCreated,
		do(e, http.MethodPost, "/register", `{"username":"alice","email":"alice@example.com","password":"Secret123"}`).Code)
	rec := do(e, http.MethodPost, "/login", `{"username":"alice","password":"Secret123"}`)
	access := cookie(rec, tokens.AccessCookie)

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/me", "").Code)

	rec = do(e, http.MethodPut, "/me", `{"name":"Alice L","email":"al@example.com"}`, access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice L")

	rec = do(e, http.MethodPut, "/me", `{"name":"","email":"al@example.com"}`, access)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperr.KindValidation, errorBody(t, rec).Error)

	rec = do(e, http.MethodPut, "/me/avatar", `{"image":"https://cdn.example.com/a.png"}`, access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://cdn.example.com/a.png")

	rec = do(e, http.MethodPut, "/me/password", `{"current_password":"bad","new_password":"NewSecret1"}`, access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPut, "/me/password", `{"current_password":"Secret123","new_password":"NewSecret1"}`, access)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/login", `{"username":"alice","password":"NewSecret1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}
