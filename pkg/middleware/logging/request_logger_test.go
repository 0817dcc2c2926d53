package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.GET("/books/:id", func(c echo.Context) error {
		ctx := logging.With(c.Request().Context(), "user_id", 7)
		c.SetRequest(c.Request().WithContext(ctx))
		logging.FromContext(ctx).Info("inside")
		return echo.NewHTTPError(http.StatusNotFound, "book not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/books/42", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, done map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &done))

	assert.Equal(t, "rid-1", inner["request_id"])
	assert.Equal(t, "http_request", done["msg"])
	assert.Equal(t, "/books/:id", done["route"])
	assert.Equal(t, "rid-1", done["request_id"])
	assert.EqualValues(t, 7, done["user_id"])
	assert.Equal(t, "WARN", done["level"])
	assert.EqualValues(t, 404, done["status"])
}

func TestRequestLoggerGeneratesID(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&bytes.Buffer{}, "error")))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
