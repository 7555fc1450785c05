package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/service/identity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenAuth map[string]*identity.Principal

func (a tokenAuth) Authenticate(_ context.Context, token string) (*identity.Principal, error) {
	if p, ok := a[token]; ok {
		return p, nil
	}
	return nil, apperror.NewUnauthorized("invalid session")
}

func newEngine(auth Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(nil), ErrorHandler(nil))
	r.GET("/fail/:kind", func(c *gin.Context) {
		switch c.Param("kind") {
		case "stock":
			_ = c.Error(apperror.NewInsufficientStock(7, 5, 2))
		case "plain":
			_ = c.Error(errors.New("boom"))
		}
	})
	secured := r.Group("/secured", Auth(auth))
	secured.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": Principal(c).UserID})
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler(t *testing.T) {
	r := newEngine(tokenAuth{})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/fail/stock", nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInsufficientStock, body["code"])
	assert.Equal(t, "Not enough stock, available: 2", body["message"])
	assert.Equal(t, float64(2), body["details"].(map[string]any)["available"])

	req := httptest.NewRequest(http.MethodGet, "/fail/plain", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	rec = serve(r, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.Equal(t, "req-1", body["details"].(map[string]any)["request_id"])
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRequestID(t *testing.T) {
	r := newEngine(tokenAuth{})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/fail/none", nil))
	assert.Len(t, rec.Header().Get(HeaderRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/fail/none", nil)
	req.Header.Set(HeaderRequestID, "abc")
	rec = serve(r, req)
	assert.Equal(t, "abc", rec.Header().Get(HeaderRequestID))
}

func TestAuth(t *testing.T) {
	r := newEngine(tokenAuth{
		"good": {Identity: models.Identity{UserID: "u1", Email: "u1@example.com"}},
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", status: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid token", header: "bearer good", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secured", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(r, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user":"u1"}`, rec.Body.String())
			}
		})
	}
}
