package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"vocab_drill_backend/internal/config"
	"vocab_drill_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: secret}}

	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, util.GetClaimsFromContext(c).Subject)
	})
	r.GET("/admin", AuthMiddleware(cfg), RoleMiddleware("editor"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func token(t *testing.T, role string, ttl time.Duration, key string) string {
	t.Helper()
	tok, err := util.GenerateJWT("alice", role, key, ttl)
	require.NoError(t, err)
	return tok
}

func serve(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		path   string
		bearer string
		want   int
	}{
		{"missing token", "/me", "", http.StatusUnauthorized},
		{"garbage token", "/me", "abc.def.ghi", http.StatusUnauthorized},
		{"wrong secret", "/me", token(t, "learner", time.Hour, "another-secret"), http.StatusUnauthorized},
		{"expired", "/me", token(t, "learner", -time.Minute, secret), http.StatusUnauthorized},
		{"valid header", "/me", token(t, "learner", time.Hour, secret), http.StatusOK},
		{"valid query", "/me?token=" + token(t, "learner", time.Hour, secret), "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, tt.path, tt.bearer)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "alice", rec.Body.String())
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusForbidden, serve(r, "/admin", token(t, "learner", time.Hour, secret)).Code)
	assert.Equal(t, http.StatusOK, serve(r, "/admin", token(t, "editor", time.Hour, secret)).Code)
	assert.Equal(t, http.StatusOK, serve(r, "/admin", token(t, util.RoleAdmin, time.Hour, secret)).Code)
}

func TestRoleMiddlewareWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RoleMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/x", "").Code)
}
