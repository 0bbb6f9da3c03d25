package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prime-slot-backend/internal/config"
	"prime-slot-backend/internal/middleware"
	"prime-slot-backend/internal/models"
	"prime-slot-backend/internal/services"
	"prime-slot-backend/internal/store"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", append(handlers, func(c *gin.Context) {
		addr, _ := middleware.Address(c)
		c.String(http.StatusOK, addr.String())
	})...)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := services.NewJWTService(&config.Config{JWTSecret: "secret"})
	r := newRouter(middleware.AuthMiddleware(jwtService))

	var addr models.Address
	addr[0] = 9
	token, _, err := jwtService.GenerateToken(addr)
	require.NoError(t, err)

	w := serve(r, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, addr.String(), w.Body.String())

	w = serve(r, httptest.NewRequest("GET", "/?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminMiddleware(t *testing.T) {
	closed := newRouter(middleware.AdminMiddleware(""))
	assert.Equal(t, http.StatusForbidden, serve(closed, httptest.NewRequest("GET", "/", nil)).Code)

	r := newRouter(middleware.AdminMiddleware("op"))
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Admin-Token", "nope")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req.Header.Set("X-Admin-Token", "op")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestLocalLimiter(t *testing.T) {
	l := middleware.NewLocalLimiter(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "alice", "draw")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "alice", "draw")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "bob", "draw")
	assert.True(t, ok, "limits are per subject")
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := store.NewRedisStore(&config.Config{RedisURL: mr.Addr()})
	require.NoError(t, err)
	defer s.Close()

	l := middleware.NewRedisLimiter(s, 1, time.Minute)
	ok, err := l.Allow(context.Background(), "alice", "draw")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(context.Background(), "alice", "draw")
	require.NoError(t, err)
	assert.False(t, ok)
}
