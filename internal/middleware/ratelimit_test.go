package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertramos/eco-reporte/internal/config"
)

func limitedConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       10,
		RefillTokens:   1,
		RefillInterval: 6 * time.Second,
		TTL:            10 * time.Minute,
		Prefix:         "rl:login",
	}
}

func runLimited(t *testing.T, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec
}

func TestLoginRateLimitDisabledIsNoOp(t *testing.T) {
	cfg := limitedConfig()
	cfg.Enabled = false

	rec := runLimited(t, NewLoginRateLimit(cfg, redis.NewClient(&redis.Options{})))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestLoginRateLimitWithoutRedisIsNoOp(t *testing.T) {
	rec := runLimited(t, NewLoginRateLimit(limitedConfig(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRateLimitFailsOpenOnRedisError(t *testing.T) {
	// Nothing listens on this address, so the script call errors at
	// request time. Redis being down must not lock users out of login.
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	rec := runLimited(t, NewLoginRateLimit(limitedConfig(), rdb))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}
