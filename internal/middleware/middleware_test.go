package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baoduongg/game-library/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	sessions map[string]domain.SessionContext
	err      error
}

func (r stubResolver) Resolve(ctx context.Context, token string) (domain.SessionContext, error) {
	if r.err != nil {
		return domain.SessionContext{}, r.err
	}
	if session, ok := r.sessions[token]; ok {
		return session, nil
	}
	return domain.SessionContext{}, domain.ErrUnauthenticated
}

func whoAmI(c *fiber.Ctx) error {
	return c.SendString(Session(c).Identity)
}

func call(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := make([]byte, 512)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestSessionLoader(t *testing.T) {
	resolver := stubResolver{sessions: map[string]domain.SessionContext{
		"tok": {Identity: "alice@x", DisplayName: "alice"},
	}}
	app := fiber.New()
	app.Use(SessionLoader(resolver))
	app.Get("/me", whoAmI)

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "Session", Value: "tok"})
		status, body := call(t, app, req)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "alice@x", body)
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer tok")
		_, body := call(t, app, req)
		assert.Equal(t, "alice@x", body)
	})

	t.Run("unknown token stays anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		status, body := call(t, app, req)
		assert.Equal(t, http.StatusOK, status)
		assert.Empty(t, body)
	})

	t.Run("no token", func(t *testing.T) {
		status, body := call(t, app, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusOK, status)
		assert.Empty(t, body)
	})
}

func TestSessionLoaderStoreDown(t *testing.T) {
	app := fiber.New()
	app.Use(SessionLoader(stubResolver{err: errors.New("dial tcp: connection refused")}))
	app.Get("/me", whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	status, _ := call(t, app, req)

	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestRateLimiterKeysByIdentity(t *testing.T) {
	resolver := stubResolver{sessions: map[string]domain.SessionContext{
		"a": {Identity: "alice@x"},
		"b": {Identity: "bob@y"},
	}}
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, Burst: 2})

	app := fiber.New()
	app.Use(SessionLoader(resolver), limiter.Middleware())
	app.Get("/me", whoAmI)

	request := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		status, _ := call(t, app, req)
		return status
	}

	assert.Equal(t, http.StatusOK, request("a"))
	assert.Equal(t, http.StatusOK, request("a"))
	assert.Equal(t, http.StatusTooManyRequests, request("a"))

	assert.Equal(t, http.StatusOK, request("b"), "each identity has its own bucket")
}

func countVisitors(rl *RateLimiter) int {
	n := 0
	rl.visitors.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

func TestRateLimiterSweepsIdleCallers(t *testing.T) {
	resolver := stubResolver{sessions: map[string]domain.SessionContext{
		"a": {Identity: "alice@x"},
		"b": {Identity: "bob@y"},
	}}
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 60, Burst: 5, IdleTTL: time.Minute})
	clock := time.Now()
	limiter.now = func() time.Time { return clock }

	app := fiber.New()
	app.Use(SessionLoader(resolver), limiter.Middleware())
	app.Get("/me", whoAmI)

	request := func(token string) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		status, _ := call(t, app, req)
		require.Equal(t, http.StatusOK, status)
	}

	request("a")
	request("b")
	assert.Equal(t, 2, countVisitors(limiter))

	clock = clock.Add(45 * time.Second)
	request("b")

	clock = clock.Add(30 * time.Second)
	request("b")

	assert.Equal(t, 1, countVisitors(limiter), "alice has been idle past the ttl")
	_, kept := limiter.visitors.Load("id:bob@y")
	assert.True(t, kept)
}

func TestRateLimiterKeepsBucketsUntilRefilled(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, Burst: 30, IdleTTL: time.Second})

	assert.Equal(t, 30*time.Minute, limiter.config.IdleTTL)
}
