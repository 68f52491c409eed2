package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Parallel()

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		req.Header.Set("X-Real-IP", "198.51.100.2")
		require.Equal(t, "203.0.113.7", IPKeyExtractor(req))
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "198.51.100.2")
		require.Equal(t, "198.51.100.2", IPKeyExtractor(req))
	})

	t.Run("falls back to RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.5:4444"
		require.Equal(t, "192.0.2.5", IPKeyExtractor(req))
	})
}

func TestUserKeyExtractor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, UserKeyExtractor(req))

	ctx := ContextWithIdentity(req.Context(), Identity{UserID: "user-1"})
	require.Equal(t, "user-1", UserKeyExtractor(req.WithContext(ctx)))
}

func TestRateLimitMiddlewareEnforcesLimit(t *testing.T) {
	t.Parallel()

	cfg := RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	handler := RateLimitByIP(cfg)(okHandler())

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send("192.0.2.1").Code)
	require.Equal(t, http.StatusOK, send("192.0.2.1").Code)

	rec := send("192.0.2.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	requireErrorCode(t, rec, "RATE_LIMITED")

	// Buckets are per key; another address is unaffected
	require.Equal(t, http.StatusOK, send("192.0.2.2").Code)
}
