// File: internal/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow(t *testing.T) {
	limiter := NewMemoryRateLimiter(&Config{
		WindowSize:    time.Minute,
		MaxRequests:   3,
		CleanupPeriod: time.Minute,
	})
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("1.2.3.4")
		require.True(t, allowed)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := limiter.Allow("1.2.3.4")
	assert.False(t, allowed)
	assert.Zero(t, info.Remaining)
	assert.Positive(t, info.RetryAfter)

	// Other clients are unaffected.
	allowed, _ = limiter.Allow("5.6.7.8")
	assert.True(t, allowed)
}

func TestAllowResetsAfterWindow(t *testing.T) {
	limiter := NewMemoryRateLimiter(&Config{
		WindowSize:    10 * time.Millisecond,
		MaxRequests:   1,
		CleanupPeriod: time.Minute,
	})
	defer limiter.Close()

	allowed, _ := limiter.Allow("1.2.3.4")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("1.2.3.4")
	require.False(t, allowed)

	time.Sleep(20 * time.Millisecond)
	allowed, _ = limiter.Allow("1.2.3.4")
	assert.True(t, allowed)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", GetClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", GetClientIP(req))
}
