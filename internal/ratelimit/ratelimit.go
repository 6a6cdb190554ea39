// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	WindowSize    time.Duration // Time window for rate limiting
	MaxRequests   int           // Maximum requests per window
	CleanupPeriod time.Duration // How often to clean up old entries
}

// DefaultSendConfig returns sensible defaults for the assistant-bound
// routes. Every allowed request fans out into at least one backend call, so
// the window is deliberately tight.
func DefaultSendConfig() *Config {
	return &Config{
		WindowSize:    time.Minute,
		MaxRequests:   30,
		CleanupPeriod: 5 * time.Minute,
	}
}

// requestRecord tracks requests for an identifier
type requestRecord struct {
	Count     int
	FirstSeen time.Time
}

// Info describes the rate limit status for one decision.
type Info struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// MemoryRateLimiter implements in-memory, fixed-window rate limiting
type MemoryRateLimiter struct {
	config   *Config
	requests map[string]*requestRecord
	mu       sync.Mutex
	stopCh   chan struct{}
}

// NewMemoryRateLimiter creates a new in-memory rate limiter
func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	limiter := &MemoryRateLimiter{
		config:   config,
		requests: make(map[string]*requestRecord),
		stopCh:   make(chan struct{}),
	}
	go limiter.cleanupLoop()
	return limiter
}

// Allow checks if a request should be allowed
func (rl *MemoryRateLimiter) Allow(identifier string) (bool, *Info) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	record, exists := rl.requests[identifier]

	if !exists || now.Sub(record.FirstSeen) > rl.config.WindowSize {
		rl.requests[identifier] = &requestRecord{Count: 1, FirstSeen: now}
		return true, &Info{
			Allowed:   true,
			Remaining: rl.config.MaxRequests - 1,
			ResetTime: now.Add(rl.config.WindowSize),
		}
	}

	record.Count++
	reset := record.FirstSeen.Add(rl.config.WindowSize)

	if record.Count > rl.config.MaxRequests {
		return false, &Info{
			Allowed:    false,
			Remaining:  0,
			ResetTime:  reset,
			RetryAfter: time.Until(reset),
		}
	}

	return true, &Info{
		Allowed:   true,
		Remaining: rl.config.MaxRequests - record.Count,
		ResetTime: reset,
	}
}

// cleanupLoop periodically removes expired records
func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for identifier, record := range rl.requests {
		if now.Sub(record.FirstSeen) > rl.config.WindowSize {
			delete(rl.requests, identifier)
		}
	}
}

// Close stops the cleanup goroutine
func (rl *MemoryRateLimiter) Close() {
	close(rl.stopCh)
}

// GetClientIP extracts the client address, honoring X-Forwarded-For.
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
