package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const rateLimitWindow = time.Minute

// RateLimiter is a sliding window request counter keyed by caller
// identity. State is in memory only; a restart clears all windows.
type RateLimiter struct {
	mu    sync.Mutex
	seen  map[string][]time.Time
	limit int // max requests per window per key
}

// NewRateLimiter returns a limiter allowing limit requests per minute
// per key.
func NewRateLimiter(limit int) *RateLimiter {
	rl := &RateLimiter{
		seen:  make(map[string][]time.Time),
		limit: limit,
	}

	// Idle keys are swept in the background
	go rl.sweepLoop()

	return rl
}

// Allow records one request for key and reports whether it stays
// within the window limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	recent := pruneBefore(rl.seen[key], now.Add(-rateLimitWindow))

	if len(recent) >= rl.limit {
		rl.seen[key] = recent
		return false
	}

	rl.seen[key] = append(recent, now)
	return true
}

// pruneBefore drops timestamps at or before cutoff, reusing the
// backing array.
func pruneBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	kept := stamps[:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.sweep()
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rateLimitWindow)
	for key, stamps := range rl.seen {
		kept := pruneBefore(stamps, cutoff)
		if len(kept) == 0 {
			delete(rl.seen, key)
			continue
		}
		rl.seen[key] = kept
	}
}

// writeRateLimited writes the 429 error envelope.
func writeRateLimited(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "RATE_LIMITED",
			"message": "too many requests",
		},
	})
}

// RateLimitByIP returns middleware that rate limits by client IP.
func RateLimitByIP(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				writeRateLimited(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByUser returns middleware that rate limits by authenticated
// user, falling back to the client IP when the request carries no
// identity.
func RateLimitByUser(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetUserID(r.Context())
			if key == "" {
				key = clientIP(r)
			}

			if !limiter.Allow(key) {
				writeRateLimited(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller address, preferring proxy headers over
// the socket address.
func clientIP(r *http.Request) string {
	// X-Forwarded-For lists hops comma-separated; the first entry is
	// the original client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
