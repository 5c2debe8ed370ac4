package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds per-client-address rate limiters with automatic
// cleanup. Token bucket via golang.org/x/time/rate: rps is the refill
// rate, burst the bucket size, staleAfter how long an idle address keeps
// its bucket (it must exceed the window the limit describes, or an idle
// client would regain its full budget early).
type rateLimiterStore struct {
	limiters   sync.Map // map[string]*rateLimiterEntry
	rps        float64
	burst      int
	staleAfter time.Duration
}

// rateLimiterEntry holds a rate limiter and last access time for cleanup.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

func newRateLimiterStore(rps float64, burst int, staleAfter time.Duration) *rateLimiterStore {
	store := &rateLimiterStore{rps: rps, burst: burst, staleAfter: staleAfter}
	go store.cleanupStale(5 * time.Minute)
	return store
}

// newLimiters builds the server's limiter stores from configuration:
// a strict per-minute bucket for the login route, and the hourly + daily
// pair every other route shares.
func (s *Server) newLimiters() {
	perMinute := s.config.GetLoginRatePerMinute()
	perHour := s.config.GetDefaultRatePerHour()
	perDay := s.config.GetDefaultRatePerDay()

	s.loginLimiter = newRateLimiterStore(float64(perMinute)/60.0, perMinute, time.Hour)
	s.hourlyLimiter = newRateLimiterStore(float64(perHour)/3600.0, perHour, 2*time.Hour)
	s.dailyLimiter = newRateLimiterStore(float64(perDay)/86400.0, perDay, 25*time.Hour)
}

func (s *Server) loginRateLimit() func(http.HandlerFunc) http.HandlerFunc {
	return s.RateLimitMiddleware(s.loginLimiter)
}

func (s *Server) defaultRateLimit() func(http.HandlerFunc) http.HandlerFunc {
	return s.RateLimitMiddleware(s.hourlyLimiter, s.dailyLimiter)
}

// RateLimitMiddleware enforces every given store against the client
// address; the first exhausted bucket rejects the request with 429 and a
// Retry-After hint.
func (s *Server) RateLimitMiddleware(stores ...*rateLimiterStore) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			address := clientAddress(r)
			for _, store := range stores {
				limiter := store.getLimiter(address)
				if limiter.Allow() {
					continue
				}

				reservation := limiter.Reserve()
				retryAfter := int(reservation.Delay().Seconds())
				reservation.Cancel()

				log.Warn().
					Str("address", address).
					Str("path", r.URL.Path).
					Int("retry_after", retryAfter).
					Msg("Rate limit exceeded")

				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next(w, r)
		}
	}
}

// getLimiter retrieves or creates a rate limiter for a client address.
func (s *rateLimiterStore) getLimiter(address string) *rate.Limiter {
	if val, ok := s.limiters.Load(address); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: time.Now(),
	}
	actual, _ := s.limiters.LoadOrStore(address, entry)
	return actual.(*rateLimiterEntry).limiter
}

// cleanupStale removes rate limiters that haven't been accessed recently.
// Runs periodically to prevent unbounded memory growth.
func (s *rateLimiterStore) cleanupStale(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		threshold := time.Now().Add(-s.staleAfter)
		s.limiters.Range(func(key, value interface{}) bool {
			entry := value.(*rateLimiterEntry)
			entry.mu.Lock()
			shouldDelete := entry.lastAccess.Before(threshold)
			entry.mu.Unlock()

			if shouldDelete {
				s.limiters.Delete(key)
			}
			return true
		})
	}
}

// clientAddress extracts the client IP, honoring the first entry of
// X-Forwarded-For when the gateway sits behind a proxy.
func clientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.SplitN(forwarded, ",", 2)
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
