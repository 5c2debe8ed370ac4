package sophia

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// TokenLifespan is how long a fetched system token is trusted. The
// Sophia token actually expires after 30 minutes; the cache exists to
// bound the rate of system-authentication calls, not for correctness.
const TokenLifespan = 1800 * time.Second

// SystemAuthenticator yields a fresh system token. *Client satisfies it.
type SystemAuthenticator interface {
	AuthenticateSystem(ctx context.Context) (string, error)
}

// TokenCache is a process-lifetime cache of the system token, shared by
// every concurrent request. The single mutex spans the whole
// check-fetch-store sequence, so a herd of requests arriving at expiry
// performs exactly one upstream authentication call; the waiters reuse
// the refreshed token.
type TokenCache struct {
	mu            sync.Mutex
	token         string
	expiresAt     time.Time
	authenticator SystemAuthenticator
	nowTime       func() time.Time
}

// TokenCacheOption modifies a TokenCache instance.
type TokenCacheOption func(*TokenCache)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) TokenCacheOption {
	return func(tc *TokenCache) {
		tc.nowTime = nowFunc
	}
}

// NewTokenCache creates an empty cache over the given authenticator.
func NewTokenCache(authenticator SystemAuthenticator, options ...TokenCacheOption) *TokenCache {
	tc := &TokenCache{
		authenticator: authenticator,
		nowTime:       time.Now,
	}
	for _, option := range options {
		option(tc)
	}
	return tc
}

// Token returns the cached system token if it is still valid, refreshing
// it otherwise. On refresh failure the previous cache state is left
// untouched and the authenticator's error is returned; no retry happens
// here, the caller decides.
func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.token != "" && tc.nowTime().Before(tc.expiresAt) {
		log.Debug().Msg("System token served from cache")
		return tc.token, nil
	}

	log.Info().Msg("System token cache expired or empty, requesting a new token")
	token, err := tc.authenticator.AuthenticateSystem(ctx)
	if err != nil {
		return "", err
	}

	tc.token = token
	tc.expiresAt = tc.nowTime().Add(TokenLifespan)
	log.Info().Time("expires_at", tc.expiresAt).Msg("System token refreshed")
	return tc.token, nil
}
