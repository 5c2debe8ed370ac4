package loginsession

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/soucarbonell/portal-gateway/internal/errors"
)

// InMemoryRepo is an in-memory implementation of Repo. Sessions do not
// survive a restart; users simply log in again.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
	nowTime  func() time.Time
}

// InMemoryRepoOption modifies an InMemoryRepo instance.
type InMemoryRepoOption func(*InMemoryRepo)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) InMemoryRepoOption {
	return func(r *InMemoryRepo) {
		r.nowTime = nowFunc
	}
}

// NewInMemoryRepo creates a new in-memory login session repository
func NewInMemoryRepo(options ...InMemoryRepoOption) *InMemoryRepo {
	r := &InMemoryRepo{
		sessions: make(map[string]Session),
		nowTime:  time.Now,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Upsert creates or updates a login session
func (r *InMemoryRepo) Upsert(sessionID string, session Session) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}
	if session.SubjectID == "" || session.DisplayName == "" {
		return errors.New("authenticated sessions require a subject ID and display name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = session
	return nil
}

// Get retrieves a login session by ID. Expired entries are purged and
// reported as expired, so a stale session never authenticates a request.
func (r *InMemoryRepo) Get(sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, apperrors.ErrSessionNotFound
	}

	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok {
		return Session{}, apperrors.ErrSessionNotFound
	}

	if !session.ExpiresAt.IsZero() && !r.nowTime().Before(session.ExpiresAt) {
		r.mu.Lock()
		delete(r.sessions, sessionID)
		r.mu.Unlock()
		return Session{}, apperrors.ErrSessionExpired
	}

	return session, nil
}

// Delete removes a login session. Deleting an absent session is a no-op.
func (r *InMemoryRepo) Delete(sessionID string) error {
	if sessionID == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}
