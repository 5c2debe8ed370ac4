package server

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/soucarbonell/portal-gateway/auth"
	"github.com/soucarbonell/portal-gateway/server/loginsession"
)

// The browser never holds session attributes directly: the cookie value
// is an HS256 JWT whose subject is the opaque server-side session ID,
// signed with the configured secret key. A cookie that fails signature
// or expiry verification is treated as no session at all.

func (s *Server) signSessionID(sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.GetSecretKey()))
	if err != nil {
		return "", errors.Wrap(err, "[signSessionID] signing failed")
	}
	return signed, nil
}

func (s *Server) parseSessionCookie(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(s.config.GetSecretKey()), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Wrap(err, "[parseSessionCookie] verification failed")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("[parseSessionCookie] missing subject claim")
	}
	return claims.Subject, nil
}

// currentSession resolves the request's session, if any. Tampered or
// expired cookies and evicted store entries all come back as anonymous.
func (s *Server) currentSession(r *http.Request) (loginsession.Session, string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return loginsession.Session{}, "", false
	}

	sessionID, err := s.parseSessionCookie(cookie.Value)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected session cookie")
		return loginsession.Session{}, "", false
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return loginsession.Session{}, "", false
	}
	return session, sessionID, true
}

// establishSession transitions the browser from Anonymous to
// Authenticated: a fresh server-side session entry plus its signed cookie.
func (s *Server) establishSession(w http.ResponseWriter, r *http.Request, login auth.Login) error {
	now := time.Now()
	ttl := time.Duration(s.config.GetSessionTTLMinutes()) * time.Minute
	expiresAt := now.Add(ttl)

	sessionID := generateRandomString(32)
	session := loginsession.Session{
		SubjectID:   login.SubjectID,
		DisplayName: login.DisplayName,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}
	if err := s.sessions.Upsert(sessionID, session); err != nil {
		return errors.Wrap(err, "[establishSession] storing session failed")
	}

	signed, err := s.signSessionID(sessionID, expiresAt)
	if err != nil {
		_ = s.sessions.Delete(sessionID)
		return err
	}

	s.SetLoginSessionCookie(w, r, signed, int(ttl.Seconds()))
	return nil
}

// destroySession discards all session state for the request and returns
// the subject that held it, or "unknown". Idempotent: destroying an
// anonymous session is a no-op beyond clearing the cookie.
func (s *Server) destroySession(w http.ResponseWriter, r *http.Request) string {
	subjectID := "unknown"
	if session, sessionID, ok := s.currentSession(r); ok {
		subjectID = session.SubjectID
		_ = s.sessions.Delete(sessionID)
	}
	s.ClearLoginSessionCookie(w, r)
	return subjectID
}
