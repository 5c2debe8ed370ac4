package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// LogoutHandler discards the session unconditionally (GET /logout).
// Logging out while already anonymous is a no-op that still redirects.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID := s.destroySession(w, r)
		log.Info().Str("subject", subjectID).Msg("User logged out")
		s.flashAndLogin(w, r, msgLoggedOut)
	}
}
