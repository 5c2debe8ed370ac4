package server

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/soucarbonell/portal-gateway/internal/errors"
)

// GoogleLoginHandler starts the student flow (GET /login/google): a
// fresh state value in a one-shot cookie, then off to Google.
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := s.currentSession(r); ok {
			http.Redirect(w, r, RoutePortal, http.StatusFound)
			return
		}

		state := generateRandomString(16)
		s.SetOAuthStateCookie(w, r, state)
		http.Redirect(w, r, s.google.AuthCodeURL(state), http.StatusFound)
	}
}

// GoogleCallbackHandler completes the student flow
// (GET /login/google/callback). Every failure path flashes a message and
// lands back on the login page as Anonymous.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if errorParam := r.URL.Query().Get("error"); errorParam != "" {
			log.Warn().Str("error", errorParam).Msg("Google authorization returned an error")
			s.flashAndLogin(w, r, msgGoogleUnavailable)
			return
		}

		state := r.URL.Query().Get("state")
		code := r.URL.Query().Get("code")
		if state == "" || code == "" {
			log.Warn().Msg("Google callback missing code or state")
			s.flashAndLogin(w, r, msgGoogleUnavailable)
			return
		}

		stateCookie, err := r.Cookie(oauthStateCookieName)
		s.ClearOAuthStateCookie(w, r)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
			log.Warn().Msg("Google callback state mismatch")
			s.flashAndLogin(w, r, msgGoogleUnavailable)
			return
		}

		login, err := s.auth.LoginWithGoogle(r.Context(), code)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrAccessDenied) {
				s.flashAndLogin(w, r, s.domainDeniedMessage())
			} else {
				s.flashAndLogin(w, r, msgGoogleUnavailable)
			}
			return
		}

		if err := s.establishSession(w, r, login); err != nil {
			log.Err(err).Msg("Failed to establish session after Google login")
			s.flashAndLogin(w, r, msgSystemUnavailable)
			return
		}
		http.Redirect(w, r, RoutePortal, http.StatusFound)
	}
}

func (s *Server) flashAndLogin(w http.ResponseWriter, r *http.Request, message string) {
	s.setFlash(w, r, message)
	http.Redirect(w, r, RouteLogin, http.StatusFound)
}

// domainDeniedMessage names the allowed domain so students on a personal
// account know which one to use.
func (s *Server) domainDeniedMessage() string {
	return fmt.Sprintf("Acesso permitido apenas para contas %s.", s.config.GetAllowedEmailDomain())
}
