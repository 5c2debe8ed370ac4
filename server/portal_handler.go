package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// PortalPageData contains data for rendering the portal page
type PortalPageData struct {
	AppName     string
	DisplayName string
	LogoutPath  string
}

// PortalHandler renders the protected portal page (GET /portal).
// Anonymous access never renders content: it flashes a notice and
// redirects to login.
func (s *Server) PortalHandler() http.HandlerFunc {
	portalTmpl, err := ParseTemplate("portal.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse portal template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		session, _, ok := s.currentSession(r)
		if !ok {
			s.flashAndLogin(w, r, msgLoginRequired)
			return
		}

		if portalTmpl == nil {
			http.Error(w, "Failed to render portal page", http.StatusInternalServerError)
			return
		}

		data := PortalPageData{
			AppName:     s.config.GetAppName(),
			DisplayName: session.DisplayName,
			LogoutPath:  RouteLogout,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := portalTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render portal template")
			http.Error(w, "Failed to render portal page", http.StatusInternalServerError)
		}
	}
}
