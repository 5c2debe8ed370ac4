package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/soucarbonell/portal-gateway/internal/errors"
)

// User-facing messages. Faults show generic text; the detailed cause is
// only ever logged.
const (
	msgMissingCredentials = "Código e senha são obrigatórios!"
	msgSystemUnavailable  = "Erro crítico no sistema. Tente novamente mais tarde."
	msgInvalidCredentials = "Código ou senha inválidos."
	msgLoginRequired      = "Você precisa fazer login para acessar esta página."
	msgLoggedOut          = "Você foi desconectado com sucesso."
	msgGoogleUnavailable  = "Não foi possível entrar com o Google. Tente novamente."
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName         string
	Flash           string
	GoogleLoginPath string
}

// LoginPageHandler displays the login page (GET /). Users who already
// hold a session go straight to the portal.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := s.currentSession(r); ok {
			http.Redirect(w, r, RoutePortal, http.StatusFound)
			return
		}
		s.renderLogin(w, r, loginTmpl, s.popFlash(w, r))
	}
}

// LoginSubmissionHandler processes the guardian/staff login form (POST /).
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := s.currentSession(r); ok {
			http.Redirect(w, r, RoutePortal, http.StatusFound)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		code := r.FormValue("codigo")
		password := r.FormValue("senha")

		login, err := s.auth.LoginWithCredentials(r.Context(), code, password)
		if err != nil {
			s.renderLogin(w, r, loginTmpl, loginErrorMessage(err))
			return
		}

		if err := s.establishSession(w, r, login); err != nil {
			log.Err(err).Msg("Failed to establish session after credential login")
			s.renderLogin(w, r, loginTmpl, msgSystemUnavailable)
			return
		}
		http.Redirect(w, r, RoutePortal, http.StatusFound)
	}
}

// loginErrorMessage translates a flow error into the message the user
// sees: specific for local validation and denials, generic for faults.
func loginErrorMessage(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrMissingCredentials):
		return msgMissingCredentials
	case apperrors.Is(err, apperrors.ErrAccessDenied):
		return msgInvalidCredentials
	default:
		return msgSystemUnavailable
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, tmpl *template.Template, flash string) {
	if tmpl == nil {
		http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		return
	}
	data := LoginPageData{
		AppName:         s.config.GetAppName(),
		Flash:           flash,
		GoogleLoginPath: RouteGoogleLogin,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render login template")
		http.Error(w, "Failed to render login page", http.StatusInternalServerError)
	}
}
