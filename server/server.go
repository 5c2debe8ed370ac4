// Package server hosts the HTTP surface of the portal gateway: the login
// page for both flows, the Google OAuth redirect pair, the protected
// portal page, and logout.
package server

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/soucarbonell/portal-gateway/auth"
	"github.com/soucarbonell/portal-gateway/internal/config"
	"github.com/soucarbonell/portal-gateway/server/loginsession"
)

// OAuthRedirector builds the authorization URL for the federated login
// redirect. *googleauth.Adapter satisfies it.
type OAuthRedirector interface {
	AuthCodeURL(state string) string
}

type Server struct {
	env      string // Environment (e.g., "DEV", "production")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	auth     *auth.Service
	google   OAuthRedirector
	sessions loginsession.Repo

	loginLimiter  *rateLimiterStore
	hourlyLimiter *rateLimiterStore
	dailyLimiter  *rateLimiterStore
}

func New(config config.Config, authService *auth.Service, google OAuthRedirector, sessionRepo loginsession.Repo) (*Server, error) {
	if authService == nil {
		return nil, errors.New("[server.New] auth service is required")
	}
	if google == nil {
		return nil, errors.New("[server.New] oauth redirector is required")
	}
	if sessionRepo == nil {
		return nil, errors.New("[server.New] session repo is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		auth:     authService,
		google:   google,
		sessions: sessionRepo,
	}
	s.env = config.GetEnv()

	s.newLimiters()
	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("Route registered")
		} else {
			log.Debug().Str("path", parts[0]).Msg("Route registered")
		}
	}
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
