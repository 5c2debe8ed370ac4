package server

func (s *Server) initRoutes() {
	// LOGIN: the login route carries its own, stricter per-address limit
	// in place of the defaults (10 attempts per minute).
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleware(s.loginRateLimit())...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleware(s.loginRateLimit())...))

	// Federated login (Google OIDC)
	s.RegisterRouteHandler("GET "+RouteGoogleLogin, ChainMiddleware(s.GoogleLoginHandler(), s.HTMLMiddleware(s.defaultRateLimit())...))
	s.RegisterRouteHandler("GET "+RouteGoogleCallback, ChainMiddleware(s.GoogleCallbackHandler(), s.HTMLMiddleware(s.defaultRateLimit())...))

	// Protected portal + logout
	s.RegisterRouteHandler("GET "+RoutePortal, ChainMiddleware(s.PortalHandler(), s.HTMLMiddleware(s.defaultRateLimit())...))
	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleware(s.defaultRateLimit())...))
}
