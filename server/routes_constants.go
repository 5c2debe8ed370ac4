package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteLogin          = "/"
	RouteGoogleLogin    = "/login/google"
	RouteGoogleCallback = "/login/google/callback"
	RoutePortal         = "/portal"
	RouteLogout         = "/logout"
)
