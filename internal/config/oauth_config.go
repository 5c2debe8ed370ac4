package config

import "github.com/allisson/go-env"

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetGoogleClientID() string {
	return env.GetString("GOOGLE_CLIENT_ID", "")
}

func (OAuth) GetGoogleClientSecret() string {
	return env.GetString("GOOGLE_CLIENT_SECRET", "")
}

// GetAllowedEmailDomain returns the suffix a student email must end with.
// Matching is a raw case-insensitive suffix check, so the value should
// include the leading "@" (the default does); configuring a bare domain
// widens the match to any subdomain-like string ending in it.
func (OAuth) GetAllowedEmailDomain() string {
	return env.GetString("ALLOWED_EMAIL_DOMAIN", "@soucarbonell.com.br")
}
