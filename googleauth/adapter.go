// Package googleauth adapts the Google OpenID Connect flow for student
// logins. The OAuth dance itself (redirect, code exchange) is delegated
// to go-oidc and golang.org/x/oauth2; this package extracts the identity
// claims embedded in the ID token and applies the email-domain gate.
package googleauth

import (
	"context"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	apperrors "github.com/soucarbonell/portal-gateway/internal/errors"
)

const googleIssuer = "https://accounts.google.com"

// Identity is the claim set the gateway needs from a completed exchange.
type Identity struct {
	Email string
	Name  string
}

// Adapter is the relying-party side of the Google OIDC flow.
type Adapter struct {
	provider      *oidc.Provider
	oauth2Config  *oauth2.Config
	verifier      *oidc.IDTokenVerifier
	allowedDomain string
}

// New discovers Google's OIDC endpoints and prepares the authorization
// flow. redirectURL must match one of the client's registered callbacks.
func New(ctx context.Context, clientID, clientSecret, redirectURL, allowedDomain string) (*Adapter, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, apperrors.Wrapf(err, "googleauth.New: provider discovery failed")
	}

	return &Adapter{
		provider: provider,
		oauth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier:      provider.Verifier(&oidc.Config{ClientID: clientID}),
		allowedDomain: allowedDomain,
	}, nil
}

// AuthCodeURL builds the Google authorization URL for the given state.
func (a *Adapter) AuthCodeURL(state string) string {
	return a.oauth2Config.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and extracts the
// identity claims carried in the ID token, avoiding a second round-trip
// to the userinfo endpoint. Every failure (exchange error, missing or
// unverifiable ID token, missing claims) is logged with its cause and
// collapsed to ErrIdentityUnavailable.
func (a *Adapter) Exchange(ctx context.Context, code string) (Identity, error) {
	oauth2Token, err := a.oauth2Config.Exchange(ctx, code)
	if err != nil {
		log.Err(err).Msg("Google token exchange failed")
		return Identity{}, apperrors.ErrIdentityUnavailable
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		log.Error().Msg("Google token response carried no ID token")
		return Identity{}, apperrors.ErrIdentityUnavailable
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		log.Err(err).Msg("Google ID token verification failed")
		return Identity{}, apperrors.ErrIdentityUnavailable
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		log.Err(err).Msg("Failed to extract claims from Google ID token")
		return Identity{}, apperrors.ErrIdentityUnavailable
	}

	return Identity{Email: claims.Email, Name: claims.Name}, nil
}

// AllowedEmail applies the configured domain gate to an email claim.
func (a *Adapter) AllowedEmail(email string) bool {
	return AllowedEmail(email, a.allowedDomain)
}

// AllowedEmail reports whether email ends with the allowed domain suffix.
// This is deliberately a raw case-insensitive suffix match on the whole
// address, not a parse of the domain component; the configured suffix
// should therefore include the leading "@".
func AllowedEmail(email, allowedDomain string) bool {
	if email == "" || allowedDomain == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(email), strings.ToLower(allowedDomain))
}
