// Package auth decides whether a login attempt succeeds and what
// authenticated state it establishes. Two flows exist: guardians/staff
// present a code and password validated against the Sophia API, and
// students arrive through Google OIDC gated by an email-domain
// allow-list. Identity is fully delegated upstream; there is no local
// user database.
package auth

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/soucarbonell/portal-gateway/googleauth"
	apperrors "github.com/soucarbonell/portal-gateway/internal/errors"
	"github.com/soucarbonell/portal-gateway/sophia"
)

// SystemTokenSource yields a valid system token for Sophia calls.
// *sophia.TokenCache satisfies it.
type SystemTokenSource interface {
	Token(ctx context.Context) (string, error)
}

// CredentialValidator checks end-user credentials upstream.
// *sophia.Client satisfies it.
type CredentialValidator interface {
	ValidateStudentLogin(ctx context.Context, token, code, password string) (sophia.Outcome, error)
}

// IdentityProvider completes a federated login and applies the domain
// gate. *googleauth.Adapter satisfies it.
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (googleauth.Identity, error)
	AllowedEmail(email string) bool
}

// Login is the authenticated identity a successful attempt establishes.
type Login struct {
	SubjectID   string
	DisplayName string
}

// Service gates session creation for both login flows.
type Service struct {
	tokens    SystemTokenSource
	validator CredentialValidator
	identity  IdentityProvider
}

// NewService initializes the session authenticator with its upstream
// collaborators.
func NewService(tokens SystemTokenSource, validator CredentialValidator, identity IdentityProvider) (*Service, error) {
	if tokens == nil {
		return nil, errors.New("[auth.NewService] token source is required")
	}
	if validator == nil {
		return nil, errors.New("[auth.NewService] credential validator is required")
	}
	if identity == nil {
		return nil, errors.New("[auth.NewService] identity provider is required")
	}
	return &Service{tokens: tokens, validator: validator, identity: identity}, nil
}

// LoginWithCredentials runs the guardian/staff flow: local input
// validation first (no outbound call on empty fields), then the cached
// system token, then the upstream credential check. Denials are logged at
// warn with the attempted code, never the password.
func (s *Service) LoginWithCredentials(ctx context.Context, code, password string) (Login, error) {
	if code == "" || password == "" {
		return Login{}, apperrors.ErrMissingCredentials
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return Login{}, err
	}

	outcome, err := s.validator.ValidateStudentLogin(ctx, token, code, password)
	if err != nil {
		return Login{}, err
	}

	if !outcome.Granted {
		log.Warn().Str("code", code).Msg("Login denied for user code")
		return Login{}, apperrors.ErrAccessDenied
	}

	log.Info().Str("code", code).Msg("Login succeeded for user code")
	return Login{SubjectID: outcome.SubjectID, DisplayName: outcome.DisplayName}, nil
}

// LoginWithGoogle runs the student flow: complete the code exchange,
// then apply the email-domain allow-list. Rejected emails are logged at
// warn for security monitoring.
func (s *Service) LoginWithGoogle(ctx context.Context, code string) (Login, error) {
	identity, err := s.identity.Exchange(ctx, code)
	if err != nil {
		return Login{}, err
	}

	if !s.identity.AllowedEmail(identity.Email) {
		log.Warn().Str("email", identity.Email).Msg("Google login rejected by the domain allow-list")
		return Login{}, apperrors.ErrAccessDenied
	}

	name := identity.Name
	if name == "" {
		name = sophia.DefaultDisplayName
	}

	log.Info().Str("email", identity.Email).Msg("Google login succeeded")
	return Login{SubjectID: identity.Email, DisplayName: name}, nil
}
