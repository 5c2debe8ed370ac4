// Package sophia is the client for the Sophia school-management API.
// The gateway authenticates itself with a short-lived system token
// (cached, see TokenCache) and uses that token to validate end-user
// credentials. End-user validations are never cached.
package sophia

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/soucarbonell/portal-gateway/internal/errors"
)

const (
	authPath     = "/api/v1/Autenticacao"
	validatePath = "/api/v1/Alunos/ValidarLogin"

	authTimeout     = 15 * time.Second
	validateTimeout = 30 * time.Second

	// DefaultDisplayName is used when the validation response carries no name.
	DefaultDisplayName = "Estudante"
)

// Client performs outbound calls to the Sophia API. No retries: a failed
// call fails the whole login attempt and the user re-submits.
type Client struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
}

// ClientOption modifies a Client instance.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Sophia API client rooted at baseURL, authenticating
// the gateway itself with the given system user and password.
func NewClient(baseURL, user, password string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		user:       user,
		password:   password,
		httpClient: &http.Client{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// AuthenticateSystem exchanges the configured system credentials for a
// bearer token. The response body, trimmed of surrounding whitespace, is
// the token itself. Every failure mode (network error, timeout, non-2xx
// status, empty body) is logged with its cause and collapsed to
// ErrSystemUnavailable.
func (c *Client) AuthenticateSystem(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"usuario": c.user, "senha": c.password})
	if err != nil {
		log.Err(err).Msg("Failed to encode system authentication payload")
		return "", apperrors.ErrSystemUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+authPath, bytes.NewReader(payload))
	if err != nil {
		log.Err(err).Msg("Failed to build system authentication request")
		return "", apperrors.ErrSystemUnavailable
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Err(err).Msg("Failed to reach the Sophia authentication endpoint")
		return "", apperrors.ErrSystemUnavailable
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		log.Error().Int("status", resp.StatusCode).Msg("Sophia authentication endpoint returned an error status")
		return "", apperrors.ErrSystemUnavailable
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Err(err).Msg("Failed to read the Sophia authentication response")
		return "", apperrors.ErrSystemUnavailable
	}

	token := strings.TrimSpace(string(body))
	if token == "" {
		log.Warn().Msg("Sophia authentication endpoint returned an empty response")
		return "", apperrors.ErrSystemUnavailable
	}
	return token, nil
}

// validateLoginResponse is the subset of the ValidarLogin response the
// gateway relies on. alunoId is loosely typed upstream (seen both as a
// string and as a number), so it is decoded as an open value.
type validateLoginResponse struct {
	AcessoValido bool   `json:"acessoValido"`
	AlunoID      any    `json:"alunoId"`
	Nome         string `json:"nome"`
}

// ValidateStudentLogin checks a guardian/staff code and password against
// Sophia, authorized by the system token. Granted outcomes carry the
// subject ID from alunoId (falling back to the submitted code) and the
// display name from nome (falling back to DefaultDisplayName). A response
// without acessoValido=true is a denial; transport or parse failures are
// logged and collapse to ErrSystemUnavailable.
func (c *Client) ValidateStudentLogin(ctx context.Context, token, code, password string) (Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"codigo": code, "senha": password})
	if err != nil {
		log.Err(err).Msg("Failed to encode login validation payload")
		return Outcome{}, apperrors.ErrSystemUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+validatePath, bytes.NewReader(payload))
	if err != nil {
		log.Err(err).Msg("Failed to build login validation request")
		return Outcome{}, apperrors.ErrSystemUnavailable
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Err(err).Msg("Failed to reach the Sophia login validation endpoint")
		return Outcome{}, apperrors.ErrSystemUnavailable
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		log.Error().Int("status", resp.StatusCode).Msg("Sophia login validation endpoint returned an error status")
		return Outcome{}, apperrors.ErrSystemUnavailable
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var validation validateLoginResponse
	if err := decoder.Decode(&validation); err != nil {
		log.Err(err).Msg("Failed to decode the Sophia login validation response")
		return Outcome{}, apperrors.ErrSystemUnavailable
	}

	if !validation.AcessoValido {
		return Outcome{}, nil
	}

	return Outcome{
		Granted:     true,
		SubjectID:   subjectID(validation.AlunoID, code),
		DisplayName: displayName(validation.Nome),
	}, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func subjectID(alunoID any, fallback string) string {
	switch id := alunoID.(type) {
	case string:
		if id != "" {
			return id
		}
	case json.Number:
		return id.String()
	}
	return fallback
}

func displayName(nome string) string {
	if nome == "" {
		return DefaultDisplayName
	}
	return nome
}
