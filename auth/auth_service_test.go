package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soucarbonell/portal-gateway/auth"
	"github.com/soucarbonell/portal-gateway/googleauth"
	apperrors "github.com/soucarbonell/portal-gateway/internal/errors"
	"github.com/soucarbonell/portal-gateway/sophia"
)

type fakeTokenSource struct {
	token string
	err   error
	calls int
}

func (f *fakeTokenSource) Token(_ context.Context) (string, error) {
	f.calls++
	return f.token, f.err
}

type fakeValidator struct {
	outcome   sophia.Outcome
	err       error
	calls     int
	gotToken  string
	gotCode   string
	gotSecret string
}

func (f *fakeValidator) ValidateStudentLogin(_ context.Context, token, code, password string) (sophia.Outcome, error) {
	f.calls++
	f.gotToken = token
	f.gotCode = code
	f.gotSecret = password
	return f.outcome, f.err
}

type fakeIdentity struct {
	identity googleauth.Identity
	err      error
	allowed  bool
}

func (f *fakeIdentity) Exchange(_ context.Context, _ string) (googleauth.Identity, error) {
	return f.identity, f.err
}

func (f *fakeIdentity) AllowedEmail(_ string) bool {
	return f.allowed
}

func newService(t *testing.T, tokens *fakeTokenSource, validator *fakeValidator, identity *fakeIdentity) *auth.Service {
	t.Helper()
	service, err := auth.NewService(tokens, validator, identity)
	require.NoError(t, err)
	return service
}

func TestService_LoginWithCredentials(t *testing.T) {
	t.Run("empty input is rejected before any upstream call", func(t *testing.T) {
		tokens := &fakeTokenSource{token: "T1"}
		validator := &fakeValidator{}
		service := newService(t, tokens, validator, &fakeIdentity{})

		for _, input := range [][2]string{{"", "pw"}, {"123", ""}, {"", ""}} {
			_, err := service.LoginWithCredentials(context.Background(), input[0], input[1])
			require.ErrorIs(t, err, apperrors.ErrMissingCredentials)
		}
		require.Zero(t, tokens.calls)
		require.Zero(t, validator.calls)
	})

	t.Run("system token failure surfaces as system unavailable", func(t *testing.T) {
		tokens := &fakeTokenSource{err: apperrors.ErrSystemUnavailable}
		validator := &fakeValidator{}
		service := newService(t, tokens, validator, &fakeIdentity{})

		_, err := service.LoginWithCredentials(context.Background(), "123", "pw")
		require.ErrorIs(t, err, apperrors.ErrSystemUnavailable)
		require.Zero(t, validator.calls)
	})

	t.Run("validation failure surfaces as system unavailable", func(t *testing.T) {
		tokens := &fakeTokenSource{token: "T1"}
		validator := &fakeValidator{err: apperrors.ErrSystemUnavailable}
		service := newService(t, tokens, validator, &fakeIdentity{})

		_, err := service.LoginWithCredentials(context.Background(), "123", "pw")
		require.ErrorIs(t, err, apperrors.ErrSystemUnavailable)
	})

	t.Run("denied credentials surface as access denied", func(t *testing.T) {
		tokens := &fakeTokenSource{token: "T1"}
		validator := &fakeValidator{outcome: sophia.Outcome{}}
		service := newService(t, tokens, validator, &fakeIdentity{})

		_, err := service.LoginWithCredentials(context.Background(), "123", "wrong")
		require.ErrorIs(t, err, apperrors.ErrAccessDenied)
	})

	t.Run("granted credentials establish the login identity", func(t *testing.T) {
		tokens := &fakeTokenSource{token: "T1"}
		validator := &fakeValidator{outcome: sophia.Outcome{Granted: true, SubjectID: "A1", DisplayName: "Maria"}}
		service := newService(t, tokens, validator, &fakeIdentity{})

		login, err := service.LoginWithCredentials(context.Background(), "123", "pw")
		require.NoError(t, err)
		require.Equal(t, "A1", login.SubjectID)
		require.Equal(t, "Maria", login.DisplayName)
		require.Equal(t, "T1", validator.gotToken)
		require.Equal(t, "123", validator.gotCode)
		require.Equal(t, "pw", validator.gotSecret)
	})
}

func TestService_LoginWithGoogle(t *testing.T) {
	t.Run("exchange failure surfaces as identity unavailable", func(t *testing.T) {
		identity := &fakeIdentity{err: apperrors.ErrIdentityUnavailable}
		service := newService(t, &fakeTokenSource{}, &fakeValidator{}, identity)

		_, err := service.LoginWithGoogle(context.Background(), "code")
		require.ErrorIs(t, err, apperrors.ErrIdentityUnavailable)
	})

	t.Run("disallowed email surfaces as access denied", func(t *testing.T) {
		identity := &fakeIdentity{identity: googleauth.Identity{Email: "user@other.com", Name: "User"}}
		service := newService(t, &fakeTokenSource{}, &fakeValidator{}, identity)

		_, err := service.LoginWithGoogle(context.Background(), "code")
		require.ErrorIs(t, err, apperrors.ErrAccessDenied)
	})

	t.Run("allowed email becomes the session subject", func(t *testing.T) {
		identity := &fakeIdentity{
			identity: googleauth.Identity{Email: "aluno@soucarbonell.com.br", Name: "Aluno"},
			allowed:  true,
		}
		service := newService(t, &fakeTokenSource{}, &fakeValidator{}, identity)

		login, err := service.LoginWithGoogle(context.Background(), "code")
		require.NoError(t, err)
		require.Equal(t, "aluno@soucarbonell.com.br", login.SubjectID)
		require.Equal(t, "Aluno", login.DisplayName)
	})

	t.Run("missing name claim falls back to the default label", func(t *testing.T) {
		identity := &fakeIdentity{
			identity: googleauth.Identity{Email: "aluno@soucarbonell.com.br"},
			allowed:  true,
		}
		service := newService(t, &fakeTokenSource{}, &fakeValidator{}, identity)

		login, err := service.LoginWithGoogle(context.Background(), "code")
		require.NoError(t, err)
		require.Equal(t, sophia.DefaultDisplayName, login.DisplayName)
	})

	t.Run("nil dependencies are rejected at construction", func(t *testing.T) {
		_, err := auth.NewService(nil, &fakeValidator{}, &fakeIdentity{})
		require.Error(t, err)
	})
}
