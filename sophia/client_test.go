package sophia_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/soucarbonell/portal-gateway/internal/errors"
	"github.com/soucarbonell/portal-gateway/sophia"
)

func TestClient_AuthenticateSystem(t *testing.T) {
	t.Run("returns the trimmed response body as the token", func(t *testing.T) {
		var gotBody map[string]string
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/v1/Autenticacao", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Write([]byte("  T1\n"))
		}))
		defer upstream.Close()

		client := sophia.NewClient(upstream.URL, "system-user", "system-pw")
		token, err := client.AuthenticateSystem(context.Background())
		require.NoError(t, err)
		require.Equal(t, "T1", token)
		require.Equal(t, map[string]string{"usuario": "system-user", "senha": "system-pw"}, gotBody)
	})

	t.Run("empty response body is a system failure", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("   \n"))
		}))
		defer upstream.Close()

		client := sophia.NewClient(upstream.URL, "u", "p")
		_, err := client.AuthenticateSystem(context.Background())
		require.ErrorIs(t, err, apperrors.ErrSystemUnavailable)
	})

	t.Run("error status is a system failure", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusUnauthorized)
		}))
		defer upstream.Close()

		client := sophia.NewClient(upstream.URL, "u", "p")
		_, err := client.AuthenticateSystem(context.Background())
		require.ErrorIs(t, err, apperrors.ErrSystemUnavailable)
	})

	t.Run("unreachable endpoint is a system failure", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		upstream.Close() // immediately unreachable

		client := sophia.NewClient(upstream.URL, "u", "p")
		_, err := client.AuthenticateSystem(context.Background())
		require.ErrorIs(t, err, apperrors.ErrSystemUnavailable)
	})
}

func TestClient_ValidateStudentLogin(t *testing.T) {
	t.Run("grants with subject and name from the response", func(t *testing.T) {
		var gotToken string
		var gotBody map[string]string
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/Alunos/ValidarLogin", r.URL.Path)
			gotToken = r.Header.Get("token")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"acessoValido": true, "alunoId": "A1", "nome": "Maria"}`))
		}))
		defer upstream.Close()

		client := sophia.NewClient(upstream.URL, "u", "p")
		outcome, err := client.ValidateStudentLogin(context.Background(), "T1", "123", "pw")
		require.NoError(t, err)
		require.True(t, outcome.Granted)
		require.Equal(t, "A1", outcome.SubjectID)
		require.Equal(t, "Maria", outcome.DisplayName)
		require.Equal(t, "T1", gotToken)
		require.Equal(t, map[string]string{"codigo": "123", "senha": "pw"}, gotBody)
	})

	t.Run("grants with a numeric alunoId", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"acessoValido": true, "alunoId": 4711, "nome": "Maria"}`))
		}))
		defer upstream.Close()

		client := sophia.NewClient(upstream.URL, "u", "p")
		outcome, err := client.ValidateStudentLogin(context.Background(), "T1", "123", "pw")
		require.NoError(t, err)
		require.Equal(t, "4711", outcome.SubjectID)
	})

	t.Run("falls back to the submitted code and default name", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"acessoValido": true}`))
		}))
		defer upstream.Close()

		client := sophia.NewClient(upstream.URL, "u", "p")
		outcome, err := client.ValidateStudentLogin(context.Background(), "T1", "123", "pw")
		require.NoError(t, err)
		require.True(t, outcome.Granted)
		require.Equal(t, "123", outcome.SubjectID)
		require.Equal(t, sophia.DefaultDisplayName, outcome.DisplayName)
	})

	t.Run("denies when acessoValido is false", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"acessoValido": false}`))
		}))
		defer upstream.Close()

		client := sophia.NewClient(upstream.URL, "u", "p")
		outcome, err := client.ValidateStudentLogin(context.Background(), "T1", "123", "wrong")
		require.NoError(t, err)
		require.False(t, outcome.Granted)
	})

	t.Run("denies when acessoValido is absent", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"alunoId": "A1"}`))
		}))
		defer upstream.Close()

		client := sophia.NewClient(upstream.URL, "u", "p")
		outcome, err := client.ValidateStudentLogin(context.Background(), "T1", "123", "pw")
		require.NoError(t, err)
		require.False(t, outcome.Granted)
	})

	t.Run("error status is a system failure", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer upstream.Close()

		client := sophia.NewClient(upstream.URL, "u", "p")
		_, err := client.ValidateStudentLogin(context.Background(), "T1", "123", "pw")
		require.ErrorIs(t, err, apperrors.ErrSystemUnavailable)
	})

	t.Run("unparseable body is a system failure", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>maintenance</html>"))
		}))
		defer upstream.Close()

		client := sophia.NewClient(upstream.URL, "u", "p")
		_, err := client.ValidateStudentLogin(context.Background(), "T1", "123", "pw")
		require.ErrorIs(t, err, apperrors.ErrSystemUnavailable)
	})
}
