package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soucarbonell/portal-gateway/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SECRET_KEY", "secret")
	t.Setenv("SOPHIA_TENANT", "carbonell")
	t.Setenv("SOPHIA_USER", "system-user")
	t.Setenv("SOPHIA_PASSWORD", "system-pw")
	t.Setenv("SOPHIA_API_HOSTNAME", "api.sophia.example")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := config.New()
		require.Equal(t, ":8080", c.GetPort())
		require.Equal(t, "@soucarbonell.com.br", c.GetAllowedEmailDomain())
		require.Equal(t, 480, c.GetSessionTTLMinutes())
		require.Equal(t, 10, c.GetLoginRatePerMinute())
		require.Equal(t, 50, c.GetDefaultRatePerHour())
		require.Equal(t, 200, c.GetDefaultRatePerDay())
	})

	t.Run("port is normalized to a listen address", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		c := config.New()
		require.Equal(t, ":9090", c.GetPort())
	})

	t.Run("sophia base URL is tenant-scoped", func(t *testing.T) {
		setRequiredEnv(t)
		c := config.New()
		require.Equal(t, "https://api.sophia.example/SophiAWebApi/carbonell", c.GetSophiaBaseURL())
	})

	t.Run("validate reports every missing required variable", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SECRET_KEY", "")
		t.Setenv("SOPHIA_PASSWORD", "")
		err := config.Validate(config.New())
		require.Error(t, err)
		require.Contains(t, err.Error(), "SECRET_KEY")
		require.Contains(t, err.Error(), "SOPHIA_PASSWORD")
	})

	t.Run("validate passes with all required variables set", func(t *testing.T) {
		setRequiredEnv(t)
		require.NoError(t, config.Validate(config.New()))
	})
}
