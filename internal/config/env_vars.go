package config

import (
	"fmt"

	"github.com/allisson/go-env"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := env.GetString("PORT", "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return env.GetString("APP_NAME", "Portal Carbonell")
}

// GetBaseURL returns the externally visible origin of the gateway,
// used to build the Google OAuth redirect URL.
func (EnvVars) GetBaseURL() string {
	return env.GetString("BASE_URL", "http://localhost:8080")
}

func (EnvVars) GetEnv() string {
	return env.GetString("ENV", "DEV")
}
