// Package config exposes the gateway configuration, sourced from
// environment variables with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	SophiaConfig
	OAuthConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type SophiaConfig interface {
	GetSophiaTenant() string
	GetSophiaUser() string
	GetSophiaPassword() string
	GetSophiaHostname() string
	GetSophiaBaseURL() string
}

type OAuthConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetAllowedEmailDomain() string
}

type SecurityConfig interface {
	GetSecretKey() string
	GetSessionTTLMinutes() int
	GetLoginRatePerMinute() int
	GetDefaultRatePerHour() int
	GetDefaultRatePerDay() int
}

type mainConfig struct {
	EnvVars
	Sophia
	OAuth
	Security
}

func New() Config {
	loadDotEnv()
	return mainConfig{}
}

// Validate reports every required variable that is missing, so a
// misconfigured deployment fails at startup rather than on first login.
func Validate(c Config) error {
	var missing []string
	required := map[string]string{
		"SECRET_KEY":           c.GetSecretKey(),
		"SOPHIA_TENANT":        c.GetSophiaTenant(),
		"SOPHIA_USER":          c.GetSophiaUser(),
		"SOPHIA_PASSWORD":      c.GetSophiaPassword(),
		"SOPHIA_API_HOSTNAME":  c.GetSophiaHostname(),
		"GOOGLE_CLIENT_ID":     c.GetGoogleClientID(),
		"GOOGLE_CLIENT_SECRET": c.GetGoogleClientSecret(),
	}
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// loadDotEnv searches the current directory and its parents for a .env
// file. Absence is not an error: production deployments configure the
// process environment directly.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		envFile := filepath.Join(dir, ".env")
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
