package config

import "github.com/allisson/go-env"

type Security struct{}

var _ SecurityConfig = Security{}

// GetSecretKey returns the key used to sign session cookies.
func (Security) GetSecretKey() string {
	return env.GetString("SECRET_KEY", "")
}

func (Security) GetSessionTTLMinutes() int {
	return env.GetInt("SESSION_TTL_MINUTES", 480)
}

// Login attempts per client address per minute.
func (Security) GetLoginRatePerMinute() int {
	return env.GetInt("LOGIN_RATE_PER_MINUTE", 10)
}

func (Security) GetDefaultRatePerHour() int {
	return env.GetInt("DEFAULT_RATE_PER_HOUR", 50)
}

func (Security) GetDefaultRatePerDay() int {
	return env.GetInt("DEFAULT_RATE_PER_DAY", 200)
}
