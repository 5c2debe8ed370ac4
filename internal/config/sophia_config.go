package config

import (
	"fmt"

	"github.com/allisson/go-env"
)

type Sophia struct{}

var _ SophiaConfig = Sophia{}

func (Sophia) GetSophiaTenant() string {
	return env.GetString("SOPHIA_TENANT", "")
}

func (Sophia) GetSophiaUser() string {
	return env.GetString("SOPHIA_USER", "")
}

func (Sophia) GetSophiaPassword() string {
	return env.GetString("SOPHIA_PASSWORD", "")
}

func (Sophia) GetSophiaHostname() string {
	return env.GetString("SOPHIA_API_HOSTNAME", "")
}

// GetSophiaBaseURL returns the tenant-scoped root of the Sophia web API.
func (s Sophia) GetSophiaBaseURL() string {
	return fmt.Sprintf("https://%s/SophiAWebApi/%s", s.GetSophiaHostname(), s.GetSophiaTenant())
}
