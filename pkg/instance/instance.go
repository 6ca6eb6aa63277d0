package instance

import (
	"os"

	"github.com/angelmondragon/storefront-configurator/pkg/env"
)

// EnvInstanceID overrides the identifier reported in API logs.
const EnvInstanceID = "CONFIGURATOR_INSTANCE_ID"

// GetID returns the process instance identifier: the configured id, then the platform dyno
// name, then the hostname.
func GetID() string {
	if id := env.Get(EnvInstanceID, env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "api-0"
}
