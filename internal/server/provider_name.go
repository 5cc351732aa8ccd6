package server

import (
	"strings"

	"github.com/preston-bernstein/msf-counter-service/internal/config"
)

// normalizeProviderName returns a lower-cased provider name, defaulting to the game API.
// Used across server wiring and provider factory to keep naming consistent in metrics/logs.
func normalizeProviderName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return config.ProviderMSF
	}
	return name
}
