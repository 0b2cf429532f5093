package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays values from the environment. Only variables that are set
// override the current config.
func parseEnv(config *Config) {
	if v := os.Getenv("USERD_ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("USERD_DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("USERD_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("USERD_PROVIDER_BASE_URL"); v != "" {
		config.ProviderBaseURL = v
	}
	if v := os.Getenv("USERD_TOKEN_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v := os.Getenv("USERD_TOKEN_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenCacheTTL = d
		}
	}
	if v := os.Getenv("USERD_TOKEN_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.TokenCacheSize = n
		}
	}
	if v := os.Getenv("USERD_PROVIDER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.ProviderTimeout = d
		}
	}
}
